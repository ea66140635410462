package tokensheet

import (
	"testing"

	"tibasicopt/internal/token"
)

func TestResolveBasicOpcode(t *testing.T) {
	s := MustParseCurated()
	tr, ok := s.Resolve(token.One(token.ByteIf), token.Version{Model: token.ModelTI82, OSVersion: "1.0"}, "en")
	if !ok {
		t.Fatalf("expected If to resolve")
	}
	if tr.TIAscii != "If " {
		t.Errorf("TIAscii = %q, want %q", tr.TIAscii, "If ")
	}
}

func TestResolveColorConstantGatedByVersion(t *testing.T) {
	s := MustParseCurated()
	tok := token.Two(token.PrefixColor, 0x41)

	if _, ok := s.Resolve(tok, token.Version{Model: token.ModelTI83Plus, OSVersion: "1.19"}, "en"); ok {
		t.Errorf("color constant must not resolve on a pre-CE model")
	}
	tr, ok := s.Resolve(tok, token.EarliestColor, "en")
	if !ok {
		t.Fatalf("expected [black] to resolve at EarliestColor")
	}
	if tr.TIAscii != "[black]" {
		t.Errorf("TIAscii = %q, want [black]", tr.TIAscii)
	}
}

func TestSpellingsIncludesAccessibleForm(t *testing.T) {
	s := MustParseCurated()
	spellings := s.Spellings(token.One(token.ByteWhile))
	found := false
	for _, sp := range spellings {
		if sp == "While " {
			found = true
		}
	}
	if !found {
		t.Errorf("Spellings(While) = %v, want to include %q", spellings, "While ")
	}
}

func TestResolveByAccessibleNameRoundTripsResolve(t *testing.T) {
	s := MustParseCurated()
	tok, ok := s.ResolveByAccessibleName("If ", token.Version{Model: token.ModelTI82, OSVersion: "1.0"}, "en")
	if !ok {
		t.Fatalf("expected %q to resolve", "If ")
	}
	if !tok.Equal(token.One(token.ByteIf)) {
		t.Errorf("ResolveByAccessibleName(%q) = %v, want the If opcode", "If ", tok)
	}
}

func TestResolveByAccessibleNameGatedByVersion(t *testing.T) {
	s := MustParseCurated()
	if _, ok := s.ResolveByAccessibleName("randInt(", token.Version{Model: token.ModelTI83Plus, OSVersion: "1.0"}, "en"); ok {
		t.Errorf("randInt( must not resolve before TI-84+CE:5.2.0")
	}
	if _, ok := s.ResolveByAccessibleName("randInt(", token.Latest, "en"); !ok {
		t.Errorf("expected randInt( to resolve at the latest version")
	}
}

func TestResolveByAccessibleNameUnknownNameDoesNotResolve(t *testing.T) {
	s := MustParseCurated()
	if _, ok := s.ResolveByAccessibleName("notARealCommand(", token.Latest, "en"); ok {
		t.Errorf("expected an unknown accessible name not to resolve")
	}
}

func TestUnknownTokenDoesNotResolve(t *testing.T) {
	s := MustParseCurated()
	if _, ok := s.Resolve(token.One(0xFF), token.Latest, "en"); ok {
		t.Errorf("expected unassigned opcode 0xFF not to resolve")
	}
}
