// Package tokenizer turns TI-BASIC source text into a token stream and
// back, the same greedy-longest-match algorithm as titokens's
// Tokenizer::tokenize: walk the text, find the longest registered spelling
// that matches at the current position, and emit its token.
package tokenizer

import (
	"fmt"
	"strings"

	"tibasicopt/internal/token"
	"tibasicopt/internal/tokensheet"
)

// trieNode is a plain map-based prefix trie. The pack carries no trie
// library in its dependency surface (the original uses Rust's
// radix_trie, which has no counterpart among the example repos'
// third-party stacks), so this is hand-rolled over the standard library.
type trieNode struct {
	children map[rune]*trieNode
	tok      token.Token
	has      bool
}

func newTrieNode() *trieNode { return &trieNode{children: map[rune]*trieNode{}} }

func (n *trieNode) insert(spelling string, tok token.Token) {
	cur := n
	for _, r := range spelling {
		child, ok := cur.children[r]
		if !ok {
			child = newTrieNode()
			cur.children[r] = child
		}
		cur = child
	}
	cur.tok = tok
	cur.has = true
}

// longestMatch finds the longest spelling in the trie that is a prefix of
// text, returning its token and byte length. ok is false if nothing
// matches.
func (n *trieNode) longestMatch(text string) (tok token.Token, length int, ok bool) {
	cur := n
	runes := []rune(text)
	var lastTok token.Token
	var lastLen int
	var lastOK bool
	consumed := 0
	for _, r := range runes {
		child, exists := cur.children[r]
		if !exists {
			break
		}
		cur = child
		consumed += len(string(r))
		if cur.has {
			lastTok = cur.tok
			lastLen = consumed
			lastOK = true
		}
	}
	return lastTok, lastLen, lastOK
}

// Tokenizer tokenizes and stringifies TI-BASIC source at a fixed version
// and language, built once from a tokensheet.Sheet.
type Tokenizer struct {
	version token.Version
	lang    string
	root    *trieNode
	names   map[token.Token]string // preferred display spelling, for Stringify
}

// New builds a Tokenizer over every opcode in sheet whose spelling resolves
// at version in lang.
func New(sheet *tokensheet.Sheet, version token.Version, lang string) *Tokenizer {
	tz := &Tokenizer{
		version: version,
		lang:    lang,
		root:    newTrieNode(),
		names:   map[token.Token]string{},
	}
	for _, tok := range sheet.Tokens() {
		tr, ok := sheet.Resolve(tok, version, lang)
		if !ok {
			continue
		}
		for _, spelling := range sheet.Spellings(tok) {
			tz.root.insert(spelling, tok)
		}
		tz.names[tok] = tr.Display
	}
	tz.root.insert("\r\n", token.One(token.ByteNewline))
	tz.root.insert("\n", token.One(token.ByteNewline))
	return tz
}

// Tokens is a decoded token stream.
type Tokens []token.Token

// TokenBoundaries maps token indices to the byte ranges of the source text
// they came from (or, for Stringify, the byte ranges of the rendered
// text), mirroring titokens's TokenBoundaries.
type TokenBoundaries struct {
	text       string
	boundaries []int // cumulative end offsets, one per token
}

// Single returns the byte range of the token at idx.
func (b TokenBoundaries) Single(idx int) (start, end int) {
	if idx < 0 || idx >= len(b.boundaries) {
		return 0, 0
	}
	start = 0
	if idx > 0 {
		start = b.boundaries[idx-1]
	}
	return start, b.boundaries[idx]
}

// Range returns the byte range spanning tokens [lo, hi).
func (b TokenBoundaries) Range(lo, hi int) (start, end int) {
	if hi <= lo {
		return 0, 0
	}
	start, _ = b.Single(lo)
	_, end = b.Single(hi - 1)
	return start, end
}

// Text returns the underlying text the boundaries were computed against.
func (b TokenBoundaries) Text() string { return b.text }

// ErrNoMatch is returned when no registered spelling matches the text at
// the current position.
type ErrNoMatch struct {
	Offset int
	Rest   string
}

func (e *ErrNoMatch) Error() string {
	rest := e.Rest
	if len(rest) > 16 {
		rest = rest[:16] + "..."
	}
	return fmt.Sprintf("tokenizer: no match at byte %d: %q", e.Offset, rest)
}

// Tokenize converts source text into a token stream plus the byte
// boundaries each token occupied in the input, by repeatedly taking the
// longest matching spelling at the current position.
func (tz *Tokenizer) Tokenize(text string) (Tokens, TokenBoundaries, error) {
	var out Tokens
	var bounds []int
	pos := 0
	for pos < len(text) {
		tok, n, ok := tz.root.longestMatch(text[pos:])
		if !ok {
			return nil, TokenBoundaries{}, &ErrNoMatch{Offset: pos, Rest: text[pos:]}
		}
		pos += n
		out = append(out, tok)
		bounds = append(bounds, pos)
	}
	return out, TokenBoundaries{text: text, boundaries: bounds}, nil
}

// Stringify renders a token stream back into text using each token's
// preferred display spelling, and returns the boundaries of the rendered
// substrings.
func (tz *Tokenizer) Stringify(toks Tokens) (string, TokenBoundaries) {
	var sb strings.Builder
	bounds := make([]int, 0, len(toks))
	for _, tok := range toks {
		sb.WriteString(tz.spellingFor(tok))
		bounds = append(bounds, sb.Len())
	}
	text := sb.String()
	return text, TokenBoundaries{text: text, boundaries: bounds}
}

func (tz *Tokenizer) spellingFor(tok token.Token) string {
	if s, ok := tz.names[tok]; ok {
		return s
	}
	return tok.String()
}

// Version reports the version this tokenizer was built for.
func (tz *Tokenizer) Version() token.Version { return tz.version }
