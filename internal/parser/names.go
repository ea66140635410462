package parser

import (
	"fmt"

	"tibasicopt/internal/ast"
	"tibasicopt/internal/token"
)

// The slot tables below map a name category's trailing opcode byte to its
// raw accessible spelling, grounded on the matching component in
// _examples/original_source/ti-basic-optimizer/src/parse/components/. Each
// table's length is the closed set ast's constructors already validate
// against; equationBytes and windowVarBytes are a representative subset of
// the original's full byte range rather than its every slot, since the
// original's ROM catalog assigns individual equation/window-var names to
// bytes outside what this module's source carries.

var builtinListBytes = []string{"L1", "L2", "L3", "L4", "L5", "L6"}

var matrixBytes = []string{"[A]", "[B]", "[C]", "[D]", "[E]", "[F]", "[G]", "[H]", "[I]"}

var stringVarBytes = []string{"Str0", "Str1", "Str2", "Str3", "Str4", "Str5", "Str6", "Str7", "Str8", "Str9"}

var pictureBytes = []string{"Pic0", "Pic1", "Pic2", "Pic3", "Pic4", "Pic5", "Pic6", "Pic7", "Pic8", "Pic9"}

var imageBytes = []string{"Image0", "Image1", "Image2", "Image3", "Image4", "Image5", "Image6", "Image7", "Image8", "Image9"}

var equationBytes = []string{"Y1", "Y2", "Y3", "Y4", "Y5", "Y6", "Y7", "Y8", "Y9", "Y0"}

var windowVarBytes = []string{
	"Xmin", "Xmax", "Xscl", "Ymin", "Ymax", "Yscl",
	"Tmin", "Tmax", "Tstep", "Thetamin", "Thetamax", "Thetastep",
}

func slotAt(slots []string, b byte) (string, bool) {
	if int(b) >= len(slots) {
		return "", false
	}
	return slots[b], true
}

// nameSlot is a (kind, raw spelling) pair found by matching a wide token
// against one of the name-category prefixes.
type nameSlot struct {
	kind ast.NameKind
	raw  string
}

// nonNumericNameSlot recognizes a two-byte opcode as one of the non-numeric
// name categories (list, matrix, string, picture, image, equation, window
// variable). Numeric variables and custom list names are handled
// separately, since they are one-byte and marker-prefixed forms
// respectively rather than closed two-byte catalogs.
func nonNumericNameSlot(tok token.Token) (nameSlot, bool) {
	if !tok.IsWide() {
		return nameSlot{}, false
	}
	switch tok.Prefix() {
	case token.PrefixListBuiltin:
		if raw, ok := slotAt(builtinListBytes, tok.Byte()); ok {
			return nameSlot{ast.NameList, raw}, true
		}
	case token.PrefixMatrix:
		if raw, ok := slotAt(matrixBytes, tok.Byte()); ok {
			return nameSlot{ast.NameMatrix, raw}, true
		}
	case token.PrefixString:
		if raw, ok := slotAt(stringVarBytes, tok.Byte()); ok {
			return nameSlot{ast.NameString, raw}, true
		}
	case token.PrefixPicture:
		if raw, ok := slotAt(pictureBytes, tok.Byte()); ok {
			return nameSlot{ast.NamePicture, raw}, true
		}
	case token.PrefixColor:
		if tok.Byte() >= 0x50 {
			if raw, ok := slotAt(imageBytes, tok.Byte()-0x50); ok {
				return nameSlot{ast.NameImage, raw}, true
			}
		}
	case token.PrefixEquation:
		if tok.Byte() >= 0x10 {
			if raw, ok := slotAt(equationBytes, tok.Byte()-0x10); ok {
				return nameSlot{ast.NameEquation, raw}, true
			}
		}
	case token.PrefixWindowVar:
		if raw, ok := slotAt(windowVarBytes, tok.Byte()); ok {
			return nameSlot{ast.NameWindowVar, raw}, true
		}
	}
	return nameSlot{}, false
}

// newName builds the validated ast.Name for a matched slot.
func newName(slot nameSlot) (ast.Name, error) {
	switch slot.kind {
	case ast.NameList:
		return ast.NewListName(slot.raw)
	case ast.NameMatrix:
		return ast.NewMatrixName(slot.raw)
	case ast.NameString:
		return ast.NewStringName(slot.raw)
	case ast.NamePicture:
		return ast.NewPictureName(slot.raw)
	case ast.NameImage:
		return ast.NewImageName(slot.raw)
	case ast.NameEquation:
		return ast.NewEquationName(slot.raw)
	case ast.NameWindowVar:
		return ast.NewWindowVarName(slot.raw)
	default:
		return ast.Name{}, fmt.Errorf("parser: unhandled name kind %v", slot.kind)
	}
}

// isCustomListStart reports whether tok opens a custom list name: the
// shared "{" marker immediately followed by a letter other than theta
// (components/list_name.rs's Custom variant).
func isCustomListStart(p *Parser, tok token.Token) bool {
	if !tok.Equal(token.One(token.ByteCustomListMark)) {
		return false
	}
	next, ok := p.cur.PeekAt(1)
	return ok && next.IsAlpha() && next.Byte() != token.ByteTheta
}

// parseCustomListName reads a custom list name at the cursor, which must
// already be positioned on its "{" marker: 1-5 alphanumeric characters
// starting with a letter.
func (p *Parser) parseCustomListName() (ast.Name, error) {
	p.cur.Next() // the "{" custom-list-name marker
	var raw []byte
	for {
		tok, ok := p.cur.Peek()
		if !ok || len(raw) >= 5 {
			break
		}
		if len(raw) == 0 && (!tok.IsAlpha() || tok.Byte() == token.ByteTheta) {
			break
		}
		if len(raw) > 0 && !tok.IsAlphanumeric() {
			break
		}
		raw = append(raw, tok.Byte())
		p.cur.Next()
	}
	if len(raw) == 0 {
		return ast.Name{}, p.errUnexpectedToken(token.One(token.ByteCustomListMark), "custom list name must start with a letter")
	}
	return ast.NewListName(string(raw))
}

// pseudoVariableExpr recognizes GetKey, GetDate, StartTmr, and TblInput
// (components/pseudovariable.rs): zero-argument operands identified by
// opcode, never by name lookup.
func pseudoVariableExpr(tok token.Token) (ast.Expr, bool) {
	switch {
	case tok.Equal(token.One(token.ByteGetKey)):
		return &ast.GetKeyExpr{}, true
	case tok.Equal(token.Two(token.PrefixColor, token.ByteGetDate)):
		return &ast.GetDateExpr{}, true
	case tok.Equal(token.Two(token.PrefixColor, token.ByteStartTmr)):
		return &ast.StartTmrExpr{}, true
	case tok.Equal(token.Two(token.PrefixColor, token.ByteTblInput)):
		return &ast.TblInputExpr{}, true
	default:
		return nil, false
	}
}

// functionCallOpcodes is the representative subset of
// components/function_call.rs's closed function set this module wires up,
// keyed by opcode and valued by the accessible spelling (including the
// opening paren) the token sheet and reconstructor resolve it by.
var functionCallOpcodes = map[token.Token]string{
	token.One(token.ByteFuncMax):                         "max(",
	token.One(token.ByteFuncMin):                         "min(",
	token.One(token.ByteFuncInt):                         "int(",
	token.One(token.ByteFuncAbs):                         "abs(",
	token.One(token.ByteFuncDim):                         "dim(",
	token.One(token.ByteFuncSum):                         "sum(",
	token.One(token.ByteFuncNot):                         "not(",
	token.One(token.ByteFuncSqrt):                        "sqrt(",
	token.One(token.ByteFuncCbrt):                        "cbrt(",
	token.One(token.ByteFuncLn):                          "ln(",
	token.One(token.ByteFuncLog):                         "log(",
	token.One(token.ByteFuncSin):                         "sin(",
	token.One(token.ByteFuncATan):                        "atan(",
	token.Two(token.PrefixDelVarEtAl, token.ByteRandInt): "randInt(",
}

// parseFunctionCall parses Opcode(Arg1,Arg2,...) into an ast.Call, mirroring
// components/function_call.rs: the opcode is consumed (its accessible
// spelling already carries the opening paren), then comma-separated
// expressions follow up to a closing paren.
func (p *Parser) parseFunctionCall(tok token.Token, name string) (ast.Expr, error) {
	p.cur.Next()
	call := &ast.Call{Name: name}

	if next, ok := p.cur.Peek(); ok && next.Equal(token.One(token.ByteCloseParen)) {
		p.cur.Next()
		return call, nil
	}

	for {
		arg, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)

		next, ok := p.cur.Peek()
		switch {
		case ok && next.Equal(token.One(token.ByteComma)):
			p.cur.Next()
			continue
		case ok && next.Equal(token.One(token.ByteCloseParen)):
			p.cur.Next()
		}
		break
	}
	return call, nil
}
