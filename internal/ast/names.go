package ast

import "fmt"

// NameKind identifies which of the closed name categories (spec.md §3)
// a Name belongs to.
type NameKind int

const (
	NameNumericVar NameKind = iota
	NameList
	NameMatrix
	NameString
	NamePicture
	NameImage
	NameEquation
	NameWindowVar
)

func (k NameKind) String() string {
	switch k {
	case NameNumericVar:
		return "numeric-variable"
	case NameList:
		return "list"
	case NameMatrix:
		return "matrix"
	case NameString:
		return "string"
	case NamePicture:
		return "picture"
	case NameImage:
		return "image"
	case NameEquation:
		return "equation"
	case NameWindowVar:
		return "window-variable"
	default:
		return "name"
	}
}

// Name is a validated identifier drawn from one of the closed variant
// categories. Raw carries the canonical accessible spelling (e.g. "L1",
// "[A]", "Str0", "Y1"); BadNameError is raised by the constructors below
// when a candidate spelling does not fit its category's grammar.
type Name struct {
	Kind NameKind
	Raw  string
}

func (n Name) String() string { return n.Raw }

// BadNameError reports why a candidate identifier was rejected, feeding
// diag's BadName error kind.
type BadNameError struct {
	Kind NameKind
	Text string
	Why  string
}

func (e *BadNameError) Error() string {
	return fmt.Sprintf("bad %s name %q: %s", e.Kind, e.Text, e.Why)
}

var builtinLists = map[string]bool{
	"L1": true, "L2": true, "L3": true, "L4": true, "L5": true, "L6": true,
}

// NewListName validates a list name: one of the six built-ins, or a
// custom 1-5 character alphanumeric name starting with a letter.
func NewListName(raw string) (Name, error) {
	if builtinLists[raw] {
		return Name{Kind: NameList, Raw: raw}, nil
	}
	if len(raw) < 1 || len(raw) > 5 {
		return Name{}, &BadNameError{Kind: NameList, Text: raw, Why: "must be 1-5 characters"}
	}
	if !isLetter(raw[0]) {
		return Name{}, &BadNameError{Kind: NameList, Text: raw, Why: "must start with a letter"}
	}
	for i := 1; i < len(raw); i++ {
		if !isLetter(raw[i]) && !isDigit(raw[i]) {
			return Name{}, &BadNameError{Kind: NameList, Text: raw, Why: "must be alphanumeric"}
		}
	}
	return Name{Kind: NameList, Raw: raw}, nil
}

// matrixSlots is the nine matrix-name slots per spec.md §3.
var matrixSlots = []string{"[A]", "[B]", "[C]", "[D]", "[E]", "[F]", "[G]", "[H]", "[I]"}

// NewMatrixName validates one of the nine matrix slots.
func NewMatrixName(raw string) (Name, error) {
	for _, slot := range matrixSlots {
		if raw == slot {
			return Name{Kind: NameMatrix, Raw: raw}, nil
		}
	}
	return Name{}, &BadNameError{Kind: NameMatrix, Text: raw, Why: "not one of the nine matrix slots"}
}

// stringSlots is the ten string-variable slots, Str0 through Str9.
var stringSlots = []string{"Str0", "Str1", "Str2", "Str3", "Str4", "Str5", "Str6", "Str7", "Str8", "Str9"}

// NewStringName validates one of the ten string-variable slots.
func NewStringName(raw string) (Name, error) {
	for _, slot := range stringSlots {
		if raw == slot {
			return Name{Kind: NameString, Raw: raw}, nil
		}
	}
	return Name{}, &BadNameError{Kind: NameString, Text: raw, Why: "not one of the ten string slots"}
}

// NewNumericVarName validates a single-letter (or theta) numeric variable
// name.
func NewNumericVarName(raw string) (Name, error) {
	if raw != "theta" && (len(raw) != 1 || !isLetter(raw[0])) {
		return Name{}, &BadNameError{Kind: NameNumericVar, Text: raw, Why: "must be a single letter or theta"}
	}
	return Name{Kind: NameNumericVar, Raw: raw}, nil
}

// picture and image names: Pic1-Pic9/Pic0, Image1-Image9/Image0.
func NewPictureName(raw string) (Name, error) {
	if !hasNumericSuffixSlot(raw, "Pic") {
		return Name{}, &BadNameError{Kind: NamePicture, Text: raw, Why: "must be Pic0-Pic9"}
	}
	return Name{Kind: NamePicture, Raw: raw}, nil
}

func NewImageName(raw string) (Name, error) {
	if !hasNumericSuffixSlot(raw, "Image") {
		return Name{}, &BadNameError{Kind: NameImage, Text: raw, Why: "must be Image0-Image9"}
	}
	return Name{Kind: NameImage, Raw: raw}, nil
}

func hasNumericSuffixSlot(raw, prefix string) bool {
	if len(raw) != len(prefix)+1 || raw[:len(prefix)] != prefix {
		return false
	}
	return isDigit(raw[len(prefix)])
}

// equationPrefixes is the closed set of equation-name prefixes: Y-vars, parametric
// X/Y-pairs, polar r-vars, and sequence u/v/w vars.
var equationPrefixes = []string{"Y", "X", "T", "r", "u", "v", "w"}

// NewEquationName validates an equation name loosely: one of the known
// prefixes followed by a digit, or a bare "theta" for polar's angle
// variable is not a name at this layer (it is a numeric-variable
// reference instead).
func NewEquationName(raw string) (Name, error) {
	if len(raw) < 2 {
		return Name{}, &BadNameError{Kind: NameEquation, Text: raw, Why: "too short"}
	}
	prefix := raw[:len(raw)-1]
	suffix := raw[len(raw)-1]
	for _, p := range equationPrefixes {
		if prefix == p && isDigit(suffix) {
			return Name{Kind: NameEquation, Raw: raw}, nil
		}
	}
	return Name{}, &BadNameError{Kind: NameEquation, Text: raw, Why: "not a recognized equation name"}
}

// windowVarNames is the closed set of window variables (Xmin, Xmax, ...).
var windowVarNames = map[string]bool{
	"Xmin": true, "Xmax": true, "Xscl": true,
	"Ymin": true, "Ymax": true, "Yscl": true,
	"Tmin": true, "Tmax": true, "Tstep": true,
	"Thetamin": true, "Thetamax": true, "Thetastep": true,
}

// NewWindowVarName validates a window variable name against the closed
// set above.
func NewWindowVarName(raw string) (Name, error) {
	if !windowVarNames[raw] {
		return Name{}, &BadNameError{Kind: NameWindowVar, Text: raw, Why: "not a recognized window variable"}
	}
	return Name{Kind: NameWindowVar, Raw: raw}, nil
}

func isLetter(b byte) bool { return b >= 'A' && b <= 'Z' }
func isDigit(b byte) bool  { return b >= '0' && b <= '9' }
