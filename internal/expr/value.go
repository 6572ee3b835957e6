// Package expr implements tailor's rule expression language: a small,
// Lisp-like postfix language over JSON-like values, with list
// comprehensions, regex matching, field access against a context, and
// boolean logic.
package expr

import "fmt"

// Kind identifies which alternative of the Value tagged union is populated.
type Kind int

const (
	KindNumeral Kind = iota
	KindBoolean
	KindString
	KindList
	KindDictionary
)

func (k Kind) String() string {
	switch k {
	case KindNumeral:
		return "numeral"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindDictionary:
		return "dictionary"
	default:
		return "unknown"
	}
}

// Value is the universal runtime datum of the expression language: a
// tagged union of numeral, boolean, string, list and dictionary.
//
// A List's elements are Exprs, not Values, so that a literal list and a
// context-derived list share one representation; evaluating an element
// happens on demand (see Eval).
type Value struct {
	kind    Kind
	numeral uint64
	boolean bool
	str     string
	list    []Expr
	dict    map[string]Value
}

// NewNumeral constructs a Numeral value.
func NewNumeral(n uint64) Value { return Value{kind: KindNumeral, numeral: n} }

// NewBoolean constructs a Boolean value.
func NewBoolean(b bool) Value { return Value{kind: KindBoolean, boolean: b} }

// NewString constructs a String value.
func NewString(s string) Value { return Value{kind: KindString, str: s} }

// NewList constructs a List value from its (unevaluated) element expressions.
func NewList(items []Expr) Value { return Value{kind: KindList, list: items} }

// NewDictionary constructs a Dictionary value. The map is used as-is.
func NewDictionary(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: KindDictionary, dict: m}
}

// Kind reports which alternative is populated.
func (v Value) Kind() Kind { return v.kind }

// Numeral returns the underlying numeral and whether v is a Numeral.
func (v Value) Numeral() (uint64, bool) {
	if v.kind != KindNumeral {
		return 0, false
	}
	return v.numeral, true
}

// Boolean returns the underlying boolean and whether v is a Boolean.
func (v Value) Boolean() (bool, bool) {
	if v.kind != KindBoolean {
		return false, false
	}
	return v.boolean, true
}

// Str returns the underlying string and whether v is a String.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// List returns the underlying element expressions and whether v is a List.
func (v Value) List() ([]Expr, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.list, true
}

// Dictionary returns the underlying map and whether v is a Dictionary.
func (v Value) Dictionary() (map[string]Value, bool) {
	if v.kind != KindDictionary {
		return nil, false
	}
	return v.dict, true
}

// GoString renders a Value for diagnostics; it is not used by the
// evaluator and carries no semantic meaning.
func (v Value) GoString() string {
	switch v.kind {
	case KindNumeral:
		return fmt.Sprintf("%d", v.numeral)
	case KindBoolean:
		return fmt.Sprintf("%t", v.boolean)
	case KindString:
		return fmt.Sprintf("%q", v.str)
	case KindList:
		return fmt.Sprintf("list(%d)", len(v.list))
	case KindDictionary:
		return fmt.Sprintf("dict(%d)", len(v.dict))
	default:
		return "<invalid value>"
	}
}
