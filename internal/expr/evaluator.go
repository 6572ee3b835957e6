package expr

import (
	"regexp"
	"strings"
)

// EvalRule parses and evaluates a rule expression text against a context,
// requiring the result to be a Boolean. It is the entry point used by the
// validation driver for a single rule's pass/fail outcome.
func EvalRule(text string, ctx Value) (bool, error) {
	e, err := Parse(text)
	if err != nil {
		return false, err
	}
	result, err := Eval(e, ctx)
	if err != nil {
		return false, err
	}
	b, ok := result.Boolean()
	if !ok {
		return false, &TypeError{Op: "rule result", Wanted: KindBoolean.String(), Got: result.Kind()}
	}
	return b, nil
}

// Eval reduces an expression tree to a Value against a context. A literal
// Expr evaluates to its wrapped Value unchanged; an operation Expr is
// reduced according to its Kind.
func Eval(e Expr, ctx Value) (Value, error) {
	if lit, ok := e.AsLiteral(); ok {
		return lit, nil
	}
	op, ok := e.AsOperation()
	if !ok {
		return Value{}, &ParseError{Msg: "malformed expression"}
	}

	switch op.Kind {
	case OpContext:
		return evalContext(op.Path, ctx)
	case OpEqual:
		return evalEqual(op, ctx)
	case OpLessThan, OpGreaterThan:
		return evalCompare(op, ctx)
	case OpAnd, OpOr, OpXor:
		return evalBoolBinary(op, ctx)
	case OpNot:
		return evalNot(op, ctx)
	case OpAll, OpAny, OpFilter, OpMap:
		return evalComprehension(op, ctx)
	case OpLength:
		return evalLength(op, ctx)
	case OpTest:
		return evalTest(op, ctx)
	case OpLines:
		return evalLines(op, ctx)
	default:
		return Value{}, &ParseError{Msg: "unknown operation"}
	}
}

// evalContext navigates a dotted path against a Dictionary context. An
// empty path is the identity: it returns the context itself.
func evalContext(path string, ctx Value) (Value, error) {
	if path == "" {
		return ctx, nil
	}
	cur := ctx
	for _, segment := range strings.Split(path, ".") {
		dict, ok := cur.Dictionary()
		if !ok {
			return Value{}, &TypeError{Op: "context", Wanted: KindDictionary.String(), Got: cur.Kind()}
		}
		next, ok := dict[segment]
		if !ok {
			return Value{}, &KeyNotFoundError{Path: path, Segment: segment}
		}
		cur = next
	}
	return cur, nil
}

func evalEqual(op Operation, ctx Value) (Value, error) {
	a, err := Eval(op.A, ctx)
	if err != nil {
		return Value{}, err
	}
	b, err := Eval(op.B, ctx)
	if err != nil {
		return Value{}, err
	}
	eq, err := valuesEqual(ctx, a, b)
	if err != nil {
		return Value{}, err
	}
	return NewBoolean(eq), nil
}

// valuesEqual implements structural equality on already-evaluated Values.
// List elements are Exprs, so a List operand must be forced element by
// element — using ctx, the context Equal itself was invoked with — before
// the comparison, recursively for nested lists.
func valuesEqual(ctx Value, a, b Value) (bool, error) {
	if a.Kind() != b.Kind() {
		return false, nil
	}
	switch a.Kind() {
	case KindNumeral:
		av, _ := a.Numeral()
		bv, _ := b.Numeral()
		return av == bv, nil
	case KindBoolean:
		av, _ := a.Boolean()
		bv, _ := b.Boolean()
		return av == bv, nil
	case KindString:
		av, _ := a.Str()
		bv, _ := b.Str()
		return av == bv, nil
	case KindList:
		aList, _ := a.List()
		bList, _ := b.List()
		if len(aList) != len(bList) {
			return false, nil
		}
		for i := range aList {
			av, err := Eval(aList[i], ctx)
			if err != nil {
				return false, err
			}
			bv, err := Eval(bList[i], ctx)
			if err != nil {
				return false, err
			}
			eq, err := valuesEqual(ctx, av, bv)
			if err != nil {
				return false, err
			}
			if !eq {
				return false, nil
			}
		}
		return true, nil
	case KindDictionary:
		aDict, _ := a.Dictionary()
		bDict, _ := b.Dictionary()
		if len(aDict) != len(bDict) {
			return false, nil
		}
		for k, av := range aDict {
			bv, ok := bDict[k]
			if !ok {
				return false, nil
			}
			eq, err := valuesEqual(ctx, av, bv)
			if err != nil {
				return false, err
			}
			if !eq {
				return false, nil
			}
		}
		return true, nil
	default:
		return false, nil
	}
}

func evalCompare(op Operation, ctx Value) (Value, error) {
	a, err := Eval(op.A, ctx)
	if err != nil {
		return Value{}, err
	}
	b, err := Eval(op.B, ctx)
	if err != nil {
		return Value{}, err
	}
	an, ok := a.Numeral()
	if !ok {
		return Value{}, &TypeError{Op: op.Kind.String(), Wanted: KindNumeral.String(), Got: a.Kind()}
	}
	bn, ok := b.Numeral()
	if !ok {
		return Value{}, &TypeError{Op: op.Kind.String(), Wanted: KindNumeral.String(), Got: b.Kind()}
	}
	if op.Kind == OpLessThan {
		return NewBoolean(an < bn), nil
	}
	return NewBoolean(an > bn), nil
}

func evalBoolBinary(op Operation, ctx Value) (Value, error) {
	a, err := Eval(op.A, ctx)
	if err != nil {
		return Value{}, err
	}
	b, err := Eval(op.B, ctx)
	if err != nil {
		return Value{}, err
	}
	ab, ok := a.Boolean()
	if !ok {
		return Value{}, &TypeError{Op: op.Kind.String(), Wanted: KindBoolean.String(), Got: a.Kind()}
	}
	bb, ok := b.Boolean()
	if !ok {
		return Value{}, &TypeError{Op: op.Kind.String(), Wanted: KindBoolean.String(), Got: b.Kind()}
	}
	switch op.Kind {
	case OpAnd:
		return NewBoolean(ab && bb), nil
	case OpOr:
		return NewBoolean(ab || bb), nil
	default: // OpXor
		return NewBoolean(ab != bb), nil
	}
}

func evalNot(op Operation, ctx Value) (Value, error) {
	a, err := Eval(op.A, ctx)
	if err != nil {
		return Value{}, err
	}
	ab, ok := a.Boolean()
	if !ok {
		return Value{}, &TypeError{Op: "not", Wanted: KindBoolean.String(), Got: a.Kind()}
	}
	return NewBoolean(!ab), nil
}

// evalComprehension implements all, any, filter and map. A must evaluate
// to a List; each element is evaluated once against the enclosing context
// to produce an element Value, then op.B is evaluated once more with that
// element Value as the new context.
func evalComprehension(op Operation, ctx Value) (Value, error) {
	a, err := Eval(op.A, ctx)
	if err != nil {
		return Value{}, err
	}
	items, ok := a.List()
	if !ok {
		return Value{}, &TypeError{Op: op.Kind.String(), Wanted: KindList.String(), Got: a.Kind()}
	}

	switch op.Kind {
	case OpAll:
		for _, item := range items {
			elemVal, err := Eval(item, ctx)
			if err != nil {
				return Value{}, err
			}
			result, err := Eval(op.B, elemVal)
			if err != nil {
				return Value{}, err
			}
			b, ok := result.Boolean()
			if !ok {
				return Value{}, &TypeError{Op: "all", Wanted: KindBoolean.String(), Got: result.Kind()}
			}
			if !b {
				return NewBoolean(false), nil
			}
		}
		return NewBoolean(true), nil

	case OpAny:
		for _, item := range items {
			elemVal, err := Eval(item, ctx)
			if err != nil {
				return Value{}, err
			}
			result, err := Eval(op.B, elemVal)
			if err != nil {
				return Value{}, err
			}
			b, ok := result.Boolean()
			if !ok {
				return Value{}, &TypeError{Op: "any", Wanted: KindBoolean.String(), Got: result.Kind()}
			}
			if b {
				return NewBoolean(true), nil
			}
		}
		return NewBoolean(false), nil

	case OpFilter:
		var kept []Expr
		for _, item := range items {
			elemVal, err := Eval(item, ctx)
			if err != nil {
				return Value{}, err
			}
			result, err := Eval(op.B, elemVal)
			if err != nil {
				return Value{}, err
			}
			b, ok := result.Boolean()
			if !ok {
				return Value{}, &TypeError{Op: "filter", Wanted: KindBoolean.String(), Got: result.Kind()}
			}
			if b {
				kept = append(kept, Literal(elemVal))
			}
		}
		return NewList(kept), nil

	default: // OpMap
		mapped := make([]Expr, 0, len(items))
		for _, item := range items {
			elemVal, err := Eval(item, ctx)
			if err != nil {
				return Value{}, err
			}
			result, err := Eval(op.B, elemVal)
			if err != nil {
				return Value{}, err
			}
			mapped = append(mapped, Literal(result))
		}
		return NewList(mapped), nil
	}
}

func evalLength(op Operation, ctx Value) (Value, error) {
	a, err := Eval(op.A, ctx)
	if err != nil {
		return Value{}, err
	}
	items, ok := a.List()
	if !ok {
		return Value{}, &TypeError{Op: "length", Wanted: KindList.String(), Got: a.Kind()}
	}
	return NewNumeral(uint64(len(items))), nil
}

func evalTest(op Operation, ctx Value) (Value, error) {
	a, err := Eval(op.A, ctx)
	if err != nil {
		return Value{}, err
	}
	s, ok := a.Str()
	if !ok {
		return Value{}, &TypeError{Op: "test", Wanted: KindString.String(), Got: a.Kind()}
	}
	b, err := Eval(op.B, ctx)
	if err != nil {
		return Value{}, err
	}
	pattern, ok := b.Str()
	if !ok {
		return Value{}, &TypeError{Op: "test", Wanted: KindString.String(), Got: b.Kind()}
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Value{}, &RegexError{Pattern: pattern, Err: err}
	}
	return NewBoolean(re.MatchString(s)), nil
}

func evalLines(op Operation, ctx Value) (Value, error) {
	a, err := Eval(op.A, ctx)
	if err != nil {
		return Value{}, err
	}
	s, ok := a.Str()
	if !ok {
		return Value{}, &TypeError{Op: "lines", Wanted: KindString.String(), Got: a.Kind()}
	}
	lines := strings.Split(s, "\n")
	items := make([]Expr, 0, len(lines))
	for _, line := range lines {
		items = append(items, Literal(NewString(line)))
	}
	return NewList(items), nil
}
