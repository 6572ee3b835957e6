// Package reflectval projects arbitrary Go structs into expression-language
// Values at runtime, so the assembler's Go types can be handed straight to
// the rule evaluator as a context without a parallel, hand-maintained
// schema.
package reflectval

import (
	"reflect"
	"strings"
	"time"

	"github.com/crawford/tailor/internal/expr"
)

// hiddenTag is the struct tag value that opts a field out of projection.
const hiddenTag = "hidden"

// ToValue projects v (a struct, pointer to struct, slice, array, or scalar)
// into a Value. Struct fields are projected under their lowercased field
// name unless tagged `tailor:"hidden"`, in which case they are omitted
// entirely; any other non-empty `tailor` tag value is used as the key
// instead. Maps and other unsupported kinds project to an empty String.
func ToValue(v any) expr.Value {
	return toValue(reflect.ValueOf(v))
}

func toValue(rv reflect.Value) expr.Value {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return expr.NewString("")
		}
		rv = rv.Elem()
	}

	if t, ok := asTime(rv); ok {
		return expr.NewString(t.Format(time.RFC3339))
	}

	switch rv.Kind() {
	case reflect.String:
		return expr.NewString(rv.String())
	case reflect.Bool:
		return expr.NewBoolean(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return expr.NewNumeral(uint64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return expr.NewNumeral(rv.Uint())
	case reflect.Slice, reflect.Array:
		items := make([]expr.Expr, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items = append(items, expr.Literal(toValue(rv.Index(i))))
		}
		return expr.NewList(items)
	case reflect.Struct:
		return projectStruct(rv)
	default:
		return expr.NewString("")
	}
}

func projectStruct(rv reflect.Value) expr.Value {
	t := rv.Type()
	dict := make(map[string]expr.Value, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("tailor")
		if tag == hiddenTag {
			continue
		}
		key := tag
		if key == "" {
			key = strings.ToLower(field.Name)
		}
		dict[key] = toValue(rv.Field(i))
	}
	return expr.NewDictionary(dict)
}

func asTime(rv reflect.Value) (time.Time, bool) {
	if !rv.IsValid() || rv.Type() != reflect.TypeOf(time.Time{}) {
		return time.Time{}, false
	}
	t, ok := rv.Interface().(time.Time)
	return t, ok
}

