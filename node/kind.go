package node

import (
	"reflect"

	"rowgraph/primitive"
)

//go:generate go tool stringer -type=Kind -output=kind_string.go

// Kind is the role a field plays in the map tree.
type Kind int

const (
	_ Kind = iota // zero value marks types the engine cannot populate

	KindScalar
	KindNestedObject
	KindListOfObject
	KindListOfScalar

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// IsList reports collection kinds.
func (k Kind) IsList() bool {
	return k == KindListOfObject || k == KindListOfScalar
}

// IsObject reports kinds whose node has children.
func (k Kind) IsObject() bool {
	return k == KindNestedObject || k == KindListOfObject
}

// Dispatch classifies a field type:
//  1. scalar or pointer to scalar (see primitive.IsScalar)
//  2. struct or pointer to struct
//  3. slice or map of objects
//  4. slice or set (map[T]struct{}, map[T]bool) of scalars
//
// Anything else yields the zero Kind.
func Dispatch(t reflect.Type) Kind {
	if primitive.IsScalar(t) {
		return KindScalar
	}

	switch t.Kind() {
	case reflect.Ptr:
		if t.Elem().Kind() == reflect.Struct {
			return KindNestedObject
		}

	case reflect.Struct:
		return KindNestedObject

	case reflect.Slice:
		if primitive.IsScalar(t.Elem()) {
			return KindListOfScalar
		}

		if isObject(t.Elem()) {
			return KindListOfObject
		}

	case reflect.Map:
		if !primitive.IsScalar(t.Key()) || t.Key().Kind() == reflect.Ptr {
			return 0
		}

		if isSetValue(t.Elem()) {
			return KindListOfScalar
		}

		if isObject(t.Elem()) {
			return KindListOfObject
		}
	}

	return 0
}

// ObjectType returns the struct type populated for a field of an object kind: the
// struct itself, or the item struct of a list. Other kinds yield nil.
func ObjectType(t reflect.Type) reflect.Type {
	switch Dispatch(t) {
	case KindNestedObject:
	case KindListOfObject:
		t = t.Elem()
	default:
		return nil
	}

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return t
}

func isObject(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return t.Kind() == reflect.Struct && !primitive.IsScalar(t)
}

// isSetValue reports the value types of maps used as sets.
func isSetValue(t reflect.Type) bool {
	return t.Kind() == reflect.Bool || (t.Kind() == reflect.Struct && t.NumField() == 0)
}

// unsupported explains why Dispatch rejected t.
func unsupported(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Array:
		return "fixed-length arrays cannot hold a variable number of items, use a slice"
	case reflect.Slice:
		if k := t.Elem().Kind(); k == reflect.Slice || k == reflect.Map || k == reflect.Array {
			return "nested collections need an object level between them"
		}
	case reflect.Map:
		if !primitive.IsScalar(t.Key()) || t.Key().Kind() == reflect.Ptr {
			return "map keys must be scalar values"
		}

		return "map values must be objects, or struct{}/bool for sets"
	case reflect.Interface, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return t.Kind().String() + " fields cannot be populated from columns"
	case reflect.Ptr:
		return "pointers are only supported to scalars and structs"
	}

	return "unsupported field type"
}
