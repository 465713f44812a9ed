package node

import (
	"reflect"
	"strings"

	"rowgraph/internal/match"
)

// ColumnName returns the column segment f answers to: the name in struct tag tag when
// set, the field name otherwise. Unexported fields and fields tagged "-" answer to none.
func ColumnName(f reflect.StructField, tag string) (string, bool) {
	if !f.IsExported() {
		return "", false
	}

	if value := f.Tag.Get(tag); value != "" {
		if idx := strings.IndexByte(value, ','); idx >= 0 {
			value = value[:idx]
		}

		if value == "-" {
			return "", false
		}

		if value != "" {
			return value, true
		}
	}

	return f.Name, true
}

func (b *builder) columnName(f reflect.StructField) (string, bool) {
	return ColumnName(f, b.opts.Tag)
}

// matchField finds the field of st a column segment addresses:
// 1) column name, case-insensitive
// 2) with loose names, normalized identifiers (delivery_time matches DeliveryTime)
func (b *builder) matchField(st reflect.Type, segment string) (reflect.StructField, bool) {
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if name, ok := b.columnName(f); ok && strings.EqualFold(name, segment) {
			return f, true
		}
	}

	if !b.opts.LooseNames {
		return reflect.StructField{}, false
	}

	norm := match.NormalizeIdent(segment)
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if name, ok := b.columnName(f); ok && match.NormalizeIdent(name) == norm {
			return f, true
		}
	}

	return reflect.StructField{}, false
}

// matches reports whether segment addresses the field of n.
func (b *builder) matches(n *Node, segment string) bool {
	if strings.EqualFold(n.Name, segment) {
		return true
	}

	return b.opts.LooseNames && match.NormalizeIdent(n.Name) == match.NormalizeIdent(segment)
}

// fieldNames lists the column names of st, for suggestions.
func (b *builder) fieldNames(st reflect.Type) []string {
	var res []string

	for i := 0; i < st.NumField(); i++ {
		if name, ok := b.columnName(st.Field(i)); ok {
			res = append(res, name)
		}
	}

	return res
}
