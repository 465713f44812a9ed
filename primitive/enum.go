package primitive

import (
	"reflect"
	"strings"
)

// EnumMember describes one declared value of an enumerated type.
type EnumMember struct {
	// Name is matched case-insensitively against textual cells.
	Name string
	// Raw is the value stored in the database for this member; nil when the member has none.
	Raw any
	// Value is the member itself, of the enumerated type.
	Value any
}

// Enumerated is implemented (on the value receiver) by enum types that declare their members.
//
//	func (Status) EnumMembers() []primitive.EnumMember {
//		return []primitive.EnumMember{
//			{Name: "Created", Raw: "C", Value: StatusCreated},
//			{Name: "Started", Raw: "S", Value: StatusStarted},
//		}
//	}
type Enumerated interface {
	EnumMembers() []EnumMember
}

var enumeratedType = reflect.TypeFor[Enumerated]()

// Members returns the declared members of t, or nil when t does not implement Enumerated.
func Members(t reflect.Type) []EnumMember {
	if t == nil || !t.Implements(enumeratedType) {
		return nil
	}

	return reflect.Zero(t).Interface().(Enumerated).EnumMembers()
}

// lookupMember resolves cell against members: raw values first (exact), then member
// names (case-insensitive), then numeric member values.
func lookupMember(members []EnumMember, cell any) (any, bool) {
	raw := canonicalCell(cell)

	for _, m := range members {
		if m.Raw != nil && canonicalCell(m.Raw) == raw {
			return m.Value, true
		}
	}

	text, ok := cellText(cell)
	if !ok {
		return nil, false
	}

	text = normalizeText(text)

	for _, m := range members {
		if strings.EqualFold(m.Name, text) {
			return m.Value, true
		}
	}

	for _, m := range members {
		if n, ok := canonicalCell(m.Value).(int64); ok && formatInt(n) == text {
			return m.Value, true
		}
	}

	return nil, false
}
