package names

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"rowgraph/internal/mapping"
	"rowgraph/internal/match"
	"rowgraph/node"
	"rowgraph/options"
)

var (
	ErrNoField   = errors.New("no such field")
	ErrNotObject = errors.New("field has no nested fields")
	ErrBadAffix  = errors.New("unknown affix")
)

// Affix is the quoting applied around a column name in query text.
type Affix int

const (
	AffixNone Affix = iota
	AffixSQL        // [orders.id]
	AffixDB2        // "orders.id"
)

// ParseAffix reads "none", "sql" or "db2", case-insensitive.
func ParseAffix(s string) (Affix, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return AffixNone, nil
	case "sql":
		return AffixSQL, nil
	case "db2":
		return AffixDB2, nil
	}

	return 0, fmt.Errorf("%w %q", ErrBadAffix, s)
}

func (a Affix) String() string {
	switch a {
	case AffixSQL:
		return "sql"
	case AffixDB2:
		return "db2"
	default:
		return "none"
	}
}

// Name is a dotted column name.
type Name string

func (n Name) String() string {
	return string(n)
}

// SQL quotes n with brackets.
func (n Name) SQL() string {
	return "[" + string(n) + "]"
}

// DB2 quotes n with double quotes.
func (n Name) DB2() string {
	return `"` + string(n) + `"`
}

func (n Name) Affixed(a Affix) string {
	switch a {
	case AffixSQL:
		return n.SQL()
	case AffixDB2:
		return n.DB2()
	default:
		return n.String()
	}
}

// Segments splits n at its separators.
func (n Name) Segments() []string {
	return strings.Split(string(n), mapping.Separator)
}

// Namer renders field names into column segments.
type Namer struct {
	tag   string
	snake bool
}

type Option func(*Namer)

// WithTag reads column name overrides from tag instead of options.DefaultTag.
func WithTag(tag string) Option {
	return func(n *Namer) { n.tag = tag }
}

// WithSnakeCase renders untagged field names in snake_case. Such columns only map back
// onto their fields with options.WithLooseNames.
func WithSnakeCase() Option {
	return func(n *Namer) { n.snake = true }
}

var std = New()

func New(opts ...Option) *Namer {
	n := &Namer{tag: options.DefaultTag}
	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Path returns the column name of the field reached from t through fields, matched by
// field or column name, case-insensitive.
func (n *Namer) Path(t reflect.Type, fields ...string) (Name, error) {
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: empty path", ErrNoField)
	}

	st := root(t)
	if st == nil {
		return "", fmt.Errorf("%w: %s", ErrNotObject, t)
	}

	segments := make([]string, 0, len(fields))

	for i, name := range fields {
		if st == nil {
			return "", fmt.Errorf("%w: %s", ErrNotObject, strings.Join(fields[:i], mapping.Separator))
		}

		f, segment, ok := n.field(st, name)
		if !ok {
			return "", fmt.Errorf("%w: %s has no field %s", ErrNoField, st, name)
		}

		segments = append(segments, segment)
		st = node.ObjectType(f.Type)
	}

	return Name(strings.Join(segments, mapping.Separator)), nil
}

// Paths returns the column name of every field t can be populated through, in field
// order. Object fields are expanded, except for types already being expanded above them.
func (n *Namer) Paths(t reflect.Type) []Name {
	st := root(t)
	if st == nil {
		return nil
	}

	var res []Name

	n.walk(st, "", map[reflect.Type]bool{}, &res)

	return res
}

func (n *Namer) walk(st reflect.Type, prefix string, visiting map[reflect.Type]bool, res *[]Name) {
	visiting[st] = true
	defer delete(visiting, st)

	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)

		segment, ok := n.segment(f)
		if !ok {
			continue
		}

		path := segment
		if prefix != "" {
			path = prefix + mapping.Separator + segment
		}

		switch node.Dispatch(f.Type) {
		case node.KindScalar, node.KindListOfScalar:
			*res = append(*res, Name(path))

		case node.KindNestedObject, node.KindListOfObject:
			if child := node.ObjectType(f.Type); !visiting[child] {
				n.walk(child, path, visiting, res)
			}
		}
	}
}

func (n *Namer) segment(f reflect.StructField) (string, bool) {
	name, ok := node.ColumnName(f, n.tag)
	if !ok {
		return "", false
	}

	if n.snake && name == f.Name {
		name = match.SnakeCase(name)
	}

	return name, true
}

func (n *Namer) field(st reflect.Type, name string) (reflect.StructField, string, bool) {
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)

		segment, ok := n.segment(f)
		if !ok {
			continue
		}

		if strings.EqualFold(f.Name, name) || strings.EqualFold(segment, name) {
			return f, segment, true
		}
	}

	return reflect.StructField{}, "", false
}

// root resolves the struct type behind t, looking through pointers and collections.
func root(t reflect.Type) reflect.Type {
	if t == nil {
		return nil
	}

	return node.ObjectType(t)
}

// Path is Namer.Path with the default namer.
func Path[T any](fields ...string) (Name, error) {
	return std.Path(reflect.TypeFor[T](), fields...)
}

// MustPath is like Path but panics on error, for paths written in code.
func MustPath[T any](fields ...string) Name {
	name, err := Path[T](fields...)
	if err != nil {
		panic(err)
	}

	return name
}

// Paths returns every column name of T.
func Paths[T any](opts ...Option) []Name {
	return New(opts...).Paths(reflect.TypeFor[T]())
}
