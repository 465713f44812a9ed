package node

import (
	"errors"
	"reflect"
	"strings"

	"rowgraph/internal/common"
	"rowgraph/internal/diagnostic"
	"rowgraph/internal/mapping"
	"rowgraph/internal/match"
	"rowgraph/options"
	"rowgraph/primitive"
)

// ContentField names the single field of the container wrapping slice, map and scalar
// results.
const ContentField = "Content"

// suggestions is the maximal number of field names suggested for an unmatched column.
const suggestions = 3

var ErrNilType = errors.New("cannot build a map tree for a nil type")

type builder struct {
	conv *primitive.Converter
	opts options.Options
	typ  string
	diag diagnostic.Diagnostics
}

// Build maps columns onto t. Keys are dotted column paths designating the fields that
// identify list items at the depth they name.
//
// Struct and *struct types are populated directly. Any other type is built against a
// container struct{ Content T }: scalar and scalar list results read the first column
// whatever its name, object lists read every column without a prefix.
func Build(t reflect.Type, columns []string, keys []string, conv *primitive.Converter, opts options.Options) (*Tree, error) {
	if t == nil {
		return nil, ErrNilType
	}

	b := &builder{conv: conv, opts: opts, typ: t.String()}
	tree := &Tree{Type: t, Columns: columns, Keys: keys}

	st := t
	if st.Kind() == reflect.Ptr {
		st = st.Elem()
	}

	if st.Kind() == reflect.Struct && !primitive.IsScalar(st) {
		tree.Root = &Node{Kind: KindNestedObject, elem: st}
		if err := b.buildObject(tree.Root, st, mapping.ParsePaths(columns)); err != nil {
			return nil, err
		}
	} else {
		kind := Dispatch(t)
		if kind == 0 {
			return nil, &ConfigurationError{Field: ContentField, Type: t, Reason: unsupported(t)}
		}

		wrapper := reflect.StructOf([]reflect.StructField{{Name: ContentField, Type: t}})
		tree.Root = &Node{Kind: KindNestedObject, elem: wrapper}
		tree.Wrapped = true

		if err := b.buildContent(tree.Root, wrapper.Field(0), kind, columns); err != nil {
			return nil, err
		}
	}

	for _, key := range keys {
		if err := b.applyKey(tree, key); err != nil {
			return nil, err
		}
	}

	if err := b.finish(tree.Root); err != nil {
		return nil, err
	}

	tree.Diagnostics = b.diag
	tree.Diagnostics.Log(opts.Logf)

	return tree, nil
}

func (b *builder) buildContent(root *Node, f reflect.StructField, kind Kind, columns []string) error {
	n := &Node{Field: f, Kind: kind, Name: strings.ToLower(ContentField)}

	switch kind {
	case KindScalar, KindListOfScalar:
		first, ok := common.First(columns)
		if !ok {
			return nil
		}

		for _, c := range columns[1:] {
			b.diag.AddInfo(diagnostic.CodeIgnoredColumn, "result reads the first column only", b.typ, c)
		}

		n.Column = first
		b.bindScalar(n, f.Type)

	case KindListOfObject:
		b.bindObject(n, f.Type)

		if err := b.buildObject(n, n.elem, mapping.ParsePaths(columns)); err != nil {
			return err
		}
	}

	root.Children = append(root.Children, n)

	return nil
}

func (b *builder) buildObject(parent *Node, st reflect.Type, paths []mapping.ColumnPath) error {
	taken := make(map[int]bool)

	for _, g := range mapping.GroupByHead(paths) {
		f, ok := b.matchField(st, g.Head)
		if !ok {
			hint := match.Suggest(g.Head, b.fieldNames(st), suggestions)
			for _, c := range g.Columns() {
				b.diag.AddInfo(diagnostic.CodeUnmatchedColumn, "column matches no field of "+st.String(), b.typ, c, hint...)
			}

			continue
		}

		if taken[f.Index[0]] {
			for _, c := range g.Columns() {
				b.diag.AddWarning(diagnostic.CodeShadowedColumn, "field "+f.Name+" is already mapped by an earlier column", b.typ, c)
			}

			continue
		}

		taken[f.Index[0]] = true

		child, err := b.buildField(parent, f, g)
		if err != nil {
			return err
		}

		if child != nil {
			parent.Children = append(parent.Children, child)
		}
	}

	return nil
}

func (b *builder) buildField(parent *Node, f reflect.StructField, g mapping.Group) (*Node, error) {
	name, _ := b.columnName(f)
	name = strings.ToLower(name)

	path := name
	if parent.Path != "" {
		path = parent.Path + mapping.Separator + name
	}

	kind := Dispatch(f.Type)
	if kind == 0 {
		return nil, &ConfigurationError{Field: path, Type: f.Type, Reason: unsupported(f.Type)}
	}

	n := &Node{Field: f, Kind: kind, Name: name, Path: path}

	switch kind {
	case KindScalar:
		leaf, ok := g.Leaf()
		if !ok {
			b.ignore(g.Columns(), "scalar field "+path+" has no nested fields")
			return nil, nil
		}

		b.shadow(g, leaf.Column)

		n.Column = leaf.Column
		b.bindScalar(n, f.Type)

	case KindListOfScalar:
		n.Column = g.Paths[0].Column
		b.shadow(g, n.Column)
		b.bindScalar(n, f.Type)

	case KindNestedObject, KindListOfObject:
		if leaf, ok := g.Leaf(); ok {
			b.ignore([]string{leaf.Column}, "object field "+path+" is populated from nested columns only")
		}

		b.bindObject(n, f.Type)

		if err := b.buildObject(n, n.elem, g.Nested()); err != nil {
			return nil, err
		}

		if len(n.Children) == 0 {
			return nil, nil
		}
	}

	return n, nil
}

// shadow warns about every column of g other than the one kept.
func (b *builder) shadow(g mapping.Group, kept string) {
	seen := false

	for _, c := range g.Columns() {
		if c == kept && !seen {
			seen = true
			continue
		}

		b.diag.AddWarning(diagnostic.CodeShadowedColumn, "column is shadowed by "+kept, b.typ, c)
	}
}

func (b *builder) ignore(columns []string, reason string) {
	for _, c := range columns {
		b.diag.AddInfo(diagnostic.CodeIgnoredColumn, reason, b.typ, c)
	}
}

// bindScalar binds the conversion of scalar fields and of scalar list elements.
func (b *builder) bindScalar(n *Node, t reflect.Type) {
	n.elem = t

	switch {
	case n.Kind == KindListOfScalar && t.Kind() == reflect.Slice:
		n.elem = t.Elem()
		n.collect = func(items []reflect.Value) reflect.Value {
			return reflect.Append(reflect.MakeSlice(t, 0, len(items)), items...)
		}

	case n.Kind == KindListOfScalar:
		n.elem = t.Key()
		n.collect = func(items []reflect.Value) reflect.Value {
			present := reflect.Zero(t.Elem())
			if t.Elem().Kind() == reflect.Bool {
				present = reflect.ValueOf(true).Convert(t.Elem())
			}

			m := reflect.MakeMapWithSize(t, len(items))
			for _, item := range items {
				m.SetMapIndex(item, present)
			}

			return m
		}
	}

	conv, elem := b.conv, n.elem
	n.convert = func(cell any, scale int) (reflect.Value, error) {
		return conv.ConvertScaled(cell, elem, scale)
	}
}

// bindObject binds allocation of nested objects and list items. Items are collected as
// pointers to their struct.
func (b *builder) bindObject(n *Node, t reflect.Type) {
	elem := t
	if n.Kind == KindListOfObject {
		elem = t.Elem()
	}

	isPtr := elem.Kind() == reflect.Ptr
	if isPtr {
		elem = elem.Elem()
	}

	n.elem = elem
	n.newElem = func() reflect.Value { return reflect.New(elem) }

	if n.Kind != KindListOfObject {
		return
	}

	item := func(ptr reflect.Value) reflect.Value {
		if isPtr {
			return ptr
		}
		return ptr.Elem()
	}

	if t.Kind() == reflect.Slice {
		n.collect = func(items []reflect.Value) reflect.Value {
			s := reflect.MakeSlice(t, 0, len(items))
			for _, ptr := range items {
				s = reflect.Append(s, item(ptr))
			}

			return s
		}

		return
	}

	// the map key is the single key field, bound once keys are known
	n.collect = func(items []reflect.Value) reflect.Value {
		key := n.keys()[0].index()

		m := reflect.MakeMapWithSize(t, len(items))
		for _, ptr := range items {
			m.SetMapIndex(ptr.Elem().Field(key), item(ptr))
		}

		return m
	}
}

// applyKey marks the node a key path resolves to.
func (b *builder) applyKey(tree *Tree, key string) error {
	p, err := mapping.ParseKey(key)
	if err != nil {
		return &InvalidKeyError{Key: key, Reason: err.Error()}
	}

	// scalar lists are keyed by their own column, e.g. "OrdersID.ID"
	if n := findScalarList(tree.Root, p.String()); n != nil {
		n.IsKey = true
		return nil
	}

	start := tree.Root

	if tree.Wrapped {
		content, ok := common.First(tree.Root.Children)
		if !ok {
			return &InvalidKeyError{Key: key, Reason: "no column maps onto the result"}
		}

		if content.Kind != KindListOfObject {
			return &InvalidKeyError{Key: key, Reason: "a " + content.Kind.String() + " result is keyed by its own column only"}
		}

		start = content
	}

	n, parent, ok := b.resolve(start, p.Segments)
	if !ok {
		return &InvalidKeyError{Key: key, Reason: "no mapped field at this path"}
	}

	if n.Kind != KindScalar {
		return &InvalidKeyError{Key: key, Reason: "resolves to " + n.Kind.String() + " field " + n.Path + ", keys must be scalar"}
	}

	// only list items are deduplicated
	if parent.Kind != KindListOfObject {
		return &InvalidKeyError{Key: key, Reason: "field " + n.Path + " is not an item field of a list"}
	}

	n.IsKey = true

	return nil
}

// findScalarList finds the scalar list below n reading column.
func findScalarList(n *Node, column string) *Node {
	for _, c := range n.Children {
		if c.Kind == KindListOfScalar && strings.EqualFold(c.Column, column) {
			return c
		}

		if found := findScalarList(c, column); found != nil {
			return found
		}
	}

	return nil
}

// resolve walks the tree below n along segments and returns the node with its parent.
func (b *builder) resolve(n *Node, segments []string) (*Node, *Node, bool) {
	cur, parent := n, n

	for _, seg := range segments {
		if !cur.Kind.IsObject() {
			return nil, nil, false
		}

		var next *Node

		for _, c := range cur.Children {
			if b.matches(c, seg) {
				next = c
				break
			}
		}

		if next == nil {
			return nil, nil, false
		}

		cur, parent = next, cur
	}

	return cur, parent, true
}

// finish binds list identities and checks that every collection type can hold its list.
func (b *builder) finish(n *Node) error {
	for _, c := range n.Children {
		if err := b.finish(c); err != nil {
			return err
		}
	}

	isMap := n.Field.Type != nil && n.Field.Type.Kind() == reflect.Map

	label := n.Path
	if label == "" {
		label = n.Field.Name
	}

	switch n.Kind {
	case KindListOfObject:
		keys := n.keys()
		if len(keys) > 0 {
			n.Identity = newIdentity(keys)
		}

		if !isMap {
			return nil
		}

		if len(keys) != 1 {
			return &ConfigurationError{Field: label, Type: n.Field.Type, Reason: "maps of objects need exactly one key field"}
		}

		if keyType := keys[0].Field.Type; keyType != n.Field.Type.Key() {
			return &ConfigurationError{
				Field:  label,
				Type:   n.Field.Type,
				Reason: "map key type does not match key field " + keys[0].Path + " of type " + keyType.String(),
			}
		}

	case KindListOfScalar:
		if n.IsKey {
			n.Identity = newIdentity(nil)
		} else if isMap {
			return &ConfigurationError{Field: label, Type: n.Field.Type, Reason: "sets need their column declared as key"}
		}
	}

	return nil
}
