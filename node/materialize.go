package node

import (
	"fmt"
	"reflect"

	"rowgraph/primitive"
	"rowgraph/rowsource"
)

// instance is an object under construction. Its value is addressable and never moves, so
// later rows can keep mutating items already placed in a list.
type instance struct {
	value  reflect.Value
	nested map[*Node]*instance
	lists  map[*Node]*collection
}

func newInstance(v reflect.Value) *instance {
	return &instance{value: v}
}

// collection holds the items of one list until the graph is flushed.
type collection struct {
	objects []*instance
	scalars []reflect.Value
	set     *Set
}

func (inst *instance) collection(n *Node) *collection {
	if inst.lists == nil {
		inst.lists = make(map[*Node]*collection)
	}

	c, ok := inst.lists[n]
	if !ok {
		c = &collection{}
		if n.Identity != nil {
			c.set = NewSet(n.Identity)
		}

		inst.lists[n] = c
	}

	return c
}

type materializer struct {
	src    rowsource.Source
	scales rowsource.ScaleReporter
}

// Materialize reads every row of src into a new value of t.Type. The result is the zero
// value when src has no rows. Any error aborts the call and discards the partial graph.
func (t *Tree) Materialize(src rowsource.Source) (reflect.Value, error) {
	m := &materializer{src: src}
	m.scales, _ = src.(rowsource.ScaleReporter)

	var root *instance

	for src.Next() {
		if root == nil {
			root = newInstance(reflect.New(t.Root.elem).Elem())
		}

		if err := m.object(t.Root, root, false); err != nil {
			return reflect.Value{}, err
		}
	}

	if err := src.Err(); err != nil {
		return reflect.Value{}, fmt.Errorf("failed to read rows: %w", err)
	}

	if root == nil {
		return reflect.Zero(t.Type), nil
	}

	flush(t.Root, root)

	switch {
	case t.Wrapped:
		return root.value.Field(0), nil
	case t.Type.Kind() == reflect.Ptr:
		return root.value.Addr(), nil
	default:
		return root.value, nil
	}
}

// object applies the current row to every child of n, in declaration order. Key fields of
// an existing list item are skipped since they already hold the item's identity.
func (m *materializer) object(n *Node, inst *instance, skipKeys bool) error {
	for _, c := range n.Children {
		var err error

		switch c.Kind {
		case KindScalar:
			if skipKeys && c.IsKey {
				continue
			}
			err = m.scalar(c, inst.value)
		case KindNestedObject:
			err = m.nested(c, inst)
		case KindListOfObject:
			err = m.objects(c, inst)
		case KindListOfScalar:
			err = m.scalars(c, inst)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func (m *materializer) convert(n *Node, cell any) (reflect.Value, error) {
	scale := 0
	if m.scales != nil {
		scale, _ = m.scales.DeclaredScale(n.Column)
	}

	v, err := n.convert(cell, scale)
	if err != nil {
		return reflect.Value{}, primitive.WithColumn(err, n.Column)
	}

	return v, nil
}

// scalar assigns non-NULL cells; NULL keeps the value of earlier rows.
func (m *materializer) scalar(n *Node, owner reflect.Value) error {
	cell := m.src.Value(n.Column)
	if cell == nil {
		return nil
	}

	v, err := m.convert(n, cell)
	if err != nil {
		return err
	}

	owner.Field(n.index()).Set(v)

	return nil
}

func (m *materializer) nested(n *Node, inst *instance) error {
	child, ok := inst.nested[n]
	if !ok {
		field := inst.value.Field(n.index())
		target := field

		if n.Field.Type.Kind() == reflect.Ptr {
			ptr := n.newElem()
			field.Set(ptr)
			target = ptr.Elem()
		}

		child = newInstance(target)

		if inst.nested == nil {
			inst.nested = make(map[*Node]*instance)
		}
		inst.nested[n] = child
	}

	return m.object(n, child, false)
}

func (m *materializer) objects(n *Node, inst *instance) error {
	if n.Identity == nil {
		item := newInstance(n.newElem().Elem())
		coll := inst.collection(n)
		coll.objects = append(coll.objects, item)

		return m.object(n, item, false)
	}

	keys := n.keys()

	// outer joins yield NULL keys for rows without an item at this level
	for _, k := range keys {
		if m.src.Value(k.Column) == nil {
			return nil
		}
	}

	candidate := n.newElem().Elem()
	for _, k := range keys {
		if err := m.scalar(k, candidate); err != nil {
			return err
		}
	}

	coll := inst.collection(n)

	if i, ok := coll.set.Find(candidate); ok {
		return m.object(n, coll.objects[i], true)
	}

	item := newInstance(candidate)
	coll.set.Add(candidate)
	coll.objects = append(coll.objects, item)

	return m.object(n, item, true)
}

func (m *materializer) scalars(n *Node, inst *instance) error {
	cell := m.src.Value(n.Column)
	if cell == nil {
		return nil
	}

	v, err := m.convert(n, cell)
	if err != nil {
		return err
	}

	coll := inst.collection(n)

	if coll.set != nil {
		if _, ok := coll.set.Find(v); ok {
			return nil
		}

		coll.set.Add(v)
	}

	coll.scalars = append(coll.scalars, v)

	return nil
}

// flush stores the collected lists into their fields, innermost first, so that items
// copied into value slices already carry their own lists.
func flush(n *Node, inst *instance) {
	for _, c := range n.Children {
		switch c.Kind {
		case KindNestedObject:
			if child, ok := inst.nested[c]; ok {
				flush(c, child)
			}

		case KindListOfObject:
			coll, ok := inst.lists[c]
			if !ok || len(coll.objects) == 0 {
				continue
			}

			items := make([]reflect.Value, 0, len(coll.objects))
			for _, item := range coll.objects {
				flush(c, item)
				items = append(items, item.value.Addr())
			}

			inst.value.Field(c.index()).Set(c.collect(items))

		case KindListOfScalar:
			if coll, ok := inst.lists[c]; ok && len(coll.scalars) > 0 {
				inst.value.Field(c.index()).Set(c.collect(coll.scalars))
			}
		}
	}
}
