package node

import (
	"fmt"
	"reflect"
	"strings"

	"rowgraph/internal/diagnostic"
)

// Node describes how one field of its owner is populated from a row.
type Node struct {
	// Field is the struct field the node writes to.
	Field reflect.StructField
	Kind  Kind
	// Name is the lower-cased column segment the field answers to.
	Name string
	// Path is the dotted, lower-cased path of the node from the mapped type.
	Path string
	// Column is the source column of Scalar and List-of-Scalar nodes.
	Column string
	// IsKey marks scalar fields that identify items of the list owning them, and
	// scalar lists deduplicated by value.
	IsKey    bool
	Children []*Node
	// Identity is set on keyed list nodes.
	Identity *Identity

	// elem is the struct type of object nodes and the element type of scalar lists.
	elem    reflect.Type
	convert func(cell any, scale int) (reflect.Value, error)
	newElem func() reflect.Value
	collect func(items []reflect.Value) reflect.Value
}

func (n *Node) index() int {
	return n.Field.Index[0]
}

// keys returns the key children of an object node.
func (n *Node) keys() []*Node {
	var res []*Node

	for _, c := range n.Children {
		if c.IsKey && c.Kind == KindScalar {
			res = append(res, c)
		}
	}

	return res
}

// Tree is the immutable map from a column shape onto a Go type. It may be shared by
// concurrent materializations.
type Tree struct {
	// Type is the type materialized results have.
	Type reflect.Type
	// Root is the object node of the root struct, or of the synthetic container when
	// Wrapped is set.
	Root *Node
	// Wrapped is set for slice, map and scalar results, built against struct{ Content T }.
	Wrapped bool
	Columns []string
	Keys    []string

	Diagnostics diagnostic.Diagnostics
}

// Walk visits every node below the root depth-first, in declaration order.
func (t *Tree) Walk(fn func(n *Node, depth int)) {
	var walk func(nodes []*Node, depth int)

	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			walk(n.Children, depth+1)
		}
	}

	walk(t.Root.Children, 0)
}

// String renders the tree one node per line.
func (t *Tree) String() string {
	var sb strings.Builder

	sb.WriteString(t.Type.String())
	if t.Wrapped {
		sb.WriteString(" (wrapped)")
	}
	sb.WriteByte('\n')

	t.Walk(func(n *Node, depth int) {
		fmt.Fprintf(&sb, "%s%s %s", strings.Repeat("  ", depth+1), n.Field.Name, n.Kind)

		if n.Column != "" {
			fmt.Fprintf(&sb, " <- %s", n.Column)
		}

		if n.IsKey {
			sb.WriteString(" [key]")
		}

		if n.Identity != nil && len(n.Identity.Fields()) > 0 {
			fmt.Fprintf(&sb, " keyed by %s", strings.Join(n.Identity.Fields(), ", "))
		}

		sb.WriteByte('\n')
	})

	return sb.String()
}
