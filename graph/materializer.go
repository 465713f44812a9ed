package graph

import (
	"errors"
	"fmt"
	"reflect"

	"rowgraph/node"
	"rowgraph/options"
	"rowgraph/primitive"
	"rowgraph/rowsource"
)

var ErrNilSource = errors.New("row source is nil")

// Materializer owns the converter and the tree cache shared by its calls. It is safe for
// concurrent use.
type Materializer struct {
	opts  options.Options
	conv  *primitive.Converter
	cache *node.Cache
}

// std backs Get and calls given a nil Materializer.
var std = New()

func New(opts ...options.Option) *Materializer {
	o := options.New(opts...)

	return NewWithOptions(o)
}

// NewWithOptions is New for options loaded as a whole, e.g. with options.LoadFile.
func NewWithOptions(o options.Options) *Materializer {
	m := &Materializer{
		opts: o,
		conv: primitive.NewConverter(o),
	}

	if !o.NoCache {
		m.cache = &node.Cache{}
	}

	return m
}

func (m *Materializer) Options() options.Options {
	return m.opts
}

// Tree returns the map tree of t for the given columns and keys, building it on a cache
// miss.
func (m *Materializer) Tree(t reflect.Type, columns, keys []string) (*node.Tree, error) {
	if m.cache != nil {
		if tree, ok := m.cache.Load(t, columns, keys); ok {
			return tree, nil
		}
	}

	tree, err := node.Build(t, columns, keys, m.conv, m.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to map %s: %w", t, err)
	}

	if m.cache == nil {
		return tree, nil
	}

	m.opts.Logf("built map tree for %s over %d columns", t, len(columns))

	return m.cache.Store(t, columns, keys, tree), nil
}

// CachedTrees returns the number of cached map trees.
func (m *Materializer) CachedTrees() int {
	if m.cache == nil {
		return 0
	}

	return m.cache.Len()
}

// Materialize reads every row of src into a T. Struct and *struct types receive the
// merged rows directly; slices and maps collect one item per row (or per key); scalars
// take the last non-NULL row. With no rows the zero T is returned.
//
// Build errors (*node.ConfigurationError, *node.InvalidKeyError) are reported before any
// row is read. A *primitive.ConversionError aborts the call.
func Materialize[T any](m *Materializer, src rowsource.Source, keys ...string) (T, error) {
	var zero T

	if src == nil {
		return zero, ErrNilSource
	}

	if m == nil {
		m = std
	}

	tree, err := m.Tree(reflect.TypeFor[T](), src.Columns(), keys)
	if err != nil {
		return zero, err
	}

	v, err := tree.Materialize(src)
	if err != nil {
		return zero, err
	}

	return v.Interface().(T), nil
}

// Get materializes src with the default options.
func Get[T any](src rowsource.Source, keys ...string) (T, error) {
	return Materialize[T](std, src, keys...)
}
