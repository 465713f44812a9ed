package node

import (
	"fmt"
	"hash/fnv"
	"reflect"

	"rowgraph/primitive"
)

// Identity compares list items by their key fields only. Values are canonicalized first
// (see primitive.Canonical), so time keys compare by instant and decimal keys by value.
// An Identity without key fields compares whole values, as scalar lists do.
type Identity struct {
	fields []int
	names  []string
}

func newIdentity(keys []*Node) *Identity {
	id := &Identity{}
	for _, k := range keys {
		id.fields = append(id.fields, k.index())
		id.names = append(id.names, k.Field.Name)
	}

	return id
}

// NewIdentity returns an Identity over the named fields of struct type t, or over whole
// values when no field is named.
func NewIdentity(t reflect.Type, fields ...string) (*Identity, error) {
	id := &Identity{}

	for _, name := range fields {
		f, ok := t.FieldByName(name)
		if !ok || len(f.Index) != 1 {
			return nil, fmt.Errorf("type %s has no field %s", t, name)
		}

		if Dispatch(f.Type) != KindScalar {
			return nil, fmt.Errorf("field %s of type %s is not scalar", name, f.Type)
		}

		id.fields = append(id.fields, f.Index[0])
		id.names = append(id.names, f.Name)
	}

	return id, nil
}

// Fields returns the names of the key fields.
func (id *Identity) Fields() []string {
	return id.names
}

// Key returns the canonical key tuple of v.
func (id *Identity) Key(v reflect.Value) []any {
	for v.Kind() == reflect.Ptr && len(id.fields) > 0 {
		v = v.Elem()
	}

	if len(id.fields) == 0 {
		return []any{primitive.Canonical(v)}
	}

	key := make([]any, len(id.fields))
	for i, f := range id.fields {
		key[i] = primitive.Canonical(v.Field(f))
	}

	return key
}

// Equal reports whether a and b agree on every key field.
func (id *Identity) Equal(a, b reflect.Value) bool {
	return equalKeys(id.Key(a), id.Key(b))
}

// Hash is consistent with Equal.
func (id *Identity) Hash(v reflect.Value) uint64 {
	return hashKey(id.Key(v))
}

func equalKeys(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func hashKey(key []any) uint64 {
	h := fnv.New64a()
	for _, k := range key {
		_, _ = fmt.Fprintf(h, "%T\x00%v\x00", k, k)
	}

	return h.Sum64()
}

// Set indexes the items of one keyed list. Items keep their first-seen position.
type Set struct {
	identity *Identity
	buckets  map[uint64][]int
	keys     [][]any
}

func NewSet(id *Identity) *Set {
	return &Set{identity: id, buckets: make(map[uint64][]int)}
}

// Find returns the position of the stored item equal to candidate.
func (s *Set) Find(candidate reflect.Value) (int, bool) {
	key := s.identity.Key(candidate)

	for _, i := range s.buckets[hashKey(key)] {
		if equalKeys(s.keys[i], key) {
			return i, true
		}
	}

	return 0, false
}

// Add stores item and returns its position. The caller checks membership with Find first.
func (s *Set) Add(item reflect.Value) int {
	key := s.identity.Key(item)
	i := len(s.keys)

	s.keys = append(s.keys, key)
	s.buckets[hashKey(key)] = append(s.buckets[hashKey(key)], i)

	return i
}

func (s *Set) Len() int {
	return len(s.keys)
}
