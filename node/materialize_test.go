package node_test

import (
	"database/sql"
	"errors"
	"rowgraph/node"
	"rowgraph/primitive"
	"rowgraph/rowsource"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type address struct {
	City string
	Zip  *string
}

type pet struct {
	ID   int
	Name string
}

type visit struct {
	At   time.Time
	Note sql.NullString
}

type person struct {
	ID     int
	Name   string
	Home   address
	Work   *address
	Tags   map[string]struct{}
	Phones []string
	Pets   map[int]*pet
	Visits []*visit
}

func materialize[T any](t *testing.T, src rowsource.Source, keys ...string) (T, error) {
	t.Helper()

	var zero T

	tree, err := build[T](src.Columns(), keys...)
	if err != nil {
		return zero, err
	}

	v, err := tree.Materialize(src)
	if err != nil {
		return zero, err
	}

	return v.Interface().(T), nil
}

func TestMaterialize_Shapes(t *testing.T) {
	t.Parallel()

	src := rowsource.NewTable(
		[]string{"id", "name", "home.city", "work.city", "tags", "phones", "pets.id", "pets.name", "visits.at", "visits.note"},
		[]any{int64(1), "Ann", "Oslo", "Bergen", "a", "111", int64(7), "Rex", "2024-01-01T00:00:00Z", "first"},
		[]any{int64(1), nil, nil, nil, "b", "222", int64(7), "Rex II", "2024-01-01T02:00:00+02:00", nil},
		[]any{int64(1), "Anna", nil, nil, "a", nil, nil, nil, nil, nil},
	)

	p, err := materialize[person](t, src, "tags", "pets.id", "visits.at")
	require.NoError(t, err)

	assert.Equal(t, 1, p.ID)
	assert.Equal(t, "Anna", p.Name, "last non-NULL value wins")
	assert.Equal(t, "Oslo", p.Home.City)
	assert.Nil(t, p.Home.Zip)
	require.NotNil(t, p.Work)
	assert.Equal(t, "Bergen", p.Work.City)
	assert.Equal(t, map[string]struct{}{"a": {}, "b": {}}, p.Tags)
	assert.Equal(t, []string{"111", "222"}, p.Phones, "NULL cells add no item")
	assert.Equal(t, map[int]*pet{7: {ID: 7, Name: "Rex II"}}, p.Pets)

	require.Len(t, p.Visits, 1, "equal instants in different zones are one key: %s", spew.Sdump(p.Visits))
	assert.Equal(t, sql.NullString{String: "first", Valid: true}, p.Visits[0].Note)
}

func TestMaterialize_PointerRoot(t *testing.T) {
	t.Parallel()

	p, err := materialize[*person](t, rowsource.NewTable([]string{"id"}))
	require.NoError(t, err)
	assert.Nil(t, p, "no rows, no result")

	p, err = materialize[*person](t, rowsource.NewTable([]string{"id"}, []any{int64(3)}))
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 3, p.ID)
}

func TestMaterialize_ValueItemsKeepNestedLists(t *testing.T) {
	t.Parallel()

	type line struct {
		SKU string
	}

	type order struct {
		ID    int
		Lines []line
	}

	type cart struct {
		Orders []order
	}

	src := rowsource.NewTable([]string{"orders.id", "orders.lines.sku"},
		[]any{int64(1), "a"},
		[]any{int64(2), "c"},
		[]any{int64(1), "b"},
	)

	c, err := materialize[cart](t, src, "orders.id", "orders.lines.sku")
	require.NoError(t, err)

	assert.Equal(t, []order{
		{ID: 1, Lines: []line{{"a"}, {"b"}}},
		{ID: 2, Lines: []line{{"c"}}},
	}, c.Orders, "items keep their first-seen position and are refined in place")
}

func TestMaterialize_ConversionError(t *testing.T) {
	t.Parallel()

	src := rowsource.NewTable([]string{"id", "name"},
		[]any{int64(1), "Ann"},
		[]any{"abc", "Bob"},
	)

	_, err := materialize[person](t, src)

	var convErr *primitive.ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "id", convErr.Column)
	assert.Equal(t, "abc", convErr.Value)
}

type failingSource struct {
	*rowsource.Table
}

var errBroken = errors.New("connection reset")

func (failingSource) Err() error { return errBroken }

func TestMaterialize_SourceError(t *testing.T) {
	t.Parallel()

	src := failingSource{rowsource.NewTable([]string{"id"}, []any{int64(1)})}

	_, err := materialize[person](t, src)
	require.ErrorIs(t, err, errBroken)
}

func TestMaterialize_ReusedTree(t *testing.T) {
	t.Parallel()

	columns := []string{"id", "pets.id"}

	tree, err := build[person](columns, "pets.id")
	require.NoError(t, err)

	for i := range 3 {
		v, err := tree.Materialize(rowsource.NewTable(columns,
			[]any{int64(i), int64(1)},
			[]any{int64(i), int64(2)},
		))
		require.NoError(t, err)

		p := v.Interface().(person)
		assert.Equal(t, i, p.ID)
		assert.Len(t, p.Pets, 2, "every call starts from a fresh graph")
	}
}

func TestMaterialize_Kinds(t *testing.T) {
	t.Parallel()

	assert.True(t, node.KindListOfScalar.IsList())
	assert.False(t, node.KindNestedObject.IsList())
	assert.True(t, node.KindNestedObject.IsObject())
	assert.False(t, node.KindScalar.IsObject())
}
