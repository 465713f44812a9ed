package graph_test

import (
	"bytes"
	"fmt"
	"log"
	"math"
	"rowgraph/graph"
	"rowgraph/node"
	"rowgraph/options"
	"rowgraph/primitive"
	"rowgraph/rowsource"
	"rowgraph/store"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clientColumns = []string{"id", "name", "orders.id", "orders.products.id", "orders.products.name"}

func productIDs(o store.Order) []int {
	ids := make([]int, 0, len(o.Products))
	for _, p := range o.Products {
		ids = append(ids, p.ID)
	}

	return ids
}

func Example() {
	src := rowsource.NewTable(clientColumns,
		[]any{int64(1), "A", int64(10), int64(100), "X"},
		[]any{int64(1), "A", int64(10), int64(101), "Y"},
	)

	client, err := graph.Get[store.Client](src, "orders.id", "orders.products.id")
	if err != nil {
		panic(err)
	}

	for _, o := range client.Orders {
		fmt.Println(client.ID, client.Name, o.ID)

		for _, p := range o.Products {
			fmt.Println(" ", p.ID, p.Name)
		}
	}

	// Output:
	// 1 A 10
	//   100 X
	//   101 Y
}

func TestScenarioA(t *testing.T) {
	t.Parallel()

	src := rowsource.NewTable(clientColumns,
		[]any{int64(1), "A", int64(10), int64(100), "X"},
		[]any{int64(1), "A", int64(10), int64(101), "Y"},
	)

	client, err := graph.Get[store.Client](src, "orders.id", "orders.products.id")
	require.NoError(t, err)

	assert.Equal(t, store.Client{
		ID:   1,
		Name: "A",
		Orders: []store.Order{{
			ID: 10,
			Products: []store.Product{
				{ID: 100, Name: "X"},
				{ID: 101, Name: "Y"},
			},
		}},
	}, client)
}

func TestScenarioB(t *testing.T) {
	t.Parallel()

	src := rowsource.NewTable(clientColumns,
		[]any{int64(1), "A", int64(10), int64(100), "X"},
		[]any{int64(1), "A", int64(10), nil, "Y"},
	)

	client, err := graph.Get[store.Client](src, "orders.id", "orders.products.id")
	require.NoError(t, err)

	require.Len(t, client.Orders, 1)
	assert.Equal(t, []store.Product{{ID: 100, Name: "X"}}, client.Orders[0].Products)
}

func TestScenarioC(t *testing.T) {
	t.Parallel()

	src := rowsource.NewTable([]string{"productid"},
		[]any{int64(5)},
		[]any{int64(6)},
		[]any{int64(6)},
	)

	ids, err := graph.Get[[]int](src)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6, 6}, ids)

	src.Reset()

	ids, err = graph.Get[[]int](src, "productid")
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6}, ids, "a keyed scalar list keeps distinct values")
}

type phase int

const (
	phaseCreated phase = iota
	phaseStarted
)

// phase declares member names only, no stored raw values.
func (phase) EnumMembers() []primitive.EnumMember {
	return []primitive.EnumMember{
		{Name: "Created", Value: phaseCreated},
		{Name: "Started", Value: phaseStarted},
	}
}

func TestScenarioD(t *testing.T) {
	t.Parallel()

	src := rowsource.NewTable([]string{"id", "orders.id", "orders.status"},
		[]any{int64(1), int64(10), "S"},
		[]any{int64(1), int64(11), "Started"},
		[]any{int64(1), int64(12), " started "},
	)

	client, err := graph.Get[store.Client](src, "orders.id")
	require.NoError(t, err)
	require.Len(t, client.Orders, 3)

	for _, o := range client.Orders {
		assert.Equal(t, store.StatusStarted, o.Status, "order %d", o.ID)
	}

	type job struct {
		Phase phase
	}

	j, err := graph.Get[job](rowsource.NewTable([]string{"phase"}, []any{"Started"}))
	require.NoError(t, err)
	assert.Equal(t, phaseStarted, j.Phase)

	_, err = graph.Get[job](rowsource.NewTable([]string{"phase"}, []any{"S"}))

	var convErr *primitive.ConversionError
	require.ErrorAs(t, err, &convErr)
	require.ErrorIs(t, err, primitive.ErrNoEnumMember)
	assert.Equal(t, "phase", convErr.Column)
}

func TestDedupIdempotence(t *testing.T) {
	t.Parallel()

	r1 := []any{int64(1), "A", int64(10), int64(100), "X"}
	r2 := []any{int64(1), "A", int64(10), int64(101), "Y"}

	for _, rows := range [][][]any{
		{r1, r2},
		{r2, r1},
		{r1, r1, r2, r2, r1},
		{r2, r1, r2},
	} {
		client, err := graph.Get[store.Client](rowsource.NewTable(clientColumns, rows...), "orders.id", "orders.products.id")
		require.NoError(t, err)

		require.Len(t, client.Orders, 1)
		assert.ElementsMatch(t, []int{100, 101}, productIDs(client.Orders[0]))
	}
}

func TestFloatKeys(t *testing.T) {
	t.Parallel()

	type reading struct {
		Value float64
		Note  string
	}

	src := rowsource.NewTable([]string{"value", "note"},
		[]any{0.0, "a"},
		[]any{math.Copysign(0, -1), "b"},
		[]any{math.NaN(), "c"},
		[]any{math.NaN(), "d"},
	)

	readings, err := graph.Get[[]reading](src, "value")
	require.NoError(t, err)
	require.Len(t, readings, 2, "0 and -0 are one key, NaN is one key")

	assert.Equal(t, "b", readings[0].Note)
	assert.True(t, math.IsNaN(readings[1].Value))
	assert.Equal(t, "d", readings[1].Note)
}

func TestNullKeyOmission(t *testing.T) {
	t.Parallel()

	src := rowsource.NewTable([]string{"id", "name", "orders.id", "orders.status", "orders.products.id"},
		[]any{int64(1), "A", nil, "F", nil},
		[]any{int64(1), "B", int64(10), "S", nil},
		[]any{int64(2), "C", nil, nil, nil},
	)

	clients, err := graph.Get[[]store.Client](src, "id", "orders.id", "orders.products.id")
	require.NoError(t, err)
	require.Len(t, clients, 2)

	assert.Equal(t, "B", clients[0].Name, "ancestors are still applied")
	require.Len(t, clients[0].Orders, 1)
	assert.Equal(t, store.StatusStarted, clients[0].Orders[0].Status)
	assert.Empty(t, clients[0].Orders[0].Products)

	assert.Equal(t, "C", clients[1].Name)
	assert.Nil(t, clients[1].Orders)
}

func TestLastNonNullWins(t *testing.T) {
	t.Parallel()

	src := rowsource.NewTable([]string{"id", "name", "orders.id", "orders.status"},
		[]any{int64(1), "A", int64(10), "C"},
		[]any{int64(1), nil, int64(10), "S"},
		[]any{int64(1), "B", int64(10), nil},
		[]any{int64(1), nil, int64(10), nil},
	)

	client, err := graph.Get[store.Client](src, "orders.id")
	require.NoError(t, err)

	assert.Equal(t, "B", client.Name)
	require.Len(t, client.Orders, 1)
	assert.Equal(t, store.StatusStarted, client.Orders[0].Status, "existing items are refined")
}

func TestUnkeyedAccumulation(t *testing.T) {
	t.Parallel()

	src := rowsource.NewTable([]string{"id", "orders.id", "ordersid.id"},
		[]any{int64(1), int64(10), int64(10)},
		[]any{int64(1), int64(10), int64(10)},
		[]any{int64(1), int64(11), int64(11)},
	)

	client, err := graph.Get[store.Client](src)
	require.NoError(t, err)

	assert.Len(t, client.Orders, 3, "unkeyed lists append one item per row")
	assert.Equal(t, []int{10, 10, 11}, client.OrdersID)

	src.Reset()

	client, err = graph.Get[store.Client](src, "orders.id", "ordersid.id")
	require.NoError(t, err)

	assert.Len(t, client.Orders, 2)
	assert.Equal(t, []int{10, 11}, client.OrdersID)
}

func TestScalarRoot(t *testing.T) {
	t.Parallel()

	count, err := graph.Get[int](rowsource.NewTable([]string{"count(*)"}, []any{int64(3)}))
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	name, err := graph.Get[string](rowsource.NewTable([]string{"name"}, []any{"A"}, []any{nil}, []any{"B"}, []any{nil}))
	require.NoError(t, err)
	assert.Equal(t, "B", name, "multi-row scalar results keep the last non-NULL row")

	ptr, err := graph.Get[*int](rowsource.NewTable([]string{"n"}))
	require.NoError(t, err)
	assert.Nil(t, ptr)

	client, err := graph.Get[*store.Client](rowsource.NewTable(clientColumns))
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestMaps(t *testing.T) {
	t.Parallel()

	src := rowsource.NewTable([]string{"id", "name"},
		[]any{int64(1), "A"},
		[]any{int64(2), "B"},
		[]any{int64(1), "A2"},
	)

	byID, err := graph.Get[map[int]*store.Client](src, "id")
	require.NoError(t, err)
	require.Len(t, byID, 2)
	assert.Equal(t, "A2", byID[1].Name)
	assert.Equal(t, "B", byID[2].Name)

	src.Reset()

	_, err = graph.Get[map[int]store.Client](src)

	var cfgErr *node.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	_, err := graph.Get[store.Client](rowsource.NewTable(clientColumns), "orders.missing")

	var keyErr *node.InvalidKeyError
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, "orders.missing", keyErr.Key)

	_, err = graph.Get[store.Client](nil)
	require.ErrorIs(t, err, graph.ErrNilSource)
}

func TestMaterializer_Cache(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	m := graph.New(options.WithLogger(log.New(&buf, "", 0)))

	for range 3 {
		src := rowsource.NewTable(clientColumns, []any{int64(1), "A", int64(10), int64(100), "X"})

		_, err := graph.Materialize[store.Client](m, src, "orders.id")
		require.NoError(t, err)
	}

	assert.Equal(t, 1, m.CachedTrees())
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("built map tree")), buf.String())

	_, err := graph.Materialize[store.Client](m, rowsource.NewTable(clientColumns), "orders.id", "orders.products.id")
	require.NoError(t, err)
	assert.Equal(t, 2, m.CachedTrees())

	uncached := graph.New(options.WithoutCache())

	_, err = graph.Materialize[store.Client](uncached, rowsource.NewTable(clientColumns))
	require.NoError(t, err)
	assert.Zero(t, uncached.CachedTrees())
}

func TestMaterializer_Options(t *testing.T) {
	t.Parallel()

	type flags struct {
		Active bool
	}

	src := rowsource.NewTable([]string{"active"}, []any{"S"})

	f, err := graph.Materialize[flags](graph.New(options.WithAffirmative("s")), src)
	require.NoError(t, err)
	assert.True(t, f.Active)

	src.Reset()

	f, err = graph.Materialize[flags](nil, src)
	require.NoError(t, err)
	assert.False(t, f.Active, "the default marker is y")

	o, err := options.Parse([]byte("affirmative: S\nloose_names: true\n"))
	require.NoError(t, err)

	m := graph.NewWithOptions(o)
	assert.Equal(t, "s", m.Options().Affirmative)
}
