package node_test

import (
	"fmt"
	"reflect"
	"rowgraph/internal/diagnostic"
	"rowgraph/node"
	"rowgraph/options"
	"rowgraph/primitive"
	"rowgraph/store"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build[T any](columns []string, keys ...string) (*node.Tree, error) {
	return buildWith[T](options.Default(), columns, keys...)
}

func buildWith[T any](opts options.Options, columns []string, keys ...string) (*node.Tree, error) {
	return node.Build(reflect.TypeFor[T](), columns, keys, primitive.NewConverter(opts), opts)
}

func ExampleBuild() {
	tree, err := build[store.Client](
		[]string{"id", "name", "orders.id", "orders.products.id", "orders.products.name"},
		"orders.id", "orders.products.id",
	)
	if err != nil {
		panic(err)
	}

	fmt.Print(tree)

	// Output:
	// store.Client
	//   ID KindScalar <- id
	//   Name KindScalar <- name
	//   Orders KindListOfObject keyed by ID
	//     ID KindScalar <- orders.id [key]
	//     Products KindListOfObject keyed by ID
	//       ID KindScalar <- orders.products.id [key]
	//       Name KindScalar <- orders.products.name
}

func TestBuild_Kinds(t *testing.T) {
	t.Parallel()

	tree, err := build[store.Client]([]string{"ID", "Orders.Status", "Orders.DeliveryTime", "OrdersID.ID"})
	require.NoError(t, err)
	require.Len(t, tree.Root.Children, 3)

	id, orders, ordersID := tree.Root.Children[0], tree.Root.Children[1], tree.Root.Children[2]

	assert.Equal(t, node.KindScalar, id.Kind)
	assert.Equal(t, "ID", id.Column)

	assert.Equal(t, node.KindListOfObject, orders.Kind)
	assert.Equal(t, "orders", orders.Path)
	require.Len(t, orders.Children, 2)
	assert.Equal(t, "orders.status", orders.Children[0].Path)
	assert.Equal(t, "Orders.DeliveryTime", orders.Children[1].Column)
	assert.Nil(t, orders.Identity)

	assert.Equal(t, node.KindListOfScalar, ordersID.Kind)
	assert.Equal(t, "OrdersID.ID", ordersID.Column)
	assert.False(t, tree.Wrapped)
}

func TestBuild_Diagnostics(t *testing.T) {
	t.Parallel()

	tree, err := build[store.Client]([]string{"id", "nam", "ID", "orders"})
	require.NoError(t, err)
	require.Len(t, tree.Root.Children, 1)

	require.Len(t, tree.Diagnostics.Warnings, 1)
	assert.Equal(t, diagnostic.CodeShadowedColumn, tree.Diagnostics.Warnings[0].Code)
	assert.Equal(t, "ID", tree.Diagnostics.Warnings[0].Column)

	require.Len(t, tree.Diagnostics.Infos, 2)
	assert.Equal(t, diagnostic.CodeUnmatchedColumn, tree.Diagnostics.Infos[0].Code)
	assert.Equal(t, "nam", tree.Diagnostics.Infos[0].Column)
	assert.Equal(t, []string{"Name"}, tree.Diagnostics.Infos[0].Suggestions)
	assert.Equal(t, diagnostic.CodeIgnoredColumn, tree.Diagnostics.Infos[1].Code)
	assert.Equal(t, "orders", tree.Diagnostics.Infos[1].Column)
}

func TestBuild_NameMatching(t *testing.T) {
	t.Parallel()

	type tagged struct {
		Identifier int    `db:"id"`
		Secret     string `db:"-"`
		CreatedAt  string
		hidden     string
	}

	tree, err := build[tagged]([]string{"id", "secret", "created_at", "hidden"})
	require.NoError(t, err)
	require.Len(t, tree.Root.Children, 1)
	assert.Equal(t, "Identifier", tree.Root.Children[0].Field.Name)
	assert.Len(t, tree.Diagnostics.Infos, 3)

	tree, err = buildWith[tagged](options.New(options.WithLooseNames()), []string{"id", "created_at"})
	require.NoError(t, err)
	require.Len(t, tree.Root.Children, 2)
	assert.Equal(t, "CreatedAt", tree.Root.Children[1].Field.Name)

	type custom struct {
		ID int `col:"key"`
	}

	tree, err = buildWith[custom](options.New(options.WithTag("col")), []string{"key"})
	require.NoError(t, err)
	require.Len(t, tree.Root.Children, 1)
}

func TestBuild_ConfigurationError(t *testing.T) {
	t.Parallel()

	type arrays struct{ Items [2]int }
	type nested struct{ Grid [][]int }
	type funcs struct{ Fn func() }
	type orders struct{ Orders map[int]store.Order }
	type wrongKey struct{ Orders map[string]store.Order }
	type tags struct{ Tags map[string]struct{} }

	tests := []struct {
		name    string
		build   func() (*node.Tree, error)
		field   string
		wantErr bool
	}{
		{"array", func() (*node.Tree, error) { return build[arrays]([]string{"items"}) }, "items", true},
		{"nested slices", func() (*node.Tree, error) { return build[nested]([]string{"grid"}) }, "grid", true},
		{"func", func() (*node.Tree, error) { return build[funcs]([]string{"fn"}) }, "fn", true},
		{"unkeyed map", func() (*node.Tree, error) { return build[orders]([]string{"orders.id"}) }, "orders", true},
		{"keyed map", func() (*node.Tree, error) { return build[orders]([]string{"orders.id"}, "orders.id") }, "", false},
		{"map key type", func() (*node.Tree, error) { return build[wrongKey]([]string{"orders.id"}, "orders.id") }, "orders", true},
		{"unkeyed set", func() (*node.Tree, error) { return build[tags]([]string{"tags"}) }, "tags", true},
		{"keyed set", func() (*node.Tree, error) { return build[tags]([]string{"tags"}, "tags") }, "", false},
		{"chan root", func() (*node.Tree, error) { return build[chan int]([]string{"x"}) }, node.ContentField, true},
		{"unmapped bad field", func() (*node.Tree, error) { return build[funcs]([]string{"other"}) }, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.build()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			var cfgErr *node.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.NotEmpty(t, cfgErr.Reason)
		})
	}
}

func TestBuild_InvalidKeyError(t *testing.T) {
	t.Parallel()

	columns := []string{"id", "orders.id", "orders.products.id", "ordersid.id"}

	for _, key := range []string{"", "orders..id", "orders.missing", "orders", "products.id", "id.x", "id"} {
		t.Run(key, func(t *testing.T) {
			t.Parallel()

			_, err := build[store.Client](columns, key)

			var keyErr *node.InvalidKeyError
			require.ErrorAs(t, err, &keyErr)
			assert.Equal(t, key, keyErr.Key)
		})
	}

	tree, err := build[store.Client](columns, "ORDERS.ID", "ordersid.id")
	require.NoError(t, err)

	var keys []string
	tree.Walk(func(n *node.Node, _ int) {
		if n.IsKey {
			keys = append(keys, n.Path)
		}
	})
	assert.Equal(t, []string{"orders.id", "ordersid"}, keys)
}

func TestBuild_KeyOutsideList(t *testing.T) {
	t.Parallel()

	type customer struct{ ID int }
	type order struct {
		ID       int
		Customer customer
	}
	type account struct {
		Main   customer
		Orders []order
	}

	columns := []string{"main.id", "orders.id", "orders.customer.id"}

	for _, key := range []string{"main.id", "orders.customer.id"} {
		_, err := build[account](columns, key)

		var keyErr *node.InvalidKeyError
		require.ErrorAs(t, err, &keyErr, key)
		assert.Contains(t, keyErr.Error(), "not an item field of a list")
	}

	_, err := build[account](columns, "orders.id")
	require.NoError(t, err)

	_, err = build[[]account](columns, "orders.id", "main.id")
	require.Error(t, err, "nested objects of list items are not list items")
}

func TestBuild_Wrapped(t *testing.T) {
	t.Parallel()

	tree, err := build[[]store.Client]([]string{"id", "name", "ordersid.id"}, "id", "ordersid.id")
	require.NoError(t, err)
	assert.True(t, tree.Wrapped)

	content := tree.Root.Children[0]
	assert.Equal(t, node.KindListOfObject, content.Kind)
	require.NotNil(t, content.Identity)
	assert.Equal(t, []string{"ID"}, content.Identity.Fields())

	tree, err = build[[]int]([]string{"productid", "ignored"}, "PRODUCTID")
	require.NoError(t, err)
	assert.Equal(t, "productid", tree.Root.Children[0].Column)
	assert.True(t, tree.Root.Children[0].IsKey)
	assert.Len(t, tree.Diagnostics.Infos, 1)

	_, err = build[[]int]([]string{"productid"}, "other")
	var keyErr *node.InvalidKeyError
	require.ErrorAs(t, err, &keyErr)

	_, err = build[int]([]string{"count(*)"}, "count")
	require.ErrorAs(t, err, &keyErr)

	tree, err = build[*store.Client]([]string{"id"})
	require.NoError(t, err)
	assert.False(t, tree.Wrapped)
}

func TestBuild_NilType(t *testing.T) {
	t.Parallel()

	_, err := node.Build(nil, nil, nil, primitive.NewConverter(options.Default()), options.Default())
	require.ErrorIs(t, err, node.ErrNilType)
}
