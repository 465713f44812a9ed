package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	p := ParsePath("Orders.Products.ID")

	assert.Equal(t, "Orders.Products.ID", p.Column)
	assert.Equal(t, []string{"orders", "products", "id"}, p.Segments)
	assert.Equal(t, "orders", p.Head())
	assert.Equal(t, "products.id", p.Tail().String())
	assert.False(t, p.IsLeaf())
	assert.True(t, p.Tail().Tail().IsLeaf())
	assert.Equal(t, p.Column, p.Tail().Column)
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		key     string
		want    []string
		wantErr bool
	}{
		{key: "ID", want: []string{"id"}},
		{key: " Orders.ID ", want: []string{"orders", "id"}},
		{key: "", wantErr: true},
		{key: "Orders..ID", wantErr: true},
		{key: ".ID", wantErr: true},
		{key: "Orders.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			p, err := ParseKey(tt.key)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Segments)
		})
	}
}

func TestGroupByHead(t *testing.T) {
	paths := ParsePaths([]string{"ID", "Orders.ID", "Name", "orders.Products.ID", "ORDERS.Status"})

	groups := GroupByHead(paths)
	require.Len(t, groups, 3)

	assert.Equal(t, "id", groups[0].Head)
	assert.Equal(t, "orders", groups[1].Head)
	assert.Equal(t, "name", groups[2].Head)

	leaf, ok := groups[0].Leaf()
	require.True(t, ok)
	assert.Equal(t, "ID", leaf.Column)

	_, ok = groups[1].Leaf()
	assert.False(t, ok)
	assert.Equal(t, []string{"Orders.ID", "orders.Products.ID", "ORDERS.Status"}, groups[1].Columns())

	nested := GroupByHead(groups[1].Nested())
	require.Len(t, nested, 3)
	assert.Equal(t, "products", nested[1].Head)
	assert.Equal(t, []string{"id"}, nested[1].Paths[0].Segments)
}
