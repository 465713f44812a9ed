package mapping

import (
	"errors"
	"fmt"
	"strings"
)

// Separator joins the segments of a column path.
const Separator = "."

// ColumnPath is a column name split into lower-cased segments.
type ColumnPath struct {
	// Column is the name as reported by the source.
	Column string
	// Segments are the remaining (not yet matched) lower-cased segments.
	Segments []string
}

// ParsePath parses a column name. It never fails: malformed names simply match no field.
func ParsePath(column string) ColumnPath {
	return ColumnPath{
		Column:   column,
		Segments: strings.Split(strings.ToLower(column), Separator),
	}
}

// ParsePaths parses every column name, preserving order.
func ParsePaths(columns []string) []ColumnPath {
	res := make([]ColumnPath, 0, len(columns))
	for _, c := range columns {
		res = append(res, ParsePath(c))
	}

	return res
}

// ParseKey parses a key path such as "Orders.ID". Unlike columns, keys must be well formed.
func ParseKey(key string) (ColumnPath, error) {
	if strings.TrimSpace(key) == "" {
		return ColumnPath{}, errors.New("empty key")
	}

	p := ParsePath(strings.TrimSpace(key))
	for _, s := range p.Segments {
		if strings.TrimSpace(s) == "" {
			return ColumnPath{}, fmt.Errorf("invalid key %q: empty segment", key)
		}
	}

	return p, nil
}

// Head returns the first remaining segment.
func (p ColumnPath) Head() string {
	if len(p.Segments) == 0 {
		return ""
	}

	return p.Segments[0]
}

// Tail returns the path with its first segment consumed.
func (p ColumnPath) Tail() ColumnPath {
	if len(p.Segments) == 0 {
		return p
	}

	return ColumnPath{Column: p.Column, Segments: p.Segments[1:]}
}

// IsLeaf reports whether a single segment remains.
func (p ColumnPath) IsLeaf() bool {
	return len(p.Segments) == 1
}

// String returns the remaining segments joined back together.
func (p ColumnPath) String() string {
	return strings.Join(p.Segments, Separator)
}

// Group is every path sharing one head segment, with that segment consumed.
type Group struct {
	Head  string
	Paths []ColumnPath
}

// Columns returns the source column names of the group.
func (g Group) Columns() []string {
	res := make([]string, 0, len(g.Paths))
	for _, p := range g.Paths {
		res = append(res, p.Column)
	}

	return res
}

// Leaf returns the first path of the group that ended at the head segment.
func (g Group) Leaf() (ColumnPath, bool) {
	for _, p := range g.Paths {
		if len(p.Segments) == 0 {
			return p, true
		}
	}

	return ColumnPath{}, false
}

// Nested returns the paths of the group that continue past the head segment.
func (g Group) Nested() []ColumnPath {
	var res []ColumnPath

	for _, p := range g.Paths {
		if len(p.Segments) > 0 {
			res = append(res, p)
		}
	}

	return res
}

// GroupByHead groups paths by their first segment in first-seen order. Paths without
// segments are dropped.
func GroupByHead(paths []ColumnPath) []Group {
	var groups []Group

	index := make(map[string]int)

	for _, p := range paths {
		if len(p.Segments) == 0 {
			continue
		}

		head := p.Head()

		i, ok := index[head]
		if !ok {
			i = len(groups)
			index[head] = i
			groups = append(groups, Group{Head: head})
		}

		groups[i].Paths = append(groups[i].Paths, p.Tail())
	}

	return groups
}
