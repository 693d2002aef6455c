package columns

import (
	"slices"
	"strings"

	"github.com/artie-labs/bulkload/lib/typing"
)

// Column describes a target table column as reported by the backend.
type Column struct {
	Name string
	// RawType is the type as the backend spells it, e.g. `int(11) unsigned` or `character varying(256)`.
	RawType            string
	Type               typing.DataType
	Nullable           bool
	PrimaryKey         bool
	PrimaryKeyPosition int
	Identity           bool
	DefaultValue       *string
}

func (c Column) Length() *int {
	return c.Type.Length
}

func (c Column) Precision() *int {
	return c.Type.Precision
}

func (c Column) Scale() *int {
	return c.Type.Scale
}

type Columns []Column

// Get looks a column up case-insensitively.
func (c Columns) Get(name string) (Column, bool) {
	for _, col := range c {
		if strings.EqualFold(col.Name, name) {
			return col, true
		}
	}
	return Column{}, false
}

func (c Columns) Names() []string {
	names := make([]string, len(c))
	for i, col := range c {
		names[i] = col.Name
	}
	return names
}

// PrimaryKeys returns the key columns ordered by their position within the key.
func (c Columns) PrimaryKeys() Columns {
	var keys Columns
	for _, col := range c {
		if col.PrimaryKey {
			keys = append(keys, col)
		}
	}

	slices.SortStableFunc(keys, func(a, b Column) int {
		return a.PrimaryKeyPosition - b.PrimaryKeyPosition
	})
	return keys
}

// Select returns the columns matching names, in the order of names, along with the names that could not be found.
func (c Columns) Select(names []string) (Columns, []string) {
	var selected Columns
	var missing []string
	for _, name := range names {
		col, ok := c.Get(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		selected = append(selected, col)
	}
	return selected, missing
}

func (c Columns) Without(names ...string) Columns {
	var result Columns
	for _, col := range c {
		if !slices.ContainsFunc(names, func(name string) bool { return strings.EqualFold(name, col.Name) }) {
			result = append(result, col)
		}
	}
	return result
}

// Duplicates returns the names that occur more than once, ignoring case.
func Duplicates(names []string) []string {
	seen := make(map[string]bool, len(names))
	var duplicates []string
	for _, name := range names {
		key := strings.ToLower(name)
		if seen[key] {
			if !slices.ContainsFunc(duplicates, func(dup string) bool { return strings.EqualFold(dup, name) }) {
				duplicates = append(duplicates, name)
			}
			continue
		}
		seen[key] = true
	}
	return duplicates
}
