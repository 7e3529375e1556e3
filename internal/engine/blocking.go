package engine

import (
	"github.com/locmatch/internal/dataset"
)

// group is one blocking partition: the shared exact key and the member row
// indices in dataset order.
type group struct {
	key  string
	rows []int
}

// groupRows partitions rows by the exact key keyFn yields, preserving
// first-encounter order of keys and row order within a group. Rows with a
// blank key carry a missing value on that axis and are excluded.
func groupRows(rows []int, keyFn func(row int) string) []group {
	index := make(map[string]int)
	var out []group
	for _, r := range rows {
		k := keyFn(r)
		if k == "" {
			continue
		}
		if gi, ok := index[k]; ok {
			out[gi].rows = append(out[gi].rows, r)
			continue
		}
		index[k] = len(out)
		out = append(out, group{key: k, rows: []int{r}})
	}
	return out
}

// allRows returns 0..n-1 for a dataset.
func allRows(d *dataset.Dataset) []int {
	rows := make([]int, d.Len())
	for i := range rows {
		rows[i] = i
	}
	return rows
}

// postalGroups partitions the reference dataset by normalized postal code.
func (m *Matcher) postalGroups() []group {
	return groupRows(allRows(m.ref), func(r int) string {
		return m.ref.Cell(r, m.opts.Reference.Zip)
	})
}

// coordGroups sub-partitions one postal group of reference rows by the exact
// rounded coordinate pair. Rows whose coordinates failed to parse have blank
// cells and fall out of coordinate blocking.
func (m *Matcher) coordGroups(refRows []int) []group {
	return groupRows(refRows, func(r int) string {
		lat := m.ref.Cell(r, m.opts.Reference.Lat)
		long := m.ref.Cell(r, m.opts.Reference.Long)
		if lat == "" || long == "" {
			return ""
		}
		return lat + "," + long
	})
}

// unclaimedTargets returns, in row order, the target rows that are not yet
// claimed and for which every one of the given column/value pairs matches
// exactly. A nil filter selects all unclaimed rows.
func (m *Matcher) unclaimedTargets(want map[string]string) []int {
	var out []int
row:
	for i := 0; i < m.tgt.Len(); i++ {
		if m.claimed[i] {
			continue
		}
		for col, val := range want {
			if m.tgt.Cell(i, col) != val {
				continue row
			}
		}
		out = append(out, i)
	}
	return out
}
