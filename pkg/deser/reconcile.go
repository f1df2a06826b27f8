package deser

import (
	"github.com/715d/bdatconv/pkg/bdat"
	"github.com/715d/bdatconv/pkg/bdaterr"
)

// Reconcile groups columns sharing a label and validates every group: at most
// bdaterr.MaxDuplicateColumns members, all of the first member's type. Groups
// keep the order their labels first appear in, members keep column order.
func Reconcile(table bdat.OptLabel, columns []bdat.Column) ([]bdat.ColumnGroup, error) {
	var groups []bdat.ColumnGroup
	byLabel := make(map[bdat.Label]int, len(columns))
	for i, c := range columns {
		g, ok := byLabel[c.Label]
		if !ok {
			byLabel[c.Label] = len(groups)
			groups = append(groups, bdat.ColumnGroup{Label: c.Label, Type: c.Type, Indices: []int{i}})
			continue
		}
		groups[g].Indices = append(groups[g].Indices, i)
	}

	for _, g := range groups {
		if len(g.Indices) > bdaterr.MaxDuplicateColumns {
			return nil, &bdaterr.MaxDuplicateColumnsError{Table: table, Column: bdat.Opt(g.Label)}
		}
		for _, idx := range g.Indices[1:] {
			if t := columns[idx].Type; t != g.Type {
				return nil, &bdaterr.DuplicateMismatchError{
					Table:  table,
					Column: bdat.Opt(g.Label),
					TypeA:  g.Type,
					TypeB:  t,
				}
			}
		}
	}
	return groups, nil
}
