package usecase

import (
	"searchpattern-service/internal/domain/entity"
)

// ApplyFilters runs filters left to right, each one narrowing the result of
// the previous one. Inactive filters and filters on columns the table does
// not have are skipped. Blank rows kept by IncludeBlanks can still be dropped
// by a later filter.
func ApplyFilters(table *entity.Table, filters []entity.Filter) *entity.Table {
	current := table
	for _, f := range filters {
		if !f.Active() {
			continue
		}
		idx := current.LookupColumn(f.Column)
		if idx < 0 {
			continue
		}
		current = current.Where(func(row []string) bool {
			v := row[idx]
			if entity.IsBlank(v) {
				return f.IncludeBlanks
			}
			return containsFold(v, f.Contains)
		})
	}
	return current
}

// ApplyFilterState filters the table, then applies column selection and the
// row limit for display.
func ApplyFilterState(table *entity.Table, state entity.FilterState) *entity.Table {
	return DisplayView(ApplyFilters(table, state.Filters()), state)
}

// DisplayView applies the column selection and row limit of state to an
// already filtered table.
func DisplayView(filtered *entity.Table, state entity.FilterState) *entity.Table {
	view := filtered
	if state.Columns != nil {
		view = view.Select(state.Columns)
	}
	return view.Head(state.Limit)
}

// AvailableFilters reports which special pattern columns the table carries.
func AvailableFilters(table *entity.Table) map[string]bool {
	return map[string]bool{
		entity.PatternDepartureColumn: table.HasColumn(entity.PatternDepartureColumn),
		entity.PatternArrivalColumn:   table.HasColumn(entity.PatternArrivalColumn),
		entity.PatternProviderColumn:  table.HasColumn(entity.PatternProviderColumn),
	}
}
