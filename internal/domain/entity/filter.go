// internal/domain/entity/filter.go
package entity

// Pattern file columns with filter semantics.
const (
	PatternDepartureColumn = "ConditionDepartureCities"
	PatternArrivalColumn   = "ConditionArrivalCities"
	PatternProviderColumn  = "ProviderName"
)

// Filter narrows a table to rows whose Column contains Contains
// (case-insensitive). IncludeBlanks also keeps rows where the column is blank.
// An empty Contains makes the filter inactive.
type Filter struct {
	Column        string `json:"column"`
	Contains      string `json:"contains"`
	IncludeBlanks bool   `json:"include_blanks"`
}

// Active reports whether the filter narrows anything.
func (f Filter) Active() bool {
	return f.Contains != ""
}

// FilterState is the set of pattern filters and display options for one
// request.
type FilterState struct {
	Departure             string
	IncludeBlankDeparture bool
	Arrival               string
	IncludeBlankArrival   bool
	Provider              string

	// Columns to display; nil means all columns.
	Columns []string
	// Limit on displayed rows; 0 means all.
	Limit int
}

// Filters returns the filter chain in application order.
func (s FilterState) Filters() []Filter {
	return []Filter{
		{Column: PatternDepartureColumn, Contains: s.Departure, IncludeBlanks: s.IncludeBlankDeparture},
		{Column: PatternArrivalColumn, Contains: s.Arrival, IncludeBlanks: s.IncludeBlankArrival},
		{Column: PatternProviderColumn, Contains: s.Provider},
	}
}
