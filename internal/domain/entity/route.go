// internal/domain/entity/route.go
package entity

import "unicode/utf8"

// Product file columns.
const (
	ProductIDColumn = "fpc_reference_product_id"
	DepartureColumn = "fpc_iata_departure"
	ArrivalColumn   = "fpc_iata_arrival"
	ReturnColumn    = "fpc_iata_return"
)

// ProductColumns are the columns a product file must carry.
var ProductColumns = []string{ProductIDColumn, DepartureColumn, ArrivalColumn, ReturnColumn}

// DownloadHeader is the header of the aggregated routes download.
var DownloadHeader = []string{"route", "product_ids", DepartureColumn, ArrivalColumn, ReturnColumn}

const (
	ProductIDSeparator = ";"
	RouteKeySeparator  = "-"
	CityCodeWidth      = 3
)

// Route is one distinct (departure, arrival, return) triple with the
// product ids observed for it.
type Route struct {
	Key        string            `json:"route"`
	ProductIDs string            `json:"product_ids"` // ';' joined, first occurrence order
	Departure  string            `json:"departure"`
	Arrival    string            `json:"arrival"`
	Return     string            `json:"return_code"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// AggregationResult is the route view of one product file.
type AggregationResult struct {
	SourceHash   string   `json:"source_hash"`
	Routes       []Route  `json:"routes"`
	ExtraColumns []string `json:"extra_columns,omitempty"`
}

// Len returns the number of routes.
func (a *AggregationResult) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Routes)
}

// Find returns the route with the given key.
func (a *AggregationResult) Find(key string) (Route, bool) {
	if a == nil {
		return Route{}, false
	}
	for _, r := range a.Routes {
		if r.Key == key {
			return r, true
		}
	}
	return Route{}, false
}

// Table renders the aggregation with DownloadHeader columns.
func (a *AggregationResult) Table() *Table {
	rows := make([][]string, 0, a.Len())
	if a != nil {
		for _, r := range a.Routes {
			rows = append(rows, []string{r.Key, r.ProductIDs, r.Departure, r.Arrival, r.Return})
		}
	}
	columns := make([]string, len(DownloadHeader))
	copy(columns, DownloadHeader)
	return &Table{Columns: columns, Rows: rows}
}

// NewRouteKey joins a triple into "<dep>-<arr>-<ret>".
func NewRouteKey(departure, arrival, returnCode string) string {
	return departure + RouteKeySeparator + arrival + RouteKeySeparator + returnCode
}

// SplitRouteKey cuts a route key at the fixed city code positions 0-2, 4-6
// and 8-10, counted in characters. It does not split on the separator;
// segments beyond the end of a short key come back truncated or empty.
func SplitRouteKey(key string) (departure, arrival, returnCode string) {
	chars := []rune(key)
	step := CityCodeWidth + utf8.RuneCountInString(RouteKeySeparator)
	return segment(chars, 0), segment(chars, step), segment(chars, 2*step)
}

func segment(chars []rune, start int) string {
	if start >= len(chars) {
		return ""
	}
	end := start + CityCodeWidth
	if end > len(chars) {
		end = len(chars)
	}
	return string(chars[start:end])
}

// ResolveResult is the outcome of looking a product id up against the
// pattern table.
type ResolveResult struct {
	ProductID  string  `json:"product_id"`
	Rows       *Table  `json:"rows"`
	Routes     []Route `json:"routes"`
	RouteCount int     `json:"route_count"`
	NoRoutes   bool    `json:"no_routes"`
}
