package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"searchpattern-service/internal/domain/entity"
	"searchpattern-service/pkg/logger"
)

// integralPattern matches ids a spreadsheet may have exported as numbers,
// e.g. "123" or "123.0".
var integralPattern = regexp.MustCompile(`^([+-]?\d+)(?:\.0*)?$`)

// RouteAggregator groups product records into routes
type RouteAggregator struct {
	logger logger.Logger
}

// NewRouteAggregator creates a new route aggregator
func NewRouteAggregator(logger logger.Logger) *RouteAggregator {
	return &RouteAggregator{logger: logger}
}

// Aggregate groups products by their exact (departure, arrival, return)
// triple, in order of first appearance. Codes are compared as-is: no trimming
// and no case folding, matching how upstream systems emit them.
//
// A table without the required columns yields an empty result together with
// an *entity.SchemaError.
func (a *RouteAggregator) Aggregate(products *entity.Table) (*entity.AggregationResult, error) {
	result := &entity.AggregationResult{Routes: []entity.Route{}}

	idx := make(map[string]int, len(entity.ProductColumns))
	var missing []string
	for _, col := range entity.ProductColumns {
		i := products.ColumnIndex(col)
		if i < 0 {
			missing = append(missing, col)
			continue
		}
		idx[col] = i
	}
	if len(missing) > 0 {
		a.logger.Warn("Product file rejected", "missing", missing)
		return result, &entity.SchemaError{Source: "product file", Missing: missing}
	}

	var extraIdx []int
	for i, col := range products.Columns {
		if !isProductColumn(col) {
			extraIdx = append(extraIdx, i)
			result.ExtraColumns = append(result.ExtraColumns, col)
		}
	}

	type group struct {
		route entity.Route
		ids   []string
		seen  map[string]struct{}
	}
	groups := make(map[string]*group)
	var order []string

	for _, row := range products.Rows {
		dep, arr, ret := row[idx[entity.DepartureColumn]], row[idx[entity.ArrivalColumn]], row[idx[entity.ReturnColumn]]
		key := entity.NewRouteKey(dep, arr, ret)

		g, ok := groups[key]
		if !ok {
			g = &group{
				route: entity.Route{Key: key, Departure: dep, Arrival: arr, Return: ret},
				seen:  make(map[string]struct{}),
			}
			if len(extraIdx) > 0 {
				g.route.Extra = make(map[string]string, len(extraIdx))
				for _, i := range extraIdx {
					g.route.Extra[products.Columns[i]] = row[i]
				}
			}
			groups[key] = g
			order = append(order, key)
		}

		id := CanonicalProductID(row[idx[entity.ProductIDColumn]])
		if id == "" {
			continue
		}
		if _, dup := g.seen[id]; dup {
			continue
		}
		g.seen[id] = struct{}{}
		g.ids = append(g.ids, id)
	}

	for _, key := range order {
		g := groups[key]
		g.route.ProductIDs = strings.Join(g.ids, entity.ProductIDSeparator)
		result.Routes = append(result.Routes, g.route)
	}

	a.logger.Info("Aggregated product file", "products", products.Len(), "routes", len(result.Routes))
	return result, nil
}

// CanonicalProductID normalizes a product id so the same id spelled as text
// or as a number aggregates once: surrounding whitespace is dropped and
// integral numbers are rendered in base 10 without sign padding or decimals.
func CanonicalProductID(raw string) string {
	v := strings.TrimSpace(raw)
	m := integralPattern.FindStringSubmatch(v)
	if m == nil {
		return v
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return v
	}
	return strconv.FormatInt(n, 10)
}

func isProductColumn(col string) bool {
	for _, c := range entity.ProductColumns {
		if c == col {
			return true
		}
	}
	return false
}
