package usecase

import (
	"strconv"
	"strings"

	"searchpattern-service/internal/domain/entity"
	"searchpattern-service/pkg/logger"
)

// PatternResolver finds the search patterns that apply to a product
type PatternResolver struct {
	logger logger.Logger
}

// NewPatternResolver creates a new pattern resolver
func NewPatternResolver(logger logger.Logger) *PatternResolver {
	return &PatternResolver{logger: logger}
}

// Resolve selects the routes whose joined product ids contain productID as a
// substring, then returns every pattern row compatible with at least one of
// them. Rows come back deduplicated in first-occurrence order. No matching
// route is a normal outcome reported through NoRoutes.
func (p *PatternResolver) Resolve(aggregation *entity.AggregationResult, patterns *entity.Table, productID string) *entity.ResolveResult {
	if patterns == nil {
		patterns = &entity.Table{}
	}
	result := &entity.ResolveResult{
		ProductID: productID,
		Rows:      &entity.Table{Columns: patterns.Columns, Rows: [][]string{}},
		Routes:    []entity.Route{},
	}

	seenRoutes := make(map[string]struct{})
	if aggregation != nil {
		for _, route := range aggregation.Routes {
			if !strings.Contains(route.ProductIDs, productID) {
				continue
			}
			if _, dup := seenRoutes[route.Key]; dup {
				continue
			}
			seenRoutes[route.Key] = struct{}{}
			result.Routes = append(result.Routes, route)
		}
	}
	result.RouteCount = len(result.Routes)

	if result.RouteCount == 0 {
		result.NoRoutes = true
		p.logger.Info("No routes for product", "productID", productID)
		return result
	}

	depIdx := patterns.LookupColumn(entity.PatternDepartureColumn)
	arrIdx := patterns.LookupColumn(entity.PatternArrivalColumn)

	seenRows := make(map[string]struct{})
	for _, route := range result.Routes {
		c1, c2, c3 := entity.SplitRouteKey(route.Key)
		for _, row := range patterns.Rows {
			// The third check deliberately tests the departure column
			// against the return code.
			if !conditionAllows(row, depIdx, c1) ||
				!conditionAllows(row, arrIdx, c2) ||
				!conditionAllows(row, depIdx, c3) {
				continue
			}
			key := rowKey(row)
			if _, dup := seenRows[key]; dup {
				continue
			}
			seenRows[key] = struct{}{}
			result.Rows.Rows = append(result.Rows.Rows, row)
		}
	}

	p.logger.Info("Resolved product",
		"productID", productID,
		"routes", result.RouteCount,
		"rows", result.Rows.Len())
	return result
}

// conditionAllows is true when the condition cell is blank (or the column is
// absent) or contains code, ignoring case.
func conditionAllows(row []string, idx int, code string) bool {
	if idx < 0 || entity.IsBlank(row[idx]) {
		return true
	}
	return containsFold(row[idx], code)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// rowKey encodes a row unambiguously for equality checks.
func rowKey(row []string) string {
	var b strings.Builder
	for _, cell := range row {
		b.WriteString(strconv.Itoa(len(cell)))
		b.WriteByte(':')
		b.WriteString(cell)
	}
	return b.String()
}
