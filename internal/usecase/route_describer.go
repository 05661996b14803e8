package usecase

import (
	"context"
	"errors"
	"fmt"

	"searchpattern-service/internal/domain/entity"
	"searchpattern-service/internal/domain/repository"
	"searchpattern-service/pkg/logger"
)

// RouteDescriber attaches airport reference data to routes
type RouteDescriber struct {
	airportRepo repository.AirportRepository
	logger      logger.Logger
}

// NewRouteDescriber creates a new route describer. airportRepo may be nil,
// in which case routes are described without airport details.
func NewRouteDescriber(airportRepo repository.AirportRepository, logger logger.Logger) *RouteDescriber {
	return &RouteDescriber{
		airportRepo: airportRepo,
		logger:      logger,
	}
}

// Describe looks up the three codes of the route key.
func (d *RouteDescriber) Describe(ctx context.Context, route entity.Route) (*entity.RouteDescription, error) {
	desc := &entity.RouteDescription{Route: route}
	if d.airportRepo == nil {
		return desc, nil
	}

	dep, arr, ret := entity.SplitRouteKey(route.Key)
	targets := []struct {
		code string
		dst  **entity.Airport
	}{
		{dep, &desc.Departure},
		{arr, &desc.Arrival},
		{ret, &desc.Return},
	}

	for _, t := range targets {
		airport, err := d.airportRepo.GetByAirportCode(ctx, t.code)
		if errors.Is(err, entity.ErrAirportNotFound) {
			d.logger.Debug("Airport not in reference data", "code", t.code)
			desc.Unknown = append(desc.Unknown, t.code)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up airport %s: %w", t.code, err)
		}
		*t.dst = airport
	}

	return desc, nil
}
