package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchpattern-service/internal/domain/entity"
	"searchpattern-service/pkg/logger"
)

func TestDescribeWithoutReferenceData(t *testing.T) {
	describer := NewRouteDescriber(nil, logger.NewNopLogger())
	route := entity.Route{Key: "LON-LIS-LON"}

	desc, err := describer.Describe(context.Background(), route)
	require.NoError(t, err)
	assert.Equal(t, route, desc.Route)
	assert.Nil(t, desc.Departure)
	assert.Empty(t, desc.Unknown)
}

func TestDescribeShortKey(t *testing.T) {
	describer := NewRouteDescriber(fakeAirportRepo{"LON": {Code: "LON"}}, logger.NewNopLogger())

	desc, err := describer.Describe(context.Background(), entity.Route{Key: "LON-LI"})
	require.NoError(t, err)
	assert.Equal(t, "LON", desc.Departure.Code)
	assert.Equal(t, []string{"LI", ""}, desc.Unknown)
}

func TestDescribeLookupFailure(t *testing.T) {
	describer := NewRouteDescriber(fakeAirportRepo{}, logger.NewNopLogger())

	_, err := describer.Describe(context.Background(), entity.Route{Key: "LON-ERR-LON"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ERR")
	assert.NotErrorIs(t, err, entity.ErrAirportNotFound)
}
