package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchpattern-service/internal/domain/entity"
	"searchpattern-service/internal/domain/repository"
	repo "searchpattern-service/internal/interface/repository"
	"searchpattern-service/pkg/logger"
	"searchpattern-service/pkg/metrics"
)

const (
	productsCSV = "fpc_reference_product_id,fpc_iata_departure,fpc_iata_arrival,fpc_iata_return\n" +
		"1,LON,LIS,LON\n" +
		"2,LON,LIS,LON\n" +
		"3,PAR,NYC,PAR\n"
	patternsCSV = "ProviderName,ConditionDepartureCities,ConditionArrivalCities\n" +
		"BA,LON,LIS\n" +
		"TP,PAR,LIS\n" +
		"Generic,,\n"
)

type failingCache struct{}

func (failingCache) Get(ctx context.Context, hash string) (*entity.AggregationResult, bool, error) {
	return nil, false, errors.New("cache unavailable")
}

func (failingCache) Set(ctx context.Context, hash string, result *entity.AggregationResult) error {
	return errors.New("cache unavailable")
}

type fakeAirportRepo map[string]*entity.Airport

func (f fakeAirportRepo) GetByAirportCode(ctx context.Context, code string) (*entity.Airport, error) {
	if code == "ERR" {
		return nil, errors.New("connection reset")
	}
	airport, ok := f[code]
	if !ok {
		return nil, entity.ErrAirportNotFound
	}
	return airport, nil
}

func newTestService(t *testing.T, cache repository.AggregationCache, airports repository.AirportRepository) (*SessionService, *metrics.Metrics) {
	t.Helper()
	log := logger.NewNopLogger()
	if cache == nil {
		var err error
		cache, err = repo.NewMemoryAggregationCache(8)
		require.NoError(t, err)
	}
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	service := NewSessionService(
		repo.NewMemorySessionRepository(16, time.Hour),
		cache,
		NewRouteAggregator(log),
		NewPatternResolver(log),
		NewRouteDescriber(airports, log),
		m,
		log,
	)
	return service, m
}

func newSession(t *testing.T, s *SessionService) string {
	t.Helper()
	session, err := s.CreateSession(context.Background())
	require.NoError(t, err)
	return session.ID
}

func TestCreateAndDeleteSession(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t, nil, nil)
	id := newSession(t, s)

	require.NoError(t, s.DeleteSession(ctx, id))

	assert.ErrorIs(t, s.DeleteSession(ctx, id), entity.ErrSessionNotFound)
	_, err := s.Routes(ctx, id)
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
}

func TestUploadPatterns(t *testing.T) {
	s, m := newTestService(t, nil, nil)
	id := newSession(t, s)

	summary, err := s.UploadPatterns(context.Background(), id, "patterns.csv", []byte(patternsCSV))
	require.NoError(t, err)

	assert.Equal(t, "patterns.csv", summary.Name)
	assert.Equal(t, 3, summary.Rows)
	assert.Equal(t, []string{"ProviderName", "ConditionDepartureCities", "ConditionArrivalCities"}, summary.Columns)
	assert.True(t, summary.AvailableFilters[entity.PatternProviderColumn])
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UploadsTotal.WithLabelValues("patterns")))
}

func TestUploadProductsReusesAggregationForSameContent(t *testing.T) {
	ctx := context.Background()
	s, m := newTestService(t, nil, nil)
	first := newSession(t, s)
	second := newSession(t, s)

	summary, err := s.UploadProducts(ctx, first, "products.csv", []byte(productsCSV))
	require.NoError(t, err)
	assert.False(t, summary.Cached)
	assert.Equal(t, 2, summary.Routes)
	assert.Len(t, summary.SourceHash, 64)

	again, err := s.UploadProducts(ctx, second, "renamed.csv", []byte(productsCSV))
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, summary.SourceHash, again.SourceHash)
	assert.Equal(t, "renamed.csv", again.Name)

	changed, err := s.UploadProducts(ctx, second, "products.csv", []byte(productsCSV+"4,MAD,BCN,MAD\n"))
	require.NoError(t, err)
	assert.False(t, changed.Cached)
	assert.Equal(t, 3, changed.Routes)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheMisses))
}

func TestUploadProductsCacheFailureIsNotFatal(t *testing.T) {
	s, _ := newTestService(t, failingCache{}, nil)
	id := newSession(t, s)

	summary, err := s.UploadProducts(context.Background(), id, "products.csv", []byte(productsCSV))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Routes)
}

func TestFailedUploadClearsOnlyItsSlot(t *testing.T) {
	ctx := context.Background()
	s, m := newTestService(t, nil, nil)
	id := newSession(t, s)

	_, err := s.UploadPatterns(ctx, id, "patterns.csv", []byte(patternsCSV))
	require.NoError(t, err)
	_, err = s.UploadProducts(ctx, id, "products.csv", []byte(productsCSV))
	require.NoError(t, err)

	_, err = s.UploadProducts(ctx, id, "bad.csv", []byte("fpc_reference_product_id,fpc_iata_departure\n1,LON\n"))
	var schemaErr *entity.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "bad.csv", schemaErr.Source)

	_, err = s.Routes(ctx, id)
	assert.ErrorIs(t, err, entity.ErrNoProducts)
	outcome, err := s.FilterPatterns(ctx, id, entity.FilterState{})
	require.NoError(t, err)
	assert.Equal(t, 3, outcome.TotalRows)

	_, err = s.UploadProducts(ctx, id, "products.csv", []byte(productsCSV))
	require.NoError(t, err)
	_, err = s.UploadPatterns(ctx, id, "broken.csv", []byte("a,b\n1,2,3\n"))
	var decodeErr *entity.DecodeError
	require.True(t, errors.As(err, &decodeErr))

	_, err = s.FilterPatterns(ctx, id, entity.FilterState{})
	assert.ErrorIs(t, err, entity.ErrNoPatterns)
	routes, err := s.Routes(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, routes.Len())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.UploadErrors.WithLabelValues("products", "schema")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UploadErrors.WithLabelValues("patterns", "decode")))
}

func TestFilterPatterns(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t, nil, nil)
	id := newSession(t, s)
	_, err := s.UploadPatterns(ctx, id, "patterns.csv", []byte(patternsCSV))
	require.NoError(t, err)

	outcome, err := s.FilterPatterns(ctx, id, entity.FilterState{
		Arrival: "lis",
		Columns: []string{"ProviderName"},
		Limit:   1,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, outcome.TotalRows)
	assert.Equal(t, 2, outcome.MatchedRows)
	assert.Equal(t, 1, outcome.ColumnsShown)
	assert.Equal(t, [][]string{{"BA"}}, outcome.Table.Rows)
	assert.Len(t, outcome.AllColumns, 3)
}

func TestResolveNeedsBothFiles(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t, nil, nil)
	id := newSession(t, s)

	_, err := s.Resolve(ctx, id, "1")
	assert.ErrorIs(t, err, entity.ErrNoProducts)

	_, err = s.UploadProducts(ctx, id, "products.csv", []byte(productsCSV))
	require.NoError(t, err)
	_, err = s.Resolve(ctx, id, "1")
	assert.ErrorIs(t, err, entity.ErrNoPatterns)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	s, m := newTestService(t, nil, nil)
	id := newSession(t, s)
	_, err := s.UploadProducts(ctx, id, "products.csv", []byte(productsCSV))
	require.NoError(t, err)
	_, err = s.UploadPatterns(ctx, id, "patterns.csv", []byte(patternsCSV))
	require.NoError(t, err)

	result, err := s.Resolve(ctx, id, "1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"BA", "LON", "LIS"}, {"Generic", "", ""}}, result.Rows.Rows)

	missing, err := s.Resolve(ctx, id, "42")
	require.NoError(t, err)
	assert.True(t, missing.NoRoutes)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Resolutions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NoRouteResolution))
}

func TestDescribeRoute(t *testing.T) {
	ctx := context.Background()
	airports := fakeAirportRepo{
		"LON": {Code: "LON", Name: "London", CityCode: "LON", CityName: "London", TzName: "Europe/London"},
	}
	s, _ := newTestService(t, nil, airports)
	id := newSession(t, s)
	_, err := s.UploadProducts(ctx, id, "products.csv", []byte(productsCSV))
	require.NoError(t, err)

	desc, err := s.DescribeRoute(ctx, id, "LON-LIS-LON")
	require.NoError(t, err)
	assert.Equal(t, "1;2", desc.Route.ProductIDs)
	require.NotNil(t, desc.Departure)
	assert.Equal(t, "London", desc.Departure.Name)
	assert.Nil(t, desc.Arrival)
	assert.Equal(t, "London", desc.Return.CityName)
	assert.Equal(t, []string{"LIS"}, desc.Unknown)

	_, err = s.DescribeRoute(ctx, id, "XXX-YYY-ZZZ")
	assert.ErrorIs(t, err, entity.ErrRouteNotFound)
}
