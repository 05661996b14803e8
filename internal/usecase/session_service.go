package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"searchpattern-service/internal/domain/entity"
	"searchpattern-service/internal/domain/repository"
	"searchpattern-service/pkg/logger"
	"searchpattern-service/pkg/metrics"
	"searchpattern-service/pkg/utils"
)

// PatternSummary describes an accepted search pattern file
type PatternSummary struct {
	Name             string          `json:"name"`
	Rows             int             `json:"rows"`
	Columns          []string        `json:"columns"`
	AvailableFilters map[string]bool `json:"available_filters"`
}

// ProductSummary describes an accepted product file
type ProductSummary struct {
	Name       string `json:"name"`
	Routes     int    `json:"routes"`
	SourceHash string `json:"source_hash"`
	Cached     bool   `json:"cached"`
}

// FilterOutcome is a filtered pattern view plus counts for display
type FilterOutcome struct {
	Table        *entity.Table `json:"table"`
	TotalRows    int           `json:"total_rows"`
	MatchedRows  int           `json:"matched_rows"`
	AllColumns   []string      `json:"all_columns"`
	ColumnsShown int           `json:"columns_shown"`
}

// SessionService manages the files of a session and runs queries over them
type SessionService struct {
	sessionRepo repository.SessionRepository
	cache       repository.AggregationCache
	aggregator  *RouteAggregator
	resolver    *PatternResolver
	describer   *RouteDescriber
	metrics     *metrics.Metrics
	logger      logger.Logger
	now         func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(
	sessionRepo repository.SessionRepository,
	cache repository.AggregationCache,
	aggregator *RouteAggregator,
	resolver *PatternResolver,
	describer *RouteDescriber,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		cache:       cache,
		aggregator:  aggregator,
		resolver:    resolver,
		describer:   describer,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateSession starts an empty session
func (s *SessionService) CreateSession(ctx context.Context) (*entity.Session, error) {
	now := s.now()
	session := &entity.Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	s.logger.Info("Session created", "sessionID", session.ID)
	return session, nil
}

// DeleteSession drops a session and its files
func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.sessionRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.sessionRepo.Delete(ctx, id)
}

// UploadPatterns parses and stores the search pattern file. A file that
// cannot be read clears the pattern slot and leaves the product slot alone.
func (s *SessionService) UploadPatterns(ctx context.Context, id, name string, data []byte) (*PatternSummary, error) {
	session, err := s.sessionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	table, err := utils.ReadCSV(name, data)
	if err != nil {
		s.recordUploadError("patterns", err)
		s.logger.Warn("Search pattern file rejected", "sessionID", id, "name", name, "error", err)
		session.Patterns, session.PatternsName = nil, ""
		if saveErr := s.save(ctx, session); saveErr != nil {
			return nil, saveErr
		}
		return nil, err
	}

	session.Patterns, session.PatternsName = table, name
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	s.metrics.UploadsTotal.WithLabelValues("patterns").Inc()
	s.logger.Info("Search pattern file accepted", "sessionID", id, "name", name, "rows", table.Len())

	return &PatternSummary{
		Name:             name,
		Rows:             table.Len(),
		Columns:          table.Columns,
		AvailableFilters: AvailableFilters(table),
	}, nil
}

// UploadProducts aggregates the product file into routes, reusing a cached
// aggregation when identical content was seen before. A rejected file clears
// the product slot and leaves the pattern slot alone.
func (s *SessionService) UploadProducts(ctx context.Context, id, name string, data []byte) (*ProductSummary, error) {
	session, err := s.sessionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result, cached, err := s.aggregate(ctx, name, data)
	if err != nil {
		s.recordUploadError("products", err)
		s.logger.Warn("Product file rejected", "sessionID", id, "name", name, "error", err)
		session.Aggregation, session.ProductsName = nil, ""
		if saveErr := s.save(ctx, session); saveErr != nil {
			return nil, saveErr
		}
		return nil, err
	}

	session.Aggregation, session.ProductsName = result, name
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	s.metrics.UploadsTotal.WithLabelValues("products").Inc()
	s.logger.Info("Product file accepted",
		"sessionID", id,
		"name", name,
		"routes", result.Len(),
		"cached", cached)

	return &ProductSummary{
		Name:       name,
		Routes:     result.Len(),
		SourceHash: result.SourceHash,
		Cached:     cached,
	}, nil
}

// FilterPatterns applies the filter state to the session's pattern file
func (s *SessionService) FilterPatterns(ctx context.Context, id string, state entity.FilterState) (*FilterOutcome, error) {
	session, err := s.sessionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Patterns == nil {
		return nil, entity.ErrNoPatterns
	}

	filtered := ApplyFilters(session.Patterns, state.Filters())
	view := DisplayView(filtered, state)

	return &FilterOutcome{
		Table:        view,
		TotalRows:    session.Patterns.Len(),
		MatchedRows:  filtered.Len(),
		AllColumns:   session.Patterns.Columns,
		ColumnsShown: len(view.Columns),
	}, nil
}

// Routes returns the aggregation of the session's product file
func (s *SessionService) Routes(ctx context.Context, id string) (*entity.AggregationResult, error) {
	session, err := s.sessionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Aggregation == nil {
		return nil, entity.ErrNoProducts
	}
	return session.Aggregation, nil
}

// Resolve looks a product id up against both files of the session
func (s *SessionService) Resolve(ctx context.Context, id, productID string) (*entity.ResolveResult, error) {
	session, err := s.sessionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Aggregation == nil {
		return nil, entity.ErrNoProducts
	}
	if session.Patterns == nil {
		return nil, entity.ErrNoPatterns
	}

	start := time.Now()
	result := s.resolver.Resolve(session.Aggregation, session.Patterns, productID)
	s.metrics.ProcessingTime.WithLabelValues("resolve").Observe(time.Since(start).Seconds())

	s.metrics.Resolutions.Inc()
	if result.NoRoutes {
		s.metrics.NoRouteResolution.Inc()
	}
	return result, nil
}

// DescribeRoute returns a route of the session with airport details
func (s *SessionService) DescribeRoute(ctx context.Context, id, routeKey string) (*entity.RouteDescription, error) {
	aggregation, err := s.Routes(ctx, id)
	if err != nil {
		return nil, err
	}
	route, ok := aggregation.Find(routeKey)
	if !ok {
		return nil, entity.ErrRouteNotFound
	}
	return s.describer.Describe(ctx, route)
}

// aggregate serves the aggregation of data from cache or computes and caches
// it. Cache failures are logged and never fail the upload.
func (s *SessionService) aggregate(ctx context.Context, name string, data []byte) (*entity.AggregationResult, bool, error) {
	hash := utils.ContentHash(data)

	cached, ok, err := s.cache.Get(ctx, hash)
	if err != nil {
		s.logger.Warn("Aggregation cache read failed", "hash", hash, "error", err)
	} else if ok {
		s.metrics.CacheHits.Inc()
		return cached, true, nil
	}
	s.metrics.CacheMisses.Inc()

	start := time.Now()
	table, err := utils.ReadCSV(name, data)
	if err != nil {
		return nil, false, err
	}
	result, err := s.aggregator.Aggregate(table)
	if err != nil {
		var schemaErr *entity.SchemaError
		if errors.As(err, &schemaErr) {
			schemaErr.Source = name
		}
		return nil, false, err
	}
	result.SourceHash = hash
	s.metrics.ProcessingTime.WithLabelValues("aggregate").Observe(time.Since(start).Seconds())

	if err := s.cache.Set(ctx, hash, result); err != nil {
		s.logger.Warn("Aggregation cache write failed", "hash", hash, "error", err)
	}
	return result, false, nil
}

func (s *SessionService) save(ctx context.Context, session *entity.Session) error {
	session.UpdatedAt = s.now()
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *SessionService) recordUploadError(kind string, err error) {
	reason := "other"
	var decodeErr *entity.DecodeError
	var schemaErr *entity.SchemaError
	switch {
	case errors.As(err, &decodeErr):
		reason = "decode"
	case errors.As(err, &schemaErr):
		reason = "schema"
	}
	s.metrics.UploadErrors.WithLabelValues(kind, reason).Inc()
}
