package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"searchpattern-service/internal/domain/entity"
	"searchpattern-service/internal/usecase"
	"searchpattern-service/pkg/logger"
	"searchpattern-service/pkg/utils"
)

// SessionUsecase is what the handlers need from the session service
type SessionUsecase interface {
	CreateSession(ctx context.Context) (*entity.Session, error)
	DeleteSession(ctx context.Context, id string) error
	UploadPatterns(ctx context.Context, id, name string, data []byte) (*usecase.PatternSummary, error)
	UploadProducts(ctx context.Context, id, name string, data []byte) (*usecase.ProductSummary, error)
	FilterPatterns(ctx context.Context, id string, state entity.FilterState) (*usecase.FilterOutcome, error)
	Routes(ctx context.Context, id string) (*entity.AggregationResult, error)
	Resolve(ctx context.Context, id, productID string) (*entity.ResolveResult, error)
	DescribeRoute(ctx context.Context, id, routeKey string) (*entity.RouteDescription, error)
}

// Handler serves the session API
type Handler struct {
	sessions       SessionUsecase
	validate       *validator.Validate
	maxUploadBytes int64
	logger         logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(sessions SessionUsecase, maxUploadBytes int64, logger logger.Logger) *Handler {
	return &Handler{
		sessions:       sessions,
		validate:       validator.New(),
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

type sessionParams struct {
	SessionID string `validate:"required,uuid"`
}

type patternQuery struct {
	SessionID             string `validate:"required,uuid"`
	Departure             string `validate:"max=256"`
	IncludeBlankDeparture bool
	Arrival               string `validate:"max=256"`
	IncludeBlankArrival   bool
	Provider              string `validate:"max=256"`
	Columns               []string
	Limit                 int    `validate:"min=0"`
	Format                string `validate:"omitempty,oneof=json csv"`
}

type resolveQuery struct {
	SessionID string `validate:"required,uuid"`
	ProductID string `validate:"required,max=256"`
	Format    string `validate:"omitempty,oneof=json csv"`
}

type routeParams struct {
	SessionID string `validate:"required,uuid"`
	RouteKey  string `validate:"required,max=64"`
}

// CreateSession handles POST /api/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.CreateSession(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": session.ID})
}

// DeleteSession handles DELETE /api/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	params, ok := h.sessionParams(w, r)
	if !ok {
		return
	}
	if err := h.sessions.DeleteSession(r.Context(), params.SessionID); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadPatterns handles PUT /api/sessions/{id}/patterns
func (h *Handler) UploadPatterns(w http.ResponseWriter, r *http.Request) {
	params, ok := h.sessionParams(w, r)
	if !ok {
		return
	}
	name, data, err := h.readUpload(w, r, "patterns.csv")
	if err != nil {
		h.writeError(w, err)
		return
	}
	summary, err := h.sessions.UploadPatterns(r.Context(), params.SessionID, name, data)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// UploadProducts handles PUT /api/sessions/{id}/products
func (h *Handler) UploadProducts(w http.ResponseWriter, r *http.Request) {
	params, ok := h.sessionParams(w, r)
	if !ok {
		return
	}
	name, data, err := h.readUpload(w, r, "products.csv")
	if err != nil {
		h.writeError(w, err)
		return
	}
	summary, err := h.sessions.UploadProducts(r.Context(), params.SessionID, name, data)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// FilterPatterns handles GET /api/sessions/{id}/patterns
func (h *Handler) FilterPatterns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := patternQuery{
		SessionID: mux.Vars(r)["id"],
		Departure: q.Get("departure"),
		Arrival:   q.Get("arrival"),
		Provider:  q.Get("provider"),
		Columns:   q["columns"],
		Format:    q.Get("format"),
	}

	var err error
	if query.IncludeBlankDeparture, err = parseBool(q.Get("include_blank_departure")); err != nil {
		writeJSONError(w, http.StatusBadRequest, "include_blank_departure must be a boolean")
		return
	}
	if query.IncludeBlankArrival, err = parseBool(q.Get("include_blank_arrival")); err != nil {
		writeJSONError(w, http.StatusBadRequest, "include_blank_arrival must be a boolean")
		return
	}
	if query.Limit, err = parseInt(q.Get("limit")); err != nil {
		writeJSONError(w, http.StatusBadRequest, "limit must be an integer")
		return
	}
	if err := h.validate.Struct(query); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid query: "+err.Error())
		return
	}

	state := entity.FilterState{
		Departure:             query.Departure,
		IncludeBlankDeparture: query.IncludeBlankDeparture,
		Arrival:               query.Arrival,
		IncludeBlankArrival:   query.IncludeBlankArrival,
		Provider:              query.Provider,
		Columns:               query.Columns,
		Limit:                 query.Limit,
	}

	outcome, err := h.sessions.FilterPatterns(r.Context(), query.SessionID, state)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if outcome.ColumnsShown == 0 {
		writeJSONError(w, http.StatusBadRequest, "select at least one column to display")
		return
	}

	if query.Format == "csv" {
		h.writeCSV(w, "patterns.csv", outcome.Table)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// Routes handles GET /api/sessions/{id}/routes
func (h *Handler) Routes(w http.ResponseWriter, r *http.Request) {
	params, ok := h.sessionParams(w, r)
	if !ok {
		return
	}
	aggregation, err := h.sessions.Routes(r.Context(), params.SessionID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, aggregation)
}

// DownloadRoutes handles GET /api/sessions/{id}/routes.csv
func (h *Handler) DownloadRoutes(w http.ResponseWriter, r *http.Request) {
	params, ok := h.sessionParams(w, r)
	if !ok {
		return
	}
	aggregation, err := h.sessions.Routes(r.Context(), params.SessionID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeCSV(w, "routes.csv", aggregation.Table())
}

// DescribeRoute handles GET /api/sessions/{id}/routes/{route_key}
func (h *Handler) DescribeRoute(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	params := routeParams{
		SessionID: vars["id"],
		RouteKey:  vars["route_key"],
	}
	if err := h.validate.Struct(params); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid route: "+err.Error())
		return
	}
	desc, err := h.sessions.DescribeRoute(r.Context(), params.SessionID, params.RouteKey)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, desc)
}

// Resolve handles GET /api/sessions/{id}/resolve
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := resolveQuery{
		SessionID: mux.Vars(r)["id"],
		ProductID: q.Get("product_id"),
		Format:    q.Get("format"),
	}
	if err := h.validate.Struct(query); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid query: "+err.Error())
		return
	}

	result, err := h.sessions.Resolve(r.Context(), query.SessionID, query.ProductID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if query.Format == "csv" {
		h.writeCSV(w, "patterns_"+query.ProductID+".csv", result.Rows)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) sessionParams(w http.ResponseWriter, r *http.Request) (sessionParams, bool) {
	params := sessionParams{SessionID: mux.Vars(r)["id"]}
	if err := h.validate.Struct(params); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid session id")
		return params, false
	}
	return params, true
}

// readUpload accepts either a multipart form with a "file" part or the raw
// CSV as request body.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request, defaultName string) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", nil, err
		}
		defer file.Close()

		var buf bytes.Buffer
		if _, err := io.Copy(&buf, file); err != nil {
			return "", nil, err
		}
		return header.Filename, buf.Bytes(), nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, err
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = defaultName
	}
	return name, data, nil
}

func (h *Handler) writeCSV(w http.ResponseWriter, filename string, table *entity.Table) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	if err := utils.WriteCSV(w, table); err != nil {
		h.logger.Error("Failed to write CSV response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var decodeErr *entity.DecodeError
	var schemaErr *entity.SchemaError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &decodeErr), errors.As(err, &schemaErr):
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, entity.ErrSessionNotFound), errors.Is(err, entity.ErrRouteNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, entity.ErrNoPatterns), errors.Is(err, entity.ErrNoProducts):
		writeJSONError(w, http.StatusConflict, err.Error())
	case errors.As(err, &tooLarge):
		writeJSONError(w, http.StatusRequestEntityTooLarge, "file too large")
	case errors.Is(err, http.ErrMissingFile):
		writeJSONError(w, http.StatusBadRequest, "multipart upload needs a \"file\" part")
	default:
		h.logger.Error("Request failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
