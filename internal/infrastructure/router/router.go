package router

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"searchpattern-service/internal/interface/httpapi"
	"searchpattern-service/pkg/logger"
)

// NewRouter wires the API handlers, health check and metrics endpoint
func NewRouter(h *httpapi.Handler, gatherer prometheus.Gatherer, logger logger.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger(logger))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := r.PathPrefix("/api/sessions").Subrouter()
	api.HandleFunc("", h.CreateSession).Methods(http.MethodPost)
	api.HandleFunc("/{id}", h.DeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/{id}/patterns", h.UploadPatterns).Methods(http.MethodPut, http.MethodPost)
	api.HandleFunc("/{id}/patterns", h.FilterPatterns).Methods(http.MethodGet)
	api.HandleFunc("/{id}/products", h.UploadProducts).Methods(http.MethodPut, http.MethodPost)
	api.HandleFunc("/{id}/routes", h.Routes).Methods(http.MethodGet)
	api.HandleFunc("/{id}/routes.csv", h.DownloadRoutes).Methods(http.MethodGet)
	api.HandleFunc("/{id}/routes/{route_key}", h.DescribeRoute).Methods(http.MethodGet)
	api.HandleFunc("/{id}/resolve", h.Resolve).Methods(http.MethodGet)

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Debug("Request served",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start))
		})
	}
}
