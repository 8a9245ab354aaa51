package server

import (
	"log/slog"
	"net/http"

	"royalpalm-dashboard/internal/handlers"
	"royalpalm-dashboard/internal/services"
)

type Server struct {
	analytics        *services.Analytics
	mux              *http.ServeMux
	logger           *slog.Logger
	apiHandlers      *handlers.APIHandlers
	sseHandlers      *handlers.SSEHandlers
	downloadHandlers *handlers.DownloadHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(analytics *services.Analytics, logger *slog.Logger, templateHandlers *TemplateHandlers, reportPath string) *Server {
	s := &Server{
		analytics:        analytics,
		mux:              http.NewServeMux(),
		logger:           logger,
		apiHandlers:      handlers.NewAPIHandlers(analytics, logger),
		sseHandlers:      handlers.NewSSEHandlers(analytics, logger),
		downloadHandlers: handlers.NewDownloadHandlers(analytics, reportPath, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.mux.HandleFunc("GET /{$}", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/filters", s.apiHandlers.HandleFilters)
	s.mux.HandleFunc("GET /api/views", s.apiHandlers.HandleViews)
	s.mux.HandleFunc("GET /api/kpis", s.apiHandlers.HandleKPIs)
	s.mux.HandleFunc("GET /api/charts", s.apiHandlers.HandleCharts)
	s.mux.HandleFunc("GET /api/amount-by-month-land", s.apiHandlers.HandleAmountByMonthLand)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/refresh", s.sseHandlers.HandleRefresh)

	// Downloads
	s.mux.HandleFunc("GET /download/csv", s.downloadHandlers.HandleCSV)
	s.mux.HandleFunc("GET /download/report", s.downloadHandlers.HandleReport)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
