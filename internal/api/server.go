package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/snaptab/snaptab/internal/service"
)

// Server wires HTTP handlers onto the bill and participant services.
type Server struct {
	bills        *service.BillService
	participants *service.ParticipantService
	logger       *slog.Logger
}

// NewRouter creates the HTTP router with middleware. imageDir, when non-empty,
// is served under /images/ for locally stored receipt photos.
func NewRouter(bills *service.BillService, participants *service.ParticipantService, imageDir string, logger *slog.Logger) *chi.Mux {
	srv := &Server{
		bills:        bills,
		participants: participants,
		logger:       logger,
	}

	r := chi.NewRouter()
	r.Use(requestLogger(logger))
	r.Use(corsMiddleware)
	r.Use(metricsMiddleware)

	r.Get("/health", srv.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if imageDir != "" {
		fs := http.StripPrefix("/images/", http.FileServer(http.Dir(imageDir)))
		r.Method(http.MethodGet, "/images/*", fs)
	}

	r.Route("/bills", func(r chi.Router) {
		r.Post("/upload", srv.handleUpload)

		r.Route("/creator/{creatorToken}", func(r chi.Router) {
			r.Get("/", srv.handleGetBill)
			r.Get("/full", srv.handleGetFull)
			r.Post("/parse", srv.handleParse)
			r.Patch("/items/{itemID}", srv.handleUpdateItem)
			r.Delete("/items/{itemID}", srv.handleDeleteItem)
			r.Patch("/totals", srv.handleUpdateTotals)
			r.Post("/confirm", srv.handleConfirm)
			r.Get("/dashboard", srv.handleDashboard)
			r.Post("/complete", srv.handleComplete)
		})

		r.Route("/share/{shareToken}", func(r chi.Router) {
			r.Get("/", srv.handleGetShared)
			r.Post("/join", srv.handleJoin)
			r.Get("/final", srv.handleFinal)

			r.Route("/participant/{participantToken}", func(r chi.Router) {
				r.Post("/claims", srv.handleReplaceClaims)
				r.Get("/claims", srv.handleGetClaims)
				r.Post("/submit", srv.handleSubmit)
			})
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
