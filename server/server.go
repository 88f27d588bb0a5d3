package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/zetflow/zetflow-live/config"
	"github.com/zetflow/zetflow-live/converter"
	"github.com/zetflow/zetflow-live/internal"
	"github.com/zetflow/zetflow-live/mapmodel"
)

// siriCacheMaxAge bounds how long a rendered SIRI response is reused for an
// unchanged snapshot.
const siriCacheMaxAge = 5 * time.Second

// Server exposes the live map model over HTTP.
type Server struct {
	port        int
	corsOrigins []string
	model       *mapmodel.Model
	trips       mapmodel.TripLookup
	siriCache   *converter.ResponseCache
	logger      *zap.Logger
	now         func() time.Time

	httpServer *http.Server
	listener   net.Listener
}

// New creates a server. trips serves direct trip lookups; the model's own
// selection uses whatever lookup it was built with.
func New(cfg config.ServerConfig, m *mapmodel.Model, trips mapmodel.TripLookup, conv *converter.Converter, logger *zap.Logger) *Server {
	return &Server{
		port:        cfg.Port,
		corsOrigins: cfg.CORSOrigins,
		model:       m,
		trips:       trips,
		siriCache:   converter.NewResponseCache(conv, siriCacheMaxAge),
		logger:      internal.OrNop(logger),
		now:         time.Now,
	}
}

// Router creates and returns the HTTP handler, CORS included.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/vehicles", s.handleVehicles).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}", s.handleVehicle).Methods(http.MethodGet)
	api.HandleFunc("/routes", s.handleRoutes).Methods(http.MethodGet)
	api.HandleFunc("/markers", s.handleMarkers).Methods(http.MethodGet)
	api.HandleFunc("/selection", s.handleSelection).Methods(http.MethodGet)
	api.HandleFunc("/selection", s.handleClearSelection).Methods(http.MethodDelete)
	api.HandleFunc("/selection/{id}", s.handleSelect).Methods(http.MethodPut)
	api.HandleFunc("/trips/{id}", s.handleTrip).Methods(http.MethodGet)
	api.HandleFunc("/error", s.handleError).Methods(http.MethodGet)
	api.HandleFunc("/error", s.handleClearError).Methods(http.MethodDelete)
	api.HandleFunc("/siri/vehicle-monitoring.json", s.handleVehicleMonitoringJSON).Methods(http.MethodGet)
	api.HandleFunc("/siri/vehicle-monitoring.xml", s.handleVehicleMonitoringXML).Methods(http.MethodGet)

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.sendErrorResponse(w, http.StatusNotFound, "no such endpoint")
	})
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.sendErrorResponse(w, http.StatusMethodNotAllowed, r.Method+" not allowed on "+r.URL.Path)
	})
	// a subrouter answers its own mismatches; the root handlers only see paths outside /api
	r.NotFoundHandler, api.NotFoundHandler = notFound, notFound
	r.MethodNotAllowedHandler, api.MethodNotAllowedHandler = methodNotAllowed, methodNotAllowed

	return s.corsHandler().Handler(r)
}

func (s *Server) corsHandler() *cors.Cors {
	origins := s.corsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Content-Type", "Origin"},
		ExposedHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:         86400,
	})
}

// Start listens on the configured port and serves in the background.
func (s *Server) Start() error {
	l, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", s.port, err)
	}
	s.listener = l
	s.httpServer = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := s.httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server error", zap.Error(err))
		}
	}()
	s.logger.Info("server listening", zap.String("addr", l.Addr().String()))
	return nil
}

// Addr returns the listening address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops accepting requests and waits for in-flight ones, bounded by ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.logger.Info("server shut down successfully")
	return nil
}
