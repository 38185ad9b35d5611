package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/chrisdamba/couriermatch/internal/admin"
	"github.com/chrisdamba/couriermatch/internal/factories"
	"github.com/chrisdamba/couriermatch/internal/simulator"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Config provides the dependencies of Server.
type Config struct {
	Logger         *slog.Logger
	Sequencer      *simulator.Sequencer
	Factory        *factories.DriverFactory
	Admin          *admin.Service
	Health         func(ctx context.Context) error
	Addr           string
	AdminJWTSecret string
	// InsecureAdmin mounts /admin without authentication when no secret is set.
	InsecureAdmin  bool
	AllowedOrigins []string
	DefaultRegion  string
}

// Server exposes search sessions, helper endpoints and the driver photo
// admin API over HTTP.
type Server struct {
	logger         *slog.Logger
	sequencer      *simulator.Sequencer
	factory        *factories.DriverFactory
	admin          *admin.Service
	health         func(ctx context.Context) error
	addr           string
	jwtSecret      []byte
	insecureAdmin  bool
	allowedOrigins []string
	defaultRegion  string
}

func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:         logger,
		sequencer:      cfg.Sequencer,
		factory:        cfg.Factory,
		admin:          cfg.Admin,
		health:         cfg.Health,
		addr:           cfg.Addr,
		jwtSecret:      []byte(cfg.AdminJWTSecret),
		insecureAdmin:  cfg.InsecureAdmin,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
		defaultRegion:  cfg.DefaultRegion,
	}
}

// Router builds the chi router with every route mounted.
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(s.logger))
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())
	router.Route("/api", func(r chi.Router) {
		r.Get("/drivers/online", s.onlineDriversHandler())
		r.Get("/delivery-window", s.deliveryWindowHandler())
		r.Get("/search", s.searchStreamHandler())
	})
	router.Get("/ws/search", s.searchSocketHandler())
	switch {
	case len(s.jwtSecret) > 0:
		router.Route("/admin", func(r chi.Router) {
			r.Use(s.adminAuth)
			s.registerAdmin(r)
		})
	case s.insecureAdmin:
		router.Route("/admin", s.registerAdmin)
	default:
		s.logger.Warn("admin API disabled: set admin_jwt_secret or insecure_admin")
	}
	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.health != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := s.health(ctx); err != nil {
				writeJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"error":  err.Error(),
				})
				return
			}
		}
		writeJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			_, ok := allowed[origin]
			if origin == "" || (!allowAll && !ok) {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
