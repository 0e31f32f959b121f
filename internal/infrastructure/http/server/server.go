package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"3tcapital/ms_kyc_core/internal/infrastructure/config"
	httperrors "3tcapital/ms_kyc_core/internal/infrastructure/http"
	"3tcapital/ms_kyc_core/internal/infrastructure/http/middleware"
)

// KYCHandler serves the document extraction and lookup endpoints.
type KYCHandler interface {
	Extract(w http.ResponseWriter, r *http.Request)
	Textract(w http.ResponseWriter, r *http.Request)
	GetDocument(w http.ResponseWriter, r *http.Request)
	ListByUser(w http.ResponseWriter, r *http.Request)
}

// Server wraps the HTTP server and its authenticator.
type Server struct {
	cfg        config.AppConfig
	log        *slog.Logger
	httpServer *http.Server
	auth       *middleware.JWTAuthenticator
}

// Options configures the server. KYCHandler may be nil, in which case the
// KYC routes answer 503.
type Options struct {
	Config        config.AppConfig
	Logger        *slog.Logger
	HealthHandler http.Handler
	KYCHandler    KYCHandler
}

// New builds the router and HTTP server.
func New(opts Options) (*Server, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.HealthHandler == nil {
		return nil, errors.New("health handler is required")
	}

	auth, err := middleware.NewJWTAuthenticator(opts.Config.Auth, opts.Logger)
	if err != nil {
		return nil, fmt.Errorf("create authenticator: %w", err)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(chimw.Recoverer)
	r.Use(auth.Middleware)

	r.Method(http.MethodGet, "/health", opts.HealthHandler)

	r.Route("/api/v1/kyc", func(r chi.Router) {
		if opts.KYCHandler == nil {
			r.HandleFunc("/*", unavailable)
			return
		}

		r.Post("/extract", opts.KYCHandler.Extract)
		r.With(middleware.RequestTimeout(opts.Config.OCR.Timeout)).Post("/textract", opts.KYCHandler.Textract)
		r.Get("/documents/{documentId}", opts.KYCHandler.GetDocument)
		r.Get("/users/{userId}/documents", opts.KYCHandler.ListByUser)
	})

	srv := &http.Server{
		Addr:         opts.Config.HTTP.Address(),
		Handler:      r,
		ReadTimeout:  opts.Config.HTTP.ReadTimeout,
		WriteTimeout: opts.Config.HTTP.WriteTimeout,
		IdleTimeout:  opts.Config.HTTP.IdleTimeout,
	}

	return &Server{cfg: opts.Config, log: opts.Logger, httpServer: srv, auth: auth}, nil
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server started", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.HTTP.ShutdownTimeout)
		defer cancel()

		s.log.Info("HTTP server shutting down")
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// Close releases the authenticator's background refresh.
func (s *Server) Close() {
	s.auth.Close()
}

func unavailable(w http.ResponseWriter, _ *http.Request) {
	httperrors.WriteError(w, http.StatusServiceUnavailable, "Servicio No Disponible", []string{"El servicio KYC no está configurado"}, nil)
}
