package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kurtlexicon/vending-service/internal/pkg/telemetry"
	"github.com/kurtlexicon/vending-service/internal/transport/http/handler"
	"github.com/kurtlexicon/vending-service/internal/transport/http/middleware"
)

// Server is the HTTP front of the vending machine.
type Server struct {
	router    *chi.Mux
	addr      string
	handler   *handler.VendingHandler
	logger    *slog.Logger
	telemetry *telemetry.Telemetry
	srv       *http.Server
}

// NewServer creates the HTTP server with routing and middleware configured.
func NewServer(
	host, port string,
	h *handler.VendingHandler,
	tel *telemetry.Telemetry,
) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		addr:      fmt.Sprintf("%s:%s", host, port),
		handler:   h,
		logger:    tel.Logger,
		telemetry: tel,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.StructuredLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.RequestID)
}

func (s *Server) setupRoutes() {
	// Customer-facing operations
	s.router.Get("/machine", s.handler.GetMachine)
	s.router.Get("/products", s.handler.ListProducts)
	s.router.Post("/coins", s.handler.InsertCoin)
	s.router.Post("/purchases", s.handler.Purchase)
	s.router.Post("/transaction/end", s.handler.EndTransaction)

	// Administration operations
	s.router.Route("/admin", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.handler.ListCustomProducts)
			r.Post("/", s.handler.AddProduct)
			r.Patch("/{name}", s.handler.ChangeProduct)
			r.Delete("/{name}", s.handler.RemoveProduct)
		})
		r.Get("/sales", s.handler.ListSales)
	})

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Prometheus metrics endpoint, fed by the OTel Prometheus exporter
	s.router.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// Handler returns the full middleware-wrapped handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "http-server",
		otelhttp.WithTracerProvider(s.telemetry.TracerProvider),
		otelhttp.WithMeterProvider(s.telemetry.MeterProvider),
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
			routePattern := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					routePattern = pattern
				}
			}
			return []attribute.KeyValue{attribute.String("http.route", routePattern)}
		}),
	)
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", slog.String("address", s.addr))
	s.srv = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}
	return s.srv.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
