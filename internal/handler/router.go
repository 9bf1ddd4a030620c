package handler

import (
	"bufio"
	"log/slog"
	"net"
	"net/http"
	"time"

	"treasury_go/internal/infra"
	"treasury_go/internal/service"
	"treasury_go/internal/ws"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// NewRouter assembles the REST surface and the websocket subscription
// endpoint. CORS is open to the configured dashboard origins only.
func NewRouter(
	bondSvc *service.BondService,
	tradeSvc *service.TradeService,
	hub *ws.Hub,
	metrics *infra.Metrics,
	allowedOrigins []string,
	logger *slog.Logger,
) chi.Router {
	r := chi.NewRouter()

	r.Use(requestLogging(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	bondH := NewBondHandler(bondSvc)
	tradeH := NewTradeHandler(tradeSvc)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/treasury", func(r chi.Router) {
		r.Get("/bonds", bondH.List)
		r.Get("/bonds/{cusip}", bondH.Get)
		r.Post("/initialize", bondH.Initialize)

		r.Post("/trades/book", tradeH.Book)
		r.Get("/trades", tradeH.List)
		r.Get("/trades/{id}", tradeH.Get)
		r.Put("/trades/{id}/cancel", tradeH.Cancel)

		r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, metrics.GetSnapshot())
		})
	})

	r.Get("/ws/{topic}", hub.ServeTopic)

	return r
}

// requestLogging logs each request's method, path, status and duration.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter captures the response status code for logging.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

// Hijack lets the websocket upgrade through the logging wrapper.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return hj.Hijack()
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}
