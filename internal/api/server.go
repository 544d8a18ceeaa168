// Package api is the HTTP and WebSocket surface of the venue. It validates
// request shape, maps business outcomes onto status codes and streams
// executions and depth to subscribers; all matching happens in the exchange.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"skoll/internal/book"
	"skoll/internal/config"
	"skoll/internal/exchange"
	"skoll/internal/metrics"
)

type Server struct {
	cfg      *config.Config
	exchange *exchange.Exchange
	feed     *tradeFeed
	router   *mux.Router
	log      zerolog.Logger
}

func NewServer(cfg *config.Config, exch *exchange.Exchange, logger zerolog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		exchange: exch,
		feed:     newTradeFeed(),
		router:   mux.NewRouter(),
		log:      logger.With().Str("component", "api").Logger(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.instrument)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/symbols", s.handleListSymbols).Methods(http.MethodGet)
	s.router.HandleFunc("/symbols/{symbol}/book", s.handleState).Methods(http.MethodGet)
	s.router.HandleFunc("/symbols/{symbol}/depth", s.handleDepth).Methods(http.MethodGet)
	s.router.HandleFunc("/symbols/{symbol}/orders", s.handleSubmit).Methods(http.MethodPost)
	s.router.HandleFunc("/symbols/{symbol}/orders/{id}", s.handleCancel).Methods(http.MethodDelete)
	s.router.HandleFunc("/symbols/{symbol}/trades/stream", s.handleTradeStream).Methods(http.MethodGet)
	s.router.HandleFunc("/symbols/{symbol}/depth/stream", s.handleDepthStream).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
}

// Run serves until ctx is canceled, then drains with a graceful shutdown.
func (s *Server) Run(ctx context.Context) error {
	t, ctx := tomb.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.cfg.ListenAddr,
		Handler: cors.AllowAll().Handler(s.router),
	}

	t.Go(func() error {
		s.log.Info().Str("addr", s.cfg.ListenAddr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	t.Go(func() error {
		<-t.Dying()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info().Msg("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return t.Wait()
}

// --- Handlers ---------------------------------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "skoll",
		"timestamp": time.Now().UnixMilli(),
	})
}

func (s *Server) handleListSymbols(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SymbolsResponse{Symbols: s.exchange.ListSymbols()})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	state, err := s.exchange.State(symbol)
	if err != nil {
		writeError(w, http.StatusNotFound, "symbol not found")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleDepth(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	levels := s.cfg.DepthLevels
	if raw := r.URL.Query().Get("levels"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid levels parameter")
			return
		}
		levels = n
	}

	depth, err := s.exchange.Depth(symbol, levels)
	if err != nil {
		writeError(w, http.StatusNotFound, "symbol not found")
		return
	}
	writeJSON(w, http.StatusOK, depth)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	var req SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	side, err := book.ParseSide(req.Side)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid side")
		return
	}
	// The book assumes quantity > 0 on entry; shape is rejected here.
	if req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	order := book.Order{
		ID:        book.NewOrderID(),
		Symbol:    symbol,
		Side:      side,
		Price:     req.Price,
		Quantity:  req.Quantity,
		Timestamp: time.Now().UnixNano(),
	}

	trades, err := s.exchange.Submit(symbol, order)
	if err != nil {
		writeError(w, http.StatusNotFound, "symbol not found")
		return
	}

	metrics.OrdersSubmitted.WithLabelValues(symbol, side.String()).Inc()
	var filled int64
	for _, tr := range trades {
		filled += tr.Quantity
		metrics.TradesExecuted.WithLabelValues(symbol).Inc()
		metrics.TradedQuantity.WithLabelValues(symbol).Add(float64(tr.Quantity))
		s.feed.publish(TradeEvent{
			Type:      "trade",
			Symbol:    symbol,
			Trade:     tr,
			Timestamp: time.Now().UnixNano(),
		})
	}

	status := "rested"
	switch {
	case filled >= req.Quantity:
		status = "filled"
	case filled > 0:
		status = "partial"
	}

	s.log.Debug().
		Str("symbol", symbol).
		Str("order_id", order.ID.String()).
		Str("status", status).
		Int("trades", len(trades)).
		Msg("order submitted")

	if trades == nil {
		trades = []book.Trade{}
	}
	writeJSON(w, http.StatusCreated, SubmitOrderResponse{
		OrderID: order.ID.String(),
		Status:  status,
		Trades:  trades,
	})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	symbol := vars["symbol"]

	id, err := book.ParseOrderID(vars["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	canceled, err := s.exchange.Cancel(symbol, id)
	if err != nil {
		writeError(w, http.StatusNotFound, "symbol not found")
		return
	}
	if !canceled {
		metrics.CancelRequests.WithLabelValues(symbol, "noop").Inc()
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	metrics.CancelRequests.WithLabelValues(symbol, "canceled").Inc()
	s.log.Debug().Str("symbol", symbol).Str("order_id", id.String()).Msg("order canceled")
	writeJSON(w, http.StatusOK, CancelOrderResponse{OrderID: id.String(), Status: "canceled"})
}

// --- Plumbing ---------------------------------------------------------------

// instrument records request durations, skipping the streaming endpoints
// whose connections are long-lived.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isStreamPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
	})
}

func isStreamPath(path string) bool {
	return strings.HasSuffix(path, "/stream")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are gone at this point, nothing left to do but log.
		log.Error().Err(err).Msg("error encoding response")
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg, Code: code})
}
