package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"skoll/internal/metrics"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS is handled at the router level.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const subscriberBuffer = 256

// tradeFeed fans executed trades out to stream subscribers. Subscribers that
// fall behind their buffer are dropped rather than allowed to stall the
// submit path.
type tradeFeed struct {
	mu   sync.RWMutex
	subs map[chan TradeEvent]string // channel -> symbol filter
}

func newTradeFeed() *tradeFeed {
	return &tradeFeed{subs: make(map[chan TradeEvent]string)}
}

func (f *tradeFeed) subscribe(symbol string) chan TradeEvent {
	ch := make(chan TradeEvent, subscriberBuffer)
	f.mu.Lock()
	f.subs[ch] = symbol
	f.mu.Unlock()
	return ch
}

func (f *tradeFeed) unsubscribe(ch chan TradeEvent) {
	f.mu.Lock()
	delete(f.subs, ch)
	f.mu.Unlock()
}

func (f *tradeFeed) publish(ev TradeEvent) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for ch, symbol := range f.subs {
		if symbol != ev.Symbol {
			continue
		}
		select {
		case ch <- ev:
		default:
			// Slow consumer; its reader will notice the closed socket.
		}
	}
}

// handleTradeStream pushes every execution for the symbol as it happens.
func (s *Server) handleTradeStream(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	if _, err := s.exchange.State(symbol); err != nil {
		writeError(w, http.StatusNotFound, "symbol not found")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	metrics.StreamClients.WithLabelValues("trades").Inc()
	defer metrics.StreamClients.WithLabelValues("trades").Dec()
	s.log.Info().Str("symbol", symbol).Msg("trade stream connected")

	events := s.feed.subscribe(symbol)
	defer s.feed.unsubscribe(events)

	done := readUntilClosed(conn)
	ping := time.NewTicker(s.cfg.PingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second)); err != nil {
				return
			}
		case ev := <-events:
			if err := conn.WriteJSON(ev); err != nil {
				s.log.Debug().Err(err).Str("symbol", symbol).Msg("trade stream write failed")
				return
			}
		}
	}
}

// handleDepthStream pushes periodic depth snapshots for the symbol.
func (s *Server) handleDepthStream(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	if _, err := s.exchange.State(symbol); err != nil {
		writeError(w, http.StatusNotFound, "symbol not found")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	metrics.StreamClients.WithLabelValues("depth").Inc()
	defer metrics.StreamClients.WithLabelValues("depth").Dec()
	s.log.Info().Str("symbol", symbol).Msg("depth stream connected")

	done := readUntilClosed(conn)
	ticker := time.NewTicker(s.cfg.DepthInterval)
	defer ticker.Stop()
	ping := time.NewTicker(s.cfg.PingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second)); err != nil {
				return
			}
		case <-ticker.C:
			depth, err := s.exchange.Depth(symbol, s.cfg.DepthLevels)
			if err != nil {
				// Symbol replaced or removed mid-stream.
				return
			}
			ev := DepthEvent{
				Type:      "depth",
				Symbol:    symbol,
				Bids:      depth.Bids,
				Asks:      depth.Asks,
				Timestamp: depth.Timestamp,
			}
			if err := conn.WriteJSON(ev); err != nil {
				s.log.Debug().Err(err).Str("symbol", symbol).Msg("depth stream write failed")
				return
			}
		}
	}
}

// readUntilClosed drains the client side of the socket (pongs and close
// frames) and signals when the connection goes away.
func readUntilClosed(conn *websocket.Conn) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return done
}
