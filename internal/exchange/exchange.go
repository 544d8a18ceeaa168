// Package exchange owns one order book per traded symbol and arbitrates
// concurrent access: operations on distinct symbols proceed independently,
// operations on one symbol observe a serialized, consistent book.
package exchange

import (
	"errors"
	"sync"
	"time"

	"skoll/internal/book"
)

// ErrSymbolNotFound is returned by every per-symbol operation when the
// symbol is not registered. It is a business outcome, not a failure.
var ErrSymbolNotFound = errors.New("symbol not found")

// bookHandle pairs a book with its own lock so symbols never contend with
// each other. Queries take the read side, submissions and cancellations the
// write side; sync.RWMutex blocks new readers once a writer waits, so
// writers are not starved.
type bookHandle struct {
	mu sync.RWMutex
	ob *book.OrderBook
}

// Exchange is the symbol registry. The registry map has its own lock, held
// only for the lookup or insert itself — never while a book is locked.
type Exchange struct {
	mu    sync.RWMutex
	books map[string]*bookHandle
}

// New creates an exchange pre-seeded with the given symbols.
func New(symbols ...string) *Exchange {
	e := &Exchange{books: make(map[string]*bookHandle)}
	for _, s := range symbols {
		e.AddSymbol(s)
	}
	return e
}

// AddSymbol registers a fresh, empty book for the symbol. Re-adding an
// existing symbol replaces its book and silently discards every resting
// order, so this is for initialization, not a production reset.
func (e *Exchange) AddSymbol(symbol string) {
	e.mu.Lock()
	e.books[symbol] = &bookHandle{ob: book.NewOrderBook()}
	e.mu.Unlock()
}

// ListSymbols returns the registered symbols in arbitrary order.
func (e *Exchange) ListSymbols() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	symbols := make([]string, 0, len(e.books))
	for s := range e.books {
		symbols = append(symbols, s)
	}
	return symbols
}

func (e *Exchange) handle(symbol string) (*bookHandle, bool) {
	e.mu.RLock()
	h, ok := e.books[symbol]
	e.mu.RUnlock()
	return h, ok
}

// Submit matches the order against the symbol's book under exclusive access
// and returns any trades in execution order.
func (e *Exchange) Submit(symbol string, o book.Order) ([]book.Trade, error) {
	h, ok := e.handle(symbol)
	if !ok {
		return nil, ErrSymbolNotFound
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ob.SubmitLimit(o), nil
}

// Cancel tombstones the id on both sides of the symbol's book; the registry
// does not know which side an id rests on. Returns true if the id was newly
// canceled, false for repeats, unknown ids, or orders that already filled.
func (e *Exchange) Cancel(symbol string, id book.OrderID) (bool, error) {
	h, ok := e.handle(symbol)
	if !ok {
		return false, ErrSymbolNotFound
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ob.Cancel(id), nil
}

// State captures best prices and per-side level counts under shared access.
func (e *Exchange) State(symbol string) (State, error) {
	h, ok := e.handle(symbol)
	if !ok {
		return State{}, ErrSymbolNotFound
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	bidLevels, askLevels := h.ob.LevelCounts()
	return State{
		Symbol:     symbol,
		BestBid:    optPrice(h.ob.BestBid()),
		BestAsk:    optPrice(h.ob.BestAsk()),
		BidLevels:  bidLevels,
		AskLevels:  askLevels,
		LastUpdate: time.Now().UnixNano(),
	}, nil
}

// Depth returns up to maxLevels aggregated price levels per side, best
// first, under shared access. Levels with zero live quantity are excluded.
func (e *Exchange) Depth(symbol string, maxLevels int) (Depth, error) {
	h, ok := e.handle(symbol)
	if !ok {
		return Depth{}, ErrSymbolNotFound
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	bids, asks := h.ob.Depth(maxLevels)
	return Depth{
		Symbol:    symbol,
		Bids:      bids,
		Asks:      asks,
		Timestamp: time.Now().UnixNano(),
	}, nil
}

// BestPrices returns both best prices under shared access.
func (e *Exchange) BestPrices(symbol string) (Quote, error) {
	h, ok := e.handle(symbol)
	if !ok {
		return Quote{}, ErrSymbolNotFound
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Quote{
		Symbol:  symbol,
		BestBid: optPrice(h.ob.BestBid()),
		BestAsk: optPrice(h.ob.BestAsk()),
	}, nil
}

// TotalVolume returns per-side resident order counts under shared access.
func (e *Exchange) TotalVolume(symbol string) (Volume, error) {
	h, ok := e.handle(symbol)
	if !ok {
		return Volume{}, ErrSymbolNotFound
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	bids, asks := h.ob.OrderCounts()
	return Volume{Symbol: symbol, BidOrders: bids, AskOrders: asks}, nil
}

func optPrice(px int64, ok bool) *int64 {
	if !ok {
		return nil
	}
	return &px
}
