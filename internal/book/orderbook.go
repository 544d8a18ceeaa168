package book

// OrderBook is the matching core for a single symbol: one PriceLevels per
// side and the price-time-priority algorithm between them.
//
// Not safe for concurrent use; the owning exchange serializes access.
type OrderBook struct {
	bids *PriceLevels
	asks *PriceLevels
}

func NewOrderBook() *OrderBook {
	return &OrderBook{
		bids: NewPriceLevels(Bid),
		asks: NewPriceLevels(Ask),
	}
}

// SubmitLimit matches an incoming limit order against the opposite side and
// rests any remainder. Trades are returned in execution order and always
// execute at the maker's resting price.
//
// Every input is handled without error; callers reject malformed shapes
// (non-positive quantity in particular) before the order reaches the book.
func (b *OrderBook) SubmitLimit(taker Order) []Trade {
	var trades []Trade
	own, opp := b.sides(taker.Side)

	for taker.Quantity > 0 {
		best, ok := opp.BestPrice()
		if !ok || !crosses(taker.Side, taker.Price, best) {
			break
		}

		maker, ok := opp.PopBest()
		if !ok {
			break
		}

		fill := min(taker.Quantity, maker.Quantity)
		taker.Quantity -= fill
		maker.Quantity -= fill

		trades = append(trades, Trade{
			Maker:     maker.ID,
			Taker:     taker.ID,
			Symbol:    taker.Symbol,
			Price:     maker.Price,
			Quantity:  fill,
			Timestamp: taker.Timestamp,
		})

		// A partially filled maker goes back to the front of its level so it
		// keeps time priority over later arrivals at the same price.
		if maker.Quantity > 0 {
			opp.PushFront(maker)
		}
	}

	if taker.Quantity > 0 {
		own.Push(taker)
	}
	return trades
}

// Cancel tombstones the id on both sides; the book does not track which side
// an id rests on. Returns true if either side newly canceled it.
func (b *OrderBook) Cancel(id OrderID) bool {
	fromBids := b.bids.Cancel(id)
	fromAsks := b.asks.Cancel(id)
	return fromBids || fromAsks
}

// EagerRemove physically removes the order from whichever side holds it.
func (b *OrderBook) EagerRemove(id OrderID) bool {
	return b.bids.EagerRemove(id) || b.asks.EagerRemove(id)
}

func (b *OrderBook) BestBid() (int64, bool) { return b.bids.BestPrice() }
func (b *OrderBook) BestAsk() (int64, bool) { return b.asks.BestPrice() }

// LevelCounts returns the number of resident price levels per side.
func (b *OrderBook) LevelCounts() (bids, asks int) {
	return b.bids.LevelCount(), b.asks.LevelCount()
}

// OrderCounts returns the number of resident orders per side.
func (b *OrderBook) OrderCounts() (bids, asks int) {
	return b.bids.Len(), b.asks.Len()
}

// Depth returns up to maxLevels aggregated levels per side, best first.
func (b *OrderBook) Depth(maxLevels int) (bids, asks []Level) {
	return b.bids.Snapshot(maxLevels), b.asks.Snapshot(maxLevels)
}

// Bids and Asks expose the underlying sides for inspection in tests and
// management flows.
func (b *OrderBook) Bids() *PriceLevels { return b.bids }
func (b *OrderBook) Asks() *PriceLevels { return b.asks }

func (b *OrderBook) sides(s Side) (own, opp *PriceLevels) {
	if s == Bid {
		return b.bids, b.asks
	}
	return b.asks, b.bids
}

// crosses reports whether a taker at px trades against the opposing best:
// a bid crosses at or above the best ask, an ask at or below the best bid.
func crosses(s Side, px, best int64) bool {
	if s == Bid {
		return px >= best
	}
	return px <= best
}
