package exchange

import "skoll/internal/book"

// State is a point-in-time summary of one symbol's book. BestBid/BestAsk are
// nil when the corresponding side is empty.
type State struct {
	Symbol     string `json:"symbol"`
	BestBid    *int64 `json:"best_bid"`
	BestAsk    *int64 `json:"best_ask"`
	BidLevels  int    `json:"bid_levels"`
	AskLevels  int    `json:"ask_levels"`
	LastUpdate int64  `json:"last_update"`
}

// Depth is an aggregated view of the best levels per side. Bids run highest
// to lowest price, asks lowest to highest; both are best-first.
type Depth struct {
	Symbol    string       `json:"symbol"`
	Bids      []book.Level `json:"bids"`
	Asks      []book.Level `json:"asks"`
	Timestamp int64        `json:"timestamp"`
}

// Quote carries both best prices; either side may be nil when empty.
type Quote struct {
	Symbol  string `json:"symbol"`
	BestBid *int64 `json:"best_bid"`
	BestAsk *int64 `json:"best_ask"`
}

// Volume counts resident orders per side.
type Volume struct {
	Symbol    string `json:"symbol"`
	BidOrders int    `json:"bid_orders"`
	AskOrders int    `json:"ask_orders"`
}
