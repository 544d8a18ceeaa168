package api

import "skoll/internal/book"

// SubmitOrderRequest is the body of POST /symbols/{symbol}/orders.
type SubmitOrderRequest struct {
	Side     string `json:"side"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

// SubmitOrderResponse reports the assigned id, the outcome and any immediate
// executions. Status is one of "rested", "partial", "filled".
type SubmitOrderResponse struct {
	OrderID string       `json:"order_id"`
	Status  string       `json:"status"`
	Trades  []book.Trade `json:"trades"`
}

// CancelOrderResponse reports a successful cancellation.
type CancelOrderResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// SymbolsResponse lists the traded symbols.
type SymbolsResponse struct {
	Symbols []string `json:"symbols"`
}

// TradeEvent is pushed on the trade stream for every execution.
type TradeEvent struct {
	Type      string     `json:"type"`
	Symbol    string     `json:"symbol"`
	Trade     book.Trade `json:"trade"`
	Timestamp int64      `json:"timestamp"`
}

// DepthEvent is pushed periodically on the depth stream.
type DepthEvent struct {
	Type      string       `json:"type"`
	Symbol    string       `json:"symbol"`
	Bids      []book.Level `json:"bids"`
	Asks      []book.Level `json:"asks"`
	Timestamp int64        `json:"timestamp"`
}

// errorResponse is the uniform error envelope. The error strings distinguish
// symbol-not-found, order-not-found and bad request shape so clients can map
// them to distinct signals.
type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
