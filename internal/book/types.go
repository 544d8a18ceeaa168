package book

import (
	"fmt"

	"github.com/google/uuid"
)

// Side of the book an order belongs to.
type Side int

const (
	Bid Side = iota
	Ask
)

func (s Side) String() string {
	switch s {
	case Bid:
		return "bid"
	case Ask:
		return "ask"
	}
	return fmt.Sprintf("side(%d)", int(s))
}

// ParseSide maps a transport-level side string onto a Side.
func ParseSide(s string) (Side, error) {
	switch s {
	case "bid", "buy":
		return Bid, nil
	case "ask", "sell":
		return Ask, nil
	}
	return 0, fmt.Errorf("invalid side %q", s)
}

// OrderID is an opaque 128-bit identifier, unique across the whole venue.
type OrderID uuid.UUID

func NewOrderID() OrderID {
	return OrderID(uuid.New())
}

func ParseOrderID(s string) (OrderID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return OrderID{}, err
	}
	return OrderID(id), nil
}

func (id OrderID) String() string {
	return uuid.UUID(id).String()
}

func (id OrderID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *OrderID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// Order is a resting or incoming limit order. Price is in integer ticks and
// Timestamp in nanoseconds; the matching loop is the only mutator of Quantity.
type Order struct {
	ID        OrderID `json:"id"`
	Symbol    string  `json:"symbol"`
	Side      Side    `json:"side"`
	Price     int64   `json:"price"`
	Quantity  int64   `json:"quantity"`
	Timestamp int64   `json:"timestamp"`
}

func (o Order) String() string {
	return fmt.Sprintf("%s %s %d@%d (%s)", o.Symbol, o.Side, o.Quantity, o.Price, o.ID)
}

// Trade records a single match. Price is the maker's resting price and
// Timestamp is the taker's submission time.
type Trade struct {
	Maker     OrderID `json:"maker"`
	Taker     OrderID `json:"taker"`
	Symbol    string  `json:"symbol"`
	Price     int64   `json:"price"`
	Quantity  int64   `json:"quantity"`
	Timestamp int64   `json:"timestamp"`
}
