package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitLimitCrossingAndPartials(t *testing.T) {
	ob := NewOrderBook()

	// Two asks at the same price; the first has time priority.
	ob.SubmitLimit(order(1, Ask, 100, 50, 1))
	ob.SubmitLimit(order(2, Ask, 100, 40, 2))

	// Crossing bid fills 50 from order 1, then 20 from order 2.
	trades := ob.SubmitLimit(order(10, Bid, 100, 70, 3))

	require.Len(t, trades, 2)
	assert.Equal(t, oid(1), trades[0].Maker)
	assert.Equal(t, oid(10), trades[0].Taker)
	assert.Equal(t, int64(50), trades[0].Quantity)
	assert.Equal(t, oid(2), trades[1].Maker)
	assert.Equal(t, int64(20), trades[1].Quantity)

	// Order 2 rests with 20 remaining.
	px, ok := ob.BestAsk()
	require.True(t, ok)
	assert.Equal(t, int64(100), px)
	assert.Equal(t, 1, ob.Asks().BestLevelSize())
	assert.Equal(t, []Level{{Price: 100, Quantity: 20, Orders: 1}}, ob.Asks().Snapshot(0))
}

func TestSubmitLimitNonCrossingRests(t *testing.T) {
	ob := NewOrderBook()

	ob.SubmitLimit(order(1, Ask, 105, 10, 1))

	// 104 < 105: no cross, the bid rests.
	trades := ob.SubmitLimit(order(2, Bid, 104, 10, 2))
	assert.Empty(t, trades)

	bid, ok := ob.BestBid()
	require.True(t, ok)
	assert.Equal(t, int64(104), bid)
	ask, ok := ob.BestAsk()
	require.True(t, ok)
	assert.Equal(t, int64(105), ask)
}

func TestSubmitLimitSkipsCanceledMaker(t *testing.T) {
	ob := NewOrderBook()

	ob.SubmitLimit(order(1, Bid, 100, 10, 1))
	ob.SubmitLimit(order(2, Bid, 100, 10, 2))

	assert.True(t, ob.Cancel(oid(1)))

	// The incoming ask matches the second (uncanceled) bid; the canceled one
	// is purged without trading.
	trades := ob.SubmitLimit(order(3, Ask, 100, 10, 3))
	require.Len(t, trades, 1)
	assert.Equal(t, oid(2), trades[0].Maker)
	assert.Equal(t, int64(10), trades[0].Quantity)

	_, ok := ob.BestBid()
	assert.False(t, ok, "both bids gone: one filled, one purged")
	bids, _ := ob.OrderCounts()
	assert.Equal(t, 0, bids)
}

func TestTradesExecuteAtMakerPrice(t *testing.T) {
	ob := NewOrderBook()

	ob.SubmitLimit(order(1, Ask, 100, 10, 1))

	// Aggressive bid at 110 still trades at the resting 100.
	trades := ob.SubmitLimit(order(2, Bid, 110, 10, 2))
	require.Len(t, trades, 1)
	assert.Equal(t, int64(100), trades[0].Price)
	assert.Equal(t, int64(2), trades[0].Timestamp, "trade carries the taker's submission time")
}

func TestSubmitLimitSweepsLevels(t *testing.T) {
	ob := NewOrderBook()

	ob.SubmitLimit(order(1, Ask, 100, 30, 1))
	ob.SubmitLimit(order(2, Ask, 101, 30, 2))
	ob.SubmitLimit(order(3, Ask, 102, 30, 3))

	// Sweeps 100 and 101 fully, 102 partially, at each maker's own price.
	trades := ob.SubmitLimit(order(10, Bid, 102, 80, 4))
	require.Len(t, trades, 3)
	assert.Equal(t, int64(100), trades[0].Price)
	assert.Equal(t, int64(101), trades[1].Price)
	assert.Equal(t, int64(102), trades[2].Price)
	assert.Equal(t, int64(20), trades[2].Quantity)

	// The partially filled maker keeps its place at 102.
	assert.Equal(t, []Level{{Price: 102, Quantity: 10, Orders: 1}}, ob.Asks().Snapshot(0))
	_, ok := ob.BestBid()
	assert.False(t, ok, "taker fully filled, nothing rests")
}

func TestPartialMakerKeepsPriority(t *testing.T) {
	ob := NewOrderBook()

	ob.SubmitLimit(order(1, Ask, 100, 50, 1))
	ob.SubmitLimit(order(2, Ask, 100, 50, 2))

	// Leaves order 1 with 30 remaining, reinserted at the front.
	ob.SubmitLimit(order(10, Bid, 100, 20, 3))

	trades := ob.SubmitLimit(order(11, Bid, 100, 40, 4))
	require.Len(t, trades, 2)
	assert.Equal(t, oid(1), trades[0].Maker, "partially filled maker is served before order 2")
	assert.Equal(t, int64(30), trades[0].Quantity)
	assert.Equal(t, oid(2), trades[1].Maker)
	assert.Equal(t, int64(10), trades[1].Quantity)
}

func TestFillQuantitiesNeverExceedTaker(t *testing.T) {
	ob := NewOrderBook()

	ob.SubmitLimit(order(1, Ask, 100, 25, 1))
	ob.SubmitLimit(order(2, Ask, 100, 25, 2))
	ob.SubmitLimit(order(3, Ask, 101, 25, 3))

	const takerQty = 60
	trades := ob.SubmitLimit(order(10, Bid, 101, takerQty, 4))

	var filled int64
	for _, tr := range trades {
		assert.Positive(t, tr.Quantity)
		filled += tr.Quantity
	}
	assert.LessOrEqual(t, filled, int64(takerQty))
	assert.Equal(t, int64(takerQty), filled, "enough liquidity to fill fully")
}

// Quantity conservation: resting + traded always equals submitted minus
// canceled-and-purged, across an arbitrary mixed sequence.
func TestQuantityConservation(t *testing.T) {
	ob := NewOrderBook()

	type step struct {
		n     byte
		side  Side
		price int64
		qty   int64
	}
	steps := []step{
		{1, Bid, 100, 40},
		{2, Ask, 102, 30},
		{3, Bid, 101, 25},
		{4, Ask, 101, 50}, // crosses order 3
		{5, Bid, 102, 60}, // crosses orders 4 and 2
		{6, Ask, 99, 80},  // crosses orders 5 and 1
		{7, Bid, 98, 10},
	}

	var submitted, traded int64
	for i, st := range steps {
		submitted += st.qty
		for _, tr := range ob.SubmitLimit(order(st.n, st.side, st.price, st.qty, int64(i))) {
			traded += tr.Quantity
		}
	}

	var resting int64
	for _, lvl := range ob.Bids().Snapshot(0) {
		resting += lvl.Quantity
	}
	for _, lvl := range ob.Asks().Snapshot(0) {
		resting += lvl.Quantity
	}

	// Each trade consumes quantity from two orders at once.
	assert.Equal(t, submitted, resting+2*traded)
}

func TestCancelProbesBothSides(t *testing.T) {
	ob := NewOrderBook()
	ob.SubmitLimit(order(1, Bid, 100, 10, 1))
	ob.SubmitLimit(order(2, Ask, 105, 10, 2))

	assert.True(t, ob.Cancel(oid(1)))
	assert.True(t, ob.Cancel(oid(2)))
	assert.False(t, ob.Cancel(oid(1)), "repeat cancel is a no-op")
}

func TestEagerRemoveProbesBothSides(t *testing.T) {
	ob := NewOrderBook()
	ob.SubmitLimit(order(1, Bid, 100, 10, 1))
	ob.SubmitLimit(order(2, Ask, 105, 10, 2))

	assert.True(t, ob.EagerRemove(oid(2)))
	_, ok := ob.BestAsk()
	assert.False(t, ok)

	bid, ok := ob.BestBid()
	require.True(t, ok)
	assert.Equal(t, int64(100), bid)
}

func TestDepthAndCounts(t *testing.T) {
	ob := NewOrderBook()
	ob.SubmitLimit(order(1, Bid, 99, 100, 1))
	ob.SubmitLimit(order(2, Bid, 99, 90, 2))
	ob.SubmitLimit(order(3, Bid, 98, 50, 3))
	ob.SubmitLimit(order(4, Ask, 100, 100, 4))
	ob.SubmitLimit(order(5, Ask, 101, 20, 5))

	bidLevels, askLevels := ob.LevelCounts()
	assert.Equal(t, 2, bidLevels)
	assert.Equal(t, 2, askLevels)

	bidOrders, askOrders := ob.OrderCounts()
	assert.Equal(t, 3, bidOrders)
	assert.Equal(t, 2, askOrders)

	bids, asks := ob.Depth(10)
	assert.Equal(t, []Level{
		{Price: 99, Quantity: 190, Orders: 2},
		{Price: 98, Quantity: 50, Orders: 1},
	}, bids, "bids best (highest) first")
	assert.Equal(t, []Level{
		{Price: 100, Quantity: 100, Orders: 1},
		{Price: 101, Quantity: 20, Orders: 1},
	}, asks, "asks best (lowest) first")
}
