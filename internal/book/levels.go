package book

import "github.com/tidwall/btree"

// level is one price point and its FIFO queue of resting orders. A level is
// resident in the tree only while its queue is non-empty.
type level struct {
	price  int64
	orders []Order
}

// Level is an aggregated view of one price level, as reported to depth and
// market-data queries. Quantity and Orders count live orders only.
type Level struct {
	Price    int64 `json:"price"`
	Quantity int64 `json:"quantity"`
	Orders   int   `json:"orders"`
}

// PriceLevels holds one side of a book: price-ordered levels, each a FIFO
// queue, plus a tombstone set for lazily canceled ids. Cancellation is O(1);
// tombstoned orders are physically dropped when they reach the front of the
// best level in PopBest, or through EagerRemove.
//
// Not safe for concurrent use; the owning exchange serializes access.
type PriceLevels struct {
	side Side

	// Comparator is side-dependent so the tree minimum is always the best
	// price: lowest first for asks, highest first for bids.
	tree *btree.BTreeG[*level]

	canceled map[OrderID]struct{}
	resident int
}

func NewPriceLevels(side Side) *PriceLevels {
	var less func(a, b *level) bool
	if side == Ask {
		less = func(a, b *level) bool { return a.price < b.price }
	} else {
		less = func(a, b *level) bool { return a.price > b.price }
	}
	return &PriceLevels{
		side:     side,
		tree:     btree.NewBTreeG(less),
		canceled: make(map[OrderID]struct{}),
	}
}

func (pl *PriceLevels) Side() Side { return pl.side }

// Push appends an order to the back of its price level, creating the level
// if absent.
func (pl *PriceLevels) Push(o Order) {
	if lvl, ok := pl.tree.GetMut(&level{price: o.Price}); ok {
		lvl.orders = append(lvl.orders, o)
	} else {
		pl.tree.Set(&level{price: o.Price, orders: []Order{o}})
	}
	pl.resident++
}

// PushFront reinserts an order at the front of its price level. Used only to
// return a partially filled maker to the book without losing time priority.
func (pl *PriceLevels) PushFront(o Order) {
	if lvl, ok := pl.tree.GetMut(&level{price: o.Price}); ok {
		lvl.orders = append(lvl.orders, Order{})
		copy(lvl.orders[1:], lvl.orders)
		lvl.orders[0] = o
	} else {
		pl.tree.Set(&level{price: o.Price, orders: []Order{o}})
	}
	pl.resident++
}

// BestPrice returns the best resident price without removing anything:
// lowest for asks, highest for bids. Tombstoned orders still hold their
// level open until purged.
func (pl *PriceLevels) BestPrice() (int64, bool) {
	lvl, ok := pl.tree.Min()
	if !ok {
		return 0, false
	}
	return lvl.price, true
}

// BestLevelSize returns the number of live orders queued at the best price,
// zero when the side is empty.
func (pl *PriceLevels) BestLevelSize() int {
	lvl, ok := pl.tree.Min()
	if !ok {
		return 0
	}
	n := 0
	for _, o := range lvl.orders {
		if _, dead := pl.canceled[o.ID]; !dead {
			n++
		}
	}
	return n
}

// PopBest removes and returns the earliest live order at the best price.
// Tombstoned orders encountered at the front are purged on the way, and
// levels emptied by the purge are dropped before retrying at the next price.
// Returns false only when no live order remains on this side.
func (pl *PriceLevels) PopBest() (Order, bool) {
	for {
		lvl, ok := pl.tree.MinMut()
		if !ok {
			return Order{}, false
		}

		// Purge tombstoned orders at the front. The tombstones themselves are
		// kept so a repeated cancel of the same id stays a no-op; EagerRemove
		// is the path that releases them.
		for len(lvl.orders) > 0 {
			if _, dead := pl.canceled[lvl.orders[0].ID]; !dead {
				break
			}
			lvl.orders = lvl.orders[1:]
			pl.resident--
		}

		if len(lvl.orders) == 0 {
			pl.tree.Delete(lvl)
			continue
		}

		o := lvl.orders[0]
		lvl.orders = lvl.orders[1:]
		pl.resident--
		if len(lvl.orders) == 0 {
			pl.tree.Delete(lvl)
		}
		return o, true
	}
}

// Cancel tombstones an id. Returns true on the first cancellation of the id,
// false on repeats. The queues are untouched; removal is deferred to PopBest
// or EagerRemove. An id that never rested, or that has already filled, leaves
// a harmless stale tombstone.
func (pl *PriceLevels) Cancel(id OrderID) bool {
	if _, ok := pl.canceled[id]; ok {
		return false
	}
	pl.canceled[id] = struct{}{}
	return true
}

// EagerRemove physically removes an order from wherever it sits, releasing
// its tombstone if one exists. Cost is proportional to the side's size, so
// this stays off the matching path; management and cleanup flows use it when
// bounded tombstone memory matters more than per-cancel latency.
func (pl *PriceLevels) EagerRemove(id OrderID) bool {
	var hit *level
	idx := -1
	pl.tree.Scan(func(lvl *level) bool {
		for i, o := range lvl.orders {
			if o.ID == id {
				hit, idx = lvl, i
				return false
			}
		}
		return true
	})
	delete(pl.canceled, id)
	if hit == nil {
		return false
	}
	hit.orders = append(hit.orders[:idx], hit.orders[idx+1:]...)
	pl.resident--
	if len(hit.orders) == 0 {
		pl.tree.Delete(hit)
	}
	return true
}

// Len is the number of orders physically resident in the queues. Tombstoned
// orders that have not yet been purged still count; counts away from the
// best price may therefore run very slightly high until touched.
func (pl *PriceLevels) Len() int { return pl.resident }

// LevelCount is the number of resident price levels.
func (pl *PriceLevels) LevelCount() int { return pl.tree.Len() }

// Snapshot returns up to maxLevels aggregated levels, best price first.
// Tombstoned orders are excluded exactly, and levels whose live quantity is
// zero are skipped. maxLevels <= 0 means all levels.
func (pl *PriceLevels) Snapshot(maxLevels int) []Level {
	out := make([]Level, 0, min(max(maxLevels, 0), pl.tree.Len()))
	pl.tree.Scan(func(lvl *level) bool {
		var qty int64
		n := 0
		for _, o := range lvl.orders {
			if _, dead := pl.canceled[o.ID]; dead {
				continue
			}
			qty += o.Quantity
			n++
		}
		if qty > 0 {
			out = append(out, Level{Price: lvl.price, Quantity: qty, Orders: n})
		}
		return maxLevels <= 0 || len(out) < maxLevels
	})
	return out
}
