package orderbook

import "github.com/google/btree"

const btreeDegree = 32

// bookSide holds one side's price levels sorted best-first: bids
// descending, asks ascending. The asymmetry between the two sides
// lives entirely in the comparator and the limit check, so the match
// loop itself is side-agnostic.
type bookSide struct {
	side   Side
	levels *btree.BTreeG[*priceLevel]
}

func newBookSide(side Side) *bookSide {
	less := func(a, b *priceLevel) bool { return a.price < b.price }
	if side == Buy {
		less = func(a, b *priceLevel) bool { return a.price > b.price }
	}
	return &bookSide{
		side:   side,
		levels: btree.NewG(btreeDegree, less),
	}
}

func (s *bookSide) empty() bool {
	return s.levels.Len() == 0
}

// best returns the level at the top of the side, if any.
func (s *bookSide) best() (*priceLevel, bool) {
	return s.levels.Min()
}

func (s *bookSide) get(price Price) (*priceLevel, bool) {
	return s.levels.Get(&priceLevel{price: price})
}

func (s *bookSide) getOrCreate(price Price) *priceLevel {
	if level, ok := s.get(price); ok {
		return level
	}
	level := newPriceLevel(price)
	s.levels.ReplaceOrInsert(level)
	return level
}

func (s *bookSide) delete(price Price) {
	s.levels.Delete(&priceLevel{price: price})
}

// ascend visits levels best-first.
func (s *bookSide) ascend(fn func(*priceLevel) bool) {
	s.levels.Ascend(fn)
}

// descend visits levels worst-first.
func (s *bookSide) descend(fn func(*priceLevel) bool) {
	s.levels.Descend(fn)
}

// violatesLimit reports whether a level at price p is beyond an
// incoming limit order's price on this side's opposite walk: a buyer
// will not pay above its limit, a seller will not sell below it.
func violatesLimit(incoming *Order, p Price) bool {
	if incoming.Side == Buy {
		return p > incoming.Price
	}
	return p < incoming.Price
}
