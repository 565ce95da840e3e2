// Package pricehistory keeps a rolling window of book snapshots and
// exports them as CSV for offline analysis.
package pricehistory

import (
	"fmt"
	"io"
	"os"

	"github.com/gammazero/deque"

	"github.com/arthur3336/orderflow-engine/pkg/orderbook"
)

// DefaultCapacity bounds the window when none is given.
const DefaultCapacity = 10000

// History is a bounded FIFO of snapshots. Recording past capacity
// evicts the oldest entry. Not safe for concurrent use.
type History struct {
	capacity int
	window   deque.Deque[orderbook.Snapshot]
}

// New creates a history holding up to capacity snapshots. capacity <= 0
// selects DefaultCapacity.
func New(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{capacity: capacity}
}

// Record appends one snapshot, evicting the oldest when full.
func (h *History) Record(snap orderbook.Snapshot) {
	if h.window.Len() == h.capacity {
		h.window.PopFront()
	}
	h.window.PushBack(snap)
}

// Len returns the number of recorded snapshots.
func (h *History) Len() int {
	return h.window.Len()
}

// Latest returns the most recent snapshot, false when empty.
func (h *History) Latest() (orderbook.Snapshot, bool) {
	if h.window.Len() == 0 {
		return orderbook.Snapshot{}, false
	}
	return h.window.Back(), true
}

// At returns the i-th snapshot, oldest first.
func (h *History) At(i int) orderbook.Snapshot {
	return h.window.At(i)
}

// ExportCSV writes the window as CSV. Timestamps are nanoseconds
// relative to the first recorded snapshot, so exports from different
// runs line up at zero.
func (h *History) ExportCSV(w io.Writer) error {
	if _, err := io.WriteString(w, "timestamp_ns,bid,ask,mid,spread,last_price,last_qty\n"); err != nil {
		return err
	}
	if h.window.Len() == 0 {
		return nil
	}
	start := h.window.Front().Time
	for i := 0; i < h.window.Len(); i++ {
		snap := h.window.At(i)
		_, err := fmt.Fprintf(w, "%d,%d,%d,%d,%d,%d,%d\n",
			snap.Time.Sub(start).Nanoseconds(),
			snap.BidPrice, snap.AskPrice, snap.MidPrice, snap.Spread,
			snap.LastTradePrice, snap.LastTradeQty)
		if err != nil {
			return err
		}
	}
	return nil
}

// ExportCSVFile writes the window to path, creating or truncating it.
func (h *History) ExportCSVFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := h.ExportCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
