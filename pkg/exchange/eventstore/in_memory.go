package eventstore

import (
	"sync"

	"github.com/arthur3336/orderflow-engine/pkg/exchange/model"
	"github.com/arthur3336/orderflow-engine/pkg/orderbook"
)

type InMemoryEventStore struct {
	mu            sync.RWMutex
	events        map[orderbook.OrderID][]*model.OrderEvent
	latestClOrdID map[orderbook.OrderID]string
	clOrdChain    map[string]string // ClOrdID -> OrigClOrdID
	clOrdToOrder  map[string]orderbook.OrderID
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		events:        make(map[orderbook.OrderID][]*model.OrderEvent),
		latestClOrdID: make(map[orderbook.OrderID]string),
		clOrdChain:    make(map[string]string),
		clOrdToOrder:  make(map[string]orderbook.OrderID),
	}
}

func (s *InMemoryEventStore) AddEvent(ev *model.OrderEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events[ev.OrderID] = append(s.events[ev.OrderID], ev)
	s.trackLocked(ev.OrderID, ev.ClOrdID, ev.OrigClOrdID)
}

func (s *InMemoryEventStore) Events(orderID orderbook.OrderID) []*model.OrderEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.OrderEvent, len(s.events[orderID]))
	copy(out, s.events[orderID])
	return out
}

// TrackClOrdChain links a new ClOrdID into the order's rewrite chain.
func (s *InMemoryEventStore) TrackClOrdChain(orderID orderbook.OrderID, clOrdID, origClOrdID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trackLocked(orderID, clOrdID, origClOrdID)
}

func (s *InMemoryEventStore) trackLocked(orderID orderbook.OrderID, clOrdID, origClOrdID string) {
	if clOrdID == "" {
		return
	}
	s.latestClOrdID[orderID] = clOrdID
	s.clOrdToOrder[clOrdID] = orderID
	if origClOrdID != "" {
		s.clOrdChain[clOrdID] = origClOrdID
	}
}

func (s *InMemoryEventStore) GetLatestClOrdID(orderID orderbook.OrderID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.latestClOrdID[orderID]
}

// GetOrigClOrdID returns the immediate predecessor of a ClOrdID.
func (s *InMemoryEventStore) GetOrigClOrdID(clOrdID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.clOrdChain[clOrdID]
}

func (s *InMemoryEventStore) GetOrderID(clOrdID string) (orderbook.OrderID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.clOrdToOrder[clOrdID]
	return id, ok
}

// ReconstructChain walks backward through every ClOrdID rewrite.
func (s *InMemoryEventStore) ReconstructChain(clOrdID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var chain []string
	curr := clOrdID
	for curr != "" {
		chain = append(chain, curr)
		curr = s.clOrdChain[curr]
	}
	return chain
}
