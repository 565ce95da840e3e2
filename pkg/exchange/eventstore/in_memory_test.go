package eventstore

import (
	"testing"
	"time"

	"github.com/arthur3336/orderflow-engine/pkg/exchange/model"
)

func TestClOrdChainReconstruction(t *testing.T) {
	s := NewInMemoryEventStore()

	s.TrackClOrdChain(1, "A", "")
	s.TrackClOrdChain(1, "B", "A")
	s.TrackClOrdChain(1, "C", "B")

	if got := s.GetLatestClOrdID(1); got != "C" {
		t.Errorf("latest = %q, want C", got)
	}
	if got := s.GetOrigClOrdID("C"); got != "B" {
		t.Errorf("orig of C = %q, want B", got)
	}

	chain := s.ReconstructChain("C")
	want := []string{"C", "B", "A"}
	if len(chain) != len(want) {
		t.Fatalf("chain = %v, want %v", chain, want)
	}
	for i := range want {
		if chain[i] != want[i] {
			t.Errorf("chain[%d] = %q, want %q", i, chain[i], want[i])
		}
	}

	if id, ok := s.GetOrderID("B"); !ok || id != 1 {
		t.Errorf("GetOrderID(B) = %d, %v", id, ok)
	}
	if _, ok := s.GetOrderID("Z"); ok {
		t.Error("unknown ClOrdID resolved")
	}
}

func TestAddEventTracksChain(t *testing.T) {
	s := NewInMemoryEventStore()

	s.AddEvent(&model.OrderEvent{OrderID: 7, ClOrdID: "X", ExecType: model.ExecTypeNew, Timestamp: time.Now()})
	s.AddEvent(&model.OrderEvent{OrderID: 7, ClOrdID: "Y", OrigClOrdID: "X", ExecType: model.ExecTypeReplaced, Timestamp: time.Now()})

	if got := len(s.Events(7)); got != 2 {
		t.Fatalf("expected 2 events, got %d", got)
	}
	if got := s.GetLatestClOrdID(7); got != "Y" {
		t.Errorf("latest = %q, want Y", got)
	}
}
