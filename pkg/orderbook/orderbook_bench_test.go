package orderbook

import "testing"

func BenchmarkAddResting(b *testing.B) {
	ob := New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		price := Price(10000 + i%100)
		ob.Add(NewLimitOrder(OrderID(i+1), "bench", Buy, price, 10))
	}
}

func BenchmarkMatchOneToOne(b *testing.B) {
	ob := New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ob.Add(NewLimitOrder(OrderID(i*2+1), "maker", Sell, 10000, 10))
		ob.Add(NewLimitOrder(OrderID(i*2+2), "taker", Buy, 10000, 10))
	}
}

func BenchmarkCancel(b *testing.B) {
	ob := New()
	for i := 0; i < b.N; i++ {
		price := Price(10000 + i%100)
		ob.Add(NewLimitOrder(OrderID(i+1), "bench", Buy, price, 10))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ob.Cancel(OrderID(i + 1))
	}
}

func BenchmarkSnapshot(b *testing.B) {
	ob := New()
	for i := 0; i < 1000; i++ {
		ob.Add(NewLimitOrder(OrderID(i*2+1), "m", Buy, Price(9000+i%50), 10))
		ob.Add(NewLimitOrder(OrderID(i*2+2), "m", Sell, Price(11000+i%50), 10))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ob.Snapshot()
	}
}
