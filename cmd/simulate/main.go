// Command simulate runs random order flow against one symbol and
// prints the resulting book and statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/arthur3336/orderflow-engine/config"
	"github.com/arthur3336/orderflow-engine/pkg/exchange"
	"github.com/arthur3336/orderflow-engine/pkg/logging"
	"github.com/arthur3336/orderflow-engine/pkg/orderbook"
	"github.com/arthur3336/orderflow-engine/pkg/sim"
)

func simConfig(cfg *config.AppConfig) sim.Config {
	sc := sim.Config{
		Symbol:   "SIMUSD",
		Seed:     time.Now().UnixNano(),
		Orders:   100_000,
		MinPrice: 9800,
		MaxPrice: 10200,
		MinQty:   10,
		MaxQty:   100,
		Accounts: 8,
	}
	if cfg == nil || cfg.Simulator == nil {
		return sc
	}
	s := cfg.Simulator
	if s.Symbol != "" {
		sc.Symbol = s.Symbol
	}
	if s.Seed != 0 {
		sc.Seed = s.Seed
	}
	if s.Orders > 0 {
		sc.Orders = s.Orders
	}
	if s.MaxPrice > 0 {
		sc.MinPrice = orderbook.Price(s.MinPrice)
		sc.MaxPrice = orderbook.Price(s.MaxPrice)
	}
	if s.MaxQty > 0 {
		sc.MinQty = orderbook.Quantity(s.MinQty)
		sc.MaxQty = orderbook.Quantity(s.MaxQty)
	}
	if s.Accounts > 0 {
		sc.Accounts = s.Accounts
	}
	sc.Interval = s.Interval
	sc.CSVOutput = s.CSVOutput
	return sc
}

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	var appCfg *config.AppConfig
	logLevel := "info"
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			panic(err)
		}
		appCfg = cfg
		logLevel = cfg.LogLevel
	}
	log := logging.MustInit(logLevel)
	defer log.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	cfg := simConfig(appCfg)
	simulator := sim.New(cfg, log)
	mgr := exchange.NewManager(simulator, exchange.WithLogger(log))
	simulator.Bind(mgr)

	stats, err := simulator.Run(ctx)
	if err != nil {
		log.Warn("simulation stopped early", zap.Error(err))
	}

	rendered, err := mgr.RenderBook(cfg.Symbol)
	if err == nil {
		fmt.Println(rendered)
	}
	fmt.Printf("submitted %d, accepted %d, rejected %d, expired %d, cancels %d\n",
		stats.Submitted, stats.Accepted, stats.Rejected, stats.Expired, stats.Cancels)
	fmt.Printf("trades %d, matched qty %d, last %s\n",
		stats.Trades, stats.TradedQty,
		orderbook.FormatPrice(mgr.LastTradePrice(cfg.Symbol)))
}
