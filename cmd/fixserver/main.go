package main

import (
	"context"
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/arthur3336/orderflow-engine/config"
	"github.com/arthur3336/orderflow-engine/pkg/exchange"
	"github.com/arthur3336/orderflow-engine/pkg/exchange/model"
	"github.com/arthur3336/orderflow-engine/pkg/exchange/risk"
	"github.com/arthur3336/orderflow-engine/pkg/feed"
	"github.com/arthur3336/orderflow-engine/pkg/fixgateway"
	redis_wrapper "github.com/arthur3336/orderflow-engine/pkg/infra/redis"
	"github.com/arthur3336/orderflow-engine/pkg/journal"
	"github.com/arthur3336/orderflow-engine/pkg/logging"
	"github.com/arthur3336/orderflow-engine/pkg/orderbook"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}
	log := logging.MustInit(cfg.LogLevel)
	defer log.Sync() //nolint:errcheck

	go func() {
		_ = http.ListenAndServe("localhost:6060", nil)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	gateway := fixgateway.NewGateway(fixgateway.Config{
		SettingsFile: cfg.Fix.SettingsFile,
		Dispatch:     fixgateway.DispatchMode(cfg.Fix.Dispatch),
	}, log)

	var mgr *exchange.Manager
	mgr = exchange.NewManager(gateway,
		exchange.WithLogger(log),
		exchange.WithRules(
			&risk.SizeLimitRule{Min: 1, Max: 1_000_000},
			&risk.PriceBandRule{
				BandPercent: 10,
				Reference: func(symbol string) orderbook.Price {
					return mgr.LastTradePrice(symbol)
				},
			},
		),
	)
	gateway.Bind(mgr)

	if cfg.Redis != nil && cfg.Feed != nil {
		client, err := redis_wrapper.InitRedis(cfg.Redis)
		if err != nil {
			log.Fatal("init redis failed", zap.Error(err))
		}
		pub := feed.NewRedisPublisher(client, cfg.Feed.RedisStreamPrefix, cfg.Feed.RedisStreamMaxLen, log)
		go pub.Run(ctx) //nolint:errcheck
		mgr.OnTrade(pub.PublishTrade)
		mgr.OnSnapshot(pub.PublishSnapshot)
	}

	if cfg.Kafka != nil {
		producer := feed.NewKafkaProducer(feed.KafkaProducerConfig{
			Brokers:    cfg.Kafka.Brokers,
			TradeTopic: cfg.Kafka.TradeTopic,
		})
		defer producer.Close()
		mgr.OnTrade(func(symbol string, trade orderbook.Trade) {
			if err := producer.PublishTrade(ctx, symbol, trade); err != nil {
				log.Warn("kafka trade publish failed", zap.Error(err))
			}
		})
	}

	if cfg.Nats != nil {
		nc, err := nats.Connect(cfg.Nats.URL)
		if err != nil {
			log.Fatal("connect nats failed", zap.Error(err))
		}
		defer nc.Close()
		js, err := nc.JetStream()
		if err != nil {
			log.Fatal("jetstream context failed", zap.Error(err))
		}
		pub := journal.NewNatsPublisher(js, cfg.Nats.OrderEventSubj, log)
		if err := pub.EnsureStream(cfg.Nats.Stream); err != nil {
			log.Fatal("ensure stream failed", zap.Error(err))
		}
		mgr.OnReport(func(order model.Order) {
			pub.Publish(model.NewOrderEvent(order, order.TransactTime))
		})
	}

	if err := mgr.Start(ctx); err != nil {
		log.Fatal("start gateway failed", zap.Error(err))
	}
	log.Info("fix server started", zap.String("service", cfg.ServiceName))

	<-sigs
	log.Info("shutting down")
	gateway.Stop()
	cancel()
	time.Sleep(100 * time.Millisecond)
	log.Info("exited cleanly")
}
