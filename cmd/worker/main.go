package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/arthur3336/orderflow-engine/config"
	"github.com/arthur3336/orderflow-engine/pkg/feed"
	postgres_wrapper "github.com/arthur3336/orderflow-engine/pkg/infra/postgres"
	"github.com/arthur3336/orderflow-engine/pkg/journal"
	"github.com/arthur3336/orderflow-engine/pkg/logging"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	db := postgres_wrapper.InitPostgresWithBackoff(cfg.JournalDB)
	repo := journal.NewRepo(db)
	worker := journal.NewWorker(repo, log)

	nc, err := nats.Connect(cfg.Nats.URL)
	if err != nil {
		log.Fatal("connect nats failed", zap.Error(err))
	}
	defer nc.Close()
	js, err := nc.JetStream()
	if err != nil {
		log.Fatal("jetstream context failed", zap.Error(err))
	}

	go func() {
		if err := worker.RunOrderEvents(ctx, js, cfg.Nats.OrderEventSubj, cfg.Nats.DurableConsumer); err != nil {
			log.Error("order event consumer stopped", zap.Error(err))
		}
	}()

	if cfg.Kafka != nil {
		consumer := feed.NewKafkaTradeConsumer(feed.KafkaConsumerConfig{
			Brokers: cfg.Kafka.Brokers,
			GroupID: cfg.Kafka.GroupID,
			Topic:   cfg.Kafka.TradeTopic,
		}, log)
		defer consumer.Close()
		go func() {
			if err := consumer.Run(ctx, worker.HandleTrade); err != nil {
				log.Error("trade consumer stopped", zap.Error(err))
			}
		}()
	}

	log.Info("journal worker started", zap.String("service", cfg.ServiceName))
	<-sigs
	log.Info("shutting down")
	cancel()
}
