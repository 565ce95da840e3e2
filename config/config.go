package config

import (
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	postgres_wrapper "github.com/arthur3336/orderflow-engine/pkg/infra/postgres"
	redis_wrapper "github.com/arthur3336/orderflow-engine/pkg/infra/redis"
)

type KafkaConfig struct {
	Brokers    []string `yaml:"brokers"`
	TradeTopic string   `yaml:"trade_topic"`
	GroupID    string   `yaml:"group_id"`
}

type NatsConfig struct {
	URL             string `yaml:"url"`
	Stream          string `yaml:"stream"`
	OrderEventSubj  string `yaml:"order_event_subject"`
	DurableConsumer string `yaml:"durable_consumer"`
}

type FixConfig struct {
	SettingsFile string `yaml:"settings_file"`
	// Dispatch selects how inbound sessions hand work to the exchange:
	// "direct", "channel" or "shardqueue".
	Dispatch string `yaml:"dispatch"`
}

type FeedConfig struct {
	RedisStreamPrefix string `yaml:"redis_stream_prefix"`
	RedisStreamMaxLen int64  `yaml:"redis_stream_max_len"`
}

type SimulatorConfig struct {
	Symbol    string        `yaml:"symbol"`
	Seed      int64         `yaml:"seed"`
	Orders    int           `yaml:"orders"`
	MinPrice  int64         `yaml:"min_price"`
	MaxPrice  int64         `yaml:"max_price"`
	MinQty    int64         `yaml:"min_qty"`
	MaxQty    int64         `yaml:"max_qty"`
	Accounts  int           `yaml:"accounts"`
	Interval  time.Duration `yaml:"interval"`
	CSVOutput string        `yaml:"csv_output"`
}

type AppConfig struct {
	ServiceName string                           `yaml:"service_name"`
	LogLevel    string                           `yaml:"log_level"`
	JournalDB   *postgres_wrapper.PostgresConfig `yaml:"journal_db"`
	Redis       *redis_wrapper.RedisConfig       `yaml:"redis"`
	Kafka       *KafkaConfig                     `yaml:"kafka"`
	Nats        *NatsConfig                      `yaml:"nats"`
	Fix         *FixConfig                       `yaml:"fix"`
	Feed        *FeedConfig                      `yaml:"feed"`
	Simulator   *SimulatorConfig                 `yaml:"simulator"`
}

// Load reads config from file, expanding ${ENV} references. An empty
// path falls back to the CONFIG_FILE environment variable.
func Load(filePath string) (*AppConfig, error) {
	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}

	sugar := zap.S().With("func", "config.Load", "filePath", filePath)
	sugar.Debug("load config...")

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Error("failed to load config file")
		return nil, err
	}
	configBytes = []byte(os.ExpandEnv(string(configBytes)))

	cfg := &AppConfig{}
	if err := yaml.Unmarshal(configBytes, cfg); err != nil {
		sugar.Error("failed to parse config file")
		return nil, err
	}
	return cfg, nil
}
