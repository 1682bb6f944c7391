package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"orderengine/internal/adapters/out/notify"
	"orderengine/internal/core/application/usecases/commands"
	"orderengine/internal/jobs"
	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/retry"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. ORDERENGINE_HTTP_PORT
// or ORDERENGINE_JOBS_PAYMENT_TTL.
const EnvPrefix = "ORDERENGINE"

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"

	NotifierLog   = "log"
	NotifierKafka = "kafka"
)

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

type Config struct {
	HTTPPort          string                     `mapstructure:"http_port"`
	LogLevel          string                     `mapstructure:"log_level"`
	ShutdownTimeout   time.Duration              `mapstructure:"shutdown_timeout"`
	Store             string                     `mapstructure:"store"`
	DatabaseDSN       string                     `mapstructure:"database_dsn"`
	CatalogPath       string                     `mapstructure:"catalog_path"`
	OrderNumberPrefix string                     `mapstructure:"order_number_prefix"`
	Placement         commands.PlacementSettings `mapstructure:"placement"`
	Retry             retry.Config               `mapstructure:"retry"`
	Jobs              jobs.Config                `mapstructure:"jobs"`
	Notifier          string                     `mapstructure:"notifier"`
	Kafka             notify.KafkaConfig         `mapstructure:"kafka"`
	Tracing           TracingConfig              `mapstructure:"tracing"`
}

// SetDefaults registers every key, so each one can be overridden from the
// environment.
func SetDefaults(v *viper.Viper) {
	rc := retry.DefaultConfig()
	jc := jobs.DefaultConfig()

	v.SetDefault("http_port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("store", StoreMemory)
	v.SetDefault("database_dsn", "")
	v.SetDefault("catalog_path", "configs/catalog.yaml")
	v.SetDefault("order_number_prefix", "FD")
	v.SetDefault("placement.currency", "USD")
	v.SetDefault("placement.eta", 40*time.Minute)
	v.SetDefault("retry.max_attempts", rc.MaxAttempts)
	v.SetDefault("retry.initial_delay", rc.InitialDelay)
	v.SetDefault("retry.max_delay", rc.MaxDelay)
	v.SetDefault("retry.multiplier", rc.Multiplier)
	v.SetDefault("jobs.relay_schedule", jc.RelaySchedule)
	v.SetDefault("jobs.relay_batch_size", jc.RelayBatchSize)
	v.SetDefault("jobs.expiry_schedule", jc.ExpirySchedule)
	v.SetDefault("jobs.payment_ttl", jc.PaymentTTL)
	v.SetDefault("jobs.expiry_batch_size", jc.ExpiryBatchSize)
	v.SetDefault("notifier", NotifierLog)
	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.topic", "order-status-changed")
	v.SetDefault("kafka.client_id", "orderengine")
	v.SetDefault("kafka.timeout", 10*time.Second)
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "orderengine")
}

// LoadConfig merges, from lowest to highest precedence, defaults, the
// optional config file, .env and the process environment.
func LoadConfig(v *viper.Viper, configFile string) (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.StringToTimeDurationHookFunc()))
	if err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var err error
	if c.HTTPPort == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("http_port"))
	}
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseDSN == "" {
			err = errors.Join(err, errs.NewValueIsRequiredError("database_dsn"))
		}
	default:
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("store",
			fmt.Errorf("%q is neither %s nor %s", c.Store, StoreMemory, StorePostgres)))
	}
	switch c.Notifier {
	case NotifierLog:
	case NotifierKafka:
		if c.Kafka.Brokers == "" || c.Kafka.Topic == "" {
			err = errors.Join(err, errs.NewValueIsRequiredError("kafka brokers and topic"))
		}
	default:
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("notifier",
			fmt.Errorf("%q is neither %s nor %s", c.Notifier, NotifierLog, NotifierKafka)))
	}
	if c.Retry.MaxAttempts == 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("retry.max_attempts", errors.New("is zero")))
	}
	return errors.Join(err, c.Jobs.Validate())
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
