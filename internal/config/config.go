package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultServiceTimeout = 3 * time.Second
	defaultIdempotencyTTL = 24 * time.Hour
)

type Config struct {
	RunAddress    string `env:"RUN_ADDRESS"`
	DatabaseDSN   string `env:"DATABASE_URI"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`
	// RedisAddr адрес redis для ключей идемпотентности. Пустой адрес отключает их.
	RedisAddr string `env:"REDIS_ADDR"`
	// KafkaBrokers брокеры для событий маркета. Без брокеров события не публикуются.
	KafkaBrokers   []string      `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic     string        `env:"KAFKA_TOPIC"`
	ServiceTimeout time.Duration `env:"SERVICE_TIMEOUT"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL"`
}

// LoadConfig собирает конфиг из переменных окружения и флагов. Переменные окружения приоритетнее.
// Если в рабочей директории есть .env, он загружается в окружение до разбора.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %s", err.Error())
	}

	var envConfig Config
	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	flagsConfig, flagsErr := parseFlags(flag.CommandLine, os.Args[1:])
	if flagsErr != nil {
		return nil, flagsErr
	}

	conf := mergeConfig(&envConfig, flagsConfig)
	if conf.DatabaseDSN == "" {
		return nil, errors.New("database DSN is not set")
	}
	return conf, nil
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

func parseFlags(fs *flag.FlagSet, args []string) (*Config, error) {
	var flagConfig Config
	var brokers string

	fs.StringVar(&flagConfig.RunAddress, "a", "localhost:8080", "Run address in format host:port")
	fs.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	fs.StringVar(&flagConfig.MigrationsDir, "m", "internal/db/migrations", "Database migrations directory")
	fs.StringVar(&flagConfig.RedisAddr, "r", "", "Redis address for idempotency keys, empty disables them")
	fs.StringVar(&brokers, "k", "", "Comma separated kafka brokers for market events")
	fs.StringVar(&flagConfig.KafkaTopic, "t", "market-events", "Kafka topic for market events")
	fs.DurationVar(&flagConfig.ServiceTimeout, "timeout", defaultServiceTimeout, "Timeout of a single service call")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %s", err.Error())
	}
	flagConfig.KafkaBrokers = splitList(brokers)
	flagConfig.IdempotencyTTL = defaultIdempotencyTTL
	return &flagConfig, nil
}

func mergeConfig(envConfig, flagsConfig *Config) *Config {
	brokers := envConfig.KafkaBrokers
	if len(brokers) == 0 {
		brokers = flagsConfig.KafkaBrokers
	}
	return &Config{
		RunAddress:     defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress),
		DatabaseDSN:    defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN),
		MigrationsDir:  defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir),
		RedisAddr:      defaultIfBlank(envConfig.RedisAddr, flagsConfig.RedisAddr),
		KafkaBrokers:   brokers,
		KafkaTopic:     defaultIfBlank(envConfig.KafkaTopic, flagsConfig.KafkaTopic),
		ServiceTimeout: defaultIfZero(envConfig.ServiceTimeout, flagsConfig.ServiceTimeout),
		IdempotencyTTL: defaultIfZero(envConfig.IdempotencyTTL, flagsConfig.IdempotencyTTL),
	}
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

func defaultIfZero(value, defaultValue time.Duration) time.Duration {
	if value <= 0 {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
