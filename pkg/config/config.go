// Package config loads application configuration from YAML files with
// environment-variable overrides. It provides typed structs for the lexicon,
// the rule pipeline and every optional surface (HTTP server, Redis cache,
// Kafka worker, PostgreSQL lexicon store, metrics).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Lexicon  LexiconConfig  `yaml:"lexicon"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Server   ServerConfig   `yaml:"server"`
	Postgres PostgresConfig `yaml:"postgres"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Redis    RedisConfig    `yaml:"redis"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// LexiconConfig says where the verb-prefix lexicon comes from. Source is
// "file" or "postgres".
type LexiconConfig struct {
	Source          string `yaml:"source"`
	PrefixFile      string `yaml:"prefixFile"`
	PrefixVerbsFile string `yaml:"prefixVerbsFile"`
}

// PipelineConfig controls the rule pipeline and corpus processing.
type PipelineConfig struct {
	Mode             string `yaml:"mode"`
	MultiplePrefixes bool   `yaml:"multiplePrefixes"`
	Workers          int    `yaml:"workers"`
	BatchSize        int    `yaml:"batchSize"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	RequestTimeout  time.Duration `yaml:"requestTimeout"`
	MaxSentences    int           `yaml:"maxSentences"`
	MaxTokens       int           `yaml:"maxTokens"`
	AllowedOrigins  []string      `yaml:"allowedOrigins"`
	// RateLimit is the sustained requests per second allowed per client; 0
	// disables limiting.
	RateLimit float64 `yaml:"rateLimit"`
	RateBurst int     `yaml:"rateBurst"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// KafkaConfig holds Kafka broker and topic settings.
type KafkaConfig struct {
	Brokers       []string    `yaml:"brokers"`
	ConsumerGroup string      `yaml:"consumerGroup"`
	Topics        KafkaTopics `yaml:"topics"`
}

// KafkaTopics maps logical topic names to their Kafka topic strings.
type KafkaTopics struct {
	Sentences string `yaml:"sentences"`
	Processed string `yaml:"processed"`
}

// RedisConfig holds Redis connection and caching parameters.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	PoolSize int           `yaml:"poolSize"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. Variables from a .env file in the working directory are loaded
// first but never replace ones already set. It returns a Config populated
// with defaults for any missing values.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Lexicon.Source {
	case "file", "postgres":
	default:
		return fmt.Errorf("lexicon.source must be \"file\" or \"postgres\", got %q", c.Lexicon.Source)
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("pipeline.workers must be positive, got %d", c.Pipeline.Workers)
	}
	if c.Pipeline.BatchSize < 1 {
		return fmt.Errorf("pipeline.batchSize must be positive, got %d", c.Pipeline.BatchSize)
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Lexicon: LexiconConfig{
			Source:     "file",
			PrefixFile: "data/tdz-separable-prefixes.txt",
		},
		Pipeline: PipelineConfig{
			Mode:             "lemmatize",
			MultiplePrefixes: true,
			Workers:          4,
			BatchSize:        256,
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			RequestTimeout:  20 * time.Second,
			MaxSentences:    1000,
			MaxTokens:       500,
			AllowedOrigins:  []string{"*"},
			RateLimit:       50,
			RateBurst:       100,
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "tdzlemma",
			User:            "tdzlemma",
			Password:        "localdev",
			SSLMode:         "disable",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers:       []string{"localhost:9092"},
			ConsumerGroup: "tdzlemma-worker",
			Topics: KafkaTopics{
				Sentences: "tdz-sentences",
				Processed: "tdz-sentences-processed",
			},
		},
		Redis: RedisConfig{
			Enabled:  false,
			Addr:     "localhost:6379",
			PoolSize: 10,
			CacheTTL: 10 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
		},
	}
}

// applyEnvOverrides reads TDZ_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TDZ_LEXICON_SOURCE"); v != "" {
		cfg.Lexicon.Source = v
	}
	if v := os.Getenv("TDZ_LEXICON_PREFIX_FILE"); v != "" {
		cfg.Lexicon.PrefixFile = v
	}
	if v := os.Getenv("TDZ_LEXICON_PREFIX_VERBS_FILE"); v != "" {
		cfg.Lexicon.PrefixVerbsFile = v
	}
	if v := os.Getenv("TDZ_PIPELINE_MODE"); v != "" {
		cfg.Pipeline.Mode = v
	}
	if v := os.Getenv("TDZ_PIPELINE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pipeline.Workers = n
		}
	}
	if v := os.Getenv("TDZ_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("TDZ_SERVER_RATE_LIMIT"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Server.RateLimit = n
		}
	}
	if v := os.Getenv("TDZ_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("TDZ_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if v := os.Getenv("TDZ_POSTGRES_DATABASE"); v != "" {
		cfg.Postgres.Database = v
	}
	if v := os.Getenv("TDZ_POSTGRES_USER"); v != "" {
		cfg.Postgres.User = v
	}
	if v := os.Getenv("TDZ_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("TDZ_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("TDZ_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
		cfg.Redis.Enabled = true
	}
	if v := os.Getenv("TDZ_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("TDZ_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TDZ_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("TDZ_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
			cfg.Metrics.Enabled = true
		}
	}
}
