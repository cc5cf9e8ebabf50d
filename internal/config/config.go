package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type CountryConfig struct {
	Env        string `yaml:"env" env:"COUNTRY_ENV" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	GRPCServer `yaml:"grpc_server"`
	CountryDB  `yaml:"country_db"`
	LogConfig  `yaml:"log_config"`
	Sources    `yaml:"sources"`
	Refresh    `yaml:"refresh"`
	Summary    `yaml:"summary"`
	Redis      `yaml:"redis"`
	Kafka      `yaml:"kafka"`
}

type HTTPServer struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// Empty allows every origin.
	AllowedOrigins  []string      `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" env-separator:","`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"9090"`
}

type CountryDB struct {
	Dsn            string `yaml:"dsn" env:"COUNTRY_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env:"COUNTRY_DB_MIGRATIONS_PATH"`
	AutoMigrate    bool   `yaml:"auto_migrate" env:"COUNTRY_DB_AUTO_MIGRATE" env-default:"false"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
}

type Sources struct {
	CountriesURL string        `yaml:"countries_url" env:"COUNTRY_DATA_API" env-default:"https://restcountries.com/v2/all?fields=name,capital,region,population,flag,currencies"`
	RatesURL     string        `yaml:"rates_url" env:"EXCHANGE_RATE_API" env-default:"https://open.er-api.com/v6/latest/USD"`
	Timeout      time.Duration `yaml:"timeout" env:"SOURCES_TIMEOUT" env-default:"10s"`
}

type Refresh struct {
	// Zero disables the periodic refresh.
	Interval      time.Duration `yaml:"interval" env:"REFRESH_INTERVAL" env-default:"0s"`
	GDPMultiplier `yaml:"gdp_multiplier"`
}

type GDPMultiplier struct {
	Mode  string  `yaml:"mode" env:"GDP_MULTIPLIER_MODE" env-default:"fixed"`
	Value float64 `yaml:"value" env:"GDP_MULTIPLIER_VALUE" env-default:"1500"`
	Min   int     `yaml:"min" env:"GDP_MULTIPLIER_MIN" env-default:"1000"`
	Max   int     `yaml:"max" env:"GDP_MULTIPLIER_MAX" env-default:"2000"`
}

type Summary struct {
	Backend  string  `yaml:"backend" env:"SUMMARY_BACKEND" env-default:"disk"`
	Path     string  `yaml:"path" env:"SUMMARY_PATH" env-default:"media/cache/summary.png"`
	FontPath string  `yaml:"font_path" env:"SUMMARY_FONT_PATH"`
	FontSize float64 `yaml:"font_size" env:"SUMMARY_FONT_SIZE" env-default:"20"`
	RedisKey string  `yaml:"redis_key" env:"SUMMARY_REDIS_KEY" env-default:"countries:summary:latest"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Kafka struct {
	Enabled      bool     `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Brokers      []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	Topic        string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"country-events"`
	// Messages on this topic trigger a refresh. Empty disables the consumer.
	RequestTopic string   `yaml:"request_topic" env:"KAFKA_REQUEST_TOPIC"`
	GroupID      string   `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"country-service"`
}

// Load reads the YAML file at configPath, or only the environment when the
// path is empty.
func Load(configPath string) (*CountryConfig, error) {
	var cfg CountryConfig

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read env config: %w", err)
		}
	} else {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("failed to find config file: %w", err)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *CountryConfig {
	// Processing env config variable and file
	cfg, err := Load(os.Getenv("COUNTRY_CONFIG_PATH"))
	if err != nil {
		log.Fatalf("failed to load config: %v\n", err)
	}

	return cfg
}

func (c *CountryConfig) validate() error {
	if c.CountryDB.Dsn == "" {
		return fmt.Errorf("country_db.dsn is required")
	}
	switch c.Refresh.GDPMultiplier.Mode {
	case "fixed", "random":
	default:
		return fmt.Errorf("unknown gdp multiplier mode %q", c.Refresh.GDPMultiplier.Mode)
	}
	if c.Refresh.GDPMultiplier.Mode == "random" && c.Refresh.GDPMultiplier.Min > c.Refresh.GDPMultiplier.Max {
		return fmt.Errorf("gdp multiplier min %d is greater than max %d", c.Refresh.GDPMultiplier.Min, c.Refresh.GDPMultiplier.Max)
	}
	switch c.Summary.Backend {
	case "disk", "redis", "memory":
	default:
		return fmt.Errorf("unknown summary backend %q", c.Summary.Backend)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}
	return nil
}
