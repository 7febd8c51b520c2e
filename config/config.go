package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "KINDMARKET"

// Config holds all application configuration.
type Config struct {
	InputDir         string `mapstructure:"input_dir"`
	CatchAllCategory string `mapstructure:"catch_all_category"`
	OutputDir        string `mapstructure:"output_dir"`
	CSVOutputPath    string `mapstructure:"csv_output_path"`
	MetricsFile      string `mapstructure:"metrics_file"`
	MaxConcurrency   int    `mapstructure:"max_concurrency"`
	MaxRetries       int    `mapstructure:"max_retries"`
	LogLevel         string `mapstructure:"log_level"`

	Analysis AnalysisConfig `mapstructure:"analysis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
}

// AnalysisConfig carries the tunables of the normalizer and the insight report.
type AnalysisConfig struct {
	// OperatorName is the exact sold-by value that marks an authorized listing.
	OperatorName string `mapstructure:"operator_name"`
	// ExcludedSellers are the operator and brand aliases left out of the
	// third-party seller counts. Matching is case-insensitive.
	ExcludedSellers []string `mapstructure:"excluded_sellers"`
	Currency        string   `mapstructure:"currency"`
	TopN            int      `mapstructure:"top_n"`

	PriceFairMax         float64 `mapstructure:"price_fair_max"`
	PriceSlightlyHighMax float64 `mapstructure:"price_slightly_high_max"`
	PriceHighMax         float64 `mapstructure:"price_high_max"`

	RatingExcellentMin float64 `mapstructure:"rating_excellent_min"`
	RatingGoodMin      float64 `mapstructure:"rating_good_min"`
	RatingMixedMin     float64 `mapstructure:"rating_mixed_min"`
}

type PostgresConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type MinIOConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// NewViper builds the viper instance every loader shares: KINDMARKET_ env
// prefix, nested keys mapped with "_" (analysis.top_n -> KINDMARKET_ANALYSIS_TOP_N)
// and all defaults registered so env overrides resolve during Unmarshal.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input_dir", "./all_products_3")
	v.SetDefault("catch_all_category", "All_Snacks")
	v.SetDefault("output_dir", "./output")
	v.SetDefault("csv_output_path", "./output/seller_offers.csv")
	v.SetDefault("metrics_file", "")
	v.SetDefault("max_concurrency", 4)
	v.SetDefault("max_retries", 3)
	v.SetDefault("log_level", "info")

	v.SetDefault("analysis.operator_name", "Amazon.com")
	v.SetDefault("analysis.excluded_sellers", []string{"Amazon.com", "Kind", "Kind Snacks"})
	v.SetDefault("analysis.currency", "USD")
	v.SetDefault("analysis.top_n", 10)
	v.SetDefault("analysis.price_fair_max", 0.0)
	v.SetDefault("analysis.price_slightly_high_max", 20.0)
	v.SetDefault("analysis.price_high_max", 50.0)
	v.SetDefault("analysis.rating_excellent_min", 90.0)
	v.SetDefault("analysis.rating_good_min", 75.0)
	v.SetDefault("analysis.rating_mixed_min", 50.0)

	v.SetDefault("postgres.enabled", false)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "scraper")
	v.SetDefault("postgres.password", "scraper123")
	v.SetDefault("postgres.db", "marketplace_db")
	v.SetDefault("postgres.sslmode", "disable")

	v.SetDefault("sqlite.path", "")

	v.SetDefault("minio.enabled", false)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.bucket", "marketplace-snapshots")
	v.SetDefault("minio.prefix", "snapshots")
	v.SetDefault("minio.use_ssl", false)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "marketplace.price-gouging")
}

// Load reads the .env file, then an optional YAML config file at path, then
// KINDMARKET_* environment overrides, and returns a validated Config.
func Load(path string) (*Config, error) {
	return LoadWith(NewViper(), path)
}

// LoadWith is Load on a caller-supplied viper instance, typically one with
// command-line flags already bound.
func LoadWith(v *viper.Viper, path string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper unmarshals and validates the state of an already-populated viper
// instance. The CLI uses it after binding its flags.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the classifier and report cannot honour.
func (c *Config) Validate() error {
	var errs []error

	a := c.Analysis
	if strings.TrimSpace(a.OperatorName) == "" {
		errs = append(errs, errors.New("analysis.operator_name must not be empty"))
	}
	if a.TopN < 1 {
		errs = append(errs, fmt.Errorf("analysis.top_n must be at least 1, got %d", a.TopN))
	}
	if !(a.PriceFairMax < a.PriceSlightlyHighMax && a.PriceSlightlyHighMax < a.PriceHighMax) {
		errs = append(errs, fmt.Errorf("price thresholds must increase: fair %.2f, slightly high %.2f, high %.2f",
			a.PriceFairMax, a.PriceSlightlyHighMax, a.PriceHighMax))
	}
	if !(a.RatingExcellentMin > a.RatingGoodMin && a.RatingGoodMin > a.RatingMixedMin) {
		errs = append(errs, fmt.Errorf("rating thresholds must decrease: excellent %.2f, good %.2f, mixed %.2f",
			a.RatingExcellentMin, a.RatingGoodMin, a.RatingMixedMin))
	}
	if c.MaxConcurrency < 1 {
		errs = append(errs, fmt.Errorf("max_concurrency must be at least 1, got %d", c.MaxConcurrency))
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		errs = append(errs, errors.New("kafka.brokers and kafka.topic are required when kafka is enabled"))
	}
	if c.MinIO.Enabled && c.MinIO.Bucket == "" {
		errs = append(errs, errors.New("minio.bucket is required when minio is enabled"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	p := c.Postgres
	return "host=" + p.Host +
		" port=" + p.Port +
		" user=" + p.User +
		" password=" + p.Password +
		" dbname=" + p.DB +
		" sslmode=" + p.SSLMode
}
