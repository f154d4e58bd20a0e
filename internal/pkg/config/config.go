package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// Environment
	Environment string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	Server   ServerConfig
	Cache    CacheConfig
	Database DatabaseConfig
	Queue    QueueConfig
	Storage  StorageConfig
	Cleaner  CleanerConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type CacheConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxConnections int
	MinConnections int
}

type QueueConfig struct {
	Concurrency int
	MaxRetries  int
	MaxTexts    int // Texts per batch job, 0 disables the limit
	Priorities  map[string]int
}

type StorageConfig struct {
	BasePath string
}

type CleanerConfig struct {
	DefaultPreset string
	PresetsFile   string
	MaxTextBytes  int
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")

	// Redis defaults
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("CACHE_TTL_SECONDS", 3600)
	v.SetDefault("CACHE_PREFIX", "textclean")

	// Database defaults
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "textclean")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNECTIONS", 25)
	v.SetDefault("DB_MIN_CONNECTIONS", 5)

	// Worker defaults
	v.SetDefault("WORKER_CONCURRENCY", 10)
	v.SetDefault("WORKER_MAX_RETRIES", 3)
	v.SetDefault("JOBS_MAX_TEXTS", 10000)

	v.SetDefault("STORAGE_PATH", "./data/jobs")

	v.SetDefault("CLEANER_DEFAULT_PRESET", "default")
	v.SetDefault("CLEANER_PRESETS_FILE", "")
	v.SetDefault("CLEANER_MAX_TEXT_BYTES", 1<<20)
}

// Load loads configuration from environment variables and .env file into the
// global viper instance, which CLI flags are bound to.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads configuration from v after loading any .env file.
func LoadFrom(v *viper.Viper) (*Config, error) {
	// Missing .env files are fine; the environment alone is enough.
	if err := godotenv.Load(".env"); err != nil {
		_ = godotenv.Load("../.env")
	}

	SetDefaults(v)
	v.AutomaticEnv()

	config := &Config{
		Environment: v.GetString("ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetString("SERVER_PORT"),
		},
		Cache: CacheConfig{
			Enabled:  v.GetBool("CACHE_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second,
			Prefix:   v.GetString("CACHE_PREFIX"),
		},
		Database: DatabaseConfig{
			Host:           v.GetString("DB_HOST"),
			Port:           v.GetString("DB_PORT"),
			User:           v.GetString("DB_USER"),
			Password:       v.GetString("DB_PASSWORD"),
			Name:           v.GetString("DB_NAME"),
			SSLMode:        v.GetString("DB_SSLMODE"),
			MaxConnections: v.GetInt("DB_MAX_CONNECTIONS"),
			MinConnections: v.GetInt("DB_MIN_CONNECTIONS"),
		},
		Queue: QueueConfig{
			Concurrency: v.GetInt("WORKER_CONCURRENCY"),
			MaxRetries:  v.GetInt("WORKER_MAX_RETRIES"),
			MaxTexts:    v.GetInt("JOBS_MAX_TEXTS"),
			Priorities: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
		Storage: StorageConfig{
			BasePath: v.GetString("STORAGE_PATH"),
		},
		Cleaner: CleanerConfig{
			DefaultPreset: v.GetString("CLEANER_DEFAULT_PRESET"),
			PresetsFile:   v.GetString("CLEANER_PRESETS_FILE"),
			MaxTextBytes:  v.GetInt("CLEANER_MAX_TEXT_BYTES"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Cleaner.MaxTextBytes <= 0 {
		return fmt.Errorf("CLEANER_MAX_TEXT_BYTES must be positive, got %d", c.Cleaner.MaxTextBytes)
	}
	if c.Queue.Concurrency <= 0 {
		return fmt.Errorf("WORKER_CONCURRENCY must be positive, got %d", c.Queue.Concurrency)
	}
	if c.Queue.MaxRetries < 0 {
		return fmt.Errorf("WORKER_MAX_RETRIES must not be negative, got %d", c.Queue.MaxRetries)
	}
	if c.Queue.MaxTexts < 0 {
		return fmt.Errorf("JOBS_MAX_TEXTS must not be negative, got %d", c.Queue.MaxTexts)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("CACHE_TTL_SECONDS must not be negative")
	}
	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("DB_MIN_CONNECTIONS (%d) exceeds DB_MAX_CONNECTIONS (%d)",
			c.Database.MinConnections, c.Database.MaxConnections)
	}
	return nil
}

// JobsEnabled reports whether database credentials are configured. Batch jobs
// need both the database and the queue.
func (c *Config) JobsEnabled() bool {
	return c.Database.User != "" && c.Database.Password != ""
}

// DSN constructs the PostgreSQL connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// Addr returns host:port.
func (c CacheConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// LogConfig logs the configuration (hiding sensitive data)
func (c *Config) LogConfig(logger *slog.Logger) {
	dbPassword := "[NOT SET]"
	if c.Database.Password != "" {
		dbPassword = "[CONFIGURED]"
	}
	redisPassword := "[NOT SET]"
	if c.Cache.Password != "" {
		redisPassword = "[CONFIGURED]"
	}

	logger.Info("configuration loaded",
		slog.String("environment", c.Environment),
		slog.String("server", fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)),
		slog.Bool("cache_enabled", c.Cache.Enabled),
		slog.String("redis", c.Cache.Addr()),
		slog.Int("redis_db", c.Cache.DB),
		slog.String("redis_password", redisPassword),
		slog.String("database", fmt.Sprintf("%s:%s/%s", c.Database.Host, c.Database.Port, c.Database.Name)),
		slog.String("db_password", dbPassword),
		slog.Bool("jobs_enabled", c.JobsEnabled()),
		slog.Int("worker_concurrency", c.Queue.Concurrency),
		slog.Int("jobs_max_texts", c.Queue.MaxTexts),
		slog.String("default_preset", c.Cleaner.DefaultPreset),
		slog.Int("max_text_bytes", c.Cleaner.MaxTextBytes),
	)
}
