package config

import (
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverFile     = "file"

	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

type HTTPServer struct {
	Addr         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":3000"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
}

type Storage struct {
	Driver   string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
	FilePath string `yaml:"file_path" env:"STORAGE_FILE_PATH" env-default:"database.json"`
}

type Database struct {
	Host            string        `yaml:"PG_HOST" env:"PG_HOST" env-default:"localhost"`
	Port            string        `yaml:"PG_PORT" env:"PG_PORT" env-default:"5432"`
	User            string        `yaml:"PG_USER" env:"PG_USER" env-default:"postgres"`
	Password        string        `yaml:"PG_PASSWORD" env:"PG_PASSWORD"`
	Name            string        `yaml:"PG_DBNAME" env:"PG_DBNAME" env-default:"tech_ecolab"`
	SSLMode         string        `yaml:"PG_SSLMODE" env:"PG_SSLMODE" env-default:"disable"`
	MaxOpenConns    int           `yaml:"MAX_OPEN_CONNS" env:"MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `yaml:"MAX_IDLE_CONNS" env:"MAX_IDLE_CONNS" env-default:"25"`
	ConnMaxLifetime time.Duration `yaml:"CONN_MAX_LIFETIME" env:"CONN_MAX_LIFETIME" env-default:"5m"`
	ConnMaxIdleTime time.Duration `yaml:"CONN_MAX_IDLE_TIME" env:"CONN_MAX_IDLE_TIME" env-default:"5m"`
}

type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"REDIS_PORT" env:"REDIS_PORT" env-default:"6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER" env-default:"default"`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

type Session struct {
	Secret       string        `yaml:"secret" env:"SESSION_SECRET" env-default:"dev_secret_change_me"`
	TTL          time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"4h"`
	Backend      string        `yaml:"backend" env:"SESSION_BACKEND" env-default:"redis"`
	CookieSecure bool          `yaml:"cookie_secure" env:"SESSION_COOKIE_SECURE" env-default:"false"`
}

type RateConfig struct {
	MaxAttempts int64         `yaml:"MAX_ATTEMPTS" env:"MAX_ATTEMPTS" env-default:"5"`
	WindowSize  time.Duration `yaml:"WINDOW_SIZE" env:"WINDOW_SIZE" env-default:"15s"`
}

type CacheConfig struct {
	DefaultTTL time.Duration `yaml:"default_ttl" env:"CACHE_DEFAULT_TTL" env-default:"5m"`
	ProductTTL time.Duration `yaml:"product_ttl" env:"CACHE_PRODUCT_TTL" env-default:"30s"`
}

type Checkout struct {
	Timeout           time.Duration `yaml:"timeout" env:"CHECKOUT_TIMEOUT" env-default:"10s"`
	LowStockThreshold int64         `yaml:"low_stock_threshold" env:"LOW_STOCK_THRESHOLD" env-default:"3"`
}

type Admin struct {
	Username string `yaml:"username" env:"ADMIN_USERNAME"`
	Password string `yaml:"password" env:"ADMIN_PASSWORD"`
}

type SendGrid struct {
	APIKey    string `yaml:"API_KEY" env:"SENDGRID_API_KEY"`
	FromEmail string `yaml:"FROM_EMAIL" env:"SENDGRID_FROM_EMAIL"`
	FromName  string `yaml:"FROM_NAME" env:"SENDGRID_FROM_NAME" env-default:"Tech EcoLab"`
	AlertTo   string `yaml:"ALERT_TO" env:"SENDGRID_ALERT_TO"`
}

type Otel struct {
	Enabled          bool    `yaml:"ENABLED" env:"OTEL_ENABLED" env-default:"false"`
	ServiceName      string  `yaml:"SERVICE_NAME" env:"OTEL_SERVICE_NAME" env-default:"tech-ecolab"`
	ExporterEndpoint string  `yaml:"EXPORTER_ENDPOINT" env:"OTEL_EXPORTER_ENDPOINT" env-default:"http://localhost:4318/v1/traces"`
	SamplerRatio     float64 `yaml:"SAMPLER_RATIO" env:"OTEL_SAMPLER_RATIO" env-default:"1.0"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:3000"`
}

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-default:"local"`
	LogLevel     string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	HTTPServer   `yaml:"http_server"`
	Storage      Storage      `yaml:"storage"`
	Database     Database     `yaml:"database"`
	RedisConnect RedisConnect `yaml:"redis"`
	Session      Session      `yaml:"session"`
	RateConfig   RateConfig   `yaml:"rateConfig"`
	Cache        CacheConfig  `yaml:"cache"`
	Checkout     Checkout     `yaml:"checkout"`
	Admin        Admin        `yaml:"admin"`
	SendGrid     SendGrid     `yaml:"sendgrid"`
	Otel         Otel         `yaml:"otel"`
	CORS         CORS         `yaml:"cors"`
}

func MustLoad() *Config {

	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("can not read .env file: %s", err.Error())
	}

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {

		flags := flag.String("config", "", "path to the yaml config file")

		flag.Parse()

		configPath = *flags

	}

	if configPath == "" {
		configPath = "config/local.yaml"
	}

	cfg, err := LoadConfigFromPath(configPath)
	if err != nil {
		log.Fatalf("can not load config: %s", err.Error())
	}

	return cfg
}

func LoadConfigFromPath(configPath string) (*Config, error) {

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("can not read config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {

	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverFile:
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}

	switch c.Session.Backend {
	case SessionBackendRedis, SessionBackendMemory:
	default:
		return fmt.Errorf("unsupported session backend %q", c.Session.Backend)
	}

	if c.Session.Secret == "" {
		return fmt.Errorf("session secret must not be empty")
	}

	if c.Checkout.Timeout <= 0 {
		return fmt.Errorf("checkout timeout must be positive")
	}

	return nil
}

// UsesRedis reports whether any component is configured against Redis.
func (c *Config) UsesRedis() bool {
	return c.Session.Backend == SessionBackendRedis
}

func (d *Database) GetDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}

	return u.String()
}

func (r *RedisConnect) GetDSN() string {
	u := url.URL{
		Scheme: "redis",
		User:   url.UserPassword(r.Username, r.Password),
		Host:   r.Host + ":" + r.Port,
		Path:   fmt.Sprintf("%d", r.DB),
	}

	return u.String()
}
