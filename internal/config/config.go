package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"tourism-platform/pkg/database"
	"tourism-platform/pkg/logging"
)

// Account store backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Config holds all configuration for the tourism API.
// Values come from config.yaml (optional) with environment variable overrides.
// Secrets (database password, weather API keys) are read from the environment only.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Data     DataConfig     `yaml:"data"`
	Accounts AccountsConfig `yaml:"accounts"`
	Database DatabaseConfig `yaml:"database"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Weather  WeatherConfig  `yaml:"weather"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port            int           `yaml:"port" env:"PORT" env-default:"5000"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"30s"`
	CORSOrigins     []string      `yaml:"cors_origins" env:"CORS_ORIGINS" env-default:"*" env-separator:","`
}

// DataConfig points at the three reference tables.
type DataConfig struct {
	StatesFile string `yaml:"states_file" env:"STATES_FILE" env-default:"data/india_states.csv"`
	CitiesFile string `yaml:"cities_file" env:"CITIES_FILE" env-default:"data/india_cities.csv"`
	RiskFile   string `yaml:"risk_file" env:"RISK_FILE" env-default:"data/risk.csv"`
}

type AccountsConfig struct {
	Backend        string `yaml:"backend" env:"ACCOUNTS_BACKEND" env-default:"memory"`
	BcryptCost     int    `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
	AutoMigrate    bool   `yaml:"auto_migrate" env:"ACCOUNTS_AUTO_MIGRATE" env-default:"true"`
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port            int           `yaml:"port" env:"PGPORT" env-default:"5432"`
	User            string        `yaml:"user" env:"PGUSER" env-default:"tourism"`
	Password        string        `yaml:"-" env:"PGPASSWORD"`
	Database        string        `yaml:"database" env:"PGDATABASE" env-default:"tourism_db"`
	SSLMode         string        `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"PG_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"PG_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"PG_CONN_MAX_LIFETIME" env-default:"30m"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" env:"PG_CONN_MAX_IDLE_TIME" env-default:"5m"`
}

type MongoConfig struct {
	URI        string `yaml:"-" env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database   string `yaml:"database" env:"MONGO_DB_NAME" env-default:"tourism_db"`
	Collection string `yaml:"collection" env:"MONGO_USERS_COLLECTION" env-default:"users"`
}

// WeatherConfig configures the OpenWeatherMap client. APIKey falls back to
// FallbackAPIKey when WEATHER_API_KEY is unset.
type WeatherConfig struct {
	APIKey         string        `yaml:"-" env:"WEATHER_API_KEY"`
	FallbackAPIKey string        `yaml:"-" env:"OPENWEATHER_API_KEY"`
	BaseURL        string        `yaml:"base_url" env:"WEATHER_BASE_URL" env-default:"http://api.openweathermap.org/data/2.5/weather"`
	CountryCode    string        `yaml:"country_code" env:"WEATHER_COUNTRY_CODE" env-default:"IN"`
	Timeout        time.Duration `yaml:"timeout" env:"WEATHER_TIMEOUT" env-default:"10s"`
	Attempts       int           `yaml:"attempts" env:"WEATHER_ATTEMPTS" env-default:"2"`
	CacheTTL       time.Duration `yaml:"cache_ttl" env:"WEATHER_CACHE_TTL" env-default:"0s"`
	AliasesFile    string        `yaml:"aliases_file" env:"WEATHER_ALIASES_FILE"`
}

type LoggingConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// LoadConfig reads .env (if present), then CONFIG_FILE (default config.yaml,
// optional) with environment overrides.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	return LoadConfigFrom(path)
}

// LoadConfigFrom reads path when it exists, otherwise the environment alone.
func LoadConfigFrom(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if cfg.Weather.APIKey == "" {
		cfg.Weather.APIKey = cfg.Weather.FallbackAPIKey
	}
	cfg.Accounts.Backend = strings.ToLower(strings.TrimSpace(cfg.Accounts.Backend))

	return cfg, nil
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Data.StatesFile == "" || c.Data.CitiesFile == "" || c.Data.RiskFile == "" {
		return errors.New("states, cities and risk data files are required")
	}
	switch c.Accounts.Backend {
	case BackendMemory, BackendPostgres, BackendMongo:
	default:
		return fmt.Errorf("unknown accounts backend %q", c.Accounts.Backend)
	}
	if c.Accounts.BcryptCost < 4 || c.Accounts.BcryptCost > 31 {
		return fmt.Errorf("bcrypt cost %d out of range", c.Accounts.BcryptCost)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if c.Weather.Timeout <= 0 {
		return errors.New("weather timeout must be positive")
	}
	if c.Weather.Attempts < 1 {
		return errors.New("weather attempts must be at least 1")
	}
	if c.Weather.CacheTTL < 0 {
		return errors.New("weather cache ttl must not be negative")
	}
	return nil
}

// Postgres converts the section into a connection config.
func (d DatabaseConfig) Postgres() *database.Config {
	return &database.Config{
		Host:            d.Host,
		Port:            d.Port,
		User:            d.User,
		Password:        d.Password,
		Database:        d.Database,
		SSLMode:         d.SSLMode,
		MaxOpenConns:    d.MaxOpenConns,
		MaxIdleConns:    d.MaxIdleConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
		ConnMaxIdleTime: d.ConnMaxIdleTime,
	}
}
