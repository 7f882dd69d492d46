// Package config loads the server settings once at startup. Values come from
// an optional .env file, then the process environment, then command-line
// flags. Nothing else in the module reads the environment.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinHashCost = 10
	MaxHashCost = bcrypt.MaxCost
)

// Config holds runtime settings for the task API.
type Config struct {
	HTTPAddr        string
	DatabaseURL     string
	JWTSecret       string
	TokenTTL        time.Duration
	HashCost        int
	LogLevel        string
	LogJSON         bool
	AllowedOrigins  []string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	AutoMigrate     bool
	ShutdownTimeout time.Duration
}

// LoadDefaults populates Config with development defaults. The JWT secret
// and database URL have no default and must be provided.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = "0.0.0.0:8080"
	c.TokenTTL = 30 * time.Second
	c.HashCost = 12
	c.LogLevel = "info"
	c.LogJSON = true
	c.AllowedOrigins = []string{"*"}
	c.DBMaxOpenConns = 25
	c.DBMaxIdleConns = 5
	c.ShutdownTimeout = 30 * time.Second
}

// Load builds a Config from defaults, the environment and the given
// command-line arguments (usually os.Args[1:]).
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{}
	cfg.LoadDefaults()

	if err := cfg.loadEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.parseFlags(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("HTTP_ADDR"); ok && v != "" {
		c.HTTPAddr = v
	}

	if v, ok := lookup("DATABASE_URL"); ok && v != "" {
		c.DatabaseURL = v
	} else if host, ok := lookup("POSTGRES_HOST"); ok && host != "" {
		user, _ := lookup("POSTGRES_USER")
		pass, _ := lookup("POSTGRES_PASSWORD")
		port, _ := lookup("POSTGRES_PORT")
		name, _ := lookup("POSTGRES_DB")
		if port == "" {
			port = "5432"
		}
		c.DatabaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, pass, host, port, name)
	}

	if v, ok := lookup("JWT_SECRET"); ok {
		c.JWTSecret = v
	}

	if v, ok := lookup("TOKEN_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TOKEN_TTL %q: %w", v, err)
		}
		c.TokenTTL = d
	}

	if v, ok := lookup("HASHCOST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid HASHCOST %q: %w", v, err)
		}
		c.HashCost = n
	}

	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup("LOG_FORMAT"); ok && v != "" {
		c.LogJSON = v != "text"
	}

	if v, ok := lookup("CORS_ALLOWED_ORIGINS"); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.AllowedOrigins = origins
	}

	if v, ok := lookup("DB_MAX_OPEN_CONNS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DB_MAX_OPEN_CONNS %q: %w", v, err)
		}
		c.DBMaxOpenConns = n
	}
	if v, ok := lookup("DB_MAX_IDLE_CONNS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DB_MAX_IDLE_CONNS %q: %w", v, err)
		}
		c.DBMaxIdleConns = n
	}

	if v, ok := lookup("AUTO_MIGRATE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid AUTO_MIGRATE %q: %w", v, err)
		}
		c.AutoMigrate = b
	}

	return nil
}

func (c *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&c.HTTPAddr, "addr", c.HTTPAddr, "HTTP listen address")
	fs.StringVar(&c.DatabaseURL, "db-url", c.DatabaseURL, "Database connection URL")
	fs.StringVar(&c.JWTSecret, "jwt-secret", c.JWTSecret, "HMAC secret used to sign session tokens")
	fs.DurationVar(&c.TokenTTL, "token-ttl", c.TokenTTL, "Session token lifetime")
	fs.IntVar(&c.HashCost, "hash-cost", c.HashCost, "bcrypt cost factor")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")
	fs.BoolVar(&c.AutoMigrate, "migrate", c.AutoMigrate, "Apply database migrations on startup")

	return fs.Parse(args)
}

// Validate rejects settings the server cannot run safely with.
func (c *Config) Validate() error {
	var errs []error

	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("database URL is required (DATABASE_URL or POSTGRES_*)"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("token TTL must be positive, got %s", c.TokenTTL))
	}
	if c.HashCost < MinHashCost || c.HashCost > MaxHashCost {
		errs = append(errs, fmt.Errorf("hash cost must be between %d and %d, got %d", MinHashCost, MaxHashCost, c.HashCost))
	}

	return errors.Join(errs...)
}

// LoadDatabaseURL resolves only the database URL, for tools that never sign
// tokens.
func LoadDatabaseURL() (string, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{}
	if err := cfg.loadEnv(os.LookupEnv); err != nil {
		return "", err
	}
	if cfg.DatabaseURL == "" {
		return "", errors.New("database URL is required (DATABASE_URL or POSTGRES_*)")
	}
	return cfg.DatabaseURL, nil
}
