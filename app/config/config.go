package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreBadger = "badger"
	StoreMongo  = "mongo"
)

// Config holds the settings read from the process environment.
type Config struct {
	Port           string
	Store          string
	BadgerDir      string
	MongoURI       string
	MongoDatabase  string
	AllowedOrigins []string
	LogLevel       string
	LogFormat      string
	APIURL         string
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the .env file.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	v := viper.New()
	v.SetDefault("PORT", "5000")
	v.SetDefault("STORE", StoreBadger)
	v.SetDefault("BADGER_DIR", "data/badger")
	v.SetDefault("MONGODB_URI", "")
	v.SetDefault("MONGODB_DATABASE", "blog-db")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("BLOG_API_URL", "http://localhost:5000/api")
	v.AutomaticEnv()

	cfg := &Config{
		Port:           v.GetString("PORT"),
		Store:          strings.ToLower(v.GetString("STORE")),
		BadgerDir:      v.GetString("BADGER_DIR"),
		MongoURI:       v.GetString("MONGODB_URI"),
		MongoDatabase:  v.GetString("MONGODB_DATABASE"),
		AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
		APIURL:         strings.TrimRight(v.GetString("BLOG_API_URL"), "/"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}
	switch c.Store {
	case StoreBadger:
		if c.BadgerDir == "" {
			return errors.New("BADGER_DIR is required for the badger store")
		}
	case StoreMongo:
		if c.MongoURI == "" {
			return errors.New("MONGODB_URI is required for the mongo store")
		}
	default:
		return fmt.Errorf("unknown STORE %q (want %s or %s)", c.Store, StoreBadger, StoreMongo)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
