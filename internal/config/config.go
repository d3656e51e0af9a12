// Package config loads server configuration from flags with environment
// fallbacks.
package config

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/movievault/movievault/internal/crypto"
)

// Config collects everything cmd/server needs to wire the process.
type Config struct {
	Addr         string
	MongoURI     string
	DBName       string
	JWTSecret    string
	BcryptCost   int
	StoreTimeout time.Duration
	CORSOrigins  []string
}

// ErrMissingSecret is returned when no signing secret is supplied. There is
// intentionally no default: a baked-in secret is a non-starter.
var ErrMissingSecret = errors.New("missing jwt signing key (JWT_SECRET or -jwt-key)")

// Load parses args (without the program name) and falls back to environment
// variables for unset flags.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("movievault", flag.ContinueOnError)

	addr := fs.String("addr", envOr("ADDR", ":8080"), "listen address")
	mongoURI := fs.String("mongo-uri", envOr("MONGO_URI", "mongodb://localhost:27017"), "MongoDB connection URI")
	dbName := fs.String("db", envOr("MONGO_DB", "movievault"), "MongoDB database name")
	jwtKey := fs.String("jwt-key", os.Getenv("JWT_SECRET"), "HS256 signing key (required)")
	cost := fs.Int("bcrypt-cost", envIntOr("BCRYPT_COST", crypto.DefaultCost), "bcrypt work factor")
	storeTimeout := fs.Duration("store-timeout", envDurationOr("STORE_TIMEOUT", 5*time.Second), "per-operation store timeout")
	corsOrigins := fs.String("cors-origins", envOr("CORS_ORIGINS", ""), "comma-separated allowed CORS origins")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *jwtKey == "" {
		return nil, ErrMissingSecret
	}

	var origins []string
	for _, o := range strings.Split(*corsOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &Config{
		Addr:         *addr,
		MongoURI:     *mongoURI,
		DBName:       *dbName,
		JWTSecret:    *jwtKey,
		BcryptCost:   *cost,
		StoreTimeout: *storeTimeout,
		CORSOrigins:  origins,
	}, nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
