// SPDX-License-Identifier: MIT

// Package config resolves service settings from flags, the environment and
// an optional .env file, in that order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/katalvlaran/wayfind/repository"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Heuristic names accepted by -heuristic.
const (
	HeuristicEuclidean = "euclidean"
	HeuristicNone      = "none"
)

// Config holds every setting of the wayfind binary.
type Config struct {
	Addr        string
	Domain      string
	DBType      string
	DBPath      string
	DBDSN       string
	Heuristic   string
	EagerInit   bool
	CORSOrigins []string
	InitTimeout time.Duration

	// Layout is the seed layout for the seed subcommand.
	Layout string
}

// Load reads .env (if present), then parses args over environment-derived
// defaults. args excludes the program name and subcommand.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	return parse(args, io.Discard)
}

func parse(args []string, out io.Writer) (*Config, error) {
	cfg := &Config{}
	var origins string

	fs := flag.NewFlagSet("wayfind", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&cfg.Addr, "addr", getEnv("WAYFIND_ADDR", ":5000"), "listen address (ignored when -domain is set)")
	fs.StringVar(&cfg.Domain, "domain", getEnv("WAYFIND_DOMAIN", ""), "serve HTTPS on :443 with Let's Encrypt certificates for this domain")
	fs.StringVar(&cfg.DBType, "db-type", getEnv("WAYFIND_DB_TYPE", "sqlite"), "database: "+strings.Join(repository.Types, ", "))
	fs.StringVar(&cfg.DBPath, "db-path", getEnv("WAYFIND_DB_PATH", ""), "database file for sqlite, genji and duckdb (default wayfind.<db-type>)")
	fs.StringVar(&cfg.DBDSN, "db-dsn", getEnv("WAYFIND_DB_DSN", ""), "PostgreSQL connection string for pgx")
	fs.StringVar(&cfg.Heuristic, "heuristic", getEnv("WAYFIND_HEURISTIC", HeuristicEuclidean), "single-target heuristic: euclidean or none")
	fs.BoolVar(&cfg.EagerInit, "eager-init", getEnvBool("WAYFIND_EAGER_INIT", false), "load the graph at startup instead of on the first request")
	fs.StringVar(&origins, "cors-origins", getEnv("WAYFIND_CORS_ORIGINS", "*"), "comma-separated allowed CORS origins, * for any")
	fs.DurationVar(&cfg.InitTimeout, "init-timeout", getEnvDuration("WAYFIND_INIT_TIMEOUT", 10*time.Second), "graph load timeout")
	fs.StringVar(&cfg.Layout, "layout", "demo", "seed layout: demo or grid:RxC")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	cfg.CORSOrigins = splitList(origins)
	cfg.DBType = strings.ToLower(strings.TrimSpace(cfg.DBType))
	cfg.Heuristic = strings.ToLower(strings.TrimSpace(cfg.Heuristic))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks field combinations.
func (c *Config) Validate() error {
	known := false
	for _, t := range repository.Types {
		if c.DBType == t {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("%w: db-type %q", ErrInvalid, c.DBType)
	}
	if c.DBType == "pgx" && c.DBDSN == "" {
		return fmt.Errorf("%w: db-dsn is required for pgx", ErrInvalid)
	}
	if c.Heuristic != HeuristicEuclidean && c.Heuristic != HeuristicNone {
		return fmt.Errorf("%w: heuristic %q", ErrInvalid, c.Heuristic)
	}
	if c.InitTimeout <= 0 {
		return fmt.Errorf("%w: init-timeout must be positive", ErrInvalid)
	}
	if c.Domain == "" && c.Addr == "" {
		return fmt.Errorf("%w: addr is empty", ErrInvalid)
	}

	return nil
}

// DSN returns what repository.Open expects for the configured backend.
func (c *Config) DSN() string {
	switch c.DBType {
	case "pgx":
		return c.DBDSN
	case "memory":
		return ""
	}
	if c.DBPath != "" {
		return c.DBPath
	}

	return "wayfind." + c.DBType
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}

	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}

	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
