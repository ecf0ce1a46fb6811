// Package config loads runtime configuration from environment
// variables.  Required variables abort startup with a fatal log so a
// misconfigured deployment fails loudly instead of half-working.
package config

import (
    "log"
    "os"
    "strconv"
)

// Config holds every runtime setting the server needs.  Strings for
// identifiers and secrets, ints where arithmetic happens on the value.
type Config struct {
    Env        string // deployment environment (dev/test/prod)
    Port       string // HTTP port to listen on
    DBUser     string // database username
    DBPass     string // database password (may be empty)
    DBHost     string // database host
    DBPort     string // database port
    DBName     string // database schema name
    JWTSecret  string // HMAC secret for admin tokens
    BcryptCost int    // bcrypt cost for password hashing
}

// Load reads the configuration from the environment.  Missing required
// variables terminate the process.
func Load() Config {
    return Config{
        Env:        must("APP_ENV"),
        Port:       must("APP_PORT"),
        DBUser:     must("DB_USER"),
        DBPass:     os.Getenv("DB_PASS"),
        DBHost:     must("DB_HOST"),
        DBPort:     must("DB_PORT"),
        DBName:     must("DB_NAME"),
        JWTSecret:  must("JWT_SECRET"),
        BcryptCost: mustInt("BCRYPT_COST"),
    }
}

// must returns the value of a required environment variable or exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is must() with an integer conversion.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
