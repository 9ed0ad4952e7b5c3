package config // package config loads application configuration from environment variables

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable; every one has a default, so
// the server runs with an empty environment.
type Config struct {
	Env           string // application environment (e.g. "dev", "prod")
	Port          string // HTTP port to listen on
	DBPath        string // path of the SQLite student registry (":memory:" allowed)
	AdminPassword string // shared admin secret; hashed once at startup, never compared in plaintext
	JWTSecret     string // secret used to sign admin tokens
	AccessTTLMin  int    // admin token time-to-live in minutes
	BcryptCost    int    // bcrypt cost for hashing the admin password
}

// Load reads configuration from the environment.  When JWT_SECRET is
// unset a random per-process secret is generated, which invalidates
// admin tokens on restart; admins simply log in again.
func Load() Config {
	return Config{
		Env:           getenv("APP_ENV", "dev"),
		Port:          getenv("PORT", "3000"),
		DBPath:        getenv("DB_PATH", "data/students.db"),
		AdminPassword: getenv("ADMIN_PASSWORD", "admin123"),
		JWTSecret:     secretOrRandom("JWT_SECRET"),
		AccessTTLMin:  envInt("ACCESS_TOKEN_TTL_MIN", 120),
		BcryptCost:    envInt("BCRYPT_COST", 10),
	}
}

func secretOrRandom(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("generate %s fallback: %v", key, err)
	}
	return hex.EncodeToString(buf)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}
