package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server-side settings
	DatabaseDSN string `env:"DATABASE_URI"`
	AuthSecret  string `env:"AUTH_SECRET"`
	ServerAddr  string `env:"SERVER_ADDRESS"`
	PhotoDir    string `env:"PHOTO_DIR"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION"`
	PublicURL   string `env:"PUBLIC_URL"` // base URL used when building photo links

	// Gateway settings
	GatewayAddr   string `env:"GATEWAY_ADDRESS"`
	CacheDBPath   string `env:"CACHE_DB_PATH"`
	ShellUpstream string `env:"SHELL_UPSTREAM"` // static app-shell origin

	// Client-side settings
	APIBaseURL   string `env:"API_BASE_URL"` // remote story API, e.g. http://localhost:8081/v1
	ClientDBPath string `env:"CLIENT_DB_PATH"`
	TokenFile    string `env:"TOKEN_FILE"`
}

// NewConfig loads configuration from .env, then environment variables,
// then command-line flags. Flags win over env values.
func NewConfig(args []string) *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	fs := flag.NewFlagSet("storysync", flag.ContinueOnError)
	// Server flags
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN (postgres URI or sqlite file path)")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "secret used to sign JWT tokens")
	fs.StringVar(&cfg.ServerAddr, "server-addr", cfg.ServerAddr, "listen address for the story API server")
	fs.StringVar(&cfg.PhotoDir, "photo-dir", cfg.PhotoDir, "directory for uploaded photos (filesystem store)")
	fs.StringVar(&cfg.S3Bucket, "s3-bucket", cfg.S3Bucket, "S3 bucket for uploaded photos (enables S3 store)")
	fs.StringVar(&cfg.S3Region, "s3-region", cfg.S3Region, "AWS region for the S3 photo store")
	// Gateway flags
	fs.StringVar(&cfg.GatewayAddr, "gateway-addr", cfg.GatewayAddr, "listen address for the caching gateway")
	fs.StringVar(&cfg.CacheDBPath, "cache-db", cfg.CacheDBPath, "path to the gateway cache SQLite file")
	fs.StringVar(&cfg.ShellUpstream, "shell-upstream", cfg.ShellUpstream, "origin serving the static app shell")
	// Client flags
	fs.StringVar(&cfg.APIBaseURL, "api", cfg.APIBaseURL, "base URL of the story API")
	fs.StringVar(&cfg.ClientDBPath, "client-db", cfg.ClientDBPath, "path to the client SQLite DB")
	fs.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "path to the auth token file (client)")
	_ = fs.Parse(args)

	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.ServerAddr == "" {
		cfg.ServerAddr = "localhost:8081"
	}
	if cfg.GatewayAddr == "" {
		cfg.GatewayAddr = "localhost:8080"
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://" + cfg.ServerAddr + "/v1"
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if cfg.ShellUpstream == "" {
		cfg.ShellUpstream = "http://localhost:3000"
	}
	cfg.ShellUpstream = strings.TrimRight(cfg.ShellUpstream, "/")
	if cfg.PublicURL == "" {
		cfg.PublicURL = "http://" + cfg.ServerAddr
	}

	home, _ := os.UserHomeDir()
	if cfg.ClientDBPath == "" {
		cfg.ClientDBPath = filepath.Join(home, ".storysync", "client.sqlite")
	}
	if cfg.TokenFile == "" {
		cfg.TokenFile = filepath.Join(home, ".storysync", "auth_token")
	}
	if cfg.CacheDBPath == "" {
		cfg.CacheDBPath = filepath.Join(home, ".storysync", "cache.sqlite")
	}
	if cfg.PhotoDir == "" {
		cfg.PhotoDir = filepath.Join(home, ".storysync", "photos")
	}
}
