package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the workflow API service.
type Config struct {
	AppName               string
	AppEnv                string
	AppPort               string
	DatabaseURL           string
	RedisURL              string
	JWTSecret             string
	LedgerRPCURL          string
	LedgerContractAddress string
	LedgerRequestTimeout  time.Duration
	PinningEndpoint       string
	PinningAPIKey         string
	PinningAPISecret      string
	ContentGatewayBaseURL string
	SessionTTL            time.Duration
	NATSURL               string
	NATSSubjectPrefix     string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SKILLIFIED")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Skillified API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("ledger.request_timeout", "30s")
	v.SetDefault("pinning.endpoint", "https://api.pinata.cloud")
	v.SetDefault("content.gateway_base_url", "https://ipfs.io/ipfs")
	v.SetDefault("session.ttl", "12h")
	v.SetDefault("nats.subject_prefix", "skillified")

	sessionTTL, err := time.ParseDuration(v.GetString("session.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid session ttl: %w", err)
	}

	ledgerTimeout, err := time.ParseDuration(v.GetString("ledger.request_timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ledger request timeout: %w", err)
	}

	cfg := Config{
		AppName:               v.GetString("app.name"),
		AppEnv:                v.GetString("app.env"),
		AppPort:               v.GetString("app.port"),
		DatabaseURL:           v.GetString("database.url"),
		RedisURL:              v.GetString("redis.url"),
		JWTSecret:             v.GetString("jwt.secret"),
		LedgerRPCURL:          v.GetString("ledger.rpc_url"),
		LedgerContractAddress: v.GetString("ledger.contract_address"),
		LedgerRequestTimeout:  ledgerTimeout,
		PinningEndpoint:       v.GetString("pinning.endpoint"),
		PinningAPIKey:         v.GetString("pinning.api_key"),
		PinningAPISecret:      v.GetString("pinning.api_secret"),
		ContentGatewayBaseURL: v.GetString("content.gateway_base_url"),
		SessionTTL:            sessionTTL,
		NATSURL:               v.GetString("nats.url"),
		NATSSubjectPrefix:     v.GetString("nats.subject_prefix"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.LedgerRPCURL == "" || cfg.LedgerContractAddress == "" {
		return Config{}, fmt.Errorf("ledger rpc url and contract address must be provided")
	}

	return cfg, nil
}
