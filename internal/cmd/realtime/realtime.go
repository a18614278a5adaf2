// Package realtime parses realtime command flags and starts the delivery
// process.
package realtime

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/louisbranch/clubhouse/internal/platform/cmd"
	server "github.com/louisbranch/clubhouse/internal/services/realtime/app"
)

// Config holds realtime command configuration.
type Config struct {
	HTTPAddr    string `env:"CLUBHOUSE_REALTIME_HTTP_ADDR"    envDefault:":8090"`
	GRPCAddr    string `env:"CLUBHOUSE_REALTIME_GRPC_ADDR"    envDefault:":8091"`
	DBPath      string `env:"CLUBHOUSE_REALTIME_DB_PATH"      envDefault:"data/realtime.db"`
	TokenSecret string `env:"CLUBHOUSE_REALTIME_TOKEN_SECRET"`
	Locale      string `env:"CLUBHOUSE_REALTIME_LOCALE"       envDefault:"en-US"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP and websocket listen address")
	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "delivery API gRPC listen address; empty disables it")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "HS256 access token secret; empty trusts client ids")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "notification locale (en-US, pt-BR)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run serves the realtime process until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceRealtime, func(ctx context.Context) error {
		if err := server.Run(ctx, server.Config{
			HTTPAddr:    cfg.HTTPAddr,
			GRPCAddr:    cfg.GRPCAddr,
			DBPath:      cfg.DBPath,
			TokenSecret: cfg.TokenSecret,
			Locale:      cfg.Locale,
		}); err != nil {
			return fmt.Errorf("serve realtime: %w", err)
		}
		return nil
	})
}
