package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/aora/internal/flagx"
)

// parseFlags overlays cfg with the flags it knows about; anything else in
// args is left to other components.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("aora", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Endpoint, "e", cfg.Endpoint, "HTTP endpoint for file and avatar URLs")
	fs.StringVar(&cfg.RPCAddr, "a", cfg.RPCAddr, "address and port of the platform gRPC endpoint")
	fs.StringVar(&cfg.ProjectID, "p", cfg.ProjectID, "project id")
	policy := fs.String("policy", string(cfg.SessionPolicy), "session replacement policy: keep|replace")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.StateDBPath, "db", cfg.StateDBPath, "path of the local state database")

	if err := flagx.ParseKnown(fs, args); err != nil {
		return err
	}

	cfg.SessionPolicy = SessionPolicy(*policy)
	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	return nil
}
