package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/aora/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-h string   HTTP bind address (e.g., ":8080")
//	-p string   accepted project id
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      session lifetime, hours
//	-u string   S3 root user
//	-w string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.GRPCAddr, "a", cfg.GRPCAddr, "address and port of the gRPC endpoint")
	fs.StringVar(&cfg.HTTPAddr, "h", cfg.HTTPAddr, "address and port of the HTTP endpoint")
	fs.StringVar(&cfg.ProjectID, "p", cfg.ProjectID, "accepted project id")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	sessionTTL := fs.Int("t", int(cfg.SessionTTL.Hours()), "session lifetime (in hours)")
	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 root user")
	fs.StringVar(&cfg.S3RootPassword, "w", cfg.S3RootPassword, "S3 root password")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")

	if err := flagx.ParseKnown(fs, args); err != nil {
		return err
	}

	cfg.SessionTTL = time.Duration(*sessionTTL) * time.Hour
	return nil
}
