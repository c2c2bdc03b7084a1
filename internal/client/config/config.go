package config

import (
	"fmt"
	"time"
)

// SessionPolicy decides what Login does with a session the process already
// holds.
type SessionPolicy string

const (
	// SessionKeep creates the new session and leaves the old one alone.
	SessionKeep SessionPolicy = "keep"
	// SessionReplace deletes the held session before creating the new one.
	SessionReplace SessionPolicy = "replace"
)

func (p SessionPolicy) Validate() error {
	switch p {
	case SessionKeep, SessionReplace:
		return nil
	default:
		return fmt.Errorf("unknown session policy %q", string(p))
	}
}

// Config holds runtime settings for the Aora client.
//
// Endpoint is the HTTP base used to derive file and avatar URLs, RPCAddr is
// the host:port of the platform gRPC endpoint. The identifiers select the
// project, database, collections and storage bucket the client works with.
type Config struct {
	Endpoint          string
	RPCAddr           string
	Platform          string
	ProjectID         string
	DatabaseID        string
	UserCollectionID  string
	VideoCollectionID string
	StorageID         string
	SessionPolicy     SessionPolicy
	RequestTimeout    time.Duration
	StateDBPath       string
}

// LoadDefaults populates c with the production project settings.
func (c *Config) LoadDefaults() {
	c.Endpoint = "https://cloud.appwrite.io/v1"
	c.RPCAddr = "127.0.0.1:50051"
	c.Platform = "com.jsm.aora-givoxxs"
	c.ProjectID = "667aed5d003cc27c61aa"
	c.DatabaseID = "667bba370032bb0902ae"
	c.UserCollectionID = "667bba5b0030921182cd"
	c.VideoCollectionID = "667bbac000379c5db76a"
	c.StorageID = "667bbccd0003a5a69a6e"
	c.SessionPolicy = SessionKeep
	c.RequestTimeout = 15 * time.Second
	c.StateDBPath = "aora.db"
}

// Validate checks the settings that cannot be defaulted away.
func (c *Config) Validate() error {
	if c.Endpoint == "" || c.RPCAddr == "" {
		return fmt.Errorf("endpoint and rpc address are required")
	}
	if c.ProjectID == "" {
		return fmt.Errorf("project id is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	return c.SessionPolicy.Validate()
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
