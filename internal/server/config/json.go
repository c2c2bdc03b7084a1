package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/aora/internal/flagx"
	"github.com/dmitrijs2005/aora/internal/timex"
)

// jsonConfig is the on-disk shape. Durations accept "15m" or integer
// nanoseconds; absent keys keep their current value.
type jsonConfig struct {
	GRPCAddr           *string         `json:"grpc_addr"`
	HTTPAddr           *string         `json:"http_addr"`
	PathPrefix         *string         `json:"path_prefix"`
	ProjectID          *string         `json:"project_id"`
	DatabaseDSN        *string         `json:"database_dsn"`
	SecretKey          *string         `json:"secret_key"`
	SessionTTL         *timex.Duration `json:"session_ttl"`
	LoginRatePerMinute *float64        `json:"login_rate_per_minute"`
	LoginBurst         *int            `json:"login_burst"`
	S3RootUser         *string         `json:"s3_root_user"`
	S3RootPassword     *string         `json:"s3_root_password"`
	S3Bucket           *string         `json:"s3_bucket"`
	S3Region           *string         `json:"s3_region"`
	S3BaseEndpoint     *string         `json:"s3_base_endpoint"`
	UploadURLTTL       *timex.Duration `json:"upload_url_ttl"`
}

func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	set(&cfg.GRPCAddr, jc.GRPCAddr)
	set(&cfg.HTTPAddr, jc.HTTPAddr)
	set(&cfg.PathPrefix, jc.PathPrefix)
	set(&cfg.ProjectID, jc.ProjectID)
	set(&cfg.DatabaseDSN, jc.DatabaseDSN)
	set(&cfg.SecretKey, jc.SecretKey)
	set(&cfg.LoginRatePerMinute, jc.LoginRatePerMinute)
	set(&cfg.LoginBurst, jc.LoginBurst)
	set(&cfg.S3RootUser, jc.S3RootUser)
	set(&cfg.S3RootPassword, jc.S3RootPassword)
	set(&cfg.S3Bucket, jc.S3Bucket)
	set(&cfg.S3Region, jc.S3Region)
	set(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	if jc.SessionTTL != nil {
		cfg.SessionTTL = jc.SessionTTL.Duration
	}
	if jc.UploadURLTTL != nil {
		cfg.UploadURLTTL = jc.UploadURLTTL.Duration
	}
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
