package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/aora/internal/flagx"
	"github.com/dmitrijs2005/aora/internal/timex"
)

// jsonConfig is the on-disk shape. Pointer fields distinguish "absent" from
// "empty" so a partial file only overrides what it names.
type jsonConfig struct {
	Endpoint          *string         `json:"endpoint"`
	RPCAddr           *string         `json:"rpc_addr"`
	Platform          *string         `json:"platform"`
	ProjectID         *string         `json:"project_id"`
	DatabaseID        *string         `json:"database_id"`
	UserCollectionID  *string         `json:"user_collection_id"`
	VideoCollectionID *string         `json:"video_collection_id"`
	StorageID         *string         `json:"storage_id"`
	SessionPolicy     *string         `json:"session_policy"`
	RequestTimeout    *timex.Duration `json:"request_timeout"`
	StateDBPath       *string         `json:"state_db_path"`
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

	setString(&cfg.Endpoint, jc.Endpoint)
	setString(&cfg.RPCAddr, jc.RPCAddr)
	setString(&cfg.Platform, jc.Platform)
	setString(&cfg.ProjectID, jc.ProjectID)
	setString(&cfg.DatabaseID, jc.DatabaseID)
	setString(&cfg.UserCollectionID, jc.UserCollectionID)
	setString(&cfg.VideoCollectionID, jc.VideoCollectionID)
	setString(&cfg.StorageID, jc.StorageID)
	setString(&cfg.StateDBPath, jc.StateDBPath)
	if jc.SessionPolicy != nil {
		cfg.SessionPolicy = SessionPolicy(*jc.SessionPolicy)
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
