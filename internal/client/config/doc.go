// Package config loads runtime configuration for the Aora client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-e string        HTTP endpoint used for file and avatar URLs
//	-a string        host:port of the platform gRPC endpoint
//	-p string        project id
//	-policy string   session replacement policy: keep | replace
//	-t int           request timeout (seconds)
//	-db string       path of the local state database
//
// # JSON schema
//
//	{
//	  "endpoint": "http://127.0.0.1:8080/v1",
//	  "rpc_addr": "127.0.0.1:50051",
//	  "platform": "com.jsm.aora",
//	  "project_id": "local",
//	  "database_id": "db",
//	  "user_collection_id": "users",
//	  "video_collection_id": "videos",
//	  "storage_id": "files",
//	  "session_policy": "replace",
//	  "request_timeout": "10s",
//	  "state_db_path": "/tmp/aora.db"
//	}
//
// Absent JSON keys keep their default value.
package config
