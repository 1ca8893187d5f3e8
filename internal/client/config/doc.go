// Package config loads runtime configuration for the dirkeeper console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables DIRKEEPER_* (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the directory API
//	-k string   API key sent as x-api-key
//	-t int      request timeout (seconds)
//	-d string   local SQLite database path
//
// # JSON schema
//
//	{
//	  "base_url": "https://reqres.in/api",
//	  "api_key": "reqres-free-v1",
//	  "request_timeout": "10s",
//	  "database_path": "dirkeeper.db",
//	  "page_size": 6,
//	  "error_ttl": "5s",
//	  "log_level": "info"
//	}
//
// # Environment
//
//	DIRKEEPER_BASE_URL, DIRKEEPER_API_KEY, DIRKEEPER_REQUEST_TIMEOUT,
//	DIRKEEPER_DB_PATH, DIRKEEPER_PAGE_SIZE, DIRKEEPER_ERROR_TTL,
//	DIRKEEPER_LOG_LEVEL
package config
