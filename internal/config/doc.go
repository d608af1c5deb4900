// Package config provides centralized configuration management for the
// export service.
//
// # Configuration Sources
//
// Configuration is resolved in the following order, later sources winning:
//
//	1. Default values (Default)
//	2. YAML file (CONFIG_FILE, config.yaml or configs/config.yaml)
//	3. Environment variables
//
// # Environment Variables
//
// Variables are named <SECTION>_<KEY> with no application prefix:
//
//	SERVER_PORT=8080
//	DB_HOST=mysql.internal
//	DB_PORT=3306
//	DB_USER=reporting
//	DB_PASS=secret
//	DB_NAME=core_db
//	EXPORT_SESSION=2025_2026
//	LOGGING_LEVEL=debug
//
// The API key settings also read the short names API_KEY_REQUIRED and
// EXPORT_API_KEY.
//
// # Validation
//
// Load validates with go-playground/validator. Schema and session names
// must be plain SQL identifiers because they are embedded in query text.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Testing
//
// Use config.Default() for a configuration that needs no environment.
package config
