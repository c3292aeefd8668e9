// Package config provides centralized configuration management.
// Configuration is loaded from the following sources in order of
// precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// All environment variables use the IZBORI_ prefix:
//
//	IZBORI_SERVER_PORT=8080
//	IZBORI_PATHS_DATA_DIR=data/el_data
//	IZBORI_ANALYSIS_THRESHOLD=30.0
//	IZBORI_LOGGING_LEVEL=info
//
// The configuration file defaults to ./config.yaml and can be overridden
// with IZBORI_CONFIG.
package config
