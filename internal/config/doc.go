// Package config handles configuration loading for the casebloom server.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and duration parsing.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${CASEBLOOM_JWT_SECRET}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//
// Database:
//
//	database:
//	  path: "/var/lib/casebloom/casebloom.db"
//
// Authentication:
//
//	auth:
//	  jwt_secret: "${CASEBLOOM_JWT_SECRET}"  # Required
//	  cookie_secure: true                    # Secure flag on session cookie
//
// Shipping courier API:
//
//	shipping:
//	  base_url: "https://api.courier.example"
//	  client_id: "${COURIER_CLIENT_ID}"
//	  client_secret: "${COURIER_CLIENT_SECRET}"
//	  token_ttl: "50m"
//
// Mockup render provider:
//
//	render:
//	  provider_url: "https://render.example/v1"
//	  timeout: "2m"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Usage
//
// Load configuration from a path:
//
//	cfg, err := config.Load("/etc/casebloom/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
