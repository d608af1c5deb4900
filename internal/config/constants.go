package config

import "time"

// Application constants
const (
	// Application Info
	AppName = "school-attendance-export"

	// Database pool defaults
	DefaultMaxOpenConns    = 25
	DefaultMaxIdleConns    = 5
	DefaultConnMaxLifetime = 5 * time.Minute
	DefaultQueryTimeout    = 60 * time.Second
	DefaultPingRetries     = 5

	// Rate Limiting
	DefaultRateLimit = 20 // requests per second
	DefaultBurstSize = 40

	// Export
	DefaultExportFilename = "export"

	// Log Settings
	DefaultLogLevel = "info"

	// HTTP header names
	HeaderAPIKey     = "X-API-Key"
	HeaderRequestID  = "X-Request-ID"
	HeaderExportRows = "X-Export-Rows"

	// QueryParamAPIKey is the query parameter that may carry the API key
	QueryParamAPIKey = "apikey"
)
