// Package app wires the export service together and manages its lifecycle.
//
// NewApplication loads configuration, initializes the JSON logger and
// OpenTelemetry, opens the MySQL pool and builds the chi router:
//
//	/export        RequestID, RealIP, OTel, logging, recovery, security
//	               headers, CORS, rate limit, API key, request timeout
//	/health*       same chain without rate limit and API key
//	/version       build information
//	/metrics       Prometheus scrape endpoint
//	/swagger/*     OpenAPI UI
//
// Run serves until SIGINT or SIGTERM, then drains in-flight requests and
// closes the database pool and telemetry providers.
//
// New accepts an existing *sql.DB and providers so tests can drive the full
// router with go-sqlmock.
package app
