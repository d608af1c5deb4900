// Package middleware provides the HTTP middleware chain for the export API:
// request IDs, structured request logging, panic recovery, OpenTelemetry
// spans and metrics, CORS, security headers, rate limiting and API key
// authentication.
package middleware
