// Package http implements the HTTP handlers of the export service. Handlers
// only parse requests and format responses; query building, execution and
// rendering live in the services package.
//
// Routes:
//
//	GET /export         filtered attendance export (csv, json or xlsx)
//	GET /health         liveness, no database access
//	GET /health/ready   database ping
//	GET /health/live    runtime details
//	GET /version        build information
//
// Failures are written through errors.ErrorHandler as RFC 7807 problem
// documents. Export failures also carry the flat "error" member older
// clients expect, for example {"error":"database error","detail":"..."}.
package http
