// Package store executes export queries against MySQL.
//
// Open builds the pool from config.DatabaseConfig and blocks until the
// server answers a ping. Repository.FetchExport runs a query.Query with
// positional arguments and scans the thirteen export columns, turning SQL
// NULL text into nil and NULL totals into 0.
package store
