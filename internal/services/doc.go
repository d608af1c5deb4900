// Package services implements the export service's business layer between
// the HTTP handlers and the MySQL repository.
//
// ExportService composes the three export steps:
//
//	q := builder.Build(filters)          // query.Builder
//	rows, err := repo.FetchExport(ctx, q) // store.Repository
//	err = renderer.Write(&buf, rows, f)   // exporter.Exporter
//
// Each step sits behind a small interface so the service can be tested
// with testify mocks. Failures are returned as *errors.AppError values that
// match ErrExportExecution or ErrExportRender with errors.Is, and no partial
// output is ever returned.
//
// HealthService backs the /health, /health/ready and /health/live
// endpoints.
package services
