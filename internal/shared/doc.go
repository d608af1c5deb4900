// Package shared holds helpers used by more than one package.
//
// The testutil subpackage provides a recording slog handler for log
// assertions and export row fixtures:
//
//	logger, logs := testutil.NewTestLogger(t)
//	svc := services.NewExportService(repo, exp, builder, logger, nil)
//	...
//	testutil.AssertLogged(t, logs, slog.LevelError, "Export query failed")
package shared
