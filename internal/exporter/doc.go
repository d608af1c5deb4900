// Package exporter serializes aggregated school export rows.
//
// Three encodings are supported:
//
// CSV: header line in canonical column order, one line per row, standard
// quoting, optional UTF-8 BOM for Excel compatibility. Null text renders as
// an empty field.
//
// JSON: an array of objects keyed by canonical column names. An empty
// result is [].
//
// XLSX: a single worksheet with a header row and numeric total cells.
//
// Example usage:
//
//	exp := exporter.New(exporter.Options{CSVBOM: true})
//	err := exp.Write(w, rows, exporter.ParseFormat(r.URL.Query().Get("format")))
package exporter
