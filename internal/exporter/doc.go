// Package exporter writes the computed aggregates as CSV files and XLSX
// workbooks.
//
// BuildTables flattens an analytics.Summary and a finance.Projection into
// a fixed list of Tables. The same tables feed both outputs:
//
//	tables := exporter.BuildTables(summary, projection)
//
//	// one CSV per table under the reports directory
//	csv := exporter.NewAggregateExporter(exporter.NewCSVWriter(paths, logger), logger)
//	files, err := csv.ExportTables(ctx, "tables", tables)
//
//	// one worksheet per table
//	err = exporter.WriteXLSX(w, tables)
//
// CSV files carry a UTF-8 BOM for Excel compatibility. Values that are
// undefined for lack of data are written as "n/a".
package exporter
