package tableview

import (
	"path/filepath"
	"slices"
	"strings"
)

// OutputFormat represents the output file format
type OutputFormat int

const (
	// OutputFormatCSV represents CSV output format
	OutputFormatCSV OutputFormat = iota
	// OutputFormatTSV represents TSV output format
	OutputFormatTSV
	// OutputFormatLTSV represents LTSV output format
	OutputFormatLTSV
	// OutputFormatParquet represents Parquet output format
	OutputFormatParquet
	// OutputFormatXLSX represents Excel XLSX output format
	OutputFormatXLSX
)

// String returns the string representation of OutputFormat
func (f OutputFormat) String() string {
	switch f {
	case OutputFormatTSV:
		return "tsv"
	case OutputFormatLTSV:
		return "ltsv"
	case OutputFormatParquet:
		return "parquet"
	case OutputFormatXLSX:
		return "xlsx"
	default:
		return "csv"
	}
}

// Extension returns the file extension for the format
func (f OutputFormat) Extension() string {
	return "." + f.String()
}

// ParseOutputFormat parses a format name such as "tsv" or ".tsv".
func ParseOutputFormat(s string) (OutputFormat, bool) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "csv":
		return OutputFormatCSV, true
	case "tsv":
		return OutputFormatTSV, true
	case "ltsv":
		return OutputFormatLTSV, true
	case "parquet":
		return OutputFormatParquet, true
	case "xlsx":
		return OutputFormatXLSX, true
	default:
		return OutputFormatCSV, false
	}
}

// CompressionType represents the compression type
type CompressionType int

const (
	// CompressionNone represents no compression
	CompressionNone CompressionType = iota
	// CompressionGZ represents gzip compression
	CompressionGZ
	// CompressionBZ2 represents bzip2 compression (read only)
	CompressionBZ2
	// CompressionXZ represents xz compression
	CompressionXZ
	// CompressionZSTD represents zstd compression
	CompressionZSTD
)

// String returns the string representation of CompressionType
func (c CompressionType) String() string {
	if codec, ok := codecs[c]; ok {
		return codec.name
	}
	return "none"
}

// Extension returns the file extension for the compression type
func (c CompressionType) Extension() string {
	return codecs[c].ext
}

// ParseCompressionType parses a compression name such as "gz" or "zstd".
func ParseCompressionType(s string) (CompressionType, bool) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	if s == "" || s == "none" {
		return CompressionNone, true
	}
	for typ, c := range codecs {
		if s == c.name || slices.Contains(c.aliases, s) {
			return typ, true
		}
	}
	return CompressionNone, false
}

// ExportOptions configures how a table is written to a file.
//
// Example:
//
//	options := NewExportOptions().
//		WithFormat(OutputFormatTSV).
//		WithCompression(CompressionGZ)
//
//	err := ExportToFile(table, "./out.tsv.gz", options)
type ExportOptions struct {
	// Format specifies the output file format
	Format OutputFormat
	// Compression specifies the compression type
	Compression CompressionType
	// VisibleOnly skips rows hidden by the row filter
	VisibleOnly bool
	// Rows restricts the export to these row indices, in this order. Nil exports every row.
	Rows []int
}

// NewExportOptions creates default export options (CSV, no compression, every row).
//
// Modify with:
//   - WithFormat(): Change file format (CSV, TSV, LTSV, Parquet, XLSX)
//   - WithCompression(): Add compression (GZ, XZ, ZSTD)
//   - WithVisibleOnly(): Skip filtered rows
//   - WithRows(): Export a selection
func NewExportOptions() ExportOptions {
	return ExportOptions{
		Format:      OutputFormatCSV,
		Compression: CompressionNone,
	}
}

// ExportOptionsForPath derives the format and compression from a file name.
// ".tsv" selects TSV; unknown extensions fall back to CSV.
func ExportOptionsForPath(path string) ExportOptions {
	opts := NewExportOptions()
	opts.Compression = detectCompression(path)
	if format, ok := FormatFromPath(path); ok {
		opts.Format = format
	}
	return opts
}

// FormatFromPath reads the output format from a file name, ignoring any
// compression extension.
func FormatFromPath(path string) (OutputFormat, bool) {
	return ParseOutputFormat(filepath.Ext(stripCompressionExt(path)))
}

// WithFormat sets the output file format.
//
// Options:
//   - OutputFormatCSV: Comma-separated values
//   - OutputFormatTSV: Tab-separated values
//   - OutputFormatLTSV: Labeled tab-separated values
//   - OutputFormatParquet: Apache Parquet columnar format
//   - OutputFormatXLSX: Excel workbook with cell colors
func (o ExportOptions) WithFormat(format OutputFormat) ExportOptions {
	o.Format = format
	return o
}

// WithCompression adds compression to output files.
//
// Options:
//   - CompressionNone: No compression (default)
//   - CompressionGZ: Gzip compression (.gz)
//   - CompressionXZ: XZ compression (.xz)
//   - CompressionZSTD: Zstandard compression (.zst)
func (o ExportOptions) WithCompression(compression CompressionType) ExportOptions {
	o.Compression = compression
	return o
}

// WithVisibleOnly skips rows hidden by the row filter.
func (o ExportOptions) WithVisibleOnly(visibleOnly bool) ExportOptions {
	o.VisibleOnly = visibleOnly
	return o
}

// WithRows restricts the export to a selection of rows.
func (o ExportOptions) WithRows(rows []int) ExportOptions {
	o.Rows = rows
	return o
}

// FileExtension returns the complete file extension including compression
func (o ExportOptions) FileExtension() string {
	return o.Format.Extension() + o.Compression.Extension()
}
