package tableview

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/xuri/excelize/v2"
)

// FileType represents a supported input format, independent of compression
type FileType int

const (
	// FileTypeCSV represents CSV file type
	FileTypeCSV FileType = iota
	// FileTypeTSV represents TSV file type
	FileTypeTSV
	// FileTypeLTSV represents LTSV file type
	FileTypeLTSV
	// FileTypeParquet represents Parquet file type
	FileTypeParquet
	// FileTypeXLSX represents Excel XLSX file type
	FileTypeXLSX
	// FileTypeUnsupported represents unsupported file type
	FileTypeUnsupported
)

// File extensions
const (
	// extCSV is the CSV file extension
	extCSV = ".csv"
	// extTSV is the TSV file extension
	extTSV = ".tsv"
	// extLTSV is the LTSV file extension
	extLTSV = ".ltsv"
	// extParquet is the Parquet file extension
	extParquet = ".parquet"
	// extXLSX is the Excel XLSX file extension
	extXLSX = ".xlsx"
)

// String returns the file type name
func (ft FileType) String() string {
	switch ft {
	case FileTypeCSV:
		return "csv"
	case FileTypeTSV:
		return "tsv"
	case FileTypeLTSV:
		return "ltsv"
	case FileTypeParquet:
		return "parquet"
	case FileTypeXLSX:
		return "xlsx"
	default:
		return "unsupported"
	}
}

// detectFileType detects the file type from the extension, ignoring compression
func detectFileType(path string) FileType {
	switch strings.ToLower(filepath.Ext(stripCompressionExt(path))) {
	case extCSV:
		return FileTypeCSV
	case extTSV:
		return FileTypeTSV
	case extLTSV:
		return FileTypeLTSV
	case extParquet:
		return FileTypeParquet
	case extXLSX:
		return FileTypeXLSX
	default:
		return FileTypeUnsupported
	}
}

// isSupportedFile checks if the file has a supported extension
func isSupportedFile(fileName string) bool {
	return detectFileType(fileName) != FileTypeUnsupported
}

// LoadFile reads a CSV, TSV, LTSV, Parquet or XLSX file, optionally
// compressed with gzip, bzip2, xz or zstd, into keyed columnar input.
// Columns of a text file are typed by content: integer and real columns
// become numbers, everything else stays text.
func LoadFile(path string) ([]ColumnInput, error) {
	ec := NewErrorContext("load", path)
	if !isSupportedFile(path) {
		return nil, ec.Error(ErrUnsupportedFormat)
	}

	reader, closer, err := openDecompressed(path)
	if err != nil {
		return nil, ec.Error(err)
	}
	defer func() {
		_ = closer() // Ignore close error on read
	}()

	cols, err := parse(reader, detectFileType(path), tableFromFilePath(path))
	if err != nil {
		return nil, ec.Error(err)
	}
	return cols, nil
}

// LoadReader reads already decompressed data of the given type.
func LoadReader(r io.Reader, fileType FileType) ([]ColumnInput, error) {
	cols, err := parse(r, fileType, "")
	if err != nil {
		return nil, NewErrorContext("load", "").WithDetails(fileType.String()).Error(err)
	}
	return cols, nil
}

func parse(r io.Reader, fileType FileType, name string) ([]ColumnInput, error) {
	var (
		t   *rawTable
		err error
	)
	switch fileType {
	case FileTypeCSV:
		t, err = parseDelimited(r, csvDelimiter, name)
	case FileTypeTSV:
		t, err = parseDelimited(r, tsvDelimiter, name)
	case FileTypeLTSV:
		t, err = parseLTSV(r, name)
	case FileTypeXLSX:
		t, err = parseXLSX(r, name)
	case FileTypeParquet:
		return parseParquet(r)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	return t.columns(), nil
}

// parseDelimited parses CSV or TSV with the given delimiter. The first
// record is the header.
func parseDelimited(r io.Reader, delimiter rune, name string) (*rawTable, error) {
	csvReader := csv.NewReader(r)
	csvReader.Comma = delimiter
	csvReader.FieldsPerRecord = -1
	if delimiter == tsvDelimiter {
		csvReader.LazyQuotes = true
	}
	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyData
	}
	if err := validateColumnNames(records[0]); err != nil {
		return nil, err
	}
	return newRawTable(name, records[0], records[1:]), nil
}

// parseLTSV parses "label:value" lines. Columns appear in the order their
// labels are first seen; missing labels are empty.
func parseLTSV(r io.Reader, name string) (*rawTable, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var (
		header  []string
		index   = make(map[string]int)
		records []map[string]string
	)
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		record := make(map[string]string)
		for _, pair := range strings.Split(line, "\t") {
			key, value, ok := strings.Cut(pair, ":")
			if !ok {
				continue
			}
			key = strings.TrimSpace(key)
			record[key] = strings.TrimSpace(value)
			if _, seen := index[key]; !seen {
				index[key] = len(header)
				header = append(header, key)
			}
		}
		if len(record) > 0 {
			records = append(records, record)
		}
	}
	if len(records) == 0 {
		return nil, ErrEmptyData
	}

	rows := make([][]string, len(records))
	for i, record := range records {
		row := make([]string, len(header))
		for key, value := range record {
			row[index[key]] = value
		}
		rows[i] = row
	}
	return newRawTable(name, header, rows), nil
}

// parseXLSX reads the first sheet; its first row is the header.
func parseXLSX(r io.Reader, name string) (*rawTable, error) {
	xlsxFile, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	defer func() {
		_ = xlsxFile.Close() // Ignore close error
	}()

	sheetNames := xlsxFile.GetSheetList()
	if len(sheetNames) == 0 {
		return nil, ErrEmptyData
	}
	rows, err := xlsxFile.GetRows(sheetNames[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetNames[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyData
	}
	if err := validateColumnNames(rows[0]); err != nil {
		return nil, err
	}
	return newRawTable(name, rows[0], rows[1:]), nil
}

// parseParquet reads a Parquet file. Its columns keep their stored types, so
// no content based typing is applied.
func parseParquet(r io.Reader) ([]ColumnInput, error) {
	// Parquet requires random access
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyData
	}

	pqReader, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}
	table, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}
	defer table.Release()

	schema := table.Schema()
	cols := make([]ColumnInput, schema.NumFields())
	for i, field := range schema.Fields() {
		cols[i] = ColumnInput{Name: field.Name, Values: make([]any, 0, table.NumRows())}
	}

	tableReader := array.NewTableReader(table, 0)
	defer tableReader.Release()
	for tableReader.Next() {
		batch := tableReader.Record()
		for j, col := range batch.Columns() {
			for i := range col.Len() {
				cols[j].Values = append(cols[j].Values, arrowValue(col, i))
			}
		}
	}
	if err := tableReader.Err(); err != nil {
		return nil, fmt.Errorf("error reading table records: %w", err)
	}
	return cols, nil
}

// arrowValue extracts one element of an arrow array as a builder scalar.
func arrowValue(col arrow.Array, i int) any {
	if col.IsNull(i) {
		return nil
	}
	switch a := col.(type) {
	case *array.Boolean:
		return a.Value(i)
	case *array.Float32:
		return float64(a.Value(i))
	case *array.Float64:
		return a.Value(i)
	case *array.Int8:
		return int64(a.Value(i))
	case *array.Int16:
		return int64(a.Value(i))
	case *array.Int32:
		return int64(a.Value(i))
	case *array.Int64:
		return a.Value(i)
	case *array.Uint8:
		return uint64(a.Value(i))
	case *array.Uint16:
		return uint64(a.Value(i))
	case *array.Uint32:
		return uint64(a.Value(i))
	case *array.Uint64:
		return a.Value(i)
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	case *array.Binary:
		return string(a.Value(i))
	default:
		return col.ValueStr(i)
	}
}
