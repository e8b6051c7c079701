package tableview

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/xuri/excelize/v2"

	"github.com/nao1215/tableview/domain/model"
)

// Delimiters
const (
	// csvDelimiter is the CSV field separator
	csvDelimiter = ','
	// tsvDelimiter is the TSV field separator
	tsvDelimiter = '\t'
)

// xlsxSheet is the sheet written by XLSX export
const xlsxSheet = "Sheet1"

// escapeCSVValue quotes a field that contains a comma, a line break or a
// quote, doubling embedded quotes.
func escapeCSVValue(value string) string {
	needsQuoting := strings.Contains(value, ",") ||
		strings.Contains(value, "\n") ||
		strings.Contains(value, "\r") ||
		strings.Contains(value, "\"")

	if needsQuoting {
		escaped := strings.ReplaceAll(value, "\"", "\"\"")
		return fmt.Sprintf("\"%s\"", escaped)
	}
	return value
}

// SerializeRows renders a header line with the column names followed by one
// line per row. Fields are separated by delimiter; with ',' they are escaped
// as CSV. Lines are joined by "\n" without a trailing newline.
func SerializeRows(t *model.Table, rows []int, delimiter rune) string {
	field := func(s string) string { return s }
	if delimiter == csvDelimiter {
		field = escapeCSVValue
	}
	sep := string(delimiter)

	lines := make([]string, 0, len(rows)+1)
	fields := make([]string, t.ColumnCount())
	for c := range fields {
		fields[c] = field(t.ColumnName(c))
	}
	lines = append(lines, strings.Join(fields, sep))

	for _, r := range rows {
		values := t.Row(r)
		if values == nil {
			continue
		}
		for c, v := range values {
			fields[c] = field(v.String())
		}
		lines = append(lines, strings.Join(fields, sep))
	}
	return strings.Join(lines, "\n")
}

// serializeLTSV renders one "label:value" line per row.
func serializeLTSV(t *model.Table, rows []int) string {
	clean := strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		values := t.Row(r)
		if values == nil {
			continue
		}
		pairs := make([]string, len(values))
		for c, v := range values {
			pairs[c] = clean.Replace(t.ColumnName(c)) + ":" + clean.Replace(v.String())
		}
		lines = append(lines, strings.Join(pairs, "\t"))
	}
	return strings.Join(lines, "\n")
}

// exportRows resolves which rows an export covers.
func exportRows(t *model.Table, opts ExportOptions) []int {
	rows := opts.Rows
	if rows == nil {
		rows = make([]int, t.RowCount())
		for i := range rows {
			rows[i] = i
		}
	}
	if !opts.VisibleOnly {
		return rows
	}
	visible := make([]int, 0, len(rows))
	for _, r := range rows {
		if t.IsRowVisible(r) {
			visible = append(visible, r)
		}
	}
	return visible
}

// WriteTable writes a table to w in the format and compression of opts.
func WriteTable(w io.Writer, t *model.Table, opts ExportOptions) (err error) {
	if t == nil || t.ColumnCount() == 0 {
		return ErrNoData
	}

	cw, closeCompression, err := NewCompressionHandler(opts.Compression).CreateWriter(w)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeCompression(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	rows := exportRows(t, opts)
	switch opts.Format {
	case OutputFormatCSV:
		_, err = io.WriteString(cw, SerializeRows(t, rows, csvDelimiter))
	case OutputFormatTSV:
		_, err = io.WriteString(cw, SerializeRows(t, rows, tsvDelimiter))
	case OutputFormatLTSV:
		_, err = io.WriteString(cw, serializeLTSV(t, rows))
	case OutputFormatParquet:
		err = writeParquet(cw, t, rows)
	case OutputFormatXLSX:
		err = writeXLSX(cw, t, rows)
	default:
		err = fmt.Errorf("%w: %v", ErrUnsupportedFormat, opts.Format)
	}
	return err
}

// ExportToFile writes a table to path. Without options the format and
// compression follow the file extension. The file is written to a temporary
// name in the same directory and renamed into place, so a failed export
// leaves no partial file.
func ExportToFile(t *model.Table, path string, opts ...ExportOptions) (err error) {
	options := ExportOptionsForPath(path)
	if len(opts) > 0 {
		options = opts[0]
	}
	ec := NewErrorContext("export", path).WithDetails(options.FileExtension())

	if t == nil || t.ColumnCount() == 0 {
		return ec.Error(ErrNoData)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tableview-*")
	if err != nil {
		return ec.Error(err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err = WriteTable(tmp, t, options); err != nil {
		return ec.Error(err)
	}
	if err = tmp.Sync(); err != nil {
		return ec.Error(err)
	}
	if err = tmp.Close(); err != nil {
		return ec.Error(err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return ec.Error(err)
	}
	return nil
}

// arrowSchema maps numeric columns to float64 and every other column to string.
func arrowSchema(t *model.Table) *arrow.Schema {
	fields := make([]arrow.Field, t.ColumnCount())
	for c := range fields {
		typ := arrow.DataType(arrow.BinaryTypes.String)
		if t.ColumnIsNumeric(c) {
			typ = arrow.PrimitiveTypes.Float64
		}
		fields[c] = arrow.Field{Name: t.ColumnName(c), Type: typ, Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

// writeParquet writes the rows as a single Parquet row group.
func writeParquet(w io.Writer, t *model.Table, rows []int) error {
	schema := arrowSchema(t)
	builder := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer builder.Release()

	for _, r := range rows {
		values := t.Row(r)
		if values == nil {
			continue
		}
		for c, v := range values {
			switch fb := builder.Field(c).(type) {
			case *array.Float64Builder:
				if f, ok := v.Numeric(); ok {
					fb.Append(f)
				} else {
					fb.AppendNull()
				}
			case *array.StringBuilder:
				fb.Append(v.String())
			}
		}
	}

	record := builder.NewRecord()
	defer record.Release()

	// the parquet writer closes its sink, so encode into a buffer first
	var buf bytes.Buffer
	fw, err := pqarrow.NewFileWriter(schema, &buf, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := fw.Write(record); err != nil {
		_ = fw.Close()
		return fmt.Errorf("failed to write parquet record: %w", err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// xlsxStyleKey identifies a background and text color pair.
type xlsxStyleKey struct {
	fill string
	font string
}

// writeXLSX writes the rows to a single sheet, carrying cell background and
// text colors over as cell styles.
func writeXLSX(w io.Writer, t *model.Table, rows []int) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	header := make([]any, t.ColumnCount())
	for c := range header {
		header[c] = t.ColumnName(c)
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return err
	}

	styles := make(map[xlsxStyleKey]int)
	line := 2
	for _, r := range rows {
		values := t.Row(r)
		if values == nil {
			continue
		}
		cells := make([]any, len(values))
		for c, v := range values {
			cells[c] = v.Any()
		}
		start, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(xlsxSheet, start, &cells); err != nil {
			return err
		}

		for c := range values {
			key := xlsxStyleKey{fill: t.CellColor(r, c).Hex(), font: t.CellTextColor(r, c).Hex()}
			if key.fill == "" && key.font == "" {
				continue
			}
			styleID, ok := styles[key]
			if !ok {
				styleID, err = f.NewStyle(xlsxStyle(key))
				if err != nil {
					return err
				}
				styles[key] = styleID
			}
			cell, err := excelize.CoordinatesToCellName(c+1, line)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(xlsxSheet, cell, cell, styleID); err != nil {
				return err
			}
		}
		line++
	}
	return f.Write(w)
}

func xlsxStyle(key xlsxStyleKey) *excelize.Style {
	style := &excelize.Style{}
	if key.fill != "" {
		style.Fill = excelize.Fill{Type: "pattern", Color: []string{key.fill}, Pattern: 1}
	}
	if key.font != "" {
		style.Font = &excelize.Font{Color: key.font}
	}
	return style
}
