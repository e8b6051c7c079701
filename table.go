package tableview

import (
	"fmt"
	"path/filepath"
	"strings"
)

// rawTable is file contents before typing: a header and string records.
type rawTable struct {
	// name is derived from the file path.
	name string
	// header holds the column names.
	header []string
	// records holds one string per header column, padded where rows are short.
	records [][]string
}

// newRawTable creates a raw table, padding or truncating records to the header width.
func newRawTable(name string, header []string, records [][]string) *rawTable {
	for i, rec := range records {
		if len(rec) == len(header) {
			continue
		}
		fixed := make([]string, len(header))
		copy(fixed, rec)
		records[i] = fixed
	}
	return &rawTable{
		name:    name,
		header:  header,
		records: records,
	}
}

// columns types each column and converts the table to builder input.
func (t *rawTable) columns() []ColumnInput {
	out := make([]ColumnInput, len(t.header))
	for c, name := range t.header {
		values := make([]string, len(t.records))
		for r, rec := range t.records {
			values[r] = rec[c]
		}
		out[c] = ColumnInput{
			Name:   name,
			Values: typedValues(values, inferColumnType(values)),
		}
	}
	return out
}

// validateColumnNames checks for duplicate column names and returns error if found.
// Column name comparison is case-sensitive.
func validateColumnNames(columns []string) error {
	columnsSeen := make(map[string]bool)
	for _, col := range columns {
		trimmedCol := strings.TrimSpace(col)
		if columnsSeen[trimmedCol] {
			return fmt.Errorf("%w: %s", errDuplicateColumnName, col)
		}
		columnsSeen[trimmedCol] = true
	}
	return nil
}

// tableFromFilePath creates a table name from a file path
func tableFromFilePath(filePath string) string {
	fileName := stripCompressionExt(filepath.Base(filePath))
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}
