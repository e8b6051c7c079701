package tableview

import (
	"errors"
	"fmt"
	"strings"
)

// Standard error messages and error creation functions for consistency
var (
	// errDuplicateColumnName is returned when a loaded file contains duplicate column names
	errDuplicateColumnName = errors.New("duplicate column name")

	// ErrEmptyData indicates that the data source contains no records
	ErrEmptyData = errors.New("tableview: empty data source")

	// ErrUnsupportedFormat indicates an unsupported file format
	ErrUnsupportedFormat = errors.New("tableview: unsupported file format")

	// ErrInvalidData indicates malformed or invalid data
	ErrInvalidData = errors.New("tableview: invalid data format")

	// ErrNoData indicates there is nothing to export or copy
	ErrNoData = errors.New("tableview: no data")

	// ErrUnknownPalette indicates a palette name that is not in the catalogue
	ErrUnknownPalette = errors.New("tableview: unknown palette")

	// ErrDatasetNotFound indicates a dataset id the catalog does not know
	ErrDatasetNotFound = errors.New("tableview: dataset not found")

	// ErrColumnNotFound indicates a column name the table does not have
	ErrColumnNotFound = errors.New("tableview: column not found")

	// ErrMemoryLimit indicates a stream was stopped because the heap limit was exceeded
	ErrMemoryLimit = errors.New("tableview: memory limit exceeded")
)

// ErrorContext provides context for where an error occurred
type ErrorContext struct {
	Operation string
	FilePath  string
	Column    string
	Details   string
}

// NewErrorContext creates a new error context
func NewErrorContext(operation, filePath string) *ErrorContext {
	return &ErrorContext{
		Operation: operation,
		FilePath:  filePath,
	}
}

// WithColumn adds column context to the error
func (ec *ErrorContext) WithColumn(column string) *ErrorContext {
	ec.Column = column
	return ec
}

// WithDetails adds details to the error context
func (ec *ErrorContext) WithDetails(details string) *ErrorContext {
	ec.Details = details
	return ec
}

// Error creates a formatted error with context
func (ec *ErrorContext) Error(baseErr error) error {
	var parts []string
	parts = append(parts, fmt.Sprintf("tableview: %s failed", ec.Operation))

	if ec.FilePath != "" {
		parts = append(parts, "file: "+ec.FilePath)
	}

	if ec.Column != "" {
		parts = append(parts, "column: "+ec.Column)
	}

	if ec.Details != "" {
		parts = append(parts, "details: "+ec.Details)
	}

	context := strings.Join(parts, ", ")
	if baseErr != nil {
		return fmt.Errorf("%s: %w", context, baseErr)
	}
	return fmt.Errorf("%s", context)
}
