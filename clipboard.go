package tableview

import (
	"github.com/atotto/clipboard"
)

// Clipboard receives copied text.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct{}

// WriteAll implements Clipboard.
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Available reports whether a system clipboard utility was found.
func (SystemClipboard) Available() bool {
	return !clipboard.Unsupported
}

// CopyRows copies the given rows, with a header line, to cb as CSV or as
// tab separated text.
func (vm *ViewModel) CopyRows(cb Clipboard, rows []int, asCSV bool) error {
	if vm.table.ColumnCount() == 0 || len(rows) == 0 {
		return ErrNoData
	}
	delimiter := rune(tsvDelimiter)
	if asCSV {
		delimiter = csvDelimiter
	}
	if err := cb.WriteAll(SerializeRows(vm.table, rows, delimiter)); err != nil {
		return NewErrorContext("copy", "").Error(err)
	}
	return nil
}
