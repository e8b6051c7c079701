package pagestore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nao1215/tableview/domain/model"
)

// Column declares one column of a new table.
type Column struct {
	Name    string
	Numeric bool
}

// Writer inserts rows into a new table inside a single transaction. Finish
// commits the rows and opens the table; Abort discards it.
type Writer struct {
	db    *sql.DB
	tx    *sql.Tx
	stmt  *sql.Stmt
	table string
	width int
	rows  int
	opts  []Option
}

// NewWriter creates table in the SQLite database at dsn. Numeric columns are
// stored as REAL, the others as TEXT; unnamed columns are called column1,
// column2, ...
func NewWriter(ctx context.Context, dsn, table string, columns []Column, opts ...Option) (_ *Writer, err error) {
	if strings.TrimSpace(table) == "" {
		return nil, ErrInvalidName
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no columns to store", ErrNoTable)
	}
	db, err := openDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dsn, err)
	}
	w := &Writer{db: db, table: table, width: len(columns), opts: opts}
	defer func() {
		if err != nil {
			_ = w.Abort() // Ignore abort error since we're already returning an error
		}
	}()

	if w.tx, err = db.BeginTx(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	if _, err = w.tx.ExecContext(ctx, createTableQuery(table, columns)); err != nil {
		return nil, fmt.Errorf("failed to create table %s: %w", table, err)
	}
	if w.stmt, err = w.tx.PrepareContext(ctx, insertQuery(table, len(columns))); err != nil { //nolint:sqlclosecheck // closed by Finish or Abort
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	return w, nil
}

// Append inserts one row. values must hold one nil, int64, float64 or string
// per column.
func (w *Writer) Append(ctx context.Context, values []any) error {
	if len(values) != w.width {
		return fmt.Errorf("%w: row has %d values, table has %d columns", ErrRowWidth, len(values), w.width)
	}
	if _, err := w.stmt.ExecContext(ctx, values...); err != nil {
		return fmt.Errorf("failed to insert row %d: %w", w.rows, err)
	}
	w.rows++
	return nil
}

// Rows returns the number of rows appended so far.
func (w *Writer) Rows() int {
	return w.rows
}

// Finish commits the rows and opens the new table. The writer must not be
// used afterwards.
func (w *Writer) Finish(ctx context.Context) (*Store, error) {
	_ = w.stmt.Close() // Ignore close error; the commit reports failures
	if err := w.tx.Commit(); err != nil {
		_ = w.db.Close() // Ignore close error since we're already returning an error
		return nil, fmt.Errorf("failed to commit %s: %w", w.table, err)
	}
	s, err := newStore(ctx, w.db, w.table, w.opts)
	if err != nil {
		_ = w.db.Close() // Ignore close error since we're already returning an error
		return nil, err
	}
	s.logger.Debug("page store written", slog.String("table", w.table), slog.Int("rows", w.rows))
	return s, nil
}

// Abort rolls back the table and closes the database.
func (w *Writer) Abort() error {
	if w.stmt != nil {
		_ = w.stmt.Close() // Ignore close error during rollback
	}
	if w.tx != nil {
		_ = w.tx.Rollback() // Ignore rollback error; closing the database discards the transaction
	}
	return w.db.Close()
}

// columnsOf declares the columns of t.
func columnsOf(t *model.Table) []Column {
	columns := make([]Column, t.ColumnCount())
	for c := range columns {
		columns[c] = Column{Name: t.ColumnName(c), Numeric: t.ColumnIsNumeric(c)}
	}
	return columns
}

// createTableQuery builds a CREATE TABLE statement.
func createTableQuery(table string, columns []Column) string {
	defs := make([]string, len(columns))
	for c, col := range columns {
		name := col.Name
		if name == "" {
			name = fmt.Sprintf("column%d", c+1)
		}
		typ := "TEXT"
		if col.Numeric {
			typ = "REAL"
		}
		defs[c] = fmt.Sprintf("%s %s", quoteIdent(name), typ)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
}

// insertQuery builds an INSERT statement with one placeholder per column.
func insertQuery(table string, columns int) string {
	placeholders := make([]string, columns)
	for i := range placeholders {
		placeholders[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(table), strings.Join(placeholders, ", "))
}
