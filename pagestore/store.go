// Package pagestore serves a SQLite table as a model.PageSource, so a view can
// page through data sets too large to hold in a model.Table.
package pagestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/nao1215/tableview/domain/model"
)

// DriverName is the database/sql driver used by the store.
const DriverName = "sqlite"

var (
	// ErrNoTable is returned when the named table does not exist or has no columns
	ErrNoTable = errors.New("pagestore: table not found")

	// ErrInvalidName is returned for an empty table name
	ErrInvalidName = errors.New("pagestore: invalid table name")

	// ErrRowWidth is returned when an appended row does not match the table width
	ErrRowWidth = errors.New("pagestore: row width mismatch")
)

// column is one column of the backing table.
type column struct {
	name    string
	numeric bool
}

// Store is a read-only page source over one SQLite table. Rows are ordered
// by rowid. The row count and schema are read once when the store opens.
type Store struct {
	db      *sql.DB
	table   string
	rows    int
	columns []column
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// openDB opens a single connection database. ":memory:" databases live as
// long as their only connection, so the pool is pinned to one.
func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	return db, nil
}

// Open opens table in the SQLite database at dsn.
func Open(ctx context.Context, dsn, table string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(table) == "" {
		return nil, ErrInvalidName
	}
	db, err := openDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dsn, err)
	}
	s, err := newStore(ctx, db, table, opts)
	if err != nil {
		_ = db.Close() // Ignore close error since we're already returning an error
		return nil, err
	}
	return s, nil
}

// Create writes t into a new table of the SQLite database at dsn and opens
// it. Numeric columns are stored as REAL, the others as TEXT.
func Create(ctx context.Context, dsn, table string, t *model.Table, opts ...Option) (*Store, error) {
	if t == nil || t.ColumnCount() == 0 {
		return nil, fmt.Errorf("%w: no columns to store", ErrNoTable)
	}
	w, err := NewWriter(ctx, dsn, table, columnsOf(t), opts...)
	if err != nil {
		return nil, err
	}
	values := make([]any, t.ColumnCount())
	for r := range t.RowCount() {
		for c := range values {
			values[c] = t.Get(r, c).Any()
		}
		if err := w.Append(ctx, values); err != nil {
			_ = w.Abort() // Ignore abort error since we're already returning an error
			return nil, err
		}
	}
	return w.Finish(ctx)
}

func newStore(ctx context.Context, db *sql.DB, table string, opts []Option) (*Store, error) {
	s := &Store{
		db:     db,
		table:  table,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.loadSchema(ctx); err != nil {
		return nil, err
	}
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(table)).Scan(&s.rows); err != nil {
		return nil, fmt.Errorf("failed to count rows of %s: %w", table, err)
	}
	s.logger.Debug("page store opened",
		slog.String("table", table), slog.Int("rows", s.rows), slog.Int("columns", len(s.columns)))
	return s, nil
}

// loadSchema reads the column names and declared types of the table.
func (s *Store) loadSchema(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, "SELECT name, type FROM pragma_table_info(?)", s.table)
	if err != nil {
		return fmt.Errorf("failed to read schema of %s: %w", s.table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return err
		}
		s.columns = append(s.columns, column{name: name, numeric: isNumericType(typ)})
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(s.columns) == 0 {
		return fmt.Errorf("%w: %s", ErrNoTable, s.table)
	}
	return nil
}

// isNumericType applies SQLite's type affinity rules to a declared type.
func isNumericType(declared string) bool {
	typ := strings.ToUpper(declared)
	switch {
	case strings.Contains(typ, "INT"):
		return true
	case strings.Contains(typ, "CHAR"), strings.Contains(typ, "CLOB"), strings.Contains(typ, "TEXT"):
		return false
	case strings.Contains(typ, "REAL"), strings.Contains(typ, "FLOA"), strings.Contains(typ, "DOUB"):
		return true
	case strings.Contains(typ, "NUM"), strings.Contains(typ, "DEC"):
		return true
	default:
		return false
	}
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Name returns the table name.
func (s *Store) Name() string {
	return s.table
}

// Size implements model.PageSource.
func (s *Store) Size() (rows, cols int) {
	return s.rows, len(s.columns)
}

// Columns implements model.PageSource. The range of numeric columns is
// computed over the whole table, not only the loaded window.
func (s *Store) Columns(ctx context.Context, col, n int) ([]model.ColumnInfo, error) {
	cols, err := s.columnRange(col, n)
	if err != nil {
		return nil, err
	}

	infos := make([]model.ColumnInfo, len(cols))
	for i, c := range cols {
		infos[i] = model.ColumnInfo{Name: c.name, Numeric: c.numeric}
		if !c.numeric || s.rows == 0 {
			continue
		}
		var minVal, maxVal sql.NullFloat64
		// Text stored in a REAL column keeps its text type and is left out.
		query := fmt.Sprintf("SELECT MIN(%[1]s), MAX(%[1]s) FROM %[2]s WHERE typeof(%[1]s) IN ('integer', 'real')",
			quoteIdent(c.name), quoteIdent(s.table))
		if err := s.db.QueryRowContext(ctx, query).Scan(&minVal, &maxVal); err != nil {
			return nil, fmt.Errorf("failed to read range of %s: %w", c.name, err)
		}
		infos[i].Min = minVal.Float64
		infos[i].Max = maxVal.Float64
	}
	return infos, nil
}

// Block implements model.PageSource.
func (s *Store) Block(ctx context.Context, row, col, rows, cols int) ([]model.Value, error) {
	columns, err := s.columnRange(col, cols)
	if err != nil {
		return nil, err
	}
	if row < 0 || rows < 0 || row+rows > s.rows {
		return nil, fmt.Errorf("%w: rows %d+%d of %d", model.ErrOutOfRange, row, rows, s.rows)
	}
	if rows == 0 || cols == 0 {
		return []model.Value{}, nil
	}

	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = quoteIdent(c.name)
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid LIMIT ? OFFSET ?",
		strings.Join(names, ", "), quoteIdent(s.table))

	result, err := s.db.QueryContext(ctx, query, rows, row)
	if err != nil {
		return nil, fmt.Errorf("failed to read block: %w", err)
	}
	defer result.Close()

	values := make([]model.Value, 0, rows*cols)
	scanned := make([]any, cols)
	dest := make([]any, cols)
	for i := range dest {
		dest[i] = &scanned[i]
	}
	for result.Next() {
		if err := result.Scan(dest...); err != nil {
			return nil, err
		}
		for i, v := range scanned {
			values = append(values, toValue(v, columns[i].numeric))
		}
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

func (s *Store) columnRange(col, n int) ([]column, error) {
	if col < 0 || n < 0 || col+n > len(s.columns) {
		return nil, fmt.Errorf("%w: columns %d+%d of %d", model.ErrOutOfRange, col, n, len(s.columns))
	}
	return s.columns[col : col+n], nil
}

// toValue converts a scanned SQLite value to a cell.
func toValue(v any, numeric bool) model.Value {
	switch x := v.(type) {
	case int64:
		if numeric {
			return model.Float(float64(x))
		}
		return model.Int(x)
	case float64:
		return model.Float(x)
	case []byte:
		return model.Text(string(x))
	case string:
		return model.Text(x)
	case bool:
		if x {
			return model.Int(1)
		}
		return model.Int(0)
	case nil:
		return model.Text("")
	default:
		return model.Text(fmt.Sprint(x))
	}
}

// quoteIdent quotes a SQLite identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
