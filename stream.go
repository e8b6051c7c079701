package tableview

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/nao1215/tableview/pagestore"
)

const (
	// DefaultChunkRows is the number of rows per insert batch. The first batch
	// also decides the column types.
	DefaultChunkRows = 1000
	// minChunkRows is the smallest batch memory pressure can shrink to.
	minChunkRows = 10
)

// StreamOption configures StreamToStore.
type StreamOption func(*streamer)

// WithChunkRows sets the batch size. Non-positive sizes use DefaultChunkRows.
func WithChunkRows(n int) StreamOption {
	return func(s *streamer) {
		if n > 0 {
			s.chunkRows = n
		}
	}
}

// WithMemoryLimit shrinks batches as the heap nears limit and stops the
// stream when it stays exceeded at the smallest batch.
func WithMemoryLimit(limit *MemoryLimit) StreamOption {
	return func(s *streamer) {
		s.limit = limit
	}
}

// WithStreamLogger sets the logger for stream progress.
func WithStreamLogger(logger *slog.Logger) StreamOption {
	return func(s *streamer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type streamer struct {
	chunkRows int
	limit     *MemoryLimit
	logger    *slog.Logger
}

func newStreamer(opts []StreamOption) *streamer {
	s := &streamer{chunkRows: DefaultChunkRows, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StreamToStore copies a file into a new table of the SQLite database at dsn
// and opens it as a page store. CSV and TSV files are read in batches, so
// they never sit in memory whole; their columns are typed from the first
// batch and later cells that do not fit stay text. LTSV, Excel and Parquet
// files are loaded whole first.
func StreamToStore(ctx context.Context, path, dsn, table string, opts ...StreamOption) (*pagestore.Store, error) {
	ec := NewErrorContext("stream", path)
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

	s, err := newStreamer(opts).copy(ctx, reader, detectFileType(path), dsn, table)
	if err != nil {
		return nil, ec.Error(err)
	}
	return s, nil
}

// StreamReaderToStore is StreamToStore for already decompressed data.
func StreamReaderToStore(ctx context.Context, r io.Reader, fileType FileType, dsn, table string, opts ...StreamOption) (*pagestore.Store, error) {
	s, err := newStreamer(opts).copy(ctx, r, fileType, dsn, table)
	if err != nil {
		return nil, NewErrorContext("stream", "").WithDetails(fileType.String()).Error(err)
	}
	return s, nil
}

func (s *streamer) copy(ctx context.Context, r io.Reader, fileType FileType, dsn, table string) (*pagestore.Store, error) {
	switch fileType {
	case FileTypeCSV:
		return s.copyDelimited(ctx, r, csvDelimiter, dsn, table)
	case FileTypeTSV:
		return s.copyDelimited(ctx, r, tsvDelimiter, dsn, table)
	}

	inputs, err := parse(r, fileType, table)
	if err != nil {
		return nil, err
	}
	t := BuildFromColumns(inputs, WithLogger(s.logger))
	return pagestore.Create(ctx, dsn, table, t, pagestore.WithLogger(s.logger))
}

// copyDelimited streams CSV or TSV records into the store batch by batch.
func (s *streamer) copyDelimited(ctx context.Context, r io.Reader, delimiter rune, dsn, table string) (_ *pagestore.Store, err error) {
	csvReader := csv.NewReader(r)
	csvReader.Comma = delimiter
	csvReader.FieldsPerRecord = -1
	if delimiter == tsvDelimiter {
		csvReader.LazyQuotes = true
	}

	header, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyData
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	if err := validateColumnNames(header); err != nil {
		return nil, err
	}

	b := &batchWriter{streamer: s, header: header, dsn: dsn, table: table}
	defer func() {
		if err != nil && b.w != nil {
			_ = b.w.Abort() // Ignore abort error since we're already returning an error
		}
	}()

	batch := make([][]string, 0, s.chunkRows)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
		}
		batch = append(batch, record)
		if len(batch) < s.chunkRows {
			continue
		}
		if err := b.flush(ctx, batch); err != nil {
			return nil, err
		}
		batch = batch[:0]
		if err := s.adjust(); err != nil {
			return nil, err
		}
	}
	// A header-only file still creates its table here.
	if err := b.flush(ctx, batch); err != nil {
		return nil, err
	}

	w := b.w
	b.w = nil
	return w.Finish(ctx)
}

// adjust shrinks the batch size under memory pressure.
func (s *streamer) adjust() error {
	if s.limit == nil {
		return nil
	}
	if reduce, n := s.limit.ShouldReduceChunkSize(s.chunkRows, minChunkRows); reduce {
		s.logger.Debug("reducing stream batch size", slog.Int("from", s.chunkRows), slog.Int("to", n))
		s.chunkRows = n
		return nil
	}
	if s.limit.CheckMemoryUsage() == MemoryStatusExceeded {
		return s.limit.Error("stream")
	}
	return nil
}

// batchWriter creates the table from the first batch and appends every batch.
type batchWriter struct {
	*streamer
	header []string
	dsn    string
	table  string
	types  []columnType
	w      *pagestore.Writer
}

func (b *batchWriter) flush(ctx context.Context, batch [][]string) error {
	if b.w == nil {
		b.types = inferBatchTypes(len(b.header), batch)
		columns := make([]pagestore.Column, len(b.header))
		for c, name := range b.header {
			columns[c] = pagestore.Column{Name: name, Numeric: b.types[c].isNumber()}
		}
		w, err := pagestore.NewWriter(ctx, b.dsn, b.table, columns, pagestore.WithLogger(b.logger))
		if err != nil {
			return err
		}
		b.w = w
	}

	values := make([]any, len(b.header))
	for _, record := range batch {
		for c := range values {
			raw := ""
			if c < len(record) {
				raw = record[c]
			}
			values[c] = typedValue(raw, b.types[c])
		}
		if err := b.w.Append(ctx, values); err != nil {
			return err
		}
	}
	if len(batch) > 0 {
		b.logger.Debug("stream batch written", slog.String("table", b.table),
			slog.Int("rows", len(batch)), slog.Int("total", b.w.Rows()))
	}
	return nil
}

// inferBatchTypes types each column from the records of one batch.
func inferBatchTypes(width int, batch [][]string) []columnType {
	types := make([]columnType, width)
	values := make([]string, len(batch))
	for c := range types {
		for r, record := range batch {
			values[r] = ""
			if c < len(record) {
				values[r] = record[c]
			}
		}
		types[c] = inferColumnType(values)
	}
	return types
}
