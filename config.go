package tableview

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/tableview/domain/colormap"
)

// DefaultWindowRows and DefaultWindowCols size the first window loaded from a page store.
const (
	DefaultWindowRows = 200
	DefaultWindowCols = 20
)

// Config holds the settings of a table view.
//
//	display:
//	  show_bars: false
//	  palette: Viridis
//	lazy:
//	  row_threshold: 100
//	  col_threshold: 10
//	  debounce: 50ms
//	export:
//	  format: csv
//	  compression: none
//	pagestore:
//	  rows: 200
//	  cols: 20
//	  chunk_rows: 1000
//	  memory_limit_mb: 0
type Config struct {
	Display   DisplayConfig   `yaml:"display"`
	Lazy      LazyConfig      `yaml:"lazy"`
	Export    ExportConfig    `yaml:"export"`
	PageStore PageStoreConfig `yaml:"pagestore"`
}

// DisplayConfig selects the initial display mode and palette.
type DisplayConfig struct {
	ShowBars bool   `yaml:"show_bars"`
	Palette  string `yaml:"palette"`
}

// ExportConfig selects the default export format and compression by name.
type ExportConfig struct {
	Format      string `yaml:"format"`
	Compression string `yaml:"compression"`
}

// PageStoreConfig sizes the first window loaded from a page store and the
// batches files are streamed into it with.
type PageStoreConfig struct {
	Rows      int `yaml:"rows"`
	Cols      int `yaml:"cols"`
	ChunkRows int `yaml:"chunk_rows"`
	// MemoryLimitMB bounds the heap while streaming. Zero disables the limit.
	MemoryLimitMB int64 `yaml:"memory_limit_mb"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Display: DisplayConfig{Palette: colormap.Default.String()},
		Lazy:    DefaultLazyConfig(),
		Export: ExportConfig{
			Format:      OutputFormatCSV.String(),
			Compression: CompressionNone.String(),
		},
		PageStore: PageStoreConfig{
			Rows:      DefaultWindowRows,
			Cols:      DefaultWindowCols,
			ChunkRows: DefaultChunkRows,
		},
	}
}

// LoadConfig reads a YAML file over the defaults. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return Config{}, NewErrorContext("load config", path).Error(err)
	}
	defer func() {
		_ = f.Close() // Ignore close error on read
	}()

	cfg, err := ParseConfig(f)
	if err != nil {
		return Config{}, NewErrorContext("load config", path).Error(err)
	}
	return cfg, nil
}

// ParseConfig reads YAML over the defaults; absent keys keep their default.
func ParseConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks names and sizes.
func (c Config) Validate() error {
	if _, ok := colormap.Lookup(c.Display.Palette); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPalette, c.Display.Palette)
	}
	if _, ok := ParseOutputFormat(c.Export.Format); !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, c.Export.Format)
	}
	if _, ok := ParseCompressionType(c.Export.Compression); !ok {
		return fmt.Errorf("%w: compression %q", ErrUnsupportedFormat, c.Export.Compression)
	}
	if c.Lazy.RowThreshold < 0 || c.Lazy.ColThreshold < 0 || c.Lazy.RowChunk < 0 || c.Lazy.ColChunk < 0 || c.Lazy.Debounce < 0 {
		return fmt.Errorf("%w: negative lazy loading setting", ErrInvalidData)
	}
	if c.PageStore.Rows < 0 || c.PageStore.Cols < 0 {
		return fmt.Errorf("%w: negative page store window", ErrInvalidData)
	}
	if c.PageStore.ChunkRows < 0 || c.PageStore.MemoryLimitMB < 0 {
		return fmt.Errorf("%w: negative page store stream setting", ErrInvalidData)
	}
	return nil
}

// ViewModelOptions converts the display settings.
func (c Config) ViewModelOptions() []ViewModelOption {
	opts := []ViewModelOption{WithShowBars(c.Display.ShowBars)}
	if id, ok := colormap.Lookup(c.Display.Palette); ok {
		opts = append(opts, WithDefaultPalette(id))
	}
	return opts
}

// ExportOptions converts the export settings. Unknown names fall back to
// uncompressed CSV.
func (c Config) ExportOptions() ExportOptions {
	opts := NewExportOptions()
	if format, ok := ParseOutputFormat(c.Export.Format); ok {
		opts = opts.WithFormat(format)
	}
	if compression, ok := ParseCompressionType(c.Export.Compression); ok {
		opts = opts.WithCompression(compression)
	}
	return opts
}

// StreamOptions converts the page store stream settings.
func (c Config) StreamOptions() []StreamOption {
	opts := []StreamOption{WithChunkRows(c.PageStore.ChunkRows)}
	if c.PageStore.MemoryLimitMB > 0 {
		opts = append(opts, WithMemoryLimit(NewMemoryLimit(c.PageStore.MemoryLimitMB)))
	}
	return opts
}
