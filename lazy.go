package tableview

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"
)

// Lazy paging defaults.
const (
	// DefaultScrollDebounce is the quiet window that coalesces scroll events.
	DefaultScrollDebounce = 50 * time.Millisecond
	// DefaultRowThreshold is the distance in rows from an edge that triggers a fetch.
	DefaultRowThreshold = 100
	// DefaultColThreshold is the distance in columns from an edge that triggers a fetch.
	DefaultColThreshold = 10
)

// ScrollDebouncer coalesces bursts of scroll events into a single tick. It
// owns no goroutine: Scrolled hands out a token, the caller schedules a
// callback after Delay and passes the token to Fire, which reports whether
// this tick is the one to act on.
//
//	case scrollMsg:
//		tok := d.Scrolled()
//		return m, tea.Tick(d.Delay(), func(time.Time) tea.Msg { return settleMsg(tok) })
//	case settleMsg:
//		if d.Fire(uint64(msg)) { ... }
type ScrollDebouncer struct {
	delay time.Duration
	gen   atomic.Uint64
	fired atomic.Uint64
}

// NewScrollDebouncer creates a debouncer. A non-positive delay uses DefaultScrollDebounce.
func NewScrollDebouncer(delay time.Duration) *ScrollDebouncer {
	if delay <= 0 {
		delay = DefaultScrollDebounce
	}
	return &ScrollDebouncer{delay: delay}
}

// Delay returns the quiet window.
func (d *ScrollDebouncer) Delay() time.Duration {
	return d.delay
}

// Scrolled records a scroll event and returns its token.
func (d *ScrollDebouncer) Scrolled() uint64 {
	return d.gen.Add(1)
}

// Fire reports whether token belongs to the latest scroll event and has not
// fired yet.
func (d *ScrollDebouncer) Fire(token uint64) bool {
	if token != d.gen.Load() {
		return false
	}
	return d.fired.Swap(token) != token
}

// AfterFunc records a scroll event and calls fn on its own goroutine once the
// quiet window passes without another event. Hosts with a UI thread must
// marshal fn back to it.
func (d *ScrollDebouncer) AfterFunc(fn func()) *time.Timer {
	tok := d.Scrolled()
	return time.AfterFunc(d.delay, func() {
		if d.Fire(tok) {
			fn()
		}
	})
}

// Viewport is the visible cell range of a grid. Bounds are inclusive.
type Viewport struct {
	FirstRow int
	LastRow  int
	FirstCol int
	LastCol  int
}

// LazyConfig tunes a LazyLoader.
type LazyConfig struct {
	// RowThreshold is the distance in rows from the top or bottom edge that triggers a fetch.
	RowThreshold int `yaml:"row_threshold"`
	// ColThreshold is the distance in columns from the left or right edge that triggers a fetch.
	ColThreshold int `yaml:"col_threshold"`
	// RowChunk is the number of rows requested per fetch. Zero uses RowThreshold.
	RowChunk int `yaml:"row_chunk"`
	// ColChunk is the number of columns requested per fetch. Zero uses ColThreshold.
	ColChunk int `yaml:"col_chunk"`
	// Debounce is the scroll quiet window.
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultLazyConfig returns the default thresholds and chunk sizes.
func DefaultLazyConfig() LazyConfig {
	return LazyConfig{
		RowThreshold: DefaultRowThreshold,
		ColThreshold: DefaultColThreshold,
		Debounce:     DefaultScrollDebounce,
	}
}

func (c LazyConfig) rowChunk() int {
	if c.RowChunk > 0 {
		return c.RowChunk
	}
	return c.RowThreshold
}

func (c LazyConfig) colChunk() int {
	if c.ColChunk > 0 {
		return c.ColChunk
	}
	return c.ColThreshold
}

// Edge is one side of the loaded window.
type Edge int

const (
	// EdgeTop is the first loaded row.
	EdgeTop Edge = iota
	// EdgeBottom is the last loaded row.
	EdgeBottom
	// EdgeLeft is the first loaded column.
	EdgeLeft
	// EdgeRight is the last loaded column.
	EdgeRight
)

// String returns the edge name
func (e Edge) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	default:
		return "unknown"
	}
}

// LoadResult counts the rows and columns fetched at each edge.
type LoadResult struct {
	Top    int
	Bottom int
	Left   int
	Right  int
}

// Any reports whether anything was fetched.
func (r LoadResult) Any() bool {
	return r.Top+r.Bottom+r.Left+r.Right > 0
}

// LazyLoader extends a ViewModel's loaded window when the viewport nears one
// of its edges.
type LazyLoader struct {
	vm        *ViewModel
	config    LazyConfig
	debouncer *ScrollDebouncer
	inFlight  [4]bool
	logger    *slog.Logger
}

// NewLazyLoader creates a loader for vm.
func NewLazyLoader(vm *ViewModel, config LazyConfig) *LazyLoader {
	return &LazyLoader{
		vm:        vm,
		config:    config,
		debouncer: NewScrollDebouncer(config.Debounce),
		logger:    vm.logger,
	}
}

// Debouncer returns the scroll debouncer of the loader.
func (l *LazyLoader) Debouncer() *ScrollDebouncer {
	return l.debouncer
}

// Check fetches a chunk at every edge the viewport is within threshold of.
// An edge whose previous request is still running is skipped. Failures at
// one edge do not stop the others.
func (l *LazyLoader) Check(ctx context.Context, vp Viewport) (LoadResult, error) {
	var (
		res  LoadResult
		errs []error
	)
	rows := l.vm.RowCount()
	cols := l.vm.ColumnCount()

	if vp.FirstRow < l.config.RowThreshold {
		n, err := l.request(ctx, EdgeTop, l.config.rowChunk(), l.vm.RequestMoreRowsTop)
		res.Top = n
		errs = append(errs, err)
	}
	if vp.LastRow > rows-l.config.RowThreshold {
		n, err := l.request(ctx, EdgeBottom, l.config.rowChunk(), l.vm.RequestMoreRowsBottom)
		res.Bottom = n
		errs = append(errs, err)
	}
	if vp.FirstCol < l.config.ColThreshold {
		n, err := l.request(ctx, EdgeLeft, l.config.colChunk(), l.vm.RequestMoreColsLeft)
		res.Left = n
		errs = append(errs, err)
	}
	if vp.LastCol > cols-l.config.ColThreshold {
		n, err := l.request(ctx, EdgeRight, l.config.colChunk(), l.vm.RequestMoreColsRight)
		res.Right = n
		errs = append(errs, err)
	}
	return res, errors.Join(errs...)
}

func (l *LazyLoader) request(ctx context.Context, edge Edge, n int, fetch func(context.Context, int) (int, error)) (int, error) {
	if l.inFlight[edge] {
		return 0, nil
	}
	l.inFlight[edge] = true
	defer func() { l.inFlight[edge] = false }()

	got, err := fetch(ctx, n)
	if err != nil {
		l.logger.Error("lazy fetch failed", slog.String("edge", edge.String()), slog.Any("error", err))
		return got, err
	}
	if got > 0 {
		l.logger.Debug("lazy fetch", slog.String("edge", edge.String()), slog.Int("count", got))
	}
	return got, nil
}
