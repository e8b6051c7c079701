package tableview

import (
	"fmt"
	"math"
	"runtime"
	"sync/atomic"
)

const (
	// DefaultMemoryLimitMB is the heap limit used for a non-positive limit.
	DefaultMemoryLimitMB = 512
	// maxMemoryLimitMB caps unreasonable limits.
	maxMemoryLimitMB = 64 * 1024

	defaultWarningThreshold = 0.8
	bytesPerMB              = 1024 * 1024
)

// MemoryStatus is the heap usage relative to a MemoryLimit.
type MemoryStatus int

const (
	// MemoryStatusOK indicates memory usage is within acceptable limits
	MemoryStatusOK MemoryStatus = iota
	// MemoryStatusWarning indicates memory usage is approaching the limit
	MemoryStatusWarning
	// MemoryStatusExceeded indicates memory usage has exceeded the limit
	MemoryStatusExceeded
)

// String returns string representation of memory status
func (ms MemoryStatus) String() string {
	switch ms {
	case MemoryStatusOK:
		return "OK"
	case MemoryStatusWarning:
		return "WARNING"
	case MemoryStatusExceeded:
		return "EXCEEDED"
	default:
		return "UNKNOWN"
	}
}

// MemoryInfo is a snapshot of heap usage.
type MemoryInfo struct {
	CurrentMB int64
	LimitMB   int64
	Usage     float64 // 0.0-1.0
	Status    MemoryStatus
}

// MemoryLimit watches the heap while a file is streamed into a page store
// and shrinks the insert batches under pressure.
//
// CheckMemoryUsage calls runtime.ReadMemStats, which stops the world briefly;
// call it once per batch, not per row.
//
// All methods are safe for concurrent use.
type MemoryLimit struct {
	maxMB            int64
	warningThreshold float64
	enabled          atomic.Bool
	// heapMB reads the current heap size; replaced in tests.
	heapMB func() int64
}

// NewMemoryLimit creates an enabled limit of maxMB megabytes.
func NewMemoryLimit(maxMB int64) *MemoryLimit {
	if maxMB <= 0 {
		maxMB = DefaultMemoryLimitMB
	}
	ml := &MemoryLimit{
		maxMB:            min(maxMB, maxMemoryLimitMB),
		warningThreshold: defaultWarningThreshold,
		heapMB:           heapAllocMB,
	}
	ml.enabled.Store(true)
	return ml
}

func heapAllocMB() int64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	mb := stats.HeapAlloc / bytesPerMB
	if mb > uint64(math.MaxInt64) {
		return math.MaxInt64
	}
	return int64(mb)
}

// IsEnabled returns whether memory limits are enabled
func (ml *MemoryLimit) IsEnabled() bool {
	return ml.enabled.Load()
}

// Enable enables memory limit checking
func (ml *MemoryLimit) Enable() {
	ml.enabled.Store(true)
}

// Disable disables memory limit checking
func (ml *MemoryLimit) Disable() {
	ml.enabled.Store(false)
}

// SetWarningThreshold sets the warning threshold (0.0-1.0)
func (ml *MemoryLimit) SetWarningThreshold(threshold float64) {
	if threshold > 0.0 && threshold <= 1.0 {
		ml.warningThreshold = threshold
	}
}

// Info returns the current heap usage.
func (ml *MemoryLimit) Info() MemoryInfo {
	current := ml.heapMB()
	info := MemoryInfo{
		CurrentMB: current,
		LimitMB:   ml.maxMB,
		Usage:     float64(current) / float64(ml.maxMB),
	}
	switch {
	case !ml.IsEnabled():
		info.Status = MemoryStatusOK
	case current >= ml.maxMB:
		info.Status = MemoryStatusExceeded
	case info.Usage >= ml.warningThreshold:
		info.Status = MemoryStatusWarning
	}
	return info
}

// CheckMemoryUsage checks current memory usage against limits
func (ml *MemoryLimit) CheckMemoryUsage() MemoryStatus {
	if !ml.IsEnabled() {
		return MemoryStatusOK
	}
	return ml.Info().Status
}

// ShouldReduceChunkSize halves the batch size near the limit and quarters it
// past the limit. The result is never below minRows.
func (ml *MemoryLimit) ShouldReduceChunkSize(chunkRows, minRows int) (bool, int) {
	var reduced int
	switch ml.CheckMemoryUsage() {
	case MemoryStatusWarning:
		reduced = chunkRows / 2
	case MemoryStatusExceeded:
		reduced = chunkRows / 4
	default:
		return false, chunkRows
	}
	reduced = max(reduced, minRows)
	return reduced < chunkRows, reduced
}

// Error describes the heap usage for an operation that gave up.
func (ml *MemoryLimit) Error(operation string) error {
	info := ml.Info()
	return fmt.Errorf("%w during %s: using %d MB / %d MB (%.1f%%)",
		ErrMemoryLimit, operation, info.CurrentMB, info.LimitMB, info.Usage*100)
}
