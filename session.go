package tableview

import (
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/tableview/domain/colormap"
	"github.com/nao1215/tableview/domain/model"
)

// EventType identifies a host notification.
type EventType int

const (
	// EventDatasetAdded reports a new dataset in the host.
	EventDatasetAdded EventType = iota
	// EventDataChanged reports that a dataset's points or children changed.
	EventDataChanged
	// EventDatasetRemoved reports that a dataset is gone.
	EventDatasetRemoved
	// EventSelectionChanged reports a new point selection in a dataset.
	EventSelectionChanged
)

// String returns the event type name
func (e EventType) String() string {
	switch e {
	case EventDatasetAdded:
		return "dataset-added"
	case EventDataChanged:
		return "data-changed"
	case EventDatasetRemoved:
		return "dataset-removed"
	case EventSelectionChanged:
		return "selection-changed"
	default:
		return "unknown"
	}
}

// Event is one host notification.
type Event struct {
	Type EventType
	// DatasetID is the dataset the event concerns.
	DatasetID string
	// Selection holds the selected point indices of EventSelectionChanged.
	Selection []int
}

// EventSource delivers host events to subscribers.
type EventSource interface {
	Subscribe(handler func(Event)) (unsubscribe func())
}

// Session keeps a ViewModel in step with one host dataset.
//
// Events are handled on the goroutine that delivers them; a Session is not
// safe for concurrent use.
type Session struct {
	vm          *ViewModel
	dataset     PointDataset
	buildOpts   []BuildOption
	onSelection func([][]model.Value)
	unsubscribe func()
	logger      *slog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithBuildOptions sets the options used whenever the table is rebuilt.
func WithBuildOptions(opts ...BuildOption) SessionOption {
	return func(s *Session) {
		s.buildOpts = opts
	}
}

// WithSelectionHandler receives the selection values of the current dataset
// whenever the host selection changes.
func WithSelectionHandler(fn func([][]model.Value)) SessionOption {
	return func(s *Session) {
		s.onSelection = fn
	}
}

// WithSessionLogger sets the logger.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession creates a session driving vm.
func NewSession(vm *ViewModel, opts ...SessionOption) *Session {
	s := &Session{
		vm:     vm,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ViewModel returns the driven view-model.
func (s *Session) ViewModel() *ViewModel {
	return s.vm
}

// Dataset returns the current dataset or nil.
func (s *Session) Dataset() PointDataset {
	return s.dataset
}

// SetDataset makes p the current dataset and rebuilds the table. A nil
// dataset clears the view.
func (s *Session) SetDataset(p PointDataset) {
	s.dataset = p
	s.Rebuild()
}

// Rebuild rebuilds the table from the current dataset.
func (s *Session) Rebuild() {
	if s.dataset == nil {
		s.vm.Clear()
		return
	}
	table := BuildFromDataset(DatasetFromPoints(s.dataset), s.buildOpts...)
	s.logger.Debug("rebuilt table",
		slog.String("dataset", s.dataset.ID()),
		slog.Int("rows", table.RowCount()), slog.Int("columns", table.ColumnCount()))
	s.vm.SetData(table)
}

// Attach subscribes the session to src, replacing any earlier subscription.
func (s *Session) Attach(src EventSource) {
	s.Close()
	s.unsubscribe = src.Subscribe(s.Handle)
}

// Close drops the event subscription.
func (s *Session) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Handle applies one host event.
func (s *Session) Handle(e Event) {
	s.logger.Debug("host event", slog.String("type", e.Type.String()), slog.String("dataset", e.DatasetID))
	if e.Type == EventDatasetAdded || !s.isCurrent(e.DatasetID) {
		return
	}
	switch e.Type {
	case EventDataChanged:
		s.Rebuild()
	case EventDatasetRemoved:
		s.dataset = nil
		s.vm.Clear()
	case EventSelectionChanged:
		if s.onSelection != nil {
			s.onSelection(s.vm.SelectionValues(s.vm.ViewRows(e.Selection)))
		}
	}
}

func (s *Session) isCurrent(id string) bool {
	return s.dataset != nil && s.dataset.ID() == id
}

// sessionState is the persisted form of a session.
type sessionState struct {
	Dataset  string         `yaml:"dataset,omitempty"`
	ShowBars bool           `yaml:"show_bars"`
	Palettes map[int]string `yaml:"palettes,omitempty"`
}

// SaveState writes the current dataset id, display mode and column palettes as YAML.
func (s *Session) SaveState(w io.Writer) error {
	state := sessionState{ShowBars: s.vm.ShowBars()}
	if s.dataset != nil {
		state.Dataset = s.dataset.ID()
	}
	if palettes := s.vm.ColumnPalettes(); len(palettes) > 0 {
		state.Palettes = make(map[int]string, len(palettes))
		for col, id := range palettes {
			state.Palettes[col] = id.String()
		}
	}

	enc := yaml.NewEncoder(w)
	if err := enc.Encode(state); err != nil {
		return NewErrorContext("save state", "").Error(err)
	}
	return enc.Close()
}

// RestoreState reads state written by SaveState. The dataset is resolved
// through catalog; an unknown id returns ErrDatasetNotFound and leaves the
// session unchanged. Unknown palette names are skipped.
func (s *Session) RestoreState(r io.Reader, catalog Catalog) error {
	ec := NewErrorContext("restore state", "")

	var state sessionState
	if err := yaml.NewDecoder(r).Decode(&state); err != nil {
		return ec.Error(fmt.Errorf("%w: %w", ErrInvalidData, err))
	}

	var dataset PointDataset
	if state.Dataset != "" {
		p, ok := catalog.PointDataset(state.Dataset)
		if !ok {
			return ec.WithDetails(state.Dataset).Error(ErrDatasetNotFound)
		}
		dataset = p
	}

	s.SetDataset(dataset)
	s.vm.SetShowBars(state.ShowBars)
	for col, name := range state.Palettes {
		id, ok := colormap.Lookup(name)
		if !ok {
			s.logger.Warn("unknown palette in saved state", slog.String("palette", name))
			continue
		}
		s.vm.SetColumnPalette(col, id)
	}
	return nil
}
