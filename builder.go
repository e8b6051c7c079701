package tableview

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/nao1215/tableview/domain/model"
)

// ColumnInput is one named column of keyed columnar input.
type ColumnInput struct {
	// Name is the column header.
	Name string
	// Values holds one scalar per row: Go numbers, bool, string, nil or model.Value.
	Values []any
	// Colors optionally colors the labels of a categorical column. It takes
	// precedence over tables supplied through build options.
	Colors LabelColors
}

// ClusterColumn is a categorical column derived from a cluster assignment.
type ClusterColumn struct {
	// Name is the column header. Empty names default to "Cluster N".
	Name string
	// Labels holds the cluster label of each row.
	Labels []string
	// Colors maps each label to its display color.
	Colors LabelColors
}

// DatasetInput is a point dataset flattened for the builder.
type DatasetInput struct {
	// Data is a row-major Rows x Dimensions buffer.
	Data []float32
	// Rows is the number of points.
	Rows int
	// Dimensions is the number of numeric columns. Zero means len(DimensionNames).
	Dimensions int
	// DimensionNames names the numeric columns. Missing or empty names default to "Dimension N".
	DimensionNames []string
	// Clusters are appended after the numeric columns.
	Clusters []ClusterColumn
}

func (d DatasetInput) dimensions() int {
	if d.Dimensions > 0 {
		return d.Dimensions
	}
	return len(d.DimensionNames)
}

func (d DatasetInput) dimensionName(i int) string {
	if i < len(d.DimensionNames) && d.DimensionNames[i] != "" {
		return d.DimensionNames[i]
	}
	return fmt.Sprintf("Dimension %d", i+1)
}

// validate reports why the dataset cannot be built, or nil.
func (d DatasetInput) validate() error {
	dims := d.dimensions()
	hasPoints := len(d.Data) > 0 && dims > 0
	switch {
	case !hasPoints && len(d.Clusters) == 0:
		return fmt.Errorf("%w: no dimensions and no clusters", ErrEmptyData)
	case d.Rows <= 0:
		return fmt.Errorf("%w: %d rows", ErrEmptyData, d.Rows)
	case hasPoints && len(d.Data) < d.Rows*dims:
		return fmt.Errorf("%w: buffer holds %d values, need %d", ErrInvalidData, len(d.Data), d.Rows*dims)
	}
	for i, c := range d.Clusters {
		if len(c.Labels) < d.Rows {
			return fmt.Errorf("%w: cluster column %d has %d labels for %d rows", ErrInvalidData, i, len(c.Labels), d.Rows)
		}
	}
	return nil
}

// Columns converts the dataset to keyed columnar input: numeric dimension
// columns followed by categorical cluster columns. Invalid datasets yield nil.
func (d DatasetInput) Columns() []ColumnInput {
	if d.validate() != nil {
		return nil
	}

	dims := d.dimensions()
	var out []ColumnInput
	if len(d.Data) > 0 {
		for c := range dims {
			values := make([]any, d.Rows)
			for r := range d.Rows {
				values[r] = float64(d.Data[r*dims+c])
			}
			out = append(out, ColumnInput{Name: d.dimensionName(c), Values: values})
		}
	}
	for i, cluster := range d.Clusters {
		name := cluster.Name
		if name == "" {
			name = fmt.Sprintf("Cluster %d", i+1)
		}
		// model.Text never converts to a number, so "1", "2" labels stay categorical
		values := make([]any, d.Rows)
		for r := range d.Rows {
			values[r] = model.Text(cluster.Labels[r])
		}
		out = append(out, ColumnInput{Name: name, Values: values, Colors: cluster.Colors})
	}
	return out
}

// TableBuilder shapes external data into a model.Table and computes the cell
// colors the view reads at paint time.
//
// A TableBuilder is total: malformed input produces an empty table, never a
// partial one.
//
//	table := tableview.NewTableBuilder(
//		tableview.WithLabelColors(colors),
//		tableview.WithNumericGradient(false),
//	).FromColumns(columns)
type TableBuilder struct {
	labelColors       LabelColors
	columnLabelColors map[string]LabelColors
	numericGradient   bool
	logger            *slog.Logger
}

// BuildOption configures a TableBuilder.
type BuildOption func(*TableBuilder)

// WithLabelColors sets the label color table shared by every categorical column.
func WithLabelColors(colors LabelColors) BuildOption {
	return func(b *TableBuilder) {
		b.labelColors = colors
	}
}

// WithColumnLabelColors sets label color tables per column name. A column
// listed here ignores the shared table.
func WithColumnLabelColors(colors map[string]LabelColors) BuildOption {
	return func(b *TableBuilder) {
		b.columnLabelColors = colors
	}
}

// WithNumericGradient enables or disables the blue, white, red background of
// numeric cells. It is enabled by default. Disable it to let the view's
// per-column palettes color numeric cells.
func WithNumericGradient(enabled bool) BuildOption {
	return func(b *TableBuilder) {
		b.numericGradient = enabled
	}
}

// WithLogger sets the logger used to report rejected input.
func WithLogger(logger *slog.Logger) BuildOption {
	return func(b *TableBuilder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewTableBuilder creates a builder with the given options.
func NewTableBuilder(opts ...BuildOption) *TableBuilder {
	b := &TableBuilder{
		numericGradient: true,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildFromColumns builds a table from keyed columnar input.
func BuildFromColumns(inputs []ColumnInput, opts ...BuildOption) *model.Table {
	return NewTableBuilder(opts...).FromColumns(inputs)
}

// BuildFromMap builds a table from a column name to values map. Columns are
// ordered by ascending name.
func BuildFromMap(m map[string][]any, opts ...BuildOption) *model.Table {
	return NewTableBuilder(opts...).FromMap(m)
}

// BuildFromDataset builds a table from a flattened point dataset.
func BuildFromDataset(d DatasetInput, opts ...BuildOption) *model.Table {
	return NewTableBuilder(opts...).FromDataset(d)
}

// FromMap builds a table from a column name to values map. Columns are
// ordered by ascending name.
func (b *TableBuilder) FromMap(m map[string][]any) *model.Table {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)

	inputs := make([]ColumnInput, len(names))
	for i, name := range names {
		inputs[i] = ColumnInput{Name: name, Values: m[name]}
	}
	return b.FromColumns(inputs)
}

// FromDataset builds a table from a flattened point dataset: numeric
// dimension columns then categorical cluster columns.
func (b *TableBuilder) FromDataset(d DatasetInput) *model.Table {
	if err := d.validate(); err != nil {
		b.logger.Debug("rejecting dataset input", slog.String("reason", err.Error()))
		return model.NewTable(0, 0)
	}
	return b.FromColumns(d.Columns())
}

// FromColumns builds a table from keyed columnar input. Every column must
// have the same number of values.
func (b *TableBuilder) FromColumns(inputs []ColumnInput) *model.Table {
	if len(inputs) == 0 {
		return model.NewTable(0, 0)
	}
	rows := len(inputs[0].Values)
	for _, in := range inputs[1:] {
		if len(in.Values) != rows {
			b.logger.Debug("rejecting ragged columnar input",
				slog.String("column", in.Name), slog.Int("rows", len(in.Values)), slog.Int("expected", rows))
			return model.NewTable(0, 0)
		}
	}

	table := model.NewTable(rows, len(inputs))
	for c, in := range inputs {
		table.SetColumnName(c, in.Name)
		if b.fillNumeric(table, c, in.Values) {
			if b.numericGradient {
				colorNumericColumn(table, c)
			}
			continue
		}
		b.fillText(table, c, in.Values)
		if labels := b.labelsFor(in); labels != nil {
			colorTextColumn(table, c, labels)
		}
	}
	return table
}

// fillNumeric stores the column as floats when every value converts to a
// number. It writes nothing and returns false otherwise.
func (b *TableBuilder) fillNumeric(t *model.Table, col int, values []any) bool {
	numbers := make([]float64, len(values))
	for r, v := range values {
		f, ok := toNumber(v)
		if !ok {
			return false
		}
		numbers[r] = f
	}

	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for r, f := range numbers {
		t.Set(r, col, model.Float(f))
		minVal = min(minVal, f)
		maxVal = max(maxVal, f)
	}
	t.SetColumnNumeric(col, true)
	if len(numbers) > 0 {
		t.SetColumnMinMax(col, minVal, maxVal)
	}
	return true
}

// fillText stores a column that failed numeric conversion, keeping each
// cell's original representation.
func (b *TableBuilder) fillText(t *model.Table, col int, values []any) {
	for r, v := range values {
		t.Set(r, col, toValue(v))
	}
	t.SetColumnNumeric(col, false)
}

func (b *TableBuilder) labelsFor(in ColumnInput) LabelColors {
	if in.Colors != nil {
		return in.Colors
	}
	if labels, ok := b.columnLabelColors[in.Name]; ok {
		return labels
	}
	return b.labelColors
}
