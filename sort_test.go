package tableview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/tableview/domain/model"
)

func TestValueLess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b model.Value
		want bool
	}{
		{name: "numbers", a: model.Float(2), b: model.Float(10), want: true},
		{name: "int and float", a: model.Int(3), b: model.Float(2.5), want: false},
		{name: "texts", a: model.Text("apple"), b: model.Text("banana"), want: true},
		{name: "text against number compares text", a: model.Text("10"), b: model.Float(9), want: true},
		{name: "number against text compares text", a: model.Float(9), b: model.Text("10"), want: false},
		{name: "equal", a: model.Float(1), b: model.Float(1), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, valueLess(tt.a, tt.b))
		})
	}
}

func TestViewModel_Sort(t *testing.T) {
	t.Parallel()

	build := func() *model.Table {
		table := model.NewTable(4, 2)
		table.SetColumnName(0, "name")
		table.SetColumnName(1, "score")
		table.SetColumnNumeric(1, true)
		for r, row := range []struct {
			name  string
			score float64
		}{{"d", 3}, {"a", 1}, {"c", 3}, {"b", 2}} {
			table.Set(r, 0, model.Text(row.name))
			table.Set(r, 1, model.Float(row.score))
		}
		table.SetCellColor(1, 1, yellow)
		table.SetRowBarColor(1, navy)
		table.SetRowVisible(3, false)
		return table
	}
	names := func(vm *ViewModel) []string {
		out := make([]string, vm.RowCount())
		for r := range out {
			v, _ := vm.Display(r, 0)
			out[r] = v.String()
		}
		return out
	}

	t.Run("ascending keeps overrides with their rows", func(t *testing.T) {
		t.Parallel()

		vm := NewViewModel()
		vm.SetData(build())
		rec := newRecorder()
		vm.Subscribe(rec.listener)

		vm.Sort(1, Ascending)
		assert.Equal(t, []string{"a", "b", "d", "c"}, names(vm), "equal keys keep their order")
		assert.Equal(t, yellow, vm.Background(0, 1))
		assert.Equal(t, navy, vm.Table().RowBarColor(0))
		assert.False(t, vm.Table().IsRowVisible(1))
		assert.Equal(t, 1, rec.resets)
	})

	t.Run("descending", func(t *testing.T) {
		t.Parallel()

		vm := NewViewModel()
		vm.SetData(build())
		vm.Sort(1, Descending)
		assert.Equal(t, []string{"d", "c", "b", "a"}, names(vm))
		assert.Equal(t, yellow, vm.Background(3, 1))
	})

	t.Run("text column", func(t *testing.T) {
		t.Parallel()

		vm := NewViewModel()
		vm.SetData(build())
		vm.Sort(0, Ascending)
		assert.Equal(t, []string{"a", "b", "c", "d"}, names(vm))
	})

	t.Run("out of range column", func(t *testing.T) {
		t.Parallel()

		vm := NewViewModel()
		vm.SetData(build())
		rec := newRecorder()
		vm.Subscribe(rec.listener)
		vm.Sort(5, Ascending)
		assert.Equal(t, []string{"d", "a", "c", "b"}, names(vm))
		assert.Zero(t, rec.resets)
	})

	t.Run("by name", func(t *testing.T) {
		t.Parallel()

		vm := NewViewModel()
		vm.SetData(build())
		require.NoError(t, vm.SortByName("name", Descending))
		assert.Equal(t, []string{"d", "c", "b", "a"}, names(vm))
		require.ErrorIs(t, vm.SortByName("missing", Ascending), ErrColumnNotFound)
	})

	assert.Equal(t, "ascending", Ascending.String())
	assert.Equal(t, "descending", Descending.String())
}
