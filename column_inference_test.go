package tableview

import (
	"math"
	"testing"
	"time"

	"github.com/nao1215/tableview/domain/model"
)

func TestInferColumnType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		values   []string
		expected columnType
	}{
		{
			name:     "all integers",
			values:   []string{"123", "456", "789"},
			expected: columnTypeInteger,
		},
		{
			name:     "mixed integers and floats",
			values:   []string{"123", "45.6", "789"},
			expected: columnTypeReal,
		},
		{
			name:     "mixed numbers and text",
			values:   []string{"123", "hello", "789"},
			expected: columnTypeText,
		},
		{
			name:     "empty values",
			values:   []string{"", "", ""},
			expected: columnTypeText,
		},
		{
			name:     "integers with empty values",
			values:   []string{"123", "", "789"},
			expected: columnTypeInteger,
		},
		{
			name:     "negative floats",
			values:   []string{"-12.3", "45.6", "-78.9"},
			expected: columnTypeReal,
		},
		{
			name:     "scientific notation",
			values:   []string{"1e10", "2.5e-3", "3.14e2"},
			expected: columnTypeReal,
		},
		{
			name:     "ISO8601 dates",
			values:   []string{"2023-01-15", "2023-02-20", "2023-03-10"},
			expected: columnTypeDatetime,
		},
		{
			name:     "RFC3339 timestamps",
			values:   []string{"2023-01-15T10:30:00Z", "2023-02-20T14:45:30+09:00"},
			expected: columnTypeDatetime,
		},
		{
			name:     "US dates",
			values:   []string{"1/15/2023", "12/31/2023"},
			expected: columnTypeDatetime,
		},
		{
			name:     "invalid date stays text",
			values:   []string{"2023-13-45"},
			expected: columnTypeText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := inferColumnType(tt.values); got != tt.expected {
				t.Errorf("inferColumnType(%v) = %v, want %v", tt.values, got, tt.expected)
			}
		})
	}
}

func TestTypedValues(t *testing.T) {
	t.Parallel()

	t.Run("integers", func(t *testing.T) {
		t.Parallel()

		got := typedValues([]string{"1", " 2 ", ""}, columnTypeInteger)
		if got[0] != int64(1) || got[1] != int64(2) || got[2] != nil {
			t.Errorf("typedValues() = %#v", got)
		}
	})

	t.Run("reals", func(t *testing.T) {
		t.Parallel()

		got := typedValues([]string{"1.5", "2"}, columnTypeReal)
		if got[0] != 1.5 || got[1] != 2.0 {
			t.Errorf("typedValues() = %#v", got)
		}
	})

	t.Run("datetimes keep their text", func(t *testing.T) {
		t.Parallel()

		got := typedValues([]string{"2023-01-15"}, columnTypeDatetime)
		if got[0] != "2023-01-15" {
			t.Errorf("typedValues() = %#v", got)
		}
	})
}

func TestToNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     any
		want   float64
		wantOK bool
	}{
		{name: "float64", in: 1.5, want: 1.5, wantOK: true},
		{name: "float32", in: float32(0.5), want: 0.5, wantOK: true},
		{name: "int", in: 42, want: 42, wantOK: true},
		{name: "uint8", in: uint8(7), want: 7, wantOK: true},
		{name: "true", in: true, want: 1, wantOK: true},
		{name: "false", in: false, want: 0, wantOK: true},
		{name: "numeric string", in: " 3.25 ", want: 3.25, wantOK: true},
		{name: "text string", in: "abc", wantOK: false},
		{name: "nil", in: nil, wantOK: false},
		{name: "model int", in: model.Int(9), want: 9, wantOK: true},
		{name: "model text is never numeric", in: model.Text("1"), wantOK: false},
		{name: "struct", in: struct{}{}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := toNumber(tt.in)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("toNumber(%#v) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestToValue(t *testing.T) {
	t.Parallel()

	when := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	tests := []struct {
		name string
		in   any
		want model.Value
	}{
		{name: "nil", in: nil, want: model.Text("")},
		{name: "string", in: "x", want: model.Text("x")},
		{name: "int", in: 3, want: model.Int(3)},
		{name: "float", in: 2.5, want: model.Float(2.5)},
		{name: "bool", in: true, want: model.Text("true")},
		{name: "bytes", in: []byte("raw"), want: model.Text("raw")},
		{name: "time", in: when, want: model.Text("2024-05-06T07:08:09Z")},
		{name: "large uint64", in: uint64(math.MaxUint64), want: model.Float(float64(uint64(math.MaxUint64)))},
		{name: "model value", in: model.Int(5), want: model.Int(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := toValue(tt.in); !got.Equal(tt.want) {
				t.Errorf("toValue(%#v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
