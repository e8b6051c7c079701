package colormap

import (
	"math"
	"testing"

	"github.com/nao1215/tableview/domain/model"
)

func TestColor_Anchors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   ID
		low  model.Color
		high model.Color
	}{
		{id: Viridis, low: model.RGB(68, 1, 84), high: model.RGB(253, 231, 37)},
		{id: Magma, low: model.RGB(0, 0, 3), high: model.RGB(251, 252, 191)},
		{id: RdBu, low: model.RGB(178, 24, 43), high: model.RGB(33, 102, 172)},
		{id: YlOrBr, low: model.RGB(255, 247, 188), high: model.RGB(140, 81, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			t.Parallel()

			if got := Color(0, tt.id); got != tt.low {
				t.Errorf("expected %v at 0, got %v", tt.low, got)
			}
			if got := Color(1, tt.id); got != tt.high {
				t.Errorf("expected %v at 1, got %v", tt.high, got)
			}
		})
	}
}

func TestColor_Clamp(t *testing.T) {
	t.Parallel()

	if Color(-3, Plasma) != Color(0, Plasma) {
		t.Error("expected negative input to clamp to 0")
	}
	if Color(7, Plasma) != Color(1, Plasma) {
		t.Error("expected large input to clamp to 1")
	}
	if Color(math.NaN(), Plasma) != Color(0, Plasma) {
		t.Error("expected NaN to map to 0")
	}
}

func TestColor_Midpoint(t *testing.T) {
	t.Parallel()

	// channels truncate: 125.5 -> 125
	if got := Color(0.5, Magma); got != model.RGB(125, 126, 97) {
		t.Errorf("unexpected Magma midpoint %v", got)
	}
	if got := Color(0.5, Viridis); got != model.RGB(160, 116, 60) {
		t.Errorf("unexpected Viridis midpoint %v", got)
	}
}

func TestColor_Qualitative(t *testing.T) {
	t.Parallel()

	tests := []struct {
		norm float64
		want model.Color
	}{
		{norm: 0, want: model.RGB(31, 119, 180)},
		{norm: 0.19, want: model.RGB(31, 119, 180)},
		{norm: 0.2, want: model.RGB(255, 127, 14)},
		{norm: 0.5, want: model.RGB(44, 160, 44)},
		{norm: 0.6, want: model.RGB(214, 39, 40)},
		{norm: 0.79, want: model.RGB(214, 39, 40)},
		{norm: 0.8, want: model.RGB(148, 103, 189)},
		{norm: 1, want: model.RGB(148, 103, 189)},
	}

	for _, tt := range tests {
		if got := Color(tt.norm, Qualitative); got != tt.want {
			t.Errorf("norm %v: expected %v, got %v", tt.norm, tt.want, got)
		}
	}
}

func TestColor_UnknownPalette(t *testing.T) {
	t.Parallel()

	if got := Color(0.5, ID(99)); got != model.White {
		t.Errorf("expected white, got %v", got)
	}
	if got := Color(0.5, ID(-1)); got != model.White {
		t.Errorf("expected white, got %v", got)
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	for _, id := range IDs() {
		got, ok := Lookup(id.String())
		if !ok || got != id {
			t.Errorf("lookup of %q: expected %d, got %d (%v)", id.String(), id, got, ok)
		}
	}
	if id, ok := Lookup("q_blgrrd"); !ok || id != QBlGrRd {
		t.Error("expected case-insensitive lookup")
	}
	if _, ok := Lookup("jet"); ok {
		t.Error("expected unknown name to fail")
	}
}

func TestNames(t *testing.T) {
	t.Parallel()

	names := Names()
	if len(names) != len(IDs()) {
		t.Fatalf("expected %d names, got %d", len(IDs()), len(names))
	}
	if names[0] != "Viridis" || names[len(names)-1] != "YlOrBr" {
		t.Errorf("unexpected catalogue order %v", names)
	}
	if Default != Viridis {
		t.Error("expected Viridis as the default palette")
	}
}

func TestOfKind(t *testing.T) {
	t.Parallel()

	if got := OfKind(Categorical); len(got) != 1 || got[0] != Qualitative {
		t.Errorf("unexpected categorical palettes %v", got)
	}
	for _, id := range OfKind(Diverging) {
		if id.Kind() != Diverging {
			t.Errorf("%s is not diverging", id)
		}
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	if got := Normalize(5, 0, 10); got != 0.5 {
		t.Errorf("expected 0.5, got %v", got)
	}
	if got := Normalize(5, 5, 5); got != 0 {
		t.Errorf("expected 0 for an empty range, got %v", got)
	}
	if got := Normalize(20, 0, 10); got != 1 {
		t.Errorf("expected clamp to 1, got %v", got)
	}
}
