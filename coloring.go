package tableview

import (
	"github.com/nao1215/tableview/domain/model"
)

// Anchors of the build-time numeric gradient.
var (
	gradientLow  = model.RGB(0, 0, 255)
	gradientMid  = model.White
	gradientHigh = model.RGB(255, 0, 0)
)

// LabelColors maps a categorical label to its display color.
type LabelColors map[string]model.Color

// ParseLabelColors converts a label to "#rrggbb" table. Entries whose color
// does not parse are skipped.
func ParseLabelColors(m map[string]string) LabelColors {
	out := make(LabelColors, len(m))
	for label, hex := range m {
		c, err := model.ParseHex(hex)
		if err != nil {
			continue
		}
		out[label] = c
	}
	return out
}

// DivergingColor maps v to the blue, white, red gradient spanning [minVal, maxVal].
// An empty range yields white.
func DivergingColor(v, minVal, maxVal float64) model.Color {
	if maxVal == minVal {
		return gradientMid
	}
	t := (v - minVal) / (maxVal - minVal)
	if t < 0.5 {
		return model.Lerp(gradientLow, gradientMid, t*2)
	}
	return model.Lerp(gradientMid, gradientHigh, (t-0.5)*2)
}

// colorNumericColumn gives every cell of a numeric column its gradient background.
func colorNumericColumn(t *model.Table, col int) {
	minVal, maxVal := t.ColumnMinMax(col)
	for r := range t.RowCount() {
		v, _ := t.Get(r, col).Numeric()
		t.SetCellColor(r, col, DivergingColor(v, minVal, maxVal))
	}
}

// colorTextColumn applies a label color table to a text column. Every cell
// gets a readable text color, mapped or not.
func colorTextColumn(t *model.Table, col int, labels LabelColors) {
	for r := range t.RowCount() {
		bg, ok := labels[t.Get(r, col).String()]
		if ok {
			t.SetCellColor(r, col, bg)
		}
		t.SetCellTextColor(r, col, model.ContrastText(bg))
	}
}
