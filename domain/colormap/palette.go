// Package colormap maps normalized scalars to colors through a fixed set of
// named palettes.
package colormap

import (
	"math"
	"slices"
	"strings"

	"github.com/nao1215/tableview/domain/model"
)

// ID identifies a palette.
type ID int

// Palette identifiers, in catalogue order.
const (
	Viridis ID = iota
	Magma
	Plasma
	BrBG
	BuPu
	GnBu
	PiYG
	PuOr
	QBlGrRd
	Qualitative
	RdBu
	RdPu
	RdYlBu
	RdYlGn
	Reds
	Spectral
	YlGn
	YlGnBu
	YlOrBr
)

// Default is the palette used for columns without an explicit selection.
const Default = Viridis

// Kind classifies a palette.
type Kind int

const (
	// Sequential palettes run from low to high.
	Sequential Kind = iota
	// Diverging palettes run between two contrasting extremes.
	Diverging
	// Categorical palettes use a few distinct swatches.
	Categorical
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case Sequential:
		return "sequential"
	case Diverging:
		return "diverging"
	case Categorical:
		return "qualitative"
	default:
		return "unknown"
	}
}

// palette is one catalogue entry. Interpolating palettes blend low to high;
// categorical palettes pick a swatch per bucket.
type palette struct {
	name     string
	kind     Kind
	low      model.Color
	high     model.Color
	swatches []model.Color
}

// catalogue is indexed by ID. It is never modified after init.
var catalogue = []palette{
	Viridis:     {name: "Viridis", kind: Sequential, low: model.RGB(68, 1, 84), high: model.RGB(253, 231, 37)},
	Magma:       {name: "Magma", kind: Sequential, low: model.RGB(0, 0, 3), high: model.RGB(251, 252, 191)},
	Plasma:      {name: "Plasma", kind: Sequential, low: model.RGB(13, 8, 135), high: model.RGB(240, 249, 33)},
	BrBG:        {name: "BrBG", kind: Diverging, low: model.RGB(140, 81, 10), high: model.RGB(1, 102, 94)},
	BuPu:        {name: "BuPu", kind: Sequential, low: model.RGB(247, 252, 253), high: model.RGB(136, 65, 157)},
	GnBu:        {name: "GnBu", kind: Sequential, low: model.RGB(240, 249, 232), high: model.RGB(8, 64, 129)},
	PiYG:        {name: "PiYG", kind: Diverging, low: model.RGB(197, 27, 125), high: model.RGB(77, 146, 33)},
	PuOr:        {name: "PuOr", kind: Diverging, low: model.RGB(241, 163, 64), high: model.RGB(153, 142, 195)},
	QBlGrRd:     {name: "Q_BlGrRd", kind: Diverging, low: model.RGB(44, 123, 182), high: model.RGB(215, 25, 28)},
	Qualitative: {name: "Qualitative", kind: Categorical, swatches: qualitativeSwatches},
	RdBu:        {name: "RdBu", kind: Diverging, low: model.RGB(178, 24, 43), high: model.RGB(33, 102, 172)},
	RdPu:        {name: "RdPu", kind: Sequential, low: model.RGB(253, 224, 221), high: model.RGB(134, 1, 175)},
	RdYlBu:      {name: "RdYlBu", kind: Diverging, low: model.RGB(252, 141, 89), high: model.RGB(145, 191, 219)},
	RdYlGn:      {name: "RdYlGn", kind: Diverging, low: model.RGB(252, 141, 89), high: model.RGB(145, 207, 96)},
	Reds:        {name: "Reds", kind: Sequential, low: model.RGB(254, 229, 217), high: model.RGB(165, 15, 21)},
	Spectral:    {name: "Spectral", kind: Diverging, low: model.RGB(158, 1, 66), high: model.RGB(94, 79, 162)},
	YlGn:        {name: "YlGn", kind: Sequential, low: model.RGB(255, 255, 229), high: model.RGB(0, 104, 55)},
	YlGnBu:      {name: "YlGnBu", kind: Sequential, low: model.RGB(255, 255, 217), high: model.RGB(8, 29, 88)},
	YlOrBr:      {name: "YlOrBr", kind: Sequential, low: model.RGB(255, 247, 188), high: model.RGB(140, 81, 10)},
}

var qualitativeSwatches = []model.Color{
	model.RGB(31, 119, 180),
	model.RGB(255, 127, 14),
	model.RGB(44, 160, 44),
	model.RGB(214, 39, 40),
	model.RGB(148, 103, 189),
}

// byName indexes the catalogue by lower-cased name.
var byName = func() map[string]ID {
	m := make(map[string]ID, len(catalogue))
	for id, p := range catalogue {
		m[strings.ToLower(p.name)] = ID(id)
	}
	return m
}()

// Color maps norm to a color of palette id. norm is clamped to [0, 1] and NaN
// maps to 0. Unknown palettes yield white.
func Color(norm float64, id ID) model.Color {
	if !id.Valid() {
		return model.White
	}
	norm = clamp(norm)
	p := catalogue[id]
	if p.kind == Categorical {
		return bucket(norm, p.swatches)
	}
	return model.Lerp(p.low, p.high, norm)
}

// Normalize maps v into [0, 1] relative to [minVal, maxVal]. An empty range maps to 0.
func Normalize(v, minVal, maxVal float64) float64 {
	if maxVal == minVal {
		return 0
	}
	return clamp((v - minVal) / (maxVal - minVal))
}

// bucket picks one of n swatches using equal-width buckets of [0, 1].
func bucket(norm float64, swatches []model.Color) model.Color {
	n := len(swatches)
	for i := range n - 1 {
		if norm < float64(i+1)/float64(n) {
			return swatches[i]
		}
	}
	return swatches[n-1]
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Valid reports whether id names a palette.
func (id ID) Valid() bool {
	return id >= 0 && int(id) < len(catalogue)
}

// String returns the palette name, or "" for an unknown id.
func (id ID) String() string {
	if !id.Valid() {
		return ""
	}
	return catalogue[id].name
}

// Kind returns the palette classification.
func (id ID) Kind() Kind {
	if !id.Valid() {
		return Sequential
	}
	return catalogue[id].kind
}

// Lookup finds a palette by name, ignoring case.
func Lookup(name string) (ID, bool) {
	id, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// Names returns every palette name in catalogue order.
func Names() []string {
	names := make([]string, len(catalogue))
	for i, p := range catalogue {
		names[i] = p.name
	}
	return names
}

// IDs returns every palette id in catalogue order.
func IDs() []ID {
	ids := make([]ID, len(catalogue))
	for i := range ids {
		ids[i] = ID(i)
	}
	return ids
}

// OfKind returns the palettes of one kind in catalogue order.
func OfKind(k Kind) []ID {
	return slices.DeleteFunc(IDs(), func(id ID) bool { return id.Kind() != k })
}
