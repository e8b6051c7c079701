package tableview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/tableview/domain/model"
)

// fakePoints is an in-memory PointDataset holding row-major data.
type fakePoints struct {
	id       string
	name     string
	rows     int
	dims     int
	names    []string
	data     []float32
	children []Dataset
}

func (p *fakePoints) ID() string               { return p.id }
func (p *fakePoints) Name() string             { return p.name }
func (p *fakePoints) NumPoints() int           { return p.rows }
func (p *fakePoints) NumDimensions() int       { return p.dims }
func (p *fakePoints) DimensionNames() []string { return p.names }
func (p *fakePoints) Children() []Dataset      { return p.children }

func (p *fakePoints) PopulateDimensions(dst []float32, dims []int) {
	for r := range p.rows {
		for i, d := range dims {
			dst[r*len(dims)+i] = p.data[r*p.dims+d]
		}
	}
}

// fakeClusters is an in-memory ClusterDataset.
type fakeClusters struct {
	id       string
	name     string
	clusters []Cluster
}

func (c *fakeClusters) ID() string          { return c.id }
func (c *fakeClusters) Name() string        { return c.name }
func (c *fakeClusters) Clusters() []Cluster { return c.clusters }

func newPoints() *fakePoints {
	return &fakePoints{
		id:    "points",
		name:  "Points",
		rows:  3,
		dims:  2,
		names: []string{"x", "y"},
		data:  []float32{1, 10, 2, 20, 3, 30},
	}
}

func TestDatasetFromPoints(t *testing.T) {
	t.Parallel()

	t.Run("plain points", func(t *testing.T) {
		t.Parallel()

		in := DatasetFromPoints(newPoints())
		assert.Equal(t, 3, in.Rows)
		assert.Equal(t, 2, in.Dimensions)
		assert.Equal(t, []string{"x", "y"}, in.DimensionNames)
		assert.Equal(t, []float32{1, 10, 2, 20, 3, 30}, in.Data)
		assert.Empty(t, in.Clusters)
	})

	t.Run("child points with equal rows are merged", func(t *testing.T) {
		t.Parallel()

		p := newPoints()
		p.children = []Dataset{
			&fakePoints{id: "tsne", rows: 3, dims: 1, names: []string{"t"}, data: []float32{7, 8, 9}},
			&fakePoints{id: "other", rows: 2, dims: 1, data: []float32{0, 0}},
		}

		in := DatasetFromPoints(p)
		assert.Equal(t, 3, in.Dimensions)
		assert.Equal(t, []string{"x", "y", "t"}, in.DimensionNames)
		assert.Equal(t, []float32{1, 10, 7, 2, 20, 8, 3, 30, 9}, in.Data)
	})

	t.Run("clusters become labelled columns", func(t *testing.T) {
		t.Parallel()

		p := newPoints()
		p.children = []Dataset{
			&fakeClusters{id: "k", name: "kmeans", clusters: []Cluster{
				{Name: "A", Indices: []int{0, 2, 99, -1}, Color: yellow},
				{Name: "B", Indices: []int{1}, Color: navy},
				{Name: "A", Indices: nil, Color: pureRed},
			}},
		}

		in := DatasetFromPoints(p)
		require.Len(t, in.Clusters, 1)
		cluster := in.Clusters[0]
		assert.Equal(t, "kmeans", cluster.Name)
		assert.Equal(t, []string{"A", "B", "A"}, cluster.Labels)
		assert.Equal(t, LabelColors{"A": yellow, "B": navy}, cluster.Colors, "first color of a label wins")

		table := BuildFromDataset(in)
		assert.Equal(t, []string{"x", "y", "kmeans"}, table.ColumnNames())
		assert.Equal(t, model.Text("B"), table.Get(1, 2))
		assert.Equal(t, navy, table.CellColor(1, 2))
		assert.Equal(t, model.White, table.CellTextColor(1, 2))
	})

	t.Run("points without dimensions", func(t *testing.T) {
		t.Parallel()

		p := &fakePoints{id: "empty", rows: 2}
		p.children = []Dataset{&fakeClusters{name: "c", clusters: []Cluster{{Name: "only", Indices: []int{0, 1}}}}}

		in := DatasetFromPoints(p)
		table := BuildFromDataset(in)
		assert.Equal(t, []string{"c"}, table.ColumnNames())
		assert.Equal(t, 2, table.RowCount())
	})

	t.Run("missing names are padded", func(t *testing.T) {
		t.Parallel()

		p := newPoints()
		p.names = nil
		table := BuildFromDataset(DatasetFromPoints(p))
		assert.Equal(t, []string{"Dimension 1", "Dimension 2"}, table.ColumnNames())
	})
}
