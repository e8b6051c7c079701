package tableview

import (
	"github.com/nao1215/tableview/domain/model"
)

// Dataset is any dataset known to the host.
type Dataset interface {
	// ID is stable for the lifetime of the dataset.
	ID() string
	// Name is the display name.
	Name() string
}

// PointDataset is a host dataset of points with numeric dimensions.
type PointDataset interface {
	Dataset
	NumPoints() int
	NumDimensions() int
	DimensionNames() []string
	// PopulateDimensions fills dst, row-major, with the given dimensions of every point.
	PopulateDimensions(dst []float32, dims []int)
	// Children returns derived datasets such as cluster assignments.
	Children() []Dataset
}

// Cluster is one named group of point indices.
type Cluster struct {
	Name    string
	Indices []int
	Color   model.Color
}

// ClusterDataset is a host dataset grouping the points of its parent.
type ClusterDataset interface {
	Dataset
	Clusters() []Cluster
}

// Catalog resolves dataset ids.
type Catalog interface {
	PointDataset(id string) (PointDataset, bool)
}

// populateAll reads every dimension of a point dataset.
func populateAll(p PointDataset) []float32 {
	rows, dims := p.NumPoints(), p.NumDimensions()
	if rows <= 0 || dims <= 0 {
		return nil
	}
	indices := make([]int, dims)
	for i := range indices {
		indices[i] = i
	}
	data := make([]float32, rows*dims)
	p.PopulateDimensions(data, indices)
	return data
}

// DatasetFromPoints flattens a point dataset and its children for the
// builder. Child point datasets with the same number of points are appended
// as extra dimensions; cluster children become categorical columns.
func DatasetFromPoints(p PointDataset) DatasetInput {
	rows := p.NumPoints()
	dims := p.NumDimensions()
	in := DatasetInput{
		Rows:           rows,
		Dimensions:     dims,
		DimensionNames: padNames(p.DimensionNames(), dims),
		Data:           populateAll(p),
	}

	for _, child := range p.Children() {
		if cd, ok := child.(ClusterDataset); ok {
			in.Clusters = append(in.Clusters, clusterColumn(cd, rows))
		}
	}

	for _, child := range p.Children() {
		cp, ok := child.(PointDataset)
		if !ok || cp.NumPoints() != rows || cp.NumDimensions() <= 0 {
			continue
		}
		in = mergeDimensions(in, cp)
	}
	return in
}

// mergeDimensions appends the dimensions of child to every row of in.
func mergeDimensions(in DatasetInput, child PointDataset) DatasetInput {
	childDims := child.NumDimensions()
	childData := populateAll(child)
	merged := in.Dimensions + childDims

	data := make([]float32, in.Rows*merged)
	for r := range in.Rows {
		if len(in.Data) >= (r+1)*in.Dimensions {
			copy(data[r*merged:], in.Data[r*in.Dimensions:(r+1)*in.Dimensions])
		}
		copy(data[r*merged+in.Dimensions:], childData[r*childDims:(r+1)*childDims])
	}

	in.Data = data
	in.DimensionNames = append(padNames(in.DimensionNames, in.Dimensions), padNames(child.DimensionNames(), childDims)...)
	in.Dimensions = merged
	return in
}

// clusterColumn assigns each row the name of the cluster containing it.
// Indices outside the dataset are ignored; the first color of a label wins.
func clusterColumn(cd ClusterDataset, rows int) ClusterColumn {
	col := ClusterColumn{
		Name:   cd.Name(),
		Labels: make([]string, max(rows, 0)),
		Colors: make(LabelColors),
	}
	for _, cluster := range cd.Clusters() {
		if cluster.Name != "" && cluster.Color.Valid {
			if _, seen := col.Colors[cluster.Name]; !seen {
				col.Colors[cluster.Name] = cluster.Color
			}
		}
		for _, idx := range cluster.Indices {
			if idx >= 0 && idx < rows {
				col.Labels[idx] = cluster.Name
			}
		}
	}
	return col
}

// padNames returns exactly n names, keeping existing ones.
func padNames(names []string, n int) []string {
	out := make([]string, max(n, 0))
	copy(out, names)
	return out
}
