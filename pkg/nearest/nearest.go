// Package nearest maps marker points onto the closest foreground voxel of a mask.
package nearest

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"

	"lumendist/internal/models"
)

// ErrEmptyMask is returned when the mask has no foreground voxels.
var ErrEmptyMask = errors.New("mask has no foreground voxels")

// voxel is a point in mask coordinates; 2D voxels leave the last axis at zero
type voxel struct {
	c    [3]float64
	dims int
}

// Compare implements the kdtree.Comparable interface
func (v voxel) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(voxel)
	if int(d) >= v.dims {
		panic("illegal dimension")
	}
	return v.c[d] - q.c[d]
}

// Dims returns the number of dimensions for the KD-tree
func (v voxel) Dims() int { return v.dims }

// Distance returns the squared euclidean distance between two voxels
func (v voxel) Distance(c kdtree.Comparable) float64 {
	q := c.(voxel)
	sum := 0.0
	for i := 0; i < v.dims; i++ {
		d := v.c[i] - q.c[i]
		sum += d * d
	}
	return sum
}

// voxels satisfies kdtree.Interface
type voxels []voxel

func (p voxels) Index(i int) kdtree.Comparable         { return p[i] }
func (p voxels) Len() int                              { return len(p) }
func (p voxels) Slice(start, end int) kdtree.Interface { return p[start:end] }

// Pivot implements the kdtree.Interface method
func (p voxels) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(plane{voxels: p, Dim: d}, kdtree.MedianOfRandoms(plane{voxels: p, Dim: d}, 100))
}

// plane implements sort.Interface and kdtree.SortSlicer for voxels
type plane struct {
	voxels
	kdtree.Dim
}

func (p plane) Less(i, j int) bool { return p.voxels[i].c[p.Dim] < p.voxels[j].c[p.Dim] }

func (p plane) Slice(start, end int) kdtree.SortSlicer {
	return plane{voxels: p.voxels[start:end], Dim: p.Dim}
}

func (p plane) Swap(i, j int) {
	p.voxels[i], p.voxels[j] = p.voxels[j], p.voxels[i]
}

func toVoxel(coord []float64) voxel {
	v := voxel{dims: len(coord)}
	copy(v.c[:], coord)
	return v
}

// Index is a k-d tree over the foreground voxels of one mask.
type Index struct {
	tree *kdtree.Tree
	dims int
}

// NewIndex builds the tree. It fails with ErrEmptyMask when no voxel is set.
func NewIndex(mask *models.Mask) (*Index, error) {
	if mask == nil {
		return nil, ErrEmptyMask
	}
	fg := mask.Foreground()
	if fg.IsEmpty() {
		return nil, ErrEmptyMask
	}

	pts := make(voxels, 0, fg.GetCardinality())
	it := fg.Iterator()
	for it.HasNext() {
		idx := mask.Coord(int(it.Next()))
		coord := make([]float64, len(idx))
		for i, v := range idx {
			coord[i] = float64(v)
		}
		pts = append(pts, toVoxel(coord))
	}

	return &Index{tree: kdtree.New(pts, true), dims: mask.Dims()}, nil
}

// Nearest returns the foreground voxel closest to coord and its euclidean distance.
func (ix *Index) Nearest(coord []float64) ([]float64, float64, error) {
	if len(coord) != ix.dims {
		return nil, 0, fmt.Errorf("coordinate has %d dims, index has %d", len(coord), ix.dims)
	}
	got, _ := ix.tree.Nearest(toVoxel(coord))
	v := got.(voxel)
	out := make([]float64, ix.dims)
	copy(out, v.c[:ix.dims])
	return out, math.Sqrt(v.Distance(toVoxel(coord))), nil
}

// SnapToMask maps every point to the nearest foreground voxel, keeping ids
// and order. Points already on foreground voxel centres are unchanged, and
// points outside the mask bounds are pulled onto the closest voxel.
func SnapToMask(points models.PointSet, mask *models.Mask) (models.PointSet, error) {
	if mask == nil {
		return models.PointSet{}, &models.IncompatibleShapeError{Dims: points.Dims(), Reason: "mask is missing"}
	}
	if points.Len() > 0 && points.Dims() != mask.Dims() {
		return models.PointSet{}, &models.IncompatibleShapeError{
			MaskShape: mask.Shape,
			Dims:      points.Dims(),
			Reason:    fmt.Sprintf("points are %dD, mask is %dD", points.Dims(), mask.Dims()),
		}
	}

	ix, err := NewIndex(mask)
	if err != nil {
		return models.PointSet{}, err
	}

	snapped := points.Points()
	for i, p := range snapped {
		coord, _, err := ix.Nearest(p.Coord)
		if err != nil {
			return models.PointSet{}, fmt.Errorf("failed to snap point %d: %w", p.ID, err)
		}
		snapped[i].Coord = coord
	}

	return models.NewPointSetWithIDs(snapped)
}
