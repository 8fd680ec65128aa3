package models

import (
	"fmt"
)

// Point is a labeled marker coordinate. Coordinates are ordered (z, y, x)
// for 3D sets and (y, x) for 2D sets, matching the mask axis order.
type Point struct {
	// ID uniquely identifies the point within its set
	ID int

	// Coord holds the coordinate in voxel units
	Coord []float64
}

// PointSet is an ordered, immutable collection of marker points.
// All points share one dimensionality.
type PointSet struct {
	points []Point
	dims   int
}

// NewPointSet builds a point set from raw coordinates, assigning ids
// 0..n-1 in insertion order.
func NewPointSet(coords [][]float64) (PointSet, error) {
	points := make([]Point, len(coords))
	for i, c := range coords {
		points[i] = Point{ID: i, Coord: c}
	}
	return NewPointSetWithIDs(points)
}

// NewPointSetWithIDs builds a point set from points carrying their own ids.
// Duplicate ids and mixed dimensionality are rejected.
func NewPointSetWithIDs(points []Point) (PointSet, error) {
	ps := PointSet{points: make([]Point, len(points))}
	seen := make(map[int]struct{}, len(points))

	for i, p := range points {
		if _, dup := seen[p.ID]; dup {
			return PointSet{}, fmt.Errorf("duplicate point id %d", p.ID)
		}
		seen[p.ID] = struct{}{}

		if len(p.Coord) != 2 && len(p.Coord) != 3 {
			return PointSet{}, fmt.Errorf("point %d has %d coordinates, expected 2 or 3", p.ID, len(p.Coord))
		}
		if i == 0 {
			ps.dims = len(p.Coord)
		} else if len(p.Coord) != ps.dims {
			return PointSet{}, fmt.Errorf("point %d has %d coordinates, set is %dD", p.ID, len(p.Coord), ps.dims)
		}

		// Callers may reuse their coordinate slices
		coord := make([]float64, len(p.Coord))
		copy(coord, p.Coord)
		ps.points[i] = Point{ID: p.ID, Coord: coord}
	}

	return ps, nil
}

// Len returns the number of points in the set.
func (ps PointSet) Len() int { return len(ps.points) }

// Dims returns 2 or 3, or 0 for an empty set.
func (ps PointSet) Dims() int { return ps.dims }

// At returns the i-th point in insertion order.
func (ps PointSet) At(i int) Point {
	p := ps.points[i]
	coord := make([]float64, len(p.Coord))
	copy(coord, p.Coord)
	return Point{ID: p.ID, Coord: coord}
}

// Points returns a copy of all points in insertion order.
func (ps PointSet) Points() []Point {
	out := make([]Point, len(ps.points))
	for i := range ps.points {
		out[i] = ps.At(i)
	}
	return out
}

// Voxel maps a point to integer voxel indices by truncating toward zero.
func (p Point) Voxel() []int {
	v := make([]int, len(p.Coord))
	for i, c := range p.Coord {
		v[i] = int(c)
	}
	return v
}
