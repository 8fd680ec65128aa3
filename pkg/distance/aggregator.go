// Package distance builds pairwise euclidean and geodesic distance tables
// for a set of marker points inside a mask.
//
// Both directions of every pair are stored, so a table over n points holds
// n*(n-1) records. The geodesic primitive is evaluated once per unordered
// pair {i, j} with the earlier point i as source and the later point j as
// target, and the value is mirrored into the (j, i) record. Stored tables
// are therefore exactly symmetric in both distance columns.
//
// Euclidean distances are measured in voxel units with no anisotropy
// correction. The geodesic path runs between the voxels the points fall in,
// with straight legs from each raw coordinate to its voxel added at both
// ends, so a geodesic distance is never shorter than the euclidean one.
package distance

import (
	"fmt"
	"io"
	"log"
	"math"

	"gonum.org/v1/gonum/floats"

	"lumendist/internal/models"
	"lumendist/pkg/geodesic"
)

// PathFunc returns the geodesic distance between two voxels of a mask, or
// models.Unreachable when no foreground path exists.
type PathFunc func(mask *models.Mask, src, dst []int) float64

// Aggregator computes distance tables. The zero value is not usable; build
// one with New.
type Aggregator struct {
	path   PathFunc
	logger *log.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithGeodesic replaces the geodesic primitive.
func WithGeodesic(fn PathFunc) Option {
	return func(a *Aggregator) { a.path = fn }
}

// WithLogger sets the logger used for progress and per-pair failures.
func WithLogger(l *log.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

// New creates an aggregator using geodesic.PathLength by default.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		path:   geodesic.PathLength,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate is shorthand for New(opts...).Aggregate(points, mask).
func Aggregate(points models.PointSet, mask *models.Mask, opts ...Option) (*models.DistanceTable, error) {
	return New(opts...).Aggregate(points, mask)
}

// Aggregate computes the full pairwise distance table. Neither the points
// nor the mask are modified.
//
// It fails with *models.InsufficientPointsError for fewer than two points
// and with *models.IncompatibleShapeError when the points do not live in the
// mask's coordinate space. A pair without a foreground path, or whose
// geodesic evaluation fails, is recorded as models.Unreachable.
func (a *Aggregator) Aggregate(points models.PointSet, mask *models.Mask) (*models.DistanceTable, error) {
	n := points.Len()
	if n < 2 {
		return nil, &models.InsufficientPointsError{N: n}
	}
	if err := CheckShape(points, mask); err != nil {
		return nil, err
	}

	pts := points.Points()
	voxels := make([][]int, n)
	for i, p := range pts {
		voxels[i] = p.Voxel()
	}

	a.logger.Printf("Computing distances for %d points (%d pairs)", n, n*(n-1)/2)

	table := models.NewDistanceTable(points)
	forward := make([][]models.DistanceRecord, n)
	for i := range forward {
		forward[i] = make([]models.DistanceRecord, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			euclid := floats.Distance(pts[i].Coord, pts[j].Coord, 2)
			geo := a.pairGeodesic(mask, voxels[i], voxels[j], pts[i].ID, pts[j].ID)
			if !math.IsInf(geo, 1) {
				geo += voxelOffset(pts[i].Coord, voxels[i]) + voxelOffset(pts[j].Coord, voxels[j])
			}

			forward[i][j] = models.DistanceRecord{SourceID: pts[i].ID, TargetID: pts[j].ID, Euclidean: euclid, Geodesic: geo}
			forward[j][i] = models.DistanceRecord{SourceID: pts[j].ID, TargetID: pts[i].ID, Euclidean: euclid, Geodesic: geo}
		}
	}

	// Row-major order over insertion order of source then target
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				table.Add(forward[i][j])
			}
		}
	}

	return table, nil
}

// pairGeodesic evaluates the primitive for one pair, turning failures into
// the unreachable sentinel.
func (a *Aggregator) pairGeodesic(mask *models.Mask, src, dst []int, srcID, dstID int) (dist float64) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Printf("Warning: geodesic distance %d->%d failed: %v", srcID, dstID, r)
			dist = models.Unreachable
		}
	}()

	dist = a.path(mask, src, dst)
	if math.IsNaN(dist) || dist < 0 {
		a.logger.Printf("Warning: geodesic distance %d->%d returned %f, recording unreachable", srcID, dstID, dist)
		return models.Unreachable
	}
	if math.IsInf(dist, 1) {
		a.logger.Printf("Points %d and %d are not connected within the mask", srcID, dstID)
	}
	return dist
}

// voxelOffset is the distance from a raw coordinate to its voxel centre
func voxelOffset(coord []float64, voxel []int) float64 {
	centre := make([]float64, len(voxel))
	for i, v := range voxel {
		centre[i] = float64(v)
	}
	return floats.Distance(coord, centre, 2)
}

// CheckShape verifies that every point lies inside the mask's coordinate space.
func CheckShape(points models.PointSet, mask *models.Mask) error {
	if mask == nil {
		return &models.IncompatibleShapeError{Dims: points.Dims(), Reason: "mask is missing"}
	}
	if points.Dims() != mask.Dims() {
		return &models.IncompatibleShapeError{
			MaskShape: mask.Shape,
			Dims:      points.Dims(),
			Reason:    fmt.Sprintf("points are %dD, mask is %dD", points.Dims(), mask.Dims()),
		}
	}
	for _, p := range points.Points() {
		if !mask.ContainsCoord(p.Coord) {
			return &models.IncompatibleShapeError{
				MaskShape: mask.Shape,
				Dims:      points.Dims(),
				Reason:    fmt.Sprintf("point %d at %v is outside the mask", p.ID, p.Coord),
			}
		}
	}
	return nil
}
