// Package analysis resolves a marker into the geodesic output that suits it.
//
// A label volume or a single marker point produces a distance map over the
// whole mask. Two or more points produce a pairwise distance table.
package analysis

import (
	"fmt"
	"io"
	"log"

	"lumendist/internal/models"
	"lumendist/pkg/distance"
	"lumendist/pkg/geodesic"
)

// Result holds exactly one of Map or Table.
type Result struct {
	Map   *models.DistanceMap
	Table *models.DistanceTable
}

// Runner dispatches markers to the geodesic map or the pairwise aggregator.
type Runner struct {
	aggregator *distance.Aggregator
	logger     *log.Logger
}

// NewRunner creates a runner. A nil logger discards output.
func NewRunner(logger *log.Logger, opts ...distance.Option) *Runner {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	opts = append([]distance.Option{distance.WithLogger(logger)}, opts...)
	return &Runner{
		aggregator: distance.New(opts...),
		logger:     logger,
	}
}

// Run computes the output for the marker within the mask.
func (r *Runner) Run(marker models.Marker, mask *models.Mask) (*Result, error) {
	switch marker.Kind() {
	case models.MarkerLabels:
		return r.runLabels(marker.Labels(), mask)
	case models.MarkerPoints:
		points := marker.Points()
		if points.Len() == 1 {
			return r.runSinglePoint(points, mask)
		}
		table, err := r.aggregator.Aggregate(points, mask)
		if err != nil {
			return nil, err
		}
		return &Result{Table: table}, nil
	default:
		return nil, fmt.Errorf("unsupported marker kind %v", marker.Kind())
	}
}

func (r *Runner) runLabels(labels *models.LabelVolume, mask *models.Mask) (*Result, error) {
	if labels == nil || mask == nil || !models.SameShape(labels.Shape, mask.Shape) {
		var shape []int
		if labels != nil {
			shape = labels.Shape
		}
		var maskShape []int
		if mask != nil {
			maskShape = mask.Shape
		}
		return nil, &models.IncompatibleShapeError{
			MaskShape: maskShape,
			Dims:      len(shape),
			Reason:    fmt.Sprintf("label volume shape %v differs from mask", shape),
		}
	}

	labeled := labels.Labeled()
	seeds := make([][]int, 0, labeled.GetCardinality())
	it := labeled.Iterator()
	for it.HasNext() {
		seeds = append(seeds, mask.Coord(int(it.Next())))
	}
	r.logger.Printf("Computing geodesic distance map from %d labeled voxels", len(seeds))

	dm, err := geodesic.Propagate(mask, seeds)
	if err != nil {
		return nil, fmt.Errorf("failed to compute distance map: %w", err)
	}
	return &Result{Map: dm}, nil
}

func (r *Runner) runSinglePoint(points models.PointSet, mask *models.Mask) (*Result, error) {
	if err := distance.CheckShape(points, mask); err != nil {
		return nil, err
	}

	p := points.At(0)
	r.logger.Printf("Computing geodesic distance map from point %d at %v", p.ID, p.Coord)

	dm, err := geodesic.Propagate(mask, [][]int{p.Voxel()})
	if err != nil {
		return nil, fmt.Errorf("failed to compute distance map from point %d: %w", p.ID, err)
	}
	return &Result{Map: dm}, nil
}
