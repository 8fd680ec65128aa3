package visualization

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"lumendist/internal/models"
)

// ErrNoFiniteDistances is returned when a distance map has no reachable voxel.
var ErrNoFiniteDistances = errors.New("distance map has no finite distances")

// histogramBins is the bin count used for distance map histograms
const histogramBins = 50

// finiteDistances returns the reachable voxel distances of a map
func finiteDistances(dm *models.DistanceMap) plotter.Values {
	vs := make(plotter.Values, 0, len(dm.Data))
	for _, v := range dm.Data {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			vs = append(vs, v)
		}
	}
	return vs
}

// NewMapHistogram builds a histogram of the finite geodesic distances in a
// distance map. Unreachable voxels are left out.
func NewMapHistogram(dm *models.DistanceMap) (*plot.Plot, error) {
	vs := finiteDistances(dm)
	if len(vs) == 0 {
		return nil, ErrNoFiniteDistances
	}

	p := plot.New()
	p.Title.Text = "Geodesic distance map"
	p.X.Label.Text = "Geodesic distance (voxels)"
	p.Y.Label.Text = "Voxels"

	h, err := plotter.NewHist(vs, histogramBins)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram: %w", err)
	}
	p.Add(h)

	return p, nil
}

// SaveMapHistogram renders NewMapHistogram to path. The format follows the
// file extension.
func SaveMapHistogram(dm *models.DistanceMap, path string, size PlotSize) error {
	p, err := NewMapHistogram(dm)
	if err != nil {
		return err
	}
	if err := p.Save(vg.Length(size.Width)*vg.Inch, vg.Length(size.Height)*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save histogram: %w", err)
	}
	return nil
}
