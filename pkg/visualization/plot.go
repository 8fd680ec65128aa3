package visualization

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"lumendist/internal/models"
	"lumendist/pkg/table"
)

// PlotSize is the output size of saved plots in inches.
type PlotSize struct {
	Width  float64
	Height float64
}

// DefaultPlotSize matches the size used for exported figures.
var DefaultPlotSize = PlotSize{Width: 8, Height: 6}

// pairDistances returns one entry per unordered reachable pair, coloured by
// the source point, plus the largest euclidean distance seen.
func pairDistances(t *models.DistanceTable) (plotter.XYs, []int, float64) {
	order := make(map[int]int, t.Points().Len())
	for i, p := range t.Points().Points() {
		order[p.ID] = i
	}

	var xys plotter.XYs
	var sources []int
	maxEuclid := 0.0
	for _, r := range t.Records() {
		if order[r.SourceID] > order[r.TargetID] {
			continue
		}
		maxEuclid = math.Max(maxEuclid, r.Euclidean)
		if !r.Reachable() {
			continue
		}
		xys = append(xys, plotter.XY{X: r.Euclidean, Y: r.Geodesic})
		sources = append(sources, r.SourceID)
	}
	return xys, sources, maxEuclid
}

// NewScatterPlot builds a plot of geodesic against euclidean distance with
// a y=x reference line. Each unordered pair appears once; unreachable pairs
// are left out.
func NewScatterPlot(t *models.DistanceTable) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Geodesic vs euclidean distance"
	p.X.Label.Text = "Euclidean distance (voxels)"
	p.Y.Label.Text = "Geodesic distance (voxels)"

	xys, sources, maxEuclid := pairDistances(t)

	ref := plotter.NewFunction(func(x float64) float64 { return x })
	ref.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	ref.Width = vg.Points(1)
	p.Add(ref)
	p.Legend.Add("geodesic = euclidean", ref)

	if len(xys) > 0 {
		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("failed to create scatter: %w", err)
		}
		scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			return draw.GlyphStyle{
				Color:  table.PointColor(sources[i]),
				Radius: vg.Points(3),
				Shape:  draw.CircleGlyph{},
			}
		}
		p.Add(scatter)
		p.Legend.Add("point pairs", scatter)
	}

	p.X.Min = 0
	p.Y.Min = 0
	if maxEuclid > 0 {
		p.X.Max = math.Max(p.X.Max, maxEuclid*1.05)
		p.Y.Max = math.Max(p.Y.Max, maxEuclid*1.05)
	}
	p.Legend.Top = true
	p.Legend.Left = true

	return p, nil
}

// SaveScatterPlot renders NewScatterPlot to path. The format follows the
// file extension (png, svg, pdf, ...).
func SaveScatterPlot(t *models.DistanceTable, path string, size PlotSize) error {
	p, err := NewScatterPlot(t)
	if err != nil {
		return err
	}
	if err := p.Save(vg.Length(size.Width)*vg.Inch, vg.Length(size.Height)*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
