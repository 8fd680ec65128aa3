package visualization

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"lumendist/internal/models"
)

// viridis is the visual map ramp used for distance heatmaps
var viridis = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// matrix lays the table out as an n x n heatmap. Unreachable and diagonal
// cells are left empty.
func matrix(t *models.DistanceTable, value func(models.DistanceRecord) (float64, bool)) ([]opts.HeatMapData, []string, float64) {
	points := t.Points().Points()
	labels := make([]string, len(points))
	order := make(map[int]int, len(points))
	for i, p := range points {
		labels[i] = strconv.Itoa(p.ID)
		order[p.ID] = i
	}

	data := make([]opts.HeatMapData, 0, t.Len())
	peak := 0.0
	for _, r := range t.Records() {
		v, ok := value(r)
		if !ok {
			continue
		}
		if v > peak {
			peak = v
		}
		data = append(data, opts.HeatMapData{Value: [3]interface{}{order[r.TargetID], order[r.SourceID], v}})
	}
	return data, labels, peak
}

func newHeatMap(title string, data []opts.HeatMapData, labels []string, peak float64) *charts.HeatMap {
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "720px", Height: "720px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("points=%d", len(labels))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: labels, Name: "target"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: labels, Name: "source"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(peak),
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	hm.AddSeries(title, data)
	return hm
}

// WriteHeatmapReport renders an HTML page with geodesic and euclidean
// distance matrices. Unreachable pairs appear as empty geodesic cells.
func WriteHeatmapReport(w io.Writer, t *models.DistanceTable) error {
	geoData, labels, geoPeak := matrix(t, func(r models.DistanceRecord) (float64, bool) {
		return r.Geodesic, r.Reachable()
	})
	euclidData, _, euclidPeak := matrix(t, func(r models.DistanceRecord) (float64, bool) {
		return r.Euclidean, true
	})

	page := components.NewPage()
	page.PageTitle = "Distance measurements"
	page.AddCharts(
		newHeatMap("Geodesic distance", geoData, labels, geoPeak),
		newHeatMap("Euclidean distance", euclidData, labels, euclidPeak),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}
