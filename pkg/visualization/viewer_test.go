package visualization

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lumendist/internal/models"
)

// rampMap builds a distance map whose value equals the z index, with the
// last voxel unreachable
func rampMap(width, height, depth int) *models.DistanceMap {
	data := make([]float64, width*height*depth)
	for z := 0; z < depth; z++ {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				data[z*width*height+y*width+x] = float64(z)
			}
		}
	}
	data[len(data)-1] = models.Unreachable
	return &models.DistanceMap{Shape: []int{depth, height, width}, Data: data}
}

func sampleTable(t *testing.T) *models.DistanceTable {
	t.Helper()
	points, err := models.NewPointSet([][]float64{{0, 0}, {0, 3}, {4, 0}})
	if err != nil {
		t.Fatalf("Failed to create points: %v", err)
	}
	tbl := models.NewDistanceTable(points)
	tbl.Add(models.DistanceRecord{SourceID: 0, TargetID: 1, Euclidean: 3, Geodesic: 3})
	tbl.Add(models.DistanceRecord{SourceID: 0, TargetID: 2, Euclidean: 4, Geodesic: 4.5})
	tbl.Add(models.DistanceRecord{SourceID: 1, TargetID: 0, Euclidean: 3, Geodesic: 3})
	tbl.Add(models.DistanceRecord{SourceID: 1, TargetID: 2, Euclidean: 5, Geodesic: models.Unreachable})
	tbl.Add(models.DistanceRecord{SourceID: 2, TargetID: 0, Euclidean: 4, Geodesic: 4.5})
	tbl.Add(models.DistanceRecord{SourceID: 2, TargetID: 1, Euclidean: 5, Geodesic: models.Unreachable})
	return tbl
}

// TestExtractSlice verifies slices are normalized by the largest finite distance
func TestExtractSlice(t *testing.T) {
	width, height, depth := 6, 4, 5
	viewer := NewViewer(rampMap(width, height, depth))

	for z := 0; z < depth; z++ {
		img, err := viewer.ExtractSlice("z", z)
		if err != nil {
			t.Fatalf("Failed to extract Z slice at position %d: %v", z, err)
		}

		bounds := img.Bounds()
		if bounds.Dx() != width || bounds.Dy() != height {
			t.Errorf("Expected Z slice dimensions %dx%d, got %dx%d", width, height, bounds.Dx(), bounds.Dy())
		}

		gray, ok := img.(*image.Gray16)
		if !ok {
			t.Fatalf("Expected *image.Gray16, got %T", img)
		}
		want := uint16(float64(z) / float64(depth-1) * 65535)
		if got := gray.Gray16At(0, 0).Y; math.Abs(float64(got)-float64(want)) > 1 {
			t.Errorf("z=%d: expected ~%d, got %d", z, want, got)
		}
	}

	last, _ := viewer.ExtractSlice("z", depth-1)
	if got := last.(*image.Gray16).Gray16At(width-1, height-1).Y; got != 0 {
		t.Errorf("Expected unreachable voxel to be black, got %d", got)
	}

	imgX, err := viewer.ExtractSlice("x", width/2)
	if err != nil {
		t.Fatalf("Failed to extract X slice: %v", err)
	}
	if b := imgX.Bounds(); b.Dx() != depth || b.Dy() != height {
		t.Errorf("Expected X slice dimensions %dx%d, got %dx%d", depth, height, b.Dx(), b.Dy())
	}

	imgY, err := viewer.ExtractSlice("y", height/2)
	if err != nil {
		t.Fatalf("Failed to extract Y slice: %v", err)
	}
	if b := imgY.Bounds(); b.Dx() != width || b.Dy() != depth {
		t.Errorf("Expected Y slice dimensions %dx%d, got %dx%d", width, depth, b.Dx(), b.Dy())
	}

	if _, err := viewer.ExtractSlice("invalid", 0); err == nil {
		t.Error("Expected error for invalid axis, got nil")
	}
	if _, err := viewer.ExtractSlice("z", depth+1); err == nil {
		t.Error("Expected error for out of bounds position, got nil")
	}
	if _, err := viewer.ExtractSlice("z", -1); err == nil {
		t.Error("Expected error for negative position, got nil")
	}
}

// TestViewer2D checks 2D maps are treated as a single z plane
func TestViewer2D(t *testing.T) {
	dm := &models.DistanceMap{Shape: []int{2, 3}, Data: []float64{0, 1, 2, 3, 4, 5}}
	viewer := NewViewer(dm)

	img, err := viewer.ExtractSlice("z", 0)
	if err != nil {
		t.Fatalf("Failed to extract slice: %v", err)
	}
	if got := img.(*image.Gray16).Gray16At(2, 1).Y; got != 65535 {
		t.Errorf("Expected brightest pixel at the largest distance, got %d", got)
	}
	if _, err := viewer.ExtractSlice("z", 1); err == nil {
		t.Error("Expected error for second plane of a 2D map")
	}
}

// TestSaveSliceSequence verifies that a sequence of slices can be saved
func TestSaveSliceSequence(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping file I/O test in short mode")
	}

	depth := 3
	viewer := NewViewer(rampMap(5, 5, depth))

	outputDir := filepath.Join(t.TempDir(), "slices")
	if err := viewer.SaveSliceSequence("z", outputDir); err != nil {
		t.Fatalf("Failed to save slice sequence: %v", err)
	}

	for z := 0; z < depth; z++ {
		filename := filepath.Join(outputDir, fmt.Sprintf("slice_z_%03d.jpg", z))
		if _, err := os.Stat(filename); os.IsNotExist(err) {
			t.Errorf("Expected slice file does not exist: %s", filename)
		}
	}

	if err := viewer.SaveSliceSequence("invalid", outputDir); err == nil {
		t.Error("Expected error for invalid axis, got nil")
	}
}

// TestPairDistances checks each unordered reachable pair is plotted once
func TestPairDistances(t *testing.T) {
	xys, sources, maxEuclid := pairDistances(sampleTable(t))

	if len(xys) != 2 {
		t.Fatalf("Expected 2 plotted pairs, got %d", len(xys))
	}
	if len(sources) != len(xys) {
		t.Errorf("Expected one source per pair, got %d", len(sources))
	}
	if maxEuclid != 5 {
		t.Errorf("Expected largest euclidean 5, got %f", maxEuclid)
	}
	if xys[1].X != 4 || xys[1].Y != 4.5 {
		t.Errorf("Unexpected second pair %+v", xys[1])
	}
}

// TestSaveScatterPlot renders the plot to a PNG file
func TestSaveScatterPlot(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping file I/O test in short mode")
	}

	path := filepath.Join(t.TempDir(), "distances.png")
	if err := SaveScatterPlot(sampleTable(t), path, DefaultPlotSize); err != nil {
		t.Fatalf("SaveScatterPlot failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Plot file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Plot file is empty")
	}
}

// TestWriteHeatmapReport checks the HTML report contains both matrices
func TestWriteHeatmapReport(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHeatmapReport(&buf, sampleTable(t)); err != nil {
		t.Fatalf("WriteHeatmapReport failed: %v", err)
	}

	html := buf.String()
	for _, want := range []string{"Geodesic distance", "Euclidean distance", "heatmap"} {
		if !strings.Contains(html, want) {
			t.Errorf("Expected report to contain %q", want)
		}
	}
}

// TestMatrixSkipsUnreachable checks unreachable geodesic cells are left out
func TestMatrixSkipsUnreachable(t *testing.T) {
	tbl := sampleTable(t)

	geo, labels, peak := matrix(tbl, func(r models.DistanceRecord) (float64, bool) {
		return r.Geodesic, r.Reachable()
	})
	if len(geo) != 4 {
		t.Errorf("Expected 4 geodesic cells, got %d", len(geo))
	}
	if len(labels) != 3 {
		t.Errorf("Expected 3 labels, got %d", len(labels))
	}
	if peak != 4.5 {
		t.Errorf("Expected peak 4.5, got %f", peak)
	}
}

// TestFiniteDistances checks unreachable voxels are left out of the histogram
func TestFiniteDistances(t *testing.T) {
	dm := rampMap(3, 2, 4)
	vs := finiteDistances(dm)
	if len(vs) != len(dm.Data)-1 {
		t.Errorf("Expected %d finite values, got %d", len(dm.Data)-1, len(vs))
	}
	for _, v := range vs {
		if math.IsInf(v, 0) {
			t.Fatal("Unreachable voxel in histogram values")
		}
	}
}

// TestSaveMapHistogram renders the histogram to a PNG file
func TestSaveMapHistogram(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping file I/O test in short mode")
	}

	path := filepath.Join(t.TempDir(), "histogram.png")
	if err := SaveMapHistogram(rampMap(4, 4, 5), path, DefaultPlotSize); err != nil {
		t.Fatalf("SaveMapHistogram failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Histogram file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Histogram file is empty")
	}
}

// TestMapHistogramUnreachable rejects maps without reachable voxels
func TestMapHistogramUnreachable(t *testing.T) {
	dm := &models.DistanceMap{Shape: []int{1, 2}, Data: []float64{models.Unreachable, models.Unreachable}}
	if _, err := NewMapHistogram(dm); !errors.Is(err, ErrNoFiniteDistances) {
		t.Errorf("Expected ErrNoFiniteDistances, got %v", err)
	}
}
