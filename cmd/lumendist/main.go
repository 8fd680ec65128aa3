package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"lumendist/internal/models"
	"lumendist/pkg/analysis"
	"lumendist/pkg/config"
	"lumendist/pkg/nearest"
	"lumendist/pkg/table"
	"lumendist/pkg/visualization"
	"lumendist/pkg/volumeio"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "lumendist.yaml", "YAML configuration file")
	initConfig := flag.Bool("init-config", false, "Write a default configuration file to -config and exit")
	maskDir := flag.String("mask", "", "Directory containing mask slices (JPEG/PNG)")
	pointsFile := flag.String("points", "", "CSV file of marker points (id,z,y,x or id,y,x)")
	labelsDir := flag.String("labels", "", "Directory containing marker label slices, used instead of -points")
	outputFile := flag.String("output", "", "Output CSV file for the distance table (overrides config)")
	plotFile := flag.String("plot", "", "Output scatter plot image (overrides config)")
	reportFile := flag.String("report", "", "Output HTML heatmap report (overrides config)")
	mapDir := flag.String("map-dir", "", "Directory for distance map slices (overrides config)")
	histFile := flag.String("histogram", "", "Output distance map histogram image (overrides config)")
	snap := flag.Bool("snap", false, "Move points onto the nearest mask voxel before measuring")
	verbose := flag.Bool("verbose", false, "Log progress of the computation")
	flag.Parse()

	if *initConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	// Validate inputs
	if *maskDir == "" || (*pointsFile == "") == (*labelsDir == "") {
		fmt.Fprintln(os.Stderr, "lumendist needs -mask and exactly one of -points or -labels")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyOverrides(cfg, *outputFile, *plotFile, *reportFile, *mapDir, *histFile, *snap, *verbose)

	logger := log.New(io.Discard, "", 0)
	if cfg.Output.Verbose {
		logger = log.New(os.Stderr, "lumendist: ", log.LstdFlags)
	}

	mask, err := volumeio.LoadMaskSlices(*maskDir, cfg.Input.ForegroundThreshold)
	if err != nil {
		log.Fatalf("Failed to load mask: %v", err)
	}
	fmt.Printf("Loaded mask %v with %d foreground voxels\n", mask.Shape, mask.Count())

	marker, err := loadMarker(*pointsFile, *labelsDir, mask, cfg.Input.SnapToMask)
	if err != nil {
		log.Fatalf("Failed to load markers: %v", err)
	}

	startTime := time.Now()
	result, err := analysis.NewRunner(logger).Run(marker, mask)
	if err != nil {
		var insufficient *models.InsufficientPointsError
		var shapeErr *models.IncompatibleShapeError
		switch {
		case errors.As(err, &insufficient):
			log.Fatalf("Distance measurement needs at least 2 points: %v", err)
		case errors.As(err, &shapeErr):
			log.Fatalf("Markers do not match the mask: %v", err)
		default:
			log.Fatalf("Computation failed: %v", err)
		}
	}
	fmt.Printf("Computation completed in %.2f seconds\n", time.Since(startTime).Seconds())

	if result.Map != nil {
		if err := saveMap(result.Map, cfg); err != nil {
			log.Fatalf("Failed to save distance map: %v", err)
		}
		return
	}

	if err := saveTable(result.Table, cfg); err != nil {
		log.Fatalf("Failed to save distance table: %v", err)
	}
}

func applyOverrides(cfg *config.Config, output, plot, report, mapDir, hist string, snap, verbose bool) {
	if output != "" {
		cfg.Output.TableFile = output
	}
	if plot != "" {
		cfg.Output.PlotFile = plot
	}
	if report != "" {
		cfg.Output.ReportFile = report
	}
	if mapDir != "" {
		cfg.Output.MapDir = mapDir
	}
	if hist != "" {
		cfg.Output.HistogramFile = hist
	}
	if snap {
		cfg.Input.SnapToMask = true
	}
	if verbose {
		cfg.Output.Verbose = true
	}
}

// loadMarker resolves the marker input once, at the boundary
func loadMarker(pointsFile, labelsDir string, mask *models.Mask, snap bool) (models.Marker, error) {
	if labelsDir != "" {
		labels, err := volumeio.LoadLabelSlices(labelsDir)
		if err != nil {
			return models.Marker{}, err
		}
		return models.NewLabelsMarker(labels), nil
	}

	points, err := volumeio.LoadPointsFile(pointsFile)
	if err != nil {
		return models.Marker{}, err
	}
	fmt.Printf("Loaded %d marker points\n", points.Len())

	if snap {
		points, err = nearest.SnapToMask(points, mask)
		if err != nil {
			return models.Marker{}, fmt.Errorf("failed to snap points to mask: %w", err)
		}
		fmt.Println("Snapped points to the nearest mask voxel")
	}
	return models.NewPointsMarker(points), nil
}

func saveMap(dm *models.DistanceMap, cfg *config.Config) error {
	viewer := visualization.NewViewer(dm)
	fmt.Printf("Saving distance map slices to: %s\n", cfg.Output.MapDir)
	if err := viewer.SaveSliceSequence("z", cfg.Output.MapDir); err != nil {
		return err
	}

	if cfg.Output.HistogramFile != "" {
		size := visualization.PlotSize{Width: cfg.Plot.Width, Height: cfg.Plot.Height}
		if err := visualization.SaveMapHistogram(dm, cfg.Output.HistogramFile, size); err != nil {
			log.Printf("Warning: %v", err)
		} else {
			fmt.Printf("Distance histogram saved to: %s\n", cfg.Output.HistogramFile)
		}
	}

	fmt.Printf("Largest finite geodesic distance: %.3f\n", dm.MaxFinite())
	return nil
}

func saveTable(t *models.DistanceTable, cfg *config.Config) error {
	f, err := os.Create(cfg.Output.TableFile)
	if err != nil {
		return err
	}
	if err := table.WriteCSV(f, t); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Distance table saved to: %s\n", cfg.Output.TableFile)

	if cfg.Output.PlotFile != "" {
		size := visualization.PlotSize{Width: cfg.Plot.Width, Height: cfg.Plot.Height}
		if err := visualization.SaveScatterPlot(t, cfg.Output.PlotFile, size); err != nil {
			log.Printf("Warning: %v", err)
		} else {
			fmt.Printf("Scatter plot saved to: %s\n", cfg.Output.PlotFile)
		}
	}

	if cfg.Output.ReportFile != "" {
		if err := writeReport(t, cfg.Output.ReportFile); err != nil {
			log.Printf("Warning: failed to write report: %v", err)
		} else {
			fmt.Printf("Heatmap report saved to: %s\n", cfg.Output.ReportFile)
		}
	}

	s := table.Summarize(t)
	fmt.Println("\nDistance summary:")
	fmt.Println("=================")
	fmt.Printf("Records: %d (%d reachable, %d unreachable)\n", s.Records, s.Reachable, s.Unreachable)
	fmt.Printf("Mean euclidean distance: %.3f (sd %.3f)\n", s.MeanEuclidean, s.StdDevEuclidean)
	if s.Reachable > 0 {
		fmt.Printf("Mean geodesic distance: %.3f (sd %.3f)\n", s.MeanGeodesic, s.StdDevGeodesic)
		fmt.Printf("Mean tortuosity: %.3f\n", s.MeanTortuosity)
	}
	return nil
}

func writeReport(t *models.DistanceTable, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return visualization.WriteHeatmapReport(f, t)
}
