// Package visualization renders distance maps and distance tables as images,
// plots and HTML reports.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"

	"lumendist/internal/models"
)

// Viewer extracts 2D slices from a geodesic distance map. Intensities are
// normalized by the largest finite distance; unreachable voxels are black
// and the brightest voxels are the farthest from the seeds.
type Viewer struct {
	dm *models.DistanceMap

	// dimensions of the map; 2D maps have depth 1
	width  int
	height int
	depth  int

	// scale is the largest finite distance
	scale float64
}

// NewViewer creates a viewer over a distance map
func NewViewer(dm *models.DistanceMap) *Viewer {
	v := &Viewer{dm: dm, scale: dm.MaxFinite()}
	if len(dm.Shape) == 2 {
		v.depth, v.height, v.width = 1, dm.Shape[0], dm.Shape[1]
	} else {
		v.depth, v.height, v.width = dm.Shape[0], dm.Shape[1], dm.Shape[2]
	}
	return v
}

// intensity maps a distance to a 16-bit grey level
func (v *Viewer) intensity(d float64) uint16 {
	if math.IsInf(d, 0) || math.IsNaN(d) || v.scale == 0 {
		return 0
	}
	return uint16(math.Max(0, math.Min(65535, d/v.scale*65535)))
}

func (v *Viewer) at(z, y, x int) float64 {
	return v.dm.Data[z*v.width*v.height+y*v.width+x]
}

// ExtractSlice extracts a 2D slice from the map along the specified axis
func (v *Viewer) ExtractSlice(axis string, position int) (image.Image, error) {
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative")
	}

	var img *image.Gray16

	switch axis {
	case "x", "X":
		// YZ plane
		if position >= v.width {
			return nil, fmt.Errorf("position %d exceeds width %d", position, v.width)
		}
		img = image.NewGray16(image.Rect(0, 0, v.depth, v.height))
		for y := 0; y < v.height; y++ {
			for z := 0; z < v.depth; z++ {
				img.SetGray16(z, y, color.Gray16{Y: v.intensity(v.at(z, y, position))})
			}
		}

	case "y", "Y":
		// XZ plane
		if position >= v.height {
			return nil, fmt.Errorf("position %d exceeds height %d", position, v.height)
		}
		img = image.NewGray16(image.Rect(0, 0, v.width, v.depth))
		for z := 0; z < v.depth; z++ {
			for x := 0; x < v.width; x++ {
				img.SetGray16(x, z, color.Gray16{Y: v.intensity(v.at(z, position, x))})
			}
		}

	case "z", "Z":
		// XY plane
		if position >= v.depth {
			return nil, fmt.Errorf("position %d exceeds depth %d", position, v.depth)
		}
		img = image.NewGray16(image.Rect(0, 0, v.width, v.height))
		for y := 0; y < v.height; y++ {
			for x := 0; x < v.width; x++ {
				img.SetGray16(x, y, color.Gray16{Y: v.intensity(v.at(position, y, x))})
			}
		}

	default:
		return nil, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	return img, nil
}

// SaveSlice saves an extracted slice as a JPEG image
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
}

// SaveSliceSequence extracts and saves every slice along the specified axis
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	var maxPos int
	switch axis {
	case "x", "X":
		maxPos = v.width
	case "y", "Y":
		maxPos = v.height
	case "z", "Z":
		maxPos = v.depth
	default:
		return fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	for pos := 0; pos < maxPos; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.jpg", axis, pos))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}
