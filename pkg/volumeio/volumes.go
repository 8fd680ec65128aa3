package volumeio

import (
	"fmt"
	"math"

	"lumendist/internal/models"
)

// LoadMaskSlices loads a binary mask. Pixels whose normalized intensity
// exceeds threshold are foreground.
func LoadMaskSlices(dir string, threshold float64) (*models.Mask, error) {
	stack, err := loadStack(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load mask slices: %w", err)
	}

	shape := stack.shape()
	data := make([]bool, len(stack.images)*stack.width*stack.height)
	stack.each(func(i int, v float64) {
		data[i] = v > threshold
	})

	return models.NewMask(shape, data)
}

// LoadLabelSlices loads a label volume. The label of a pixel is its
// intensity in 8-bit grey levels, so black pixels are unlabeled.
func LoadLabelSlices(dir string) (*models.LabelVolume, error) {
	stack, err := loadStack(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load label slices: %w", err)
	}

	data := make([]int32, len(stack.images)*stack.width*stack.height)
	stack.each(func(i int, v float64) {
		data[i] = int32(math.Round(v * 255))
	})

	return models.NewLabelVolume(stack.shape(), data)
}
