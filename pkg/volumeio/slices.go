// Package volumeio loads masks, label volumes and marker points from disk.
//
// Volumes are stored as a directory of 2D slice images (JPEG or PNG), one
// file per z plane, ordered by the number embedded in each filename. A
// directory with a single slice loads as a 2D volume.
package volumeio

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// DefaultThreshold is the normalized intensity above which a mask pixel is foreground.
const DefaultThreshold = 0.5

// sliceStack is a loaded image sequence with matching dimensions
type sliceStack struct {
	images []image.Image
	width  int
	height int
}

func (s sliceStack) shape() []int {
	if len(s.images) == 1 {
		return []int{s.height, s.width}
	}
	return []int{len(s.images), s.height, s.width}
}

// each calls fn with the flat index and the normalized intensity of every pixel
func (s sliceStack) each(fn func(i int, v float64)) {
	size := s.width * s.height
	for z, img := range s.images {
		b := img.Bounds()
		for y := 0; y < s.height; y++ {
			for x := 0; x < s.width; x++ {
				r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				fn(z*size+y*s.width+x, float64(r)/65535.0)
			}
		}
	}
}

func loadStack(dir string) (sliceStack, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return sliceStack{}, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return sliceStack{}, fmt.Errorf("no JPG or PNG images found in %s", dir)
	}

	// Slice order follows the number in the filename
	sort.SliceStable(files, func(i, j int) bool {
		return extractNumber(files[i]) < extractNumber(files[j])
	})

	var stack sliceStack
	for _, name := range files {
		img, err := loadImage(filepath.Join(dir, name))
		if err != nil {
			return sliceStack{}, fmt.Errorf("failed to load image %s: %w", name, err)
		}

		b := img.Bounds()
		if len(stack.images) == 0 {
			stack.width, stack.height = b.Dx(), b.Dy()
		} else if b.Dx() != stack.width || b.Dy() != stack.height {
			return sliceStack{}, fmt.Errorf("slice %s is %dx%d, expected %dx%d", name, b.Dx(), b.Dy(), stack.width, stack.height)
		}
		stack.images = append(stack.images, img)
	}
	return stack, nil
}

// extractNumber extracts the numeric part from a filename
func extractNumber(filename string) int {
	var digits strings.Builder
	for _, c := range filepath.Base(filename) {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return n
}

// loadImage decodes a JPEG or PNG file
func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Decode(file)
	default:
		return jpeg.Decode(file)
	}
}
