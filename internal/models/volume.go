package models

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
)

// Unreachable is the sentinel distance recorded when no foreground path
// connects two voxels.
var Unreachable = math.Inf(1)

// Mask is a binary volume constraining geodesic paths to foreground voxels.
// Data is stored flat in row-major order: index = z*H*W + y*W + x for 3D
// shapes (D, H, W) and y*W + x for 2D shapes (H, W).
type Mask struct {
	// Shape is (H, W) or (D, H, W)
	Shape []int

	// Data holds one entry per voxel, true for foreground
	Data []bool
}

// NewMask validates the shape against the data length.
func NewMask(shape []int, data []bool) (*Mask, error) {
	n, err := volumeSize(shape)
	if err != nil {
		return nil, err
	}
	if len(data) != n {
		return nil, fmt.Errorf("mask data has %d voxels, shape %v needs %d", len(data), shape, n)
	}
	return &Mask{Shape: append([]int(nil), shape...), Data: data}, nil
}

// NewFilledMask returns a mask of the given shape with every voxel set to value.
func NewFilledMask(shape []int, value bool) (*Mask, error) {
	n, err := volumeSize(shape)
	if err != nil {
		return nil, err
	}
	data := make([]bool, n)
	if value {
		for i := range data {
			data[i] = true
		}
	}
	return &Mask{Shape: append([]int(nil), shape...), Data: data}, nil
}

// Dims returns the dimensionality of the mask.
func (m *Mask) Dims() int { return len(m.Shape) }

// Len returns the total number of voxels.
func (m *Mask) Len() int { return len(m.Data) }

// Contains reports whether the voxel indices lie inside the mask bounds.
func (m *Mask) Contains(voxel []int) bool {
	return inBounds(m.Shape, voxel)
}

// ContainsCoord reports whether a continuous coordinate lies inside the bounds.
func (m *Mask) ContainsCoord(coord []float64) bool {
	if len(coord) != len(m.Shape) {
		return false
	}
	for i, c := range coord {
		if math.IsNaN(c) || c < 0 || c >= float64(m.Shape[i]) {
			return false
		}
	}
	return true
}

// Index converts voxel indices to a flat index. The voxel must be in bounds.
func (m *Mask) Index(voxel []int) int {
	return flatIndex(m.Shape, voxel)
}

// Coord converts a flat index back to voxel indices.
func (m *Mask) Coord(index int) []int {
	return unflatIndex(m.Shape, index)
}

// IsForeground reports whether the voxel is in bounds and foreground.
func (m *Mask) IsForeground(voxel []int) bool {
	if !m.Contains(voxel) {
		return false
	}
	return m.Data[m.Index(voxel)]
}

// Set marks a voxel as foreground or background.
func (m *Mask) Set(voxel []int, value bool) {
	m.Data[m.Index(voxel)] = value
}

// Clone returns a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	data := make([]bool, len(m.Data))
	copy(data, m.Data)
	return &Mask{Shape: append([]int(nil), m.Shape...), Data: data}
}

// Foreground returns the flat indices of all foreground voxels.
func (m *Mask) Foreground() *roaring.Bitmap {
	bm := roaring.New()
	for i, v := range m.Data {
		if v {
			bm.Add(uint32(i))
		}
	}
	return bm
}

// Count returns the number of foreground voxels.
func (m *Mask) Count() int {
	return int(m.Foreground().GetCardinality())
}

// LabelVolume is an integer label image. Voxels with label > 0 are marked.
type LabelVolume struct {
	Shape []int
	Data  []int32
}

// NewLabelVolume validates the shape against the data length.
func NewLabelVolume(shape []int, data []int32) (*LabelVolume, error) {
	n, err := volumeSize(shape)
	if err != nil {
		return nil, err
	}
	if len(data) != n {
		return nil, fmt.Errorf("label data has %d voxels, shape %v needs %d", len(data), shape, n)
	}
	return &LabelVolume{Shape: append([]int(nil), shape...), Data: data}, nil
}

// Labeled returns the flat indices of all voxels with a positive label.
func (lv *LabelVolume) Labeled() *roaring.Bitmap {
	bm := roaring.New()
	for i, v := range lv.Data {
		if v > 0 {
			bm.Add(uint32(i))
		}
	}
	return bm
}

// ToMask thresholds the labels at zero.
func (lv *LabelVolume) ToMask() *Mask {
	data := make([]bool, len(lv.Data))
	for i, v := range lv.Data {
		data[i] = v > 0
	}
	return &Mask{Shape: append([]int(nil), lv.Shape...), Data: data}
}

// DistanceMap holds a per-voxel geodesic distance. Background and
// unreachable voxels hold Unreachable.
type DistanceMap struct {
	Shape []int
	Data  []float64
}

// At returns the distance at the given voxel.
func (dm *DistanceMap) At(voxel []int) float64 {
	if !inBounds(dm.Shape, voxel) {
		return Unreachable
	}
	return dm.Data[flatIndex(dm.Shape, voxel)]
}

// MaxFinite returns the largest finite distance, or 0 when none exists.
func (dm *DistanceMap) MaxFinite() float64 {
	peak := 0.0
	for _, v := range dm.Data {
		if !math.IsInf(v, 0) && v > peak {
			peak = v
		}
	}
	return peak
}

// SameShape reports whether two shapes are identical.
func SameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func volumeSize(shape []int) (int, error) {
	if len(shape) != 2 && len(shape) != 3 {
		return 0, fmt.Errorf("shape %v must be 2D or 3D", shape)
	}
	n := 1
	for _, s := range shape {
		if s <= 0 {
			return 0, fmt.Errorf("shape %v has a non-positive extent", shape)
		}
		n *= s
	}
	// Flat indices are stored in 32-bit bitmaps
	if uint64(n) > math.MaxUint32 {
		return 0, fmt.Errorf("shape %v exceeds %d voxels", shape, uint64(math.MaxUint32))
	}
	return n, nil
}

func inBounds(shape, voxel []int) bool {
	if len(voxel) != len(shape) {
		return false
	}
	for i, v := range voxel {
		if v < 0 || v >= shape[i] {
			return false
		}
	}
	return true
}

func flatIndex(shape, voxel []int) int {
	idx := 0
	for i, v := range voxel {
		idx = idx*shape[i] + v
	}
	return idx
}

func unflatIndex(shape []int, index int) []int {
	voxel := make([]int, len(shape))
	for i := len(shape) - 1; i >= 0; i-- {
		voxel[i] = index % shape[i]
		index /= shape[i]
	}
	return voxel
}
