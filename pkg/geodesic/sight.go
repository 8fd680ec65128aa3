package geodesic

import (
	"math"
)

// samplesPerVoxel is the number of segment samples per voxel of travel
// along the dominant axis.
const samplesPerVoxel = 4

// tieEpsilon treats a sample this close to a voxel boundary as touching both sides.
const tieEpsilon = 1e-9

// lineOfSight reports whether the straight segment between two voxel centres
// stays inside the foreground. Samples falling exactly on a voxel boundary
// require the voxels on both sides to be foreground.
func (g grid) lineOfSight(az, ay, ax, bz, by, bx int) bool {
	dz, dy, dx := bz-az, by-ay, bx-ax
	span := maxAbs(dz, maxAbs(dy, dx))
	if span <= 1 {
		return g.foreground(bz, by, bx)
	}

	steps := span * samplesPerVoxel
	for k := 1; k < steps; k++ {
		t := float64(k) / float64(steps)
		zs := candidates(float64(az) + t*float64(dz))
		ys := candidates(float64(ay) + t*float64(dy))
		xs := candidates(float64(ax) + t*float64(dx))
		for _, z := range zs {
			for _, y := range ys {
				for _, x := range xs {
					if !g.foreground(z, y, x) {
						return false
					}
				}
			}
		}
	}
	return g.foreground(bz, by, bx)
}

// candidates returns the voxel indices a continuous coordinate falls in.
func candidates(c float64) []int {
	fl := math.Floor(c)
	frac := c - fl
	if math.Abs(frac-0.5) < tieEpsilon {
		return []int{int(fl), int(fl) + 1}
	}
	return []int{int(math.Round(c))}
}

func maxAbs(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a > b {
		return a
	}
	return b
}
