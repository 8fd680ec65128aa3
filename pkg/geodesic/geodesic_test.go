package geodesic

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"lumendist/internal/models"
)

const tolerance = 1e-9

func filledMask(t *testing.T, shape ...int) *models.Mask {
	t.Helper()
	m, err := models.NewFilledMask(shape, true)
	if err != nil {
		t.Fatalf("Failed to create mask: %v", err)
	}
	return m
}

func straightDist(a, b []int) float64 {
	sum := 0.0
	for i := range a {
		d := float64(a[i] - b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// TestPathLengthUnobstructed verifies that open masks measure straight lines
func TestPathLengthUnobstructed(t *testing.T) {
	mask3 := filledMask(t, 10, 10, 10)
	mask2 := filledMask(t, 8, 8)

	tests := []struct {
		name     string
		mask     *models.Mask
		src, dst []int
		want     float64
	}{
		{"axis x", mask3, []int{0, 0, 0}, []int{0, 0, 3}, 3},
		{"axis y", mask3, []int{0, 0, 0}, []int{0, 4, 0}, 4},
		{"oblique", mask3, []int{0, 0, 3}, []int{0, 4, 0}, 5},
		{"space diagonal", mask3, []int{1, 2, 3}, []int{7, 5, 9}, 9},
		{"2D knight move", mask2, []int{0, 0}, []int{1, 2}, math.Sqrt(5)},
		{"same voxel", mask2, []int{3, 3}, []int{3, 3}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := PathLength(tc.mask, tc.src, tc.dst)
			if math.Abs(got-tc.want) > tolerance {
				t.Errorf("Expected %f, got %f", tc.want, got)
			}
		})
	}
}

// TestPathLengthAroundObstacle verifies the path bends around background voxels
func TestPathLengthAroundObstacle(t *testing.T) {
	mask := filledMask(t, 5, 5)
	// Wall in column 2 with a gap in the last row
	for y := 0; y < 4; y++ {
		mask.Set([]int{y, 2}, false)
	}

	src, dst := []int{0, 0}, []int{0, 4}
	got := PathLength(mask, src, dst)
	if math.IsInf(got, 1) {
		t.Fatal("Expected a path through the gap, got unreachable")
	}
	if got <= straightDist(src, dst) {
		t.Errorf("Expected detour longer than %f, got %f", straightDist(src, dst), got)
	}
	// The 8-connected staircase through the gap is under 10
	if got > 12 {
		t.Errorf("Expected detour of at most 12, got %f", got)
	}
}

// TestPathLengthUnreachable covers disconnected and background endpoints
func TestPathLengthUnreachable(t *testing.T) {
	mask := filledMask(t, 6, 6)
	for y := 0; y < 6; y++ {
		mask.Set([]int{y, 3}, false)
	}

	if got := PathLength(mask, []int{0, 0}, []int{0, 5}); !math.IsInf(got, 1) {
		t.Errorf("Expected unreachable across wall, got %f", got)
	}
	if got := PathLength(mask, []int{0, 0}, []int{2, 3}); !math.IsInf(got, 1) {
		t.Errorf("Expected unreachable for background target, got %f", got)
	}
	if got := PathLength(mask, []int{0, 3}, []int{0, 0}); !math.IsInf(got, 1) {
		t.Errorf("Expected unreachable for background source, got %f", got)
	}
	if got := PathLength(mask, []int{0, 0}, []int{9, 9}); !math.IsInf(got, 1) {
		t.Errorf("Expected unreachable for out of bounds target, got %f", got)
	}
}

// TestPropagate checks a full distance map from one seed
func TestPropagate(t *testing.T) {
	mask := filledMask(t, 6, 6)
	mask.Set([]int{5, 5}, false)

	dm, err := Propagate(mask, [][]int{{0, 0}})
	if err != nil {
		t.Fatalf("Propagate failed: %v", err)
	}

	if got := dm.At([]int{0, 0}); got != 0 {
		t.Errorf("Expected 0 at seed, got %f", got)
	}
	if got := dm.At([]int{3, 4}); math.Abs(got-5) > tolerance {
		t.Errorf("Expected 5 at (3,4), got %f", got)
	}
	if got := dm.At([]int{5, 5}); !math.IsInf(got, 1) {
		t.Errorf("Expected background voxel to be unreachable, got %f", got)
	}
}

// TestPropagateMultipleSeeds checks distances resolve to the nearest seed
func TestPropagateMultipleSeeds(t *testing.T) {
	mask := filledMask(t, 1, 1, 9)

	dm, err := Propagate(mask, [][]int{{0, 0, 0}, {0, 0, 8}})
	if err != nil {
		t.Fatalf("Propagate failed: %v", err)
	}

	want := []float64{0, 1, 2, 3, 4, 3, 2, 1, 0}
	for x, w := range want {
		if got := dm.At([]int{0, 0, x}); math.Abs(got-w) > tolerance {
			t.Errorf("x=%d: expected %f, got %f", x, w, got)
		}
	}
}

// TestPropagateNoSeeds verifies seeds in background are rejected
func TestPropagateNoSeeds(t *testing.T) {
	mask := filledMask(t, 4, 4)
	mask.Set([]int{1, 1}, false)

	_, err := Propagate(mask, [][]int{{1, 1}, {7, 7}})
	if !errors.Is(err, ErrNoSeeds) {
		t.Errorf("Expected ErrNoSeeds, got %v", err)
	}
}

// TestGeodesicNeverShorterThanEuclidean runs random masks and endpoints
func TestGeodesicNeverShorterThanEuclidean(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 20; trial++ {
		mask := filledMask(t, 6, 12, 12)
		for i := range mask.Data {
			mask.Data[i] = rng.Float64() > 0.25
		}

		src := []int{rng.Intn(6), rng.Intn(12), rng.Intn(12)}
		dst := []int{rng.Intn(6), rng.Intn(12), rng.Intn(12)}
		mask.Set(src, true)
		mask.Set(dst, true)

		got := PathLength(mask, src, dst)
		if math.IsInf(got, 1) {
			continue
		}
		if want := straightDist(src, dst); got < want-tolerance {
			t.Errorf("trial %d: geodesic %f shorter than euclidean %f", trial, got, want)
		}
	}
}

// TestLineOfSight checks the segment walk against a single blocking voxel
func TestLineOfSight(t *testing.T) {
	mask := filledMask(t, 5, 5)
	g := newGrid(mask)
	if !g.lineOfSight(0, 0, 0, 0, 4, 4) {
		t.Error("Expected clear diagonal on full mask")
	}

	mask.Set([]int{2, 2}, false)
	g = newGrid(mask)
	if g.lineOfSight(0, 0, 0, 0, 4, 4) {
		t.Error("Expected diagonal blocked by centre voxel")
	}
	if !g.lineOfSight(0, 0, 0, 0, 0, 4) {
		t.Error("Expected top row still clear")
	}
}
