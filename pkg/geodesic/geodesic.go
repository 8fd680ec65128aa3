// Package geodesic computes shortest path lengths constrained to the
// foreground of a binary mask.
//
// Paths are propagated from seed voxels with a priority queue over the full
// neighbourhood (8 neighbours in 2D, 26 in 3D). A voxel may take its
// predecessor's parent as its own parent whenever the straight segment
// between the two stays inside the foreground, so unobstructed paths measure
// exactly the straight-line distance instead of a staircase. Every path is a
// chain of straight in-mask segments, which means a geodesic distance is
// never shorter than the euclidean distance between its endpoints.
package geodesic

import (
	"container/heap"
	"errors"
	"math"

	"lumendist/internal/models"
)

// ErrNoSeeds is returned when none of the seeds lie in the foreground.
var ErrNoSeeds = errors.New("no foreground seed voxels")

// grid is a mask viewed as a (depth, height, width) volume. 2D masks get depth 1.
type grid struct {
	d, h, w int
	fg      []bool
}

func newGrid(mask *models.Mask) grid {
	if mask.Dims() == 2 {
		return grid{d: 1, h: mask.Shape[0], w: mask.Shape[1], fg: mask.Data}
	}
	return grid{d: mask.Shape[0], h: mask.Shape[1], w: mask.Shape[2], fg: mask.Data}
}

func (g grid) index(z, y, x int) int { return z*g.h*g.w + y*g.w + x }

func (g grid) coord(i int) (z, y, x int) {
	z = i / (g.h * g.w)
	rem := i % (g.h * g.w)
	return z, rem / g.w, rem % g.w
}

func (g grid) inside(z, y, x int) bool {
	return z >= 0 && z < g.d && y >= 0 && y < g.h && x >= 0 && x < g.w
}

func (g grid) foreground(z, y, x int) bool {
	return g.inside(z, y, x) && g.fg[g.index(z, y, x)]
}

// offset is one step to a neighbouring voxel
type offset struct {
	dz, dy, dx int
	length     float64
}

func neighbourhood(depth int) []offset {
	var out []offset
	zr := 1
	if depth == 1 {
		zr = 0
	}
	for dz := -zr; dz <= zr; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dz == 0 && dy == 0 && dx == 0 {
					continue
				}
				out = append(out, offset{dz, dy, dx, math.Sqrt(float64(dz*dz + dy*dy + dx*dx))})
			}
		}
	}
	return out
}

// entry is a queued voxel with the distance it was queued at
type entry struct {
	index int
	dist  float64
}

type queue []entry

func (q queue) Len() int           { return len(q) }
func (q queue) Less(i, j int) bool { return q[i].dist < q[j].dist }
func (q queue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *queue) Push(x any)        { *q = append(*q, x.(entry)) }
func (q *queue) Pop() any {
	old := *q
	e := old[len(old)-1]
	*q = old[:len(old)-1]
	return e
}

// front holds the propagation state over a grid
type front struct {
	g       grid
	offsets []offset
	dist    []float64
	parent  []int
	closed  []bool
	q       queue
}

func newFront(g grid) *front {
	n := g.d * g.h * g.w
	f := &front{
		g:       g,
		offsets: neighbourhood(g.d),
		dist:    make([]float64, n),
		parent:  make([]int, n),
		closed:  make([]bool, n),
	}
	for i := range f.dist {
		f.dist[i] = models.Unreachable
		f.parent[i] = -1
	}
	return f
}

func (f *front) seed(i int) bool {
	if !f.g.fg[i] || f.dist[i] == 0 {
		return false
	}
	f.dist[i] = 0
	f.parent[i] = i
	heap.Push(&f.q, entry{index: i, dist: 0})
	return true
}

// step settles the nearest open voxel and relaxes its neighbours.
// It returns the settled index, or -1 when the front is exhausted.
func (f *front) step() int {
	for f.q.Len() > 0 {
		e := heap.Pop(&f.q).(entry)
		if f.closed[e.index] || e.dist > f.dist[e.index] {
			continue
		}
		f.closed[e.index] = true
		f.relax(e.index)
		return e.index
	}
	return -1
}

func (f *front) relax(s int) {
	sz, sy, sx := f.g.coord(s)
	p := f.parent[s]
	pz, py, px := f.g.coord(p)

	for _, o := range f.offsets {
		nz, ny, nx := sz+o.dz, sy+o.dy, sx+o.dx
		if !f.g.foreground(nz, ny, nx) {
			continue
		}
		n := f.g.index(nz, ny, nx)
		if f.closed[n] {
			continue
		}

		cand, candParent := f.dist[s]+o.length, s
		if p != s && f.g.lineOfSight(pz, py, px, nz, ny, nx) {
			cand, candParent = f.dist[p]+euclid(pz, py, px, nz, ny, nx), p
		}

		if cand < f.dist[n] {
			f.dist[n] = cand
			f.parent[n] = candParent
			heap.Push(&f.q, entry{index: n, dist: cand})
		}
	}
}

// Propagate computes the geodesic distance from the nearest seed to every
// voxel of the mask. Seeds are voxel index tuples; seeds in background or
// out of bounds are ignored.
func Propagate(mask *models.Mask, seeds [][]int) (*models.DistanceMap, error) {
	g := newGrid(mask)
	f := newFront(g)

	seeded := false
	for _, s := range seeds {
		if !mask.IsForeground(s) {
			continue
		}
		if f.seed(mask.Index(s)) {
			seeded = true
		}
	}
	if !seeded {
		return nil, ErrNoSeeds
	}

	for f.step() >= 0 {
	}

	return &models.DistanceMap{Shape: append([]int(nil), mask.Shape...), Data: f.dist}, nil
}

// PathLength returns the geodesic distance from src to dst within the mask,
// or models.Unreachable when either endpoint is background or no foreground
// path joins them. Propagation stops as soon as dst is settled.
func PathLength(mask *models.Mask, src, dst []int) float64 {
	if !mask.IsForeground(src) || !mask.IsForeground(dst) {
		return models.Unreachable
	}

	g := newGrid(mask)
	f := newFront(g)
	target := mask.Index(dst)
	f.seed(mask.Index(src))

	for {
		i := f.step()
		if i < 0 {
			return models.Unreachable
		}
		if i == target {
			return f.dist[i]
		}
	}
}

func euclid(az, ay, ax, bz, by, bx int) float64 {
	dz, dy, dx := float64(bz-az), float64(by-ay), float64(bx-ax)
	return math.Sqrt(dz*dz + dy*dy + dx*dx)
}
