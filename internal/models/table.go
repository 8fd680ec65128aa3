package models

import (
	"math"
)

// DistanceRecord holds both distances for one ordered pair of points.
type DistanceRecord struct {
	SourceID int
	TargetID int

	// Euclidean is the straight-line distance in voxel units
	Euclidean float64

	// Geodesic is the shortest in-mask path length, or Unreachable
	Geodesic float64
}

// Reachable reports whether a foreground path connects the pair.
func (r DistanceRecord) Reachable() bool {
	return !math.IsInf(r.Geodesic, 1) && !math.IsNaN(r.Geodesic)
}

type pairKey struct {
	source, target int
}

// DistanceTable is the set of distance records for a point set and mask,
// keyed by (source id, target id). Records are kept ordered by the
// insertion order of the source point, then of the target point.
type DistanceTable struct {
	points  PointSet
	records []DistanceRecord
	index   map[pairKey]int
}

// NewDistanceTable creates an empty table for the given points.
func NewDistanceTable(points PointSet) *DistanceTable {
	n := points.Len()
	capacity := 0
	if n > 1 {
		capacity = n * (n - 1)
	}
	return &DistanceTable{
		points:  points,
		records: make([]DistanceRecord, 0, capacity),
		index:   make(map[pairKey]int, capacity),
	}
}

// Add appends a record. A record for an existing pair replaces it.
func (t *DistanceTable) Add(r DistanceRecord) {
	key := pairKey{r.SourceID, r.TargetID}
	if i, ok := t.index[key]; ok {
		t.records[i] = r
		return
	}
	t.index[key] = len(t.records)
	t.records = append(t.records, r)
}

// Len returns the number of records.
func (t *DistanceTable) Len() int { return len(t.records) }

// Lookup returns the record for an ordered pair.
func (t *DistanceTable) Lookup(sourceID, targetID int) (DistanceRecord, bool) {
	i, ok := t.index[pairKey{sourceID, targetID}]
	if !ok {
		return DistanceRecord{}, false
	}
	return t.records[i], true
}

// Records returns a copy of all records in table order.
func (t *DistanceTable) Records() []DistanceRecord {
	out := make([]DistanceRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Points returns the point set the table was computed for.
func (t *DistanceTable) Points() PointSet { return t.points }
