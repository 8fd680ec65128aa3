package table

import (
	"gonum.org/v1/gonum/stat"

	"lumendist/internal/models"
)

// Summary aggregates a distance table into a few display statistics.
// Reachable distances only enter the geodesic and tortuosity figures.
type Summary struct {
	Records     int
	Reachable   int
	Unreachable int

	MeanEuclidean   float64
	StdDevEuclidean float64

	MeanGeodesic   float64
	StdDevGeodesic float64

	// MeanTortuosity is the mean geodesic/euclidean ratio over reachable
	// pairs with a non-zero euclidean distance
	MeanTortuosity float64
}

// Summarize computes the summary of a table. Each unordered pair appears
// twice with identical values, so the means match a one-direction table.
func Summarize(t *models.DistanceTable) Summary {
	s := Summary{Records: t.Len()}

	euclid := make([]float64, 0, t.Len())
	geo := make([]float64, 0, t.Len())
	ratio := make([]float64, 0, t.Len())

	for _, r := range t.Records() {
		euclid = append(euclid, r.Euclidean)
		if !r.Reachable() {
			s.Unreachable++
			continue
		}
		s.Reachable++
		geo = append(geo, r.Geodesic)
		if r.Euclidean > 0 {
			ratio = append(ratio, r.Geodesic/r.Euclidean)
		}
	}

	if len(euclid) > 0 {
		s.MeanEuclidean, s.StdDevEuclidean = stat.MeanStdDev(euclid, nil)
	}
	if len(geo) > 0 {
		s.MeanGeodesic, s.StdDevGeodesic = stat.MeanStdDev(geo, nil)
	}
	if len(ratio) > 0 {
		s.MeanTortuosity = stat.Mean(ratio, nil)
	}
	return s
}
