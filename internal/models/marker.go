package models

// MarkerKind tags which variant a Marker holds.
type MarkerKind int

const (
	// MarkerPoints is a set of user-placed points
	MarkerPoints MarkerKind = iota
	// MarkerLabels is a label volume whose positive voxels act as seeds
	MarkerLabels
)

func (k MarkerKind) String() string {
	switch k {
	case MarkerPoints:
		return "points"
	case MarkerLabels:
		return "labels"
	default:
		return "unknown"
	}
}

// Marker is the source of a geodesic computation: either a point set or a
// label volume. Construct it with NewPointsMarker or NewLabelsMarker.
type Marker struct {
	kind   MarkerKind
	points PointSet
	labels *LabelVolume
}

// NewPointsMarker wraps a point set.
func NewPointsMarker(points PointSet) Marker {
	return Marker{kind: MarkerPoints, points: points}
}

// NewLabelsMarker wraps a label volume.
func NewLabelsMarker(labels *LabelVolume) Marker {
	return Marker{kind: MarkerLabels, labels: labels}
}

// Kind returns the variant tag.
func (m Marker) Kind() MarkerKind { return m.kind }

// Points returns the point set. Only meaningful for MarkerPoints.
func (m Marker) Points() PointSet { return m.points }

// Labels returns the label volume. Only meaningful for MarkerLabels.
func (m Marker) Labels() *LabelVolume { return m.labels }
