package volumeio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"lumendist/internal/models"
)

// LoadPointsCSV reads marker points from rows of "id,z,y,x" or "id,y,x".
// A first row whose id column is not an integer is treated as a header.
func LoadPointsCSV(r io.Reader) (models.PointSet, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	rows, err := cr.ReadAll()
	if err != nil {
		return models.PointSet{}, fmt.Errorf("error reading points: %w", err)
	}

	var points []models.Point
	for i, row := range rows {
		if len(row) != 3 && len(row) != 4 {
			return models.PointSet{}, fmt.Errorf("row %d has %d columns, expected id plus 2 or 3 coordinates", i+1, len(row))
		}

		id, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			if i == 0 {
				continue
			}
			return models.PointSet{}, fmt.Errorf("row %d: invalid id %q", i+1, row[0])
		}

		coord := make([]float64, len(row)-1)
		for j, field := range row[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return models.PointSet{}, fmt.Errorf("row %d: invalid coordinate %q: %w", i+1, field, err)
			}
			coord[j] = v
		}
		points = append(points, models.Point{ID: id, Coord: coord})
	}

	return models.NewPointSetWithIDs(points)
}

// LoadPointsFile opens path and reads it with LoadPointsCSV.
func LoadPointsFile(path string) (models.PointSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.PointSet{}, fmt.Errorf("error opening points file: %w", err)
	}
	defer f.Close()
	return LoadPointsCSV(f)
}
