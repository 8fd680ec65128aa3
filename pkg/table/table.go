// Package table renders distance tables for display and export.
package table

import (
	"encoding/csv"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"lumendist/internal/models"
)

// tab10 is the ten-colour categorical palette used to tell points apart
var tab10 = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
	{R: 140, G: 86, B: 75, A: 255},
	{R: 227, G: 119, B: 194, A: 255},
	{R: 127, G: 127, B: 127, A: 255},
	{R: 188, G: 189, B: 34, A: 255},
	{R: 23, G: 190, B: 207, A: 255},
}

// PointColor returns the display colour for a point id. Colours repeat every ten ids.
func PointColor(id int) color.RGBA {
	i := id % len(tab10)
	if i < 0 {
		i += len(tab10)
	}
	return tab10[i]
}

// Hex formats a colour as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

var axisNames = []string{"z", "y", "x"}

// Header returns the column names for a table over points of the given
// dimensionality. 2D tables omit the z columns. The colour columns carry
// each point's PointColor as #rrggbb.
func Header(dims int) []string {
	axes := axisNames[len(axisNames)-dims:]
	cols := []string{"source_id", "target_id"}
	for _, a := range axes {
		cols = append(cols, "source_"+a)
	}
	for _, a := range axes {
		cols = append(cols, "target_"+a)
	}
	return append(cols, "euclidean_distance", "geodesic_distance", "source_color", "target_color")
}

// FormatDistance renders a distance, writing unreachable pairs as "inf".
func FormatDistance(d float64) string {
	if math.IsInf(d, 1) {
		return "inf"
	}
	return strconv.FormatFloat(d, 'f', -1, 64)
}

// Rows returns the table as string rows matching Header.
func Rows(t *models.DistanceTable) [][]string {
	coords := make(map[int][]float64, t.Points().Len())
	for _, p := range t.Points().Points() {
		coords[p.ID] = p.Coord
	}

	rows := make([][]string, 0, t.Len())
	for _, r := range t.Records() {
		row := []string{strconv.Itoa(r.SourceID), strconv.Itoa(r.TargetID)}
		for _, c := range coords[r.SourceID] {
			row = append(row, strconv.FormatFloat(c, 'f', -1, 64))
		}
		for _, c := range coords[r.TargetID] {
			row = append(row, strconv.FormatFloat(c, 'f', -1, 64))
		}
		row = append(row, FormatDistance(r.Euclidean), FormatDistance(r.Geodesic))
		row = append(row, Hex(PointColor(r.SourceID)), Hex(PointColor(r.TargetID)))
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV writes the header and one row per record.
func WriteCSV(w io.Writer, t *models.DistanceTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(t.Points().Dims())); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}
	if err := cw.WriteAll(Rows(t)); err != nil {
		return fmt.Errorf("error writing rows: %w", err)
	}
	return nil
}
