// Package chartgen renders a filtered time-series dataset as a PNG
// line chart, one polyline per numeric column. It is the server-side
// stand-in for the interactive chart the presentation layer may draw
// itself from the JSON API.
package chartgen

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/rafiaca4-del/station-monitor-dashboard/internal/models"
)

// ErrNoPlottableData is returned for datasets with no rows or no
// numeric columns. Callers surface it as "nothing to chart", not as a
// load failure.
var ErrNoPlottableData = errors.New("chartgen: no plottable data")

const (
	defaultWidth  = 900
	defaultHeight = 420

	marginLeft   = 60
	marginRight  = 20
	marginTop    = 40
	marginBottom = 40
)

var seriesColors = []color.RGBA{
	{0x34, 0x98, 0xdb, 0xff},
	{0xe7, 0x4c, 0x3c, 0xff},
	{0x2e, 0xcc, 0x71, 0xff},
	{0x9b, 0x59, 0xb6, 0xff},
}

// Options control chart dimensions and title. Zero values take
// defaults.
type Options struct {
	Width  int
	Height int
	Title  string
}

// Render draws every numeric column of the dataset against its
// timestamps and returns the chart as PNG bytes. Cells that are empty
// in a numeric column break the polyline rather than plotting a zero.
func Render(ds models.Dataset, opts Options) ([]byte, error) {
	if !ds.Plottable() {
		return nil, ErrNoPlottableData
	}
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill(img, color.RGBA{0xff, 0xff, 0xff, 0xff})

	minT, maxT := timeRange(ds)
	minV, maxV, ok := valueRange(ds)
	if !ok {
		return nil, ErrNoPlottableData
	}
	if minV == maxV {
		// Flat series still needs a nonzero span to place points.
		minV, maxV = minV-1, maxV+1
	}

	plot := image.Rect(marginLeft, marginTop, width-marginRight, height-marginBottom)
	drawAxes(img, plot)
	drawYLabels(img, plot, minV, maxV)
	drawXLabels(img, plot, minT, maxT)

	for i, col := range ds.NumericColumns {
		c := seriesColors[i%len(seriesColors)]
		drawSeries(img, plot, ds, col, minT, maxT, minV, maxV, c)
		drawLabel(img, marginLeft+i*160, marginTop-16, col, c)
	}
	if opts.Title != "" {
		drawLabel(img, marginLeft, 14, opts.Title, color.RGBA{0x2c, 0x3e, 0x50, 0xff})
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf.Bytes(), nil
}

func fill(img *image.RGBA, c color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func timeRange(ds models.Dataset) (time.Time, time.Time) {
	minT, maxT := ds.Rows[0].Timestamp, ds.Rows[0].Timestamp
	for _, row := range ds.Rows[1:] {
		if row.Timestamp.Before(minT) {
			minT = row.Timestamp
		}
		if row.Timestamp.After(maxT) {
			maxT = row.Timestamp
		}
	}
	return minT, maxT
}

func valueRange(ds models.Dataset) (float64, float64, bool) {
	minV, maxV := math.Inf(1), math.Inf(-1)
	found := false
	for _, col := range ds.NumericColumns {
		for _, row := range ds.Rows {
			n := row.Cells[col].Number
			if !n.Valid {
				continue
			}
			found = true
			if n.Float64 < minV {
				minV = n.Float64
			}
			if n.Float64 > maxV {
				maxV = n.Float64
			}
		}
	}
	return minV, maxV, found
}

func drawAxes(img *image.RGBA, plot image.Rectangle) {
	axis := color.RGBA{0xbd, 0xc3, 0xc7, 0xff}
	for x := plot.Min.X; x <= plot.Max.X; x++ {
		img.SetRGBA(x, plot.Max.Y, axis)
	}
	for y := plot.Min.Y; y <= plot.Max.Y; y++ {
		img.SetRGBA(plot.Min.X, y, axis)
	}
}

func drawSeries(img *image.RGBA, plot image.Rectangle, ds models.Dataset, col string, minT, maxT time.Time, minV, maxV float64, c color.RGBA) {
	span := maxT.Sub(minT)
	prevSet := false
	var prevX, prevY int

	for _, row := range ds.Rows {
		n := row.Cells[col].Number
		if !n.Valid {
			// Gap in the data breaks the line.
			prevSet = false
			continue
		}
		var fx float64
		if span > 0 {
			fx = float64(row.Timestamp.Sub(minT)) / float64(span)
		} else {
			fx = 0.5
		}
		fy := (n.Float64 - minV) / (maxV - minV)
		x := plot.Min.X + int(fx*float64(plot.Dx()))
		y := plot.Max.Y - int(fy*float64(plot.Dy()))

		if prevSet {
			drawLine(img, prevX, prevY, x, y, c)
		} else {
			img.SetRGBA(x, y, c)
		}
		prevX, prevY = x, y
		prevSet = true
	}
}

// drawLine draws a Bresenham segment, no anti-aliasing.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		img.SetRGBA(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func drawYLabels(img *image.RGBA, plot image.Rectangle, minV, maxV float64) {
	gray := color.RGBA{0x7f, 0x8c, 0x8d, 0xff}
	drawLabel(img, 6, plot.Min.Y+10, fmt.Sprintf("%.2f", maxV), gray)
	drawLabel(img, 6, plot.Max.Y, fmt.Sprintf("%.2f", minV), gray)
}

func drawXLabels(img *image.RGBA, plot image.Rectangle, minT, maxT time.Time) {
	gray := color.RGBA{0x7f, 0x8c, 0x8d, 0xff}
	drawLabel(img, plot.Min.X, plot.Max.Y+16, minT.Format("2006-01-02"), gray)
	drawLabel(img, plot.Max.X-70, plot.Max.Y+16, maxT.Format("2006-01-02"), gray)
}

func drawLabel(img *image.RGBA, x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
