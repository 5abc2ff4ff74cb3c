package chartgen

import (
	"bytes"
	"database/sql"
	"errors"
	"image/png"
	"testing"
	"time"

	"github.com/rafiaca4-del/station-monitor-dashboard/internal/models"
)

func plottableDataset() models.Dataset {
	ds := models.Dataset{
		Name:           "STN001_water",
		Columns:        []string{"Level"},
		NumericColumns: []string{"Level"},
	}
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	values := []float64{1.2, 1.4, 1.1, 1.8, 1.5}
	for i, v := range values {
		ds.Rows = append(ds.Rows, models.Row{
			Timestamp: start.AddDate(0, 0, i),
			Cells: map[string]models.Cell{
				"Level": {Number: sql.NullFloat64{Float64: v, Valid: true}},
			},
		})
	}
	return ds
}

func TestRender_ProducesPNG(t *testing.T) {
	data, err := Render(plottableDataset(), Options{Title: "Alpha"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a decodable PNG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != defaultWidth || b.Dy() != defaultHeight {
		t.Errorf("bounds = %dx%d, want %dx%d", b.Dx(), b.Dy(), defaultWidth, defaultHeight)
	}
}

func TestRender_EmptyDataset(t *testing.T) {
	ds := models.Dataset{Name: "empty", NumericColumns: []string{"Level"}}
	if _, err := Render(ds, Options{}); !errors.Is(err, ErrNoPlottableData) {
		t.Errorf("err = %v, want ErrNoPlottableData", err)
	}
}

func TestRender_NoNumericColumns(t *testing.T) {
	ds := plottableDataset()
	ds.NumericColumns = nil
	if _, err := Render(ds, Options{}); !errors.Is(err, ErrNoPlottableData) {
		t.Errorf("err = %v, want ErrNoPlottableData", err)
	}
}

func TestRender_FlatSeries(t *testing.T) {
	ds := plottableDataset()
	for i := range ds.Rows {
		ds.Rows[i].Cells["Level"] = models.Cell{Number: sql.NullFloat64{Float64: 2.0, Valid: true}}
	}
	if _, err := Render(ds, Options{}); err != nil {
		t.Errorf("Render flat series: %v", err)
	}
}

func TestRender_SingleRow(t *testing.T) {
	ds := plottableDataset()
	ds.Rows = ds.Rows[:1]
	if _, err := Render(ds, Options{}); err != nil {
		t.Errorf("Render single row: %v", err)
	}
}

func TestCache(t *testing.T) {
	c := NewCache(time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Error("empty cache should miss")
	}
	c.Set("k", []byte("png"))
	got, ok := c.Get("k")
	if !ok || string(got) != "png" {
		t.Errorf("Get = (%q, %v), want cached value", got, ok)
	}
}

func TestCache_Expiry(t *testing.T) {
	c := NewCache(-time.Second)
	c.Set("k", []byte("png"))
	if _, ok := c.Get("k"); ok {
		t.Error("expired entry should miss")
	}
}
