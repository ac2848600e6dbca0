// FilePath: internal/hubservice/hubservice.metrics_test.go
package hubservice

import (
	"context"
	"testing"
	"time"

	"github.com/hidrosense/hub/internal/errors"
	"github.com/hidrosense/hub/internal/models"
)

func seedReadings(repo *fakeSensorRepo, start time.Time, step time.Duration, n int) {
	for i := 0; i < n; i++ {
		repo.readings = append(repo.readings, models.SensorReading{
			ReadTime:    start.Add(time.Duration(i) * step),
			Temperature: 20 + float64(i),
			PHValue:     6.5,
			Nitrogen:    40,
			EC:          1.2,
			Potassium:   float64(10 + i),
		})
	}
}

func TestLatestMetrics(t *testing.T) {
	svc, _, sensors := newTestService(t)
	seedReadings(sensors, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), time.Hour, 3)

	snap, err := svc.LatestMetrics(context.Background())
	if err != nil {
		t.Fatalf("LatestMetrics: %v", err)
	}

	if snap.Temperatura.Value != 22 {
		t.Errorf("temperatura = %v, want 22 (most recent reading)", snap.Temperatura.Value)
	}
	if snap.Temperatura.Unit != "C°" {
		t.Errorf("temperatura unit = %q", snap.Temperatura.Unit)
	}
	if snap.PH.Value != 6.5 {
		t.Errorf("ph = %v, want 6.5", snap.PH.Value)
	}
	if snap.Nitrogeno.Unit != "mg/kg" {
		t.Errorf("nitrogeno unit = %q", snap.Nitrogeno.Unit)
	}
	if snap.Electroconductividad.Unit != "dS/m" {
		t.Errorf("electroconductividad unit = %q", snap.Electroconductividad.Unit)
	}
}

func TestLatestMetricsNoReadings(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.LatestMetrics(context.Background()); !errors.IsNotFound(err) {
		t.Errorf("got %v, want not found error", err)
	}
}

func TestWaterLevelSeries(t *testing.T) {
	svc, _, sensors := newTestService(t)
	seedReadings(sensors, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), time.Hour, 5)

	series, err := svc.WaterLevelSeries(context.Background(), models.ReadingFilters{})
	if err != nil {
		t.Fatalf("WaterLevelSeries: %v", err)
	}

	if len(series.Labels) != 5 || len(series.RealLevel) != 5 || len(series.ExpectedLevel) != 5 {
		t.Fatalf("parallel arrays have lengths %d/%d/%d, want 5",
			len(series.Labels), len(series.RealLevel), len(series.ExpectedLevel))
	}
	for i := 1; i < len(series.RealLevel); i++ {
		if series.RealLevel[i] < series.RealLevel[i-1] {
			t.Fatal("series not ordered by ascending reading time")
		}
	}
	for i := range series.RealLevel {
		if series.ExpectedLevel[i] != series.RealLevel[i]+5 {
			t.Errorf("expected level at %d = %v, want real+5", i, series.ExpectedLevel[i])
		}
	}
}

func TestWaterLevelLabelsShortSpan(t *testing.T) {
	svc, _, sensors := newTestService(t)
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	// Full span just under two days keeps the time of day in the labels
	seedReadings(sensors, start, 47*time.Hour+59*time.Minute, 2)

	series, err := svc.WaterLevelSeries(context.Background(), models.ReadingFilters{})
	if err != nil {
		t.Fatalf("WaterLevelSeries: %v", err)
	}
	if want := start.Format("02-01 15:04"); series.Labels[0] != want {
		t.Errorf("label = %q, want %q", series.Labels[0], want)
	}
}

func TestWaterLevelLabelsLongSpan(t *testing.T) {
	svc, _, sensors := newTestService(t)
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	seedReadings(sensors, start, 48*time.Hour, 2)

	series, err := svc.WaterLevelSeries(context.Background(), models.ReadingFilters{})
	if err != nil {
		t.Fatalf("WaterLevelSeries: %v", err)
	}
	if want := start.Format("02-01"); series.Labels[0] != want {
		t.Errorf("label = %q, want %q", series.Labels[0], want)
	}
}

func TestWaterLevelUnrangedCapped(t *testing.T) {
	svc, _, sensors := newTestService(t)
	seedReadings(sensors, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Hour, 40)

	series, err := svc.WaterLevelSeries(context.Background(), models.ReadingFilters{})
	if err != nil {
		t.Fatalf("WaterLevelSeries: %v", err)
	}
	if len(series.RealLevel) != 30 {
		t.Errorf("unranged query returned %d points, want the 30 most recent", len(series.RealLevel))
	}
	// The cap keeps the newest points
	if series.RealLevel[len(series.RealLevel)-1] != 49 {
		t.Errorf("last point = %v, want 49", series.RealLevel[len(series.RealLevel)-1])
	}
}

func TestWaterLevelRangedUncapped(t *testing.T) {
	svc, _, sensors := newTestService(t)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	seedReadings(sensors, start, time.Hour, 40)

	from := start.Add(-time.Hour)
	series, err := svc.WaterLevelSeries(context.Background(), models.ReadingFilters{StartDate: &from})
	if err != nil {
		t.Fatalf("WaterLevelSeries: %v", err)
	}
	if len(series.RealLevel) != 40 {
		t.Errorf("ranged query returned %d points, want all 40", len(series.RealLevel))
	}
}

func TestWaterLevelRangeBounds(t *testing.T) {
	svc, _, sensors := newTestService(t)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	seedReadings(sensors, start, 24*time.Hour, 10)

	from := start.Add(2 * 24 * time.Hour)
	to := start.Add(5 * 24 * time.Hour)
	series, err := svc.WaterLevelSeries(context.Background(), models.ReadingFilters{StartDate: &from, EndDate: &to})
	if err != nil {
		t.Fatalf("WaterLevelSeries: %v", err)
	}
	if len(series.RealLevel) != 4 {
		t.Errorf("got %d points, want 4 inside the window", len(series.RealLevel))
	}
}

func TestWaterLevelEmptyRange(t *testing.T) {
	svc, _, sensors := newTestService(t)
	seedReadings(sensors, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Hour, 3)

	from := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.WaterLevelSeries(context.Background(), models.ReadingFilters{StartDate: &from}); !errors.IsNotFound(err) {
		t.Errorf("got %v, want not found error", err)
	}
}
