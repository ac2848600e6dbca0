// FilePath: internal/hubservice/hubservice.metrics.go
package hubservice

import (
	"context"
	"time"

	"github.com/hidrosense/hub/internal/errors"
	"github.com/hidrosense/hub/internal/models"
)

const (
	// defaultChartLimit caps an unranged chart query to the most recent
	// points. Explicit date ranges always return their full contents.
	defaultChartLimit = 30

	// expectedLevelOffset is the provisional business rule for the
	// expected water level relative to the measured one.
	// TODO: confirm the real expectation curve with the agronomy team
	expectedLevelOffset = 5

	// Below this span between first and last point the chart labels
	// include the time of day; at or above it, date only.
	timeLabelSpan = 48 * time.Hour

	labelFormatWithTime = "02-01 15:04"
	labelFormatDateOnly = "02-01"
)

// LatestMetrics returns the dashboard snapshot built from the single most
// recent reading. Fails NotFound when no readings are stored.
func (s *HubService) LatestMetrics(ctx context.Context) (*models.MetricsSnapshot, error) {
	reading, err := s.SensorData.Latest(ctx)
	if err != nil {
		return nil, err
	}

	return &models.MetricsSnapshot{
		Temperatura: models.Metric{
			Value:      reading.Temperature,
			Unit:       "C°",
			ChangeText: "Leído desde la DB",
			IsPositive: true,
		},
		PH: models.Metric{
			Value:      reading.PHValue,
			Unit:       "",
			ChangeText: "Leído desde la DB",
			IsPositive: true,
		},
		Nitrogeno: models.Metric{
			Value:      reading.Nitrogen,
			Unit:       "mg/kg",
			ChangeText: "Nivel en suelo",
			IsPositive: true,
		},
		Electroconductividad: models.Metric{
			Value:      reading.EC,
			Unit:       "dS/m",
			ChangeText: "Conductividad",
			IsPositive: true,
		},
	}, nil
}

// WaterLevelSeries returns the charted water level over the requested
// window. Without an explicit range the series is capped to the most
// recent points; a ranged query is unbounded. Points are always ordered
// ascending by reading time.
func (s *HubService) WaterLevelSeries(ctx context.Context, filters models.ReadingFilters) (*models.WaterLevelSeries, error) {
	var readings []models.SensorReading
	var err error

	if filters.Ranged() {
		readings, err = s.SensorData.Range(ctx, filters.StartDate, filters.EndDate)
	} else {
		limit := filters.Limit
		if limit <= 0 {
			limit = defaultChartLimit
		}
		readings, err = s.SensorData.Recent(ctx, limit)
	}
	if err != nil {
		return nil, err
	}

	if len(readings) == 0 {
		return nil, errors.NewNotFoundError("no readings available for the selected range", nil)
	}

	format := labelFormat(readings)
	series := &models.WaterLevelSeries{
		Labels:        make([]string, 0, len(readings)),
		RealLevel:     make([]float64, 0, len(readings)),
		ExpectedLevel: make([]float64, 0, len(readings)),
	}
	for _, r := range readings {
		series.Labels = append(series.Labels, r.ReadTime.Format(format))
		series.RealLevel = append(series.RealLevel, r.Potassium)
		series.ExpectedLevel = append(series.ExpectedLevel, r.Potassium+expectedLevelOffset)
	}
	return series, nil
}

// labelFormat picks one label layout for the whole response based on the
// span between the first and last returned reading.
func labelFormat(readings []models.SensorReading) string {
	span := readings[len(readings)-1].ReadTime.Sub(readings[0].ReadTime)
	if span < timeLabelSpan {
		return labelFormatWithTime
	}
	return labelFormatDateOnly
}
