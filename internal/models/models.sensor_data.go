// FilePath: internal/models/models.sensor_data.go
package models

import "time"

// SensorReading represents a single telemetry sample from the reservoir
// ingestion path. Readings are immutable once stored; ordering is defined
// by ReadTime.
type SensorReading struct {
	ReadTime    time.Time `json:"read_time" db:"read_time"`
	Temperature float64   `json:"temperature" db:"temperature"`
	PHValue     float64   `json:"ph_value" db:"ph_value"`
	Nitrogen    float64   `json:"nitrogen" db:"nitrogen"`
	EC          float64   `json:"ec" db:"ec"`
	Potassium   float64   `json:"potassium" db:"potassium"`
}

// Metric is a single dashboard card value with its display metadata.
type Metric struct {
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
	ChangeText string  `json:"changeText"`
	IsPositive bool    `json:"isPositive"`
}

// MetricsSnapshot is the latest-readings dashboard payload. The JSON keys
// are the dashboard's wire contract and must not change.
type MetricsSnapshot struct {
	Temperatura          Metric `json:"temperatura"`
	PH                   Metric `json:"ph"`
	Nitrogeno            Metric `json:"nitrogeno"`
	Electroconductividad Metric `json:"electroconductividad"`
}

// WaterLevelSeries is the chart payload: parallel arrays ordered ascending
// by reading time.
type WaterLevelSeries struct {
	Labels        []string  `json:"labels"`
	RealLevel     []float64 `json:"real_level"`
	ExpectedLevel []float64 `json:"expected_level"`
}
