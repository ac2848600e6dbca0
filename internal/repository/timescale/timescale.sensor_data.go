// FilePath: internal/repository/timescale/timescale.sensor_data.go
package timescale

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/hidrosense/hub/internal/database"
	"github.com/hidrosense/hub/internal/errors"
	"github.com/hidrosense/hub/internal/models"
)

// readingColumns defaults absent channels to zero, matching the ingestion
// path which may omit fields per sample.
const readingColumns = `
	read_time,
	COALESCE(temperature, 0) AS temperature,
	COALESCE(ph_value, 0) AS ph_value,
	COALESCE(nitrogen, 0) AS nitrogen,
	COALESCE(ec, 0) AS ec,
	COALESCE(potassium, 0) AS potassium`

type SensorDataRepo struct {
	TimescaleBaseRepo
}

func NewSensorDataRepository(db database.DB) (*SensorDataRepo, error) {
	repo := &SensorDataRepo{TimescaleBaseRepo: TimescaleBaseRepo{db: db}}
	if err := repo.initializeSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *SensorDataRepo) initializeSchema() error {
	// Hypertable chunked by read_time; the dashboard only ever filters
	// and orders on that column
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sensor_readings (
			read_time TIMESTAMPTZ NOT NULL,
			temperature DOUBLE PRECISION,
			ph_value DOUBLE PRECISION,
			nitrogen DOUBLE PRECISION,
			ec DOUBLE PRECISION,
			potassium DOUBLE PRECISION
		)`,
		`SELECT create_hypertable('sensor_readings', 'read_time',
			chunk_time_interval => INTERVAL '1 day',
			if_not_exists => TRUE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sensor_readings_read_time
         ON sensor_readings(read_time DESC)`,
	}

	for _, query := range queries {
		if _, err := r.db.GetDB().Exec(query); err != nil {
			return errors.NewDatabaseError("failed to initialize sensor schema", err)
		}
	}
	return nil
}

// InsertReading stores one telemetry sample. Used by the ingestion path;
// the dashboard API never mutates readings.
func (r *SensorDataRepo) InsertReading(ctx context.Context, reading *models.SensorReading) error {
	query := `
		INSERT INTO sensor_readings (read_time, temperature, ph_value, nitrogen, ec, potassium)
		VALUES (:read_time, :temperature, :ph_value, :nitrogen, :ec, :potassium)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, reading)
	if err != nil {
		return errors.NewDatabaseError("failed to insert sensor reading", err)
	}
	return nil
}

// Latest returns the single reading with the greatest read_time.
func (r *SensorDataRepo) Latest(ctx context.Context) (*models.SensorReading, error) {
	reading := &models.SensorReading{}
	query := `
		SELECT ` + readingColumns + `
		FROM sensor_readings
		ORDER BY read_time DESC
		LIMIT 1`

	err := r.db.GetDB().GetContext(ctx, reading, query)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("no sensor readings found", err)
		}
		return nil, errors.NewDatabaseError("failed to get latest sensor reading", err)
	}
	return reading, nil
}

// Recent returns the limit most recent readings, reordered ascending by
// read_time for charting.
func (r *SensorDataRepo) Recent(ctx context.Context, limit int) ([]models.SensorReading, error) {
	readings := []models.SensorReading{}
	query := `
		SELECT * FROM (
			SELECT ` + readingColumns + `
			FROM sensor_readings
			ORDER BY read_time DESC
			LIMIT $1
		) recent
		ORDER BY read_time ASC`

	err := r.db.GetDB().SelectContext(ctx, &readings, query, limit)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get recent sensor readings", err)
	}
	return readings, nil
}

// Range returns every reading inside the inclusive bounds, ascending by
// read_time. Either bound may be nil. An explicit range is never capped.
func (r *SensorDataRepo) Range(ctx context.Context, start, end *time.Time) ([]models.SensorReading, error) {
	conditions := []string{}
	args := []interface{}{}
	if start != nil {
		args = append(args, *start)
		conditions = append(conditions, "read_time >= $1")
	}
	if end != nil {
		args = append(args, *end)
		if len(args) == 2 {
			conditions = append(conditions, "read_time <= $2")
		} else {
			conditions = append(conditions, "read_time <= $1")
		}
	}

	query := `SELECT ` + readingColumns + ` FROM sensor_readings`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY read_time ASC"

	readings := []models.SensorReading{}
	err := r.db.GetDB().SelectContext(ctx, &readings, query, args...)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get ranged sensor readings", err)
	}
	return readings, nil
}
