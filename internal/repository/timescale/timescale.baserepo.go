package timescale

import (
	"context"

	"github.com/hidrosense/hub/internal/database"
	"github.com/hidrosense/hub/internal/errors"
)

type TimescaleBaseRepo struct {
	db database.DB
}

func (r *TimescaleBaseRepo) Ping(ctx context.Context) error {
	if err := r.db.GetDB().PingContext(ctx); err != nil {
		return errors.NewDatabaseError("failed to ping database", err)
	}
	return nil
}

func (r *TimescaleBaseRepo) Close() error {
	if err := r.db.GetDB().Close(); err != nil {
		return errors.NewDatabaseError("failed to close database", err)
	}
	return nil
}
