// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/hidrosense/hub/internal/models"
)

// UserRepository defines the interface for user record operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit int) ([]*models.User, error)
}

// SensorDataRepository defines the interface for telemetry reads. The
// readings collection is append-only; this service only inserts on behalf
// of the ingestion path and otherwise reads.
type SensorDataRepository interface {
	InsertReading(ctx context.Context, reading *models.SensorReading) error
	Latest(ctx context.Context) (*models.SensorReading, error)
	Recent(ctx context.Context, limit int) ([]models.SensorReading, error)
	Range(ctx context.Context, start, end *time.Time) ([]models.SensorReading, error)
}
