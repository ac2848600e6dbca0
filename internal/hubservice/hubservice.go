package hubservice

import (
	"github.com/hidrosense/hub/internal/audit"
	"github.com/hidrosense/hub/internal/auth"
	"github.com/hidrosense/hub/internal/errors"
	"github.com/hidrosense/hub/internal/ratelimit"
	"github.com/hidrosense/hub/internal/repository"
)

// defaultListLimit caps an unpaginated user listing.
const defaultListLimit = 1000

// HubService contains all repositories and service-wide dependencies
type HubService struct {
	Users      repository.UserRepository
	SensorData repository.SensorDataRepository
	Tokens     *auth.TokenService
	Limiter    *ratelimit.Limiter
	Audit      *audit.Service

	listLimit int
}

// New creates a new HubService instance
func New(
	users repository.UserRepository,
	sensorData repository.SensorDataRepository,
	tokens *auth.TokenService,
	limiter *ratelimit.Limiter,
	listLimit int,
) *HubService {
	if listLimit <= 0 {
		listLimit = defaultListLimit
	}
	return &HubService{
		Users:      users,
		SensorData: sensorData,
		Tokens:     tokens,
		Limiter:    limiter,
		Audit:      audit.New(),
		listLimit:  listLimit,
	}
}

// Validate checks if all required dependencies are initialized
func (s *HubService) Validate() error {
	if s.Users == nil {
		return ErrMissingDependency("users")
	}
	if s.SensorData == nil {
		return ErrMissingDependency("sensorData")
	}
	if s.Tokens == nil {
		return ErrMissingDependency("tokens")
	}
	return nil
}

func ErrMissingDependency(name string) error {
	return errors.NewInternalError("missing dependency: "+name, nil)
}
