// FilePath: api/resources/resources.go
package resources

import (
	"net/http"

	"github.com/hidrosense/hub/internal/hubservice"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Auth    *AuthHandlers
	Users   *UserHandlers
	Metrics *MetricHandlers
}

// NewResources creates a new Resources instance
func NewResources(svc *hubservice.HubService) *Resources {
	return &Resources{
		Auth:    &AuthHandlers{hubservice: svc},
		Users:   &UserHandlers{hubservice: svc},
		Metrics: &MetricHandlers{hubservice: svc},
	}
}

// Status answers the unauthenticated root probe.
func (r *Resources) Status(w http.ResponseWriter, req *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
