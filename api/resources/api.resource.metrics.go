// FilePath: api/resources/api.resource.metrics.go
package resources

import (
	"net/http"
	"reflect"
	"time"

	"github.com/gorilla/schema"
	nuts "github.com/vaudience/go-nuts"

	"github.com/hidrosense/hub/internal/errors"
	"github.com/hidrosense/hub/internal/hubservice"
	"github.com/hidrosense/hub/internal/models"
)

// MetricHandlers encapsulates the sensor metric HTTP handlers
type MetricHandlers struct {
	hubservice *hubservice.HubService
}

// queryDecoder decodes chart query strings. Timestamps accept RFC3339 as
// well as the date-only and seconds-precision layouts the dashboard sends.
var queryDecoder = newQueryDecoder()

var queryTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.RegisterConverter(time.Time{}, func(value string) reflect.Value {
		for _, layout := range queryTimeLayouts {
			if t, err := time.Parse(layout, value); err == nil {
				return reflect.ValueOf(t)
			}
		}
		return reflect.Value{}
	})
	return d
}

// @Summary Latest sensor snapshot
// @Description Get the dashboard metrics built from the most recent reading
// @Tags metrics
// @Produce json
// @Success 200 {object} models.MetricsSnapshot
// @Failure 401 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /metrics/latest [get]
// @Security BearerAuth
func (h *MetricHandlers) LatestMetrics(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	snapshot, err := h.hubservice.LatestMetrics(r.Context())
	if err != nil {
		respondWithError(w, asAPIError(err, requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, snapshot)
}

// @Summary Water level chart series
// @Description Get the charted water level, optionally bounded by start_date and end_date
// @Tags metrics
// @Produce json
// @Param start_date query string false "Window start (RFC3339 or YYYY-MM-DD)"
// @Param end_date query string false "Window end (RFC3339 or YYYY-MM-DD)"
// @Param limit query int false "Point cap for unranged queries"
// @Success 200 {object} models.WaterLevelSeries
// @Failure 400 {object} errors.APIError
// @Failure 401 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /charts/water-level [get]
// @Security BearerAuth
func (h *MetricHandlers) WaterLevelChart(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var filters models.ReadingFilters
	if err := queryDecoder.Decode(&filters, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}

	series, err := h.hubservice.WaterLevelSeries(r.Context(), filters)
	if err != nil {
		respondWithError(w, asAPIError(err, requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, series)
}

// @Summary Service health
// @Description Report service status and version
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *MetricHandlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": nuts.GetVersion(),
	})
}
