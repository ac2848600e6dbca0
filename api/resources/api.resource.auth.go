// FilePath: api/resources/api.resource.auth.go
package resources

import (
	"encoding/json"
	"net/http"

	nuts "github.com/vaudience/go-nuts"

	"github.com/hidrosense/hub/internal/errors"
	"github.com/hidrosense/hub/internal/hubservice"
)

// AuthHandlers encapsulates the authentication HTTP handlers
type AuthHandlers struct {
	hubservice *hubservice.HubService
}

// TokenResponse is the login payload: a bearer token and its type.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// @Summary Obtain an access token
// @Description Exchange form credentials for a signed bearer token
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "User email"
// @Param password formData string true "Password"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} errors.APIError
// @Failure 429 {object} errors.APIError
// @Router /token [post]
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	if err := r.ParseForm(); err != nil {
		respondWithError(w, errors.NewValidationError("invalid form body", err).WithRequestID(requestID))
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		respondWithError(w, errors.NewValidationError("username and password are required", nil).WithRequestID(requestID))
		return
	}

	token, err := h.hubservice.Login(r.Context(), username, password)
	if err != nil {
		respondWithError(w, asAPIError(err, requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// asAPIError normalizes service errors for the HTTP layer.
func asAPIError(err error, requestID string) *errors.APIError {
	if apiErr, ok := err.(*errors.APIError); ok {
		return apiErr.WithRequestID(requestID)
	}
	return errors.NewInternalError("unexpected error", err).WithRequestID(requestID)
}

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	if err.Code == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	nuts.L.Errorf("[API] %s", err.Error())
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
