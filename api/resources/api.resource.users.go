// FilePath: api/resources/api.resource.users.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	nuts "github.com/vaudience/go-nuts"

	"github.com/hidrosense/hub/api/middleware"
	"github.com/hidrosense/hub/internal/errors"
	"github.com/hidrosense/hub/internal/hubservice"
	"github.com/hidrosense/hub/internal/models"
)

// UserHandlers encapsulates the user-management HTTP handlers
type UserHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary List users
// @Description Get all user records, password hashes stripped
// @Tags users
// @Produce json
// @Success 200 {array} models.User
// @Failure 401 {object} errors.APIError
// @Failure 403 {object} errors.APIError
// @Router /users [get]
// @Security BearerAuth
func (h *UserHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	users, err := h.hubservice.ListUsers(r.Context())
	if err != nil {
		respondWithError(w, asAPIError(err, requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, users)
}

// @Summary Create a user
// @Description Create a new user record with a hashed password
// @Tags users
// @Accept json
// @Produce json
// @Param user body models.UserCreate true "User details"
// @Success 201 {object} models.User
// @Failure 400 {object} errors.APIError
// @Failure 401 {object} errors.APIError
// @Failure 403 {object} errors.APIError
// @Router /users [post]
// @Security BearerAuth
func (h *UserHandlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var in models.UserCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	user, err := h.hubservice.CreateUser(r.Context(), in)
	if err != nil {
		apiErr := asAPIError(err, requestID)
		// The dashboard contract reports a duplicate email as a plain 400
		if errors.IsConflict(apiErr) {
			apiErr = apiErr.WithCode(http.StatusBadRequest)
		}
		respondWithError(w, apiErr)
		return
	}

	respondWithJSON(w, http.StatusCreated, user)
}

// @Summary Update a user
// @Description Apply a partial update; only provided fields overwrite
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param user body models.UserUpdate true "Fields to update"
// @Success 200 {object} models.User
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /users/{id} [put]
// @Security BearerAuth
func (h *UserHandlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	var upd models.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	user, err := h.hubservice.UpdateUser(r.Context(), id, upd)
	if err != nil {
		respondWithError(w, asAPIError(err, requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

// @Summary Delete a user
// @Description Delete a user record; self-deletion is refused
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 204 "No Content"
// @Failure 400 {object} errors.APIError
// @Failure 403 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /users/{id} [delete]
// @Security BearerAuth
func (h *UserHandlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	actor, _ := middleware.UserFromContext(r.Context())
	if err := h.hubservice.DeleteUser(r.Context(), actor, id); err != nil {
		respondWithError(w, asAPIError(err, requestID))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
