// FilePath: internal/hubservice/hubservice.users.go
package hubservice

import (
	"context"
	"strings"
	"time"

	"github.com/itsatony/struccy"
	"github.com/segmentio/ksuid"
	nuts "github.com/vaudience/go-nuts"

	"github.com/hidrosense/hub/internal/audit"
	"github.com/hidrosense/hub/internal/auth"
	"github.com/hidrosense/hub/internal/errors"
	"github.com/hidrosense/hub/internal/models"
)

// outboundScopes are the read scopes applied to users leaving the
// service. The password hash is scoped to "system" and never included.
var outboundScopes = []string{"admin"}

// Login verifies credentials and issues a bearer token. Unknown email and
// wrong password produce the same error so callers cannot probe which
// part failed. Attempts are throttled per email.
func (s *HubService) Login(ctx context.Context, email, password string) (string, error) {
	if err := s.Limiter.Allow(ctx, "login:"+strings.ToLower(email)); err != nil {
		return "", err
	}

	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		s.Audit.Record(audit.EventLoginFailed, email)
		return "", errors.NewAuthError("incorrect email or password", err)
	}

	if !auth.VerifyPassword(password, user.HashedPassword) {
		s.Audit.Record(audit.EventLoginFailed, email)
		return "", errors.NewAuthError("incorrect email or password", nil)
	}

	token, err := s.Tokens.Issue(user.Email, user.Role, user.FullName)
	if err != nil {
		return "", errors.NewInternalError("failed to issue token", err)
	}

	nuts.L.Infof("[UserService] Issued token for %s (%s)", user.Email, user.Role)
	return token, nil
}

// GetUserByEmail resolves a directory record for the auth middleware. The
// returned record carries the authoritative role for access decisions.
func (s *HubService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.Users.GetByEmail(ctx, email)
}

// ListUsers returns all users, capped at the configured list limit, with
// the password hash stripped.
func (s *HubService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.Users.List(ctx, s.listLimit)
	if err != nil {
		return nil, err
	}

	sanitized := make([]*models.User, 0, len(users))
	for _, user := range users {
		clean, err := s.sanitizeUser(user)
		if err != nil {
			nuts.L.Warnf("[UserService] Failed to sanitize user %s: %v", user.ID, err)
			continue
		}
		sanitized = append(sanitized, clean)
	}
	return sanitized, nil
}

// CreateUser validates and persists a new user record. Fails Conflict
// when the email is already taken.
func (s *HubService) CreateUser(ctx context.Context, in models.UserCreate) (*models.User, error) {
	if !models.ValidEmail(in.Email) {
		return nil, errors.NewValidationError("invalid email address", nil)
	}
	if !models.ValidRole(in.Role) {
		return nil, errors.NewValidationError("unrecognized role", nil)
	}
	if in.Password == "" {
		return nil, errors.NewValidationError("password is required", nil)
	}

	// Pre-check gives a clean error message; the unique index on email
	// remains the authority under concurrent creates
	if _, err := s.Users.GetByEmail(ctx, in.Email); err == nil {
		return nil, errors.NewConflictError("a user with this email already exists", nil)
	} else if !errors.IsNotFound(err) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}

	now := time.Now()
	user := &models.User{
		ID:             ksuid.New().String(),
		Email:          in.Email,
		FullName:       in.FullName,
		Role:           in.Role,
		Disabled:       in.Disabled,
		HashedPassword: hash,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.Users.Create(ctx, user); err != nil {
		return nil, err
	}

	nuts.L.Infof("[UserService] Created user %s (%s)", user.Email, user.ID)
	s.Audit.Record(audit.EventUserCreated, user.ID)
	return s.sanitizeUser(user)
}

// UpdateUser applies a partial update. Only explicitly provided fields
// overwrite; an update carrying no recognized field is rejected.
func (s *HubService) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	if !models.ValidUserID(id) {
		return nil, errors.NewValidationError("invalid user id", nil)
	}
	if upd.Empty() {
		return nil, errors.NewValidationError("no fields to update", nil)
	}
	if upd.Role != nil && !models.ValidRole(*upd.Role) {
		return nil, errors.NewValidationError("unrecognized role", nil)
	}

	user, err := s.Users.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.FullName != nil {
		user.FullName = *upd.FullName
	}
	if upd.Role != nil {
		user.Role = *upd.Role
	}
	if upd.Disabled != nil {
		user.Disabled = *upd.Disabled
	}
	user.UpdatedAt = time.Now()

	if err := s.Users.Update(ctx, user); err != nil {
		return nil, err
	}

	nuts.L.Infof("[UserService] Updated user %s", id)
	s.Audit.Record(audit.EventUserUpdated, id)
	return s.sanitizeUser(user)
}

// DeleteUser removes a user record. An admin may never delete their own
// account.
func (s *HubService) DeleteUser(ctx context.Context, actor *models.User, id string) error {
	if !models.ValidUserID(id) {
		return errors.NewValidationError("invalid user id", nil)
	}
	if actor != nil && actor.ID == id {
		return errors.NewAuthorizationError("an administrator cannot delete their own account", nil)
	}

	if err := s.Users.Delete(ctx, id); err != nil {
		return err
	}

	nuts.L.Infof("[UserService] Deleted user %s", id)
	s.Audit.Record(audit.EventUserDeleted, id)
	return nil
}

// sanitizeUser strips system-scoped fields (the password hash) from an
// outbound user via read-scope filtering.
func (s *HubService) sanitizeUser(user *models.User) (*models.User, error) {
	filteredMap, err := struccy.StructToMapFieldsWithReadXS(user, outboundScopes)
	if err != nil {
		return nil, errors.NewInternalError("failed to filter user fields", err)
	}
	filtered := &models.User{}
	if _, err := struccy.MergeMapStringFieldsToStruct(filtered, filteredMap, outboundScopes); err != nil {
		return nil, errors.NewInternalError("failed to map filtered fields to user struct", err)
	}
	return filtered, nil
}
