// FilePath: internal/hubservice/hubservice_test.go
package hubservice

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/hidrosense/hub/internal/auth"
	"github.com/hidrosense/hub/internal/errors"
	"github.com/hidrosense/hub/internal/models"
	"github.com/hidrosense/hub/internal/ratelimit"
)

// fakeUserRepo is an in-memory UserRepository for service tests.
type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return errors.NewConflictError("a user with this email already exists", nil)
		}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Get(_ context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errors.NewNotFoundError("user not found", nil)
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, errors.NewNotFoundError("user not found", nil)
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return errors.NewNotFoundError("user not found", nil)
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return errors.NewNotFoundError("user not found", nil)
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, limit int) ([]*models.User, error) {
	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		if len(out) >= limit {
			break
		}
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}

// fakeSensorRepo holds readings ordered ascending by ReadTime.
type fakeSensorRepo struct {
	readings []models.SensorReading
}

func (r *fakeSensorRepo) InsertReading(_ context.Context, reading *models.SensorReading) error {
	r.readings = append(r.readings, *reading)
	return nil
}

func (r *fakeSensorRepo) Latest(_ context.Context) (*models.SensorReading, error) {
	if len(r.readings) == 0 {
		return nil, errors.NewNotFoundError("no sensor readings found", nil)
	}
	last := r.readings[len(r.readings)-1]
	return &last, nil
}

func (r *fakeSensorRepo) Recent(_ context.Context, limit int) ([]models.SensorReading, error) {
	if len(r.readings) <= limit {
		return append([]models.SensorReading(nil), r.readings...), nil
	}
	return append([]models.SensorReading(nil), r.readings[len(r.readings)-limit:]...), nil
}

func (r *fakeSensorRepo) Range(_ context.Context, start, end *time.Time) ([]models.SensorReading, error) {
	var out []models.SensorReading
	for _, reading := range r.readings {
		if start != nil && reading.ReadTime.Before(*start) {
			continue
		}
		if end != nil && reading.ReadTime.After(*end) {
			continue
		}
		out = append(out, reading)
	}
	return out, nil
}

func newTestService(t *testing.T) (*HubService, *fakeUserRepo, *fakeSensorRepo) {
	t.Helper()
	users := newFakeUserRepo()
	sensors := &fakeSensorRepo{}
	tokens := auth.NewTokenService("test-secret", time.Minute)
	svc := New(users, sensors, tokens, ratelimit.New(nil, 0, 0), 0)
	return svc, users, sensors
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string, role models.Role) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := &models.User{
		ID:             ksuid.New().String(),
		Email:          email,
		FullName:       "Test User",
		Role:           role,
		HashedPassword: hash,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	repo.users[user.ID] = user
	return user
}

func TestLoginSuccess(t *testing.T) {
	svc, users, _ := newTestService(t)
	seedUser(t, users, "admin@example.com", "secret", models.RoleAdmin)

	token, err := svc.Login(context.Background(), "admin@example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := svc.Tokens.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.Subject != "admin@example.com" {
		t.Errorf("subject = %q, want admin@example.com", claims.Subject)
	}
	if claims.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", claims.Role)
	}
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	svc, users, _ := newTestService(t)
	seedUser(t, users, "admin@example.com", "secret", models.RoleAdmin)

	_, errUnknown := svc.Login(context.Background(), "nobody@example.com", "secret")
	_, errWrongPw := svc.Login(context.Background(), "admin@example.com", "wrong")

	for _, err := range []error{errUnknown, errWrongPw} {
		if !errors.IsAuth(err) {
			t.Fatalf("expected auth error, got %v", err)
		}
	}
	unknownMsg := errUnknown.(*errors.APIError).Message
	wrongMsg := errWrongPw.(*errors.APIError).Message
	if unknownMsg != wrongMsg {
		t.Errorf("unknown-email and wrong-password messages differ: %q vs %q", unknownMsg, wrongMsg)
	}
}

func TestLoginAllowsDisabledUser(t *testing.T) {
	svc, users, _ := newTestService(t)
	u := seedUser(t, users, "off@example.com", "secret", models.RoleOperario)
	u.Disabled = true

	if _, err := svc.Login(context.Background(), "off@example.com", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
}

func TestCreateUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	user, err := svc.CreateUser(context.Background(), models.UserCreate{
		Email:    "new@example.com",
		FullName: "New User",
		Role:     models.RoleOperario,
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if !models.ValidUserID(user.ID) {
		t.Errorf("generated id %q is not structurally valid", user.ID)
	}
	if user.Email != "new@example.com" {
		t.Errorf("email = %q, want new@example.com", user.Email)
	}
	if user.HashedPassword != "" {
		t.Error("returned user must not carry the password hash")
	}
}

func TestCreateUserValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   models.UserCreate
	}{
		{"bad email", models.UserCreate{Email: "not-an-email", Role: models.RoleAdmin, Password: "x"}},
		{"bad role", models.UserCreate{Email: "a@b.com", Role: "superuser", Password: "x"}},
		{"no password", models.UserCreate{Email: "a@b.com", Role: models.RoleAdmin}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateUser(ctx, tc.in); !errors.IsValidation(err) {
				t.Errorf("got %v, want validation error", err)
			}
		})
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc, users, _ := newTestService(t)
	seedUser(t, users, "taken@example.com", "secret", models.RoleOperario)

	_, err := svc.CreateUser(context.Background(), models.UserCreate{
		Email:    "taken@example.com",
		Role:     models.RoleOperario,
		Password: "secret",
	})
	if !errors.IsConflict(err) {
		t.Errorf("got %v, want conflict error", err)
	}
}

func TestUpdateUserPartial(t *testing.T) {
	svc, users, _ := newTestService(t)
	u := seedUser(t, users, "op@example.com", "secret", models.RoleOperario)

	disabled := true
	updated, err := svc.UpdateUser(context.Background(), u.ID, models.UserUpdate{Disabled: &disabled})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	if !updated.Disabled {
		t.Error("disabled flag not applied")
	}
	if updated.FullName != u.FullName {
		t.Errorf("full name changed unexpectedly: %q", updated.FullName)
	}
	if updated.Role != models.RoleOperario {
		t.Errorf("role changed unexpectedly: %q", updated.Role)
	}
}

func TestUpdateUserRejectsEmptyUpdate(t *testing.T) {
	svc, users, _ := newTestService(t)
	u := seedUser(t, users, "op@example.com", "secret", models.RoleOperario)

	if _, err := svc.UpdateUser(context.Background(), u.ID, models.UserUpdate{}); !errors.IsValidation(err) {
		t.Errorf("got %v, want validation error", err)
	}
}

func TestUpdateUserInvalidID(t *testing.T) {
	svc, _, _ := newTestService(t)

	name := "X"
	_, err := svc.UpdateUser(context.Background(), "###", models.UserUpdate{FullName: &name})
	if !errors.IsValidation(err) {
		t.Errorf("malformed id: got %v, want validation error", err)
	}
}

func TestUpdateUserNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	name := "X"
	_, err := svc.UpdateUser(context.Background(), ksuid.New().String(), models.UserUpdate{FullName: &name})
	if !errors.IsNotFound(err) {
		t.Errorf("got %v, want not found error", err)
	}
}

func TestDeleteUser(t *testing.T) {
	svc, users, _ := newTestService(t)
	admin := seedUser(t, users, "admin@example.com", "secret", models.RoleAdmin)
	victim := seedUser(t, users, "op@example.com", "secret", models.RoleOperario)

	if err := svc.DeleteUser(context.Background(), admin, victim.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := users.Get(context.Background(), victim.ID); !errors.IsNotFound(err) {
		t.Error("user still present after delete")
	}
}

func TestDeleteUserSelfRefused(t *testing.T) {
	svc, users, _ := newTestService(t)
	admin := seedUser(t, users, "admin@example.com", "secret", models.RoleAdmin)

	err := svc.DeleteUser(context.Background(), admin, admin.ID)
	apiErr, ok := err.(*errors.APIError)
	if !ok || apiErr.Type != errors.ErrorTypeAuthorize {
		t.Errorf("got %v, want authorization error", err)
	}
	if _, err := users.Get(context.Background(), admin.ID); err != nil {
		t.Error("admin account should survive a refused self-delete")
	}
}

func TestListUsersStripsHashes(t *testing.T) {
	svc, users, _ := newTestService(t)
	seedUser(t, users, "a@example.com", "secret", models.RoleAdmin)
	seedUser(t, users, "b@example.com", "secret", models.RoleOperario)

	list, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d users, want 2", len(list))
	}
	for _, u := range list {
		if u.HashedPassword != "" {
			t.Errorf("user %s still carries a password hash", u.Email)
		}
		if u.Email == "" {
			t.Errorf("user %s lost its email during sanitization", u.ID)
		}
	}
}
