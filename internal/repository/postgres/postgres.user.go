// FilePath: internal/repository/postgres/postgres.user.go
package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/hidrosense/hub/internal/database"
	"github.com/hidrosense/hub/internal/errors"
	"github.com/hidrosense/hub/internal/models"
)

type UserRepo struct {
	PostgresBaseRepo
}

func NewUserRepository(db database.DB) (*UserRepo, error) {
	repo := &UserRepo{PostgresBaseRepo: PostgresBaseRepo{db: db}}
	if err := repo.initializeSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *UserRepo) initializeSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			full_name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL,
			disabled BOOLEAN NOT NULL DEFAULT FALSE,
			hashed_password TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		// Email uniqueness is enforced here, not with application locks
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email
         ON users (lower(email))`,
	}

	for _, query := range queries {
		if _, err := r.db.GetDB().Exec(query); err != nil {
			return errors.NewDatabaseError("failed to initialize users schema", err)
		}
	}
	return nil
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (
			id, email, full_name, role, disabled, hashed_password,
			created_at, updated_at
		) VALUES (
			:id, :email, :full_name, :role, :disabled, :hashed_password,
			:created_at, :updated_at
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, user)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.NewConflictError("a user with this email already exists", err)
		}
		return errors.NewDatabaseError("failed to create user", err)
	}
	return nil
}

func (r *UserRepo) Get(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("user not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get user", err)
	}
	return user, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT * FROM users WHERE lower(email) = lower($1)`

	err := r.db.GetDB().GetContext(ctx, user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("user not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get user by email", err)
	}
	return user, nil
}

func (r *UserRepo) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET
			full_name = :full_name,
			role = :role,
			disabled = :disabled,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.GetDB().NamedExecContext(ctx, query, user)
	if err != nil {
		return errors.NewDatabaseError("failed to update user", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError("user not found", nil)
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.db.GetDB().ExecContext(ctx, query, id)
	if err != nil {
		return errors.NewDatabaseError("failed to delete user", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError("user not found", nil)
	}
	return nil
}

func (r *UserRepo) List(ctx context.Context, limit int) ([]*models.User, error) {
	users := []*models.User{}
	query := `SELECT * FROM users ORDER BY created_at ASC LIMIT $1`

	err := r.db.GetDB().SelectContext(ctx, &users, query, limit)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list users", err)
	}
	return users, nil
}

// isUniqueViolation reports whether err is the Postgres unique_violation
// error class, raised when the email index rejects a duplicate.
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
