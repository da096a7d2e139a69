package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/evalca-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

const selectUser = `SELECT u.id, u.email, u.hashed_password, u.first_name, u.last_name,
			  u.role_id, r.name, u.is_active, u.created_at, u.updated_at
			  FROM users u JOIN roles r ON r.id = u.role_id`

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Email, &user.HashedPassword, &user.FirstName, &user.LastName,
		&user.RoleID, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	return user, err
}

// GetByEmail returns the active user with the given email, compared case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := selectUser + ` WHERE LOWER(u.email) = $1 AND u.is_active`

	user, err := scanUser(r.db.QueryRow(ctx, query, model.NormalizeEmail(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetActiveByID(ctx context.Context, id int64) (model.User, error) {
	query := selectUser + ` WHERE u.id = $1 AND u.is_active`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// Create inserts the user and returns it with its role name. A duplicate email yields model.ErrAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	insert := `INSERT INTO users (email, hashed_password, first_name, last_name, role_id, is_active)
			  VALUES ($1, $2, $3, $4, $5, TRUE)
			  RETURNING id`

	var saved model.User
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var id int64
		err := tx.QueryRow(ctx, insert,
			model.NormalizeEmail(user.Email), user.HashedPassword, user.FirstName, user.LastName, user.RoleID,
		).Scan(&id)
		if err != nil {
			return err
		}

		saved, err = scanUser(tx.QueryRow(ctx, selectUser+` WHERE u.id = $1`, id))
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrAlreadyExists
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}
