package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/evalca-server/internal/model"
)

var _ model.RoleStore = (*RoleRepository)(nil)

type RoleRepository struct {
	db *Connection
}

func NewRoleRepository(db *Connection) *RoleRepository {
	return &RoleRepository{
		db: db,
	}
}

func (r *RoleRepository) List(ctx context.Context) ([]model.Role, error) {
	query := `SELECT id, name, description, is_active FROM roles ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	roles, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Role, error) {
		var role model.Role
		err := row.Scan(&role.ID, &role.Name, &role.Description, &role.IsActive)
		return role, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan roles: %w", err)
	}

	return roles, nil
}
