package model

import (
	"context"
	"fmt"
)

// RoleName enumerates known roles.
type RoleName string

const (
	// RoleTeacher is assigned on ordinary signup and gates OCR and evaluation.
	RoleTeacher RoleName = "teacher"
	// RoleAdmin is assigned through the administrative signup endpoint.
	RoleAdmin RoleName = "admin"
	// RoleStudent is seeded but not assigned by any endpoint.
	RoleStudent RoleName = "student"
)

// Role is a row of the roles table.
type Role struct {
	ID          int64
	Name        RoleName
	Description string
	IsActive    bool
}

// RoleStore lists roles.
type RoleStore interface {
	List(ctx context.Context) ([]Role, error)
}

// RoleCatalog maps role names to ids and back. It is built once at startup.
type RoleCatalog struct {
	byName map[RoleName]int64
	byID   map[int64]RoleName
}

// NewRoleCatalog indexes active roles.
func NewRoleCatalog(roles []Role) *RoleCatalog {
	c := &RoleCatalog{
		byName: make(map[RoleName]int64, len(roles)),
		byID:   make(map[int64]RoleName, len(roles)),
	}
	for _, r := range roles {
		if !r.IsActive {
			continue
		}
		c.byName[r.Name] = r.ID
		c.byID[r.ID] = r.Name
	}
	return c
}

// LoadRoleCatalog reads roles from the store and checks the required ones are present.
func LoadRoleCatalog(ctx context.Context, store RoleStore, required ...RoleName) (*RoleCatalog, error) {
	roles, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	c := NewRoleCatalog(roles)
	for _, name := range required {
		if _, ok := c.byName[name]; !ok {
			return nil, fmt.Errorf("role %q is not defined", name)
		}
	}
	return c, nil
}

// ID returns the id of the named role.
func (c *RoleCatalog) ID(name RoleName) (int64, bool) {
	id, ok := c.byName[name]
	return id, ok
}

// Name returns the name of the role with the given id.
func (c *RoleCatalog) Name(id int64) (RoleName, bool) {
	name, ok := c.byID[id]
	return name, ok
}
