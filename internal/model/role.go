package model

import (
	"context"

	"github.com/dtroode/authcore/internal/permission"
)

// AccountOwnerRole is created for every new account and holds the whole catalog.
const AccountOwnerRole = "Account Owner"

// RoleStore defines persistence operations for roles and the permission catalog.
type RoleStore interface {
	ListPermissions(ctx context.Context) ([]permission.Permission, error)
	Create(ctx context.Context, accountID int64, name string, perms []permission.Permission) (Role, error)
	Assign(ctx context.Context, userID, roleID int64) error
	// GetRolesAndPermissions returns role names and the flat permission list
	// of every role assigned to the user.
	GetRolesAndPermissions(ctx context.Context, userID int64) ([]string, []permission.Permission, error)
}

// Role is a named permission set within an account.
type Role struct {
	ID          int64
	AccountID   int64
	Name        string
	Permissions []permission.Permission
}
