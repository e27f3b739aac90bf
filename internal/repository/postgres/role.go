package postgres

import (
	"context"
	"fmt"

	"github.com/dtroode/authcore/internal/model"
	"github.com/dtroode/authcore/internal/permission"
)

var _ model.RoleStore = (*RoleRepository)(nil)

type RoleRepository struct {
	db Querier
}

func NewRoleRepository(db Querier) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) ListPermissions(ctx context.Context) ([]permission.Permission, error) {
	const query = `SELECT resource, privilege FROM permissions ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	defer rows.Close()

	var perms []permission.Permission
	for rows.Next() {
		var p permission.Permission
		if err := rows.Scan(&p.Resource, &p.Privilege); err != nil {
			return nil, fmt.Errorf("failed to scan permission: %w", err)
		}
		perms = append(perms, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate permissions: %w", err)
	}
	return perms, nil
}

// Create inserts the role and links it to the catalog entries named in perms.
func (r *RoleRepository) Create(ctx context.Context, accountID int64, name string, perms []permission.Permission) (model.Role, error) {
	const insertRole = `INSERT INTO roles (account_id, name) VALUES ($1, $2) RETURNING id`

	role := model.Role{AccountID: accountID, Name: name, Permissions: perms}
	if err := r.db.QueryRow(ctx, insertRole, accountID, name).Scan(&role.ID); err != nil {
		if isUniqueViolation(err) {
			return model.Role{}, model.ErrAlreadyExists
		}
		return model.Role{}, fmt.Errorf("failed to create role: %w", err)
	}

	if len(perms) == 0 {
		return role, nil
	}

	resources := make([]string, len(perms))
	privileges := make([]string, len(perms))
	for i, p := range perms {
		resources[i] = p.Resource
		privileges[i] = string(p.Privilege)
	}

	const link = `
        INSERT INTO role_permissions (role_id, permission_id)
        SELECT $1, p.id
        FROM permissions p
        JOIN unnest($2::text[], $3::text[]) AS req(resource, privilege)
          ON p.resource = req.resource AND p.privilege = req.privilege
        ON CONFLICT DO NOTHING
    `
	if _, err := r.db.Exec(ctx, link, role.ID, resources, privileges); err != nil {
		return model.Role{}, fmt.Errorf("failed to grant role permissions: %w", err)
	}

	return role, nil
}

func (r *RoleRepository) Assign(ctx context.Context, userID, roleID int64) error {
	const query = `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.Exec(ctx, query, userID, roleID); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	return nil
}

func (r *RoleRepository) GetRolesAndPermissions(ctx context.Context, userID int64) ([]string, []permission.Permission, error) {
	const rolesQuery = `
        SELECT r.name FROM roles r
        JOIN user_roles ur ON ur.role_id = r.id
        WHERE ur.user_id = $1
        ORDER BY r.id
    `
	rows, err := r.db.Query(ctx, rolesQuery, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get roles: %w", err)
	}
	roles := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate roles: %w", err)
	}

	const permsQuery = `
        SELECT p.resource, p.privilege
        FROM user_roles ur
        JOIN role_permissions rp ON rp.role_id = ur.role_id
        JOIN permissions p ON p.id = rp.permission_id
        WHERE ur.user_id = $1
        ORDER BY ur.role_id, p.id
    `
	rows, err = r.db.Query(ctx, permsQuery, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get permissions: %w", err)
	}
	defer rows.Close()

	perms := make([]permission.Permission, 0)
	for rows.Next() {
		var p permission.Permission
		if err := rows.Scan(&p.Resource, &p.Privilege); err != nil {
			return nil, nil, fmt.Errorf("failed to scan permission: %w", err)
		}
		perms = append(perms, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate permissions: %w", err)
	}

	return roles, perms, nil
}
