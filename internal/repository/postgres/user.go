package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/authcore/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const userColumns = `id, account_id, username, first_name, last_name, is_verified, is_blocked, is_deleted,
			  provider, provider_id, created_at, updated_at`

type UserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.AccountID, &user.Username, &user.FirstName, &user.LastName,
		&user.IsVerified, &user.IsBlocked, &user.IsDeleted,
		&user.Provider, &user.ProviderID, &user.CreatedAt, &user.UpdatedAt,
	)
	return user, err
}

func (r *UserRepository) CreateAccount(ctx context.Context, name string) (model.Account, error) {
	query := `INSERT INTO accounts (name) VALUES ($1) RETURNING id, name, created_at`

	var account model.Account
	err := r.db.QueryRow(ctx, query, name).Scan(&account.ID, &account.Name, &account.CreatedAt)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (account_id, username, first_name, last_name, is_verified, provider, provider_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRow(ctx, query,
		user.AccountID, user.Username, user.FirstName, user.LastName, user.IsVerified,
		user.Provider, user.ProviderID,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrAlreadyExists
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByProvider(ctx context.Context, provider, providerID string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE provider = $1 AND provider_id = $2`

	user, err := scanUser(r.db.QueryRow(ctx, query, provider, providerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by provider: %w", err)
	}

	return user, nil
}

func (r *UserRepository) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`

	var taken bool
	if err := r.db.QueryRow(ctx, query, username).Scan(&taken); err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}

	return taken, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, firstName, lastName *string) (model.User, error) {
	query := `UPDATE users
			  SET first_name = COALESCE($2, first_name), last_name = COALESCE($3, last_name), updated_at = NOW()
			  WHERE id = $1 AND NOT is_deleted
			  RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, id, firstName, lastName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) MarkVerified(ctx context.Context, id int64) error {
	query := `UPDATE users SET is_verified = TRUE, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}
