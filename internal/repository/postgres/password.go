package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/authcore/internal/model"
)

var _ model.PasswordStore = (*PasswordRepository)(nil)

type PasswordRepository struct {
	db Querier
}

func NewPasswordRepository(db Querier) *PasswordRepository {
	return &PasswordRepository{db: db}
}

func (r *PasswordRepository) Get(ctx context.Context, userID int64) (model.Credential, error) {
	const query = `
        SELECT hash, salt, iterations, digest, algorithm, pepper_version, created_at
        FROM passwords WHERE user_id = $1
    `
	var c model.Credential
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&c.Hash, &c.Salt, &c.Iterations, &c.Digest, &c.Algorithm, &c.PepperVersion, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Credential{}, model.ErrNotFound
		}
		return model.Credential{}, fmt.Errorf("failed to get password: %w", err)
	}
	return c, nil
}

func (r *PasswordRepository) Create(ctx context.Context, userID int64, c model.Credential) error {
	const query = `
        INSERT INTO passwords (user_id, hash, salt, iterations, digest, algorithm, pepper_version)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.db.Exec(ctx, query, userID, c.Hash, c.Salt, c.Iterations, c.Digest, c.Algorithm, c.PepperVersion)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create password: %w", err)
	}
	return nil
}

func (r *PasswordRepository) Delete(ctx context.Context, userID int64) error {
	const query = `DELETE FROM passwords WHERE user_id = $1`
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete password: %w", err)
	}
	return nil
}

// AddHistory records c and trims the user's history to the newest limit entries.
func (r *PasswordRepository) AddHistory(ctx context.Context, userID int64, c model.Credential, limit int) error {
	const insert = `
        INSERT INTO password_history (user_id, hash, salt, iterations, digest, algorithm, pepper_version, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.Exec(ctx, insert, userID, c.Hash, c.Salt, c.Iterations, c.Digest, c.Algorithm, c.PepperVersion, createdAt)
	if err != nil {
		return fmt.Errorf("failed to add password history: %w", err)
	}

	const trim = `
        DELETE FROM password_history
        WHERE user_id = $1 AND id NOT IN (
            SELECT id FROM password_history WHERE user_id = $1
            ORDER BY created_at DESC, id DESC LIMIT $2
        )
    `
	if _, err := r.db.Exec(ctx, trim, userID, limit); err != nil {
		return fmt.Errorf("failed to trim password history: %w", err)
	}
	return nil
}

func (r *PasswordRepository) GetHistory(ctx context.Context, userID int64, limit int) ([]model.Credential, error) {
	const query = `
        SELECT hash, salt, iterations, digest, algorithm, pepper_version, created_at
        FROM password_history WHERE user_id = $1
        ORDER BY created_at DESC, id DESC LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get password history: %w", err)
	}
	defer rows.Close()

	var history []model.Credential
	for rows.Next() {
		var c model.Credential
		if err := rows.Scan(&c.Hash, &c.Salt, &c.Iterations, &c.Digest, &c.Algorithm, &c.PepperVersion, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan password history: %w", err)
		}
		history = append(history, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate password history: %w", err)
	}
	return history, nil
}
