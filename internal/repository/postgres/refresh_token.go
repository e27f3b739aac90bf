package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/authcore/internal/model"
)

var _ model.RefreshTokenStore = (*RefreshTokenRepository)(nil)

type RefreshTokenRepository struct {
	db Querier
}

func NewRefreshTokenRepository(db Querier) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Get(ctx context.Context, userID int64, token string) (model.RefreshToken, error) {
	const query = `
        SELECT user_id, token, created_at
        FROM refresh_tokens WHERE user_id = $1 AND token = $2
    `
	var rt model.RefreshToken
	err := r.db.QueryRow(ctx, query, userID, token).Scan(&rt.UserID, &rt.Token, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RefreshToken{}, model.ErrNotFound
		}
		return model.RefreshToken{}, fmt.Errorf("failed to get refresh token: %w", err)
	}
	return rt, nil
}

func (r *RefreshTokenRepository) GetByUser(ctx context.Context, userID int64) (model.RefreshToken, error) {
	const query = `
        SELECT user_id, token, created_at
        FROM refresh_tokens WHERE user_id = $1
    `
	var rt model.RefreshToken
	err := r.db.QueryRow(ctx, query, userID).Scan(&rt.UserID, &rt.Token, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RefreshToken{}, model.ErrNotFound
		}
		return model.RefreshToken{}, fmt.Errorf("failed to get refresh token by user: %w", err)
	}
	return rt, nil
}

func (r *RefreshTokenRepository) Upsert(ctx context.Context, userID int64, token string) (model.RefreshToken, error) {
	const query = `
        INSERT INTO refresh_tokens (user_id, token, created_at) VALUES ($1, $2, NOW())
        ON CONFLICT (user_id) DO UPDATE SET token = EXCLUDED.token, created_at = EXCLUDED.created_at
        RETURNING user_id, token, created_at
    `
	var rt model.RefreshToken
	err := r.db.QueryRow(ctx, query, userID, token).Scan(&rt.UserID, &rt.Token, &rt.CreatedAt)
	if err != nil {
		return model.RefreshToken{}, fmt.Errorf("failed to upsert refresh token: %w", err)
	}
	return rt, nil
}

func (r *RefreshTokenRepository) Delete(ctx context.Context, userID int64) error {
	const query = `DELETE FROM refresh_tokens WHERE user_id = $1`
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}
