package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/authcore/internal/model"
)

var _ model.EmailStore = (*EmailRepository)(nil)

const emailColumns = `id, user_id, email, is_primary, is_verified, created_at, updated_at`

type EmailRepository struct {
	db Querier
}

func NewEmailRepository(db Querier) *EmailRepository {
	return &EmailRepository{db: db}
}

func scanEmail(row pgx.Row) (model.EmailAddress, error) {
	var e model.EmailAddress
	err := row.Scan(&e.ID, &e.UserID, &e.Email, &e.IsPrimary, &e.IsVerified, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *EmailRepository) Create(ctx context.Context, email model.EmailAddress) (model.EmailAddress, error) {
	query := `INSERT INTO emails (user_id, email, is_primary, is_verified)
			  VALUES ($1, $2, $3, $4)
			  RETURNING ` + emailColumns

	saved, err := scanEmail(r.db.QueryRow(ctx, query, email.UserID, email.Email, email.IsPrimary, email.IsVerified))
	if err != nil {
		if isUniqueViolation(err) {
			return model.EmailAddress{}, model.ErrAlreadyExists
		}
		return model.EmailAddress{}, fmt.Errorf("failed to create email: %w", err)
	}
	return saved, nil
}

func (r *EmailRepository) GetByID(ctx context.Context, id int64) (model.EmailAddress, error) {
	query := `SELECT ` + emailColumns + ` FROM emails WHERE id = $1`

	e, err := scanEmail(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.EmailAddress{}, model.ErrNotFound
		}
		return model.EmailAddress{}, fmt.Errorf("failed to get email by id: %w", err)
	}
	return e, nil
}

func (r *EmailRepository) GetByAddress(ctx context.Context, address string) (model.EmailAddress, error) {
	query := `SELECT ` + emailColumns + ` FROM emails WHERE email = $1`

	e, err := scanEmail(r.db.QueryRow(ctx, query, address))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.EmailAddress{}, model.ErrNotFound
		}
		return model.EmailAddress{}, fmt.Errorf("failed to get email by address: %w", err)
	}
	return e, nil
}

func (r *EmailRepository) ListByUser(ctx context.Context, userID int64) ([]model.EmailAddress, error) {
	query := `SELECT ` + emailColumns + ` FROM emails WHERE user_id = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list emails: %w", err)
	}
	defer rows.Close()

	emails := make([]model.EmailAddress, 0)
	for rows.Next() {
		e, err := scanEmail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan email: %w", err)
		}
		emails = append(emails, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate emails: %w", err)
	}
	return emails, nil
}

func (r *EmailRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM emails WHERE user_id = $1`

	var n int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count emails: %w", err)
	}
	return n, nil
}

func (r *EmailRepository) IsTaken(ctx context.Context, address string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM emails WHERE email = $1)`

	var taken bool
	if err := r.db.QueryRow(ctx, query, address).Scan(&taken); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return taken, nil
}

func (r *EmailRepository) MarkVerified(ctx context.Context, id int64) error {
	query := `UPDATE emails SET is_verified = TRUE, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *EmailRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM emails WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete email: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
