package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/authcore/internal/model"
)

var _ model.CredentialStore = (*Store)(nil)

type repositories struct {
	users   *UserRepository
	passwds *PasswordRepository
	refresh *RefreshTokenRepository
	roles   *RoleRepository
	emails  *EmailRepository
}

func newRepositories(q Querier) *repositories {
	return &repositories{
		users:   NewUserRepository(q),
		passwds: NewPasswordRepository(q),
		refresh: NewRefreshTokenRepository(q),
		roles:   NewRoleRepository(q),
		emails:  NewEmailRepository(q),
	}
}

func (r *repositories) Users() model.UserStore                 { return r.users }
func (r *repositories) Passwords() model.PasswordStore         { return r.passwds }
func (r *repositories) RefreshTokens() model.RefreshTokenStore { return r.refresh }
func (r *repositories) Roles() model.RoleStore                 { return r.roles }
func (r *repositories) Emails() model.EmailStore               { return r.emails }

// Store is the Postgres-backed credential store.
type Store struct {
	*repositories
	db DB
}

func NewStore(db DB) *Store {
	return &Store{
		repositories: newRepositories(db),
		db:           db,
	}
}

// WithinTx runs fn inside a single transaction. The transaction is rolled
// back if fn returns an error or panics.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx model.Repositories) error) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil && !committed {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				err = errors.Join(err, fmt.Errorf("failed to rollback transaction: %w", rbErr))
			}
		}
	}()

	if err = fn(ctx, newRepositories(tx)); err != nil {
		return err
	}

	committed = true
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
