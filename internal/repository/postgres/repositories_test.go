package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/authcore/internal/model"
	"github.com/dtroode/authcore/internal/permission"
)

var credentialCols = []string{"hash", "salt", "iterations", "digest", "algorithm", "pepper_version", "created_at"}

func TestPasswordRepository_GetAndCreate(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	r := NewPasswordRepository(mock)
	now := time.Now()
	cred := model.Credential{Hash: "abc", Salt: "s", Iterations: 1000, Digest: "sha512", Algorithm: "pbkdf2", PepperVersion: "1"}

	mock.ExpectExec("INSERT INTO passwords").
		WithArgs(int64(7), cred.Hash, cred.Salt, cred.Iterations, cred.Digest, cred.Algorithm, cred.PepperVersion).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.Create(context.Background(), 7, cred))

	mock.ExpectExec("INSERT INTO passwords").
		WithArgs(int64(7), cred.Hash, cred.Salt, cred.Iterations, cred.Digest, cred.Algorithm, cred.PepperVersion).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	assert.ErrorIs(t, r.Create(context.Background(), 7, cred), model.ErrAlreadyExists)

	mock.ExpectQuery("FROM passwords WHERE user_id").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(credentialCols).AddRow("abc", "s", 1000, "sha512", "pbkdf2", "1", now))
	got, err := r.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "abc", got.Hash)
	assert.Equal(t, 1000, got.Iterations)

	mock.ExpectQuery("FROM passwords WHERE user_id").
		WithArgs(int64(8)).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.Get(context.Background(), 8)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestPasswordRepository_History(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	r := NewPasswordRepository(mock)
	now := time.Now()
	cred := model.Credential{Hash: "h1", Algorithm: "bcrypt", PepperVersion: "1", CreatedAt: now}

	mock.ExpectExec("INSERT INTO password_history").
		WithArgs(int64(7), "h1", "", 0, "", "bcrypt", "1", now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("DELETE FROM password_history").
		WithArgs(int64(7), 5).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, r.AddHistory(context.Background(), 7, cred, 5))

	mock.ExpectQuery("FROM password_history WHERE user_id").
		WithArgs(int64(7), 5).
		WillReturnRows(pgxmock.NewRows(credentialCols).
			AddRow("h2", "", 0, "", "bcrypt", "1", now).
			AddRow("h1", "", 0, "", "bcrypt", "1", now.Add(-time.Hour)))
	history, err := r.GetHistory(context.Background(), 7, 5)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "h2", history[0].Hash)

	mock.ExpectExec("INSERT INTO password_history").
		WithArgs(int64(7), "h1", "", 0, "", "bcrypt", "1", now).
		WillReturnError(errors.New("db down"))
	assert.Error(t, r.AddHistory(context.Background(), 7, cred, 5))
}

func TestRefreshTokenRepository(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	r := NewRefreshTokenRepository(mock)
	now := time.Now()
	cols := []string{"user_id", "token", "created_at"}

	mock.ExpectQuery("INSERT INTO refresh_tokens").
		WithArgs(int64(7), "tok").
		WillReturnRows(pgxmock.NewRows(cols).AddRow(int64(7), "tok", now))
	rt, err := r.Upsert(context.Background(), 7, "tok")
	require.NoError(t, err)
	assert.Equal(t, "tok", rt.Token)

	mock.ExpectQuery("FROM refresh_tokens WHERE user_id = \\$1 AND token").
		WithArgs(int64(7), "tok").
		WillReturnRows(pgxmock.NewRows(cols).AddRow(int64(7), "tok", now))
	rt, err = r.Get(context.Background(), 7, "tok")
	require.NoError(t, err)
	assert.Equal(t, int64(7), rt.UserID)

	mock.ExpectQuery("FROM refresh_tokens WHERE user_id = \\$1 AND token").
		WithArgs(int64(7), "other").
		WillReturnError(pgx.ErrNoRows)
	_, err = r.Get(context.Background(), 7, "other")
	assert.ErrorIs(t, err, model.ErrNotFound)

	mock.ExpectQuery("FROM refresh_tokens WHERE user_id").
		WithArgs(int64(9)).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByUser(context.Background(), 9)
	assert.ErrorIs(t, err, model.ErrNotFound)

	mock.ExpectExec("DELETE FROM refresh_tokens").
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, r.Delete(context.Background(), 7))
}

func TestRoleRepository(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	r := NewRoleRepository(mock)
	perms := []permission.Permission{
		{Resource: permission.ResourceUser, Privilege: permission.Read},
		{Resource: permission.ResourceAccount, Privilege: permission.Admin},
	}

	mock.ExpectQuery("SELECT resource, privilege FROM permissions").
		WillReturnRows(pgxmock.NewRows([]string{"resource", "privilege"}).
			AddRow("user", permission.Read).
			AddRow("account", permission.Admin))
	catalog, err := r.ListPermissions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, perms, catalog)

	mock.ExpectQuery("INSERT INTO roles").
		WithArgs(int64(3), model.AccountOwnerRole).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectExec("INSERT INTO role_permissions").
		WithArgs(int64(11), []string{"user", "account"}, []string{"READ", "ADMIN"}).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	role, err := r.Create(context.Background(), 3, model.AccountOwnerRole, perms)
	require.NoError(t, err)
	assert.Equal(t, int64(11), role.ID)

	mock.ExpectExec("INSERT INTO user_roles").
		WithArgs(int64(7), int64(11)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.Assign(context.Background(), 7, 11))

	mock.ExpectQuery("SELECT r.name FROM roles").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow(model.AccountOwnerRole))
	mock.ExpectQuery("SELECT p.resource, p.privilege").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"resource", "privilege"}).
			AddRow("user", permission.Read).
			AddRow("account", permission.Admin))
	roles, granted, err := r.GetRolesAndPermissions(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []string{model.AccountOwnerRole}, roles)
	assert.Equal(t, perms, granted)
}

func TestRoleRepository_CreateWithoutPermissions(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	r := NewRoleRepository(mock)

	mock.ExpectQuery("INSERT INTO roles").
		WithArgs(int64(3), "Viewer").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(12)))

	role, err := r.Create(context.Background(), 3, "Viewer", nil)
	require.NoError(t, err)
	assert.Equal(t, "Viewer", role.Name)
}

func TestEmailRepository(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	r := NewEmailRepository(mock)
	now := time.Now()
	cols := []string{"id", "user_id", "email", "is_primary", "is_verified", "created_at", "updated_at"}

	mock.ExpectQuery("INSERT INTO emails").
		WithArgs(int64(7), "a@example.com", true, false).
		WillReturnRows(pgxmock.NewRows(cols).AddRow(int64(1), int64(7), "a@example.com", true, false, now, now))
	e, err := r.Create(context.Background(), model.EmailAddress{UserID: 7, Email: "a@example.com", IsPrimary: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), e.ID)

	mock.ExpectQuery("INSERT INTO emails").
		WithArgs(int64(7), "a@example.com", false, false).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	_, err = r.Create(context.Background(), model.EmailAddress{UserID: 7, Email: "a@example.com"})
	assert.ErrorIs(t, err, model.ErrAlreadyExists)

	mock.ExpectQuery("FROM emails WHERE email").
		WithArgs("missing@example.com").
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByAddress(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, model.ErrNotFound)

	mock.ExpectQuery("FROM emails WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(cols).AddRow(int64(1), int64(7), "a@example.com", true, false, now, now))
	e, err = r.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, e.IsPrimary)

	mock.ExpectQuery("FROM emails WHERE user_id").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(int64(1), int64(7), "a@example.com", true, true, now, now).
			AddRow(int64(2), int64(7), "b@example.com", false, false, now, now))
	list, err := r.ListByUser(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))
	n, err := r.CountByUser(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("b@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	taken, err := r.IsTaken(context.Background(), "b@example.com")
	require.NoError(t, err)
	assert.True(t, taken)

	mock.ExpectExec("UPDATE emails SET is_verified").
		WithArgs(int64(2)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, r.MarkVerified(context.Background(), 2))

	mock.ExpectExec("DELETE FROM emails").
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	assert.ErrorIs(t, r.Delete(context.Background(), 5), model.ErrNotFound)
}

func TestStore_WithinTx(t *testing.T) {
	t.Parallel()

	t.Run("commit", func(t *testing.T) {
		t.Parallel()
		mock := newMock(t)
		s := NewStore(mock)

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM refresh_tokens").
			WithArgs(int64(7)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectCommit()

		err := s.WithinTx(context.Background(), func(ctx context.Context, tx model.Repositories) error {
			return tx.RefreshTokens().Delete(ctx, 7)
		})
		require.NoError(t, err)
	})

	t.Run("rollback on error", func(t *testing.T) {
		t.Parallel()
		mock := newMock(t)
		s := NewStore(mock)
		boom := errors.New("boom")

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := s.WithinTx(context.Background(), func(context.Context, model.Repositories) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("rollback on panic", func(t *testing.T) {
		t.Parallel()
		mock := newMock(t)
		s := NewStore(mock)

		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.Panics(t, func() {
			_ = s.WithinTx(context.Background(), func(context.Context, model.Repositories) error {
				panic("unexpected")
			})
		})
	})

	t.Run("begin error", func(t *testing.T) {
		t.Parallel()
		mock := newMock(t)
		s := NewStore(mock)

		mock.ExpectBegin().WillReturnError(errors.New("no conn"))

		called := false
		err := s.WithinTx(context.Background(), func(context.Context, model.Repositories) error {
			called = true
			return nil
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to begin transaction")
		assert.False(t, called)
	})

	t.Run("commit error", func(t *testing.T) {
		t.Parallel()
		mock := newMock(t)
		s := NewStore(mock)

		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

		err := s.WithinTx(context.Background(), func(context.Context, model.Repositories) error { return nil })
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to commit transaction")
	})
}

func TestStore_Accessors(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	s := NewStore(mock)

	assert.NotNil(t, s.Users())
	assert.NotNil(t, s.Passwords())
	assert.NotNil(t, s.RefreshTokens())
	assert.NotNil(t, s.Roles())
	assert.NotNil(t, s.Emails())
}
