package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dtroode/authcore/internal/mocks"
	"github.com/dtroode/authcore/internal/model"
	"github.com/dtroode/authcore/internal/password"
	"github.com/dtroode/authcore/internal/repository/memory"
	"github.com/dtroode/authcore/internal/service"
	"github.com/dtroode/authcore/internal/testutil"
	"github.com/dtroode/authcore/internal/token"
)

type fixture struct {
	store    model.CredentialStore
	hasher   *password.Hasher
	session  *token.Codec
	email    *token.Codec
	reset    *token.Codec
	sender   *mocks.NotificationSender
	auth     *service.Auth
	emails   *service.Email
	password *service.Password
	users    *service.User
}

func hasherOptions() password.Options {
	return password.Options{
		Algorithm:     password.AlgorithmPBKDF2,
		SaltLength:    16,
		HashLength:    32,
		Iterations:    1000,
		Digest:        "sha256",
		BcryptCost:    4,
		Argon2Time:    1,
		Argon2Memory:  1024,
		Argon2Threads: 1,
		Pepper:        "pepper-1",
		PepperVersion: "1",
	}
}

func newFixture(t *testing.T, opts service.Options) *fixture {
	t.Helper()
	return newFixtureWithStore(t, opts, memory.NewStore())
}

func newFixtureWithStore(t *testing.T, opts service.Options, store model.CredentialStore) *fixture {
	t.Helper()

	hasher, err := password.New(hasherOptions())
	require.NoError(t, err)

	f := &fixture{
		store:   store,
		hasher:  hasher,
		session: token.NewCodec("session-secret", time.Minute, token.PurposeSession),
		email:   token.NewCodec("email-secret", time.Hour, token.PurposeEmailVerification),
		reset:   token.NewCodec("reset-secret", time.Hour, token.PurposePasswordReset),
		sender:  mocks.NewNotificationSender(t),
	}

	log := testutil.MakeNoopLogger()
	f.emails = service.NewEmail(store, f.email, f.sender, opts, log)
	f.auth = service.NewAuth(store, hasher, f.session, f.emails, opts, log)
	f.password = service.NewPassword(store, hasher, f.reset, f.sender, opts, log)
	f.users = service.NewUser(store, log)
	return f
}

func (f *fixture) signup(t *testing.T, username, pass string) service.Session {
	t.Helper()
	s, err := f.auth.Signup(context.Background(), username, pass, "")
	require.NoError(t, err)
	return s
}

// failingStore injects an error into transactional role assignment.
type failingStore struct {
	*memory.Store
	err error
}

func (s *failingStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx model.Repositories) error) error {
	return s.Store.WithinTx(ctx, func(ctx context.Context, tx model.Repositories) error {
		return fn(ctx, failingRepos{Repositories: tx, err: s.err})
	})
}

type failingRepos struct {
	model.Repositories
	err error
}

func (r failingRepos) Roles() model.RoleStore {
	return failingRoles{RoleStore: r.Repositories.Roles(), err: r.err}
}

type failingRoles struct {
	model.RoleStore
	err error
}

func (r failingRoles) Assign(context.Context, int64, int64) error {
	return r.err
}

// racingStore runs beforeTx once ahead of the next transaction, standing in
// for a concurrent writer that lands between a pre-check and the insert.
type racingStore struct {
	*memory.Store
	beforeTx func()
}

func (s *racingStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx model.Repositories) error) error {
	if hook := s.beforeTx; hook != nil {
		s.beforeTx = nil
		hook()
	}
	return s.Store.WithinTx(ctx, fn)
}
