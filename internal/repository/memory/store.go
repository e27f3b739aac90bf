// Package memory is an in-process credential store for tests and single-node
// development. All reads and writes go through one mutex; transactions work
// on a private copy that replaces the live state only on commit.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/dtroode/authcore/internal/model"
	"github.com/dtroode/authcore/internal/permission"
)

var _ model.CredentialStore = (*Store)(nil)

// DefaultPermissions is the catalog seeded into a new store.
var DefaultPermissions = []permission.Permission{
	{Resource: permission.ResourceUser, Privilege: permission.Read},
	{Resource: permission.ResourceUser, Privilege: permission.Write},
	{Resource: permission.ResourceUser, Privilege: permission.Delete},
	{Resource: permission.ResourceEmail, Privilege: permission.Read},
	{Resource: permission.ResourceEmail, Privilege: permission.Write},
	{Resource: permission.ResourceEmail, Privilege: permission.Delete},
	{Resource: permission.ResourceAccount, Privilege: permission.Admin},
}

type state struct {
	seq         int64
	accounts    map[int64]model.Account
	users       map[int64]model.User
	passwords   map[int64]model.Credential
	history     map[int64][]model.Credential
	refresh     map[int64]model.RefreshToken
	permissions []permission.Permission
	roles       map[int64]model.Role
	userRoles   map[int64][]int64
	emails      map[int64]model.EmailAddress
}

func newState(catalog []permission.Permission) *state {
	return &state{
		accounts:    make(map[int64]model.Account),
		users:       make(map[int64]model.User),
		passwords:   make(map[int64]model.Credential),
		history:     make(map[int64][]model.Credential),
		refresh:     make(map[int64]model.RefreshToken),
		permissions: slices.Clone(catalog),
		roles:       make(map[int64]model.Role),
		userRoles:   make(map[int64][]int64),
		emails:      make(map[int64]model.EmailAddress),
	}
}

func (s *state) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *state) clone() *state {
	c := &state{
		seq:         s.seq,
		accounts:    maps.Clone(s.accounts),
		users:       maps.Clone(s.users),
		passwords:   maps.Clone(s.passwords),
		history:     make(map[int64][]model.Credential, len(s.history)),
		refresh:     maps.Clone(s.refresh),
		permissions: slices.Clone(s.permissions),
		roles:       maps.Clone(s.roles),
		userRoles:   make(map[int64][]int64, len(s.userRoles)),
		emails:      maps.Clone(s.emails),
	}
	for k, v := range s.history {
		c.history[k] = slices.Clone(v)
	}
	for k, v := range s.userRoles {
		c.userRoles[k] = slices.Clone(v)
	}
	return c
}

// handle resolves the state a repository operates on and guards access to it.
type handle struct {
	mu    sync.Locker
	state func() *state
}

func (h *handle) acquire() (*state, func()) {
	h.mu.Lock()
	return h.state(), h.mu.Unlock
}

type noopLocker struct{}

func (noopLocker) Lock()   {}
func (noopLocker) Unlock() {}

type repositories struct {
	users     *UserRepository
	passwords *PasswordRepository
	refresh   *RefreshTokenRepository
	roles     *RoleRepository
	emails    *EmailRepository
}

func newRepositories(h *handle) *repositories {
	return &repositories{
		users:     &UserRepository{h: h},
		passwords: &PasswordRepository{h: h},
		refresh:   &RefreshTokenRepository{h: h},
		roles:     &RoleRepository{h: h},
		emails:    &EmailRepository{h: h},
	}
}

func (r *repositories) Users() model.UserStore                 { return r.users }
func (r *repositories) Passwords() model.PasswordStore         { return r.passwords }
func (r *repositories) RefreshTokens() model.RefreshTokenStore { return r.refresh }
func (r *repositories) Roles() model.RoleStore                 { return r.roles }
func (r *repositories) Emails() model.EmailStore               { return r.emails }

// Store is a mutex-guarded in-memory credential store.
type Store struct {
	*repositories
	mu sync.Mutex
	st *state
}

// NewStore returns an empty store seeded with DefaultPermissions.
func NewStore() *Store {
	return NewStoreWithCatalog(DefaultPermissions)
}

func NewStoreWithCatalog(catalog []permission.Permission) *Store {
	s := &Store{st: newState(catalog)}
	s.repositories = newRepositories(&handle{
		mu:    &s.mu,
		state: func() *state { return s.st },
	})
	return s
}

// WithinTx serializes fn against every other operation on the store.
// Repositories passed to fn must be used instead of the store's own
// accessors until fn returns.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx model.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.st.clone()
	tx := newRepositories(&handle{
		mu:    noopLocker{},
		state: func() *state { return work },
	})

	if err := fn(ctx, tx); err != nil {
		return err
	}

	s.st = work
	return nil
}
