package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/dtroode/authcore/internal/model"
	"github.com/dtroode/authcore/internal/permission"
)

var (
	_ model.UserStore         = (*UserRepository)(nil)
	_ model.PasswordStore     = (*PasswordRepository)(nil)
	_ model.RefreshTokenStore = (*RefreshTokenRepository)(nil)
	_ model.RoleStore         = (*RoleRepository)(nil)
	_ model.EmailStore        = (*EmailRepository)(nil)
)

type UserRepository struct {
	h *handle
}

func (r *UserRepository) CreateAccount(_ context.Context, name string) (model.Account, error) {
	st, unlock := r.h.acquire()
	defer unlock()

	acc := model.Account{ID: st.nextID(), Name: name, CreatedAt: time.Now()}
	st.accounts[acc.ID] = acc
	return acc, nil
}

func (r *UserRepository) Create(_ context.Context, user model.User) (model.User, error) {
	st, unlock := r.h.acquire()
	defer unlock()

	if _, ok := st.accounts[user.AccountID]; !ok {
		return model.User{}, model.ErrNotFound
	}
	for _, u := range st.users {
		if u.Username == user.Username {
			return model.User{}, model.ErrAlreadyExists
		}
		if user.Provider != nil && user.ProviderID != nil && u.Provider != nil && u.ProviderID != nil &&
			*u.Provider == *user.Provider && *u.ProviderID == *user.ProviderID {
			return model.User{}, model.ErrAlreadyExists
		}
	}

	now := time.Now()
	user.ID = st.nextID()
	user.CreatedAt, user.UpdatedAt = now, now
	st.users[user.ID] = user
	return user, nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (model.User, error) {
	st, unlock := r.h.acquire()
	defer unlock()

	u, ok := st.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (model.User, error) {
	st, unlock := r.h.acquire()
	defer unlock()

	for _, u := range st.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (r *UserRepository) GetByProvider(_ context.Context, provider, providerID string) (model.User, error) {
	st, unlock := r.h.acquire()
	defer unlock()

	for _, u := range st.users {
		if u.Provider != nil && u.ProviderID != nil && *u.Provider == provider && *u.ProviderID == providerID {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (r *UserRepository) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	switch err {
	case nil:
		return true, nil
	case model.ErrNotFound:
		return false, nil
	default:
		return false, err
	}
}

func (r *UserRepository) UpdateProfile(_ context.Context, id int64, firstName, lastName *string) (model.User, error) {
	st, unlock := r.h.acquire()
	defer unlock()

	u, ok := st.users[id]
	if !ok || u.IsDeleted {
		return model.User{}, model.ErrNotFound
	}
	if firstName != nil {
		u.FirstName = firstName
	}
	if lastName != nil {
		u.LastName = lastName
	}
	u.UpdatedAt = time.Now()
	st.users[id] = u
	return u, nil
}

func (r *UserRepository) MarkVerified(_ context.Context, id int64) error {
	st, unlock := r.h.acquire()
	defer unlock()

	u, ok := st.users[id]
	if !ok {
		return model.ErrNotFound
	}
	u.IsVerified = true
	u.UpdatedAt = time.Now()
	st.users[id] = u
	return nil
}

type PasswordRepository struct {
	h *handle
}

func (r *PasswordRepository) Get(_ context.Context, userID int64) (model.Credential, error) {
	st, unlock := r.h.acquire()
	defer unlock()

	c, ok := st.passwords[userID]
	if !ok {
		return model.Credential{}, model.ErrNotFound
	}
	return c, nil
}

func (r *PasswordRepository) Create(_ context.Context, userID int64, c model.Credential) error {
	st, unlock := r.h.acquire()
	defer unlock()

	if _, ok := st.passwords[userID]; ok {
		return model.ErrAlreadyExists
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	st.passwords[userID] = c
	return nil
}

func (r *PasswordRepository) Delete(_ context.Context, userID int64) error {
	st, unlock := r.h.acquire()
	defer unlock()

	delete(st.passwords, userID)
	return nil
}

// AddHistory prepends c to the user's history and keeps the newest limit entries.
func (r *PasswordRepository) AddHistory(_ context.Context, userID int64, c model.Credential, limit int) error {
	st, unlock := r.h.acquire()
	defer unlock()

	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	h := append([]model.Credential{c}, st.history[userID]...)
	slices.SortStableFunc(h, func(a, b model.Credential) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit >= 0 && len(h) > limit {
		h = h[:limit]
	}
	st.history[userID] = h
	return nil
}

func (r *PasswordRepository) GetHistory(_ context.Context, userID int64, limit int) ([]model.Credential, error) {
	st, unlock := r.h.acquire()
	defer unlock()

	h := st.history[userID]
	if limit >= 0 && len(h) > limit {
		h = h[:limit]
	}
	return slices.Clone(h), nil
}

type RefreshTokenRepository struct {
	h *handle
}

func (r *RefreshTokenRepository) Get(_ context.Context, userID int64, token string) (model.RefreshToken, error) {
	st, unlock := r.h.acquire()
	defer unlock()

	rt, ok := st.refresh[userID]
	if !ok || rt.Token != token {
		return model.RefreshToken{}, model.ErrNotFound
	}
	return rt, nil
}

func (r *RefreshTokenRepository) GetByUser(_ context.Context, userID int64) (model.RefreshToken, error) {
	st, unlock := r.h.acquire()
	defer unlock()

	rt, ok := st.refresh[userID]
	if !ok {
		return model.RefreshToken{}, model.ErrNotFound
	}
	return rt, nil
}

func (r *RefreshTokenRepository) Upsert(_ context.Context, userID int64, token string) (model.RefreshToken, error) {
	st, unlock := r.h.acquire()
	defer unlock()

	rt := model.RefreshToken{UserID: userID, Token: token, CreatedAt: time.Now()}
	st.refresh[userID] = rt
	return rt, nil
}

func (r *RefreshTokenRepository) Delete(_ context.Context, userID int64) error {
	st, unlock := r.h.acquire()
	defer unlock()

	delete(st.refresh, userID)
	return nil
}

type RoleRepository struct {
	h *handle
}

func (r *RoleRepository) ListPermissions(_ context.Context) ([]permission.Permission, error) {
	st, unlock := r.h.acquire()
	defer unlock()

	return slices.Clone(st.permissions), nil
}

// Create stores the role with the subset of perms present in the catalog.
func (r *RoleRepository) Create(_ context.Context, accountID int64, name string, perms []permission.Permission) (model.Role, error) {
	st, unlock := r.h.acquire()
	defer unlock()

	for _, role := range st.roles {
		if role.AccountID == accountID && role.Name == name {
			return model.Role{}, model.ErrAlreadyExists
		}
	}

	granted := make([]permission.Permission, 0, len(perms))
	for _, p := range st.permissions {
		if slices.Contains(perms, p) {
			granted = append(granted, p)
		}
	}

	role := model.Role{ID: st.nextID(), AccountID: accountID, Name: name, Permissions: granted}
	st.roles[role.ID] = role
	return role, nil
}

func (r *RoleRepository) Assign(_ context.Context, userID, roleID int64) error {
	st, unlock := r.h.acquire()
	defer unlock()

	if _, ok := st.roles[roleID]; !ok {
		return model.ErrNotFound
	}
	if slices.Contains(st.userRoles[userID], roleID) {
		return nil
	}
	st.userRoles[userID] = append(st.userRoles[userID], roleID)
	return nil
}

func (r *RoleRepository) GetRolesAndPermissions(_ context.Context, userID int64) ([]string, []permission.Permission, error) {
	st, unlock := r.h.acquire()
	defer unlock()

	ids := slices.Sorted(slices.Values(st.userRoles[userID]))
	roles := make([]string, 0, len(ids))
	perms := make([]permission.Permission, 0)
	for _, id := range ids {
		role := st.roles[id]
		roles = append(roles, role.Name)
		perms = append(perms, role.Permissions...)
	}
	return roles, perms, nil
}

type EmailRepository struct {
	h *handle
}

func (r *EmailRepository) Create(_ context.Context, email model.EmailAddress) (model.EmailAddress, error) {
	st, unlock := r.h.acquire()
	defer unlock()

	for _, e := range st.emails {
		if e.Email == email.Email {
			return model.EmailAddress{}, model.ErrAlreadyExists
		}
		if email.IsPrimary && e.IsPrimary && e.UserID == email.UserID {
			return model.EmailAddress{}, model.ErrAlreadyExists
		}
	}

	now := time.Now()
	email.ID = st.nextID()
	email.CreatedAt, email.UpdatedAt = now, now
	st.emails[email.ID] = email
	return email, nil
}

func (r *EmailRepository) GetByID(_ context.Context, id int64) (model.EmailAddress, error) {
	st, unlock := r.h.acquire()
	defer unlock()

	e, ok := st.emails[id]
	if !ok {
		return model.EmailAddress{}, model.ErrNotFound
	}
	return e, nil
}

func (r *EmailRepository) GetByAddress(_ context.Context, address string) (model.EmailAddress, error) {
	st, unlock := r.h.acquire()
	defer unlock()

	for _, e := range st.emails {
		if e.Email == address {
			return e, nil
		}
	}
	return model.EmailAddress{}, model.ErrNotFound
}

func (r *EmailRepository) ListByUser(_ context.Context, userID int64) ([]model.EmailAddress, error) {
	st, unlock := r.h.acquire()
	defer unlock()

	emails := make([]model.EmailAddress, 0)
	for _, e := range st.emails {
		if e.UserID == userID {
			emails = append(emails, e)
		}
	}
	slices.SortFunc(emails, func(a, b model.EmailAddress) int { return cmp.Compare(a.ID, b.ID) })
	return emails, nil
}

func (r *EmailRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	emails, err := r.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(emails), nil
}

func (r *EmailRepository) IsTaken(ctx context.Context, address string) (bool, error) {
	_, err := r.GetByAddress(ctx, address)
	switch err {
	case nil:
		return true, nil
	case model.ErrNotFound:
		return false, nil
	default:
		return false, err
	}
}

func (r *EmailRepository) MarkVerified(_ context.Context, id int64) error {
	st, unlock := r.h.acquire()
	defer unlock()

	e, ok := st.emails[id]
	if !ok {
		return model.ErrNotFound
	}
	e.IsVerified = true
	e.UpdatedAt = time.Now()
	st.emails[id] = e
	return nil
}

func (r *EmailRepository) Delete(_ context.Context, id int64) error {
	st, unlock := r.h.acquire()
	defer unlock()

	if _, ok := st.emails[id]; !ok {
		return model.ErrNotFound
	}
	delete(st.emails, id)
	return nil
}
