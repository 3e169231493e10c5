package user

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	users map[string]*User
	seq   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]*User)}
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeRepo) Create(_ context.Context, u *User) error {
	for _, other := range f.users {
		if other.Email == u.Email {
			return ErrEmailAlreadyUsed
		}
	}
	f.seq++
	u.ID = fmt.Sprintf("user-%d", f.seq)
	u.CreatedAt = time.Now().UTC()
	clone := *u
	f.users[u.ID] = &clone
	return nil
}

func (f *fakeRepo) Update(_ context.Context, u *User) error {
	if _, ok := f.users[u.ID]; !ok {
		return ErrNotFound
	}
	clone := *u
	f.users[u.ID] = &clone
	return nil
}

func (f *fakeRepo) UpdateLastLogin(_ context.Context, id string, t time.Time) error {
	u, ok := f.users[id]
	if !ok {
		return ErrNotFound
	}
	u.LastLoginAt = &t
	return nil
}

func (f *fakeRepo) List(_ context.Context, _ Filter) ([]*User, int, error) {
	var out []*User
	for _, u := range f.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, len(out), nil
}

// fakeHasher marks hashes with a prefix instead of running bcrypt.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

func register(t *testing.T, svc Service, email string) *User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterRequest{
		Email:    email,
		Password: "supersecret",
	})
	require.NoError(t, err)
	return u
}

func TestRegister(t *testing.T) {
	svc := NewService(newFakeRepo(), fakeHasher{})

	u, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "  Alice@Example.COM ",
		Password:    "supersecret",
		DisplayName: "Alice",
		Unit:        "4B",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, RoleMember, u.Role)
	assert.True(t, u.IsActive)
	assert.Equal(t, "hashed:supersecret", u.PasswordHash)
	require.NotNil(t, u.DisplayName)
	assert.Equal(t, "Alice", *u.DisplayName)
	require.NotNil(t, u.Unit)
	assert.Equal(t, "4B", *u.Unit)
	assert.Nil(t, u.Phone)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(newFakeRepo(), fakeHasher{})

	_, err := svc.Register(context.Background(), RegisterRequest{Email: " ", Password: "supersecret"})
	assert.Error(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{Email: "a@b.com", Password: "short"})
	assert.Error(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeRepo(), fakeHasher{})
	register(t, svc, "alice@example.com")

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "ALICE@example.com",
		Password: "supersecret",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
}

func TestLogin(t *testing.T) {
	svc := NewService(newFakeRepo(), fakeHasher{})
	register(t, svc, "alice@example.com")

	u, err := svc.Login(context.Background(), "Alice@Example.com", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)

	_, err = svc.Login(context.Background(), "alice@example.com", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "supersecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeHasher{})
	u := register(t, svc, "alice@example.com")

	inactive := false
	_, err := svc.Update(context.Background(), u.ID, UpdateRequest{IsActive: &inactive})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice@example.com", "supersecret")
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestUpdateRole(t *testing.T) {
	svc := NewService(newFakeRepo(), fakeHasher{})
	u := register(t, svc, "alice@example.com")

	admin := string(RoleAdmin)
	updated, err := svc.Update(context.Background(), u.ID, UpdateRequest{Role: &admin})
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, updated.Role)

	bogus := "superuser"
	_, err = svc.Update(context.Background(), u.ID, UpdateRequest{Role: &bogus})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestIsAdmin(t *testing.T) {
	svc := NewService(newFakeRepo(), fakeHasher{})
	member := register(t, svc, "member@example.com")
	promoted := register(t, svc, "admin@example.com")

	admin := string(RoleAdmin)
	_, err := svc.Update(context.Background(), promoted.ID, UpdateRequest{Role: &admin})
	require.NoError(t, err)

	assert.False(t, svc.IsAdmin(context.Background(), member.ID))
	assert.True(t, svc.IsAdmin(context.Background(), promoted.ID))
	assert.False(t, svc.IsAdmin(context.Background(), "missing"))
	assert.False(t, svc.IsAdmin(context.Background(), ""))

	// Deactivated admins lose access.
	inactive := false
	_, err = svc.Update(context.Background(), promoted.ID, UpdateRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, svc.IsAdmin(context.Background(), promoted.ID))
}
