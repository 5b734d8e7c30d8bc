package user

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/omniscribe/pkg/Logger"
)

type memRepo struct {
	mu    sync.Mutex
	users map[string]*User
}

func newMemRepo() *memRepo { return &memRepo{users: map[string]*User{}} }

func (m *memRepo) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func newTestService() (UserService, *memRepo) {
	repo := newMemRepo()
	return NewUserService(repo, Logger.Nop(), "test-secret", time.Hour), repo
}

func register(t *testing.T, svc UserService) *Session {
	t.Helper()
	sess, err := svc.Register(context.Background(), Credentials{Email: " Ada@Example.com ", Password: "correct horse"})
	require.NoError(t, err)
	return sess
}

func TestRegisterAndLogin(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	sess := register(t, svc)
	assert.Equal(t, "ada@example.com", sess.User.Email)
	assert.NotEmpty(t, sess.Token)
	assert.NotEqual(t, "correct horse", repo.users[sess.User.ID].Password, "password is hashed")

	_, err := svc.Register(ctx, Credentials{Email: "ada@example.com", Password: "whatever1"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	_, err = svc.Login(ctx, Credentials{Email: "ada@example.com", Password: "wrong password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, Credentials{Email: "ghost@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	login, err := svc.Login(ctx, Credentials{Email: "ADA@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, sess.User, login.User)

	claims, err := svc.ValidateToken(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestRegisterValidation(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	cases := []struct {
		name  string
		creds Credentials
		want  error
	}{
		{"empty email", Credentials{Email: "  ", Password: "longenough"}, ErrInvalidEmail},
		{"no domain dot", Credentials{Email: "ada@example", Password: "longenough"}, ErrInvalidEmail},
		{"inner space", Credentials{Email: "a da@example.com", Password: "longenough"}, ErrInvalidEmail},
		{"short password", Credentials{Email: "ada@example.com", Password: "1234567"}, ErrPasswordTooShort},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.creds)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, repo.users)
}

func TestLoginRequiresBothFields(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Login(ctx, Credentials{Email: " ", Password: "secret"})
	assert.ErrorIs(t, err, ErrMissingCredentials)
	_, err = svc.Login(ctx, Credentials{Email: "ada@example.com"})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestValidateTokenRejectsForgeries(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	anonymous, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, anonymous)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
