package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"rbi-data/internal/config"
	"rbi-data/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUsersRepo struct {
	users map[string]*domain.User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: map[string]*domain.User{}}
}

func (f *fakeUsersRepo) GetUser(ctx context.Context, tenantID, userID string) (*domain.User, error) {
	u, ok := f.users[userID]
	if !ok || u.TenantID != tenantID {
		return nil, fmt.Errorf("user not found")
	}
	c := *u
	return &c, nil
}

func (f *fakeUsersRepo) GetUserByAccountHash(ctx context.Context, tenantID string, accountHash []byte) (*domain.User, error) {
	for _, u := range f.users {
		if u.TenantID == tenantID && bytes.Equal(u.UserAccountHash, accountHash) {
			c := *u
			return &c, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (f *fakeUsersRepo) GetUserByEmailHash(ctx context.Context, tenantID string, emailHash []byte) (*domain.User, error) {
	for _, u := range f.users {
		if u.TenantID == tenantID && bytes.Equal(u.EmailHash, emailHash) {
			c := *u
			return &c, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (f *fakeUsersRepo) ListUsers(ctx context.Context, tenantID string, page, size int) ([]*domain.User, int, error) {
	var out []*domain.User
	for _, u := range f.users {
		if u.TenantID == tenantID {
			c := *u
			out = append(out, &c)
		}
	}
	return out, len(out), nil
}

func (f *fakeUsersRepo) CreateUser(ctx context.Context, tenantID string, user *domain.User) (string, error) {
	id := uuid.New().String()
	c := *user
	c.UserID = id
	c.TenantID = tenantID
	f.users[id] = &c
	return id, nil
}

func (f *fakeUsersRepo) UpdateUserPassword(ctx context.Context, tenantID, userID string, passwordHash []byte) error {
	u, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("user not found")
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUsersRepo) TouchLastLogin(ctx context.Context, tenantID, userID string) error {
	return nil
}

func newTestAuthService(t *testing.T) (AuthService, *fakeUsersRepo, *memKV) {
	t.Helper()
	users := newFakeUsersRepo()
	kv := newMemKV()
	svc := NewAuthService(users, kv, config.AuthConfig{
		JWTSecret:    "test-secret",
		TokenTTL:     time.Hour,
		ResetCodeTTL: 10 * time.Minute,
	}, zap.NewNop())
	return svc, users, kv
}

func seedUser(t *testing.T, users *fakeUsersRepo, account, password, email string) string {
	t.Helper()
	passwordHash, err := HashPassword(password)
	require.NoError(t, err)
	id, err := users.CreateUser(context.Background(), "tenant-1", &domain.User{
		UserAccount:     account,
		UserAccountHash: HashAccount(account),
		PasswordHash:    passwordHash,
		EmailHash:       HashEmail(email),
		Role:            domain.RoleEncoder,
		Status:          "active",
	})
	require.NoError(t, err)
	return id
}

func TestLogin_IssuesParsableToken(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	userID := seedUser(t, users, "encoder1", "s3cret-pass", "encoder1@lgu.gov.ph")

	resp, err := svc.Login(context.Background(), LoginRequest{
		TenantID: "tenant-1",
		Account:  "Encoder1", // lookup is case-insensitive
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, userID, resp.UserID)
	assert.Equal(t, domain.RoleEncoder, resp.Role)

	claims, err := svc.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", claims.TenantID)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, domain.RoleEncoder, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	seedUser(t, users, "encoder1", "s3cret-pass", "encoder1@lgu.gov.ph")

	_, err := svc.Login(context.Background(), LoginRequest{
		TenantID: "tenant-1",
		Account:  "encoder1",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid account or password")
}

func TestLogin_InactiveAccount(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	id := seedUser(t, users, "encoder1", "s3cret-pass", "encoder1@lgu.gov.ph")
	users.users[id].Status = "disabled"

	_, err := svc.Login(context.Background(), LoginRequest{
		TenantID: "tenant-1",
		Account:  "encoder1",
		Password: "s3cret-pass",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not active")
}

func TestParseToken_RejectsWrongSecret(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	seedUser(t, users, "encoder1", "s3cret-pass", "encoder1@lgu.gov.ph")

	resp, err := svc.Login(context.Background(), LoginRequest{
		TenantID: "tenant-1",
		Account:  "encoder1",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	other := NewAuthService(users, newMemKV(), config.AuthConfig{
		JWTSecret: "different-secret",
		TokenTTL:  time.Hour,
	}, zap.NewNop())
	_, err = other.ParseToken(resp.Token)
	require.Error(t, err)
}

func TestPasswordReset_FullFlow(t *testing.T) {
	svc, users, kv := newTestAuthService(t)
	seedUser(t, users, "encoder1", "old-pass-123", "encoder1@lgu.gov.ph")
	ctx := context.Background()

	require.NoError(t, svc.SendResetCode(ctx, SendResetCodeRequest{
		TenantID: "tenant-1",
		Email:    "encoder1@lgu.gov.ph",
	}))

	code, err := kv.Get(ctx, resetCodeKey("tenant-1", HashEmail("encoder1@lgu.gov.ph")))
	require.NoError(t, err)
	require.Len(t, code, 6)

	ok, err := svc.VerifyResetCode(ctx, VerifyResetCodeRequest{
		TenantID: "tenant-1",
		Email:    "encoder1@lgu.gov.ph",
		Code:     "000000",
	})
	require.NoError(t, err)
	if code != "000000" {
		assert.False(t, ok)
	}

	require.NoError(t, svc.ResetPassword(ctx, ResetPasswordRequest{
		TenantID:    "tenant-1",
		Email:       "encoder1@lgu.gov.ph",
		Code:        code,
		NewPassword: "new-pass-456",
	}))

	// code is single use
	ok, err = svc.VerifyResetCode(ctx, VerifyResetCodeRequest{
		TenantID: "tenant-1",
		Email:    "encoder1@lgu.gov.ph",
		Code:     code,
	})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.Login(ctx, LoginRequest{TenantID: "tenant-1", Account: "encoder1", Password: "old-pass-123"})
	require.Error(t, err)
	_, err = svc.Login(ctx, LoginRequest{TenantID: "tenant-1", Account: "encoder1", Password: "new-pass-456"})
	require.NoError(t, err)
}

func TestVerifyResetCode_MatchesExactCodeOnly(t *testing.T) {
	svc, _, kv := newTestAuthService(t)
	ctx := context.Background()

	key := resetCodeKey("tenant-1", HashEmail("encoder1@lgu.gov.ph"))
	require.NoError(t, kv.Set(ctx, key, "428913", time.Minute))

	for _, guess := range []string{"428914", "428", "4289130", "000000"} {
		ok, err := svc.VerifyResetCode(ctx, VerifyResetCodeRequest{
			TenantID: "tenant-1",
			Email:    "encoder1@lgu.gov.ph",
			Code:     guess,
		})
		require.NoError(t, err)
		assert.False(t, ok, "guess %q", guess)
	}

	ok, err := svc.VerifyResetCode(ctx, VerifyResetCodeRequest{
		TenantID: "tenant-1",
		Email:    "encoder1@lgu.gov.ph",
		Code:     "428913",
	})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSendResetCode_UnknownEmailSucceedsQuietly(t *testing.T) {
	svc, _, kv := newTestAuthService(t)

	require.NoError(t, svc.SendResetCode(context.Background(), SendResetCodeRequest{
		TenantID: "tenant-1",
		Email:    "nobody@lgu.gov.ph",
	}))
	assert.Empty(t, kv.values)
}
