//go:build integration
// +build integration

package repository

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"testing"

	"rbi-data/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestTenantForUsers(t *testing.T, db *sql.DB) string {
	tenantID := "00000000-0000-0000-0000-000000000997"
	_, err := db.Exec(
		`INSERT INTO tenants (tenant_id, tenant_name, status)
		 VALUES ($1, $2, 'active')
		 ON CONFLICT (tenant_id) DO UPDATE SET tenant_name = EXCLUDED.tenant_name`,
		tenantID, "Test LGU Users",
	)
	require.NoError(t, err)
	return tenantID
}

func cleanupTestUsers(t *testing.T, db *sql.DB, tenantID string) {
	_, _ = db.Exec(`DELETE FROM users WHERE tenant_id = $1`, tenantID)
	_, _ = db.Exec(`DELETE FROM tenants WHERE tenant_id = $1`, tenantID)
}

func TestUserCRUD_Roundtrip(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	tenantID := createTestTenantForUsers(t, db)
	defer cleanupTestUsers(t, db, tenantID)

	repo := NewPostgresUsersRepository(db)
	ctx := context.Background()

	accountHash := sha256.Sum256([]byte("encoder1"))
	userID, err := repo.CreateUser(ctx, tenantID, &domain.User{
		UserAccount:     "encoder1",
		UserAccountHash: accountHash[:],
		PasswordHash:    []byte("$2a$10$notarealhashbutlongenough......."),
		Role:            domain.RoleEncoder,
		Nickname:        sql.NullString{String: "Ana", Valid: true},
		BarangayCode:    sql.NullString{String: "1380600001", Valid: true},
	})
	require.NoError(t, err)
	require.NotEmpty(t, userID)

	got, err := repo.GetUserByAccountHash(ctx, tenantID, accountHash[:])
	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, domain.RoleEncoder, got.Role)
	assert.Equal(t, "Ana", got.Nickname.String)
	assert.Equal(t, "active", got.Status)
	assert.False(t, got.LastLoginAt.Valid)

	require.NoError(t, repo.TouchLastLogin(ctx, tenantID, userID))
	got, err = repo.GetUser(ctx, tenantID, userID)
	require.NoError(t, err)
	assert.True(t, got.LastLoginAt.Valid)

	newHash := []byte("$2a$10$differenthashvalue..............")
	require.NoError(t, repo.UpdateUserPassword(ctx, tenantID, userID, newHash))
	got, err = repo.GetUser(ctx, tenantID, userID)
	require.NoError(t, err)
	assert.Equal(t, newHash, got.PasswordHash)

	users, total, err := repo.ListUsers(ctx, tenantID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, users, 1)
}

func TestCreateUser_DuplicateAccountRejected(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	tenantID := createTestTenantForUsers(t, db)
	defer cleanupTestUsers(t, db, tenantID)

	repo := NewPostgresUsersRepository(db)
	ctx := context.Background()

	accountHash := sha256.Sum256([]byte("clerk"))
	user := &domain.User{
		UserAccount:     "clerk",
		UserAccountHash: accountHash[:],
		PasswordHash:    []byte("$2a$10$notarealhashbutlongenough......."),
		Role:            domain.RoleViewer,
	}
	_, err := repo.CreateUser(ctx, tenantID, user)
	require.NoError(t, err)

	_, err = repo.CreateUser(ctx, tenantID, user)
	assert.Error(t, err, "account hash is unique per tenant")
}
