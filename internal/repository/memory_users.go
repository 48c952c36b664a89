package repository

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"rbi-data/internal/domain"

	"github.com/google/uuid"
)

// MemoryUsersRepository in-memory staff accounts for local development when
// the database is disabled.
type MemoryUsersRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewMemoryUsersRepository() *MemoryUsersRepository {
	return &MemoryUsersRepository{users: map[string]*domain.User{}}
}

var _ UsersRepository = (*MemoryUsersRepository)(nil)

func (m *MemoryUsersRepository) GetUser(ctx context.Context, tenantID, userID string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok || u.TenantID != tenantID {
		return nil, fmt.Errorf("user not found")
	}
	c := *u
	return &c, nil
}

func (m *MemoryUsersRepository) GetUserByAccountHash(ctx context.Context, tenantID string, accountHash []byte) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.TenantID == tenantID && bytes.Equal(u.UserAccountHash, accountHash) {
			c := *u
			return &c, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (m *MemoryUsersRepository) GetUserByEmailHash(ctx context.Context, tenantID string, emailHash []byte) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.TenantID == tenantID && len(u.EmailHash) > 0 && bytes.Equal(u.EmailHash, emailHash) {
			c := *u
			return &c, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (m *MemoryUsersRepository) ListUsers(ctx context.Context, tenantID string, page, size int) ([]*domain.User, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.User
	for _, u := range m.users {
		if u.TenantID == tenantID {
			c := *u
			out = append(out, &c)
		}
	}
	return out, len(out), nil
}

func (m *MemoryUsersRepository) CreateUser(ctx context.Context, tenantID string, user *domain.User) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.TenantID == tenantID && u.UserAccount == user.UserAccount {
			return "", fmt.Errorf("user account already exists")
		}
	}
	id := uuid.New().String()
	c := *user
	c.UserID = id
	c.TenantID = tenantID
	m.users[id] = &c
	return id, nil
}

func (m *MemoryUsersRepository) UpdateUserPassword(ctx context.Context, tenantID, userID string, passwordHash []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok || u.TenantID != tenantID {
		return fmt.Errorf("user not found")
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *MemoryUsersRepository) TouchLastLogin(ctx context.Context, tenantID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok || u.TenantID != tenantID {
		return fmt.Errorf("user not found")
	}
	now := time.Now()
	u.LastLoginAt.Time = now
	u.LastLoginAt.Valid = true
	return nil
}

// MemoryTenantsRepository in-memory LGU tenants for local development.
type MemoryTenantsRepository struct {
	mu      sync.RWMutex
	tenants map[string]*domain.Tenant
}

func NewMemoryTenantsRepository() *MemoryTenantsRepository {
	return &MemoryTenantsRepository{tenants: map[string]*domain.Tenant{}}
}

var _ TenantsRepository = (*MemoryTenantsRepository)(nil)

func (m *MemoryTenantsRepository) GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tenants[tenantID]
	if !ok {
		return nil, fmt.Errorf("tenant not found")
	}
	c := *t
	return &c, nil
}

func (m *MemoryTenantsRepository) ListTenants(ctx context.Context, status string) ([]*domain.Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Tenant
	for _, t := range m.tenants {
		if status == "" || t.Status == status {
			c := *t
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *MemoryTenantsRepository) SearchTenants(ctx context.Context, query string, limit int) ([]*domain.Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Tenant
	for _, t := range m.tenants {
		if t.Status != "active" {
			continue
		}
		if query == "" || strings.Contains(strings.ToLower(t.TenantName), strings.ToLower(query)) {
			c := *t
			out = append(out, &c)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *MemoryTenantsRepository) CreateTenant(ctx context.Context, tenant *domain.Tenant) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := tenant.TenantID
	if id == "" {
		id = uuid.New().String()
	}
	c := *tenant
	c.TenantID = id
	if c.Status == "" {
		c.Status = "active"
	}
	m.tenants[id] = &c
	return id, nil
}

func (m *MemoryTenantsRepository) UpdateTenantStatus(ctx context.Context, tenantID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenants[tenantID]
	if !ok {
		return fmt.Errorf("tenant not found")
	}
	t.Status = status
	return nil
}
