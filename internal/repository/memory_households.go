package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"rbi-data/internal/domain"

	"github.com/google/uuid"
)

// MemoryHouseholdsRepository in-memory household store for local
// development. Member counts come from the paired residents repository.
type MemoryHouseholdsRepository struct {
	mu         sync.RWMutex
	households map[string]*domain.Household
	residents  *MemoryResidentsRepository
}

func NewMemoryHouseholdsRepository(residents *MemoryResidentsRepository) *MemoryHouseholdsRepository {
	return &MemoryHouseholdsRepository{
		households: map[string]*domain.Household{},
		residents:  residents,
	}
}

var _ HouseholdsRepository = (*MemoryHouseholdsRepository)(nil)

func (m *MemoryHouseholdsRepository) GetHousehold(ctx context.Context, tenantID, householdID string) (*domain.Household, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.households[householdID]
	if !ok || h.TenantID != tenantID {
		return nil, fmt.Errorf("household not found")
	}
	c := *h
	return &c, nil
}

func (m *MemoryHouseholdsRepository) ListHouseholds(ctx context.Context, tenantID string, filters HouseholdFilters, page, size int) ([]*domain.HouseholdWithCount, int, error) {
	m.mu.RLock()
	var all []*domain.HouseholdWithCount
	for _, h := range m.households {
		if h.TenantID != tenantID {
			continue
		}
		if filters.BarangayCode != "" && h.BarangayCode != filters.BarangayCode {
			continue
		}
		if filters.Purok != "" && h.Purok != filters.Purok {
			continue
		}
		if filters.Search != "" {
			q := strings.ToLower(filters.Search)
			if !strings.Contains(strings.ToLower(h.HouseholdNumber), q) &&
				!strings.Contains(strings.ToLower(h.StreetAddress), q) {
				continue
			}
		}
		all = append(all, &domain.HouseholdWithCount{Household: *h})
	}
	m.mu.RUnlock()

	for _, h := range all {
		members, _ := m.residents.ListHouseholdMembers(ctx, tenantID, h.HouseholdID)
		h.MemberCount = len(members)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].HouseholdNumber < all[j].HouseholdNumber })

	total := len(all)
	start := (page - 1) * size
	if start >= total {
		return []*domain.HouseholdWithCount{}, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (m *MemoryHouseholdsRepository) CreateHousehold(ctx context.Context, tenantID string, household *domain.Household) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.households {
		if h.TenantID == tenantID && h.BarangayCode == household.BarangayCode && h.HouseholdNumber == household.HouseholdNumber {
			return "", fmt.Errorf("household number already exists in barangay")
		}
	}
	id := uuid.New().String()
	now := time.Now()
	c := *household
	c.HouseholdID = id
	c.TenantID = tenantID
	c.CreatedAt = &now
	c.UpdatedAt = &now
	m.households[id] = &c
	return id, nil
}

func (m *MemoryHouseholdsRepository) UpdateHousehold(ctx context.Context, tenantID, householdID string, household *domain.Household) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.households[householdID]
	if !ok || old.TenantID != tenantID {
		return fmt.Errorf("household not found")
	}
	now := time.Now()
	c := *household
	c.HouseholdID = householdID
	c.TenantID = tenantID
	c.CreatedAt = old.CreatedAt
	c.UpdatedAt = &now
	m.households[householdID] = &c
	return nil
}

func (m *MemoryHouseholdsRepository) DeleteHousehold(ctx context.Context, tenantID, householdID string) error {
	m.mu.Lock()
	h, ok := m.households[householdID]
	if !ok || h.TenantID != tenantID {
		m.mu.Unlock()
		return fmt.Errorf("household not found")
	}
	delete(m.households, householdID)
	m.mu.Unlock()

	// detach members the way the postgres implementation does in its tx
	members, err := m.residents.ListHouseholdMembers(ctx, tenantID, householdID)
	if err != nil {
		return err
	}
	for _, r := range members {
		if err := m.residents.TransferHousehold(ctx, tenantID, r.ResidentID, nil); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryHouseholdsRepository) SetHead(ctx context.Context, tenantID, householdID, residentID string) error {
	members, err := m.residents.ListHouseholdMembers(ctx, tenantID, householdID)
	if err != nil {
		return err
	}
	isMember := false
	for _, r := range members {
		if r.ResidentID == residentID && r.Status == "active" {
			isMember = true
			break
		}
	}
	if !isMember {
		return fmt.Errorf("head must be an active member of the household")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.households[householdID]
	if !ok || h.TenantID != tenantID {
		return fmt.Errorf("household not found")
	}
	h.HeadResidentID = &residentID
	return nil
}
