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

// MemoryResidentsRepository in-memory resident store for local development
// when the database is disabled. Filter semantics mirror the postgres
// implementation closely enough for UI work.
type MemoryResidentsRepository struct {
	mu        sync.RWMutex
	residents map[string]*domain.Resident
}

func NewMemoryResidentsRepository() *MemoryResidentsRepository {
	return &MemoryResidentsRepository{residents: map[string]*domain.Resident{}}
}

var _ ResidentsRepository = (*MemoryResidentsRepository)(nil)

func (m *MemoryResidentsRepository) GetResident(ctx context.Context, tenantID, residentID string) (*domain.Resident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.residents[residentID]
	if !ok || r.TenantID != tenantID {
		return nil, fmt.Errorf("resident not found")
	}
	c := *r
	return &c, nil
}

// matchesFilters applies everything except Purok, which needs the
// household join only the postgres implementation has.
func matchesFilters(r *domain.Resident, f ResidentFilters) bool {
	if f.BarangayCode != "" && r.BarangayCode != f.BarangayCode {
		return false
	}
	if f.HouseholdID != "" && (r.HouseholdID == nil || *r.HouseholdID != f.HouseholdID) {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Sex != "" && r.Sex != f.Sex {
		return false
	}
	if f.RegisteredVoter != nil && r.RegisteredVoter != *f.RegisteredVoter {
		return false
	}
	if f.SectoralFlag != "" && !sectoralFlagSet(r, f.SectoralFlag) {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.LastName), q) &&
			!strings.Contains(strings.ToLower(r.FirstName), q) &&
			!strings.Contains(strings.ToLower(r.MiddleName), q) {
			return false
		}
	}
	return true
}

func sectoralFlagSet(r *domain.Resident, flag string) bool {
	sec := r.Sectoral
	switch flag {
	case "is_labor_force_employed":
		return sec.IsLaborForceEmployed
	case "is_unemployed":
		return sec.IsUnemployed
	case "is_out_of_school_children":
		return sec.IsOutOfSchoolChildren
	case "is_out_of_school_youth":
		return sec.IsOutOfSchoolYouth
	case "is_senior_citizen":
		return sec.IsSeniorCitizen
	case "is_indigenous_people":
		return sec.IsIndigenousPeople
	case "is_overseas_filipino_worker":
		return sec.IsOverseasFilipinoWorker
	case "is_person_with_disability":
		return sec.IsPersonWithDisability
	case "is_registered_senior_citizen":
		return sec.IsRegisteredSeniorCitizen
	case "is_solo_parent":
		return sec.IsSoloParent
	case "is_migrant":
		return sec.IsMigrant
	}
	return false
}

func (m *MemoryResidentsRepository) ListResidents(ctx context.Context, tenantID string, filters ResidentFilters, page, size int) ([]*domain.Resident, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var all []*domain.Resident
	for _, r := range m.residents {
		if r.TenantID == tenantID && matchesFilters(r, filters) {
			c := *r
			all = append(all, &c)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].LastName != all[j].LastName {
			return all[i].LastName < all[j].LastName
		}
		return all[i].FirstName < all[j].FirstName
	})

	total := len(all)
	start := (page - 1) * size
	if start >= total {
		return []*domain.Resident{}, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (m *MemoryResidentsRepository) CreateResident(ctx context.Context, tenantID string, resident *domain.Resident) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New().String()
	now := time.Now()
	c := *resident
	c.ResidentID = id
	c.TenantID = tenantID
	c.CreatedAt = &now
	c.UpdatedAt = &now
	m.residents[id] = &c
	return id, nil
}

func (m *MemoryResidentsRepository) UpdateResident(ctx context.Context, tenantID, residentID string, resident *domain.Resident) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.residents[residentID]
	if !ok || old.TenantID != tenantID {
		return fmt.Errorf("resident not found")
	}
	now := time.Now()
	c := *resident
	c.ResidentID = residentID
	c.TenantID = tenantID
	c.CreatedAt = old.CreatedAt
	c.UpdatedAt = &now
	m.residents[residentID] = &c
	return nil
}

func (m *MemoryResidentsRepository) DeleteResident(ctx context.Context, tenantID, residentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.residents[residentID]
	if !ok || r.TenantID != tenantID {
		return fmt.Errorf("resident not found")
	}
	delete(m.residents, residentID)
	return nil
}

func (m *MemoryResidentsRepository) TransferHousehold(ctx context.Context, tenantID, residentID string, householdID *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.residents[residentID]
	if !ok || r.TenantID != tenantID {
		return fmt.Errorf("resident not found")
	}
	r.HouseholdID = householdID
	return nil
}

func (m *MemoryResidentsRepository) ListHouseholdMembers(ctx context.Context, tenantID, householdID string) ([]*domain.Resident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Resident
	for _, r := range m.residents {
		if r.TenantID == tenantID && r.HouseholdID != nil && *r.HouseholdID == householdID {
			c := *r
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	return out, nil
}

func (m *MemoryResidentsRepository) CountByStatus(ctx context.Context, tenantID, status string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, r := range m.residents {
		if r.TenantID == tenantID && r.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *MemoryResidentsRepository) CountBySex(ctx context.Context, tenantID string) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := map[string]int{}
	for _, r := range m.residents {
		if r.TenantID == tenantID && r.Status == "active" {
			out[r.Sex]++
		}
	}
	return out, nil
}

func (m *MemoryResidentsRepository) CountBySectoralFlag(ctx context.Context, tenantID string, flags []string) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := map[string]int{}
	for _, flag := range flags {
		out[flag] = 0
	}
	for _, r := range m.residents {
		if r.TenantID != tenantID || r.Status != "active" {
			continue
		}
		for _, flag := range flags {
			if sectoralFlagSet(r, flag) {
				out[flag]++
			}
		}
	}
	return out, nil
}

func (m *MemoryResidentsRepository) AgeHistogram(ctx context.Context, tenantID string, bucketSize int) (map[int]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := map[int]int{}
	now := time.Now()
	for _, r := range m.residents {
		if r.TenantID != tenantID || r.Status != "active" || r.Birthdate == nil {
			continue
		}
		age, ok := r.SectoralContext().ResolveAge(now)
		if !ok {
			continue
		}
		out[(age/bucketSize)*bucketSize]++
	}
	return out, nil
}

func (m *MemoryResidentsRepository) CountByBarangay(ctx context.Context, tenantID string) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := map[string]int{}
	for _, r := range m.residents {
		if r.TenantID == tenantID && r.Status == "active" {
			out[r.BarangayCode]++
		}
	}
	return out, nil
}
