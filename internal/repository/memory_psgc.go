package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"rbi-data/internal/domain"
)

// MemoryPSGCRepository in-memory PSGC reference for dev mode (DB disabled).
// Seeded with a minimal hierarchy so address pickers and searches answer
// without a database.
type MemoryPSGCRepository struct {
	mu        sync.RWMutex
	regions   map[string]*domain.Region
	provinces map[string]*domain.Province
	cities    map[string]*domain.City
	barangays map[string]*domain.Barangay
}

func NewMemoryPSGCRepository() *MemoryPSGCRepository {
	m := &MemoryPSGCRepository{
		regions:   map[string]*domain.Region{},
		provinces: map[string]*domain.Province{},
		cities:    map[string]*domain.City{},
		barangays: map[string]*domain.Barangay{},
	}
	m.seed()
	return m
}

var _ PSGCRepository = (*MemoryPSGCRepository)(nil)

// seed a small NCR slice for local development
func (m *MemoryPSGCRepository) seed() {
	m.regions["1300000000"] = &domain.Region{Code: "1300000000", Name: "National Capital Region (NCR)"}
	m.provinces["1380000000"] = &domain.Province{Code: "1380000000", RegionCode: "1300000000", Name: "NCR, City of Manila, First District"}
	m.cities["1380600000"] = &domain.City{Code: "1380600000", ProvinceCode: "1380000000", Name: "City of Manila", CityClass: "HUC"}
	for code, name := range map[string]string{
		"1380600001": "Barangay 1",
		"1380600002": "Barangay 2",
		"1380600003": "Barangay 3",
	} {
		m.barangays[code] = &domain.Barangay{Code: code, CityCode: "1380600000", Name: name}
	}
}

func (m *MemoryPSGCRepository) GetRegion(ctx context.Context, code string) (*domain.Region, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.regions[code]; ok {
		c := *r
		return &c, nil
	}
	return nil, fmt.Errorf("region not found")
}

func (m *MemoryPSGCRepository) GetProvince(ctx context.Context, code string) (*domain.Province, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.provinces[code]; ok {
		c := *p
		return &c, nil
	}
	return nil, fmt.Errorf("province not found")
}

func (m *MemoryPSGCRepository) GetCity(ctx context.Context, code string) (*domain.City, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.cities[code]; ok {
		cc := *c
		return &cc, nil
	}
	return nil, fmt.Errorf("city not found")
}

func (m *MemoryPSGCRepository) GetBarangay(ctx context.Context, code string) (*domain.Barangay, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.barangays[code]; ok {
		c := *b
		return &c, nil
	}
	return nil, fmt.Errorf("barangay not found")
}

func (m *MemoryPSGCRepository) ListRegions(ctx context.Context) ([]*domain.Region, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*domain.Region{}
	for _, r := range m.regions {
		c := *r
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *MemoryPSGCRepository) ListProvinces(ctx context.Context, regionCode string) ([]*domain.Province, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*domain.Province{}
	for _, p := range m.provinces {
		if p.RegionCode == regionCode {
			c := *p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryPSGCRepository) ListCities(ctx context.Context, provinceCode string) ([]*domain.City, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*domain.City{}
	for _, c := range m.cities {
		if c.ProvinceCode == provinceCode {
			cc := *c
			out = append(out, &cc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryPSGCRepository) ListBarangays(ctx context.Context, cityCode string) ([]*domain.Barangay, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*domain.Barangay{}
	for _, b := range m.barangays {
		if b.CityCode == cityCode {
			c := *b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryPSGCRepository) Search(ctx context.Context, query string, limit int) ([]*domain.PSGCMatch, error) {
	if query == "" {
		return []*domain.PSGCMatch{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	q := strings.ToLower(query)
	matches := []*domain.PSGCMatch{}

	for _, r := range m.regions {
		if strings.Contains(strings.ToLower(r.Name), q) {
			matches = append(matches, &domain.PSGCMatch{Code: r.Code, Name: r.Name, Level: "region", RegionName: r.Name})
		}
	}
	for _, p := range m.provinces {
		if strings.Contains(strings.ToLower(p.Name), q) {
			matches = append(matches, &domain.PSGCMatch{Code: p.Code, Name: p.Name, Level: "province", ProvinceName: p.Name})
		}
	}
	for _, c := range m.cities {
		if strings.Contains(strings.ToLower(c.Name), q) {
			matches = append(matches, &domain.PSGCMatch{Code: c.Code, Name: c.Name, Level: "city", CityName: c.Name})
		}
	}
	for _, b := range m.barangays {
		if strings.Contains(strings.ToLower(b.Name), q) {
			city := ""
			if c, ok := m.cities[b.CityCode]; ok {
				city = c.Name
			}
			matches = append(matches, &domain.PSGCMatch{Code: b.Code, Name: b.Name, Level: "barangay", CityName: city})
		}
	}

	// prefix matches first, then shorter names
	sort.Slice(matches, func(i, j int) bool {
		pi := strings.HasPrefix(strings.ToLower(matches[i].Name), q)
		pj := strings.HasPrefix(strings.ToLower(matches[j].Name), q)
		if pi != pj {
			return pi
		}
		if len(matches[i].Name) != len(matches[j].Name) {
			return len(matches[i].Name) < len(matches[j].Name)
		}
		return matches[i].Name < matches[j].Name
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (m *MemoryPSGCRepository) UpsertRegions(ctx context.Context, regions []*domain.Region) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range regions {
		c := *r
		m.regions[r.Code] = &c
	}
	return nil
}

func (m *MemoryPSGCRepository) UpsertProvinces(ctx context.Context, provinces []*domain.Province) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range provinces {
		c := *p
		m.provinces[p.Code] = &c
	}
	return nil
}

func (m *MemoryPSGCRepository) UpsertCities(ctx context.Context, cities []*domain.City) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range cities {
		cc := *c
		m.cities[c.Code] = &cc
	}
	return nil
}

func (m *MemoryPSGCRepository) UpsertBarangays(ctx context.Context, barangays []*domain.Barangay) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range barangays {
		c := *b
		m.barangays[b.Code] = &c
	}
	return nil
}
