package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rbi-data/internal/domain"
	"rbi-data/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// syncConcurrency parallel region subtrees fetched during a full sync.
// The PSGC publication host is a static-file mirror; modest fanout is fine.
const syncConcurrency = 4

// PSGCService geographic reference lookups and PSA publication sync.
type PSGCService interface {
	ListRegions(ctx context.Context) ([]*domain.Region, error)
	ListProvinces(ctx context.Context, regionCode string) ([]*domain.Province, error)
	ListCities(ctx context.Context, provinceCode string) ([]*domain.City, error)
	ListBarangays(ctx context.Context, cityCode string) ([]*domain.Barangay, error)

	// Search autocomplete across all four levels.
	Search(ctx context.Context, query string, limit int) ([]*domain.PSGCMatch, error)

	// ResolveBarangay returns the full address chain for one barangay code.
	ResolveBarangay(ctx context.Context, code string) (*BarangayAddress, error)

	// Sync pulls the full hierarchy from the PSA publication and upserts it.
	Sync(ctx context.Context) (*SyncResult, error)
}

// BarangayAddress resolved hierarchy for rendering a full address line.
type BarangayAddress struct {
	Barangay *domain.Barangay `json:"barangay"`
	City     *domain.City     `json:"city"`
	Province *domain.Province `json:"province"`
	Region   *domain.Region   `json:"region"`
}

type SyncResult struct {
	Regions   int           `json:"regions"`
	Provinces int           `json:"provinces"`
	Cities    int           `json:"cities"`
	Barangays int           `json:"barangays"`
	Elapsed   time.Duration `json:"elapsed"`
}

type psgcService struct {
	repo   repository.PSGCRepository
	client PSGCClient
	logger *zap.Logger
}

func NewPSGCService(repo repository.PSGCRepository, client PSGCClient, logger *zap.Logger) PSGCService {
	return &psgcService{repo: repo, client: client, logger: logger}
}

func (s *psgcService) ListRegions(ctx context.Context) ([]*domain.Region, error) {
	return s.repo.ListRegions(ctx)
}

func (s *psgcService) ListProvinces(ctx context.Context, regionCode string) ([]*domain.Province, error) {
	return s.repo.ListProvinces(ctx, regionCode)
}

func (s *psgcService) ListCities(ctx context.Context, provinceCode string) ([]*domain.City, error) {
	return s.repo.ListCities(ctx, provinceCode)
}

func (s *psgcService) ListBarangays(ctx context.Context, cityCode string) ([]*domain.Barangay, error) {
	return s.repo.ListBarangays(ctx, cityCode)
}

func (s *psgcService) Search(ctx context.Context, query string, limit int) ([]*domain.PSGCMatch, error) {
	if len(query) < 2 {
		return []*domain.PSGCMatch{}, nil
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	return s.repo.Search(ctx, query, limit)
}

func (s *psgcService) ResolveBarangay(ctx context.Context, code string) (*BarangayAddress, error) {
	barangay, err := s.repo.GetBarangay(ctx, code)
	if err != nil {
		return nil, err
	}
	addr := &BarangayAddress{Barangay: barangay}

	city, err := s.repo.GetCity(ctx, barangay.CityCode)
	if err != nil {
		return addr, nil // partial chain is still useful
	}
	addr.City = city

	province, err := s.repo.GetProvince(ctx, city.ProvinceCode)
	if err != nil {
		return addr, nil
	}
	addr.Province = province

	if region, err := s.repo.GetRegion(ctx, province.RegionCode); err == nil {
		addr.Region = region
	}
	return addr, nil
}

// regionSubtree collects one region's descendants during sync.
type regionSubtree struct {
	provinces []*domain.Province
	cities    []*domain.City
	barangays []*domain.Barangay
}

func (s *psgcService) Sync(ctx context.Context) (*SyncResult, error) {
	start := time.Now()

	regions, err := s.client.FetchRegions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch regions: %w", err)
	}
	if err := s.repo.UpsertRegions(ctx, regions); err != nil {
		return nil, fmt.Errorf("failed to upsert regions: %w", err)
	}

	var mu sync.Mutex
	result := &SyncResult{Regions: len(regions)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(syncConcurrency)
	for _, region := range regions {
		region := region
		g.Go(func() error {
			subtree, err := s.fetchRegionSubtree(gctx, region.Code)
			if err != nil {
				return fmt.Errorf("region %s: %w", region.Code, err)
			}

			// upserts serialize on the mutex so a failed subtree can abort
			// the sync without interleaving partial writes
			mu.Lock()
			defer mu.Unlock()
			if err := s.repo.UpsertProvinces(gctx, subtree.provinces); err != nil {
				return fmt.Errorf("region %s: %w", region.Code, err)
			}
			if err := s.repo.UpsertCities(gctx, subtree.cities); err != nil {
				return fmt.Errorf("region %s: %w", region.Code, err)
			}
			if err := s.repo.UpsertBarangays(gctx, subtree.barangays); err != nil {
				return fmt.Errorf("region %s: %w", region.Code, err)
			}
			result.Provinces += len(subtree.provinces)
			result.Cities += len(subtree.cities)
			result.Barangays += len(subtree.barangays)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.Elapsed = time.Since(start)
	s.logger.Info("psgc sync completed",
		zap.Int("regions", result.Regions),
		zap.Int("provinces", result.Provinces),
		zap.Int("cities", result.Cities),
		zap.Int("barangays", result.Barangays),
		zap.Duration("elapsed", result.Elapsed))
	return result, nil
}

func (s *psgcService) fetchRegionSubtree(ctx context.Context, regionCode string) (*regionSubtree, error) {
	subtree := &regionSubtree{}

	provinces, err := s.client.FetchProvinces(ctx, regionCode)
	if err != nil {
		return nil, err
	}
	subtree.provinces = provinces

	for _, province := range provinces {
		cities, err := s.client.FetchCities(ctx, province.Code)
		if err != nil {
			return nil, err
		}
		subtree.cities = append(subtree.cities, cities...)

		for _, city := range cities {
			barangays, err := s.client.FetchBarangays(ctx, city.Code)
			if err != nil {
				return nil, err
			}
			subtree.barangays = append(subtree.barangays, barangays...)
		}
	}
	return subtree, nil
}
