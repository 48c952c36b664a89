package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rbi-data/internal/repository"
	"rbi-data/internal/store"

	"go.uber.org/zap"
)

// statsCacheTTL dashboard stats staleness bound. Aggregates are cheap but
// the dashboard polls, so a short cache keeps load off the residents table.
const statsCacheTTL = 60 * time.Second

// ageBucketSize dashboard age pyramid bucket width in years.
const ageBucketSize = 10

// StatsService dashboard aggregates over the resident registry.
type StatsService interface {
	Dashboard(ctx context.Context, tenantID string) (*DashboardStats, error)
	Invalidate(ctx context.Context, tenantID string)
}

// DashboardStats one tenant's registry overview.
type DashboardStats struct {
	ActiveResidents int            `json:"active_residents"`
	Deceased        int            `json:"deceased"`
	MovedOut        int            `json:"moved_out"`
	BySex           map[string]int `json:"by_sex"`
	BySectoralFlag  map[string]int `json:"by_sectoral_flag"`
	ByAgeBucket     map[int]int    `json:"by_age_bucket"`
	ByBarangay      map[string]int `json:"by_barangay"`
	GeneratedAt     time.Time      `json:"generated_at"`
}

type statsService struct {
	residentsRepo repository.ResidentsRepository
	cache         store.KV
	logger        *zap.Logger
	now           func() time.Time
}

func NewStatsService(residentsRepo repository.ResidentsRepository, cache store.KV, logger *zap.Logger) StatsService {
	return &statsService{
		residentsRepo: residentsRepo,
		cache:         cache,
		logger:        logger,
		now:           time.Now,
	}
}

func statsCacheKey(tenantID string) string {
	return fmt.Sprintf("stats:dashboard:%s", tenantID)
}

func (s *statsService) Dashboard(ctx context.Context, tenantID string) (*DashboardStats, error) {
	if cached, err := s.cache.Get(ctx, statsCacheKey(tenantID)); err == nil {
		stats := &DashboardStats{}
		if json.Unmarshal([]byte(cached), stats) == nil {
			return stats, nil
		}
	} else if err != store.ErrMiss {
		s.logger.Warn("stats cache read failed", zap.Error(err))
	}

	stats, err := s.compute(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, statsCacheKey(tenantID), string(payload), statsCacheTTL); err != nil {
			s.logger.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

func (s *statsService) Invalidate(ctx context.Context, tenantID string) {
	if err := s.cache.Delete(ctx, statsCacheKey(tenantID)); err != nil {
		s.logger.Warn("stats cache invalidation failed", zap.Error(err))
	}
}

func (s *statsService) compute(ctx context.Context, tenantID string) (*DashboardStats, error) {
	stats := &DashboardStats{GeneratedAt: s.now()}

	var err error
	if stats.ActiveResidents, err = s.residentsRepo.CountByStatus(ctx, tenantID, "active"); err != nil {
		return nil, fmt.Errorf("failed to count active residents: %w", err)
	}
	if stats.Deceased, err = s.residentsRepo.CountByStatus(ctx, tenantID, "deceased"); err != nil {
		return nil, fmt.Errorf("failed to count deceased residents: %w", err)
	}
	if stats.MovedOut, err = s.residentsRepo.CountByStatus(ctx, tenantID, "moved_out"); err != nil {
		return nil, fmt.Errorf("failed to count moved-out residents: %w", err)
	}
	if stats.BySex, err = s.residentsRepo.CountBySex(ctx, tenantID); err != nil {
		return nil, fmt.Errorf("failed to count by sex: %w", err)
	}
	if stats.BySectoralFlag, err = s.residentsRepo.CountBySectoralFlag(ctx, tenantID, repository.SectoralFlagNames); err != nil {
		return nil, fmt.Errorf("failed to count sectoral flags: %w", err)
	}
	if stats.ByAgeBucket, err = s.residentsRepo.AgeHistogram(ctx, tenantID, ageBucketSize); err != nil {
		return nil, fmt.Errorf("failed to build age histogram: %w", err)
	}
	if stats.ByBarangay, err = s.residentsRepo.CountByBarangay(ctx, tenantID); err != nil {
		return nil, fmt.Errorf("failed to count by barangay: %w", err)
	}
	return stats, nil
}
