package service

import (
	"context"
	"testing"
	"time"

	"rbi-data/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memKV struct {
	values map[string]string
}

func newMemKV() *memKV { return &memKV{values: map[string]string{}} }

func (m *memKV) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", store.ErrMiss
	}
	return v, nil
}

func (m *memKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.values[key] = value
	return nil
}

func (m *memKV) Delete(ctx context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func seedResidents(t *testing.T, svc ResidentService) {
	t.Helper()
	ctx := context.Background()
	for _, req := range []SaveResidentRequest{
		{BarangayCode: "1380600001", LastName: "Santos", FirstName: "Lourdes", Sex: "female", Birthdate: date(1960, 1, 1)},
		{BarangayCode: "1380600001", LastName: "Reyes", FirstName: "Marco", Sex: "male", Birthdate: date(1990, 5, 1), EmploymentStatus: "employed_full_time"},
		{BarangayCode: "1380600002", LastName: "Cruz", FirstName: "Ana", Sex: "female", Birthdate: date(2010, 1, 1)},
	} {
		_, err := svc.CreateResident(ctx, "tenant-1", req)
		require.NoError(t, err)
	}
}

func TestDashboard_Aggregates(t *testing.T) {
	residentSvc, residents, _ := newTestResidentService(t)
	seedResidents(t, residentSvc)

	svc := NewStatsService(residents, newMemKV(), zap.NewNop())
	stats, err := svc.Dashboard(context.Background(), "tenant-1")
	require.NoError(t, err)

	assert.Equal(t, 3, stats.ActiveResidents)
	assert.Equal(t, 0, stats.Deceased)
	assert.Equal(t, 2, stats.BySex["female"])
	assert.Equal(t, 1, stats.BySex["male"])
	assert.Equal(t, 2, stats.ByBarangay["1380600001"])
	assert.Equal(t, 1, stats.ByBarangay["1380600002"])
}

func TestDashboard_ServesFromCache(t *testing.T) {
	residentSvc, residents, _ := newTestResidentService(t)
	seedResidents(t, residentSvc)
	kv := newMemKV()
	svc := NewStatsService(residents, kv, zap.NewNop())
	ctx := context.Background()

	first, err := svc.Dashboard(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, 3, first.ActiveResidents)

	// new resident is invisible until the cache entry expires or is invalidated
	_, err = residentSvc.CreateResident(ctx, "tenant-1", SaveResidentRequest{
		BarangayCode: "1380600003", LastName: "Lim", FirstName: "Grace", Sex: "female",
	})
	require.NoError(t, err)

	cached, err := svc.Dashboard(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, 3, cached.ActiveResidents)

	svc.Invalidate(ctx, "tenant-1")
	fresh, err := svc.Dashboard(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, 4, fresh.ActiveResidents)
}

func TestDashboard_TenantIsolation(t *testing.T) {
	residentSvc, residents, _ := newTestResidentService(t)
	seedResidents(t, residentSvc)

	svc := NewStatsService(residents, newMemKV(), zap.NewNop())
	stats, err := svc.Dashboard(context.Background(), "tenant-2")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.ActiveResidents)
	assert.Empty(t, stats.ByBarangay)
}
