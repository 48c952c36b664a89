package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rbi-data/internal/config"
	"rbi-data/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newPSGCTestServer serves a two-region slice of the publication API.
func newPSGCTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	serve := func(path, body string) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
		})
	}

	serve("/regions.json", `[
		{"code":"1300000000","name":"National Capital Region (NCR)"},
		{"code":"0100000000","name":"Region I (Ilocos Region)"}
	]`)
	serve("/regions/1300000000/provinces.json", `[
		{"code":"1380000000","name":"NCR, City of Manila, First District"}
	]`)
	serve("/regions/0100000000/provinces.json", `[
		{"code":"0102800000","name":"Ilocos Norte"}
	]`)
	serve("/provinces/1380000000/cities-municipalities.json", `[
		{"code":"1380600000","name":"City of Manila","cityClass":"HUC","incomeClassification":"Special"}
	]`)
	serve("/provinces/0102800000/cities-municipalities.json", `[
		{"code":"0102805000","name":"City of Laoag","cityClass":"CC","incomeClassification":"3rd"}
	]`)
	serve("/cities-municipalities/1380600000/barangays.json", `[
		{"code":"1380600001","name":"Barangay 1","urbanRural":"Urban"},
		{"code":"1380600002","name":"Barangay 2","urbanRural":"Urban"}
	]`)
	serve("/cities-municipalities/0102805000/barangays.json", `[
		{"code":"0102805001","name":"Bacsil North","urbanRural":"Rural"}
	]`)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestPSGCSync_FullHierarchy(t *testing.T) {
	srv := newPSGCTestServer(t)
	repo := repository.NewMemoryPSGCRepository()
	client := NewPSGCClient(config.PSGCConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
	svc := NewPSGCService(repo, client, zap.NewNop())
	ctx := context.Background()

	result, err := svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Regions)
	assert.Equal(t, 2, result.Provinces)
	assert.Equal(t, 2, result.Cities)
	assert.Equal(t, 3, result.Barangays)

	city, err := repo.GetCity(ctx, "0102805000")
	require.NoError(t, err)
	assert.Equal(t, "City of Laoag", city.Name)
	assert.Equal(t, "CC", city.CityClass)
	assert.Equal(t, "0102800000", city.ProvinceCode)

	barangay, err := repo.GetBarangay(ctx, "0102805001")
	require.NoError(t, err)
	require.NotNil(t, barangay.Urban)
	assert.False(t, *barangay.Urban)
}

func TestPSGCSync_UpstreamErrorAborts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/regions.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewPSGCClient(config.PSGCConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
	svc := NewPSGCService(repository.NewMemoryPSGCRepository(), client, zap.NewNop())

	_, err := svc.Sync(context.Background())
	require.Error(t, err)
}

func TestPSGCResolveBarangay_FullChain(t *testing.T) {
	srv := newPSGCTestServer(t)
	repo := repository.NewMemoryPSGCRepository()
	client := NewPSGCClient(config.PSGCConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
	svc := NewPSGCService(repo, client, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Sync(ctx)
	require.NoError(t, err)

	addr, err := svc.ResolveBarangay(ctx, "0102805001")
	require.NoError(t, err)
	assert.Equal(t, "Bacsil North", addr.Barangay.Name)
	require.NotNil(t, addr.City)
	assert.Equal(t, "City of Laoag", addr.City.Name)
	require.NotNil(t, addr.Province)
	assert.Equal(t, "Ilocos Norte", addr.Province.Name)
	require.NotNil(t, addr.Region)
	assert.Equal(t, "Region I (Ilocos Region)", addr.Region.Name)
}

func TestPSGCSearch_ShortQueryReturnsNothing(t *testing.T) {
	svc := NewPSGCService(repository.NewMemoryPSGCRepository(), nil, zap.NewNop())

	matches, err := svc.Search(context.Background(), "m", 10)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestPSGCSearch_RanksPrefixFirst(t *testing.T) {
	svc := NewPSGCService(repository.NewMemoryPSGCRepository(), nil, zap.NewNop())

	matches, err := svc.Search(context.Background(), "barangay", 10)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "barangay", matches[0].Level)
}
