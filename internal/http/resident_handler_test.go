package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rbi-data/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newResidentTestHandler() (*ResidentHandler, *fakeResidentService, *fakeStatsService, *fakeAuthService) {
	residents := &fakeResidentService{}
	stats := &fakeStatsService{}
	auth := newFakeAuthService()
	auth.grant("encoder-token", "tenant-1", "user-1", domain.RoleEncoder)
	auth.grant("viewer-token", "tenant-1", "user-2", domain.RoleViewer)
	return NewResidentHandler(residents, stats, auth, zap.NewNop()), residents, stats, auth
}

func doRequest(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestResidentHandler_RequiresToken(t *testing.T) {
	h, _, _, _ := newResidentTestHandler()

	w := doRequest(h, http.MethodGet, "/admin/api/v1/residents", "", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var res Result[any]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, ResultTokenExpired, res.Code)
}

func TestResidentHandler_ViewerCannotCreate(t *testing.T) {
	h, residents, _, _ := newResidentTestHandler()

	w := doRequest(h, http.MethodPost, "/admin/api/v1/residents", "viewer-token",
		`{"last_name":"Cruz","first_name":"Ana","sex":"female","barangay_code":"1380600001"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, residents.created)
}

func TestResidentHandler_CreateScopesToTokenTenant(t *testing.T) {
	h, residents, stats, _ := newResidentTestHandler()

	w := doRequest(h, http.MethodPost, "/admin/api/v1/residents", "encoder-token",
		`{"last_name":"Cruz","first_name":"Ana","sex":"female","barangay_code":"1380600001"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res Result[map[string]any]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, ResultSuccess, res.Code)

	require.Len(t, residents.created, 1)
	assert.Equal(t, "tenant-1", residents.lastTenant)
	assert.Equal(t, []string{"tenant-1"}, stats.invalidated)
}

func TestResidentHandler_GetByID(t *testing.T) {
	h, _, _, _ := newResidentTestHandler()

	w := doRequest(h, http.MethodGet, "/admin/api/v1/residents/abc-123", "encoder-token", "")
	require.Equal(t, http.StatusOK, w.Code)

	var res Result[map[string]any]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, ResultSuccess, res.Code)
	assert.Equal(t, "Ana Cruz", res.Result["full_name"])
}

func TestResidentHandler_UnknownSubPath(t *testing.T) {
	h, _, _, _ := newResidentTestHandler()

	w := doRequest(h, http.MethodGet, "/admin/api/v1/residents/a/b/c", "encoder-token", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
