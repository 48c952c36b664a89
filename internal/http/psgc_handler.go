package httpapi

import (
	"net/http"
	"strings"

	"rbi-data/internal/service"

	"go.uber.org/zap"
)

const psgcBasePath = "/psgc/api/v1"

// PSGCHandler geographic reference lookups. Reads are unauthenticated:
// the hierarchy backs the public login page's address pickers. The sync
// trigger is admin-only.
type PSGCHandler struct {
	psgcService service.PSGCService
	authService service.AuthService
	logger      *zap.Logger
}

func NewPSGCHandler(psgcService service.PSGCService, authService service.AuthService, logger *zap.Logger) *PSGCHandler {
	return &PSGCHandler{psgcService: psgcService, authService: authService, logger: logger}
}

func (h *PSGCHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, psgcBasePath), "/")

	if path == "sync" {
		h.handleSync(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	switch path {
	case "regions":
		regions, err := h.psgcService.ListRegions(ctx)
		h.respond(w, regions, err)
	case "provinces":
		provinces, err := h.psgcService.ListProvinces(ctx, q.Get("region_code"))
		h.respond(w, provinces, err)
	case "cities":
		cities, err := h.psgcService.ListCities(ctx, q.Get("province_code"))
		h.respond(w, cities, err)
	case "barangays":
		barangays, err := h.psgcService.ListBarangays(ctx, q.Get("city_code"))
		h.respond(w, barangays, err)
	case "search":
		matches, err := h.psgcService.Search(ctx, q.Get("q"), parseInt(q.Get("limit"), 20))
		h.respond(w, matches, err)
	default:
		if code, ok := strings.CutPrefix(path, "barangays/"); ok && !strings.Contains(code, "/") {
			addr, err := h.psgcService.ResolveBarangay(ctx, code)
			h.respond(w, addr, err)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}
}

// handleSync pulls the full hierarchy from the upstream PSA endpoint. The
// PSA publishes quarterly, so this is a rare, slow, admin-triggered call.
func (h *PSGCHandler) handleSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	claims, ok := requireAuth(w, r, h.authService)
	if !ok {
		return
	}
	if !requireAdminRole(w, claims) {
		return
	}

	result, err := h.psgcService.Sync(r.Context())
	if err != nil {
		h.logger.Error("psgc sync failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	h.respond(w, result, nil)
}

func (h *PSGCHandler) respond(w http.ResponseWriter, result any, err error) {
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(result))
}
