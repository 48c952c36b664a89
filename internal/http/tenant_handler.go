package httpapi

import (
	"net/http"
	"strings"

	"rbi-data/internal/domain"
	"rbi-data/internal/service"

	"go.uber.org/zap"
)

const tenantsBasePath = "/admin/api/v1/tenants"

// TenantHandler LGU tenant administration. SystemAdmin only: LGU onboarding
// and suspension cross tenant boundaries.
type TenantHandler struct {
	tenantService service.TenantService
	authService   service.AuthService
	logger        *zap.Logger
}

func NewTenantHandler(tenantService service.TenantService, authService service.AuthService, logger *zap.Logger) *TenantHandler {
	return &TenantHandler{
		tenantService: tenantService,
		authService:   authService,
		logger:        logger,
	}
}

func (h *TenantHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireAuth(w, r, h.authService)
	if !ok {
		return
	}
	if claims.Role != domain.RoleSystemAdmin {
		writeJSON(w, http.StatusForbidden, Fail("system administrator role required"))
		return
	}

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, tenantsBasePath), "/")
	switch {
	case path == "":
		switch r.Method {
		case http.MethodPost:
			h.Create(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case strings.HasSuffix(path, "/status"):
		tenantID := strings.TrimSuffix(path, "/status")
		if r.Method != http.MethodPut || strings.Contains(tenantID, "/") {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.UpdateStatus(w, r, tenantID)
	case !strings.Contains(path, "/"):
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Get(w, r, path)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *TenantHandler) Get(w http.ResponseWriter, r *http.Request, tenantID string) {
	tenant, err := h.tenantService.GetTenant(r.Context(), tenantID)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(tenant))
}

func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTenantRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid request body"))
		return
	}

	tenant, err := h.tenantService.CreateTenant(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	h.logger.Info("tenant onboarded",
		zap.String("tenant_id", tenant.TenantID),
		zap.String("tenant_name", tenant.TenantName))
	writeJSON(w, http.StatusOK, Ok(tenant))
}

func (h *TenantHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, tenantID string) {
	var req struct {
		Status string `json:"status"`
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid request body"))
		return
	}

	if err := h.tenantService.UpdateTenantStatus(r.Context(), tenantID, req.Status); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	h.logger.Info("tenant status changed",
		zap.String("tenant_id", tenantID),
		zap.String("status", req.Status))
	writeJSON(w, http.StatusOK, Ok(map[string]string{"tenant_id": tenantID, "status": req.Status}))
}
