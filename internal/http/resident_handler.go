package httpapi

import (
	"net/http"
	"strings"

	"rbi-data/internal/service"

	"go.uber.org/zap"
)

const residentsBasePath = "/admin/api/v1/residents"

// ResidentHandler resident registry CRUD and sectoral preview.
type ResidentHandler struct {
	residentService service.ResidentService
	statsService    service.StatsService
	authService     service.AuthService
	logger          *zap.Logger
}

func NewResidentHandler(residentService service.ResidentService, statsService service.StatsService, authService service.AuthService, logger *zap.Logger) *ResidentHandler {
	return &ResidentHandler{
		residentService: residentService,
		statsService:    statsService,
		authService:     authService,
		logger:          logger,
	}
}

func (h *ResidentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireAuth(w, r, h.authService)
	if !ok {
		return
	}

	path := strings.TrimPrefix(r.URL.Path, residentsBasePath)
	path = strings.Trim(path, "/")

	switch {
	case path == "":
		switch r.Method {
		case http.MethodGet:
			h.List(w, r, claims)
		case http.MethodPost:
			if !requireWriteRole(w, claims) {
				return
			}
			h.Create(w, r, claims)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case path == "sectoral-preview":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.SectoralPreview(w, r)
	case strings.HasSuffix(path, "/transfer-household"):
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !requireWriteRole(w, claims) {
			return
		}
		h.TransferHousehold(w, r, claims, strings.TrimSuffix(path, "/transfer-household"))
	case !strings.Contains(path, "/"):
		switch r.Method {
		case http.MethodGet:
			h.Get(w, r, claims, path)
		case http.MethodPut:
			if !requireWriteRole(w, claims) {
				return
			}
			h.Update(w, r, claims, path)
		case http.MethodDelete:
			if !requireWriteRole(w, claims) {
				return
			}
			h.Delete(w, r, claims, path)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *ResidentHandler) List(w http.ResponseWriter, r *http.Request, claims *service.AccessClaims) {
	q := r.URL.Query()
	req := service.ListResidentsRequest{
		BarangayCode: q.Get("barangay_code"),
		HouseholdID:  q.Get("household_id"),
		Status:       q.Get("status"),
		Sex:          q.Get("sex"),
		Purok:        q.Get("purok"),
		SectoralFlag: q.Get("sectoral_flag"),
		Search:       q.Get("search"),
		Page:         parseInt(q.Get("page"), 1),
		Size:         parseInt(q.Get("size"), 20),
	}
	if v := q.Get("registered_voter"); v != "" {
		b := v == "true"
		req.RegisteredVoter = &b
	}

	resp, err := h.residentService.ListResidents(r.Context(), claims.TenantID, req)
	if err != nil {
		h.logger.Error("failed to list residents", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *ResidentHandler) Get(w http.ResponseWriter, r *http.Request, claims *service.AccessClaims, residentID string) {
	detail, err := h.residentService.GetResident(r.Context(), claims.TenantID, residentID)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(detail))
}

func (h *ResidentHandler) Create(w http.ResponseWriter, r *http.Request, claims *service.AccessClaims) {
	var req service.SaveResidentRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid request body"))
		return
	}

	detail, err := h.residentService.CreateResident(r.Context(), claims.TenantID, req)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	h.statsService.Invalidate(r.Context(), claims.TenantID)
	writeJSON(w, http.StatusOK, Ok(detail))
}

func (h *ResidentHandler) Update(w http.ResponseWriter, r *http.Request, claims *service.AccessClaims, residentID string) {
	var req service.SaveResidentRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid request body"))
		return
	}

	detail, err := h.residentService.UpdateResident(r.Context(), claims.TenantID, residentID, req)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	h.statsService.Invalidate(r.Context(), claims.TenantID)
	writeJSON(w, http.StatusOK, Ok(detail))
}

func (h *ResidentHandler) Delete(w http.ResponseWriter, r *http.Request, claims *service.AccessClaims, residentID string) {
	if err := h.residentService.DeleteResident(r.Context(), claims.TenantID, residentID); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	h.statsService.Invalidate(r.Context(), claims.TenantID)
	writeJSON(w, http.StatusOK, Ok(true))
}

func (h *ResidentHandler) TransferHousehold(w http.ResponseWriter, r *http.Request, claims *service.AccessClaims, residentID string) {
	var body struct {
		HouseholdID *string `json:"household_id"` // null detaches
	}
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid request body"))
		return
	}

	if err := h.residentService.TransferHousehold(r.Context(), claims.TenantID, residentID, body.HouseholdID); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}

func (h *ResidentHandler) SectoralPreview(w http.ResponseWriter, r *http.Request) {
	var req service.SectoralPreviewRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid request body"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.residentService.PreviewSectoral(req)))
}
