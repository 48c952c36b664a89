package httpapi

import (
	"net/http"
	"strings"

	"rbi-data/internal/service"

	"go.uber.org/zap"
)

const householdsBasePath = "/admin/api/v1/households"

// HouseholdHandler household CRUD and head assignment.
type HouseholdHandler struct {
	householdService service.HouseholdService
	authService      service.AuthService
	logger           *zap.Logger
}

func NewHouseholdHandler(householdService service.HouseholdService, authService service.AuthService, logger *zap.Logger) *HouseholdHandler {
	return &HouseholdHandler{
		householdService: householdService,
		authService:      authService,
		logger:           logger,
	}
}

func (h *HouseholdHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireAuth(w, r, h.authService)
	if !ok {
		return
	}

	path := strings.TrimPrefix(r.URL.Path, householdsBasePath)
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
	case strings.HasSuffix(path, "/head"):
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !requireWriteRole(w, claims) {
			return
		}
		h.SetHead(w, r, claims, strings.TrimSuffix(path, "/head"))
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

func (h *HouseholdHandler) List(w http.ResponseWriter, r *http.Request, claims *service.AccessClaims) {
	q := r.URL.Query()
	resp, err := h.householdService.ListHouseholds(r.Context(), claims.TenantID, service.ListHouseholdsRequest{
		BarangayCode: q.Get("barangay_code"),
		Purok:        q.Get("purok"),
		Search:       q.Get("search"),
		Page:         parseInt(q.Get("page"), 1),
		Size:         parseInt(q.Get("size"), 20),
	})
	if err != nil {
		h.logger.Error("failed to list households", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *HouseholdHandler) Get(w http.ResponseWriter, r *http.Request, claims *service.AccessClaims, householdID string) {
	detail, err := h.householdService.GetHousehold(r.Context(), claims.TenantID, householdID)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(detail))
}

func (h *HouseholdHandler) Create(w http.ResponseWriter, r *http.Request, claims *service.AccessClaims) {
	var req service.SaveHouseholdRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid request body"))
		return
	}

	household, err := h.householdService.CreateHousehold(r.Context(), claims.TenantID, req)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(household))
}

func (h *HouseholdHandler) Update(w http.ResponseWriter, r *http.Request, claims *service.AccessClaims, householdID string) {
	var req service.SaveHouseholdRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid request body"))
		return
	}

	household, err := h.householdService.UpdateHousehold(r.Context(), claims.TenantID, householdID, req)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(household))
}

func (h *HouseholdHandler) Delete(w http.ResponseWriter, r *http.Request, claims *service.AccessClaims, householdID string) {
	if err := h.householdService.DeleteHousehold(r.Context(), claims.TenantID, householdID); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}

func (h *HouseholdHandler) SetHead(w http.ResponseWriter, r *http.Request, claims *service.AccessClaims, householdID string) {
	var body struct {
		ResidentID string `json:"resident_id"`
	}
	if err := readBodyJSON(r, 1<<20, &body); err != nil || body.ResidentID == "" {
		writeJSON(w, http.StatusOK, Fail("resident_id is required"))
		return
	}

	if err := h.householdService.SetHead(r.Context(), claims.TenantID, householdID, body.ResidentID); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}
