package httpapi

import (
	"net/http"

	"rbi-data/internal/service"

	"go.uber.org/zap"
)

// UserHandler staff account administration, LGUAdmin and up.
type UserHandler struct {
	userService service.UserService
	authService service.AuthService
	logger      *zap.Logger
}

func NewUserHandler(userService service.UserService, authService service.AuthService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
		logger:      logger,
	}
}

func (h *UserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/admin/api/v1/users" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	claims, ok := requireAuth(w, r, h.authService)
	if !ok {
		return
	}
	if !requireAdminRole(w, claims) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.List(w, r, claims)
	case http.MethodPost:
		h.Create(w, r, claims)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request, claims *service.AccessClaims) {
	q := r.URL.Query()
	resp, err := h.userService.ListUsers(r.Context(), claims.TenantID, parseInt(q.Get("page"), 1), parseInt(q.Get("size"), 20))
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request, claims *service.AccessClaims) {
	var req service.CreateUserRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid request body"))
		return
	}

	view, err := h.userService.CreateUser(r.Context(), claims.TenantID, req)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	h.logger.Info("staff account created",
		zap.String("tenant_id", claims.TenantID),
		zap.String("created_by", claims.Subject))
	writeJSON(w, http.StatusOK, Ok(view))
}
