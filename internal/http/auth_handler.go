package httpapi

import (
	"net/http"

	"rbi-data/internal/service"
	"rbi-data/internal/store"

	"go.uber.org/zap"
)

// AuthHandler login, LGU picker and password reset.
type AuthHandler struct {
	authService   service.AuthService
	tenantService service.TenantService
	limiter       store.RateLimiter
	logger        *zap.Logger
}

func NewAuthHandler(authService service.AuthService, tenantService service.TenantService, limiter store.RateLimiter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		tenantService: tenantService,
		limiter:       limiter,
		logger:        logger,
	}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/auth/api/v1/login":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Login(w, r)
	case "/auth/api/v1/tenants/search":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.SearchTenants(w, r)
	case "/auth/api/v1/forgot-password/send-code":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.SendResetCode(w, r)
	case "/auth/api/v1/forgot-password/verify-code":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.VerifyResetCode(w, r)
	case "/auth/api/v1/forgot-password/reset":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.ResetPassword(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// allow consumes one rate-limit slot for the client; writes 429 when the
// window is exhausted.
func (h *AuthHandler) allow(w http.ResponseWriter, r *http.Request, bucket string) bool {
	ok, err := h.limiter.Allow(r.Context(), bucket+":"+getClientIP(r))
	if err != nil {
		// limiter outage must not lock out logins
		h.logger.Warn("rate limiter unavailable", zap.Error(err))
		return true
	}
	if !ok {
		writeJSON(w, http.StatusTooManyRequests, Fail("too many attempts, try again later"))
		return false
	}
	return ok
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, "login") {
		return
	}

	var body struct {
		TenantID string `json:"tenant_id"`
		Account  string `json:"account"`
		Password string `json:"password"`
	}
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid request body"))
		return
	}

	resp, err := h.authService.Login(r.Context(), service.LoginRequest{
		TenantID: body.TenantID,
		Account:  body.Account,
		Password: body.Password,
	})
	if err != nil {
		h.logger.Warn("login failed",
			zap.String("ip_address", getClientIP(r)),
			zap.String("user_agent", r.UserAgent()),
			zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"accessToken": resp.Token,
		"expiresAt":   resp.ExpiresAt,
		"userId":      resp.UserID,
		"role":        resp.Role,
		"nickName":    resp.Nickname,
		"tenant_id":   body.TenantID,
	}))
}

func (h *AuthHandler) SearchTenants(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := parseInt(r.URL.Query().Get("limit"), 10)

	tenants, err := h.tenantService.SearchTenants(r.Context(), query, limit)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	items := make([]map[string]any, 0, len(tenants))
	for _, t := range tenants {
		items = append(items, map[string]any{
			"tenant_id":   t.TenantID,
			"tenant_name": t.TenantName,
			"city_code":   t.CityCode,
		})
	}
	writeJSON(w, http.StatusOK, Ok(items))
}

func (h *AuthHandler) SendResetCode(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, "reset") {
		return
	}

	var body struct {
		TenantID string `json:"tenant_id"`
		Email    string `json:"email"`
	}
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid request body"))
		return
	}

	if err := h.authService.SendResetCode(r.Context(), service.SendResetCodeRequest{
		TenantID: body.TenantID,
		Email:    body.Email,
	}); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}

func (h *AuthHandler) VerifyResetCode(w http.ResponseWriter, r *http.Request) {
	// shares the reset bucket: the code is only six digits, so every guess
	// counts against the window
	if !h.allow(w, r, "reset") {
		return
	}

	var body struct {
		TenantID string `json:"tenant_id"`
		Email    string `json:"email"`
		Code     string `json:"code"`
	}
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid request body"))
		return
	}

	ok, err := h.authService.VerifyResetCode(r.Context(), service.VerifyResetCodeRequest{
		TenantID: body.TenantID,
		Email:    body.Email,
		Code:     body.Code,
	})
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(ok))
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, "reset") {
		return
	}

	var body struct {
		TenantID    string `json:"tenant_id"`
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"new_password"`
	}
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid request body"))
		return
	}

	if err := h.authService.ResetPassword(r.Context(), service.ResetPasswordRequest{
		TenantID:    body.TenantID,
		Email:       body.Email,
		Code:        body.Code,
		NewPassword: body.NewPassword,
	}); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}
