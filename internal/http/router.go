package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router wraps the standard library http.ServeMux (no third-party router
// dependency needed at this route count).
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

// HandleHandler registers an http.Handler (handlers dispatch on sub-paths
// themselves).
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Handlers the full handler set the API serves.
type Handlers struct {
	Auth      *AuthHandler
	Resident  *ResidentHandler
	Household *HouseholdHandler
	PSGC      *PSGCHandler
	Stats     *StatsHandler
	Report    *ReportHandler
	User      *UserHandler
	Tenant    *TenantHandler
}

// RegisterRoutes wires every API prefix to its handler.
func (r *Router) RegisterRoutes(h *Handlers) {
	r.HandleHandler("/auth/api/v1/", h.Auth)

	r.HandleHandler(residentsBasePath, h.Resident)
	r.HandleHandler(residentsBasePath+"/", h.Resident)

	r.HandleHandler(householdsBasePath, h.Household)
	r.HandleHandler(householdsBasePath+"/", h.Household)

	r.HandleHandler(psgcBasePath+"/", h.PSGC)
	r.HandleHandler(statsBasePath+"/", h.Stats)
	r.HandleHandler("/report/api/v1/", h.Report)
	r.HandleHandler("/admin/api/v1/users", h.User)
	r.HandleHandler(tenantsBasePath, h.Tenant)
	r.HandleHandler(tenantsBasePath+"/", h.Tenant)

	r.Handle("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, Ok("ok"))
	})
}
