package httpapi

import (
	"net/http"
	"strings"

	"rbi-data/internal/service"

	"go.uber.org/zap"
)

const statsBasePath = "/data/api/v1/stats"

// StatsHandler dashboard aggregates. All views come from the same cached
// snapshot so the numbers agree with each other.
type StatsHandler struct {
	statsService service.StatsService
	authService  service.AuthService
	logger       *zap.Logger
}

func NewStatsHandler(statsService service.StatsService, authService service.AuthService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		authService:  authService,
		logger:       logger,
	}
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	claims, ok := requireAuth(w, r, h.authService)
	if !ok {
		return
	}

	stats, err := h.statsService.Dashboard(r.Context(), claims.TenantID)
	if err != nil {
		h.logger.Error("failed to build dashboard stats", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	switch strings.Trim(strings.TrimPrefix(r.URL.Path, statsBasePath), "/") {
	case "overview":
		writeJSON(w, http.StatusOK, Ok(map[string]any{
			"active_residents": stats.ActiveResidents,
			"deceased":         stats.Deceased,
			"moved_out":        stats.MovedOut,
			"by_sex":           stats.BySex,
			"generated_at":     stats.GeneratedAt,
		}))
	case "sectoral":
		writeJSON(w, http.StatusOK, Ok(stats.BySectoralFlag))
	case "age-distribution":
		writeJSON(w, http.StatusOK, Ok(stats.ByAgeBucket))
	case "barangays":
		writeJSON(w, http.StatusOK, Ok(stats.ByBarangay))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}
