package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"rbi-data/internal/service"

	"go.uber.org/zap"
)

// ReportHandler xlsx exports.
type ReportHandler struct {
	reportService service.ReportService
	authService   service.AuthService
	logger        *zap.Logger
}

func NewReportHandler(reportService service.ReportService, authService service.AuthService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		authService:   authService,
		logger:        logger,
	}
}

func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/report/api/v1/residents/export":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.ExportMasterlist(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *ReportHandler) ExportMasterlist(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireAuth(w, r, h.authService)
	if !ok {
		return
	}

	barangayCode := r.URL.Query().Get("barangay_code")
	data, err := h.reportService.ExportMasterlist(r.Context(), claims.TenantID, barangayCode)
	if err != nil {
		h.logger.Error("masterlist export failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	filename := fmt.Sprintf("rbi-masterlist-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
