package handler

import (
	"encoding/json"
	"net/http"

	"inspectkit/internal/service"
	"inspectkit/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// ReportHandler handles report and export endpoints
type ReportHandler struct {
	reportSvc *service.ReportService
	exportSvc *service.ExportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportSvc *service.ReportService, exportSvc *service.ExportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc, exportSvc: exportSvc}
}

// ReportRequest carries optional answers for scoring the report
type ReportRequest struct {
	Answers service.Answers `json:"answers"`
}

// Get handles GET and POST /v1/templates/{templateId}/report. GET projects
// the bare template; POST accepts answers to score it.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	operatorID := middleware.GetOperatorID(r.Context())
	templateID := mux.Vars(r)["templateId"]

	var req ReportRequest
	if r.Method == http.MethodPost {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	report, err := h.reportSvc.BuildReport(r.Context(), operatorID, templateID, req.Answers)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// ExportRequest is the request body for an export
type ExportRequest struct {
	Format  string          `json:"format"` // "pdf" or "docx"
	Answers service.Answers `json:"answers"`
}

// Export handles POST /v1/templates/{templateId}/export
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	operatorID := middleware.GetOperatorID(r.Context())
	templateID := mux.Vars(r)["templateId"]

	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.exportSvc.Export(r.Context(), operatorID, templateID, req.Format, req.Answers)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}
