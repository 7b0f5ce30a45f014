package handler

import (
	"encoding/json"
	"net/http"

	"inspectkit/internal/model"
	"inspectkit/internal/service"
	"inspectkit/internal/transport/rest/middleware"
)

// DraftHandler handles the unsaved-draft endpoints
type DraftHandler struct {
	draftSvc *service.DraftService
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(draftSvc *service.DraftService) *DraftHandler {
	return &DraftHandler{draftSvc: draftSvc}
}

// Save handles PUT /v1/drafts. Writes are debounced: rapid edits coalesce
// into one cache write, so this returns 202 rather than 200.
func (h *DraftHandler) Save(w http.ResponseWriter, r *http.Request) {
	operatorID := middleware.GetOperatorID(r.Context())
	if operatorID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var tpl model.Template
	if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tpl.OwnerID = operatorID

	h.draftSvc.Save(operatorID, &tpl)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
}

// Get handles GET /v1/drafts
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	operatorID := middleware.GetOperatorID(r.Context())
	if operatorID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	tpl, err := h.draftSvc.Get(r.Context(), operatorID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if tpl == nil {
		writeError(w, http.StatusNotFound, "no draft")
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

// Discard handles DELETE /v1/drafts
func (h *DraftHandler) Discard(w http.ResponseWriter, r *http.Request) {
	operatorID := middleware.GetOperatorID(r.Context())
	if operatorID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.draftSvc.Discard(r.Context(), operatorID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "discarded"})
}
