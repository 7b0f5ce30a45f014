package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"inspectkit/internal/model"
	"inspectkit/internal/service"
	"inspectkit/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// TemplateHandler handles template CRUD and structural edit endpoints
type TemplateHandler struct {
	templateSvc *service.TemplateService
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templateSvc *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateSvc: templateSvc}
}

// statusFor maps service and aggregate errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrTemplateNotFound),
		errors.Is(err, model.ErrPageNotFound),
		errors.Is(err, model.ErrSectionNotFound),
		errors.Is(err, model.ErrQuestionNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, model.ErrLastPage),
		errors.Is(err, service.ErrRuleSelfTarget),
		errors.Is(err, service.ErrNothingToPublish):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Create handles POST /v1/templates
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	id, err := h.templateSvc.Create(r.Context(), operatorID, &tpl)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"templateId": id})
}

// List handles GET /v1/templates
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	operatorID := middleware.GetOperatorID(r.Context())
	if operatorID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	templates, err := h.templateSvc.List(r.Context(), operatorID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"templates": templates})
}

// Get handles GET /v1/templates/{templateId}
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	operatorID := middleware.GetOperatorID(r.Context())
	templateID := mux.Vars(r)["templateId"]

	tpl, err := h.templateSvc.GetByID(r.Context(), operatorID, templateID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

// Update handles PUT /v1/templates/{templateId}
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	operatorID := middleware.GetOperatorID(r.Context())
	templateID := mux.Vars(r)["templateId"]

	var tpl model.Template
	if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tpl.ID = templateID

	if err := h.templateSvc.Update(r.Context(), operatorID, &tpl); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

// Delete handles DELETE /v1/templates/{templateId}
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	operatorID := middleware.GetOperatorID(r.Context())
	templateID := mux.Vars(r)["templateId"]

	if err := h.templateSvc.Delete(r.Context(), operatorID, templateID); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Publish handles POST /v1/templates/{templateId}/publish
func (h *TemplateHandler) Publish(w http.ResponseWriter, r *http.Request) {
	operatorID := middleware.GetOperatorID(r.Context())
	templateID := mux.Vars(r)["templateId"]

	tpl, err := h.templateSvc.Publish(r.Context(), operatorID, templateID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

// AddPageRequest is the request body for adding a page
type AddPageRequest struct {
	Name string `json:"name"`
}

// AddPage handles POST /v1/templates/{templateId}/pages
func (h *TemplateHandler) AddPage(w http.ResponseWriter, r *http.Request) {
	operatorID := middleware.GetOperatorID(r.Context())
	templateID := mux.Vars(r)["templateId"]

	var req AddPageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tpl, err := h.templateSvc.Mutate(r.Context(), operatorID, templateID, func(t *model.Template) error {
		t.AddPage(req.Name)
		return nil
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, tpl)
}

// RemovePage handles DELETE /v1/templates/{templateId}/pages/{pageId}
func (h *TemplateHandler) RemovePage(w http.ResponseWriter, r *http.Request) {
	operatorID := middleware.GetOperatorID(r.Context())
	vars := mux.Vars(r)

	tpl, err := h.templateSvc.Mutate(r.Context(), operatorID, vars["templateId"], func(t *model.Template) error {
		return t.RemovePage(vars["pageId"])
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

// ReorderRequest is the request body for page/section reordering
type ReorderRequest struct {
	ToIndex int `json:"toIndex"`
}

// ReorderPage handles POST /v1/templates/{templateId}/pages/{pageId}/reorder
func (h *TemplateHandler) ReorderPage(w http.ResponseWriter, r *http.Request) {
	operatorID := middleware.GetOperatorID(r.Context())
	vars := mux.Vars(r)

	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tpl, err := h.templateSvc.Mutate(r.Context(), operatorID, vars["templateId"], func(t *model.Template) error {
		return t.ReorderPage(vars["pageId"], req.ToIndex)
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

// AddSectionRequest is the request body for adding a section
type AddSectionRequest struct {
	Name string `json:"name"`
}

// AddSection handles POST /v1/templates/{templateId}/pages/{pageId}/sections
func (h *TemplateHandler) AddSection(w http.ResponseWriter, r *http.Request) {
	operatorID := middleware.GetOperatorID(r.Context())
	vars := mux.Vars(r)

	var req AddSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tpl, err := h.templateSvc.Mutate(r.Context(), operatorID, vars["templateId"], func(t *model.Template) error {
		_, err := t.AddSection(vars["pageId"], req.Name)
		return err
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, tpl)
}

// RemoveSection handles DELETE .../pages/{pageId}/sections/{sectionId}
func (h *TemplateHandler) RemoveSection(w http.ResponseWriter, r *http.Request) {
	operatorID := middleware.GetOperatorID(r.Context())
	vars := mux.Vars(r)

	tpl, err := h.templateSvc.Mutate(r.Context(), operatorID, vars["templateId"], func(t *model.Template) error {
		return t.RemoveSection(vars["pageId"], vars["sectionId"])
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

// ReorderSection handles POST .../sections/{sectionId}/reorder
func (h *TemplateHandler) ReorderSection(w http.ResponseWriter, r *http.Request) {
	operatorID := middleware.GetOperatorID(r.Context())
	vars := mux.Vars(r)

	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tpl, err := h.templateSvc.Mutate(r.Context(), operatorID, vars["templateId"], func(t *model.Template) error {
		return t.ReorderSection(vars["pageId"], vars["sectionId"], req.ToIndex)
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

// AddQuestion handles POST .../sections/{sectionId}/questions
func (h *TemplateHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	operatorID := middleware.GetOperatorID(r.Context())
	vars := mux.Vars(r)

	var q model.Question
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var added *model.Question
	tpl, err := h.templateSvc.Mutate(r.Context(), operatorID, vars["templateId"], func(t *model.Template) error {
		var err error
		added, err = t.AddQuestion(vars["pageId"], vars["sectionId"], q)
		return err
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"question": added, "template": tpl})
}

// UpdateQuestion handles PATCH .../sections/{sectionId}/questions/{questionId}
func (h *TemplateHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	operatorID := middleware.GetOperatorID(r.Context())
	vars := mux.Vars(r)

	var patch model.QuestionPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var updated *model.Question
	tpl, err := h.templateSvc.Mutate(r.Context(), operatorID, vars["templateId"], func(t *model.Template) error {
		var err error
		updated, err = t.UpdateQuestion(vars["pageId"], vars["sectionId"], vars["questionId"], &patch)
		return err
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"question": updated, "template": tpl})
}

// RemoveQuestion handles DELETE .../sections/{sectionId}/questions/{questionId}
func (h *TemplateHandler) RemoveQuestion(w http.ResponseWriter, r *http.Request) {
	operatorID := middleware.GetOperatorID(r.Context())
	vars := mux.Vars(r)

	tpl, err := h.templateSvc.Mutate(r.Context(), operatorID, vars["templateId"], func(t *model.Template) error {
		return t.RemoveQuestion(vars["pageId"], vars["sectionId"], vars["questionId"])
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

// MoveQuestionRequest is the request body for moving a question
type MoveQuestionRequest struct {
	TargetPageID    string `json:"targetPageId"`
	TargetSectionID string `json:"targetSectionId"`
}

// MoveQuestion handles POST /v1/templates/{templateId}/questions/{questionId}/move
func (h *TemplateHandler) MoveQuestion(w http.ResponseWriter, r *http.Request) {
	operatorID := middleware.GetOperatorID(r.Context())
	vars := mux.Vars(r)

	var req MoveQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var moved bool
	tpl, err := h.templateSvc.Mutate(r.Context(), operatorID, vars["templateId"], func(t *model.Template) error {
		var err error
		moved, err = t.MoveQuestion(vars["questionId"], req.TargetPageID, req.TargetSectionID)
		return err
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"moved": moved, "template": tpl})
}

// EvaluateRequest carries the answers for a preview logic evaluation
type EvaluateRequest struct {
	Answers service.Answers `json:"answers"`
}

// Evaluate handles POST /v1/templates/{templateId}/evaluate
func (h *TemplateHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	operatorID := middleware.GetOperatorID(r.Context())
	templateID := mux.Vars(r)["templateId"]

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tpl, err := h.templateSvc.GetByID(r.Context(), operatorID, templateID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sections": service.EvaluateTemplate(tpl, req.Answers),
	})
}
