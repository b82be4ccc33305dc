package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/peiassist/backend/internal/domain"
	"github.com/peiassist/backend/internal/http/response"
	"github.com/peiassist/backend/internal/platform/logger"
	"github.com/peiassist/backend/internal/services"
)

// PeiHandler drives the live draft and the saved-plans collection. AI tasks
// run on background-derived contexts: a client that disconnects mid-task does
// not abort the underlying model call, and the result is still applied.
type PeiHandler struct {
	log      *logger.Logger
	editor   *services.PeiEditorService
	storage  *services.StorageService
	autosave *services.AutosaveService
}

func NewPeiHandler(
	log *logger.Logger,
	editor *services.PeiEditorService,
	storage *services.StorageService,
	autosave *services.AutosaveService,
) *PeiHandler {
	return &PeiHandler{
		log:      log.With("handler", "PeiHandler"),
		editor:   editor,
		storage:  storage,
		autosave: autosave,
	}
}

func respondTaskError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var parseErr *services.ParseError
	var serviceErr *services.ServiceError
	switch {
	case errors.As(err, &validationErr):
		response.RespondError(c, http.StatusUnprocessableEntity, "validation_failed", err)
	case errors.As(err, &parseErr):
		response.RespondError(c, http.StatusBadGateway, "parse_failed", err)
	case errors.As(err, &serviceErr):
		response.RespondError(c, http.StatusBadGateway, "ai_failed", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}

// GET /api/peis
func (h *PeiHandler) ListPeis(c *gin.Context) {
	rows, err := h.storage.ListPeis(c.Request.Context())
	if err != nil {
		h.log.Error("ListPeis failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "list_peis_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"peis": rows})
}

// GET /api/peis/:id
func (h *PeiHandler) GetPei(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_pei_id", err)
		return
	}
	row, err := h.storage.GetPei(c.Request.Context(), id)
	if err != nil {
		h.log.Error("GetPei failed", "error", err, "pei_id", id)
		response.RespondError(c, http.StatusInternalServerError, "load_pei_failed", err)
		return
	}
	if row == nil {
		response.RespondError(c, http.StatusNotFound, "pei_not_found", nil)
		return
	}
	response.RespondOK(c, gin.H{"pei": row})
}

// DELETE /api/peis/:id
func (h *PeiHandler) DeletePei(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_pei_id", err)
		return
	}
	if err := h.storage.DeletePei(c.Request.Context(), id); err != nil {
		h.log.Error("DeletePei failed", "error", err, "pei_id", id)
		response.RespondError(c, http.StatusInternalServerError, "delete_pei_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": id})
}

// POST /api/peis/:id/activities/:activityId
func (h *PeiHandler) AddActivityToPei(c *gin.Context) {
	peiID, err := uuid.Parse(c.Param("id"))
	if err != nil || peiID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_pei_id", err)
		return
	}
	activityID, err := uuid.Parse(c.Param("activityId"))
	if err != nil || activityID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_activity_id", err)
		return
	}
	row, err := h.storage.AddActivityToPei(c.Request.Context(), peiID, activityID)
	if err != nil {
		h.log.Error("AddActivityToPei failed", "error", err, "pei_id", peiID, "activity_id", activityID)
		response.RespondError(c, http.StatusInternalServerError, "link_activity_failed", err)
		return
	}
	if row == nil {
		response.RespondError(c, http.StatusNotFound, "pei_or_activity_not_found", nil)
		return
	}
	response.RespondOK(c, gin.H{"pei": row})
}

// GET /api/pei/draft
func (h *PeiHandler) GetDraft(c *gin.Context) {
	response.RespondOK(c, gin.H{
		"draft":           h.editor.Draft().Snapshot(),
		"loading":         h.editor.LoadingStates(),
		"autosave_status": h.autosave.Status(),
	})
}

// POST /api/pei/draft/load/:id
func (h *PeiHandler) LoadDraft(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_pei_id", err)
		return
	}
	if err := h.editor.LoadPei(c.Request.Context(), id); err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			response.RespondError(c, http.StatusNotFound, "pei_not_found", err)
			return
		}
		h.log.Error("LoadDraft failed", "error", err, "pei_id", id)
		response.RespondError(c, http.StatusInternalServerError, "load_pei_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"draft": h.editor.Draft().Snapshot()})
}

// POST /api/pei/draft/clear
func (h *PeiHandler) ClearDraft(c *gin.Context) {
	h.editor.Draft().Clear()
	response.RespondOK(c, gin.H{"draft": h.editor.Draft().Snapshot()})
}

type setFieldRequest struct {
	Value string `json:"value"`
}

// PUT /api/pei/draft/fields/:fieldId
func (h *PeiHandler) SetField(c *gin.Context) {
	fieldID := c.Param("fieldId")
	if fieldID == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_field_id", nil)
		return
	}
	var req setFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if !types.KnownField(fieldID) {
		h.log.Warn("Edit on a field outside the form layout", "field", fieldID)
	}
	h.editor.Draft().SetField(fieldID, req.Value)
	response.RespondOK(c, gin.H{"field": fieldID})
}

// POST /api/pei/draft/fields/:fieldId/generate
func (h *PeiHandler) GenerateField(c *gin.Context) {
	fieldID := c.Param("fieldId")
	text, err := h.editor.GenerateField(context.Background(), fieldID)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"field": fieldID, "text": text})
}

// POST /api/pei/draft/fields/:fieldId/validate
func (h *PeiHandler) ValidateGoal(c *gin.Context) {
	fieldID := c.Param("fieldId")
	analysis, err := h.editor.ValidateGoal(context.Background(), fieldID)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"field": fieldID, "analysis": analysis})
}

// POST /api/pei/draft/fields/:fieldId/suggest
func (h *PeiHandler) SuggestActivities(c *gin.Context) {
	fieldID := c.Param("fieldId")
	text, err := h.editor.SuggestActivities(context.Background(), fieldID)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"field": fieldID, "text": text})
}

type refineRequest struct {
	Value       string `json:"value"`
	Instruction string `json:"instruction"`
}

// POST /api/pei/draft/fields/:fieldId/refine
func (h *PeiHandler) RefineField(c *gin.Context) {
	fieldID := c.Param("fieldId")
	var req refineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	text, err := h.editor.RefineText(context.Background(), fieldID, req.Value, req.Instruction)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"field": fieldID, "text": text})
}

// POST /api/pei/draft/save
func (h *PeiHandler) SaveDraft(c *gin.Context) {
	if err := h.autosave.SaveNow(c.Request.Context()); err != nil {
		h.log.Error("SaveDraft failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "save_failed", err)
		return
	}
	response.RespondOK(c, gin.H{
		"draft":           h.editor.Draft().Snapshot(),
		"autosave_status": h.autosave.Status(),
	})
}

// GET /api/pei/autosave/status
func (h *PeiHandler) AutosaveStatus(c *gin.Context) {
	response.RespondOK(c, gin.H{"status": h.autosave.Status()})
}
