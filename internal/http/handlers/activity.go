package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/peiassist/backend/internal/domain"
	"github.com/peiassist/backend/internal/http/response"
	"github.com/peiassist/backend/internal/platform/logger"
	"github.com/peiassist/backend/internal/services"
)

type ActivityHandler struct {
	log     *logger.Logger
	storage *services.StorageService
}

func NewActivityHandler(log *logger.Logger, storage *services.StorageService) *ActivityHandler {
	return &ActivityHandler{
		log:     log.With("handler", "ActivityHandler"),
		storage: storage,
	}
}

type activityRequest struct {
	Title           string   `json:"title" binding:"required"`
	Description     string   `json:"description"`
	Discipline      string   `json:"discipline"`
	Skills          []string `json:"skills"`
	Needs           []string `json:"needs"`
	UniversalDesign bool     `json:"universal_design"`
	Comment         string   `json:"comment"`
}

func (r *activityRequest) apply(row *types.Activity) error {
	row.Title = r.Title
	row.Description = r.Description
	row.Discipline = r.Discipline
	row.UniversalDesign = r.UniversalDesign
	row.Comment = r.Comment

	skills, err := json.Marshal(r.Skills)
	if err != nil {
		return err
	}
	needs, err := json.Marshal(r.Needs)
	if err != nil {
		return err
	}
	row.Skills = datatypes.JSON(skills)
	row.Needs = datatypes.JSON(needs)
	return nil
}

// GET /api/activities
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	rows, err := h.storage.ListActivities(c.Request.Context())
	if err != nil {
		h.log.Error("ListActivities failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "list_activities_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"activities": rows})
}

// GET /api/activities/:id
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_activity_id", err)
		return
	}
	row, err := h.storage.GetActivity(c.Request.Context(), id)
	if err != nil {
		h.log.Error("GetActivity failed", "error", err, "activity_id", id)
		response.RespondError(c, http.StatusInternalServerError, "load_activity_failed", err)
		return
	}
	if row == nil {
		response.RespondError(c, http.StatusNotFound, "activity_not_found", nil)
		return
	}
	response.RespondOK(c, gin.H{"activity": row})
}

// POST /api/activities
func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	row := &types.Activity{}
	if err := req.apply(row); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	created, err := h.storage.CreateActivity(c.Request.Context(), row)
	if err != nil {
		h.log.Error("CreateActivity failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "create_activity_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"activity": created})
}

// PUT /api/activities/:id
func (h *ActivityHandler) UpdateActivity(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_activity_id", err)
		return
	}
	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	row, err := h.storage.GetActivity(c.Request.Context(), id)
	if err != nil {
		h.log.Error("UpdateActivity failed (load)", "error", err, "activity_id", id)
		response.RespondError(c, http.StatusInternalServerError, "load_activity_failed", err)
		return
	}
	if row == nil {
		response.RespondError(c, http.StatusNotFound, "activity_not_found", nil)
		return
	}
	if err := req.apply(row); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.storage.UpdateActivity(c.Request.Context(), row); err != nil {
		h.log.Error("UpdateActivity failed", "error", err, "activity_id", id)
		response.RespondError(c, http.StatusInternalServerError, "update_activity_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"activity": row})
}

// POST /api/activities/:id/favorite
func (h *ActivityHandler) ToggleFavorite(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_activity_id", err)
		return
	}
	favorite, err := h.storage.ToggleFavorite(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.RespondError(c, http.StatusNotFound, "activity_not_found", nil)
			return
		}
		h.log.Error("ToggleFavorite failed", "error", err, "activity_id", id)
		response.RespondError(c, http.StatusInternalServerError, "toggle_favorite_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"id": id, "favorite": favorite})
}

// DELETE /api/activities/:id
func (h *ActivityHandler) DeleteActivity(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_activity_id", err)
		return
	}
	if err := h.storage.DeleteActivity(c.Request.Context(), id); err != nil {
		h.log.Error("DeleteActivity failed", "error", err, "activity_id", id)
		response.RespondError(c, http.StatusInternalServerError, "delete_activity_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": id})
}
