package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/peiassist/backend/internal/domain"
	"github.com/peiassist/backend/internal/http/response"
	"github.com/peiassist/backend/internal/platform/logger"
	"github.com/peiassist/backend/internal/services"
)

// RagFileHandler manages support attachments. Text extraction happens in the
// uploading client; only the extracted text reaches this store.
type RagFileHandler struct {
	log     *logger.Logger
	storage *services.StorageService
}

func NewRagFileHandler(log *logger.Logger, storage *services.StorageService) *RagFileHandler {
	return &RagFileHandler{
		log:     log.With("handler", "RagFileHandler"),
		storage: storage,
	}
}

// GET /api/files
func (h *RagFileHandler) ListFiles(c *gin.Context) {
	rows, err := h.storage.ListRagFiles(c.Request.Context())
	if err != nil {
		h.log.Error("ListFiles failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "list_files_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"files": rows})
}

// GET /api/files/:id
func (h *RagFileHandler) GetFile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_file_id", err)
		return
	}
	row, err := h.storage.GetRagFile(c.Request.Context(), id)
	if err != nil {
		h.log.Error("GetFile failed", "error", err, "file_id", id)
		response.RespondError(c, http.StatusInternalServerError, "load_file_failed", err)
		return
	}
	if row == nil {
		response.RespondError(c, http.StatusNotFound, "file_not_found", nil)
		return
	}
	response.RespondOK(c, gin.H{"file": row})
}

type ragFileRequest struct {
	Filename string `json:"filename" binding:"required"`
	Content  string `json:"content"`
}

// POST /api/files
func (h *RagFileHandler) CreateFile(c *gin.Context) {
	var req ragFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	row, err := h.storage.CreateRagFile(c.Request.Context(), &types.RagFile{
		Filename: req.Filename,
		Content:  req.Content,
	})
	if err != nil {
		h.log.Error("CreateFile failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "create_file_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"file": row})
}

// DELETE /api/files/:id
func (h *RagFileHandler) DeleteFile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_file_id", err)
		return
	}
	if err := h.storage.DeleteRagFile(c.Request.Context(), id); err != nil {
		h.log.Error("DeleteFile failed", "error", err, "file_id", id)
		response.RespondError(c, http.StatusInternalServerError, "delete_file_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": id})
}
