package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cater-menu-backend/internal/service"
	"cater-menu-backend/pkg/logger"
)

type UploadHandler struct {
	uploads       *service.UploadService
	uploadDir     string
	maxUploadSize int64
}

func NewUploadHandler(uploads *service.UploadService, uploadDir string, maxUploadSize int64) *UploadHandler {
	return &UploadHandler{
		uploads:       uploads,
		uploadDir:     uploadDir,
		maxUploadSize: maxUploadSize,
	}
}

// UploadMenu receives a menu PDF, stages it on disk and hands it to the
// ingestion pipeline. The parser is an external tool; only its JSON output
// enters the validation path.
func (h *UploadHandler) UploadMenu(c *gin.Context) {
	file, err := c.FormFile("pdf_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No PDF file provided"})
		return
	}

	if file.Size > h.maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type. Only PDF is allowed"})
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		logger.Error(err, "Failed to create upload directory", nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
		return
	}

	staged := filepath.Join(h.uploadDir, fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(file.Filename)))
	if err := c.SaveUploadedFile(file, staged); err != nil {
		logger.Error(err, "Failed to store uploaded PDF", nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
		return
	}
	defer func() {
		if err := os.Remove(staged); err != nil {
			logger.Warn("Failed to remove staged upload", map[string]interface{}{"path": staged})
		}
	}()

	uploadedBy := c.GetString("username")
	result, err := h.uploads.ProcessPDF(c.Request.Context(), staged, file.Filename, uploadedBy)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "PDF processed and menu stored",
		"upload":  result,
	})
}

func (h *UploadHandler) ListUploads(c *gin.Context) {
	uploads, err := h.uploads.ListUploads()
	if err != nil {
		logger.Error(err, "Failed to list uploads", nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list uploads"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"uploads": uploads})
}
