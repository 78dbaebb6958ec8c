package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"devsecops-platform/internal/auth"
	"devsecops-platform/internal/files"
	"devsecops-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// maxUploadBytes bounds multipart uploads.
const maxUploadBytes = 25 << 20 // 25 MiB

// FileHandlers wraps the file service; split out because uploads have their
// own parsing concerns.
type FileHandlers struct {
	Service *files.Service
}

// Upload stores a multipart file under the caller's own prefix.
func (h *FileHandlers) Upload(c *gin.Context) {
	principal, err := auth.PrincipalFrom(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing Authorization Header"})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if header.Size > maxUploadBytes {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	src, err := header.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}
	defer src.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	f, err := h.Service.Upload(c.Request.Context(), principal.UserID, header.Filename, contentType, header.Size, src)
	if err != nil {
		logger.FromGin(c).Error("file upload failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "File uploaded", "file": f})
}

func (h *FileHandlers) List(c *gin.Context) {
	principal, err := auth.PrincipalFrom(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing Authorization Header"})
		return
	}

	list, err := h.Service.List(c.Request.Context(), principal.UserID)
	if err != nil {
		logger.FromGin(c).Error("file list failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	if list == nil {
		list = []files.File{}
	}
	c.JSON(http.StatusOK, list)
}

// Download streams the object back with its stored content type.
func (h *FileHandlers) Download(c *gin.Context) {
	principal, err := auth.PrincipalFrom(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing Authorization Header"})
		return
	}

	f, body, err := h.Service.Download(c.Request.Context(), principal.UserID, c.Param("id"))
	if err != nil {
		if errors.Is(err, files.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		logger.FromGin(c).Error("file download failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	defer body.Close()

	c.Header("Content-Type", f.MimeType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Filename))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		logger.FromGin(c).Error("file stream interrupted", "err", err)
	}
}

func (h *FileHandlers) Delete(c *gin.Context) {
	principal, err := auth.PrincipalFrom(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing Authorization Header"})
		return
	}

	if err := h.Service.Delete(c.Request.Context(), principal.UserID, c.Param("id")); err != nil {
		if errors.Is(err, files.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		logger.FromGin(c).Error("file delete failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}
