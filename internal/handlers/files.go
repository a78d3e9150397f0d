package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/T-manDon/alx-files-manager/internal/middleware"
	"github.com/T-manDon/alx-files-manager/internal/models"
	"github.com/T-manDon/alx-files-manager/internal/repository"
	"github.com/T-manDon/alx-files-manager/internal/service"
)

type uploadRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID string `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data"`
}

func (h HandlerSet) UploadFile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req uploadRequest
	_ = c.ShouldBindJSON(&req)

	file, err := h.files.Upload(c.Request.Context(), user, service.UploadInput{
		Name:     req.Name,
		Type:     models.FileType(req.Type),
		ParentID: req.ParentID,
		IsPublic: req.IsPublic,
		Data:     req.Data,
	})
	if err != nil {
		h.respondUploadError(c, err)
		return
	}

	c.JSON(http.StatusCreated, file)
}

func (h HandlerSet) respondUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMissingName):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing name"})
	case errors.Is(err, service.ErrMissingType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing type"})
	case errors.Is(err, service.ErrMissingData):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing data"})
	case errors.Is(err, service.ErrInvalidData):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
	case errors.Is(err, service.ErrParentNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parent not found"})
	case errors.Is(err, service.ErrParentNotFolder):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parent is not a folder"})
	default:
		h.log.Error().Err(err).Msg("upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

func (h HandlerSet) ShowFile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	file, err := h.files.Get(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.respondFileError(c, err)
		return
	}

	c.JSON(http.StatusOK, file)
}

func (h HandlerSet) ListFiles(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		page = 0
	}

	files, err := h.files.List(c.Request.Context(), user, c.Query("parentId"), page)
	if err != nil {
		h.log.Error().Err(err).Msg("list files failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	c.JSON(http.StatusOK, files)
}

func (h HandlerSet) PublishFile(c *gin.Context) {
	h.setPublic(c, true)
}

func (h HandlerSet) UnpublishFile(c *gin.Context) {
	h.setPublic(c, false)
}

func (h HandlerSet) setPublic(c *gin.Context, value bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	file, err := h.files.SetPublic(c.Request.Context(), user, c.Param("id"), value)
	if err != nil {
		h.respondFileError(c, err)
		return
	}

	c.JSON(http.StatusOK, file)
}

func (h HandlerSet) FileData(c *gin.Context) {
	// Token auth is optional here: anonymous requests still reach public
	// records, and a bad token degrades to anonymous instead of 401.
	var viewer *models.User
	if token := c.GetHeader("X-Token"); token != "" {
		if user, err := h.auth.CurrentUser(c.Request.Context(), token); err == nil {
			viewer = &user
		}
	}

	data, contentType, err := h.files.Content(c.Request.Context(), viewer, c.Param("id"), c.Query("size"))
	if err != nil {
		if errors.Is(err, service.ErrFolderNoContent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A folder doesn't have content"})
			return
		}
		h.respondFileError(c, err)
		return
	}

	c.Data(http.StatusOK, contentType, data)
}

func (h HandlerSet) respondFileError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrFileNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	h.log.Error().Err(err).Msg("file request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
}
