package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/T-manDon/alx-files-manager/internal/middleware"
	"github.com/T-manDon/alx-files-manager/internal/service"
)

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (h HandlerSet) CreateUser(c *gin.Context) {
	var req createUserRequest
	// Field presence is validated by the service so the error strings
	// stay uniform regardless of how the body failed to parse.
	_ = c.ShouldBindJSON(&req)

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing email"})
		case errors.Is(err, service.ErrMissingPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing password"})
		case errors.Is(err, service.ErrAlreadyExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Already exist"})
		default:
			h.log.Error().Err(err).Msg("create user failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		}
		return
	}

	c.JSON(http.StatusCreated, userResponse{ID: user.ID.Hex(), Email: user.Email})
}

func (h HandlerSet) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, userResponse{ID: user.ID.Hex(), Email: user.Email})
}
