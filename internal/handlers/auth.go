package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/T-manDon/alx-files-manager/internal/service"
)

func (h HandlerSet) Connect(c *gin.Context) {
	token, err := h.auth.Connect(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		h.log.Error().Err(err).Msg("connect failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h HandlerSet) Disconnect(c *gin.Context) {
	if err := h.auth.Disconnect(c.Request.Context(), c.GetHeader("X-Token")); err != nil {
		if !errors.Is(err, service.ErrUnauthorized) {
			h.log.Error().Err(err).Msg("disconnect failed")
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.Status(http.StatusNoContent)
}
