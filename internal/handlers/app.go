package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type statusResponse struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

type statsResponse struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

// Status reports store reachability; it is the designated health surface
// for operators to detect connectivity failures.
func (h HandlerSet) Status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	redisAlive := true
	if err := h.cache.Ping(ctx).Err(); err != nil {
		redisAlive = false
		h.log.Error().Err(err).Msg("redis ping failed")
	}

	dbAlive := true
	if err := h.db.Client().Ping(ctx, nil); err != nil {
		dbAlive = false
		h.log.Error().Err(err).Msg("mongo ping failed")
	}

	c.JSON(http.StatusOK, statusResponse{Redis: redisAlive, DB: dbAlive})
}

func (h HandlerSet) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	users, err := h.users.Count(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("count users failed")
	}
	files, err := h.repo.Count(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("count files failed")
	}

	c.JSON(http.StatusOK, statsResponse{Users: users, Files: files})
}
