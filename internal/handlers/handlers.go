package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/T-manDon/alx-files-manager/internal/middleware"
	"github.com/T-manDon/alx-files-manager/internal/repository"
	"github.com/T-manDon/alx-files-manager/internal/service"
)

type HandlerSet struct {
	log   zerolog.Logger
	auth  *service.AuthService
	files *service.FileService
	users *repository.UserRepository
	repo  *repository.FileRepository
	db    *mongo.Database
	cache *redis.Client
}

func NewHandlerSet(
	log zerolog.Logger,
	auth *service.AuthService,
	files *service.FileService,
	users *repository.UserRepository,
	repo *repository.FileRepository,
	db *mongo.Database,
	cache *redis.Client,
) HandlerSet {
	return HandlerSet{
		log:   log,
		auth:  auth,
		files: files,
		users: users,
		repo:  repo,
		db:    db,
		cache: cache,
	}
}

func (h HandlerSet) Register(router *gin.Engine) {
	router.GET("/status", h.Status)
	router.GET("/stats", h.Stats)

	router.POST("/users", h.CreateUser)
	router.GET("/connect", h.Connect)
	router.GET("/disconnect", h.Disconnect)

	// Content retrieval authenticates lazily: public records are readable
	// without a token.
	router.GET("/files/:id/data", h.FileData)

	protected := router.Group("")
	protected.Use(middleware.Auth(h.auth))
	protected.GET("/users/me", h.Me)
	protected.POST("/files", h.UploadFile)
	protected.GET("/files/:id", h.ShowFile)
	protected.GET("/files", h.ListFiles)
	protected.PUT("/files/:id/publish", h.PublishFile)
	protected.PUT("/files/:id/unpublish", h.UnpublishFile)
}
