package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/T-manDon/alx-files-manager/internal/ids"
	"github.com/T-manDon/alx-files-manager/internal/models"
	"github.com/T-manDon/alx-files-manager/internal/queue"
	"github.com/T-manDon/alx-files-manager/internal/repository"
)

var (
	ErrMissingName     = errors.New("missing name")
	ErrMissingType     = errors.New("missing or invalid type")
	ErrMissingData     = errors.New("missing data")
	ErrInvalidData     = errors.New("invalid data")
	ErrParentNotFound  = errors.New("parent not found")
	ErrParentNotFolder = errors.New("parent is not a folder")
	ErrFolderNoContent = errors.New("folder has no content")
)

// FileStore is the slice of the file repository the upload and read flows
// need.
type FileStore interface {
	Create(ctx context.Context, file models.File) (models.File, error)
	GetOwned(ctx context.Context, id string, ownerID primitive.ObjectID) (models.File, error)
	GetAny(ctx context.Context, id string) (models.File, error)
	ListByParent(ctx context.Context, ownerID primitive.ObjectID, parentID string, page int) ([]models.File, error)
	SetPublic(ctx context.Context, id string, ownerID primitive.ObjectID, value bool) (models.File, error)
}

type FileService struct {
	files       FileStore
	jobs        Enqueuer
	storageRoot string
	log         zerolog.Logger
}

func NewFileService(files FileStore, jobs Enqueuer, storageRoot string, log zerolog.Logger) *FileService {
	return &FileService{
		files:       files,
		jobs:        jobs,
		storageRoot: storageRoot,
		log:         log,
	}
}

type UploadInput struct {
	Name     string
	Type     models.FileType
	ParentID string
	IsPublic bool
	Data     string // base64, empty for folders
}

// Upload validates and persists one upload. Validation order is contractual:
// name, then type, then data, then parent. The returned record carries its
// assigned id regardless of whether a thumbnail job could be enqueued.
func (s *FileService) Upload(ctx context.Context, owner models.User, input UploadInput) (models.File, error) {
	if input.Name == "" {
		return models.File{}, ErrMissingName
	}
	if !input.Type.Valid() {
		return models.File{}, ErrMissingType
	}
	if input.Type != models.FileTypeFolder && input.Data == "" {
		return models.File{}, ErrMissingData
	}

	var data []byte
	if input.Type != models.FileTypeFolder {
		decoded, err := base64.StdEncoding.DecodeString(input.Data)
		if err != nil {
			return models.File{}, ErrInvalidData
		}
		data = decoded
	}

	parentID := input.ParentID
	if parentID == "" {
		parentID = models.RootParentID
	}
	if parentID != models.RootParentID {
		parent, err := s.files.GetOwned(ctx, parentID, owner.ID)
		if err != nil {
			if errors.Is(err, repository.ErrFileNotFound) {
				return models.File{}, ErrParentNotFound
			}
			return models.File{}, err
		}
		if parent.Type != models.FileTypeFolder {
			return models.File{}, ErrParentNotFolder
		}
	}

	record := models.File{
		UserID:   owner.ID,
		Name:     input.Name,
		Type:     input.Type,
		IsPublic: input.IsPublic,
		ParentID: parentID,
	}

	if input.Type == models.FileTypeFolder {
		return s.files.Create(ctx, record)
	}

	localPath, err := s.writeContent(data)
	if err != nil {
		return models.File{}, err
	}
	record.LocalPath = localPath

	file, err := s.files.Create(ctx, record)
	if err != nil {
		return models.File{}, err
	}

	if file.Type == models.FileTypeImage && s.jobs != nil {
		job := queue.ThumbnailJob{UserID: owner.ID.Hex(), FileID: file.ID.Hex()}
		if err := s.jobs.Enqueue(ctx, job); err != nil {
			// Best effort: the upload already succeeded, the sweep
			// picks up images that never got processed.
			s.log.Warn().Err(err).Str("file_id", file.ID.Hex()).Msg("enqueue thumbnail failed")
		}
	}

	return file, nil
}

func (s *FileService) writeContent(data []byte) (string, error) {
	if err := os.MkdirAll(s.storageRoot, 0o755); err != nil {
		return "", fmt.Errorf("create storage root: %w", err)
	}

	localPath := filepath.Join(s.storageRoot, ids.New())
	if err := os.WriteFile(localPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write content: %w", err)
	}
	return localPath, nil
}

// Get returns an owned record; foreign and missing ids are the same error.
func (s *FileService) Get(ctx context.Context, owner models.User, id string) (models.File, error) {
	return s.files.GetOwned(ctx, id, owner.ID)
}

// List returns one page of the owner's records under parentID.
func (s *FileService) List(ctx context.Context, owner models.User, parentID string, page int) ([]models.File, error) {
	return s.files.ListByParent(ctx, owner.ID, parentID, page)
}

func (s *FileService) SetPublic(ctx context.Context, owner models.User, id string, value bool) (models.File, error) {
	return s.files.SetPublic(ctx, id, owner.ID, value)
}

// ThumbnailWidths are the variant widths derived for every image, smallest
// last so the sweep can probe for the cheapest one.
var ThumbnailWidths = []int{500, 250, 100}

// Content loads the raw bytes for a record. Anonymous callers only reach
// public records; a private record owned by someone else reads as not found.
// size selects a thumbnail variant by width ("500", "250", "100").
func (s *FileService) Content(ctx context.Context, viewer *models.User, id, size string) ([]byte, string, error) {
	file, err := s.files.GetAny(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if !file.IsPublic {
		if viewer == nil || viewer.ID != file.UserID {
			return nil, "", repository.ErrFileNotFound
		}
	}

	if file.Type == models.FileTypeFolder {
		return nil, "", ErrFolderNoContent
	}

	localPath := file.LocalPath
	switch size {
	case "", "original":
	case "500", "250", "100":
		localPath = fmt.Sprintf("%s_%s", localPath, size)
	default:
		return nil, "", repository.ErrFileNotFound
	}

	data, err := os.ReadFile(localPath)
	if err != nil {
		return nil, "", repository.ErrFileNotFound
	}

	contentType := mime.TypeByExtension(filepath.Ext(file.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}
