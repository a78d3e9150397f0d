package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/T-manDon/alx-files-manager/internal/models"
	"github.com/T-manDon/alx-files-manager/internal/queue"
	"github.com/T-manDon/alx-files-manager/internal/service"
)

// FileStore fetches records by id without ownership scoping; jobs already
// carry the owner and run outside any request identity.
type FileStore interface {
	GetAny(ctx context.Context, id string) (models.File, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id string) (models.User, error)
}

// Processor executes queued jobs. Every handler is idempotent: re-running a
// thumbnail job overwrites the same variant paths, re-running a welcome job
// logs the greeting again.
type Processor struct {
	files  FileStore
	users  UserStore
	logger zerolog.Logger
}

func NewProcessor(files FileStore, users UserStore, logger zerolog.Logger) *Processor {
	return &Processor{
		files:  files,
		users:  users,
		logger: logger,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	kind, _ := msg.Values["kind"].(string)

	switch queue.Kind(kind) {
	case queue.KindThumbnail:
		return p.handleThumbnail(ctx, msg.Values)
	case queue.KindWelcome:
		return p.handleWelcome(ctx, msg.Values)
	default:
		p.logger.Warn().Str("kind", kind).Msg("unknown job kind")
		return nil
	}
}

func (p *Processor) handleThumbnail(ctx context.Context, values map[string]any) error {
	job, err := queue.DecodeThumbnail(values)
	if err != nil {
		return err
	}

	file, err := p.files.GetAny(ctx, job.FileID)
	if err != nil {
		return fmt.Errorf("file %s: %w", job.FileID, err)
	}
	if file.Type != models.FileTypeImage {
		return fmt.Errorf("file %s is not an image", job.FileID)
	}
	if file.LocalPath == "" {
		return errors.New("file has no content")
	}

	src, err := loadImage(file.LocalPath)
	if err != nil {
		return fmt.Errorf("decode %s: %w", file.LocalPath, err)
	}

	format, err := imaging.FormatFromFilename(file.Name)
	if err != nil {
		// No usable extension on the record name; keep the source
		// pixels readable by defaulting to PNG.
		format = imaging.PNG
	}

	for _, width := range service.ThumbnailWidths {
		variant := imaging.Resize(src, width, 0, imaging.Lanczos)
		target := fmt.Sprintf("%s_%d", file.LocalPath, width)
		if err := persistVariant(target, variant, format); err != nil {
			return fmt.Errorf("variant %d: %w", width, err)
		}
	}

	p.logger.Info().
		Str("file_id", job.FileID).
		Str("user_id", job.UserID).
		Msg("thumbnails generated")
	return nil
}

func loadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// persistVariant writes through a temp file in the target directory and
// renames into place, so a crash mid-write never leaves a truncated
// variant behind.
func persistVariant(target string, img image.Image, format imaging.Format) error {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, filepath.Base(target)+".tmp-*")
	if err != nil {
		return err
	}

	if err := imaging.Encode(tmp, img, format); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), target)
}

func (p *Processor) handleWelcome(ctx context.Context, values map[string]any) error {
	job, err := queue.DecodeWelcome(values)
	if err != nil {
		return err
	}

	user, err := p.users.GetByID(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("user %s: %w", job.UserID, err)
	}

	p.logger.Info().Str("user_id", job.UserID).Msgf("Welcome %s!", user.Email)
	return nil
}
