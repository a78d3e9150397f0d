package jobs

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/T-manDon/alx-files-manager/internal/models"
	"github.com/T-manDon/alx-files-manager/internal/queue"
	"github.com/T-manDon/alx-files-manager/internal/service"
)

type ImageLister interface {
	ListImages(ctx context.Context) ([]models.File, error)
}

// Scheduler periodically re-enqueues thumbnail jobs for image records whose
// variants never appeared on disk, covering uploads whose original enqueue
// was dropped. Duplicate jobs are harmless; the worker overwrites the same
// variant paths.
type Scheduler struct {
	cron  *cron.Cron
	files ImageLister
	jobs  service.Enqueuer
	log   zerolog.Logger
}

func NewScheduler(files ImageLister, jobs service.Enqueuer, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithSeconds()),
		files: files,
		jobs:  jobs,
		log:   log,
	}
}

func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	images, err := s.files.ListImages(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("sweep: list images failed")
		return
	}

	requeued := 0
	for _, file := range images {
		if file.LocalPath == "" || HasThumbnails(file.LocalPath) {
			continue
		}
		job := queue.ThumbnailJob{UserID: file.UserID.Hex(), FileID: file.ID.Hex()}
		if err := s.jobs.Enqueue(ctx, job); err != nil {
			s.log.Error().Err(err).Str("file_id", file.ID.Hex()).Msg("sweep: enqueue failed")
			continue
		}
		requeued++
	}

	if requeued > 0 {
		s.log.Info().Int("requeued", requeued).Msg("thumbnail sweep complete")
	}
}

// HasThumbnails probes the smallest variant; the worker writes it last, so
// its presence implies the full set.
func HasThumbnails(localPath string) bool {
	smallest := service.ThumbnailWidths[len(service.ThumbnailWidths)-1]
	_, err := os.Stat(fmt.Sprintf("%s_%d", localPath, smallest))
	return err == nil
}
