package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Kind string

const (
	KindThumbnail Kind = "thumbnail"
	KindWelcome   Kind = "welcome"
)

var (
	ErrMissingFileID = errors.New("missing fileId")
	ErrMissingUserID = errors.New("missing userId")
)

// ThumbnailJob asks the worker to derive resized variants for one image
// record.
type ThumbnailJob struct {
	UserID string
	FileID string
}

// WelcomeJob greets a freshly registered user.
type WelcomeJob struct {
	UserID string
}

// Job is the closed set of things that can travel through the stream. The
// kind discriminator plus typed decode replaces the loose field maps the
// queue otherwise degenerates into.
type Job interface {
	kind() Kind
	values() map[string]any
}

func (j ThumbnailJob) kind() Kind { return KindThumbnail }

func (j ThumbnailJob) values() map[string]any {
	return map[string]any{"kind": string(KindThumbnail), "userId": j.UserID, "fileId": j.FileID}
}

func (j WelcomeJob) kind() Kind { return KindWelcome }

func (j WelcomeJob) values() map[string]any {
	return map[string]any{"kind": string(KindWelcome), "userId": j.UserID}
}

// DecodeThumbnail validates the payload of a thumbnail delivery. A missing
// field is a terminal failure for the attempt, not a malformed-queue panic.
func DecodeThumbnail(values map[string]any) (ThumbnailJob, error) {
	job := ThumbnailJob{
		UserID: stringField(values, "userId"),
		FileID: stringField(values, "fileId"),
	}
	if job.FileID == "" {
		return ThumbnailJob{}, ErrMissingFileID
	}
	if job.UserID == "" {
		return ThumbnailJob{}, ErrMissingUserID
	}
	return job, nil
}

func DecodeWelcome(values map[string]any) (WelcomeJob, error) {
	job := WelcomeJob{UserID: stringField(values, "userId")}
	if job.UserID == "" {
		return WelcomeJob{}, ErrMissingUserID
	}
	return job, nil
}

func stringField(values map[string]any, key string) string {
	s, _ := values[key].(string)
	return s
}

// Producer appends jobs to the shared stream. Enqueue outcome is decoupled
// from whatever request triggered it; callers log failures and move on.
type Producer struct {
	client *redis.Client
	stream string
}

func NewProducer(client *redis.Client, stream string) *Producer {
	return &Producer{client: client, stream: stream}
}

func (p *Producer) Enqueue(ctx context.Context, job Job) error {
	_, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: job.values(),
	}).Result()
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", job.kind(), err)
	}
	return nil
}
