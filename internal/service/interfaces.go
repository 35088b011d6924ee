package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"video_ingestor/internal/domain"
)

type ManifestReader interface {
	Next() (*domain.ManifestRow, error)
	Close() error
}

type PlatformClient interface {
	VideoExists(ctx context.Context, videoID string) (bool, *domain.APIError, error)
	SubmitIngest(ctx context.Context, videoID, sourceURL string) (*domain.APIError, error)
}

type Signer interface {
	Sign(ctx context.Context, sourceURL string) (string, error)
}

type CheckpointStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, videoID string) error
	Clear(ctx context.Context) (bool, error)
}

type FailureLog interface {
	Append(rec domain.FailureRecord) error
}

type RateLimiter interface {
	Wait(ctx context.Context) error
}

type Publisher interface {
	Publish(ctx context.Context, row *domain.ManifestRow, accepted bool, errorCode string) error
	Close() error
}
