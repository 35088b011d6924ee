package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"video_ingestor/internal/domain"
)

// IngestService drives one pass over the manifest: validate each row,
// confirm the target video exists, sign the source URL, submit the
// ingest request and advance the checkpoint, pacing submissions against
// the platform's rate limit. Rows are processed strictly one at a time.
type IngestService struct {
	manifest    ManifestReader
	platform    PlatformClient
	signer      Signer
	checkpoints CheckpointStore
	failures    FailureLog
	limiter     RateLimiter
	publisher   Publisher
	logger      *slog.Logger
}

func NewIngestService(
	manifest ManifestReader,
	platform PlatformClient,
	signer Signer,
	checkpoints CheckpointStore,
	failures FailureLog,
	limiter RateLimiter,
	publisher Publisher,
	logger *slog.Logger,
) *IngestService {
	return &IngestService{
		manifest:    manifest,
		platform:    platform,
		signer:      signer,
		checkpoints: checkpoints,
		failures:    failures,
		limiter:     limiter,
		publisher:   publisher,
		logger:      logger.With("component", "ingest"),
	}
}

// Run consumes the manifest. Rows up to and including the checkpointed
// video id are skipped without side effects; every later row runs the
// full per-row flow. The checkpoint is cleared once the manifest is
// fully consumed.
//
// Only manifest, checkpoint and failure-log I/O errors (and context
// cancellation) end the run early; per-row errors are logged and the
// run moves on.
func (s *IngestService) Run(ctx context.Context) (*domain.RunStats, error) {
	start := time.Now()
	stats := &domain.RunStats{}

	lastProcessed, err := s.checkpoints.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	resuming := lastProcessed != ""
	if resuming {
		s.logger.Info("resuming from checkpoint", "video_id", lastProcessed)
	}

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		row, err := s.manifest.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("read manifest: %w", err)
		}
		stats.Rows++

		if resuming {
			stats.Resumed++
			if row.VideoID == lastProcessed {
				resuming = false
			}
			continue
		}

		if err := s.processRow(ctx, row, stats); err != nil {
			return stats, err
		}
	}

	if err := s.finish(ctx); err != nil {
		return stats, err
	}

	stats.Duration = time.Since(start)
	s.logger.Info("run completed",
		"rows", stats.Rows,
		"resumed", stats.Resumed,
		"invalid", stats.Invalid,
		"missing", stats.Missing,
		"aborted", stats.Aborted,
		"submitted", stats.Submitted,
		"failed", stats.Failed,
		"published", stats.Published,
		"duration", stats.Duration,
	)

	return stats, nil
}

func (s *IngestService) processRow(ctx context.Context, row *domain.ManifestRow, stats *domain.RunStats) error {
	if reason, ok := acceptRow(row); !ok {
		stats.Invalid++
		s.logger.Info("skipping row",
			"row", row.Line,
			"video_id", row.VideoID,
			"reason", reason,
		)
		return s.failures.Append(domain.FailureRecord{
			Row:      row.Line,
			VideoID:  row.VideoID,
			VideoURL: row.VideoURL,
			Reason:   reason,
		})
	}

	exists, err := s.videoExists(ctx, row, stats)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	signedURL, err := s.signer.Sign(ctx, row.VideoURL)
	if err != nil {
		stats.Aborted++
		s.logger.Warn("failed to sign source URL",
			"row", row.Line,
			"video_id", row.VideoID,
			"error", err,
		)
		return s.failures.Append(domain.FailureRecord{
			Row:      row.Line,
			VideoID:  row.VideoID,
			VideoURL: row.VideoURL,
			Reason:   "Failed to generate signed URL",
		})
	}

	apiErr, err := s.platform.SubmitIngest(ctx, row.VideoID, signedURL)
	if err != nil {
		// Token or transport failure: transient, retried on the next
		// run since the checkpoint does not move.
		stats.Aborted++
		s.logger.Warn("ingest submission aborted",
			"row", row.Line,
			"video_id", row.VideoID,
			"error", err,
		)
		return nil
	}

	stats.Submitted++
	if apiErr != nil {
		stats.Failed++
		if err := s.failures.Append(domain.FailureRecord{
			Row:      row.Line,
			VideoID:  row.VideoID,
			VideoURL: row.VideoURL,
			Reason:   fmt.Sprintf("API response message - %s", apiErr.ErrorCode),
		}); err != nil {
			return err
		}
	} else {
		s.logger.Info("successfully ingested video", "video_id", row.VideoID)
	}

	s.publish(ctx, row, apiErr, stats)

	if err := s.checkpoints.Save(ctx, row.VideoID); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}

	return s.limiter.Wait(ctx)
}

// videoExists validates the id format and asks the CMS for the video.
// The returned error is fatal (failure-log I/O only); transient platform
// errors abort the row silently.
func (s *IngestService) videoExists(ctx context.Context, row *domain.ManifestRow, stats *domain.RunStats) (bool, error) {
	if !domain.ValidVideoID(row.VideoID) {
		stats.Invalid++
		s.logger.Info("video id not a valid format",
			"row", row.Line,
			"video_id", row.VideoID,
		)
		return false, s.failures.Append(domain.FailureRecord{
			Row:     row.Line,
			VideoID: row.VideoID,
			Reason:  "Video ID not a valid format.",
		})
	}

	exists, apiErr, err := s.platform.VideoExists(ctx, row.VideoID)
	if err != nil {
		stats.Aborted++
		s.logger.Warn("existence check aborted",
			"row", row.Line,
			"video_id", row.VideoID,
			"error", err,
		)
		return false, nil
	}
	if apiErr != nil {
		stats.Missing++
		s.logger.Info("video does not exist",
			"row", row.Line,
			"video_id", row.VideoID,
			"error_code", apiErr.ErrorCode,
			"message", apiErr.Message,
		)
		return false, s.failures.Append(domain.FailureRecord{
			Row:     row.Line,
			VideoID: row.VideoID,
			Reason:  fmt.Sprintf("CMS API response message - %s - %s", apiErr.ErrorCode, apiErr.Message),
		})
	}

	return exists, nil
}

func (s *IngestService) publish(ctx context.Context, row *domain.ManifestRow, apiErr *domain.APIError, stats *domain.RunStats) {
	if s.publisher == nil {
		return
	}

	errorCode := ""
	if apiErr != nil {
		errorCode = apiErr.ErrorCode
	}

	if err := s.publisher.Publish(ctx, row, apiErr == nil, errorCode); err != nil {
		s.logger.Warn("failed to publish ingest event",
			"video_id", row.VideoID,
			"error", err,
		)
		return
	}
	stats.Published++
}

func (s *IngestService) finish(ctx context.Context) error {
	cleared, err := s.checkpoints.Clear(ctx)
	if err != nil {
		return fmt.Errorf("clear checkpoint: %w", err)
	}
	if cleared {
		s.logger.Info("checkpoint cleared, processing is complete")
	} else {
		s.logger.Info("checkpoint already empty")
	}
	s.logger.Info("manifest processing has finished")
	return nil
}

// acceptRow applies the delivery-type and URL policy. A wrong delivery
// type overrides the URL reason; a blank one reports "undefined".
func acceptRow(row *domain.ManifestRow) (string, bool) {
	validURL, urlReason := domain.ValidateVideoURL(row.VideoURL)
	if row.DeliveryType == "remote" && validURL {
		return "", true
	}

	reason := urlReason
	if row.DeliveryType != "remote" {
		reason = fmt.Sprintf("Invalid delivery type: %s", row.DeliveryType)
	}
	if strings.TrimSpace(row.DeliveryType) == "" {
		reason = "Invalid delivery type: undefined"
	}
	return reason, false
}
