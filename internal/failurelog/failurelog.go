// Package failurelog appends skipped and failed manifest rows to a
// timestamped plain-text log, one line per failure.
package failurelog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"video_ingestor/internal/domain"
)

// Writer appends failure records to logs/failed_video_urls_<run ts>.txt.
// The file is created on the first append, so clean runs leave nothing
// behind.
type Writer struct {
	path string
}

// New derives the log filename from dir and the run's start time.
func New(dir string, startedAt time.Time) *Writer {
	name := fmt.Sprintf("failed_video_urls_%s.txt", startedAt.Format("2006-01-02_15-04-05"))
	return &Writer{path: filepath.Join(dir, name)}
}

// Path returns the log file location, whether or not it exists yet.
func (w *Writer) Path() string {
	return w.path
}

// Append writes one failure line. URL-less failures record "N/A".
func (w *Writer) Append(rec domain.FailureRecord) error {
	url := rec.VideoURL
	if url == "" {
		url = "N/A"
	}

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open failure log: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("Row: %d, Video ID: %s, Video URL: %s, Reason: %s\n",
		rec.Row, rec.VideoID, url, rec.Reason)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append failure log: %w", err)
	}
	return nil
}
