package domain

import "regexp"

// ManifestRow is one candidate video from the CSV manifest.
type ManifestRow struct {
	Line         int // 1-based data row number, for failure records
	VideoID      string
	VideoURL     string
	DeliveryType string
}

// FailureRecord is one line in the append-only failure log.
// VideoURL is "N/A" when the failure happened before the URL was relevant.
type FailureRecord struct {
	Row      int
	VideoID  string
	VideoURL string
	Reason   string
}

// APIError is the error payload position 0 of the platform's CMS and
// ingest endpoints.
type APIError struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

var (
	videoURLPattern = regexp.MustCompile(`^(https?://|s3://)[^/]+/(?:.+/)?[^/]+\.(mp4|mov|avi|mkv)$`)
	videoIDPattern  = regexp.MustCompile(`^[0-9]+$`)
)

// ValidateVideoURL reports whether raw is an ingestible source URL
// (http, https or s3 scheme pointing at an mp4/mov/avi/mkv file). When it
// is not, the second return value is the reason for the failure record.
func ValidateVideoURL(raw string) (bool, string) {
	if raw == "" {
		return false, "URL is not a string or is missing"
	}
	if !videoURLPattern.MatchString(raw) {
		return false, "Provided URL is not a valid URL path or video format"
	}
	return true, ""
}

// ValidVideoID reports whether id is all decimal digits, the only format
// the platform accepts.
func ValidVideoID(id string) bool {
	return videoIDPattern.MatchString(id)
}
