// Package platform is the HTTP client for the video platform's OAuth,
// CMS and Dynamic Ingest REST APIs.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"video_ingestor/internal/domain"
)

const ingestProfile = "multi-platform-standard-static"

// TokenSource supplies a bearer token for authenticated calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client talks to the platform's CMS and ingest endpoints for one account.
type Client struct {
	httpClient    *http.Client
	cmsBaseURL    string
	ingestBaseURL string
	accountID     string
	tokens        TokenSource
	logger        *slog.Logger
}

type ClientConfig struct {
	CMSBaseURL    string
	IngestBaseURL string
	AccountID     string
	Timeout       time.Duration
}

func NewClient(cfg ClientConfig, tokens TokenSource, logger *slog.Logger) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		cmsBaseURL:    cfg.CMSBaseURL,
		ingestBaseURL: cfg.IngestBaseURL,
		accountID:     cfg.AccountID,
		tokens:        tokens,
		logger:        logger.With("component", "platform"),
	}
}

// VideoExists looks the video id up in the CMS. A response carrying a
// name field means the video exists; any other payload is the API's
// error array and is returned for the failure record.
func (c *Client) VideoExists(ctx context.Context, videoID string) (bool, *domain.APIError, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return false, nil, fmt.Errorf("get token: %w", err)
	}

	url := fmt.Sprintf("%s/accounts/%s/videos/%s", c.cmsBaseURL, c.accountID, videoID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, nil, fmt.Errorf("read response: %w", err)
	}

	name, apiErr, err := parseVideoPayload(body)
	if err != nil {
		return false, nil, fmt.Errorf("decode CMS response: %w", err)
	}
	if apiErr != nil {
		return false, apiErr, nil
	}

	c.logger.Info("video exists", "video_id", videoID, "name", name)
	return true, nil, nil
}

// SubmitIngest posts an ingest request referencing sourceURL. A nil
// APIError means the platform accepted the request (HTTP 200/202); a
// non-nil one carries the upstream rejection for the failure record.
func (c *Client) SubmitIngest(ctx context.Context, videoID, sourceURL string) (*domain.APIError, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}

	payload := map[string]any{
		"master":         map[string]string{"url": sourceURL},
		"profile":        ingestProfile,
		"priority":       "low",
		"capture-images": false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal ingest request: %w", err)
	}

	url := fmt.Sprintf("%s/accounts/%s/videos/%s/ingest-requests", c.ingestBaseURL, c.accountID, videoID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusAccepted {
		c.logger.Info("ingest request accepted", "video_id", videoID)
		return nil, nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var apiErrs []domain.APIError
	if err := json.Unmarshal(respBody, &apiErrs); err != nil || len(apiErrs) == 0 {
		return nil, fmt.Errorf("ingest endpoint returned status %d with unexpected body", resp.StatusCode)
	}

	c.logger.Warn("ingest request rejected",
		"video_id", videoID,
		"status", resp.StatusCode,
		"error_code", apiErrs[0].ErrorCode,
	)
	return &apiErrs[0], nil
}

// parseVideoPayload distinguishes the CMS success object from its error
// array, which both arrive with status semantics baked into the body.
func parseVideoPayload(body []byte) (name string, apiErr *domain.APIError, err error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var apiErrs []domain.APIError
		if err := json.Unmarshal(trimmed, &apiErrs); err != nil {
			return "", nil, err
		}
		if len(apiErrs) == 0 {
			return "", nil, fmt.Errorf("empty error array")
		}
		return "", &apiErrs[0], nil
	}

	var video struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(trimmed, &video); err != nil {
		return "", nil, err
	}
	if video.Name == "" {
		return "", nil, fmt.Errorf("response has no name field")
	}
	return video.Name, nil, nil
}
