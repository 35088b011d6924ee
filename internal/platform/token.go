package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// expiryBuffer is subtracted from the lifetime the OAuth service reports
// so a token is never used right at its expiry boundary.
const expiryBuffer = 30 * time.Second

const defaultExpiresIn = 300

// TokenManager caches an OAuth bearer token obtained via the
// client-credentials grant and refreshes it transparently once the
// buffered lifetime has elapsed.
type TokenManager struct {
	httpClient   *http.Client
	oauthURL     string
	clientID     string
	clientSecret string
	logger       *slog.Logger

	mu        sync.Mutex
	token     string
	expiresAt time.Time

	now func() time.Time
}

type TokenConfig struct {
	OAuthURL     string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

func NewTokenManager(cfg TokenConfig, logger *slog.Logger) *TokenManager {
	return &TokenManager{
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		oauthURL:     cfg.OAuthURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		logger:       logger.With("component", "token_manager"),
		now:          time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token returns the cached access token, exchanging credentials for a
// fresh one when none is cached or the cached one has expired.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" && m.now().Before(m.expiresAt) {
		return m.token, nil
	}

	m.logger.Info("requesting new OAuth token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.oauthURL,
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.SetBasicAuth(m.clientID, m.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		m.logger.Warn("failed to get OAuth token",
			"status", resp.StatusCode,
			"body", string(body),
		)
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}

	expiresIn := tr.ExpiresIn
	if expiresIn == 0 {
		expiresIn = defaultExpiresIn
	}

	m.token = tr.AccessToken
	m.expiresAt = m.now().Add(time.Duration(expiresIn)*time.Second - expiryBuffer)

	m.logger.Info("new OAuth token acquired", "expires_in", expiresIn)

	return m.token, nil
}
