// internal/common/auth/keycloak.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"creator-campaign-workers/internal/common/errors"
)

// expirySkew refreshes tokens slightly before Keycloak considers them expired.
const expirySkew = 30 * time.Second

// TokenSource supplies bearer tokens for outbound calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// KeycloakClient obtains service-account tokens with the client credentials flow.
type KeycloakClient struct {
	baseURL      string
	realm        string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	now          func() time.Time

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// TokenResponse holds the response from Keycloak's token endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
}

// NewKeycloakClient creates a new instance of KeycloakClient.
func NewKeycloakClient(baseURL, realm, clientID, clientSecret string) *KeycloakClient {
	return &KeycloakClient{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		realm:        realm,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		now:          time.Now,
	}
}

// Token returns a cached access token, fetching a new one once it is close to expiry.
func (k *KeycloakClient) Token(ctx context.Context) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.accessToken != "" && k.now().Before(k.tokenExpiry) {
		return k.accessToken, nil
	}

	tokenResp, err := k.requestToken(ctx)
	if err != nil {
		return "", err
	}

	k.accessToken = tokenResp.AccessToken
	k.tokenExpiry = k.now().Add(time.Duration(tokenResp.ExpiresIn)*time.Second - expirySkew)
	return k.accessToken, nil
}

// Invalidate drops the cached token, e.g. after the endpoint answered 401.
func (k *KeycloakClient) Invalidate() {
	k.mu.Lock()
	k.accessToken = ""
	k.mu.Unlock()
}

func (k *KeycloakClient) requestToken(ctx context.Context) (*TokenResponse, error) {
	tokenURL := fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token", k.baseURL, url.PathEscape(k.realm))

	data := url.Values{}
	data.Set("grant_type", "client_credentials")
	data.Set("client_id", k.clientID)
	data.Set("client_secret", k.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if isTransientHTTPError(resp.StatusCode) {
			return nil, fmt.Errorf("keycloak token request failed with status %d: %s", resp.StatusCode, string(body))
		}
		return nil, errors.NewAuthenticationError(
			fmt.Sprintf("keycloak rejected client %s with status %d", k.clientID, resp.StatusCode))
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return nil, errors.NewAuthenticationError("keycloak returned an empty access token")
	}
	return &tokenResp, nil
}

// isTransientHTTPError returns true if the HTTP status code indicates a potentially transient error.
func isTransientHTTPError(statusCode int) bool {
	switch statusCode {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
