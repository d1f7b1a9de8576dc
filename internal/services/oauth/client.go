package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"uplink/internal/services"
)

const (
	tokenPath          = "/v3/access_token"
	defaultHTTPTimeout = 15 * time.Second
)

// Client exchanges client credentials for short-lived bearer tokens.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes the OAuth client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient constructs an OAuth client against the given API base.
func NewClient(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Token requests an access token using the client-credentials grant. Any
// non-2xx response, including transport failure, surfaces as a tagged error;
// this layer never retries.
func (c *Client) Token(ctx context.Context, clientID, clientSecret string) (string, error) {
	if strings.TrimSpace(clientID) == "" || strings.TrimSpace(clientSecret) == "" {
		return "", services.Wrap(services.ErrValidation, "oauth", "token", "client credentials required", nil)
	}

	endpoint := c.baseURL + tokenPath
	form := url.Values{"grant_type": []string{"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "oauth", "token", "build request", err)
	}
	req.SetBasicAuth(clientID, clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrAuth, "oauth", "token", "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrAuth, "oauth", "token", "read body", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", services.Wrap(services.ErrAuth, "oauth", "token", fmt.Sprintf("http %d", resp.StatusCode), nil)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", services.Wrap(services.ErrAuth, "oauth", "token", "decode response", err)
	}
	if payload.AccessToken == "" {
		return "", services.Wrap(services.ErrAuth, "oauth", "token", "empty access token", nil)
	}
	return payload.AccessToken, nil
}
