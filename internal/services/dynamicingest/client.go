package dynamicingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"uplink/internal/services"
)

const defaultHTTPTimeout = 15 * time.Second

// Client wraps the Dynamic Ingest API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes the ingest client.
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

// NewClient constructs a Dynamic Ingest client against the given API base.
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

// Request names the transcode profile, the master source in the input
// bucket, and an optional callback endpoint for ingest status notifications.
type Request struct {
	Profile          string
	SourceBucket     string
	SourceFile       string
	CallbackEndpoint string
}

type ingestBody struct {
	Profile   string       `json:"profile"`
	Callbacks []string     `json:"callbacks,omitempty"`
	Master    ingestMaster `json:"master"`
}

type ingestMaster struct {
	URL string `json:"url"`
}

// Submit issues an ingest request for a previously created video and returns
// the ingest request id. Success is 200 or 201.
func (c *Client) Submit(ctx context.Context, token, accountID, videoID string, req Request) (string, error) {
	endpoint := fmt.Sprintf("%s/v1/accounts/%s/videos/%s/ingest-requests", c.baseURL, accountID, videoID)
	body := ingestBody{
		Profile: req.Profile,
		Master:  ingestMaster{URL: fmt.Sprintf("s3://%s/%s", req.SourceBucket, req.SourceFile)},
	}
	if req.CallbackEndpoint != "" {
		body.Callbacks = []string{req.CallbackEndpoint}
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "ingest", "submit", "encode request", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "ingest", "submit", "build request", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "ingest", "submit", "", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "ingest", "submit", "read body", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", services.Wrap(services.ErrStatus, "ingest", "submit",
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody))), nil)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", services.Wrap(services.ErrStatus, "ingest", "submit", "decode response", err)
	}
	if result.ID == "" {
		return "", services.Wrap(services.ErrStatus, "ingest", "submit", "missing ingest request id", nil)
	}
	return result.ID, nil
}
