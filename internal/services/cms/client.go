package cms

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

// Client wraps the CMS video collection API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes the CMS client.
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

// NewClient constructs a CMS client against the given API base.
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

// Update carries the metadata patched onto a video after ingest submission.
// Description and ReferenceID are sent only when non-empty.
type Update struct {
	Name        string
	Description string
	ReferenceID string
}

// CreateVideo creates a minimal video record holding only the display name
// and returns the new video id. Success is 200 or 201.
func (c *Client) CreateVideo(ctx context.Context, token, accountID, name string) (string, error) {
	endpoint := fmt.Sprintf("%s/v1/accounts/%s/videos", c.baseURL, accountID)
	payload := map[string]string{"name": name}

	body, err := c.send(ctx, http.MethodPost, endpoint, token, payload, "create video",
		http.StatusOK, http.StatusCreated)
	if err != nil {
		return "", err
	}

	var video struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &video); err != nil {
		return "", services.Wrap(services.ErrStatus, "cms", "create video", "decode response", err)
	}
	if video.ID == "" {
		return "", services.Wrap(services.ErrStatus, "cms", "create video", "missing video id", nil)
	}
	return video.ID, nil
}

// UpdateVideo patches name, and conditionally description and reference id,
// onto an existing video. Success is 200 only.
func (c *Client) UpdateVideo(ctx context.Context, token, accountID, videoID string, update Update) error {
	endpoint := fmt.Sprintf("%s/v1/accounts/%s/videos/%s", c.baseURL, accountID, videoID)
	payload := map[string]string{"name": update.Name}
	if update.Description != "" {
		payload["description"] = update.Description
	}
	if update.ReferenceID != "" {
		payload["reference_id"] = update.ReferenceID
	}

	_, err := c.send(ctx, http.MethodPatch, endpoint, token, payload, "update video", http.StatusOK)
	return err
}

func (c *Client) send(ctx context.Context, method, endpoint, token string, payload any, operation string, goodStatuses ...int) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "cms", operation, "encode request", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "cms", operation, "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "cms", operation, "", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "cms", operation, "read body", err)
	}
	for _, status := range goodStatuses {
		if resp.StatusCode == status {
			return body, nil
		}
	}
	return nil, services.Wrap(services.ErrStatus, "cms", operation,
		fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
}
