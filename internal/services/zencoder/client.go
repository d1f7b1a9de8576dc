package zencoder

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

// Client wraps the transcoding job API.
type Client struct {
	apiKey     string
	jobsURL    string
	httpClient *http.Client
}

// Option customizes the client.
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

// NewClient constructs a client for the jobs endpoint.
func NewClient(apiKey, jobsURL string, opts ...Option) *Client {
	client := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		jobsURL:    strings.TrimRight(strings.TrimSpace(jobsURL), "/"),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Output describes one output of a live transcode job. The same shape covers
// segmented renditions and the master playlist; unused fields are omitted.
type Output struct {
	Label               string            `json:"label,omitempty"`
	Size                string            `json:"size,omitempty"`
	VideoBitrate        int               `json:"video_bitrate,omitempty"`
	AudioBitrate        int               `json:"audio_bitrate,omitempty"`
	URL                 string            `json:"url"`
	Type                string            `json:"type"`
	LiveStream          string            `json:"live_stream,omitempty"`
	MetadataPassthrough string            `json:"metadata_passthrough,omitempty"`
	Streams             []PlaylistStream  `json:"streams,omitempty"`
	Headers             map[string]string `json:"headers,omitempty"`
}

// PlaylistStream is one variant entry of a playlist output.
type PlaylistStream struct {
	Bandwidth int    `json:"bandwidth"`
	Path      string `json:"path"`
}

// JobRequest is the job creation body. The API expects string booleans.
type JobRequest struct {
	LiveStream          string   `json:"live_stream"`
	MetadataPassthrough string   `json:"metadata_passthrough"`
	Region              string   `json:"region,omitempty"`
	Outputs             []Output `json:"outputs"`
}

// Job is the descriptor returned by job creation; it lives only as long as
// the feed subprocess.
type Job struct {
	ID         string
	StreamURL  string
	StreamName string
}

// CuePoint is one timed marker event injected into a live job.
type CuePoint struct {
	Name       string          `json:"name"`
	Time       string          `json:"time"`
	Type       string          `json:"type"`
	Parameters json.RawMessage `json:"parameters"`
}

// CreateJob submits a live transcode job. Anything other than HTTP 201 is an
// error carrying the status and response body for diagnostics.
func (c *Client) CreateJob(ctx context.Context, request JobRequest) (Job, error) {
	encoded, err := json.Marshal(request)
	if err != nil {
		return Job{}, services.Wrap(services.ErrTransport, "zencoder", "create job", "encode request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.jobsURL, bytes.NewReader(encoded))
	if err != nil {
		return Job{}, services.Wrap(services.ErrTransport, "zencoder", "create job", "build request", err)
	}
	c.setHeaders(req)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Job{}, services.Wrap(services.ErrTransport, "zencoder", "create job", "", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Job{}, services.Wrap(services.ErrTransport, "zencoder", "create job", "read body", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return Job{}, services.Wrap(services.ErrStatus, "zencoder", "create job",
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	var payload struct {
		ID         json.Number `json:"id"`
		StreamURL  string      `json:"stream_url"`
		StreamName string      `json:"stream_name"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Job{}, services.Wrap(services.ErrStatus, "zencoder", "create job", "decode response", err)
	}
	job := Job{
		ID:         payload.ID.String(),
		StreamURL:  payload.StreamURL,
		StreamName: payload.StreamName,
	}
	if job.ID == "" || job.StreamURL == "" || job.StreamName == "" {
		return Job{}, services.Wrap(services.ErrStatus, "zencoder", "create job", "incomplete job descriptor", nil)
	}
	return job, nil
}

// InjectCuePoint posts one cue point into a running job.
func (c *Client) InjectCuePoint(ctx context.Context, jobID string, cue CuePoint) error {
	encoded, err := json.Marshal(cue)
	if err != nil {
		return services.Wrap(services.ErrTransport, "zencoder", "cue point", "encode request", err)
	}
	endpoint := fmt.Sprintf("%s/%s/cue_point", c.jobsURL, jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return services.Wrap(services.ErrTransport, "zencoder", "cue point", "build request", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransport, "zencoder", "cue point", "", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return services.Wrap(services.ErrStatus, "zencoder", "cue point",
			fmt.Sprintf("http %d", resp.StatusCode), nil)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Zencoder-Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
}
