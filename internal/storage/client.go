package storage

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"uplink/internal/config"
	"uplink/internal/services"
)

// Object describes one listed bucket entry.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Client talks to an S3-compatible object store using path-style requests
// signed with AWS Signature V4. Requests go out unsigned when no credentials
// are configured, which keeps local dev endpoints reachable.
type Client struct {
	cfg        config.Storage
	endpoint   *url.URL
	httpClient *http.Client
}

// Option customizes the storage client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a storage client for the configured bucket.
func NewClient(cfg config.Storage, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "storage", "new client", "bucket required", nil)
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, services.Wrap(services.ErrConfiguration, "storage", "new client", "endpoint required", nil)
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	if strings.Contains(endpoint, "://") {
		parsed, err := url.Parse(endpoint)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "storage", "new client", "parse endpoint", err)
		}
		endpoint = parsed.Host
	}
	base := &url.URL{Scheme: scheme, Host: endpoint}
	if base.Host == "" {
		return nil, services.Wrap(services.ErrConfiguration, "storage", "new client", fmt.Sprintf("invalid endpoint %q", cfg.Endpoint), nil)
	}

	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := &Client{
		cfg:        cfg,
		endpoint:   base,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Bucket returns the configured bucket name.
func (c *Client) Bucket() string {
	return c.cfg.Bucket
}

type listBucketResult struct {
	XMLName               xml.Name     `xml:"ListBucketResult"`
	IsTruncated           bool         `xml:"IsTruncated"`
	NextContinuationToken string       `xml:"NextContinuationToken"`
	Contents              []listObject `xml:"Contents"`
}

type listObject struct {
	Key          string `xml:"Key"`
	Size         int64  `xml:"Size"`
	LastModified string `xml:"LastModified"`
}

// List returns every object in the bucket, following continuation tokens.
func (c *Client) List(ctx context.Context) ([]Object, error) {
	var objects []Object
	continuation := ""
	for {
		target := c.bucketURL()
		query := url.Values{}
		query.Set("list-type", "2")
		if continuation != "" {
			query.Set("continuation-token", continuation)
		}
		target.RawQuery = query.Encode()

		body, _, err := c.do(ctx, http.MethodGet, target, "list objects")
		if err != nil {
			return nil, err
		}

		var result listBucketResult
		if err := xml.Unmarshal(body, &result); err != nil {
			return nil, services.Wrap(services.ErrParse, "storage", "list objects", "decode listing", err)
		}
		for _, entry := range result.Contents {
			obj := Object{Key: entry.Key, Size: entry.Size}
			if entry.LastModified != "" {
				if ts, err := time.Parse(time.RFC3339, entry.LastModified); err == nil {
					obj.LastModified = ts
				}
			}
			objects = append(objects, obj)
		}
		if !result.IsTruncated || result.NextContinuationToken == "" {
			return objects, nil
		}
		continuation = result.NextContinuationToken
	}
}

// Fetch returns an object's full body as text.
func (c *Client) Fetch(ctx context.Context, key string) (string, error) {
	body, _, err := c.do(ctx, http.MethodGet, c.objectURL(key), fmt.Sprintf("fetch %s", key))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Delete removes an object from the bucket.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, _, err := c.do(ctx, http.MethodDelete, c.objectURL(key), fmt.Sprintf("delete %s", key))
	return err
}

func (c *Client) do(ctx context.Context, method string, target *url.URL, operation string) ([]byte, int, error) {
	request, err := http.NewRequestWithContext(ctx, method, target.String(), nil)
	if err != nil {
		return nil, 0, services.Wrap(services.ErrTransport, "storage", operation, "build request", err)
	}
	if err := c.sign(request, emptyPayloadHash); err != nil {
		return nil, 0, services.Wrap(services.ErrConfiguration, "storage", operation, "sign request", err)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, 0, services.Wrap(services.ErrTransport, "storage", operation, "", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, response.StatusCode, services.Wrap(services.ErrTransport, "storage", operation, "read body", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, response.StatusCode, services.Wrap(
			services.ErrStatus, "storage", operation,
			fmt.Sprintf("http %d", response.StatusCode), nil)
	}
	return body, response.StatusCode, nil
}

func (c *Client) bucketURL() *url.URL {
	u := *c.endpoint
	u.Path = "/" + strings.TrimLeft(c.cfg.Bucket, "/")
	return &u
}

func (c *Client) objectURL(key string) *url.URL {
	u := *c.endpoint
	path := "/" + strings.TrimLeft(c.cfg.Bucket, "/")
	trimmed := strings.TrimLeft(strings.TrimSpace(key), "/")
	if trimmed != "" {
		path += "/" + trimmed
	}
	u.Path = path
	return &u
}
