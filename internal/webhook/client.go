// Package webhook pushes merge variables to a remote display service.
// Outbound counterpart to the inbound BYOS endpoints: instead of a device
// polling us, we POST data to the vendor's webhook for cloud-connected
// plugins.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the production webhook endpoint.
	DefaultBaseURL = "https://usetrmnl.com/api/custom_plugins"

	// EnvPluginUUID names the environment variable FromEnv reads.
	EnvPluginUUID = "PAPERCAST_PLUGIN_UUID"

	// EnvBaseURL optionally overrides the webhook base URL in FromEnv.
	EnvBaseURL = "PAPERCAST_API_BASE"

	defaultTimeout = 10 * time.Second
)

// MergeStrategy controls how a push combines with data already stored on
// the display service.
type MergeStrategy string

const (
	// MergeReplace discards prior state; this is the server default when
	// no strategy is sent.
	MergeReplace MergeStrategy = "replace"

	// MergeDeep recursively merges objects key by key; arrays and scalars
	// are overwritten, not merged.
	MergeDeep MergeStrategy = "deep_merge"

	// MergeStream appends payload items to an existing array field; pair
	// with a stream limit to cap its length (oldest items drop first).
	MergeStream MergeStrategy = "stream"
)

// envelope is the fixed wire shape of a push.
type envelope struct {
	MergeVariables any           `json:"merge_variables"`
	MergeStrategy  MergeStrategy `json:"merge_strategy,omitempty"`
	StreamLimit    *int          `json:"stream_limit,omitempty"`
}

// Client pushes payloads to one plugin's webhook endpoint. Calls are
// independent and the client holds no mutable state, so a single Client is
// safe for concurrent use.
type Client struct {
	httpClient *http.Client
	pluginUUID string
	baseURL    string
}

// New builds a client for the given plugin UUID with a bounded-timeout
// HTTP client, so a wedged remote can never hang a caller indefinitely.
func New(pluginUUID string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		pluginUUID: pluginUUID,
		baseURL:    DefaultBaseURL,
	}
}

// FromEnv builds a client from the PAPERCAST_PLUGIN_UUID environment
// variable. PAPERCAST_API_BASE, when set, overrides the base URL.
func FromEnv() (*Client, error) {
	uuid := os.Getenv(EnvPluginUUID)
	if uuid == "" {
		return nil, fmt.Errorf("%s is not set", EnvPluginUUID)
	}
	c := New(uuid)
	if base := os.Getenv(EnvBaseURL); base != "" {
		c = c.WithBaseURL(base)
	}
	return c, nil
}

// WithBaseURL overrides the webhook base URL, mainly for tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// WithHTTPClient swaps the underlying HTTP client. A zero timeout is
// replaced with the default so pushes stay bounded.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	if httpClient.Timeout == 0 {
		httpClient.Timeout = defaultTimeout
	}
	c.httpClient = httpClient
	return c
}

// PluginUUID returns the plugin identity this client pushes to.
func (c *Client) PluginUUID() string { return c.pluginUUID }

// Push sends a payload with the server-default replace semantics.
func (c *Client) Push(ctx context.Context, payload any) error {
	return c.PushWithOptions(ctx, payload, "", nil)
}

// PushWithOptions sends a payload with an explicit merge strategy and, for
// stream merges, an optional item cap. A single POST is made; failures are
// surfaced once, never retried.
func (c *Client) PushWithOptions(ctx context.Context, payload any, strategy MergeStrategy, streamLimit *int) error {
	body, err := json.Marshal(envelope{
		MergeVariables: payload,
		MergeStrategy:  strategy,
		StreamLimit:    streamLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, c.pluginUUID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}

	log.Info().Str("plugin", c.pluginUUID).Msg("pushed data to webhook")
	return nil
}

// GetCurrent fetches the merge variables currently stored for this plugin,
// useful for debugging what the display is rendering.
func (c *Client) GetCurrent(ctx context.Context) (map[string]any, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, c.pluginUUID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode webhook response: %w", err)
	}
	return doc, nil
}
