package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/posterman/orderbot/pkg/domain"
)

// DefaultTimeout bounds a remote round trip when the caller sets no deadline.
const DefaultTimeout = 10 * time.Second

// maxResponseSize caps how much of a remote body is read.
const maxResponseSize = 1 << 20

// ChatRequest is the body exchanged with dialogue services.
type ChatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
}

// ChatResponse wraps a reply. Response is either a string or a {text, options} object.
type ChatResponse struct {
	Response any `json:"response"`
}

// Client implements ports.RemoteDialogue against an HTTP chat endpoint.
type Client struct {
	URL  string
	HTTP *http.Client
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying *http.Client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.HTTP = c
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(cl *Client) {
		if d > 0 {
			cl.HTTP.Timeout = d
		}
	}
}

// NewClient creates a client posting to url.
func NewClient(url string, opts ...ClientOption) *Client {
	c := &Client{
		URL:  url,
		HTTP: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send posts the utterance and normalizes the answer into a domain.Reply.
// Transport failures and non-2xx statuses wrap domain.ErrRemoteUnavailable;
// bodies that break the reply contract wrap domain.ErrMalformedPayload.
func (c *Client) Send(ctx context.Context, sessionID, message string) (domain.Reply, error) {
	body, err := json.Marshal(ChatRequest{Message: message, UserID: sessionID})
	if err != nil {
		return domain.Reply{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return domain.Reply{}, fmt.Errorf("%w: %w", domain.ErrRemoteUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return domain.Reply{}, fmt.Errorf("%w: %w", domain.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return domain.Reply{}, fmt.Errorf("%w: status %d", domain.ErrRemoteUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return domain.Reply{}, fmt.Errorf("%w: %w", domain.ErrRemoteUnavailable, err)
	}

	var payload ChatResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		return domain.Reply{}, fmt.Errorf("%w: %w", domain.ErrMalformedPayload, err)
	}
	return NormalizeResponse(payload.Response)
}

// NormalizeResponse converts the "response" field into a Reply.
// A bare string is a reply without options.
func NormalizeResponse(raw any) (domain.Reply, error) {
	switch v := raw.(type) {
	case string:
		return domain.NewReply(v), nil

	case map[string]any:
		text, ok := v["text"].(string)
		if !ok {
			return domain.Reply{}, fmt.Errorf("%w: response object has no text", domain.ErrMalformedPayload)
		}
		var reply domain.Reply
		if err := mapstructure.Decode(v, &reply); err != nil {
			return domain.Reply{}, fmt.Errorf("%w: %w", domain.ErrMalformedPayload, err)
		}
		return domain.NewReply(text, reply.Options...), nil

	case nil:
		return domain.Reply{}, fmt.Errorf("%w: missing response", domain.ErrMalformedPayload)
	}
	return domain.Reply{}, fmt.Errorf("%w: unexpected response type %T", domain.ErrMalformedPayload, raw)
}
