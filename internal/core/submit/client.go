// Package submit posts completed sign-up forms to the remote endpoint.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single submission when the caller sets none.
const DefaultTimeout = 10 * time.Second

// RequestIDHeader carries a per-request id so the endpoint's logs can be
// matched with ours. chi's RequestID middleware reads the same header.
const RequestIDHeader = "X-Request-Id"

// ErrIncompletePayload is returned when a payload is missing any value.
var ErrIncompletePayload = errors.New("incomplete payload")

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("submission rejected: status %d", e.StatusCode)
}

// Response is the decoded JSON body returned by the endpoint. Any JSON value
// is accepted. It is logged and otherwise only consulted for an assigned id.
type Response struct {
	Body any
}

// ID returns the id the endpoint assigned, when the body is an object that
// carries one.
func (r Response) ID() (any, bool) {
	obj, ok := r.Body.(map[string]any)
	if !ok {
		return nil, false
	}
	id, ok := obj["id"]
	return id, ok
}

// Submitter hands a payload to the submission endpoint.
type Submitter interface {
	Submit(ctx context.Context, p Payload) (Response, error)
}

// Client posts payloads as JSON over HTTP.
type Client struct {
	endpoint string
	http     *http.Client
	log      zerolog.Logger
}

var _ Submitter = (*Client)(nil)

// NewClient creates a client for endpoint. A non-positive timeout uses
// DefaultTimeout.
func NewClient(endpoint string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
}

// Endpoint returns the URL payloads are posted to.
func (c *Client) Endpoint() string { return c.endpoint }

// Submit posts p and decodes the JSON response.
func (c *Client) Submit(ctx context.Context, p Payload) (Response, error) {
	if err := p.validate(); err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrIncompletePayload, err)
	}

	body, err := json.Marshal(p)
	if err != nil {
		return Response{}, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	c.log.Debug().
		Ctx(ctx).
		Str("request_id", requestID).
		Str("endpoint", c.endpoint).
		Interface("payload", p.Redacted()).
		Msg("submitting form")

	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("post form: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Debug().Err(err).Msg("close submission response body")
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Response{}, &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out Response
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &out.Body); err != nil {
			return Response{}, fmt.Errorf("decode response: %w", err)
		}
	}

	c.log.Info().
		Ctx(ctx).
		Str("request_id", requestID).
		Str("endpoint", c.endpoint).
		Int("status", resp.StatusCode).
		Interface("response", redactBody(out.Body)).
		Msg("form submitted")

	return out, nil
}

// redactBody masks password keys echoed back by the endpoint. Bodies that are
// not objects are returned as is.
func redactBody(body any) any {
	obj, ok := body.(map[string]any)
	if !ok {
		return body
	}
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		switch k {
		case "password", "confirmedPassword":
			out[k] = "[redacted]"
		default:
			out[k] = v
		}
	}
	return out
}
