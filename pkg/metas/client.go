// Package metas is a typed client for the upstream metas REST API.
package metas

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/unl-extension/metas/backend/internal/metrics"
	"github.com/unl-extension/metas/backend/internal/util"
	"github.com/unl-extension/metas/backend/pkg/logger"
)

const (
	// DefaultTimeout bounds a single request to the metas API.
	DefaultTimeout = 30 * time.Second

	// maxResponseSize caps the body read from the metas API (10MB).
	maxResponseSize = 10 * 1024 * 1024
)

// ErrNotOK matches every APIError produced from an envelope with ok=false.
var ErrNotOK = errors.New("metas: response not ok")

// APIError is returned when the metas API answers with a non-2xx status or an
// envelope flagged ok=false.
type APIError struct {
	Status  int
	Message string
	NotOK   bool
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("metas api: status %d: %s", e.Status, e.Message)
	}
	return "metas api: " + e.Message
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotOK && e.NotOK
}

// Temporary reports whether repeating the request may succeed.
func (e *APIError) Temporary() bool {
	return e.Status >= http.StatusInternalServerError || e.Status == http.StatusTooManyRequests
}

// Client talks to the metas API. A Client is safe for concurrent use; use
// WithToken to derive a client that authenticates as a given user.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	retries int
}

// NewClientParams contains configuration for creating a Client.
type NewClientParams struct {
	BaseURL    string
	Timeout    time.Duration
	Retries    int
	HTTPClient *http.Client
}

// NewClient creates a metas API client rooted at params.BaseURL.
func NewClient(params NewClientParams) *Client {
	httpClient := params.HTTPClient
	if httpClient == nil {
		timeout := params.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	retries := params.Retries
	if retries <= 0 {
		retries = 1
	}

	return &Client{
		baseURL: strings.TrimRight(params.BaseURL, "/"),
		http:    httpClient,
		retries: retries,
	}
}

// WithToken returns a copy of c that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// do performs one request and decodes the envelope's data into out.
func (c *Client) do(ctx context.Context, method, path, endpoint string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(method, endpoint, "error").Inc()
		return fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()
	metrics.UpstreamRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if len(raw) > maxResponseSize {
		return fmt.Errorf("response body too large: %d bytes (max %d)", len(raw), maxResponseSize)
	}

	logger.Debug("[Metas] Request completed", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		var env Envelope[json.RawMessage]
		if json.Unmarshal(raw, &env) == nil && env.Error != "" {
			msg = env.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	env := Envelope[json.RawMessage]{}
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("failed to decode response envelope: %w", err)
	}
	if !env.OK {
		msg := env.Error
		if msg == "" {
			msg = "respuesta inválida del servidor"
		}
		return &APIError{Message: msg, NotOK: true}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

// get runs a read request, repeating it on transport errors and temporary
// upstream failures up to the configured number of attempts.
func (c *Client) get(ctx context.Context, path, endpoint string, out any) error {
	_, err := util.RetryIfWithContext(ctx, c.retries, isTemporary, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.do(ctx, http.MethodGet, path, endpoint, nil, out)
	})
	return err
}

func isTemporary(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return true
}
