// Package planclient submits finished plans to the external plan-creation
// service over HTTP.
package planclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/goalplan/internal/contract"
)

const (
	submitPath = "/plans"
	healthPath = "/healthz"

	// IdempotencyHeader carries the submission digest.
	IdempotencyHeader = "Idempotency-Key"

	maxErrorBody = 4 << 10
)

// Client talks to the plan service. It satisfies dedupe.Submitter.
type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewClient creates a Client for cfg.Endpoint.
func NewClient(cfg Config, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// Submit posts sub to the plan service, retrying connection failures, 429
// and 5xx responses up to MaxRetries times. The same key is sent on every
// attempt so the service can drop duplicates.
func (c *Client) Submit(ctx context.Context, key string, sub contract.Submission) (*contract.PlanResult, error) {
	start := time.Now()

	data, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("marshaling submission: %w", err)
	}

	var (
		lastErr  error
		attempts int
	)
	for attempts < 1+c.cfg.MaxRetries {
		attempts++
		res, err := c.doSubmit(ctx, key, data)
		if err == nil {
			c.observer.OnCallComplete(CallEvent{
				Endpoint:   c.cfg.Endpoint,
				Key:        key,
				Attempts:   attempts,
				LatencyMs:  time.Since(start).Milliseconds(),
				StatusCode: http.StatusOK,
				Success:    true,
			})
			return res, nil
		}
		lastErr = err

		if ctx.Err() != nil || !retryable(err) {
			break
		}
	}

	err = c.classify(ctx, lastErr, attempts)
	ev := CallEvent{
		Endpoint:  c.cfg.Endpoint,
		Key:       key,
		Attempts:  attempts,
		LatencyMs: time.Since(start).Milliseconds(),
		ErrorCode: errorCode(err),
	}
	var se *StatusError
	if errors.As(err, &se) {
		ev.StatusCode = se.StatusCode
	}
	c.observer.OnCallComplete(ev)
	return nil, err
}

func (c *Client) doSubmit(ctx context.Context, key string, data []byte) (*contract.PlanResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
	defer cancel()

	url := strings.TrimRight(c.cfg.Endpoint, "/") + submitPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out contract.PlanResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if out.GoalID == "" {
		return nil, fmt.Errorf("%w: missing goal_id", ErrInvalidResponse)
	}
	return &out, nil
}

// Available checks whether the plan service answers its health endpoint.
func (c *Client) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	url := strings.TrimRight(c.cfg.Endpoint, "/") + healthPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *Client) classify(ctx context.Context, err error, attempts int) error {
	switch {
	case ctx.Err() != nil:
		return fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
	case isConnectionError(err):
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	case attempts > 1:
		return fmt.Errorf("%w: %w", ErrRetryExhausted, err)
	default:
		return err
	}
}

func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	if errors.Is(err, ErrInvalidResponse) {
		return false
	}
	return true
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidResponse):
		return "INVALID_RESPONSE"
	case errors.As(err, &se):
		return fmt.Sprintf("HTTP_%d", se.StatusCode)
	default:
		return "UNKNOWN"
	}
}
