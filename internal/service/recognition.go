package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/akeen90/nutrasafe-beta-sub001/internal/logger"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/types"
)

// Error classes returned by RecognitionClient. Use errors.Is to test for them.
var (
	ErrTimeout      = errors.New("recognition request timed out")
	ErrNotConnected = errors.New("recognition service unreachable")
	ErrServer       = errors.New("recognition service error")
	ErrClient       = errors.New("recognition request rejected")
	ErrDecode       = errors.New("invalid recognition response")
)

// RecognitionError wraps a classified failure with its cause.
type RecognitionError struct {
	Kind       error
	StatusCode int
	Err        error
}

func (e *RecognitionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *RecognitionError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// UserMessage maps a recognition error to text that can be shown to the user.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return "The request took too long. Please try again."
	case errors.Is(err, ErrNotConnected):
		return "Unable to reach the recognition service. Please check your connection and try again."
	case errors.Is(err, ErrServer):
		return "The recognition service is having trouble right now. Please try again later."
	case errors.Is(err, ErrClient):
		return "We couldn't process that photo. Please try a different image."
	case errors.Is(err, ErrDecode):
		return "We received an unexpected response. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}

// IsNetworkError reports whether err is a transport failure worth retrying.
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrNotConnected)
}

// RecognitionOptions tunes the client.
type RecognitionOptions struct {
	Timeout      time.Duration
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// DefaultRecognitionOptions returns production settings.
func DefaultRecognitionOptions() RecognitionOptions {
	return RecognitionOptions{
		Timeout:      30 * time.Second,
		MaxRetries:   2,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
	}
}

type recognizeRequest struct {
	Image string `json:"image"`
}

type recognizeResponse struct {
	Foods []types.RecognizedFood `json:"foods"`
}

// RecognitionClient calls the hosted recognizeFood endpoint.
type RecognitionClient struct {
	url    string
	opts   RecognitionOptions
	client *http.Client
	log    *logger.Logger
}

func NewRecognitionClient(url string, opts RecognitionOptions, log *logger.Logger) *RecognitionClient {
	return &RecognitionClient{
		url:  url,
		opts: opts,
		client: &http.Client{
			Timeout: opts.Timeout,
		},
		log: log,
	}
}

// Recognize sends one image and returns the candidate foods. Only network-class failures are
// retried, with exponential delay, up to MaxRetries extra attempts.
func (c *RecognitionClient) Recognize(ctx context.Context, imageBase64 string) ([]types.RecognizedFood, error) {
	payload, err := json.Marshal(recognizeRequest{Image: imageBase64})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.opts.InitialDelay
	exp.MaxInterval = c.opts.MaxDelay
	exp.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(c.opts.MaxRetries)), ctx)

	var foods []types.RecognizedFood
	attempt := 0
	op := func() error {
		attempt++
		out, err := c.recognizeAttempt(ctx, payload)
		if err != nil {
			if IsNetworkError(err) && ctx.Err() == nil {
				return err
			}
			return backoff.Permanent(err)
		}
		foods = out
		return nil
	}
	notify := func(err error, wait time.Duration) {
		c.log.Warn("[RecognitionClient] Attempt failed, retrying", "attempt", attempt, "wait", wait, "error", err)
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		c.log.Error("[RecognitionClient] Recognition failed", "attempts", attempt, "error", err)
		return nil, err
	}
	c.log.Debug("[RecognitionClient] Recognition succeeded", "attempts", attempt, "candidates", len(foods))
	return foods, nil
}

func (c *RecognitionClient) recognizeAttempt(ctx context.Context, payload []byte) ([]types.RecognizedFood, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, &RecognitionError{Kind: ErrClient, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, &RecognitionError{Kind: ErrServer, StatusCode: resp.StatusCode, Err: errors.New(truncate(string(body), 200))}
	case resp.StatusCode >= 400:
		return nil, &RecognitionError{Kind: ErrClient, StatusCode: resp.StatusCode, Err: errors.New(truncate(string(body), 200))}
	}

	var out recognizeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &RecognitionError{Kind: ErrDecode, StatusCode: resp.StatusCode, Err: err}
	}
	if out.Foods == nil {
		return nil, &RecognitionError{Kind: ErrDecode, StatusCode: resp.StatusCode, Err: errors.New("response has no foods field")}
	}
	return out.Foods, nil
}

func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &RecognitionError{Kind: ErrTimeout, Err: err}
	}
	return &RecognitionError{Kind: ErrNotConnected, Err: err}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
