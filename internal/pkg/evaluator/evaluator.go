package evaluator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable is returned when the remote evaluator cannot produce feedback
var ErrUnavailable = errors.New("evaluator unavailable")

// Evaluator turns a candidate learning outcome and the course description into feedback text
type Evaluator interface {
	Name() string
	Evaluate(ctx context.Context, text, description string) (string, error)
}

// HTTP calls a remote evaluation service with {"inputs", "description"} and
// reads {"result"} back.
type HTTP struct {
	url    string
	client *http.Client
}

// NewHTTP creates a remote evaluator
func NewHTTP(url string, timeout time.Duration) *HTTP {
	return &HTTP{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Name identifies the evaluator in logs and metrics
func (e *HTTP) Name() string { return "http" }

type evaluateRequest struct {
	Inputs      string `json:"inputs"`
	Description string `json:"description"`
}

type evaluateResponse struct {
	Result string `json:"result"`
}

// Evaluate posts the text to the remote service
func (e *HTTP) Evaluate(ctx context.Context, text, description string) (string, error) {
	body, err := json.Marshal(evaluateRequest{Inputs: text, Description: description})
	if err != nil {
		return "", fmt.Errorf("encode evaluation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build evaluation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out evaluateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return out.Result, nil
}

// Fallback tries primary and answers from secondary when primary is unavailable
type Fallback struct {
	primary   Evaluator
	secondary Evaluator
}

// WithFallback chains two evaluators
func WithFallback(primary, secondary Evaluator) *Fallback {
	return &Fallback{primary: primary, secondary: secondary}
}

// Name identifies the evaluator in logs and metrics
func (f *Fallback) Name() string {
	return f.primary.Name() + "+" + f.secondary.Name()
}

// Evaluate asks primary first
func (f *Fallback) Evaluate(ctx context.Context, text, description string) (string, error) {
	result, err := f.primary.Evaluate(ctx, text, description)
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, ErrUnavailable) {
		return "", err
	}
	return f.secondary.Evaluate(ctx, text, description)
}
