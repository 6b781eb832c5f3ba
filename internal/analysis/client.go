// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analysis

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

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/time/rate"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the analysis client.
type ClientError struct {
	Type    ErrorType
	Message string
	Status  int
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches client errors by category so sentinels work with errors.Is.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeStatus
	ErrTypeInvalidResponse
	ErrTypeEmptyNote
)

// String returns a short name for the error category.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeConnection:
		return "connection"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeStatus:
		return "status"
	case ErrTypeInvalidResponse:
		return "invalid_response"
	case ErrTypeEmptyNote:
		return "empty_note"
	default:
		return "unknown"
	}
}

// Sentinel errors for easy checking.
var (
	ErrConnection      = &ClientError{Type: ErrTypeConnection, Message: "unable to reach analysis service"}
	ErrTimeout         = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrStatus          = &ClientError{Type: ErrTypeStatus, Message: "analysis service returned an error"}
	ErrInvalidResponse = &ClientError{Type: ErrTypeInvalidResponse, Message: "invalid response from analysis service"}
	ErrEmptyNote       = &ClientError{Type: ErrTypeEmptyNote, Message: "note is empty"}
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// Analyzer produces a finished result, once, per request.
// The TUI and CLI depend on this interface so tests can substitute a fake.
type Analyzer interface {
	Analyze(ctx context.Context, note string) (*Result, error)
}

// ClientConfig holds configuration options for the analysis client.
type ClientConfig struct {
	// BaseURL is the API root; the client posts to BaseURL + "/analyze/".
	BaseURL string

	// Timeout bounds a single request (default: 30s).
	Timeout time.Duration

	// RatePerMinute caps submissions; zero or negative disables the limit.
	RatePerMinute int

	// Logger receives request diagnostics (default: no-op).
	Logger *zap.Logger
}

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://127.0.0.1:8000/api"

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:       DefaultBaseURL,
		Timeout:       30 * time.Second,
		RatePerMinute: 20,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the analysis service.
// It is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *zap.Logger
}

type analyzeRequest struct {
	Note string `json:"note"`
}

// NewClient creates a new analysis client. A nil config uses DefaultConfig.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if config.RatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RatePerMinute)), config.RatePerMinute)
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    limiter,
		log:        log.Named("analysis"),
	}
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// endpoint returns the analyze URL. Trailing slashes on the base are folded so
// "http://host/api/" and "http://host/api" both reach /api/analyze/.
func (c *Client) endpoint() string {
	return strings.TrimRight(c.config.BaseURL, "/") + "/analyze/"
}

// Analyze submits a note and decodes the structured reply.
// The note is trimmed and NFC-normalized before it is sent. There is no retry;
// a failure is returned to the caller as a *ClientError.
func (c *Client) Analyze(ctx context.Context, note string) (*Result, error) {
	note = norm.NFC.String(strings.TrimSpace(note))
	if note == "" {
		return nil, ErrEmptyNote
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &ClientError{Type: ErrTypeTimeout, Message: "rate limit wait aborted", Cause: err}
	}

	body, err := json.Marshal(analyzeRequest{Note: note})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("analyze request failed", zap.String("url", c.endpoint()), zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, &ClientError{Type: ErrTypeTimeout, Message: ErrTimeout.Message, Cause: err}
		}
		return nil, &ClientError{Type: ErrTypeConnection, Message: ErrConnection.Message, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		c.log.Warn("analyze returned error status", zap.Int("status", resp.StatusCode))
		return nil, &ClientError{
			Type:    ErrTypeStatus,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("API Error %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		}
	}

	var result Result
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: ErrInvalidResponse.Message, Cause: err}
	}

	c.log.Debug("analyze completed",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("diagnoses", len(result.PossibleDiagnoses)),
		zap.Bool("empty", result.IsEmpty()))

	return &result, nil
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
