package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"speechsync/internal/logging"
	"speechsync/internal/services"
)

const (
	defaultSpeakPath     = "/api/tts/speak"
	defaultMinAudioBytes = 1000
	defaultHTTPTimeout   = 60 * time.Second
	maxErrorBodyBytes    = 64 << 10

	// FallbackMessage is shown when the service gives no usable reason.
	FallbackMessage = "Playback failed"
)

// ErrUndersizedPayload marks responses too small to be audio.
var ErrUndersizedPayload = errors.New("tts response too small to be audio")

// Config captures the settings required to reach the narration service.
type Config struct {
	BaseURL        string
	SpeakPath      string
	APIKey         string
	MinAudioBytes  int
	TimeoutSeconds int
}

// Client posts narration requests to the service.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
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

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "tts")
	}
}

// NewClient constructs a narration client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			SpeakPath:      strings.TrimSpace(cfg.SpeakPath),
			APIKey:         strings.TrimSpace(cfg.APIKey),
			MinAudioBytes:  cfg.MinAudioBytes,
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.NewComponentLogger(nil, "tts"),
	}
	if client.cfg.SpeakPath == "" {
		client.cfg.SpeakPath = defaultSpeakPath
	}
	if !strings.HasPrefix(client.cfg.SpeakPath, "/") {
		client.cfg.SpeakPath = "/" + client.cfg.SpeakPath
	}
	if client.cfg.MinAudioBytes <= 0 {
		client.cfg.MinAudioBytes = defaultMinAudioBytes
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Endpoint returns the full speak URL.
func (c *Client) Endpoint() string {
	return c.cfg.BaseURL + c.cfg.SpeakPath
}

type speakRequest struct {
	Text  string `json:"text"`
	Title string `json:"title"`
}

type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (p errorPayload) text() string {
	if msg := strings.TrimSpace(p.Error); msg != "" {
		return msg
	}
	return strings.TrimSpace(p.Message)
}

// StatusError reports a non-2xx response from the narration service.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d", e.StatusCode)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

// PayloadError reports an undersized response, carrying any server message
// found in it.
type PayloadError struct {
	Size    int
	Message string
}

func (e *PayloadError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s (%d bytes)", ErrUndersizedPayload, e.Size)
	}
	return fmt.Sprintf("%s (%d bytes): %s", ErrUndersizedPayload, e.Size, e.Message)
}

func (e *PayloadError) Unwrap() error { return ErrUndersizedPayload }

// Synthesize requests narration audio for text and returns the payload bytes.
func (c *Client) Synthesize(ctx context.Context, text, title string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, services.Wrap(services.ErrValidation, "tts", "speak", "text required", nil)
	}
	if c.cfg.BaseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "tts", "speak", "base url required", nil)
	}

	body, err := json.Marshal(speakRequest{Text: text, Title: title})
	if err != nil {
		return nil, fmt.Errorf("tts speak: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("tts speak: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/*, application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, services.Wrap(services.ErrTimeout, "tts", "speak", "request timed out", err)
		}
		return nil, services.Wrap(services.ErrTransient, "tts", "speak", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		statusErr := &StatusError{StatusCode: resp.StatusCode, Message: parseErrorMessage(raw)}
		c.logger.Debug("tts request rejected",
			logging.Int("status", resp.StatusCode),
			logging.String("message", statusErr.Message),
		)
		marker := services.ErrExternalTool
		if resp.StatusCode == http.StatusNotFound {
			marker = services.ErrNotFound
		}
		return nil, services.Wrap(marker, "tts", "speak", "", statusErr)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "tts", "speak", "read response", err)
	}
	if len(audio) < c.cfg.MinAudioBytes {
		payloadErr := &PayloadError{Size: len(audio), Message: parseErrorMessage(audio)}
		return nil, services.Wrap(services.ErrExternalTool, "tts", "speak", "", payloadErr)
	}

	c.logger.Debug("tts audio received",
		logging.Int("bytes", len(audio)),
		logging.String("content_type", resp.Header.Get("Content-Type")),
		logging.Duration("elapsed", time.Since(started)),
	)
	return audio, nil
}

func parseErrorMessage(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ""
	}
	var payload errorPayload
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return ""
	}
	return payload.text()
}

// UserMessage returns a reader-facing message for a synthesis failure.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return statusErr.Message
	}
	var payloadErr *PayloadError
	if errors.As(err, &payloadErr) && payloadErr.Message != "" {
		return payloadErr.Message
	}
	return FallbackMessage
}
