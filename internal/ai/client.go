package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lingosub/internal/config"
)

const (
	defaultHTTPTimeout = 300 * time.Second
	apiKeyHeader       = "X-API-Key"
	maxErrorBodyBytes  = 4096
)

// ServiceError is a non-success response from the AI service. Status carries
// the HTTP status code so callers can classify failures.
type ServiceError struct {
	Status  int
	Op      string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("ai service %s failed (%d): %s", e.Op, e.Status, e.Message)
}

// ClientConfig describes the HTTP client configuration.
type ClientConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// Client implements Gateway over the AI service's REST API.
type Client struct {
	baseURL *url.URL
	apiKey  string
	http    *http.Client
}

// NewClient creates a Client from the supplied configuration.
func NewClient(cfg ClientConfig) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, errors.New("ai: base url is required")
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("ai: parse base url: %w", err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		http:    httpClient,
	}, nil
}

// NewClientFromConfig builds a Client from application configuration.
func NewClientFromConfig(cfg *config.Config) (*Client, error) {
	timeout := time.Duration(cfg.AIService.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return NewClient(ClientConfig{
		BaseURL:    cfg.AIService.BaseURL,
		APIKey:     cfg.AIService.APIKey,
		HTTPClient: &http.Client{Timeout: timeout},
	})
}

// Transcribe sends media through speech recognition.
func (c *Client) Transcribe(ctx context.Context, mediaPath, lang string) (TranscriptionResult, error) {
	var result TranscriptionResult
	payload := map[string]any{"file_path": mediaPath, "language": lang}
	if err := c.post(ctx, "transcribe", payload, &result); err != nil {
		return TranscriptionResult{}, err
	}
	return result, nil
}

// AnalyzeBatch tokenizes and tags a batch of texts in one call.
func (c *Client) AnalyzeBatch(ctx context.Context, texts []string, lang string) (AnalysisResult, error) {
	var result AnalysisResult
	payload := map[string]any{"texts": texts, "language": lang}
	if err := c.post(ctx, "filter", payload, &result); err != nil {
		return AnalysisResult{}, err
	}
	return result, nil
}

// Translate translates a batch of texts; translations align by index.
func (c *Client) Translate(ctx context.Context, texts []string, sourceLang, targetLang string) (TranslationResult, error) {
	var result TranslationResult
	payload := map[string]any{"texts": texts, "source_lang": sourceLang, "target_lang": targetLang}
	if err := c.post(ctx, "translate", payload, &result); err != nil {
		return TranslationResult{}, err
	}
	return result, nil
}

// GenerateThumbnail extracts a poster frame from the media file.
func (c *Client) GenerateThumbnail(ctx context.Context, mediaPath string) (ThumbnailResult, error) {
	var result ThumbnailResult
	payload := map[string]any{"file_path": mediaPath}
	if err := c.post(ctx, "generate_thumbnail", payload, &result); err != nil {
		return ThumbnailResult{}, err
	}
	return result, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload any, out any) error {
	if c == nil {
		return errors.New("ai: client is nil")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ai: marshal %s request: %w", endpoint, err)
	}

	target := c.baseURL.JoinPath(endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ai: build %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ai: %s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		message := strings.TrimSpace(string(detail))
		if message == "" {
			message = resp.Status
		}
		return &ServiceError{Status: resp.StatusCode, Op: endpoint, Message: message}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ai: decode %s response: %w", endpoint, err)
	}
	return nil
}
