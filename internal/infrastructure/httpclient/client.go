package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/PinkD/telegram-bili-feed-helper/config"
	"github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed/deps"
	"github.com/rs/zerolog"
)

type Client struct {
	httpClient *http.Client
	userAgent  string
	logger     zerolog.Logger
}

// NewClient creates the upstream HTTP client. Redirects are followed and no
// request timeout is set, so callers bound requests through the context.
func NewClient(cfg *config.APIConfig, logger zerolog.Logger) deps.HTTPClient {
	transport := &http.Transport{
		ForceAttemptHTTP2: true,
	}
	if cfg.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		httpClient: &http.Client{Transport: transport},
		userAgent:  cfg.UserAgent,
		logger:     logger.With().Str("component", "httpclient").Logger(),
	}
}

func (c *Client) Get(ctx context.Context, rawURL string, params map[string]string) (*deps.HTTPResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if len(params) > 0 {
		query := url.Values{}
		for key, value := range params {
			query.Set(key, value)
		}
		req.URL.RawQuery = query.Encode()
	}

	return c.do(req)
}

func (c *Client) PostForm(ctx context.Context, rawURL string, form map[string]string) (*deps.HTTPResponse, error) {
	values := url.Values{}
	for key, value := range form {
		values.Set(key, value)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

func (c *Client) PostFile(ctx context.Context, rawURL, field, filename string, data []byte) (*deps.HTTPResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req)
}

func (c *Client) do(req *http.Request) (*deps.HTTPResponse, error) {
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug().
		Str("url", resp.Request.URL.String()).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Msg("Fetched")

	return &deps.HTTPResponse{
		StatusCode: resp.StatusCode,
		URL:        resp.Request.URL.String(),
		Body:       body,
	}, nil
}
