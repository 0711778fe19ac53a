package telegraph

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/PinkD/telegram-bili-feed-helper/config"
	"github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed/deps"
	"github.com/rs/zerolog"
)

type Client struct {
	apiURL    string
	uploadURL string
	shortName string
	http      deps.HTTPClient
	logger    zerolog.Logger

	mu    sync.Mutex
	token string
}

type accountResponse struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error"`
	Result struct {
		AccessToken string `json:"access_token"`
	} `json:"result"`
}

type pageResponse struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error"`
	Result struct {
		URL string `json:"url"`
	} `json:"result"`
}

type uploadEntry struct {
	Src string `json:"src"`
}

type uploadError struct {
	Error string `json:"error"`
}

// NewClient creates the page publishing client. An account is registered
// lazily on the first publish and its token reused afterwards.
func NewClient(cfg *config.TelegraphConfig, http deps.HTTPClient, logger zerolog.Logger) deps.PagePublisher {
	return &Client{
		apiURL:    cfg.APIURL,
		uploadURL: cfg.UploadURL,
		shortName: cfg.ShortName,
		http:      http,
		logger:    logger.With().Str("component", "telegraph").Logger(),
	}
}

func (c *Client) Publish(ctx context.Context, title, htmlContent, authorName, authorURL string) (string, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return "", err
	}

	nodes, err := NodesFromHTML(htmlContent)
	if err != nil {
		return "", err
	}
	content, err := json.Marshal(nodes)
	if err != nil {
		return "", fmt.Errorf("failed to encode content: %w", err)
	}

	resp, err := c.http.PostForm(ctx, c.apiURL+"/createPage", map[string]string{
		"access_token": token,
		"title":        title,
		"author_name":  authorName,
		"author_url":   authorURL,
		"content":      string(content),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create page: %w", err)
	}

	var page pageResponse
	if err := resp.JSON(&page); err != nil {
		return "", fmt.Errorf("failed to decode page response: %w", err)
	}
	if !page.OK {
		return "", fmt.Errorf("page creation rejected: %s", page.Error)
	}

	c.logger.Debug().Str("url", page.Result.URL).Msg("Page published")
	return page.Result.URL, nil
}

func (c *Client) UploadImage(ctx context.Context, data []byte) (string, error) {
	resp, err := c.http.PostFile(ctx, c.uploadURL+"/upload", "upload-file", "upload", data)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	var entries []uploadEntry
	if err := resp.JSON(&entries); err == nil && len(entries) > 0 {
		return c.uploadURL + entries[0].Src, nil
	}

	var failure uploadError
	if err := resp.JSON(&failure); err == nil && failure.Error != "" {
		return "", fmt.Errorf("upload rejected: %s", failure.Error)
	}
	return "", fmt.Errorf("unexpected upload response: %s", resp.Body)
}

func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" {
		return c.token, nil
	}

	resp, err := c.http.PostForm(ctx, c.apiURL+"/createAccount", map[string]string{
		"short_name": c.shortName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create account: %w", err)
	}

	var account accountResponse
	if err := resp.JSON(&account); err != nil {
		return "", fmt.Errorf("failed to decode account response: %w", err)
	}
	if !account.OK {
		return "", fmt.Errorf("account creation rejected: %s", account.Error)
	}

	c.token = account.Result.AccessToken
	c.logger.Debug().Str("short_name", c.shortName).Msg("Account registered")
	return c.token, nil
}
