package deps

import (
	"context"
	"encoding/json"
	"time"

	"github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed/entities"
)

// HTTPResponse is one fetched response with redirects already followed.
type HTTPResponse struct {
	StatusCode int
	URL        string
	Body       []byte
}

// JSON decodes the response body into v.
func (r *HTTPResponse) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// HTTPClient defines the interface for upstream HTTP access
type HTTPClient interface {
	// Get fetches url with the given query parameters and returns the
	// final response after redirects
	Get(ctx context.Context, url string, params map[string]string) (*HTTPResponse, error)

	// PostForm submits form fields as an urlencoded body
	PostForm(ctx context.Context, url string, form map[string]string) (*HTTPResponse, error)

	// PostFile uploads data as a multipart file field
	PostFile(ctx context.Context, url, field, filename string, data []byte) (*HTTPResponse, error)
}

// CacheStore defines the interface for resolved payload caching
type CacheStore interface {
	// LookupDynamic retrieves a fresh dynamic row by dynamic id, or by
	// content id when byRID is set
	LookupDynamic(ctx context.Context, id int64, byRID bool, ttl time.Duration) (*entities.DynamicCache, error)

	// UpsertDynamic stores a dynamic payload under both ids, checking
	// for the row to refresh by the same key the lookup used
	UpsertDynamic(ctx context.Context, linkID int64, byRID bool, dynamicID, rid int64, content []byte) error

	// LookupAudio retrieves a fresh audio row
	LookupAudio(ctx context.Context, audioID int64, ttl time.Duration) (*entities.AudioCache, error)

	// UpsertAudio stores an audio payload
	UpsertAudio(ctx context.Context, audioID int64, content []byte) error

	// LookupLive retrieves a fresh live row
	LookupLive(ctx context.Context, roomID int64, ttl time.Duration) (*entities.LiveCache, error)

	// UpsertLive stores a live payload
	UpsertLive(ctx context.Context, roomID int64, content []byte) error

	// LookupBangumi retrieves a fresh season row matching either the
	// episode id or the season id, zero ids excluded from the match
	LookupBangumi(ctx context.Context, epid, ssid int64, ttl time.Duration) (*entities.BangumiCache, error)

	// UpsertBangumi stores a season payload under the resolved ids,
	// checking for the row to refresh by the ids the link carried
	UpsertBangumi(ctx context.Context, linkEPID, linkSSID, epid, ssid int64, content []byte) error

	// LookupVideo retrieves a fresh video row matching either id form,
	// zero ids excluded from the match
	LookupVideo(ctx context.Context, aid int64, bvid string, ttl time.Duration) (*entities.VideoCache, error)

	// UpsertVideo stores a video payload under the resolved ids,
	// checking for the row to refresh by the ids the link carried
	UpsertVideo(ctx context.Context, linkAID int64, linkBVID string, aid int64, bvid string, content []byte) error

	// LookupRead retrieves a fresh article row
	LookupRead(ctx context.Context, readID int64, ttl time.Duration) (*entities.ReadCache, error)

	// UpsertRead stores the republished page URL for an article
	UpsertRead(ctx context.Context, readID int64, graphURL string) error

	// LookupReply retrieves a fresh comment row
	LookupReply(ctx context.Context, oid int64, replyType int, ttl time.Duration) (*entities.ReplyCache, error)

	// UpsertReply stores a comment payload
	UpsertReply(ctx context.Context, oid int64, replyType int, content []byte) error

	// Counts reports row counts per cache kind
	Counts(ctx context.Context) ([]entities.CacheCount, error)

	// DeleteKindBefore removes rows of one kind created before cutoff
	DeleteKindBefore(ctx context.Context, kind string, cutoff time.Time) (int64, error)
}

// PagePublisher defines the interface for article republishing
type PagePublisher interface {
	// Publish creates a page from HTML content and returns its URL
	Publish(ctx context.Context, title, htmlContent, authorName, authorURL string) (string, error)

	// UploadImage rehosts one image and returns its new URL
	UploadImage(ctx context.Context, data []byte) (string, error)
}

// ImageCompressor defines the interface for shrinking oversized images
type ImageCompressor interface {
	// Compress re-encodes data below the publisher's size limit
	Compress(data []byte) ([]byte, error)
}
