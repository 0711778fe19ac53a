package parser

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/PinkD/telegram-bili-feed-helper/config"
	"github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed/deps"
	"github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed/entities"
)

// httpCall records one Get invocation.
type httpCall struct {
	url    string
	params map[string]string
}

// mockHTTPClient is a mock implementation of deps.HTTPClient
type mockHTTPClient struct {
	mu           sync.Mutex
	getCalls     []httpCall
	getFunc      func(ctx context.Context, url string, params map[string]string) (*deps.HTTPResponse, error)
	postFormFunc func(ctx context.Context, url string, form map[string]string) (*deps.HTTPResponse, error)
	postFileFunc func(ctx context.Context, url, field, filename string, data []byte) (*deps.HTTPResponse, error)
}

func (m *mockHTTPClient) Get(ctx context.Context, url string, params map[string]string) (*deps.HTTPResponse, error) {
	m.mu.Lock()
	m.getCalls = append(m.getCalls, httpCall{url: url, params: params})
	m.mu.Unlock()

	if m.getFunc != nil {
		return m.getFunc(ctx, url, params)
	}
	return &deps.HTTPResponse{StatusCode: 200, URL: url}, nil
}

func (m *mockHTTPClient) PostForm(ctx context.Context, url string, form map[string]string) (*deps.HTTPResponse, error) {
	if m.postFormFunc != nil {
		return m.postFormFunc(ctx, url, form)
	}
	return &deps.HTTPResponse{StatusCode: 200, URL: url}, nil
}

func (m *mockHTTPClient) PostFile(ctx context.Context, url, field, filename string, data []byte) (*deps.HTTPResponse, error) {
	if m.postFileFunc != nil {
		return m.postFileFunc(ctx, url, field, filename, data)
	}
	return &deps.HTTPResponse{StatusCode: 200, URL: url}, nil
}

// calls returns a snapshot of the recorded Get invocations.
func (m *mockHTTPClient) calls() []httpCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]httpCall(nil), m.getCalls...)
}

// mockCacheStore is a mock implementation of deps.CacheStore. Lookups miss
// and upserts succeed unless a func field overrides them.
type mockCacheStore struct {
	lookupDynamicFunc    func(ctx context.Context, id int64, byRID bool, ttl time.Duration) (*entities.DynamicCache, error)
	upsertDynamicFunc    func(ctx context.Context, linkID int64, byRID bool, dynamicID, rid int64, content []byte) error
	lookupAudioFunc      func(ctx context.Context, audioID int64, ttl time.Duration) (*entities.AudioCache, error)
	upsertAudioFunc      func(ctx context.Context, audioID int64, content []byte) error
	lookupLiveFunc       func(ctx context.Context, roomID int64, ttl time.Duration) (*entities.LiveCache, error)
	upsertLiveFunc       func(ctx context.Context, roomID int64, content []byte) error
	lookupBangumiFunc    func(ctx context.Context, epid, ssid int64, ttl time.Duration) (*entities.BangumiCache, error)
	upsertBangumiFunc    func(ctx context.Context, linkEPID, linkSSID, epid, ssid int64, content []byte) error
	lookupVideoFunc      func(ctx context.Context, aid int64, bvid string, ttl time.Duration) (*entities.VideoCache, error)
	upsertVideoFunc      func(ctx context.Context, linkAID int64, linkBVID string, aid int64, bvid string, content []byte) error
	lookupReadFunc       func(ctx context.Context, readID int64, ttl time.Duration) (*entities.ReadCache, error)
	upsertReadFunc       func(ctx context.Context, readID int64, graphURL string) error
	lookupReplyFunc      func(ctx context.Context, oid int64, replyType int, ttl time.Duration) (*entities.ReplyCache, error)
	upsertReplyFunc      func(ctx context.Context, oid int64, replyType int, content []byte) error
	countsFunc           func(ctx context.Context) ([]entities.CacheCount, error)
	deleteKindBeforeFunc func(ctx context.Context, kind string, cutoff time.Time) (int64, error)
}

func (m *mockCacheStore) LookupDynamic(ctx context.Context, id int64, byRID bool, ttl time.Duration) (*entities.DynamicCache, error) {
	if m.lookupDynamicFunc != nil {
		return m.lookupDynamicFunc(ctx, id, byRID, ttl)
	}
	return nil, nil
}

func (m *mockCacheStore) UpsertDynamic(ctx context.Context, linkID int64, byRID bool, dynamicID, rid int64, content []byte) error {
	if m.upsertDynamicFunc != nil {
		return m.upsertDynamicFunc(ctx, linkID, byRID, dynamicID, rid, content)
	}
	return nil
}

func (m *mockCacheStore) LookupAudio(ctx context.Context, audioID int64, ttl time.Duration) (*entities.AudioCache, error) {
	if m.lookupAudioFunc != nil {
		return m.lookupAudioFunc(ctx, audioID, ttl)
	}
	return nil, nil
}

func (m *mockCacheStore) UpsertAudio(ctx context.Context, audioID int64, content []byte) error {
	if m.upsertAudioFunc != nil {
		return m.upsertAudioFunc(ctx, audioID, content)
	}
	return nil
}

func (m *mockCacheStore) LookupLive(ctx context.Context, roomID int64, ttl time.Duration) (*entities.LiveCache, error) {
	if m.lookupLiveFunc != nil {
		return m.lookupLiveFunc(ctx, roomID, ttl)
	}
	return nil, nil
}

func (m *mockCacheStore) UpsertLive(ctx context.Context, roomID int64, content []byte) error {
	if m.upsertLiveFunc != nil {
		return m.upsertLiveFunc(ctx, roomID, content)
	}
	return nil
}

func (m *mockCacheStore) LookupBangumi(ctx context.Context, epid, ssid int64, ttl time.Duration) (*entities.BangumiCache, error) {
	if m.lookupBangumiFunc != nil {
		return m.lookupBangumiFunc(ctx, epid, ssid, ttl)
	}
	return nil, nil
}

func (m *mockCacheStore) UpsertBangumi(ctx context.Context, linkEPID, linkSSID, epid, ssid int64, content []byte) error {
	if m.upsertBangumiFunc != nil {
		return m.upsertBangumiFunc(ctx, linkEPID, linkSSID, epid, ssid, content)
	}
	return nil
}

func (m *mockCacheStore) LookupVideo(ctx context.Context, aid int64, bvid string, ttl time.Duration) (*entities.VideoCache, error) {
	if m.lookupVideoFunc != nil {
		return m.lookupVideoFunc(ctx, aid, bvid, ttl)
	}
	return nil, nil
}

func (m *mockCacheStore) UpsertVideo(ctx context.Context, linkAID int64, linkBVID string, aid int64, bvid string, content []byte) error {
	if m.upsertVideoFunc != nil {
		return m.upsertVideoFunc(ctx, linkAID, linkBVID, aid, bvid, content)
	}
	return nil
}

func (m *mockCacheStore) LookupRead(ctx context.Context, readID int64, ttl time.Duration) (*entities.ReadCache, error) {
	if m.lookupReadFunc != nil {
		return m.lookupReadFunc(ctx, readID, ttl)
	}
	return nil, nil
}

func (m *mockCacheStore) UpsertRead(ctx context.Context, readID int64, graphURL string) error {
	if m.upsertReadFunc != nil {
		return m.upsertReadFunc(ctx, readID, graphURL)
	}
	return nil
}

func (m *mockCacheStore) LookupReply(ctx context.Context, oid int64, replyType int, ttl time.Duration) (*entities.ReplyCache, error) {
	if m.lookupReplyFunc != nil {
		return m.lookupReplyFunc(ctx, oid, replyType, ttl)
	}
	return nil, nil
}

func (m *mockCacheStore) UpsertReply(ctx context.Context, oid int64, replyType int, content []byte) error {
	if m.upsertReplyFunc != nil {
		return m.upsertReplyFunc(ctx, oid, replyType, content)
	}
	return nil
}

func (m *mockCacheStore) Counts(ctx context.Context) ([]entities.CacheCount, error) {
	if m.countsFunc != nil {
		return m.countsFunc(ctx)
	}
	return nil, nil
}

func (m *mockCacheStore) DeleteKindBefore(ctx context.Context, kind string, cutoff time.Time) (int64, error) {
	if m.deleteKindBeforeFunc != nil {
		return m.deleteKindBeforeFunc(ctx, kind, cutoff)
	}
	return 0, nil
}

// publishCall records one Publish invocation.
type publishCall struct {
	title      string
	html       string
	authorName string
	authorURL  string
}

// mockPublisher is a mock implementation of deps.PagePublisher
type mockPublisher struct {
	mu              sync.Mutex
	publishCalls    []publishCall
	uploadCalls     [][]byte
	publishFunc     func(ctx context.Context, title, htmlContent, authorName, authorURL string) (string, error)
	uploadImageFunc func(ctx context.Context, data []byte) (string, error)
}

func (m *mockPublisher) Publish(ctx context.Context, title, htmlContent, authorName, authorURL string) (string, error) {
	m.mu.Lock()
	m.publishCalls = append(m.publishCalls, publishCall{
		title:      title,
		html:       htmlContent,
		authorName: authorName,
		authorURL:  authorURL,
	})
	m.mu.Unlock()

	if m.publishFunc != nil {
		return m.publishFunc(ctx, title, htmlContent, authorName, authorURL)
	}
	return "https://telegra.ph/test-page", nil
}

func (m *mockPublisher) UploadImage(ctx context.Context, data []byte) (string, error) {
	m.mu.Lock()
	m.uploadCalls = append(m.uploadCalls, data)
	m.mu.Unlock()

	if m.uploadImageFunc != nil {
		return m.uploadImageFunc(ctx, data)
	}
	return "https://telegra.ph/file/test.jpg", nil
}

// mockCompressor is a mock implementation of deps.ImageCompressor
type mockCompressor struct {
	mu           sync.Mutex
	compressed   [][]byte
	compressFunc func(data []byte) ([]byte, error)
}

func (m *mockCompressor) Compress(data []byte) ([]byte, error) {
	m.mu.Lock()
	m.compressed = append(m.compressed, data)
	m.mu.Unlock()

	if m.compressFunc != nil {
		return m.compressFunc(data)
	}
	return data, nil
}

// newTestParser wires a parser against the given mocks with every cache
// window set to one hour.
func newTestParser(client deps.HTTPClient, store deps.CacheStore, publisher deps.PagePublisher, compressor deps.ImageCompressor) *Parser {
	api := &config.APIConfig{
		BaseURL:   "https://api.test",
		UserAgent: "test-agent",
	}
	ttl := &config.CacheConfig{
		DynamicTTL: time.Hour,
		AudioTTL:   time.Hour,
		LiveTTL:    time.Hour,
		BangumiTTL: time.Hour,
		VideoTTL:   time.Hour,
		ReadTTL:    time.Hour,
		ReplyTTL:   time.Hour,
	}
	return NewParser(client, store, publisher, compressor, api, ttl, zerolog.Nop())
}
