package parser

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/PinkD/telegram-bili-feed-helper/config"
	"github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed/deps"
	"github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed/entities"
	feederrors "github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed/errors"
	"github.com/rs/zerolog"
)

// Parser resolves content links into feeds, one resolver per content kind.
type Parser struct {
	client     deps.HTTPClient
	cache      deps.CacheStore
	publisher  deps.PagePublisher
	compressor deps.ImageCompressor
	api        *config.APIConfig
	ttl        *config.CacheConfig
	logger     zerolog.Logger
}

// NewParser creates a new link parser
func NewParser(
	client deps.HTTPClient,
	cache deps.CacheStore,
	publisher deps.PagePublisher,
	compressor deps.ImageCompressor,
	api *config.APIConfig,
	ttl *config.CacheConfig,
	logger zerolog.Logger,
) *Parser {
	return &Parser{
		client:     client,
		cache:      cache,
		publisher:  publisher,
		compressor: compressor,
		api:        api,
		ttl:        ttl,
		logger:     logger.With().Str("component", "parser").Logger(),
	}
}

// Result is one slot of a batch resolution: the input URL plus either the
// resolved feed or the error that stopped it.
type Result struct {
	URL  string
	Feed entities.Feed
	Err  error
}

var (
	apiHostPattern     = regexp.MustCompile(`api\..*\.bilibili`)
	dynamicHostPattern = regexp.MustCompile(`[th]\.bilibili\.com`)
	liveHostPattern    = regexp.MustCompile(`live\.bilibili\.com`)
	audioPathPattern   = regexp.MustCompile(`bilibili\.com/audio`)
	readPathPattern    = regexp.MustCompile(`bilibili\.com/read`)
	videoPathPattern   = regexp.MustCompile(`bilibili\.com/(?:video|bangumi/play)`)
)

// Resolve resolves every URL concurrently and returns one result per input,
// in input order. A failing URL never affects the other slots.
func (p *Parser) Resolve(ctx context.Context, urls []string) []Result {
	results := make([]Result, len(urls))

	var wg sync.WaitGroup
	for i, url := range urls {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			feed, err := p.Dispatch(ctx, url)
			results[i] = Result{URL: url, Feed: feed, Err: err}
		}(i, url)
	}
	wg.Wait()

	for i, r := range results {
		if r.Err != nil {
			p.logger.Warn().
				Int("index", i).
				Str("url", r.URL).
				Err(r.Err).
				Msg("Resolution failed")
			continue
		}
		f := r.Feed
		p.logger.Debug().
			Int("index", i).
			Str("kind", string(f.Kind())).
			Str("url", f.URL()).
			Str("user", f.UserMarkdown()).
			Str("content", f.ContentMarkdown()).
			Str("extra", f.ExtraMarkdown()).
			Str("comment", f.CommentMarkdown()).
			Strs("media", f.Media().URLs).
			Str("media_type", string(f.Media().Type)).
			Str("media_thumb", f.Media().Thumb).
			Str("media_title", f.Media().Title).
			Strs("media_filenames", f.MediaFilenames()).
			Msg("Resolved")
	}
	return results
}

// Dispatch follows redirects to the canonical URL, classifies it, and runs
// the matching resolver. Scheme-less inputs are fetched over plain http.
func (p *Parser) Dispatch(ctx context.Context, rawURL string) (entities.Feed, error) {
	if !strings.HasPrefix(rawURL, "http:") && !strings.HasPrefix(rawURL, "https:") {
		rawURL = "http://" + rawURL
	}

	resp, err := p.client.Get(ctx, rawURL, nil)
	if err != nil {
		return nil, err
	}
	canonical := resp.URL
	p.logger.Debug().Str("url", canonical).Msg("Canonical URL")

	switch {
	case apiHostPattern.MatchString(canonical):
		// API links carry no content page, fall through to unsupported
	case dynamicHostPattern.MatchString(canonical):
		return p.resolveDynamic(ctx, canonical)
	case liveHostPattern.MatchString(canonical):
		return p.resolveLive(ctx, canonical)
	case audioPathPattern.MatchString(canonical):
		return p.resolveAudio(ctx, canonical)
	case readPathPattern.MatchString(canonical):
		return p.resolveRead(ctx, canonical)
	case videoPathPattern.MatchString(canonical):
		return p.resolveVideo(ctx, canonical)
	}
	return nil, feederrors.NewUnsupportedURL(canonical)
}
