package parser

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/sync/errgroup"

	"github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed/entities"
	feederrors "github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed/errors"
)

var readLinkPattern = regexp.MustCompile(`bilibili\.com/read/(?:cv|mobile/)(\d+)`)

const (
	readReplyType = 12

	// Uploads above this size must be re-encoded before the mirror host
	// accepts them.
	maxUploadBytes = 5 * 1024 * 1024
)

func (p *Parser) resolveRead(ctx context.Context, url string) (entities.Feed, error) {
	return retryOnConflict(p.logger, func() (entities.Feed, error) {
		return p.readFeed(ctx, url)
	})
}

func (p *Parser) readFeed(ctx context.Context, url string) (entities.Feed, error) {
	m := readLinkPattern.FindStringSubmatch(url)
	if m == nil {
		return nil, feederrors.NewMalformedLink("invalid article link", url)
	}
	readID, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return nil, feederrors.NewMalformedLink("invalid article id", url)
	}

	resp, err := p.client.Get(ctx, fmt.Sprintf("https://www.bilibili.com/read/cv%d", readID), nil)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, feederrors.NewDataMissing("article page malformed", url, err.Error())
	}

	href, _ := doc.Find("a.up-name").First().Attr("href")
	if href == "" {
		return nil, feederrors.NewDataMissing("article uid missing", url, "")
	}
	parts := strings.Split(href, "/")
	uid := parts[len(parts)-1]

	user, _ := doc.Find(`meta[name="author"]`).First().Attr("content")
	if user == "" {
		return nil, feederrors.NewDataMissing("article author missing", url, "")
	}

	content, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
	if content == "" {
		return nil, feederrors.NewDataMissing("article description missing", url, "")
	}

	cover := doc.Find(`meta[property="og:image"]`).First()
	if cover.Length() == 0 {
		return nil, feederrors.NewDataMissing("article cover missing", url, "")
	}
	coverURL, _ := cover.Attr("content")

	title, _ := doc.Find(`meta[property="og:title"]`).First().Attr("content")
	if title == "" {
		return nil, feederrors.NewDataMissing("article title missing", url, "")
	}

	p.logger.Info().Int64("read_id", readID).Msg("Resolving article")

	row, err := p.cache.LookupRead(ctx, readID, p.ttl.ReadTTL)
	if err != nil {
		return nil, err
	}

	var graphURL string
	if row != nil {
		p.logger.Info().Time("created", row.Created).Msg("Article cache hit")
		graphURL = row.GraphURL
	} else {
		article := doc.Find("div.read-article-holder").First()
		if article.Length() == 0 {
			return nil, feederrors.NewDataMissing("article body missing", url, "")
		}

		if err := p.rehostImages(ctx, article); err != nil {
			return nil, err
		}
		normalizeArticle(article)

		markup, err := serializeChildren(article)
		if err != nil {
			return nil, err
		}

		graphURL, err = p.publisher.Publish(ctx, title, markup, user,
			fmt.Sprintf("https://space.bilibili.com/%s", uid))
		if err != nil {
			return nil, err
		}
		p.logger.Info().Str("url", graphURL).Msg("Article page published")

		p.logger.Info().Int64("read_id", readID).Msg("Caching article")
		if err := p.cache.UpsertRead(ctx, readID, graphURL); err != nil {
			return nil, err
		}
	}

	draft := entities.ReadDraft{
		ReadID:        readID,
		User:          user,
		UID:           uid,
		Content:       content,
		ExtraMarkdown: fmt.Sprintf("[%s](%s)", entities.EscapeMarkdown(title), graphURL),
	}
	if coverURL != "" {
		draft.Media = entities.Media{
			URLs: entities.SingleURL(coverURL),
			Type: entities.MediaImage,
		}
	}
	draft.Reply = p.fetchReply(ctx, readID, readReplyType)

	return draft.Build(), nil
}

// rehostImages rewrites the article's lazily loaded images to rehosted
// copies. Nodes are collected and mutated outside the fan-out because the
// document tree is not safe for concurrent writes; only the network work
// runs in parallel. A download failure aborts the resolution, a rejected
// upload only drops that one image.
func (p *Parser) rehostImages(ctx context.Context, article *goquery.Selection) error {
	type job struct {
		node *html.Node
		src  string
	}
	var jobs []job
	article.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("data-src")
		node := sel.Get(0)
		node.Attr = nil
		if src == "" {
			return
		}
		jobs = append(jobs, job{node: node, src: src})
	})

	rehosted := make([]string, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	for i, j := range jobs {
		g.Go(func() error {
			p.logger.Info().Str("src", j.src).Msg("Downloading article image")
			fetchURL := j.src
			if !strings.HasPrefix(fetchURL, "http") {
				fetchURL = "https:" + fetchURL
			}
			resp, err := p.client.Get(gctx, fetchURL, nil)
			if err != nil {
				return err
			}

			data := resp.Body
			if len(data) > maxUploadBytes {
				switch mediatype := http.DetectContentType(data); mediatype {
				case "image/jpeg", "image/png":
					p.logger.Info().
						Int("bytes", len(data)).
						Str("src", j.src).
						Str("type", mediatype).
						Msg("Compressing article image")
					if data, err = p.compressor.Compress(data); err != nil {
						return err
					}
				}
			}

			newSrc, err := p.publisher.UploadImage(gctx, data)
			if err != nil {
				p.logger.Warn().Str("src", j.src).Err(err).Msg("Image upload rejected")
				return nil
			}
			rehosted[i] = newSrc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, j := range jobs {
		if rehosted[i] != "" {
			j.node.Attr = []html.Attribute{{Key: "src", Val: rehosted[i]}}
		}
	}
	return nil
}

// normalizeArticle reduces the article markup to what the mirror host
// accepts: headings capped at h3, spans unwrapped, attributes stripped.
func normalizeArticle(article *goquery.Selection) {
	article.Find("h1").Each(func(_ int, sel *goquery.Selection) {
		n := sel.Get(0)
		n.Data = "h3"
		n.DataAtom = atom.H3
	})
	article.Find("span").Each(func(_ int, sel *goquery.Selection) {
		unwrapNode(sel.Get(0))
	})
	for _, tag := range []string{"p", "figure", "figcaption"} {
		article.Find(tag).Each(func(_ int, sel *goquery.Selection) {
			sel.Get(0).Attr = nil
		})
	}
}

// unwrapNode replaces the node with its own children.
func unwrapNode(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for child := n.FirstChild; child != nil; {
		next := child.NextSibling
		n.RemoveChild(child)
		parent.InsertBefore(child, n)
		child = next
	}
	parent.RemoveChild(n)
}

// serializeChildren renders the children of the wrapper div, dropping the
// wrapper itself from the published markup.
func serializeChildren(article *goquery.Selection) (string, error) {
	var b strings.Builder
	for child := article.Get(0).FirstChild; child != nil; child = child.NextSibling {
		if err := html.Render(&b, child); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}
