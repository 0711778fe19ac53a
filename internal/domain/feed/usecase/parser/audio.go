package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed/entities"
	feederrors "github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed/errors"
)

var audioLinkPattern = regexp.MustCompile(`bilibili\.com/audio/au(\d+)`)

const audioReplyType = 14

func (p *Parser) resolveAudio(ctx context.Context, url string) (entities.Feed, error) {
	return retryOnConflict(p.logger, func() (entities.Feed, error) {
		return p.audioFeed(ctx, url)
	})
}

func (p *Parser) audioFeed(ctx context.Context, url string) (entities.Feed, error) {
	m := audioLinkPattern.FindStringSubmatch(url)
	if m == nil {
		return nil, feederrors.NewMalformedLink("invalid audio link", url)
	}
	audioID, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return nil, feederrors.NewMalformedLink("invalid audio id", url)
	}

	row, err := p.cache.LookupAudio(ctx, audioID, p.ttl.AudioTTL)
	if err != nil {
		return nil, err
	}

	var body []byte
	infoURL := url
	if row != nil {
		p.logger.Info().Time("created", row.Created).Msg("Audio cache hit")
		body = row.Content
	} else {
		resp, err := p.client.Get(ctx, p.api.BaseURL+"/audio/music-service-c/songs/playing", map[string]string{
			"song_id": m[1],
		})
		if err != nil {
			return nil, err
		}
		body = resp.Body
		infoURL = resp.URL
	}

	var info entities.AudioInfo
	if err := json.Unmarshal(body, &info); err != nil || info.Data == nil {
		return nil, feederrors.NewDataMissing("audio data missing", infoURL, string(body))
	}
	detail := info.Data

	p.logger.Info().Int64("audio_id", audioID).Msg("Resolving audio")

	if row == nil {
		p.logger.Info().Int64("audio_id", audioID).Msg("Caching audio")
		if err := p.cache.UpsertAudio(ctx, audioID, body); err != nil {
			return nil, err
		}
	}

	// The playable URL bundle expires quickly upstream and is never cached.
	mediaResp, err := p.client.Get(ctx, p.api.BaseURL+"/audio/music-service-c/url", map[string]string{
		"songid":    m[1],
		"mid":       strconv.FormatInt(detail.MID, 10),
		"privilege": "2",
		"quality":   "3",
		"platform":  "",
	})
	if err != nil {
		return nil, err
	}
	var media entities.AudioMedia
	if err := json.Unmarshal(mediaResp.Body, &media); err != nil || media.Data == nil {
		return nil, feederrors.NewDataMissing("audio media missing", mediaResp.URL, string(mediaResp.Body))
	}

	feedURL := fmt.Sprintf("https://www.bilibili.com/audio/au%d", audioID)
	draft := entities.AudioDraft{
		AudioID:       audioID,
		User:          detail.Author,
		UID:           strconv.FormatInt(detail.MID, 10),
		Content:       detail.Intro,
		ExtraMarkdown: fmt.Sprintf("[%s](%s)", entities.EscapeMarkdown(detail.Title), feedURL),
		Media: entities.Media{
			URLs:     media.Data.CDNs,
			Type:     entities.MediaAudio,
			Thumb:    detail.CoverURL,
			Title:    detail.Title,
			Duration: detail.Duration,
			Raws:     true,
		},
	}
	draft.Reply = p.fetchReply(ctx, audioID, audioReplyType)

	return draft.Build(), nil
}
