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

var liveLinkPattern = regexp.MustCompile(`live\.bilibili\.com[/\w]*/(\d+)`)

// Room info lives on the live API host, not the configurable one.
const liveInfoURL = "https://api.live.bilibili.com/xlive/web-room/v1/index/getInfoByRoom"

func (p *Parser) resolveLive(ctx context.Context, url string) (entities.Feed, error) {
	return retryOnConflict(p.logger, func() (entities.Feed, error) {
		return p.liveFeed(ctx, url)
	})
}

func (p *Parser) liveFeed(ctx context.Context, url string) (entities.Feed, error) {
	m := liveLinkPattern.FindStringSubmatch(url)
	if m == nil {
		return nil, feederrors.NewMalformedLink("invalid live link", url)
	}
	roomID, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return nil, feederrors.NewMalformedLink("invalid live room id", url)
	}

	row, err := p.cache.LookupLive(ctx, roomID, p.ttl.LiveTTL)
	if err != nil {
		return nil, err
	}

	var body []byte
	if row != nil {
		p.logger.Info().Time("created", row.Created).Msg("Live cache hit")
		body = row.Content
	} else {
		resp, err := p.client.Get(ctx, liveInfoURL, map[string]string{
			"room_id": m[1],
		})
		if err != nil {
			return nil, err
		}
		body = resp.Body

		var probe entities.LiveInfo
		if err := json.Unmarshal(body, &probe); err != nil || probe.Data == nil {
			return nil, feederrors.NewDataMissing("live data missing", resp.URL, string(body))
		}
	}

	p.logger.Info().Int64("room_id", roomID).Msg("Resolving live room")

	if row == nil {
		p.logger.Info().Int64("room_id", roomID).Msg("Caching live room")
		if err := p.cache.UpsertLive(ctx, roomID, body); err != nil {
			return nil, err
		}
	}

	feedURL := fmt.Sprintf("https://live.bilibili.com/%d", roomID)

	var info entities.LiveInfo
	if err := json.Unmarshal(body, &info); err != nil || info.Data == nil || info.Data.RoomInfo == nil {
		return nil, feederrors.NewEmptyData("live content empty", feedURL)
	}
	detail := info.Data
	roomInfo := detail.RoomInfo
	user := detail.AnchorInfo.BaseInfo.Uname

	draft := entities.LiveDraft{
		RoomID: roomID,
		User:   user,
		UID:    strconv.FormatInt(roomInfo.UID, 10),
		Content: fmt.Sprintf("%s - %s - %s",
			roomInfo.Title, roomInfo.AreaName, roomInfo.ParentAreaName),
		ExtraMarkdown: fmt.Sprintf("[%s的直播间](%s)", entities.EscapeMarkdown(user), feedURL),
		Media: entities.Media{
			URLs: entities.SingleURL(roomInfo.Keyframe),
			Type: entities.MediaImage,
		},
	}

	return draft.Build(), nil
}
