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

var videoLinkPattern = regexp.MustCompile(
	`(?i)(?:bilibili\.com/(?:video|bangumi/play)|b23\.tv|acg\.tv)/(?:(?P<bvid>bv\w+)|av(?P<aid>\d+)|ep(?P<epid>\d+)|ss(?P<ssid>\d+))`)

const videoReplyType = 1

func (p *Parser) resolveVideo(ctx context.Context, url string) (entities.Feed, error) {
	return retryOnConflict(p.logger, func() (entities.Feed, error) {
		return p.videoFeed(ctx, url)
	})
}

func parseID(s string) int64 {
	id, _ := strconv.ParseInt(s, 10, 64)
	return id
}

func (p *Parser) videoFeed(ctx context.Context, url string) (entities.Feed, error) {
	m := videoLinkPattern.FindStringSubmatch(url)
	if m == nil {
		return nil, feederrors.NewMalformedLink("invalid video link", url)
	}
	var (
		bvid    = m[videoLinkPattern.SubexpIndex("bvid")]
		aidStr  = m[videoLinkPattern.SubexpIndex("aid")]
		epidStr = m[videoLinkPattern.SubexpIndex("epid")]
		ssidStr = m[videoLinkPattern.SubexpIndex("ssid")]
	)

	aid := parseID(aidStr)
	var sid int64

	// Episode and season links resolve the season first to derive the aid,
	// then continue through the shared video stage below.
	if epidStr != "" || ssidStr != "" {
		var err error
		aid, sid, err = p.resolveSeason(ctx, url, epidStr, ssidStr)
		if err != nil {
			return nil, err
		}
		bvid = ""
	}

	row, err := p.cache.LookupVideo(ctx, aid, bvid, p.ttl.VideoTTL)
	if err != nil {
		return nil, err
	}

	var body []byte
	if row != nil {
		p.logger.Info().Time("created", row.Created).Msg("Video cache hit")
		body = row.Content
	} else {
		var params map[string]string
		if bvid != "" {
			params = map[string]string{"bvid": bvid}
		} else {
			params = map[string]string{"aid": strconv.FormatInt(aid, 10)}
		}
		resp, err := p.client.Get(ctx, p.api.BaseURL+"/x/web-interface/view", params)
		if err != nil {
			return nil, err
		}
		body = resp.Body

		var probe entities.VideoInfo
		if err := json.Unmarshal(body, &probe); err != nil || probe.Data == nil {
			return nil, feederrors.NewDataMissing("video data missing", resp.URL, string(body))
		}
	}

	var info entities.VideoInfo
	if err := json.Unmarshal(body, &info); err != nil || info.Data == nil {
		return nil, feederrors.NewEmptyData("video content empty",
			fmt.Sprintf("https://www.bilibili.com/video/av%d", aid))
	}
	detail := info.Data

	p.logger.Info().Int64("aid", detail.AID).Msg("Resolving video")

	if row == nil {
		p.logger.Info().Int64("aid", detail.AID).Msg("Caching video")
		if err := p.cache.UpsertVideo(ctx, aid, bvid, detail.AID, detail.BVID, body); err != nil {
			return nil, err
		}
	}

	feedURL := fmt.Sprintf("https://www.bilibili.com/video/av%d", detail.AID)
	draft := entities.VideoDraft{
		AID:           detail.AID,
		CID:           detail.CID,
		SID:           sid,
		User:          detail.Owner.Name,
		UID:           strconv.FormatInt(detail.Owner.Mid, 10),
		Content:       detail.Dynamic,
		ExtraMarkdown: fmt.Sprintf("[%s](%s)", entities.EscapeMarkdown(detail.Title), feedURL),
		Media: entities.Media{
			URLs:  entities.SingleURL(detail.Pic),
			Type:  entities.MediaImage,
			Title: detail.Title,
		},
	}
	draft.Reply = p.fetchReply(ctx, detail.AID, videoReplyType)

	return draft.Build(), nil
}

// resolveSeason resolves season metadata through its own cache and returns
// the aid of the requested episode, or of the latest one when the link
// carried a season id or an episode the season no longer lists.
func (p *Parser) resolveSeason(ctx context.Context, url, epidStr, ssidStr string) (aid, sid int64, err error) {
	linkEPID := parseID(epidStr)
	linkSSID := parseID(ssidStr)

	row, err := p.cache.LookupBangumi(ctx, linkEPID, linkSSID, p.ttl.BangumiTTL)
	if err != nil {
		return 0, 0, err
	}

	var body []byte
	if row != nil {
		p.logger.Info().Time("created", row.Created).Msg("Season cache hit")
		body = row.Content
	} else {
		var params map[string]string
		if epidStr != "" {
			params = map[string]string{"ep_id": epidStr}
		} else {
			params = map[string]string{"season_id": ssidStr}
		}
		resp, err := p.client.Get(ctx, p.api.BaseURL+"/pgc/view/web/season", params)
		if err != nil {
			return 0, 0, err
		}
		body = resp.Body
	}

	// The season endpoint rejects requests from outside the supported
	// regions, which surfaces here as a missing result key.
	var season entities.SeasonInfo
	if err := json.Unmarshal(body, &season); err != nil || season.Result == nil {
		return 0, 0, feederrors.NewDataMissing("season data missing", url, string(body))
	}
	detail := season.Result

	epid := linkEPID
	if epidStr != "" {
		for _, episode := range detail.Episodes {
			if episode.ID == linkEPID {
				aid = episode.AID
			}
		}
	}
	if aid == 0 {
		if len(detail.Episodes) == 0 {
			return 0, 0, feederrors.NewDataMissing("season episodes missing", url, string(body))
		}
		last := detail.Episodes[len(detail.Episodes)-1]
		aid = last.AID
		epid = last.ID
	}

	p.logger.Info().Int64("epid", epid).Msg("Resolving season")

	if row == nil {
		p.logger.Info().Int64("epid", epid).Msg("Caching season")
		if err := p.cache.UpsertBangumi(ctx, linkEPID, linkSSID, epid, detail.SeasonID, body); err != nil {
			return 0, 0, err
		}
	}

	return aid, detail.SeasonID, nil
}
