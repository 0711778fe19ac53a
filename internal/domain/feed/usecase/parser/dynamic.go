package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed/entities"
	feederrors "github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed/errors"
	"github.com/PinkD/telegram-bili-feed-helper/pkg/mapfn"
)

var dynamicLinkPattern = regexp.MustCompile(`[th]\.bilibili\.com[/\w]*/(\d+)`)

// Status detail lives on its own API host, not the configurable one.
const dynamicDetailURL = "https://api.vc.bilibili.com/dynamic_svr/v1/dynamic_svr/get_dynamic_detail"

func (p *Parser) resolveDynamic(ctx context.Context, url string) (entities.Feed, error) {
	return retryOnConflict(p.logger, func() (entities.Feed, error) {
		return p.dynamicFeed(ctx, url)
	})
}

func (p *Parser) dynamicFeed(ctx context.Context, url string) (entities.Feed, error) {
	m := dynamicLinkPattern.FindStringSubmatch(url)
	if m == nil {
		return nil, feederrors.NewMalformedLink("invalid dynamic link", url)
	}
	linkID, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return nil, feederrors.NewMalformedLink("invalid dynamic id", url)
	}

	// Gallery links carry a content id, not a dynamic id, so both the
	// fetch and the cache key go through rid for them. type=2 links name
	// their id kind explicitly and get the same treatment.
	byRID := strings.Contains(url, "type=2") || strings.Contains(m[0], "h.bilibili.com")

	row, err := p.cache.LookupDynamic(ctx, linkID, byRID, p.ttl.DynamicTTL)
	if err != nil {
		return nil, err
	}

	var body []byte
	detailURL := url
	if row != nil {
		p.logger.Info().Time("created", row.Created).Msg("Dynamic cache hit")
		body = row.Content
	} else {
		var params map[string]string
		if byRID {
			params = map[string]string{"rid": m[1], "type": "2"}
		} else {
			params = map[string]string{"dynamic_id": m[1]}
		}
		resp, err := p.client.Get(ctx, dynamicDetailURL, params)
		if err != nil {
			return nil, err
		}
		body = resp.Body
		detailURL = resp.URL
	}

	var detail entities.DynamicDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, feederrors.NewDataMissing("dynamic data missing", detailURL, string(body))
	}
	if detail.Data == nil || detail.Data.Card == nil {
		return nil, feederrors.NewDataMissing("dynamic data missing", detailURL, string(body))
	}

	desc := detail.Data.Card.Desc
	p.logger.Info().Int64("dynamic_id", desc.DynamicID).Msg("Resolving dynamic")

	if row == nil {
		p.logger.Info().Int64("dynamic_id", desc.DynamicID).Msg("Caching dynamic")
		if err := p.cache.UpsertDynamic(ctx, linkID, byRID, desc.DynamicID, desc.RID, body); err != nil {
			return nil, err
		}
	}

	var outer entities.CardBody
	if err := json.Unmarshal([]byte(detail.Data.Card.Card), &outer); err != nil {
		return nil, feederrors.NewDataMissing("dynamic card malformed", detailURL, detail.Data.Card.Card)
	}

	hasForward := desc.OrigType != 0
	originType := desc.Type
	if hasForward {
		originType = desc.OrigType
	}

	// A repost embeds the original card as a JSON string. Deleted originals
	// leave it empty, in which case the outer card is all there is.
	card := &outer
	if hasForward && outer.Origin != "" {
		var inner entities.CardBody
		if err := json.Unmarshal([]byte(outer.Origin), &inner); err != nil {
			return nil, feederrors.NewDataMissing("dynamic origin card malformed", detailURL, outer.Origin)
		}
		card = &inner
	}

	draft := entities.DynamicDraft{
		DynamicID:  desc.DynamicID,
		RID:        desc.RID,
		HasForward: hasForward,
	}

	switch kind := entities.CardKindOf(originType); kind {
	case entities.CardKindMusic, entities.CardKindLive, entities.CardKindVideo, entities.CardKindArticle:
		sub, err := p.resolveEmbedded(ctx, kind, card)
		if err != nil {
			return nil, err
		}
		draft.User = sub.User()
		draft.UID = sub.UID()
		draft.Content = sub.Content()
		draft.ExtraMarkdown = sub.ExtraMarkdown()
		draft.Media = sub.Media()
		if kind == entities.CardKindVideo && card.NewDesc != "" {
			draft.Content = card.NewDesc
		}
	case entities.CardKindPic, entities.CardKindClip:
		draft.User = card.User.Name
		draft.UID = card.User.UIDString()
		var title, description string
		if card.Item != nil {
			title = card.Item.Title
			description = card.Item.Description
		}
		draft.Content = fmt.Sprintf("%s\n%s", title, description)
		if addOns := detail.Data.Card.Display.AddOnCardInfo; len(addOns) > 0 && addOns[0].ReserveAttachCard != nil {
			draft.ExtraMarkdown = addOns[0].ReserveAttachCard.Title
		}
		if card.Item != nil {
			if kind == entities.CardKindPic {
				draft.Media = entities.Media{
					URLs: mapfn.ConvertSlice(card.Item.Pictures, func(pic entities.CardPicture) string {
						return pic.ImgSrc
					}),
					Type: entities.MediaImage,
				}
			} else {
				draft.Media = entities.Media{
					URLs: entities.SingleURL(card.Item.VideoPlayURL),
					Type: entities.MediaVideo,
				}
				if card.Item.Cover != nil {
					draft.Media.Thumb = card.Item.Cover.Unclipped
				}
			}
		}
	case entities.CardKindWord:
		draft.User = card.User.Uname
		draft.UID = card.User.UIDString()
		if card.Item != nil {
			draft.Content = card.Item.Content
		}
	case entities.CardKindShare:
		draft.User = card.User.Uname
		draft.UID = card.User.UIDString()
		if card.Vest != nil {
			draft.Content = card.Vest.Content
		}
		if card.Sketch != nil {
			draft.ExtraMarkdown = fmt.Sprintf("[%s\n%s](%s)",
				entities.EscapeMarkdown(card.Sketch.Title),
				entities.EscapeMarkdown(card.Sketch.DescText),
				card.Sketch.TargetURL)
			draft.Media = entities.Media{
				URLs: entities.SingleURL(card.Sketch.CoverURL),
				Type: entities.MediaImage,
			}
		}
	default:
		feedURL := fmt.Sprintf("https://t.bilibili.com/%d", desc.DynamicID)
		p.logger.Warn().
			Err(feederrors.NewUnknownSubtype(originType, feedURL, detail.Data.Card.Card)).
			Msg("Unknown dynamic card template")
	}

	if hasForward {
		draft.ForwardUser = outer.User.Uname
		draft.ForwardUID = outer.User.UIDString()
		if outer.Item != nil {
			draft.ForwardContent = outer.Item.Content
		}
	}

	oid, replyType := entities.DynamicReplyTarget(desc.Type, desc.DynamicID, desc.RID)
	draft.Reply = p.fetchReply(ctx, oid, replyType)

	return draft.Build(), nil
}

// resolveEmbedded recursively resolves the content a card references, using
// the same resolvers the dispatcher would pick for a direct link.
func (p *Parser) resolveEmbedded(ctx context.Context, kind entities.CardKind, card *entities.CardBody) (entities.Feed, error) {
	switch kind {
	case entities.CardKindMusic:
		return p.resolveAudio(ctx, fmt.Sprintf("bilibili.com/audio/au%d", card.ID))
	case entities.CardKindLive:
		return p.resolveLive(ctx, fmt.Sprintf("live.bilibili.com/%d", card.RoomID))
	case entities.CardKindVideo:
		return p.resolveVideo(ctx, fmt.Sprintf("b23.tv/av%d", card.AID))
	default:
		return p.resolveRead(ctx, fmt.Sprintf("bilibili.com/read/cv%d", card.ID))
	}
}
