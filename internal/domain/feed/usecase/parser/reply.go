package parser

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed/entities"
	feederrors "github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed/errors"
)

// fetchReply resolves the comment thread for a feed. Comments are garnish:
// a failure is logged and yields no comment instead of failing the feed.
func (p *Parser) fetchReply(ctx context.Context, oid int64, replyType int) *entities.ReplyPayload {
	payload, err := retryOnConflict(p.logger, func() (*entities.ReplyPayload, error) {
		return p.replyPayload(ctx, oid, replyType)
	})
	if err != nil {
		p.logger.Warn().
			Int64("oid", oid).
			Int("reply_type", replyType).
			Err(err).
			Msg("Reply resolution failed")
		return nil
	}
	return payload
}

func (p *Parser) replyPayload(ctx context.Context, oid int64, replyType int) (*entities.ReplyPayload, error) {
	row, err := p.cache.LookupReply(ctx, oid, replyType, p.ttl.ReplyTTL)
	if err != nil {
		return nil, err
	}

	var body []byte
	respURL := ""
	if row != nil {
		p.logger.Info().Time("created", row.Created).Msg("Reply cache hit")
		body = row.Content
	} else {
		resp, err := p.client.Get(ctx, p.api.BaseURL+"/x/v2/reply/main", map[string]string{
			"oid":  strconv.FormatInt(oid, 10),
			"type": strconv.Itoa(replyType),
		})
		if err != nil {
			return nil, err
		}
		body = resp.Body
		respURL = resp.URL
	}

	var payload entities.ReplyPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, feederrors.NewDataMissing("reply payload malformed", respURL, string(body))
	}
	if row == nil && payload.Data == nil {
		return nil, feederrors.NewDataMissing("reply data missing", respURL, string(body))
	}

	p.logger.Info().
		Int64("oid", oid).
		Int("reply_type", replyType).
		Msg("Resolved reply")

	if row == nil {
		p.logger.Info().Int64("oid", oid).Msg("Caching reply")
		if err := p.cache.UpsertReply(ctx, oid, replyType, body); err != nil {
			return nil, err
		}
	}
	return &payload, nil
}
