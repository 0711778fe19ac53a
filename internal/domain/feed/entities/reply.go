package entities

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PinkD/telegram-bili-feed-helper/pkg/mapfn"
)

// ReplyPayload mirrors the comment thread response down to the pinned
// entries the renderer uses.
type ReplyPayload struct {
	Code int        `json:"code"`
	Data *ReplyData `json:"data"`
}

// ReplyData holds the pinned comment slots. Slot names vary by thread
// ("upper", "vote", ...) and any slot may be null.
type ReplyData struct {
	Top map[string]*ReplyItem `json:"top"`
}

// ReplyItem is one pinned comment.
type ReplyItem struct {
	Member  ReplyMember  `json:"member"`
	Content ReplyMessage `json:"content"`
}

// ReplyMember identifies the comment author.
type ReplyMember struct {
	Uname string      `json:"uname"`
	Mid   json.Number `json:"mid"`
}

// ReplyMessage is the comment body.
type ReplyMessage struct {
	Message string `json:"message"`
}

// TopItems returns the non-empty pinned comments in stable slot order.
func (p *ReplyPayload) TopItems() []*ReplyItem {
	if p == nil || p.Data == nil || len(p.Data.Top) == 0 {
		return nil
	}
	items := make([]*ReplyItem, 0, len(p.Data.Top))
	for _, slot := range mapfn.SortedKeys(p.Data.Top) {
		if item := p.Data.Top[slot]; item != nil {
			items = append(items, item)
		}
	}
	return items
}

// renderReply derives the comment presence flag and both comment renderings
// from an attached reply payload.
func renderReply(p *ReplyPayload) (hasComment bool, comment, commentMarkdown string) {
	if p == nil || p.Data == nil {
		return false, "", ""
	}
	var plain, markdown strings.Builder
	for _, item := range p.TopItems() {
		fmt.Fprintf(&plain, "🔝> @%s:\n%s\n", item.Member.Uname, item.Content.Message)
		fmt.Fprintf(&markdown, "🔝\\> %s:\n%s\n",
			UserMarkdown(item.Member.Uname, item.Member.Mid.String()),
			EscapeMarkdown(item.Content.Message))
	}
	return true, ShrinkText(plain.String()), ShrinkText(markdown.String())
}
