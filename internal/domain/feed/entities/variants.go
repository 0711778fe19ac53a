package entities

import (
	"fmt"
	"strings"
)

// DynamicDraft collects the raw fields of a status update before the
// immutable feed is built. User/UID/Content describe the embedded original
// when the update is a repost; the Forward fields describe the reposter.
type DynamicDraft struct {
	DynamicID      int64
	RID            int64
	User           string
	UID            string
	Content        string
	HasForward     bool
	ForwardUser    string
	ForwardUID     string
	ForwardContent string
	ExtraMarkdown  string
	Media          Media
	Reply          *ReplyPayload
}

// DynamicFeed is a resolved status update.
type DynamicFeed struct {
	feedCore
	dynamicID      int64
	rid            int64
	hasForward     bool
	forwardUser    string
	forwardUID     string
	forwardContent string
}

// Build finalizes the draft into an immutable feed, computing every derived
// field exactly once.
func (d DynamicDraft) Build() *DynamicFeed {
	f := &DynamicFeed{
		feedCore:       buildCore(d.User, d.UID, d.Content, d.ExtraMarkdown, d.Media, d.Reply),
		dynamicID:      d.DynamicID,
		rid:            d.RID,
		hasForward:     d.HasForward,
		forwardUser:    d.ForwardUser,
		forwardUID:     d.ForwardUID,
		forwardContent: d.ForwardContent,
	}
	if d.HasForward {
		f.user = d.ForwardUser
		f.userMarkdown = UserMarkdown(d.ForwardUser, d.ForwardUID)
		plain := d.ForwardContent
		if d.User != "" {
			plain += fmt.Sprintf("//@%s:\n", d.User)
		}
		plain += d.Content
		f.content = ShrinkText(plain)
	}
	f.contentMarkdown = d.renderContentMarkdown()
	return f
}

// renderContentMarkdown prefixes the repost chain and appends the extra
// markdown link, keeping exactly one trailing newline on non-empty output.
func (d DynamicDraft) renderContentMarkdown() string {
	var b strings.Builder
	if d.HasForward {
		b.WriteString(EscapeMarkdown(d.ForwardContent))
		if d.UID != "" && d.UID != "0" {
			fmt.Fprintf(&b, "//%s:\n", UserMarkdown(d.User, d.UID))
		} else if d.User != "" {
			fmt.Fprintf(&b, "//@%s:\n", EscapeMarkdown(d.User))
		}
	}
	b.WriteString(EscapeMarkdown(d.Content))
	s := b.String()
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	if d.ExtraMarkdown != "" {
		s += d.ExtraMarkdown
	}
	s = ShrinkText(s)
	if s == "" {
		return ""
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s
}

func (f *DynamicFeed) Kind() Kind { return KindDynamic }

func (f *DynamicFeed) URL() string {
	return fmt.Sprintf("https://t.bilibili.com/%d", f.dynamicID)
}

func (f *DynamicFeed) DynamicID() int64       { return f.dynamicID }
func (f *DynamicFeed) RID() int64             { return f.rid }
func (f *DynamicFeed) HasForward() bool       { return f.hasForward }
func (f *DynamicFeed) ForwardUser() string    { return f.forwardUser }
func (f *DynamicFeed) ForwardUID() string     { return f.forwardUID }
func (f *DynamicFeed) ForwardContent() string { return f.forwardContent }

// AudioDraft collects the raw fields of an audio track.
type AudioDraft struct {
	AudioID       int64
	User          string
	UID           string
	Content       string
	ExtraMarkdown string
	Media         Media
	Reply         *ReplyPayload
}

// AudioFeed is a resolved audio track.
type AudioFeed struct {
	feedCore
	audioID int64
}

func (d AudioDraft) Build() *AudioFeed {
	return &AudioFeed{
		feedCore: buildCore(d.User, d.UID, d.Content, d.ExtraMarkdown, d.Media, d.Reply),
		audioID:  d.AudioID,
	}
}

func (f *AudioFeed) Kind() Kind { return KindAudio }

func (f *AudioFeed) URL() string {
	return fmt.Sprintf("https://www.bilibili.com/audio/au%d", f.audioID)
}

func (f *AudioFeed) AudioID() int64 { return f.audioID }

// LiveDraft collects the raw fields of a live room.
type LiveDraft struct {
	RoomID        int64
	User          string
	UID           string
	Content       string
	ExtraMarkdown string
	Media         Media
}

// LiveFeed is a resolved live room snapshot.
type LiveFeed struct {
	feedCore
	roomID int64
}

func (d LiveDraft) Build() *LiveFeed {
	return &LiveFeed{
		feedCore: buildCore(d.User, d.UID, d.Content, d.ExtraMarkdown, d.Media, nil),
		roomID:   d.RoomID,
	}
}

func (f *LiveFeed) Kind() Kind { return KindLive }

func (f *LiveFeed) URL() string {
	return fmt.Sprintf("https://live.bilibili.com/%d", f.roomID)
}

func (f *LiveFeed) RoomID() int64 { return f.roomID }

// VideoDraft collects the raw fields of a video or bangumi episode.
type VideoDraft struct {
	AID           int64
	CID           int64
	SID           int64
	User          string
	UID           string
	Content       string
	ExtraMarkdown string
	Media         Media
	Reply         *ReplyPayload
}

// VideoFeed is a resolved video.
type VideoFeed struct {
	feedCore
	aid int64
	cid int64
	sid int64
}

func (d VideoDraft) Build() *VideoFeed {
	return &VideoFeed{
		feedCore: buildCore(d.User, d.UID, d.Content, d.ExtraMarkdown, d.Media, d.Reply),
		aid:      d.AID,
		cid:      d.CID,
		sid:      d.SID,
	}
}

func (f *VideoFeed) Kind() Kind { return KindVideo }

func (f *VideoFeed) URL() string {
	return fmt.Sprintf("https://www.bilibili.com/video/av%d", f.aid)
}

func (f *VideoFeed) AID() int64 { return f.aid }
func (f *VideoFeed) CID() int64 { return f.cid }
func (f *VideoFeed) SID() int64 { return f.sid }

// ReadDraft collects the raw fields of a long-form article.
type ReadDraft struct {
	ReadID        int64
	User          string
	UID           string
	Content       string
	ExtraMarkdown string
	Media         Media
	Reply         *ReplyPayload
}

// ReadFeed is a resolved article with its mirror link in ExtraMarkdown.
type ReadFeed struct {
	feedCore
	readID int64
}

func (d ReadDraft) Build() *ReadFeed {
	return &ReadFeed{
		feedCore: buildCore(d.User, d.UID, d.Content, d.ExtraMarkdown, d.Media, d.Reply),
		readID:   d.ReadID,
	}
}

func (f *ReadFeed) Kind() Kind { return KindRead }

func (f *ReadFeed) URL() string {
	return fmt.Sprintf("https://www.bilibili.com/read/cv%d", f.readID)
}

func (f *ReadFeed) ReadID() int64 { return f.readID }
