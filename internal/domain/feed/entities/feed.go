package entities

import (
	"strings"

	"github.com/PinkD/telegram-bili-feed-helper/pkg/mapfn"
)

// Kind names a resolvable content kind.
type Kind string

const (
	KindDynamic Kind = "dynamic"
	KindAudio   Kind = "audio"
	KindLive    Kind = "live"
	KindVideo   Kind = "video"
	KindRead    Kind = "read"
)

// MediaType classifies a feed's attachments.
type MediaType string

const (
	MediaNone  MediaType = ""
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
)

// Media describes the attachments of one resolved item. URLs is always a
// slice; resolvers wrap scalar upstream values before building the feed.
type Media struct {
	URLs     []string
	Type     MediaType
	Thumb    string
	Title    string
	Duration int64
	// Raws marks links that expire upstream and must be re-hosted rather
	// than passed through.
	Raws bool
}

// Feed is the normalized, render-ready representation of one resolved
// content item. Implementations are immutable: every derived field is
// computed once when the draft is built.
type Feed interface {
	Kind() Kind
	URL() string
	User() string
	UID() string
	UserMarkdown() string
	Content() string
	ContentMarkdown() string
	ExtraMarkdown() string
	HasComment() bool
	Comment() string
	CommentMarkdown() string
	Media() Media
	MediaFilenames() []string
}

// feedCore carries the finalized fields shared by every kind.
type feedCore struct {
	user            string
	uid             string
	userMarkdown    string
	content         string
	contentMarkdown string
	extraMarkdown   string
	hasComment      bool
	comment         string
	commentMarkdown string
	media           Media
	mediaFilenames  []string
}

func (f *feedCore) User() string             { return f.user }
func (f *feedCore) UID() string              { return f.uid }
func (f *feedCore) UserMarkdown() string     { return f.userMarkdown }
func (f *feedCore) Content() string          { return f.content }
func (f *feedCore) ContentMarkdown() string  { return f.contentMarkdown }
func (f *feedCore) ExtraMarkdown() string    { return f.extraMarkdown }
func (f *feedCore) HasComment() bool         { return f.hasComment }
func (f *feedCore) Comment() string          { return f.comment }
func (f *feedCore) CommentMarkdown() string  { return f.commentMarkdown }
func (f *feedCore) Media() Media             { return f.media }
func (f *feedCore) MediaFilenames() []string { return f.mediaFilenames }

// buildCore derives the shared render fields from raw draft values.
func buildCore(user, uid, content, extraMarkdown string, media Media, reply *ReplyPayload) feedCore {
	core := feedCore{
		user:            user,
		uid:             uid,
		userMarkdown:    UserMarkdown(user, uid),
		content:         ShrinkText(content),
		contentMarkdown: renderContentMarkdown(content),
		extraMarkdown:   extraMarkdown,
		media:           media,
	}
	core.mediaFilenames = mapfn.ConvertSlice(core.media.URLs, MediaFilename)
	core.hasComment, core.comment, core.commentMarkdown = renderReply(reply)
	return core
}

// renderContentMarkdown escapes the shrunk content and guarantees exactly
// one trailing newline on non-empty output.
func renderContentMarkdown(content string) string {
	s := EscapeMarkdown(ShrinkText(content))
	if s == "" {
		return ""
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s
}

// SingleURL wraps a scalar media URL into the slice form Media requires,
// dropping empty values.
func SingleURL(url string) []string {
	if url == "" {
		return nil
	}
	return []string{url}
}
