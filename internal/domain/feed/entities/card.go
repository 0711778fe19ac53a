package entities

import "encoding/json"

// DynamicDetail mirrors the dynamic detail envelope down to the fields the
// resolver reads. The inner card body arrives as a JSON-encoded string and
// is decoded separately into CardBody.
type DynamicDetail struct {
	Data *DynamicDetailData `json:"data"`
}

type DynamicDetailData struct {
	Card *DynamicCard `json:"card"`
}

type DynamicCard struct {
	Desc    DynamicDesc    `json:"desc"`
	Card    string         `json:"card"`
	Display DynamicDisplay `json:"display"`
}

type DynamicDesc struct {
	DynamicID int64 `json:"dynamic_id"`
	RID       int64 `json:"rid"`
	Type      int   `json:"type"`
	OrigType  int   `json:"orig_type"`
}

type DynamicDisplay struct {
	AddOnCardInfo []AddOnCard `json:"add_on_card_info"`
}

type AddOnCard struct {
	ReserveAttachCard *ReserveAttachCard `json:"reserve_attach_card"`
}

type ReserveAttachCard struct {
	Title string `json:"title"`
}

// CardBody is one decoded card payload: the top-level card of a plain
// update, or the outer repost shell whose Origin holds the embedded card.
type CardBody struct {
	User    CardUser    `json:"user"`
	Item    *CardItem   `json:"item"`
	Vest    *CardVest   `json:"vest"`
	Sketch  *CardSketch `json:"sketch"`
	Origin  string      `json:"origin"`
	NewDesc string      `json:"new_desc"`
	ID      int64       `json:"id"`
	RoomID  int64       `json:"roomid"`
	AID     int64       `json:"aid"`
}

// CardUser carries both author name spellings the card templates use.
type CardUser struct {
	Name  string      `json:"name"`
	Uname string      `json:"uname"`
	UID   json.Number `json:"uid"`
}

type CardItem struct {
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Content      string        `json:"content"`
	Pictures     []CardPicture `json:"pictures"`
	VideoPlayURL string        `json:"video_playurl"`
	Cover        *CardCover    `json:"cover"`
}

type CardPicture struct {
	ImgSrc string `json:"img_src"`
}

type CardCover struct {
	Unclipped string `json:"unclipped"`
}

type CardVest struct {
	Content string `json:"content"`
}

type CardSketch struct {
	Title     string `json:"title"`
	DescText  string `json:"desc_text"`
	TargetURL string `json:"target_url"`
	CoverURL  string `json:"cover_url"`
}

// UIDString renders the card author's id for markdown links, "" when the id
// is absent or zero.
func (u CardUser) UIDString() string {
	s := u.UID.String()
	if s == "" || s == "0" {
		return ""
	}
	return s
}

// CardKind enumerates the dynamic card templates the resolver understands.
type CardKind int

const (
	CardKindUnknown CardKind = iota
	CardKindWord
	CardKindPic
	CardKindVideo
	CardKindClip
	CardKindArticle
	CardKindMusic
	CardKindLive
	CardKindShare
	CardKindNone
)

func (k CardKind) String() string {
	switch k {
	case CardKindWord:
		return "word"
	case CardKindPic:
		return "pic"
	case CardKindVideo:
		return "video"
	case CardKindClip:
		return "clip"
	case CardKindArticle:
		return "article"
	case CardKindMusic:
		return "music"
	case CardKindLive:
		return "live"
	case CardKindShare:
		return "share"
	case CardKindNone:
		return "none"
	default:
		return "unknown"
	}
}

// CardKindOf maps a card's numeric subtype code to its template. The
// mapping is total: codes outside every known range yield CardKindUnknown.
func CardKindOf(originType int) CardKind {
	switch {
	case originType == 1 || originType == 4:
		return CardKindWord
	case originType == 2:
		return CardKindPic
	case originType == 8 || originType == 512 ||
		(originType >= 4000 && originType < 4200):
		return CardKindVideo
	case originType == 16:
		return CardKindClip
	case originType == 64:
		return CardKindArticle
	case originType == 256:
		return CardKindMusic
	case originType >= 4200 && originType < 4300:
		return CardKindLive
	case originType >= 2048 && originType < 2100:
		return CardKindShare
	case originType == 2024 || (originType >= 4300 && originType < 4400):
		return CardKindNone
	default:
		return CardKindUnknown
	}
}

// DynamicReplyTarget picks the comment thread for a status update: the
// reply_type selector and the object id keying the thread. Both derive from
// the update's outer type code, not the embedded card's.
func DynamicReplyTarget(dynamicType int, dynamicID, rid int64) (oid int64, replyType int) {
	dynamicKeyed := dynamicType == 1 || dynamicType == 4 ||
		(dynamicType >= 4200 && dynamicType < 4300) ||
		(dynamicType >= 2048 && dynamicType < 2100)

	switch {
	case dynamicType == 2:
		replyType = 11
	case dynamicType == 16:
		replyType = 5
	case dynamicType == 64:
		replyType = 12
	case dynamicType == 256:
		replyType = 14
	case dynamicType == 8 || dynamicType == 512 ||
		(dynamicType >= 4000 && dynamicType < 4200):
		replyType = 1
	case dynamicKeyed:
		replyType = 17
	}

	if dynamicKeyed {
		return dynamicID, replyType
	}
	return rid, replyType
}
