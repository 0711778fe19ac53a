package entities

// API response envelopes for the non-dynamic content kinds. Pointer fields
// mark the envelopes whose absence the resolvers treat as missing data.

type AudioInfo struct {
	Data *AudioDetail `json:"data"`
}

type AudioDetail struct {
	MID      int64  `json:"mid"`
	Author   string `json:"author"`
	Intro    string `json:"intro"`
	Title    string `json:"title"`
	CoverURL string `json:"cover_url"`
	Duration int64  `json:"duration"`
}

type AudioMedia struct {
	Data *AudioMediaData `json:"data"`
}

type AudioMediaData struct {
	CDNs []string `json:"cdns"`
}

type LiveInfo struct {
	Data *LiveDetail `json:"data"`
}

type LiveDetail struct {
	AnchorInfo LiveAnchorInfo `json:"anchor_info"`
	RoomInfo   *LiveRoomInfo  `json:"room_info"`
}

type LiveAnchorInfo struct {
	BaseInfo LiveAnchorBase `json:"base_info"`
}

type LiveAnchorBase struct {
	Uname string `json:"uname"`
}

type LiveRoomInfo struct {
	UID            int64  `json:"uid"`
	RoomID         int64  `json:"room_id"`
	Title          string `json:"title"`
	AreaName       string `json:"area_name"`
	ParentAreaName string `json:"parent_area_name"`
	Keyframe       string `json:"keyframe"`
}

type SeasonInfo struct {
	Result *SeasonResult `json:"result"`
}

type SeasonResult struct {
	SeasonID int64           `json:"season_id"`
	Episodes []SeasonEpisode `json:"episodes"`
}

type SeasonEpisode struct {
	ID  int64 `json:"id"`
	AID int64 `json:"aid"`
}

type VideoInfo struct {
	Data *VideoDetail `json:"data"`
}

type VideoDetail struct {
	BVID    string     `json:"bvid"`
	AID     int64      `json:"aid"`
	CID     int64      `json:"cid"`
	Title   string     `json:"title"`
	Dynamic string     `json:"dynamic"`
	Pic     string     `json:"pic"`
	Owner   VideoOwner `json:"owner"`
}

type VideoOwner struct {
	Name string `json:"name"`
	Mid  int64  `json:"mid"`
}
