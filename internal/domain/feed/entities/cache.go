package entities

import (
	"time"

	"gorm.io/datatypes"
)

// DynamicCache stores a resolved dynamic detail payload keyed by both ids a
// status link can carry.
type DynamicCache struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	DynamicID int64          `gorm:"not null;uniqueIndex" json:"dynamicId"`
	RID       int64          `gorm:"index" json:"rid"`
	Content   datatypes.JSON `gorm:"not null" json:"content"`
	Created   time.Time      `gorm:"not null;index" json:"created"`
}

// TableName returns the table name for DynamicCache
func (DynamicCache) TableName() string {
	return "dynamic_cache"
}

// AudioCache stores a resolved audio detail payload.
type AudioCache struct {
	ID      uint           `gorm:"primaryKey" json:"id"`
	AudioID int64          `gorm:"not null;uniqueIndex" json:"audioId"`
	Content datatypes.JSON `gorm:"not null" json:"content"`
	Created time.Time      `gorm:"not null;index" json:"created"`
}

// TableName returns the table name for AudioCache
func (AudioCache) TableName() string {
	return "audio_cache"
}

// LiveCache stores a resolved live room payload.
type LiveCache struct {
	ID      uint           `gorm:"primaryKey" json:"id"`
	RoomID  int64          `gorm:"not null;uniqueIndex" json:"roomId"`
	Content datatypes.JSON `gorm:"not null" json:"content"`
	Created time.Time      `gorm:"not null;index" json:"created"`
}

// TableName returns the table name for LiveCache
func (LiveCache) TableName() string {
	return "live_cache"
}

// BangumiCache stores a resolved season payload keyed by episode and season.
type BangumiCache struct {
	ID      uint           `gorm:"primaryKey" json:"id"`
	EPID    int64          `gorm:"not null;uniqueIndex" json:"epid"`
	SSID    int64          `gorm:"index" json:"ssid"`
	Content datatypes.JSON `gorm:"not null" json:"content"`
	Created time.Time      `gorm:"not null;index" json:"created"`
}

// TableName returns the table name for BangumiCache
func (BangumiCache) TableName() string {
	return "bangumi_cache"
}

// VideoCache stores a resolved video detail payload keyed by both id forms.
type VideoCache struct {
	ID      uint           `gorm:"primaryKey" json:"id"`
	AID     int64          `gorm:"not null;uniqueIndex" json:"aid"`
	BVID    string         `gorm:"index" json:"bvid"`
	Content datatypes.JSON `gorm:"not null" json:"content"`
	Created time.Time      `gorm:"not null;index" json:"created"`
}

// TableName returns the table name for VideoCache
func (VideoCache) TableName() string {
	return "video_cache"
}

// ReadCache stores the republished page URL for an article, not the article
// body itself.
type ReadCache struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	ReadID   int64     `gorm:"not null;uniqueIndex" json:"readId"`
	GraphURL string    `gorm:"not null" json:"graphUrl"`
	Created  time.Time `gorm:"not null;index" json:"created"`
}

// TableName returns the table name for ReadCache
func (ReadCache) TableName() string {
	return "read_cache"
}

// ReplyCache stores a comment payload keyed by the thread object and the
// thread type selector together.
type ReplyCache struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	OID       int64          `gorm:"not null;index:idx_reply_oid_type,unique" json:"oid"`
	ReplyType int            `gorm:"not null;index:idx_reply_oid_type,unique" json:"replyType"`
	Content   datatypes.JSON `gorm:"not null" json:"content"`
	Created   time.Time      `gorm:"not null;index" json:"created"`
}

// TableName returns the table name for ReplyCache
func (ReplyCache) TableName() string {
	return "reply_cache"
}

// CacheCount is one row of the cache status report.
type CacheCount struct {
	Kind string
	Rows int64
}

type cacheKind struct {
	Name  string
	Model any
}

// cacheKinds lists every cache table in report order.
var cacheKinds = []cacheKind{
	{"audio", &AudioCache{}},
	{"bangumi", &BangumiCache{}},
	{"dynamic", &DynamicCache{}},
	{"live", &LiveCache{}},
	{"read", &ReadCache{}},
	{"reply", &ReplyCache{}},
	{"video", &VideoCache{}},
}

// AllCacheModels returns every cache model for schema migration.
func AllCacheModels() []any {
	models := make([]any, 0, len(cacheKinds))
	for _, k := range cacheKinds {
		models = append(models, k.Model)
	}
	return models
}

// CacheKindNames returns the cache table names in report order.
func CacheKindNames() []string {
	names := make([]string, 0, len(cacheKinds))
	for _, k := range cacheKinds {
		names = append(names, k.Name)
	}
	return names
}

// CacheModel resolves a kind name to its model, reporting whether the kind
// exists.
func CacheModel(kind string) (any, bool) {
	for _, k := range cacheKinds {
		if k.Name == kind {
			return k.Model, true
		}
	}
	return nil, false
}
