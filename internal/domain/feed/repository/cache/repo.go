package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed/deps"
	"github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed/entities"
	feederrors "github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new cache repository
func NewRepository(db *gorm.DB) deps.CacheStore {
	return &repository{
		db: db,
	}
}

// lookupRow returns the newest row matching the key, filtered to fresh rows
// when ttl is positive. A missing row is (nil, nil), not an error.
func lookupRow[E any](ctx context.Context, db *gorm.DB, ttl time.Duration, query string, args ...any) (*E, error) {
	tx := db.WithContext(ctx).Where(query, args...)
	if ttl > 0 {
		tx = tx.Where("created >= ?", time.Now().Add(-ttl))
	}

	var row E
	if err := tx.Order("created DESC").First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// upsertRow refreshes the row matching the key in place, or inserts row when
// none exists. A duplicate-key failure on insert means a concurrent writer
// won the race and surfaces as ErrWriteConflict for the caller to retry.
func upsertRow[E any](ctx context.Context, db *gorm.DB, row *E, update map[string]any, query string, args ...any) error {
	existing, err := lookupRow[E](ctx, db, 0, query, args...)
	if err != nil {
		return err
	}

	if existing != nil {
		return db.WithContext(ctx).Model(existing).Updates(update).Error
	}

	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return feederrors.ErrWriteConflict
		}
		return err
	}
	return nil
}

func refresh(content []byte) map[string]any {
	return map[string]any{
		"content": datatypes.JSON(content),
		"created": time.Now(),
	}
}

func dynamicKey(id int64, byRID bool) (string, []any) {
	if byRID {
		return "rid = ?", []any{id}
	}
	return "dynamic_id = ?", []any{id}
}

func bangumiKey(epid, ssid int64) (string, []any) {
	switch {
	case epid != 0 && ssid != 0:
		return "epid = ? OR ssid = ?", []any{epid, ssid}
	case ssid != 0:
		return "ssid = ?", []any{ssid}
	default:
		return "epid = ?", []any{epid}
	}
}

func videoKey(aid int64, bvid string) (string, []any) {
	switch {
	case aid != 0 && bvid != "":
		return "aid = ? OR bvid = ?", []any{aid, bvid}
	case bvid != "":
		return "bvid = ?", []any{bvid}
	default:
		return "aid = ?", []any{aid}
	}
}

func (r *repository) LookupDynamic(ctx context.Context, id int64, byRID bool, ttl time.Duration) (*entities.DynamicCache, error) {
	query, args := dynamicKey(id, byRID)
	return lookupRow[entities.DynamicCache](ctx, r.db, ttl, query, args...)
}

func (r *repository) UpsertDynamic(ctx context.Context, linkID int64, byRID bool, dynamicID, rid int64, content []byte) error {
	query, args := dynamicKey(linkID, byRID)
	row := &entities.DynamicCache{
		DynamicID: dynamicID,
		RID:       rid,
		Content:   datatypes.JSON(content),
		Created:   time.Now(),
	}
	return upsertRow(ctx, r.db, row, refresh(content), query, args...)
}

func (r *repository) LookupAudio(ctx context.Context, audioID int64, ttl time.Duration) (*entities.AudioCache, error) {
	return lookupRow[entities.AudioCache](ctx, r.db, ttl, "audio_id = ?", audioID)
}

func (r *repository) UpsertAudio(ctx context.Context, audioID int64, content []byte) error {
	row := &entities.AudioCache{
		AudioID: audioID,
		Content: datatypes.JSON(content),
		Created: time.Now(),
	}
	return upsertRow(ctx, r.db, row, refresh(content), "audio_id = ?", audioID)
}

func (r *repository) LookupLive(ctx context.Context, roomID int64, ttl time.Duration) (*entities.LiveCache, error) {
	return lookupRow[entities.LiveCache](ctx, r.db, ttl, "room_id = ?", roomID)
}

func (r *repository) UpsertLive(ctx context.Context, roomID int64, content []byte) error {
	row := &entities.LiveCache{
		RoomID:  roomID,
		Content: datatypes.JSON(content),
		Created: time.Now(),
	}
	return upsertRow(ctx, r.db, row, refresh(content), "room_id = ?", roomID)
}

func (r *repository) LookupBangumi(ctx context.Context, epid, ssid int64, ttl time.Duration) (*entities.BangumiCache, error) {
	query, args := bangumiKey(epid, ssid)
	return lookupRow[entities.BangumiCache](ctx, r.db, ttl, query, args...)
}

func (r *repository) UpsertBangumi(ctx context.Context, linkEPID, linkSSID, epid, ssid int64, content []byte) error {
	query, args := bangumiKey(linkEPID, linkSSID)
	row := &entities.BangumiCache{
		EPID:    epid,
		SSID:    ssid,
		Content: datatypes.JSON(content),
		Created: time.Now(),
	}
	return upsertRow(ctx, r.db, row, refresh(content), query, args...)
}

func (r *repository) LookupVideo(ctx context.Context, aid int64, bvid string, ttl time.Duration) (*entities.VideoCache, error) {
	query, args := videoKey(aid, bvid)
	return lookupRow[entities.VideoCache](ctx, r.db, ttl, query, args...)
}

func (r *repository) UpsertVideo(ctx context.Context, linkAID int64, linkBVID string, aid int64, bvid string, content []byte) error {
	query, args := videoKey(linkAID, linkBVID)
	row := &entities.VideoCache{
		AID:     aid,
		BVID:    bvid,
		Content: datatypes.JSON(content),
		Created: time.Now(),
	}
	return upsertRow(ctx, r.db, row, refresh(content), query, args...)
}

func (r *repository) LookupRead(ctx context.Context, readID int64, ttl time.Duration) (*entities.ReadCache, error) {
	return lookupRow[entities.ReadCache](ctx, r.db, ttl, "read_id = ?", readID)
}

func (r *repository) UpsertRead(ctx context.Context, readID int64, graphURL string) error {
	row := &entities.ReadCache{
		ReadID:   readID,
		GraphURL: graphURL,
		Created:  time.Now(),
	}
	update := map[string]any{
		"graph_url": graphURL,
		"created":   time.Now(),
	}
	return upsertRow(ctx, r.db, row, update, "read_id = ?", readID)
}

func (r *repository) LookupReply(ctx context.Context, oid int64, replyType int, ttl time.Duration) (*entities.ReplyCache, error) {
	return lookupRow[entities.ReplyCache](ctx, r.db, ttl, "oid = ? AND reply_type = ?", oid, replyType)
}

func (r *repository) UpsertReply(ctx context.Context, oid int64, replyType int, content []byte) error {
	row := &entities.ReplyCache{
		OID:       oid,
		ReplyType: replyType,
		Content:   datatypes.JSON(content),
		Created:   time.Now(),
	}
	return upsertRow(ctx, r.db, row, refresh(content), "oid = ? AND reply_type = ?", oid, replyType)
}

func (r *repository) Counts(ctx context.Context) ([]entities.CacheCount, error) {
	counts := make([]entities.CacheCount, 0, len(entities.CacheKindNames()))
	for _, kind := range entities.CacheKindNames() {
		model, _ := entities.CacheModel(kind)

		var rows int64
		if err := r.db.WithContext(ctx).Model(model).Count(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s cache: %w", kind, err)
		}
		counts = append(counts, entities.CacheCount{Kind: kind, Rows: rows})
	}
	return counts, nil
}

func (r *repository) DeleteKindBefore(ctx context.Context, kind string, cutoff time.Time) (int64, error) {
	model, ok := entities.CacheModel(kind)
	if !ok {
		return 0, fmt.Errorf("unknown cache kind: %q", kind)
	}

	result := r.db.WithContext(ctx).Where("created < ?", cutoff).Delete(model)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear %s cache: %w", kind, result.Error)
	}
	return result.RowsAffected, nil
}
