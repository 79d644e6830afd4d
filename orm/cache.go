package orm

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CacheEntry stores a cached upstream response
type CacheEntry struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte // Raw JSON
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"index"`
}

func (CacheEntry) TableName() string { return "response_cache" }

// ResponseCache keeps tool responses for a fixed time
type ResponseCache struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewResponseCache returns nil when ttl is not positive, which disables caching
func NewResponseCache(db *gorm.DB, ttl time.Duration) *ResponseCache {
	if db == nil || ttl <= 0 {
		return nil
	}
	return &ResponseCache{db: db, ttl: ttl, now: time.Now}
}

// Get returns the stored value for key, or false when missing or expired
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	var entry CacheEntry
	err := c.db.WithContext(ctx).Where("key = ? AND expires_at > ?", key, c.now()).First(&entry).Error
	if err != nil {
		return nil, false
	}
	return entry.Value, true
}

// Set upserts the value for key
func (c *ResponseCache) Set(ctx context.Context, key string, value []byte) error {
	if c == nil {
		return nil
	}
	now := c.now()
	entry := CacheEntry{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}
	return c.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&entry).Error
}

// Cleanup removes expired entries
func (c *ResponseCache) Cleanup(ctx context.Context) error {
	if c == nil {
		return errors.New("cache disabled")
	}
	return c.db.WithContext(ctx).Where("expires_at <= ?", c.now()).Delete(&CacheEntry{}).Error
}
