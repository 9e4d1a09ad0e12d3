// Package cache keeps fetched media configs on disk for a limited time.
package cache

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/samber/mo"
	"github.com/tasvirchi/tasvir/filesystem"
	"github.com/tasvirchi/tasvir/media"
)

type record struct {
	Config   media.MediaConfig `json:"config"`
	StoredAt time.Time         `json:"storedAt"`
}

type cacheData struct {
	Configs map[string]record `json:"configs"`
}

// MediaConfigs is a file backed cache of media configs. Each record expires
// on its own after the TTL.
type MediaConfigs struct {
	internal *gache.Cache[*cacheData]
	ttl      time.Duration
	now      func() time.Time
	mu       sync.RWMutex
}

func New(path string, ttl time.Duration) *MediaConfigs {
	return &MediaConfigs{
		internal: gache.New[*cacheData](&gache.Options{
			Path:       path,
			FileSystem: &filesystem.GacheFs{},
		}),
		ttl: ttl,
		now: time.Now,
	}
}

// Key identifies the config of one entry of one partner in one family.
// Requests for the same entry that produce different configs carry
// different variants.
func Key(family string, partnerID int, entryID, variant string) string {
	parts := []string{strings.ToLower(family), strconv.Itoa(partnerID), entryID}
	if variant != "" {
		parts = append(parts, variant)
	}
	return strings.Join(parts, ":")
}

func (c *MediaConfigs) Get(key string) mo.Option[media.MediaConfig] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, _, err := c.internal.Get()
	if err != nil || data == nil {
		return mo.None[media.MediaConfig]()
	}

	r, ok := data.Configs[key]
	if !ok || c.now().Sub(r.StoredAt) > c.ttl {
		return mo.None[media.MediaConfig]()
	}
	return mo.Some(r.Config)
}

// Set stores config under key and drops every expired record.
func (c *MediaConfigs) Set(key string, config media.MediaConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, _, err := c.internal.Get()
	if err != nil {
		return err
	}
	if data == nil || data.Configs == nil {
		data = &cacheData{Configs: make(map[string]record)}
	}

	now := c.now()
	for k, r := range data.Configs {
		if now.Sub(r.StoredAt) > c.ttl {
			delete(data.Configs, k)
		}
	}

	data.Configs[key] = record{Config: config, StoredAt: now}
	return c.internal.Set(data)
}

func (c *MediaConfigs) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, _, err := c.internal.Get()
	if err != nil || data == nil {
		return err
	}

	delete(data.Configs, key)
	return c.internal.Set(data)
}

// Len returns the number of records, expired ones included.
func (c *MediaConfigs) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, _, err := c.internal.Get()
	if err != nil || data == nil {
		return 0
	}
	return len(data.Configs)
}
