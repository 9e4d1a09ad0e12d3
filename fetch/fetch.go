// Package fetch runs provider calls for the command line and the HTTP server,
// with the media config cache in front of them.
package fetch

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/tasvirchi/tasvir/cache"
	"github.com/tasvirchi/tasvir/inline"
	"github.com/tasvirchi/tasvir/log"
	"github.com/tasvirchi/tasvir/media"
	"github.com/tasvirchi/tasvir/provider"
	"golang.org/x/sync/errgroup"
)

// Parallel is how many entries Many fetches at once.
const Parallel = 4

type Fetcher struct {
	Family  *provider.Family
	Envs    provider.Envs
	Options provider.Options
	// Cache is optional. Only configs of anonymous sessions are stored:
	// no ts and no widget session.
	Cache *cache.MediaConfigs
}

func (f *Fetcher) provider() provider.Provider {
	return f.Family.Create(f.Options, f.Envs)
}

// variant digests everything besides the entry id that shapes the config.
func (f *Fetcher) variant(info provider.MediaInfo) (string, error) {
	info.EntryID, info.TS = "", ""
	data, err := json.Marshal(struct {
		Info          provider.MediaInfo `json:"info"`
		UIConfID      int                `json:"uiConfId"`
		PlayerVersion string             `json:"playerVersion"`
		Envs          provider.Envs      `json:"envs"`
	}{info, f.Options.UIConfID, f.Options.PlayerVersion, f.Envs})
	if err != nil {
		return "", err
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, data).String(), nil
}

func (f *Fetcher) cacheKey(info provider.MediaInfo) (string, bool) {
	if f.Cache == nil || info.EntryID == "" {
		return "", false
	}
	if lo.CoalesceOrEmpty(info.TS, f.Options.TS) != "" || f.Options.WidgetID != "" {
		return "", false
	}

	variant, err := f.variant(info)
	if err != nil {
		log.Warnf("not caching %s: %s", info.EntryID, err)
		return "", false
	}
	return cache.Key(f.Family.ID, f.Options.PartnerID, info.EntryID, variant), true
}

// Media returns the config of one entry. The flag reports a cache hit.
func (f *Fetcher) Media(ctx context.Context, info provider.MediaInfo) (media.MediaConfig, bool, error) {
	key, cacheable := f.cacheKey(info)
	if cacheable {
		if config, ok := f.Cache.Get(key).Get(); ok {
			log.Debugf("cache hit %s", key)
			return config, true, nil
		}
	}

	config, err := f.provider().GetMediaConfig(ctx, info)
	if err != nil {
		return media.MediaConfig{}, false, err
	}

	if cacheable {
		if err := f.Cache.Set(key, config); err != nil {
			log.Warnf("caching %s: %s", key, err)
		}
	}
	return config, false, nil
}

// Many fetches every entry on its own. A failed entry does not stop the
// others; its error ends up in its result.
func (f *Fetcher) Many(ctx context.Context, infos []provider.MediaInfo) []inline.Result {
	results := make([]inline.Result, len(infos))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(Parallel)
	for i, info := range infos {
		g.Go(func() error {
			config, _, err := f.Media(ctx, info)
			results[i] = inline.Result{ID: lo.CoalesceOrEmpty(info.EntryID, info.ReferenceID), Config: config, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (f *Fetcher) EntryList(ctx context.Context, info provider.EntryListInfo) (media.PlaylistConfig, error) {
	return f.provider().GetEntryListConfig(ctx, info)
}

func (f *Fetcher) Playlist(ctx context.Context, info provider.PlaylistInfo) (media.PlaylistConfig, error) {
	return f.provider().GetPlaylistConfig(ctx, info)
}
