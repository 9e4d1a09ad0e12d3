package fetch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tasvirchi/tasvir/cache"
	"github.com/tasvirchi/tasvir/filesystem"
	"github.com/tasvirchi/tasvir/media"
	"github.com/tasvirchi/tasvir/provider"
)

func init() {
	filesystem.SetMemMapFs()
}

var errMissing = errors.New("entry not found")

// stub answers every entry except "missing" with a config carrying its id.
type stub struct {
	calls atomic.Int32
}

func (s *stub) GetMediaConfig(_ context.Context, info provider.MediaInfo) (media.MediaConfig, error) {
	s.calls.Add(1)
	if info.EntryID == "missing" {
		return media.MediaConfig{}, errMissing
	}
	return media.MediaConfig{
		Session: media.Session{PartnerID: 1091, IsAnonymous: info.TS == ""},
		Sources: media.ConfigSources{ID: info.EntryID, Type: lo.Ternary(info.ContextType == "TRAILER", media.VOD, media.Live)},
	}, nil
}

func (s *stub) GetEntryListConfig(context.Context, provider.EntryListInfo) (media.PlaylistConfig, error) {
	return media.PlaylistConfig{}, nil
}

func (s *stub) GetPlaylistConfig(_ context.Context, info provider.PlaylistInfo) (media.PlaylistConfig, error) {
	return media.PlaylistConfig{ID: info.PlaylistID}, nil
}

func TestFetcher(t *testing.T) {
	Convey("Given a fetcher with a cache", t, func() {
		s := &stub{}
		path := "/cache/media.json"
		defer func() { _ = filesystem.API().Remove(path) }()

		f := &Fetcher{
			Family:  &provider.Family{ID: "ovp", Create: func(provider.Options, provider.Envs) provider.Provider { return s }},
			Options: provider.Options{PartnerID: 1091},
			Cache:   cache.New(path, time.Hour),
		}
		ctx := context.Background()

		Convey("An anonymous config is served from the cache the second time", func() {
			config, cached, err := f.Media(ctx, provider.MediaInfo{EntryID: "1_abc"})
			So(err, ShouldBeNil)
			So(cached, ShouldBeFalse)
			So(config.Sources.ID, ShouldEqual, "1_abc")

			again, cached, err := f.Media(ctx, provider.MediaInfo{EntryID: "1_abc"})
			So(err, ShouldBeNil)
			So(cached, ShouldBeTrue)
			So(again.Sources.ID, ShouldEqual, "1_abc")
			So(int(s.calls.Load()), ShouldEqual, 1)
		})

		Convey("A config of a user session is never cached", func() {
			info := provider.MediaInfo{EntryID: "1_abc", TS: "user-ts"}
			_, _, err := f.Media(ctx, info)
			So(err, ShouldBeNil)
			_, cached, err := f.Media(ctx, info)
			So(err, ShouldBeNil)
			So(cached, ShouldBeFalse)
			So(int(s.calls.Load()), ShouldEqual, 2)
			So(f.Cache.Len(), ShouldEqual, 0)
		})

		Convey("Requests differing beyond the entry id get their own configs", func() {
			trailer, _, err := f.Media(ctx, provider.MediaInfo{EntryID: "480097", ContextType: "TRAILER"})
			So(err, ShouldBeNil)
			So(trailer.Sources.Type, ShouldEqual, media.VOD)

			playback, cached, err := f.Media(ctx, provider.MediaInfo{EntryID: "480097", ContextType: "PLAYBACK"})
			So(err, ShouldBeNil)
			So(cached, ShouldBeFalse)
			So(playback.Sources.Type, ShouldEqual, media.Live)

			_, cached, err = f.Media(ctx, provider.MediaInfo{EntryID: "480097", ContextType: "PLAYBACK", Formats: []string{"dash"}})
			So(err, ShouldBeNil)
			So(cached, ShouldBeFalse)

			f.Options.UIConfID = 15215933
			_, cached, err = f.Media(ctx, provider.MediaInfo{EntryID: "480097", ContextType: "TRAILER"})
			So(err, ShouldBeNil)
			So(cached, ShouldBeFalse)

			So(int(s.calls.Load()), ShouldEqual, 4)
			So(f.Cache.Len(), ShouldEqual, 4)

			_, cached, err = f.Media(ctx, provider.MediaInfo{EntryID: "480097", ContextType: "TRAILER"})
			So(err, ShouldBeNil)
			So(cached, ShouldBeTrue)
		})

		Convey("A widget session is never cached", func() {
			f.Options.WidgetID = "_1091"
			_, _, err := f.Media(ctx, provider.MediaInfo{EntryID: "1_abc"})
			So(err, ShouldBeNil)
			_, cached, err := f.Media(ctx, provider.MediaInfo{EntryID: "1_abc"})
			So(err, ShouldBeNil)
			So(cached, ShouldBeFalse)
			So(f.Cache.Len(), ShouldEqual, 0)
		})

		Convey("Errors are not cached", func() {
			_, _, err := f.Media(ctx, provider.MediaInfo{EntryID: "missing"})
			So(err, ShouldEqual, errMissing)
			So(f.Cache.Len(), ShouldEqual, 0)
		})

		Convey("Many keeps the request order and isolates failures", func() {
			results := f.Many(ctx, []provider.MediaInfo{
				{EntryID: "1_a"},
				{EntryID: "missing"},
				{EntryID: "1_c"},
			})

			So(results, ShouldHaveLength, 3)
			So(results[0].ID, ShouldEqual, "1_a")
			So(results[0].Config.Sources.ID, ShouldEqual, "1_a")
			So(results[1].Err, ShouldEqual, errMissing)
			So(results[2].Config.Sources.ID, ShouldEqual, "1_c")
		})

		Convey("Playlists go straight to the provider", func() {
			config, err := f.Playlist(ctx, provider.PlaylistInfo{PlaylistID: "0_pl"})
			So(err, ShouldBeNil)
			So(config.ID, ShouldEqual, "0_pl")
		})
	})
}
