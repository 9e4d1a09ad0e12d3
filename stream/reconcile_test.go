package stream

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tasvirchi/tasvir/media"
)

func passThrough(d Descriptor, f Format) (media.Source, bool) {
	if d.URL == "" {
		return media.Source{}, false
	}
	return media.Source{ID: d.ID, URL: d.URL, MimeType: f.MimeType}, true
}

func TestProtocol(t *testing.T) {
	Convey("The base protocol comes from the CDN URL", t, func() {
		So(BaseProtocol("http://cdn.example.com"), ShouldEqual, "http")
		So(BaseProtocol("https://cdn.example.com"), ShouldEqual, "https")
		So(BaseProtocol("//cdn.example.com"), ShouldEqual, "https")
	})

	Convey("Protocol lists are matched exactly", t, func() {
		So(MatchProtocol("http,https", "https"), ShouldEqual, "https")
		So(MatchProtocol("http", "https"), ShouldEqual, "")
		So(MatchProtocol("", "http"), ShouldEqual, "http")
		So(MatchProtocol("", "https"), ShouldEqual, "")
	})
}

func TestSchemes(t *testing.T) {
	Convey("DRM scheme names are canonicalized", t, func() {
		So(CanonicalScheme("drm.WIDEVINE_CENC"), ShouldEqual, "com.widevine.alpha")
		So(CanonicalScheme("WIDEVINE_CENC"), ShouldEqual, "com.widevine.alpha")
		So(CanonicalScheme("drm.PLAYREADY_CENC"), ShouldEqual, "com.microsoft.playready")
		So(CanonicalScheme("fairplay.FAIRPLAY"), ShouldEqual, "com.apple.fairplay")
		So(CanonicalScheme("custom"), ShouldEqual, "custom")
		So(ConvertDRM(nil), ShouldBeNil)
	})
}

func TestReconcile(t *testing.T) {
	Convey("Given a reconciler passing URLs through", t, func() {
		r := Reconciler{
			Protocol: "https",
			Adaptive: passThrough,
			Renditions: func(d Descriptor, f Format) []media.Source {
				src, _ := passThrough(d, f)
				return []media.Source{src}
			},
		}

		Convey("Adaptive descriptors sharing a format keep the later one", func() {
			sources := r.Reconcile([]Descriptor{
				{ID: "a", Format: "applehttp", URL: "https://x/a.m3u8"},
				{ID: "dash", Format: "mpegdash", URL: "https://x/a.mpd"},
				{ID: "b", Format: "applehttp", URL: "https://x/b.m3u8"},
			})
			So(sources.HLS()[0].ID, ShouldEqual, "b")
			So(sources.DASH()[0].ID, ShouldEqual, "dash")
		})

		Convey("Descriptors without a usable URL are discarded", func() {
			sources := r.Reconcile([]Descriptor{
				{ID: "a", Format: "applehttp", URL: "https://x/a.m3u8"},
				{ID: "b", Format: "applehttp"},
			})
			So(sources.HLS()[0].ID, ShouldEqual, "a")
		})

		Convey("Unknown formats are ignored", func() {
			sources := r.Reconcile([]Descriptor{{ID: "a", Format: "hdnetworkmanifest", URL: "https://x/a"}})
			So(sources.Empty(), ShouldBeTrue)
		})

		Convey("DRM stays on the descriptor that declared it", func() {
			sources := r.Reconcile([]Descriptor{
				{ID: "a", Format: "mpegdash", URL: "https://x/a.mpd", DRM: []DRMEntry{{Scheme: "drm.WIDEVINE_CENC", LicenseURL: "https://lic"}}},
				{ID: "b", Format: "applehttp", URL: "https://x/b.m3u8"},
			})
			So(sources.DASH()[0].DRM, ShouldResemble, []media.DRM{{Scheme: "com.widevine.alpha", LicenseURL: "https://lic"}})
			So(sources.HLS()[0].DRM, ShouldBeNil)
		})

		Convey("Only the first progressive descriptor supporting the protocol is expanded", func() {
			sources := r.Reconcile([]Descriptor{
				{ID: "http-only", Format: "url", Protocols: "http", URL: "http://x/a.mp4"},
				{ID: "both", Format: "url", Protocols: "http,https", URL: "https://x/b.mp4"},
				{ID: "later", Format: "url", Protocols: "https", URL: "https://x/c.mp4"},
			})
			So(sources.Progressive, ShouldHaveLength, 1)
			So(sources.Progressive[0].ID, ShouldEqual, "both")
		})

		Convey("Every progressive descriptor is expanded when asked to", func() {
			r.EveryProgressive = true
			sources := r.Reconcile([]Descriptor{
				{ID: "a", Format: "url", URL: "https://x/a.mp4"},
				{ID: "b", Format: "url", URL: "https://x/b.mp4"},
			})
			So(sources.Progressive, ShouldHaveLength, 2)
		})
	})
}

func TestSplitRenditions(t *testing.T) {
	video := media.Source{ID: "v", Width: 640, Height: 360}
	audio := media.Source{ID: "a"}
	half := media.Source{ID: "h", Height: 360}

	Convey("Video renditions exclude audio-only renditions", t, func() {
		for _, input := range [][]media.Source{
			{video, audio},
			{audio, video, half},
			{audio, audio, video},
		} {
			out := SplitRenditions(input)
			So(out, ShouldNotBeEmpty)
			for _, s := range out {
				So(s.IsVideo(), ShouldBeTrue)
			}
		}
	})

	Convey("Audio-only renditions are kept when there is no video", t, func() {
		out := SplitRenditions([]media.Source{audio, half})
		So(out, ShouldHaveLength, 2)
		for _, s := range out {
			So(s.IsVideo(), ShouldBeFalse)
		}
	})

	Convey("Nothing in, nothing out", t, func() {
		So(SplitRenditions(nil), ShouldBeEmpty)
	})
}
