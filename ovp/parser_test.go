package ovp

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tasvirchi/tasvir/media"
)

const testTS = "djJ8MjQ1Mjc3MX"

const entryJSON = `{
	"id": "1_5w23wdlc",
	"referenceId": "ref-1",
	"name": "Tips & Tricks",
	"description": "Wrapping up a video",
	"thumbnailUrl": "https://cfvod.tasvirchi.com/p/2452771/sp/245277100/thumbnail/entry_id/1_5w23wdlc/version/100011",
	"duration": 206,
	"mediaType": 1,
	"type": 1,
	"tags": "video, tips",
	"createdAt": 1543337883,
	"status": 2
}`

const contextJSON = `{
	"sources": [
		{
			"deliveryProfileId": 13942,
			"format": "applehttp",
			"protocols": "http,https",
			"flavorIds": "1_ww66hsaf,1_rrq1jzct",
			"url": "https://cdnapisec.tasvirchi.com/p/2452771/sp/245277100/playManifest/entryId/1_5w23wdlc/protocol/https/format/applehttp/a.m3u8"
		},
		{
			"deliveryProfileId": 911,
			"format": "mpegdash",
			"protocols": "http,https",
			"flavorIds": "1_ww66hsaf",
			"url": "",
			"drm": [{"scheme": "drm.WIDEVINE_CENC", "licenseURL": "https://udrm.tasvirchi.com/widevine"}]
		},
		{
			"deliveryProfileId": 15,
			"format": "url",
			"protocols": "http,https",
			"flavorIds": "1_ww66hsaf,1_rrq1jzct",
			"url": ""
		}
	],
	"flavorAssets": [
		{"id": "1_ww66hsaf", "fileExt": "mp4", "bitrate": 1000, "width": 1280, "height": 720, "label": "HD"},
		{"id": "1_rrq1jzct", "fileExt": "mp4", "bitrate": 400, "width": 640, "height": 360, "language": "English"}
	],
	"playbackCaptions": [
		{"label": "English", "format": "3", "languageCode": "en", "url": "https://cfvod.tasvirchi.com/captions.vtt", "webVttUrl": "https://cfvod.tasvirchi.com/mirror.vtt", "isDefault": true},
		{"label": "Deutsch", "format": "2", "languageCode": "de", "url": "https://cfvod.tasvirchi.com/captions.xml", "webVttUrl": "https://cfvod.tasvirchi.com/captions_de.vtt"}
	],
	"actions": [],
	"messages": [],
	"bumperData": []
}`

const metadataJSON = `{
	"totalCount": 1,
	"objects": [{"xml": "<metadata>\n  <Director>Ada</Director>\n  <Year>2018</Year>\n  <Empty/>\n</metadata>"}]
}`

func decode[T any](raw string) T {
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		panic(err)
	}
	return v
}

func mediaResponse() MediaResponse {
	return MediaResponse{
		Entry:           decode[Entry](entryJSON),
		PlaybackContext: decode[PlaybackContext](contextJSON),
		Metadata:        decode[MetadataList](metadataJSON),
	}
}

func testParser() Parser {
	return Parser{Env: DefaultEnv(), PartnerID: 2452771, TS: testTS}
}

func TestMediaEntry(t *testing.T) {
	Convey("Given a vod entry with flavors, captions and metadata", t, func() {
		r := mediaResponse()
		entry := testParser().MediaEntry(r)

		Convey("The base data is normalized", func() {
			So(entry.ID, ShouldEqual, "1_5w23wdlc")
			So(entry.Type, ShouldEqual, media.VOD)
			So(entry.DVR, ShouldEqual, media.DVRAbsent)
			So(entry.Duration, ShouldEqual, 206)
			So(entry.Poster, ShouldStartWith, "https://cfvod.tasvirchi.com/p/2452771")
			So(entry.Metadata["name"], ShouldEqual, "Tips & Tricks")
			So(entry.Metadata["entryId"], ShouldEqual, "1_5w23wdlc")
			So(entry.Metadata["createdAt"], ShouldEqual, int64(1543337883))
			So(entry.Metadata, ShouldNotContainKey, "views")
		})

		Convey("Custom metadata documents are flattened", func() {
			So(entry.Metadata["Director"], ShouldEqual, "Ada")
			So(entry.Metadata["Year"], ShouldEqual, "2018")
			So(entry.Metadata, ShouldNotContainKey, "Empty")
		})

		Convey("Adaptive sources are built from the manifest template", func() {
			hls := entry.Sources.HLS()
			So(hls, ShouldHaveLength, 1)
			So(hls[0].ID, ShouldEqual, "1_5w23wdlc_13942,applehttp")
			So(hls[0].MimeType, ShouldEqual, "application/x-mpegURL")
			So(hls[0].URL, ShouldEqual,
				"https://cdnapisec.tasvirchi.com/p/2452771/sp/245277100/playManifest/entryId/1_5w23wdlc/protocol/https/format/applehttp/flavorIds/1_ww66hsaf,1_rrq1jzct/ts/"+testTS+"/a.m3u8")
			So(hls[0].DRM, ShouldBeNil)

			dash := entry.Sources.DASH()
			So(dash, ShouldHaveLength, 1)
			So(dash[0].URL, ShouldEndWith, "/a.mpd")
			So(dash[0].DRM, ShouldResemble, []media.DRM{{Scheme: "com.widevine.alpha", LicenseURL: "https://udrm.tasvirchi.com/widevine"}})
		})

		Convey("Every flavor becomes a progressive rendition", func() {
			progressive := entry.Sources.Progressive
			So(progressive, ShouldHaveLength, 2)
			So(progressive[0].ID, ShouldEqual, "1_ww66hsaf15,url")
			So(progressive[0].MimeType, ShouldEqual, "video/mp4")
			So(progressive[0].Bandwidth, ShouldEqual, 1000*1024)
			So(progressive[0].Label, ShouldEqual, "HD")
			So(progressive[1].Label, ShouldEqual, "English")
			So(progressive[0].URL, ShouldEndWith, "/format/url/flavorIds/1_ww66hsaf/ts/"+testTS+"/a.mp4")
		})

		Convey("Convertible captions are served from their WebVTT mirror", func() {
			captions := entry.Sources.Captions
			So(captions, ShouldHaveLength, 2)
			So(captions[0], ShouldResemble, media.Caption{
				Default:  true,
				Type:     "vtt",
				Language: "en",
				Label:    "English",
				URL:      "https://cfvod.tasvirchi.com/captions.vtt?ts=" + testTS,
			})
			So(captions[1].Type, ShouldEqual, "vtt")
			So(captions[1].URL, ShouldEqual, "https://cfvod.tasvirchi.com/captions_de.vtt?ts="+testTS)
		})

		Convey("Live entries get no captions and keep their DVR state", func() {
			r.Entry.Type = EntryTypeLiveStream
			r.Entry.DVRStatus = 1
			live := testParser().MediaEntry(r)
			So(live.Type, ShouldEqual, media.Live)
			So(live.DVR, ShouldEqual, media.DVROn)
			So(live.Sources.Captions, ShouldBeEmpty)
		})

		Convey("API captions can be disabled", func() {
			p := testParser()
			p.Env.UseAPICaptions = false
			So(p.MediaEntry(r).Sources.Captions, ShouldBeEmpty)
		})

		Convey("The poster can carry the session token", func() {
			p := testParser()
			p.Env.LoadThumbnailWithTS = true
			So(p.MediaEntry(r).Poster, ShouldEndWith, "/version/100011/ts/"+testTS)
		})
	})
}

func TestMediaEntryKinds(t *testing.T) {
	Convey("Given entries that are not streamed", t, func() {
		r := mediaResponse()

		Convey("External media plays its reference id", func() {
			r.Entry.Type = EntryTypeExternalMedia
			entry := testParser().MediaEntry(r)
			So(entry.Type, ShouldEqual, media.Unknown)
			So(entry.Sources.Progressive, ShouldResemble, []media.Source{{
				ID:       "1_5w23wdlc_youtube",
				URL:      "ref-1",
				MimeType: "video/youtube",
			}})
			So(entry.Sources.Adaptive, ShouldBeEmpty)
		})

		Convey("Images expose their data url", func() {
			r.Entry.MediaType = MediaTypeImage
			r.Entry.DataURL = "https://cfvod.tasvirchi.com/image.jpg"
			entry := testParser().MediaEntry(r)
			So(entry.Type, ShouldEqual, media.Image)
			So(entry.Sources.Image, ShouldResemble, []media.ImageSource{{ID: "1_5w23wdlc", URL: "https://cfvod.tasvirchi.com/image.jpg"}})
			So(entry.Sources.Progressive, ShouldBeEmpty)
		})

		Convey("Documents expose their data url and thumbnail", func() {
			r.Entry.Type = EntryTypeDocument
			r.Entry.DataURL = "https://cfvod.tasvirchi.com/doc.pdf"
			entry := testParser().MediaEntry(r)
			So(entry.Type, ShouldEqual, media.Document)
			So(entry.Sources.Document, ShouldHaveLength, 1)
			So(entry.Sources.Document[0].ThumbnailURL, ShouldEqual, r.Entry.ThumbnailURL)
		})

		Convey("Audio is recognized by media type", func() {
			r.Entry.MediaType = MediaTypeAudio
			So(EntryType(r.Entry), ShouldEqual, media.Audio)
		})
	})
}

func TestHostRegex(t *testing.T) {
	Convey("Given a playback context with a host regex action", t, func() {
		r := mediaResponse()
		r.PlaybackContext = decode[PlaybackContext](strings.Replace(contextJSON, `"actions": []`, `"actions": [{
			"pattern": "^(https?):\\/\\/([^\\/]+)(\\/)?",
			"replacement": "$1://tesdev2.ecdn.tasvirchi.io/tAPI/$2",
			"replacmenServerNodeId": 31042,
			"checkAliveTimeoutMs": 3000,
			"type": 7,
			"objectType": "TasvirchiAccessControlModifyRequestHostRegexAction"
		}]`, 1))

		const proxy = "https://tesdev2.ecdn.tasvirchi.io/tAPI/"

		Convey("Every url is rewritten by default", func() {
			entry := testParser().MediaEntry(r)
			So(entry.Sources.HLS()[0].URL, ShouldStartWith, proxy+"cdnapisec.tasvirchi.com/p/2452771/")
			So(entry.Sources.Progressive[0].URL, ShouldStartWith, proxy+"cdnapisec.tasvirchi.com/p/2452771/")
			So(entry.Sources.Captions[0].URL, ShouldStartWith, proxy+"cfvod.tasvirchi.com/captions.vtt")
			So(entry.Poster, ShouldStartWith, proxy+"cfvod.tasvirchi.com/p/2452771/")
		})

		Convey("Only playable urls are rewritten when limited to manifests", func() {
			p := testParser()
			p.Env.ReplaceHostOnlyManifestURLs = true
			entry := p.MediaEntry(r)
			So(entry.Sources.HLS()[0].URL, ShouldStartWith, proxy)
			So(entry.Sources.Progressive[0].URL, ShouldStartWith, proxy)
			So(entry.Sources.Captions[0].URL, ShouldStartWith, "https://cfvod.tasvirchi.com/")
			So(entry.Poster, ShouldStartWith, "https://cfvod.tasvirchi.com/")
		})
	})
}

func TestActions(t *testing.T) {
	Convey("Given playback contexts with access control actions", t, func() {
		Convey("A block action is found by name", func() {
			ctx := decode[PlaybackContext](`{"actions":[{"type":"BLOCK"}],"messages":[{"message":"Concurrency limitation","code":"ConcurrencyLimitation"}]}`)
			action, ok := ctx.BlockAction()
			So(ok, ShouldBeTrue)
			So(action.Type, ShouldEqual, media.ActionBlock)
			So(ctx.HasBlockAction(), ShouldBeTrue)
			So(ctx.Messages[0].Code, ShouldEqual, "ConcurrencyLimitation")
		})

		Convey("A block action is found by object type", func() {
			ctx := decode[PlaybackContext](`{"actions":[{"type":1,"objectType":"TasvirchiAccessControlBlockAction"}]}`)
			So(ctx.HasBlockAction(), ShouldBeTrue)
		})

		Convey("Other known actions do not block", func() {
			ctx := decode[PlaybackContext](`{"actions":[{"type":3,"objectType":"TasvirchiAccessControlLimitFlavorsAction"}]}`)
			So(ctx.HasBlockAction(), ShouldBeFalse)
			_, ok := ctx.HostRegexAction()
			So(ok, ShouldBeFalse)
		})

		Convey("An unknown action fails the decode", func() {
			var ctx PlaybackContext
			err := json.Unmarshal([]byte(`{"actions":[{"type":"SELF_DESTRUCT"}]}`), &ctx)
			So(errors.Is(err, media.ErrUnknownAction), ShouldBeTrue)

			err = json.Unmarshal([]byte(`{"actions":[{"type":1,"objectType":"TasvirchiAccessControlMysteryAction"}]}`), &ctx)
			So(errors.Is(err, media.ErrUnknownAction), ShouldBeTrue)
		})
	})
}

func TestBumper(t *testing.T) {
	Convey("Given a playback context with bumper data", t, func() {
		ctx := decode[PlaybackContext](`{
			"flavorAssets": [{"id": "0_bump", "fileExt": "mp4", "bitrate": 500, "width": 640, "height": 360}],
			"bumperData": [{
				"entryId": "0_bumper",
				"url": "https://example.com/click",
				"sources": [
					{"deliveryProfileId": 1, "format": "applehttp", "protocols": "https", "flavorIds": "0_bump"},
					{"deliveryProfileId": 2, "format": "url", "protocols": "http,https", "flavorIds": "0_bump"}
				]
			}]
		}`)

		Convey("The first progressive rendition of the bumper entry is used", func() {
			bumper, ok := testParser().Bumper(ctx)
			So(ok, ShouldBeTrue)
			So(bumper.ClickThroughURL, ShouldEqual, "https://example.com/click")
			So(bumper.URL, ShouldContainSubstring, "/entryId/0_bumper/protocol/https/format/url/flavorIds/0_bump/")
		})

		Convey("No bumper data yields no bumper", func() {
			_, ok := testParser().Bumper(PlaybackContext{})
			So(ok, ShouldBeFalse)
		})

		Convey("A bumper without a progressive source yields no bumper", func() {
			ctx.BumperData[0].Sources = ctx.BumperData[0].Sources[:1]
			_, ok := testParser().Bumper(ctx)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestPlaylist(t *testing.T) {
	Convey("Given a playlist response with view history", t, func() {
		r := PlaylistResponse{
			Playlist:    PlaylistData{ID: "0_pl", Name: "Best of", Description: "desc", ThumbnailURL: "https://example.com/pl.jpg"},
			Items:       []Entry{decode[Entry](entryJSON), {ID: "0_two", Type: EntryTypeLiveChannel}},
			UserEntries: []UserEntry{{PlaylistLastEntryID: "0_two"}},
		}

		playlist := testParser().Playlist(r)

		So(playlist.ID, ShouldEqual, "0_pl")
		So(playlist.Poster, ShouldEqual, "https://example.com/pl.jpg")
		So(playlist.LastEntryID, ShouldEqual, "0_two")
		So(playlist.Items, ShouldHaveLength, 2)
		So(playlist.Items[1].Type, ShouldEqual, media.Live)
		So(playlist.Items[1].DVR, ShouldEqual, media.DVROff)
		So(playlist.Items[0].Sources.Empty(), ShouldBeTrue)
	})
}
