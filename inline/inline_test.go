package inline

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tasvirchi/tasvir/media"
)

func config(id string) media.MediaConfig {
	return media.MediaConfig{
		Session: media.Session{PartnerID: 1091, IsAnonymous: true},
		Sources: media.ConfigSources{
			ID:  id,
			HLS: []media.Source{{ID: id + "_hls", URL: "https://cdn/" + id + ".m3u8"}},
			Progressive: []media.Source{
				{ID: id + "_sd", URL: "https://cdn/" + id + "_sd.mp4", Bandwidth: 400},
				{ID: id + "_hd", URL: "https://cdn/" + id + "_hd.mp4", Bandwidth: 1000},
			},
			Metadata: map[string]any{"name": "Entry " + id},
		},
	}
}

func TestWriteMedia(t *testing.T) {
	Convey("Given one loaded and one failed entry", t, func() {
		var buf bytes.Buffer
		results := []Result{
			{ID: "1_abc", Config: config("1_abc")},
			{ID: "1_def", Err: errors.New("playback blocked: BLOCK")},
		}

		Convey("JSON mode reports both", func() {
			So(WriteMedia(results, &Options{Out: &buf, Json: true, Provider: "ovp"}), ShouldBeNil)

			var output Output
			So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
			So(output.Provider, ShouldEqual, "ovp")
			So(output.Result, ShouldHaveLength, 2)
			So(output.Result[0].Config.Sources.ID, ShouldEqual, "1_abc")
			So(output.Result[1].Config, ShouldBeNil)
			So(output.Result[1].Error, ShouldEqual, "playback blocked: BLOCK")
		})

		Convey("Plain mode prints the picked URLs of loaded entries", func() {
			best := lo.Must(ParseSourcePicker("best"))
			So(WriteMedia(results, &Options{Out: &buf, Picker: mo.Some(best)}), ShouldBeNil)
			So(buf.String(), ShouldEqual, "https://cdn/1_abc_hd.mp4\n")
		})

		Convey("Every source is printed by default", func() {
			So(WriteMedia(results, &Options{Out: &buf}), ShouldBeNil)
			So(bytes.Count(buf.Bytes(), []byte("\n")), ShouldEqual, 3)
		})
	})
}

func TestItemsFilter(t *testing.T) {
	Convey("Given a playlist of four items", t, func() {
		items := lo.Map([]string{"a", "b", "c", "d"}, func(id string, _ int) media.PlaylistItem {
			return media.PlaylistItem{Sources: config(id).Sources}
		})
		ids := func(items []media.PlaylistItem) []string {
			return lo.Map(items, func(item media.PlaylistItem, _ int) string { return item.Sources.ID })
		}

		cases := map[string][]string{
			"first":     {"a"},
			"last":      {"d"},
			"all":       {"a", "b", "c", "d"},
			"1-2":       {"b", "c"},
			"2-10":      {"c", "d"},
			"3":         {"d"},
			"9":         {},
			"@entry c@": {"c"},
		}
		for description, want := range cases {
			filter, err := ParseItemsFilter(description)
			So(err, ShouldBeNil)
			So(ids(filter(items)), ShouldResemble, want)
		}

		_, err := ParseItemsFilter("nope")
		So(err, ShouldNotBeNil)
	})
}

func TestWritePlaylist(t *testing.T) {
	Convey("Given a filtered playlist in JSON mode", t, func() {
		var buf bytes.Buffer
		playlist := media.PlaylistConfig{ID: "0_pl", Items: []media.PlaylistItem{
			{Sources: config("a").Sources}, {Sources: config("b").Sources},
		}}
		last := lo.Must(ParseItemsFilter("last"))

		So(WritePlaylist(playlist, &Options{Out: &buf, Json: true, Filter: mo.Some(last)}), ShouldBeNil)

		var output PlaylistOutput
		So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
		So(output.Playlist.ID, ShouldEqual, "0_pl")
		So(output.Playlist.Items, ShouldHaveLength, 1)
		So(output.Playlist.Items[0].Sources.ID, ShouldEqual, "b")
	})
}

func TestSchema(t *testing.T) {
	Convey("Every schema target reflects", t, func() {
		for _, target := range SchemaTargets {
			schema, err := Schema(target)
			So(err, ShouldBeNil)
			So(schema, ShouldNotBeNil)
		}

		_, err := Schema("episode")
		So(err, ShouldNotBeNil)
	})
}
