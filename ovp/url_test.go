package ovp

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPlaySourceURL(t *testing.T) {
	Convey("Given complete play url params", t, func() {
		params := PlayURLParams{
			CDNURL:    "https://cdnapisec.tasvirchi.com",
			PartnerID: 2452771,
			EntryID:   "1_5w23wdlc",
			FlavorIDs: "1_ww66hsaf,1_rrq1jzct",
			Format:    "applehttp",
			Protocol:  "https",
			Extension: "m3u8",
			TS:        "abc",
		}

		Convey("The manifest url carries every segment", func() {
			So(PlaySourceURL(params), ShouldEqual,
				"https://cdnapisec.tasvirchi.com/p/2452771/sp/245277100/playManifest/entryId/1_5w23wdlc/protocol/https/format/applehttp/flavorIds/1_ww66hsaf,1_rrq1jzct/ts/abc/a.m3u8")
		})

		Convey("A ui conf is appended as a query when flavors are set", func() {
			params.UIConfID = 38601981
			So(PlaySourceURL(params), ShouldEndWith, "/ts/abc/a.m3u8?uiConfId=38601981")
		})

		Convey("A ui conf replaces missing flavors in the path", func() {
			params.UIConfID = 38601981
			params.FlavorIDs = ""
			params.TS = ""
			So(PlaySourceURL(params), ShouldEndWith, "/format/applehttp/uiConfId/38601981/a.m3u8")
		})

		Convey("A missing mandatory part yields no url", func() {
			for _, reset := range []func(*PlayURLParams){
				func(p *PlayURLParams) { p.CDNURL = "" },
				func(p *PlayURLParams) { p.PartnerID = 0 },
				func(p *PlayURLParams) { p.EntryID = "" },
				func(p *PlayURLParams) { p.Format = "" },
				func(p *PlayURLParams) { p.Protocol = "" },
			} {
				p := params
				reset(&p)
				So(PlaySourceURL(p), ShouldBeEmpty)
			}
		})
	})
}
