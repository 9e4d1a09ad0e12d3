package util

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tasvirchi/tasvir/filesystem"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "entry", "entries"), ShouldEqual, "1 entry")
		So(Quantify(0, "entry", "entries"), ShouldEqual, "0 entries")
		So(Quantify(2, "entry", "entries"), ShouldEqual, "2 entries")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("cache"), ShouldEqual, "Cache")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestWrap(t *testing.T) {
	Convey("Given a long description", t, func() {
		s := "read the session ts stored by login"

		Convey("When wrapped at 12 columns", func() {
			wrapped := Wrap(s, 12)

			Convey("Then no line is wider than the limit", func() {
				So(wrapped, ShouldContainSubstring, "\n")
				for _, line := range strings.Split(wrapped, "\n") {
					So(len(line), ShouldBeLessThanOrEqualTo, 12)
				}
			})
		})
	})
}

func TestDelete(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()

		Convey("When a directory tree is deleted", func() {
			So(fs.MkdirAll("/cache/a", 0o755), ShouldBeNil)
			So(fs.WriteFile("/cache/a/media.json", []byte("{}"), 0o644), ShouldBeNil)
			So(Delete("/cache"), ShouldBeNil)

			Convey("Then nothing is left", func() {
				exists, err := fs.Exists("/cache")
				So(err, ShouldBeNil)
				So(exists, ShouldBeFalse)
			})
		})

		Convey("When a missing path is deleted", func() {
			Convey("Then an error is returned", func() {
				So(Delete("/nope"), ShouldNotBeNil)
			})
		})
	})
}
