package config

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/tasvirchi/tasvir/filesystem"
	"github.com/tasvirchi/tasvir/key"
	"github.com/tasvirchi/tasvir/ovp"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			So(Setup(), ShouldBeNil)
		})

		Convey("Every key is registered once", func() {
			So(Default, ShouldHaveLength, key.DefinedFieldsCount)
			So(EnvExposed, ShouldHaveLength, key.DefinedFieldsCount)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
		})

		Convey("Env names carry the application prefix", func() {
			f := Default[key.OVPCDNURL]
			So(f.Env(), ShouldEqual, "TASVIR_OVP_CDN_URL")
		})
	})
}

func TestBackend(t *testing.T) {
	Convey("Given the default settings", t, func() {
		So(Setup(), ShouldBeNil)

		Convey("The OVP env is the production one", func() {
			So(OVPEnv(), ShouldResemble, ovp.DefaultEnv())
		})

		Convey("Settings flow into the env and the options", func() {
			viper.Set(key.OVPReplaceHostOnlyManifestURLs, true)
			viper.Set(key.SessionPartnerID, 1091)
			viper.Set(key.SessionWidgetID, "_custom")
			defer viper.Set(key.OVPReplaceHostOnlyManifestURLs, false)
			defer viper.Set(key.SessionPartnerID, 0)
			defer viper.Set(key.SessionWidgetID, "")

			So(OVPEnv().ReplaceHostOnlyManifestURLs, ShouldBeTrue)

			opts := Options("user-ts")
			So(opts.PartnerID, ShouldEqual, 1091)
			So(opts.WidgetID, ShouldEqual, "_custom")
			So(opts.TS, ShouldEqual, "user-ts")
		})
	})
}
