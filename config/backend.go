package config

import (
	"github.com/spf13/viper"
	"github.com/tasvirchi/tasvir/key"
	"github.com/tasvirchi/tasvir/ott"
	"github.com/tasvirchi/tasvir/ovp"
	"github.com/tasvirchi/tasvir/provider"
)

// OVPEnv builds the OVP backend configuration from the current settings.
func OVPEnv() ovp.Env {
	env := ovp.DefaultEnv()
	env.ServiceURL = viper.GetString(key.OVPServiceURL)
	env.CDNURL = viper.GetString(key.OVPCDNURL)
	env.UseAPICaptions = viper.GetBool(key.OVPUseAPICaptions)
	env.LoadThumbnailWithTS = viper.GetBool(key.OVPLoadThumbnailWithTS)
	env.ReplaceHostOnlyManifestURLs = viper.GetBool(key.OVPReplaceHostOnlyManifestURLs)
	return env
}

func OTTEnv() ott.Env {
	env := ott.DefaultEnv()
	env.ServiceURL = viper.GetString(key.OTTServiceURL)
	return env
}

func Envs() provider.Envs {
	return provider.Envs{OVP: OVPEnv(), OTT: OTTEnv()}
}

// Options builds the provider options of the configured session. A
// non-empty ts replaces none.
func Options(ts string) provider.Options {
	return provider.Options{
		PartnerID:     viper.GetInt(key.SessionPartnerID),
		UIConfID:      viper.GetInt(key.SessionUIConfID),
		WidgetID:      viper.GetString(key.SessionWidgetID),
		TS:            ts,
		PlayerVersion: viper.GetString(key.PlayerVersion),
	}
}
