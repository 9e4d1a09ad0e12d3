// Package ovp loads entries, playlists and entry lists from the OVP backend
// family and normalizes them into the media model.
package ovp

import (
	"maps"
	"strconv"
)

// Default endpoints of the OVP backend.
const (
	DefaultServiceURL = "https://cdnapisec.tasvirchi.com/api_v3"
	DefaultCDNURL     = "https://cdnapisec.tasvirchi.com"
)

// Env is the per-provider configuration of the OVP family.
type Env struct {
	ServiceURL    string
	CDNURL        string
	ServiceParams map[string]any
	// UseAPICaptions attaches the captions the backend lists for non-live entries.
	UseAPICaptions bool
	// LoadThumbnailWithTS stamps the poster URL with the session token.
	LoadThumbnailWithTS bool
	// ReplaceHostOnlyManifestURLs limits host rewriting to playable sources.
	ReplaceHostOnlyManifestURLs bool
}

// DefaultEnv returns the production configuration.
func DefaultEnv() Env {
	return Env{
		ServiceURL: DefaultServiceURL,
		CDNURL:     DefaultCDNURL,
		ServiceParams: map[string]any{
			"apiVersion": "3.3.0",
			"format":     1,
		},
		UseAPICaptions: true,
	}
}

// SharedParams returns the top level params of every multirequest. The
// service params are copied, never mutated.
func (e Env) SharedParams(playerVersion, ts string, partnerID int) map[string]any {
	params := maps.Clone(e.ServiceParams)
	if params == nil {
		params = make(map[string]any, 3)
	}

	params["ts"] = ts
	params["clientTag"] = "html5:v" + playerVersion
	if partnerID != 0 {
		params["partnerId"] = partnerID
	}
	return params
}

func partnerString(partnerID int) string {
	if partnerID == 0 {
		return ""
	}
	return strconv.Itoa(partnerID)
}
