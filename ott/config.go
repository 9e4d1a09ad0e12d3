// Package ott loads assets from the OTT backend family and normalizes them
// into the media model.
package ott

import "maps"

// DefaultServiceURL is the production endpoint of the OTT backend.
const DefaultServiceURL = "https://api.ott.tasvirchi.com/v5_2_6/api_v3"

// Env is the per-provider configuration of the OTT family.
type Env struct {
	ServiceURL    string
	ServiceParams map[string]any
}

// DefaultEnv returns the production configuration.
func DefaultEnv() Env {
	return Env{
		ServiceURL:    DefaultServiceURL,
		ServiceParams: map[string]any{"apiVersion": "5.2.6"},
	}
}

// SharedParams returns the top level params of every multirequest.
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
