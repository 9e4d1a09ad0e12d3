package ott

import (
	"github.com/google/uuid"
	"github.com/tasvirchi/tasvir/request"
)

const objectTypePlaybackContextOptions = "TasvirchiPlaybackContextOptions"

// ContextType is the playback context an asset is requested in.
type ContextType string

const (
	ContextPlayback  ContextType = "PLAYBACK"
	ContextDownload  ContextType = "DOWNLOAD"
	ContextTrailer   ContextType = "TRAILER"
	ContextCatchup   ContextType = "CATCHUP"
	ContextStartOver ContextType = "START_OVER"
)

// AssetType is the kind of asset played.
type AssetType string

const (
	AssetMedia     AssetType = "media"
	AssetEPG       AssetType = "epg"
	AssetRecording AssetType = "recording"
)

// AssetReferenceType tells how an asset id is resolved.
type AssetReferenceType string

const (
	ReferenceMedia       AssetReferenceType = "media"
	ReferenceEPGInternal AssetReferenceType = "epg_internal"
	ReferenceEPGExternal AssetReferenceType = "epg_external"
	ReferenceNPVR        AssetReferenceType = "npvr"
)

// PlaybackOptions select the files a playback context returns.
type PlaybackOptions struct {
	MediaProtocol string
	AssetFileIDs  string
	Context       ContextType
	StreamerType  string
	URLType       string
	AdapterData   map[string]any
}

func (o PlaybackOptions) params() map[string]any {
	params := map[string]any{
		"objectType":    objectTypePlaybackContextOptions,
		"mediaProtocol": o.MediaProtocol,
		"assetFileIds":  o.AssetFileIDs,
		"context":       string(o.Context),
	}
	if o.StreamerType != "" {
		params["streamerType"] = o.StreamerType
	}
	if o.URLType != "" {
		params["urlType"] = o.URLType
	}
	if len(o.AdapterData) > 0 {
		params["adapterData"] = o.AdapterData
	}
	return params
}

// AnonymousLogin issues an anonymous session for a device. A missing udid
// gets a random one.
func AnonymousLogin(partnerID int, udid string) request.Descriptor {
	if udid == "" {
		udid = uuid.NewString()
	}
	return request.New("ottUser", "anonymousLogin", map[string]any{
		"partnerId": partnerID,
		"udid":      udid,
	})
}

// GetAsset fetches the asset data.
func GetAsset(ts, assetID string, ref AssetReferenceType) request.Descriptor {
	return request.New("asset", "get", map[string]any{
		"id":                 assetID,
		"assetReferenceType": string(ref),
		"ts":                 ts,
	})
}

// GetPlaybackContext fetches the playable files and access control of an asset.
func GetPlaybackContext(ts, assetID string, assetType AssetType, opts PlaybackOptions) request.Descriptor {
	return request.New("asset", "getPlaybackContext", map[string]any{
		"assetId":           assetID,
		"assetType":         string(assetType),
		"contextDataParams": opts.params(),
		"ts":                ts,
	})
}
