package ott

import (
	"fmt"

	"github.com/tasvirchi/tasvir/loader"
	"github.com/tasvirchi/tasvir/log"
	"github.com/tasvirchi/tasvir/request"
)

// Loader IDs.
const (
	AssetLoaderID     = "asset"
	AssetListLoaderID = "assetList"
)

// NewSessionLoader issues an anonymous device session inside the batch.
func NewSessionLoader(partnerID int, udid string) *loader.SessionLoader {
	return loader.NewSessionLoader(AnonymousLogin(partnerID, udid))
}

// AssetParams identify one asset and how it is played.
type AssetParams struct {
	AssetID       string
	AssetType     AssetType
	ReferenceType AssetReferenceType
	Playback      PlaybackOptions
}

// WithDefaults fills the unset enums with their defaults.
func (p AssetParams) WithDefaults() AssetParams {
	if p.AssetType == "" {
		p.AssetType = AssetMedia
	}
	if p.ReferenceType == "" {
		p.ReferenceType = ReferenceMedia
	}
	if p.Playback.Context == "" {
		p.Playback.Context = ContextPlayback
	}
	return p
}

// AssetResponse is everything fetched for one asset.
type AssetResponse struct {
	Asset           Asset
	PlaybackContext PlaybackContext
}

// AssetLoader fetches an asset and its playback context.
type AssetLoader struct {
	params   AssetParams
	session  loader.Session
	response AssetResponse
}

func NewAssetLoader(params AssetParams, session loader.Session) *AssetLoader {
	return &AssetLoader{params: params.WithDefaults(), session: session}
}

func (a *AssetLoader) ID() string {
	return AssetLoaderID
}

func (a *AssetLoader) IsValid() bool {
	return a.params.AssetID != ""
}

func (a *AssetLoader) BuildRequests(b *request.Batch) error {
	ts, err := a.session.Token(b)
	if err != nil {
		return err
	}

	p := a.params
	if _, err := b.Append(GetAsset(ts, p.AssetID, p.ReferenceType)); err != nil {
		return err
	}
	_, err = b.Append(GetPlaybackContext(ts, p.AssetID, p.AssetType, p.Playback))
	return err
}

func (a *AssetLoader) SetResponse(results []request.Result) error {
	if len(results) != 2 {
		return fmt.Errorf("asset: expected 2 results, got %d", len(results))
	}

	var response AssetResponse
	if err := results[0].Decode(&response.Asset); err != nil {
		return fmt.Errorf("asset: %w", err)
	}
	if err := results[1].Decode(&response.PlaybackContext); err != nil {
		return fmt.Errorf("asset: playback context: %w", err)
	}

	a.response = response
	return nil
}

func (a *AssetLoader) Response() any {
	return a.response
}

// AssetListLoader fetches the data of several assets, one call each.
// Assets that fail are left out.
type AssetListLoader struct {
	entries  []AssetParams
	session  loader.Session
	response []Asset
}

func NewAssetListLoader(entries []AssetParams, session loader.Session) *AssetListLoader {
	withDefaults := make([]AssetParams, len(entries))
	for i, e := range entries {
		withDefaults[i] = e.WithDefaults()
	}
	return &AssetListLoader{entries: withDefaults, session: session}
}

func (a *AssetListLoader) ID() string {
	return AssetListLoaderID
}

func (a *AssetListLoader) IsValid() bool {
	return len(a.entries) > 0
}

func (a *AssetListLoader) BuildRequests(b *request.Batch) error {
	ts, err := a.session.Token(b)
	if err != nil {
		return err
	}

	for _, e := range a.entries {
		if _, err := b.Append(GetAsset(ts, e.AssetID, e.ReferenceType)); err != nil {
			return err
		}
	}
	return nil
}

func (a *AssetListLoader) SetResponse(results []request.Result) error {
	assets := make([]Asset, 0, len(results))
	for i, r := range results {
		var asset Asset
		if err := r.Decode(&asset); err != nil {
			log.Warnf("asset list: skipping item %d: %s", i, err)
			continue
		}
		assets = append(assets, asset)
	}

	a.response = assets
	return nil
}

func (a *AssetListLoader) Response() any {
	return a.response
}
