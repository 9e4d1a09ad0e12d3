package provider

import (
	"context"

	"github.com/samber/lo"
	"github.com/tasvirchi/tasvir/loader"
	"github.com/tasvirchi/tasvir/log"
	"github.com/tasvirchi/tasvir/media"
	"github.com/tasvirchi/tasvir/ott"
)

// OTT is the provider of the OTT backend family.
type OTT struct {
	base
}

func NewOTT(opts Options, env ott.Env) *OTT {
	return &OTT{
		base: base{opts: opts, serviceURL: env.ServiceURL, shared: env.SharedParams},
	}
}

func (o *OTT) newSession(m *loader.Manager, ts string) loader.Session {
	return addSession(m, ts, func() *loader.SessionLoader {
		return ott.NewSessionLoader(o.opts.PartnerID, "")
	})
}

func assetParams(info MediaInfo) ott.AssetParams {
	return ott.AssetParams{
		AssetID:       info.EntryID,
		AssetType:     ott.AssetType(info.MediaType),
		ReferenceType: ott.AssetReferenceType(info.AssetReferenceType),
		Playback: ott.PlaybackOptions{
			MediaProtocol: info.Protocol,
			AssetFileIDs:  info.FileIDs,
			Context:       ott.ContextType(info.ContextType),
			StreamerType:  info.StreamerType,
			URLType:       info.URLType,
			AdapterData:   info.AdapterData,
		},
	}.WithDefaults()
}

func parseRequest(info MediaInfo) ott.Request {
	p := assetParams(info)
	return ott.Request{
		AssetType:   p.AssetType,
		ContextType: p.Playback.Context,
		Formats:     info.Formats,
	}
}

func (o *OTT) GetMediaConfig(ctx context.Context, info MediaInfo) (media.MediaConfig, error) {
	supplied := o.ts(info.TS)
	m := o.manager(supplied)
	session := o.newSession(m, supplied)
	if !m.Add(ott.NewAssetLoader(assetParams(info), session)) {
		return media.MediaConfig{}, ErrMissingMandatoryParams
	}

	responses, err := m.FetchData(ctx, true)
	if err != nil {
		return media.MediaConfig{}, err
	}

	r, ok := loader.Get[ott.AssetResponse](responses, ott.AssetLoaderID).Get()
	if !ok {
		return media.MediaConfig{}, errMissingResponse
	}

	if action, ok := r.PlaybackContext.BlockAction(); ok {
		return media.MediaConfig{}, &BlockActionError{Action: action, Messages: r.PlaybackContext.Messages}
	}

	entry := ott.MediaEntry(r, parseRequest(info))
	if err := checkSources(entry); err != nil {
		return media.MediaConfig{}, err
	}

	config := media.MediaConfig{
		Session: o.session(sessionTS(responses, supplied), supplied == ""),
		Sources: media.NewConfigSources(entry),
	}
	if bumper, ok := ott.Bumper(r.PlaybackContext); ok {
		config.Plugins.Bumper = &bumper
	}

	log.Debugf("ott: media config of %s with %d progressive sources", entry.ID, len(entry.Sources.Progressive))
	return config, nil
}

// GetEntryListConfig loads the assets one by one. Assets that fail are left
// out of the list.
func (o *OTT) GetEntryListConfig(ctx context.Context, info EntryListInfo) (media.PlaylistConfig, error) {
	supplied := o.ts(info.TS)
	m := o.manager(supplied)
	session := o.newSession(m, supplied)

	params := lo.Map(info.Entries, func(e MediaInfo, _ int) ott.AssetParams {
		return assetParams(e)
	})
	if !m.Add(ott.NewAssetListLoader(params, session)) {
		return media.PlaylistConfig{}, ErrMissingMandatoryParams
	}

	responses, err := m.FetchData(ctx, false)
	if err != nil {
		return media.PlaylistConfig{}, err
	}

	assets := loader.Get[[]ott.Asset](responses, ott.AssetListLoaderID).OrEmpty()
	if len(assets) < len(info.Entries) {
		log.Warnf("ott: %d of %d assets could not be loaded", len(info.Entries)-len(assets), len(info.Entries))
	}

	requests := lo.SliceToMap(info.Entries, func(e MediaInfo) (string, ott.Request) {
		return e.EntryID, parseRequest(e)
	})
	list := ott.EntryList(assets, requests)
	return media.NewPlaylistConfig(media.Playlist{Items: list.Items}), nil
}

// GetPlaylistConfig is not offered by the OTT backend.
func (o *OTT) GetPlaylistConfig(context.Context, PlaylistInfo) (media.PlaylistConfig, error) {
	return media.PlaylistConfig{}, ErrUnsupported
}
