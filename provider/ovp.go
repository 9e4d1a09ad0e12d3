package provider

import (
	"context"

	"github.com/samber/lo"
	"github.com/tasvirchi/tasvir/loader"
	"github.com/tasvirchi/tasvir/log"
	"github.com/tasvirchi/tasvir/media"
	"github.com/tasvirchi/tasvir/ovp"
)

// OVP is the provider of the OVP backend family.
type OVP struct {
	base
	env ovp.Env
}

func NewOVP(opts Options, env ovp.Env) *OVP {
	return &OVP{
		base: base{opts: opts, serviceURL: env.ServiceURL, shared: env.SharedParams},
		env:  env,
	}
}

func (o *OVP) newSession(m *loader.Manager, ts string) loader.Session {
	return addSession(m, ts, func() *loader.SessionLoader {
		return ovp.NewSessionLoader(o.opts.PartnerID, o.opts.WidgetID)
	})
}

// anonymous reports whether a call runs without the caller's identity.
func (o *OVP) anonymous(ts string) bool {
	return ts == "" && o.opts.WidgetID == ""
}

func (o *OVP) parser(ts string) ovp.Parser {
	return ovp.Parser{Env: o.env, PartnerID: o.opts.PartnerID, UIConfID: o.opts.UIConfID, TS: ts}
}

func filter(info MediaInfo) ovp.EntryFilter {
	return ovp.EntryFilter{
		EntryID:             info.EntryID,
		ReferenceID:         info.ReferenceID,
		RedirectFromEntryID: info.RedirectFromEntryID,
	}
}

func (o *OVP) GetMediaConfig(ctx context.Context, info MediaInfo) (media.MediaConfig, error) {
	supplied := o.ts(info.TS)
	m := o.manager(supplied)
	session := o.newSession(m, supplied)
	if !m.Add(ovp.NewMediaLoader(filter(info), session)) {
		return media.MediaConfig{}, ErrMissingMandatoryParams
	}

	responses, err := m.FetchData(ctx, true)
	if err != nil {
		return media.MediaConfig{}, err
	}

	r, ok := loader.Get[ovp.MediaResponse](responses, ovp.MediaLoaderID).Get()
	if !ok {
		return media.MediaConfig{}, errMissingResponse
	}

	if action, ok := r.PlaybackContext.BlockAction(); ok {
		return media.MediaConfig{}, &BlockActionError{Action: action, Messages: r.PlaybackContext.Messages}
	}
	if !r.Entry.Ready() {
		return media.MediaConfig{}, ErrMediaNotReady
	}

	ts := sessionTS(responses, supplied)
	parser := o.parser(ts)
	entry := parser.MediaEntry(r)
	if err := checkSources(entry); err != nil {
		return media.MediaConfig{}, err
	}

	config := media.MediaConfig{
		Session: o.session(ts, o.anonymous(supplied)),
		Sources: media.NewConfigSources(entry),
	}
	if bumper, ok := parser.Bumper(r.PlaybackContext); ok {
		config.Plugins.Bumper = &bumper
	}

	log.Debugf("ovp: media config of %s with %d progressive sources", entry.ID, len(entry.Sources.Progressive))
	return config, nil
}

// GetEntryListConfig loads the entries one by one. Entries that fail are
// left out of the list.
func (o *OVP) GetEntryListConfig(ctx context.Context, info EntryListInfo) (media.PlaylistConfig, error) {
	supplied := o.ts(info.TS)
	m := o.manager(supplied)
	session := o.newSession(m, supplied)
	if !m.Add(ovp.NewEntryListLoader(lo.Map(info.Entries, func(e MediaInfo, _ int) ovp.EntryFilter {
		return filter(e)
	}), session)) {
		return media.PlaylistConfig{}, ErrMissingMandatoryParams
	}

	responses, err := m.FetchData(ctx, false)
	if err != nil {
		return media.PlaylistConfig{}, err
	}

	entries := loader.Get[[]ovp.Entry](responses, ovp.EntryListLoaderID).OrEmpty()
	if len(entries) < len(info.Entries) {
		log.Warnf("ovp: %d of %d entries could not be loaded", len(info.Entries)-len(entries), len(info.Entries))
	}

	list := o.parser(sessionTS(responses, supplied)).EntryList(entries)
	return media.NewPlaylistConfig(media.Playlist{Items: list.Items}), nil
}

func (o *OVP) GetPlaylistConfig(ctx context.Context, info PlaylistInfo) (media.PlaylistConfig, error) {
	supplied := o.ts(info.TS)
	m := o.manager(supplied)
	session := o.newSession(m, supplied)
	if !m.Add(ovp.NewPlaylistLoader(info.PlaylistID, session)) {
		return media.PlaylistConfig{}, ErrMissingMandatoryParams
	}

	responses, err := m.FetchData(ctx, true)
	if err != nil {
		return media.PlaylistConfig{}, err
	}

	r, ok := loader.Get[ovp.PlaylistResponse](responses, ovp.PlaylistLoaderID).Get()
	if !ok {
		return media.PlaylistConfig{}, errMissingResponse
	}

	playlist := o.parser(sessionTS(responses, supplied)).Playlist(r)
	return media.NewPlaylistConfig(playlist), nil
}
