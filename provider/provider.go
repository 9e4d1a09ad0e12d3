// Package provider composes loaders into the media and playlist configs of a
// backend family.
package provider

import (
	"context"

	"github.com/samber/lo"
	"github.com/tasvirchi/tasvir/loader"
	"github.com/tasvirchi/tasvir/media"
	"github.com/tasvirchi/tasvir/network"
)

// Provider fetches player configs from one backend family.
type Provider interface {
	GetMediaConfig(ctx context.Context, info MediaInfo) (media.MediaConfig, error)
	GetEntryListConfig(ctx context.Context, info EntryListInfo) (media.PlaylistConfig, error)
	GetPlaylistConfig(ctx context.Context, info PlaylistInfo) (media.PlaylistConfig, error)
}

// Options are shared by every call of a provider.
type Options struct {
	PartnerID int
	UIConfID  int
	// WidgetID issues sessions for a specific widget instead of the
	// partner's default one.
	WidgetID      string
	TS            string
	PlayerVersion string
	// Executor replaces the HTTP multirequest transport when set.
	Executor loader.Executor
}

// MediaInfo identifies one entry. The OTT fields are ignored by OVP.
type MediaInfo struct {
	EntryID             string `json:"entryId,omitempty"`
	ReferenceID         string `json:"referenceId,omitempty"`
	RedirectFromEntryID bool   `json:"redirectFromEntryId,omitempty"`
	TS                  string `json:"ts,omitempty"`

	MediaType          string         `json:"mediaType,omitempty"`
	ContextType        string         `json:"contextType,omitempty"`
	AssetReferenceType string         `json:"assetReferenceType,omitempty"`
	Protocol           string         `json:"protocol,omitempty"`
	FileIDs            string         `json:"fileIds,omitempty"`
	StreamerType       string         `json:"streamerType,omitempty"`
	URLType            string         `json:"urlType,omitempty"`
	AdapterData        map[string]any `json:"adapterData,omitempty"`
	Formats            []string       `json:"formats,omitempty"`
}

// EntryListInfo is an ordered list of entries requested in one call.
type EntryListInfo struct {
	Entries []MediaInfo `json:"entries"`
	TS      string      `json:"ts,omitempty"`
}

type PlaylistInfo struct {
	PlaylistID string `json:"playlistId"`
	TS         string `json:"ts,omitempty"`
}

// base holds what both families share: the options and the transport.
type base struct {
	opts       Options
	serviceURL string
	shared     func(playerVersion, ts string, partnerID int) map[string]any
}

func (b base) ts(override string) string {
	return lo.CoalesceOrEmpty(override, b.opts.TS)
}

func (b base) manager(ts string) *loader.Manager {
	if b.opts.Executor != nil {
		return loader.NewManager(b.opts.Executor)
	}

	return loader.NewManager(&network.MultiRequest{
		ServiceURL: b.serviceURL,
		Shared:     b.shared(b.opts.PlayerVersion, ts, b.opts.PartnerID),
	})
}

// addSession returns the caller's ts as the session, or issues a new one
// at the head of the batch when there is none.
func addSession(m *loader.Manager, ts string, issue func() *loader.SessionLoader) loader.Session {
	if ts != "" {
		return loader.StaticSession(ts)
	}

	session := issue()
	m.Add(session)
	return session
}

// sessionTS prefers the ts issued inside the batch over the supplied one.
func sessionTS(responses loader.Responses, ts string) string {
	return loader.Get[string](responses, loader.SessionID).OrElse(ts)
}

func (b base) session(ts string, anonymous bool) media.Session {
	return media.Session{
		IsAnonymous: anonymous,
		PartnerID:   b.opts.PartnerID,
		UIConfID:    b.opts.UIConfID,
		TS:          ts,
	}
}

// checkSources fails entries that should play but have nothing to play.
func checkSources(entry media.Entry) error {
	if entry.Type == media.Image || entry.Type == media.Document {
		return nil
	}
	if entry.Sources.Empty() {
		return ErrNoSources
	}
	return nil
}
