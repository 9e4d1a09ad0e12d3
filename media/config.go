package media

// Session is the session part of a media config.
type Session struct {
	IsAnonymous bool   `json:"isAnonymous"`
	PartnerID   int    `json:"partnerId"`
	UIConfID    int    `json:"uiConfId,omitempty"`
	TS          string `json:"ts"`
}

// ConfigSources is the player-facing shape of a reconciled entry.
type ConfigSources struct {
	HLS         []Source         `json:"hls"`
	DASH        []Source         `json:"dash"`
	Progressive []Source         `json:"progressive"`
	Image       []ImageSource    `json:"image"`
	Document    []DocumentSource `json:"document"`
	ID          string           `json:"id"`
	Duration    int              `json:"duration"`
	Type        Type             `json:"type"`
	Poster      any              `json:"poster"`
	DVR         bool             `json:"dvr"`
	VR          *struct{}        `json:"vr"`
	Metadata    map[string]any   `json:"metadata"`
	Captions    []Caption        `json:"captions,omitempty"`
}

type Plugins struct {
	Bumper *Bumper `json:"bumper,omitempty"`
}

// MediaConfig is what a player needs to start playback of one entry.
type MediaConfig struct {
	Session Session       `json:"session"`
	Sources ConfigSources `json:"sources"`
	Plugins Plugins       `json:"plugins"`
}

type PlaylistMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type PlaylistItem struct {
	Sources ConfigSources `json:"sources"`
}

// PlaylistConfig is the player-facing shape of a playlist or entry list.
type PlaylistConfig struct {
	ID                  string           `json:"id"`
	Metadata            PlaylistMetadata `json:"metadata"`
	Poster              string           `json:"poster"`
	Items               []PlaylistItem   `json:"items"`
	PlaylistLastEntryID string           `json:"playlistLastEntryId"`
}

// NewConfigSources converts an entry into its player-facing shape.
func NewConfigSources(e Entry) ConfigSources {
	cs := ConfigSources{
		HLS:         e.Sources.HLS(),
		DASH:        e.Sources.DASH(),
		Progressive: nonNil(e.Sources.Progressive),
		Image:       nonNil(e.Sources.Image),
		Document:    nonNil(e.Sources.Document),
		ID:          e.ID,
		Duration:    e.Duration,
		Type:        e.Type,
		Poster:      e.PosterValue(),
		DVR:         e.DVR == DVROn,
		Metadata:    map[string]any{"name": "", "description": "", "tags": ""},
		Captions:    e.Sources.Captions,
	}

	for k, v := range e.Metadata {
		cs.Metadata[k] = v
	}

	if e.VR {
		cs.VR = &struct{}{}
	}
	return cs
}

// NewPlaylistConfig converts a playlist into its player-facing shape.
func NewPlaylistConfig(p Playlist) PlaylistConfig {
	pc := PlaylistConfig{
		ID:                  p.ID,
		Metadata:            PlaylistMetadata{Name: p.Name, Description: p.Description},
		Poster:              p.Poster,
		Items:               make([]PlaylistItem, 0, len(p.Items)),
		PlaylistLastEntryID: p.LastEntryID,
	}
	for _, item := range p.Items {
		pc.Items = append(pc.Items, PlaylistItem{Sources: NewConfigSources(item)})
	}
	return pc
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
