package ott

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/tasvirchi/tasvir/media"
	"github.com/tasvirchi/tasvir/stream"
)

const objectTypeLiveAsset = "TasvirchiLiveAsset"

// flexString decodes a JSON string or number as text.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// Image is one picture of an asset.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Ratio  string `json:"ratio"`
}

// Value is a single typed meta value.
type Value struct {
	Value any `json:"value"`
}

// Values is a multi-valued tag.
type Values struct {
	Objects []Value `json:"objects"`
}

func (v Values) join(sep string) string {
	parts := make([]string, 0, len(v.Objects))
	for _, o := range v.Objects {
		if s, ok := o.Value.(string); ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}

// Asset is the response of asset.get.
type Asset struct {
	ID              flexString        `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	ObjectType      string            `json:"objectType"`
	EntryID         string            `json:"entryId"`
	EPGID           flexString        `json:"epgId"`
	RecordingID     flexString        `json:"recordingId"`
	ExternalIDs     flexString        `json:"externalIds"`
	EnableTrickPlay bool              `json:"enableTrickPlay"`
	CreateDate      int64             `json:"createDate"`
	EndDate         int64             `json:"endDate"`
	Images          []Image           `json:"images"`
	Metas           map[string]Value  `json:"metas"`
	Tags            map[string]Values `json:"tags"`
}

// PlaybackSource is one playable file of an asset.
type PlaybackSource struct {
	FileID    flexString        `json:"id"`
	Format    string            `json:"format"`
	Protocols string            `json:"protocols"`
	Type      string            `json:"type"`
	URL       string            `json:"url"`
	Duration  int               `json:"duration"`
	DRM       []stream.DRMEntry `json:"drm"`
}

func (s PlaybackSource) descriptor() stream.Descriptor {
	return stream.Descriptor{
		ID:        string(s.FileID),
		Format:    s.Format,
		Type:      s.Type,
		Protocols: s.Protocols,
		URL:       s.URL,
		Duration:  s.Duration,
		DRM:       s.DRM,
	}
}

// StreamerProgressive is the streamer type of a progressive bumper.
const StreamerProgressive = "progressive"

// Plugin is playback plugin data, such as a bumper.
type Plugin struct {
	ObjectType   string `json:"objectType"`
	StreamerType string `json:"streamertype"`
	URL          string `json:"url"`
}

// PlaybackContext is the response of asset.getPlaybackContext.
type PlaybackContext struct {
	Sources  []PlaybackSource `json:"sources"`
	Actions  []media.Action   `json:"actions"`
	Messages []media.Message  `json:"messages"`
	Plugins  []Plugin         `json:"plugins"`
}

// BlockAction returns the first blocking action.
func (p PlaybackContext) BlockAction() (media.Action, bool) {
	for _, a := range p.Actions {
		if a.Type == media.ActionBlock {
			return a, true
		}
	}
	return media.Action{}, false
}

func (p PlaybackContext) HasBlockAction() bool {
	_, ok := p.BlockAction()
	return ok
}
