package ovp

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/tasvirchi/tasvir/media"
	"github.com/tasvirchi/tasvir/stream"
)

// Media types of an entry.
const (
	MediaTypeVideo = 1
	MediaTypeImage = 2
	MediaTypeAudio = 5
)

// Entry types.
const (
	EntryTypeMediaClip     = "1"
	EntryTypeLiveStream    = "7"
	EntryTypeLiveChannel   = "8"
	EntryTypeDocument      = "10"
	EntryTypeExternalMedia = "externalMedia.externalMedia"
)

// Entry statuses the backend cannot play yet.
const (
	EntryStatusImport     = 0
	EntryStatusPreconvert = 1
	EntryStatusReady      = 2
)

// dvrEnabled is the dvrStatus of a live entry recording a DVR window.
const dvrEnabled = 1

// flexString decodes a JSON string or number as text.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = flexString(n.String())
		return nil
	}
}

// Entry is a base entry as listed by the backend.
type Entry struct {
	ID           string     `json:"id"`
	ReferenceID  string     `json:"referenceId"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	ThumbnailURL string     `json:"thumbnailUrl"`
	DataURL      string     `json:"dataUrl"`
	DownloadURL  string     `json:"downloadUrl"`
	Duration     int        `json:"duration"`
	MediaType    int        `json:"mediaType"`
	Type         flexString `json:"type"`
	Tags         string     `json:"tags"`
	DVRStatus    int        `json:"dvrStatus"`
	CreatorID    string     `json:"creatorId"`
	CreatedAt    int64      `json:"createdAt"`
	UpdatedAt    int64      `json:"updatedAt"`
	EndDate      int64      `json:"endDate"`
	Plays        int        `json:"plays"`
	Views        int        `json:"views"`
	Status       *int       `json:"status"`
}

// Ready reports whether the entry finished ingestion. An entry without a
// status is assumed ready.
func (e Entry) Ready() bool {
	if e.Status == nil {
		return true
	}
	return *e.Status != EntryStatusImport && *e.Status != EntryStatusPreconvert
}

// EntryList is the response of baseEntry.list.
type EntryList struct {
	TotalCount int     `json:"totalCount"`
	Objects    []Entry `json:"objects"`
}

// PlaybackSource is one delivery option of an entry.
type PlaybackSource struct {
	Format            string            `json:"format"`
	Protocols         string            `json:"protocols"`
	FlavorIDs         string            `json:"flavorIds"`
	URL               string            `json:"url"`
	DeliveryProfileID flexString        `json:"deliveryProfileId"`
	DRM               []stream.DRMEntry `json:"drm"`
}

func (s PlaybackSource) descriptor(entryID string) stream.Descriptor {
	return stream.Descriptor{
		ID:                entryID,
		Format:            s.Format,
		Protocols:         s.Protocols,
		FlavorIDs:         s.FlavorIDs,
		URL:               s.URL,
		DeliveryProfileID: string(s.DeliveryProfileID),
		DRM:               s.DRM,
	}
}

// FlavorAsset is one rendition of an entry.
type FlavorAsset struct {
	ID       string `json:"id"`
	FileExt  string `json:"fileExt"`
	Bitrate  int    `json:"bitrate"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Label    string `json:"label"`
	Language string `json:"language"`
}

// Caption formats.
const (
	CaptionSRT    = "1"
	CaptionDFXP   = "2"
	CaptionWebVTT = "3"
	CaptionCAP    = "4"
)

// Caption is a caption asset listed in a playback context.
type Caption struct {
	Label        string     `json:"label"`
	Format       flexString `json:"format"`
	Language     string     `json:"language"`
	LanguageCode string     `json:"languageCode"`
	URL          string     `json:"url"`
	WebVTTURL    string     `json:"webVttUrl"`
	IsDefault    bool       `json:"isDefault"`
}

// BumperData is a pre-roll attached to an entry.
type BumperData struct {
	EntryID         string           `json:"entryId"`
	ClickThroughURL string           `json:"url"`
	Sources         []PlaybackSource `json:"sources"`
}

// PlaybackContext is the response of baseEntry.getPlaybackContext.
type PlaybackContext struct {
	Sources          []PlaybackSource `json:"sources"`
	FlavorAssets     []FlavorAsset    `json:"flavorAssets"`
	Actions          []media.Action   `json:"actions"`
	Messages         []media.Message  `json:"messages"`
	PlaybackCaptions []Caption        `json:"playbackCaptions"`
	BumperData       []BumperData     `json:"bumperData"`
}

// BlockAction returns the first blocking action.
func (p PlaybackContext) BlockAction() (media.Action, bool) {
	return p.action(media.ActionBlock)
}

func (p PlaybackContext) HasBlockAction() bool {
	_, ok := p.BlockAction()
	return ok
}

// HostRegexAction returns the first host rewriting action.
func (p PlaybackContext) HostRegexAction() (media.Action, bool) {
	return p.action(media.ActionRequestHostRegex)
}

func (p PlaybackContext) action(kind string) (media.Action, bool) {
	for _, a := range p.Actions {
		if a.Type == kind {
			return a, true
		}
	}
	return media.Action{}, false
}

// Metadata is one custom metadata profile value of an entry.
type Metadata struct {
	XML string `json:"xml"`
}

// MetadataList is the response of metadata_metadata.list.
type MetadataList struct {
	TotalCount int        `json:"totalCount"`
	Objects    []Metadata `json:"objects"`
}

// PlaylistData is the response of playlist.get.
type PlaylistData struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// UserEntry is a view history record.
type UserEntry struct {
	PlaylistLastEntryID string `json:"playlistLastEntryId"`
}

// UserEntryList is the response of userEntry.list.
type UserEntryList struct {
	TotalCount int         `json:"totalCount"`
	Objects    []UserEntry `json:"objects"`
}

func isExternalMedia(e Entry) bool {
	return strings.EqualFold(string(e.Type), EntryTypeExternalMedia)
}
