// Package media holds the canonical, backend-neutral playback model.
package media

// Type is the canonical entry type.
type Type string

const (
	VOD      Type = "Vod"
	Live     Type = "Live"
	Audio    Type = "Audio"
	Image    Type = "Image"
	Document Type = "Document"
	Unknown  Type = "Unknown"
)

// DVR is the DVR state of a live entry. The zero value means absent.
type DVR string

const (
	DVRAbsent DVR = ""
	DVROn     DVR = "on"
	DVROff    DVR = "off"
)

// Picture is one poster candidate.
type Picture struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Entry is a normalized media entry.
type Entry struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Type        Type           `json:"type"`
	Duration    int            `json:"duration"`
	Poster      string         `json:"poster,omitempty"`
	Pictures    []Picture      `json:"pictures,omitempty"`
	DVR         DVR            `json:"dvr,omitempty"`
	Metadata    map[string]any `json:"metadata"`
	Sources     Sources        `json:"sources"`
	DownloadURL string         `json:"downloadUrl,omitempty"`
	VR          bool           `json:"vr,omitempty"`
}

// NewEntry returns an entry of unknown type with empty metadata.
func NewEntry() Entry {
	return Entry{
		Type:     Unknown,
		Metadata: make(map[string]any),
		Sources:  NewSources(),
	}
}

// SetType sets the entry type. The DVR state only survives for live entries.
func (e *Entry) SetType(t Type, dvr DVR) {
	e.Type = t
	if t == Live {
		e.DVR = dvr
	} else {
		e.DVR = DVRAbsent
	}
}

// PosterValue is the poster as emitted in a media config: a URL, or the
// candidate list when no single URL is known.
func (e Entry) PosterValue() any {
	if e.Poster == "" && len(e.Pictures) > 0 {
		return e.Pictures
	}
	return e.Poster
}

// EntryList is an ordered list of entries requested one by one.
type EntryList struct {
	Items []Entry `json:"items"`
}

// Playlist is a backend-side playlist.
type Playlist struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Poster      string  `json:"poster"`
	Items       []Entry `json:"items"`
	LastEntryID string  `json:"playlistLastEntryId"`
}
