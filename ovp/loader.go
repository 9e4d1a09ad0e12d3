package ovp

import (
	"errors"
	"fmt"

	"github.com/tasvirchi/tasvir/loader"
	"github.com/tasvirchi/tasvir/log"
	"github.com/tasvirchi/tasvir/request"
)

// Loader IDs.
const (
	MediaLoaderID     = "media"
	PlaylistLoaderID  = "playlist"
	EntryListLoaderID = "entryList"
)

// ErrEntryNotFound is returned when an entry lookup matched nothing.
var ErrEntryNotFound = errors.New("entry not found")

// NewSessionLoader issues a widget session inside the batch. An empty
// widgetID falls back to the partner's default widget.
func NewSessionLoader(partnerID int, widgetID string) *loader.SessionLoader {
	if widgetID == "" {
		widgetID = WidgetID(partnerID)
	}
	return loader.NewSessionLoader(StartWidgetSession(widgetID))
}

// MediaResponse is everything fetched for one entry.
type MediaResponse struct {
	Entry           Entry
	PlaybackContext PlaybackContext
	Metadata        MetadataList
}

// MediaLoader fetches an entry, its playback context and its metadata.
// The last two address the entry through the id the list call returned, so a
// lookup by reference id works the same as one by entry id.
type MediaLoader struct {
	filter   EntryFilter
	session  loader.Session
	response MediaResponse
}

func NewMediaLoader(filter EntryFilter, session loader.Session) *MediaLoader {
	return &MediaLoader{filter: filter, session: session}
}

func (m *MediaLoader) ID() string {
	return MediaLoaderID
}

func (m *MediaLoader) IsValid() bool {
	return m.filter.valid()
}

func (m *MediaLoader) BuildRequests(b *request.Batch) error {
	ts, err := m.session.Token(b)
	if err != nil {
		return err
	}

	listPos, err := b.Append(ListEntries(ts, m.filter))
	if err != nil {
		return err
	}

	entryID, err := b.Token(listPos, "objects", "0", "id")
	if err != nil {
		return err
	}

	if _, err := b.Append(GetPlaybackContext(ts, entryID)); err != nil {
		return err
	}

	_, err = b.Append(ListMetadata(ts, entryID))
	return err
}

func (m *MediaLoader) SetResponse(results []request.Result) error {
	if len(results) != 3 {
		return fmt.Errorf("media: expected 3 results, got %d", len(results))
	}

	var list EntryList
	if err := results[0].Decode(&list); err != nil {
		return fmt.Errorf("media: entry list: %w", err)
	}
	if len(list.Objects) == 0 {
		return ErrEntryNotFound
	}

	var context PlaybackContext
	if err := results[1].Decode(&context); err != nil {
		return fmt.Errorf("media: playback context: %w", err)
	}

	var metadata MetadataList
	if err := results[2].Decode(&metadata); err != nil {
		return fmt.Errorf("media: metadata: %w", err)
	}

	m.response = MediaResponse{
		Entry:           list.Objects[0],
		PlaybackContext: context,
		Metadata:        metadata,
	}
	return nil
}

func (m *MediaLoader) Response() any {
	return m.response
}

// PlaylistResponse is everything fetched for one playlist.
type PlaylistResponse struct {
	Playlist    PlaylistData
	Items       []Entry
	UserEntries []UserEntry
}

// PlaylistLoader fetches a playlist and its entries. The view history of the
// session user is fetched too unless the session is anonymous.
type PlaylistLoader struct {
	playlistID string
	session    loader.Session
	response   PlaylistResponse
}

func NewPlaylistLoader(playlistID string, session loader.Session) *PlaylistLoader {
	return &PlaylistLoader{playlistID: playlistID, session: session}
}

func (p *PlaylistLoader) ID() string {
	return PlaylistLoaderID
}

func (p *PlaylistLoader) IsValid() bool {
	return p.playlistID != ""
}

func (p *PlaylistLoader) BuildRequests(b *request.Batch) error {
	ts, err := p.session.Token(b)
	if err != nil {
		return err
	}

	if _, err := b.Append(GetPlaylist(ts, p.playlistID)); err != nil {
		return err
	}
	if _, err := b.Append(ExecutePlaylist(ts, p.playlistID)); err != nil {
		return err
	}

	if p.session.Anonymous() {
		return nil
	}

	_, err = b.Append(ListUserEntries(ts, p.playlistID))
	return err
}

func (p *PlaylistLoader) SetResponse(results []request.Result) error {
	if len(results) < 2 {
		return fmt.Errorf("playlist: expected at least 2 results, got %d", len(results))
	}

	var response PlaylistResponse
	if err := results[0].Decode(&response.Playlist); err != nil {
		return fmt.Errorf("playlist: %w", err)
	}
	if err := results[1].Decode(&response.Items); err != nil {
		return fmt.Errorf("playlist: entries: %w", err)
	}

	if len(results) > 2 {
		var history UserEntryList
		if err := results[2].Decode(&history); err != nil {
			log.Warnf("playlist: ignoring view history: %s", err)
		} else {
			response.UserEntries = history.Objects
		}
	}

	p.response = response
	return nil
}

func (p *PlaylistLoader) Response() any {
	return p.response
}

// EntryListLoader fetches a list of entries, one list call each.
// Entries that fail or match nothing are left out.
type EntryListLoader struct {
	filters  []EntryFilter
	session  loader.Session
	response []Entry
}

func NewEntryListLoader(filters []EntryFilter, session loader.Session) *EntryListLoader {
	return &EntryListLoader{filters: filters, session: session}
}

func (e *EntryListLoader) ID() string {
	return EntryListLoaderID
}

func (e *EntryListLoader) IsValid() bool {
	return len(e.filters) > 0
}

func (e *EntryListLoader) BuildRequests(b *request.Batch) error {
	ts, err := e.session.Token(b)
	if err != nil {
		return err
	}

	for _, f := range e.filters {
		if _, err := b.Append(ListEntries(ts, f)); err != nil {
			return err
		}
	}
	return nil
}

func (e *EntryListLoader) SetResponse(results []request.Result) error {
	entries := make([]Entry, 0, len(results))
	for i, r := range results {
		if r.HasError() {
			log.Warnf("entry list: skipping item %d: %s", i, r.Err)
			continue
		}

		var list EntryList
		if err := r.Decode(&list); err != nil {
			log.Warnf("entry list: skipping item %d: %s", i, err)
			continue
		}
		if len(list.Objects) == 0 {
			continue
		}
		entries = append(entries, list.Objects[0])
	}

	e.response = entries
	return nil
}

func (e *EntryListLoader) Response() any {
	return e.response
}
