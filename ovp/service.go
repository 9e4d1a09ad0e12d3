package ovp

import (
	"strconv"

	"github.com/tasvirchi/tasvir/request"
)

// Backend object types sent in request filters.
const (
	objectTypeBaseEntryFilter      = "TasvirchiBaseEntryFilter"
	objectTypeContextDataParams    = "TasvirchiContextDataParams"
	objectTypeMetadataFilter       = "TasvirchiMetadataFilter"
	objectTypeViewHistoryUserEntry = "TasvirchiViewHistoryUserEntry"
	metadataObjectTypeEntry        = "1"
)

// Fields requested through response profiles.
const (
	entryFields     = "id,referenceId,name,description,thumbnailUrl,dataUrl,duration,mediaType,type,tags,dvrStatus,createdAt,updatedAt,endDate,plays,views,downloadUrl,creatorId,status"
	playlistFields  = "id,name,description,thumbnailUrl"
	userEntryFields = "playlistLastEntryId"
)

// EntryFilter selects one entry by id or by reference id. The id wins when both are set.
type EntryFilter struct {
	EntryID             string
	ReferenceID         string
	RedirectFromEntryID bool
}

func (f EntryFilter) valid() bool {
	return f.EntryID != "" || f.ReferenceID != ""
}

func (f EntryFilter) params() map[string]any {
	switch {
	case f.EntryID != "" && f.RedirectFromEntryID:
		return map[string]any{"redirectFromEntryId": f.EntryID}
	case f.EntryID != "":
		return map[string]any{"idEqual": f.EntryID}
	case f.ReferenceID != "":
		return map[string]any{"objectType": objectTypeBaseEntryFilter, "referenceIdEqual": f.ReferenceID}
	default:
		return map[string]any{}
	}
}

// responseProfile restricts a response to fields.
func responseProfile(fields string) map[string]any {
	return map[string]any{"fields": fields, "type": 1}
}

// WidgetID is the default widget of a partner.
func WidgetID(partnerID int) string {
	return "_" + strconv.Itoa(partnerID)
}

// StartWidgetSession issues an anonymous session for a widget.
func StartWidgetSession(widgetID string) request.Descriptor {
	return request.New("session", "startWidgetSession", map[string]any{
		"widgetId": widgetID,
	})
}

// ListEntries lists the entries matching f.
func ListEntries(ts string, f EntryFilter) request.Descriptor {
	return request.New("baseEntry", "list", map[string]any{
		"ts":              ts,
		"filter":          f.params(),
		"responseProfile": responseProfile(entryFields),
	}).WithTag("list")
}

// GetPlaybackContext fetches sources, flavors and access control of an entry.
// entryID may be a result token.
func GetPlaybackContext(ts, entryID string) request.Descriptor {
	return request.New("baseEntry", "getPlaybackContext", map[string]any{
		"entryId": entryID,
		"ts":      ts,
		"contextDataParams": map[string]any{
			"objectType": objectTypeContextDataParams,
			"flavorTags": "all",
		},
	})
}

// ListMetadata lists the custom metadata of an entry. entryID may be a result token.
func ListMetadata(ts, entryID string) request.Descriptor {
	return request.New("metadata_metadata", "list", map[string]any{
		"filter": map[string]any{
			"objectType":              objectTypeMetadataFilter,
			"objectIdEqual":           entryID,
			"metadataObjectTypeEqual": metadataObjectTypeEntry,
		},
		"ts": ts,
	})
}

// GetPlaylist fetches the playlist header.
func GetPlaylist(ts, playlistID string) request.Descriptor {
	return request.New("playlist", "get", map[string]any{
		"ts":              ts,
		"id":              playlistID,
		"responseProfile": responseProfile(playlistFields),
	})
}

// ExecutePlaylist fetches the entries of a playlist.
func ExecutePlaylist(ts, playlistID string) request.Descriptor {
	return request.New("playlist", "execute", map[string]any{
		"ts":              ts,
		"id":              playlistID,
		"responseProfile": responseProfile(entryFields),
	})
}

// ListUserEntries fetches the view history of the session user for a playlist.
func ListUserEntries(ts, playlistID string) request.Descriptor {
	return request.New("userEntry", "list", map[string]any{
		"ts": ts,
		"filter": map[string]any{
			"objectType":         objectTypeViewHistoryUserEntry,
			"entryIdEqual":       playlistID,
			"userIdEqualCurrent": 1,
		},
		"responseProfile": responseProfile(userEntryFields),
	})
}
