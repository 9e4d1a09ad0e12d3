package ovp

import (
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/samber/lo"
	"github.com/tasvirchi/tasvir/log"
	"github.com/tasvirchi/tasvir/media"
	"github.com/tasvirchi/tasvir/stream"
)

// Parser normalizes the responses of one session into the media model.
type Parser struct {
	Env       Env
	PartnerID int
	UIConfID  int
	TS        string
}

// MediaEntry builds the entry of a media response.
func (p Parser) MediaEntry(r MediaResponse) media.Entry {
	entry := p.baseEntry(r.Entry, r.Metadata)
	entry.Sources = p.sources(r.Entry, r.PlaybackContext)

	if entry.Type != media.Live && p.Env.UseAPICaptions && r.PlaybackContext.PlaybackCaptions != nil {
		entry.Sources.Captions = Captions(r.PlaybackContext.PlaybackCaptions, p.TS)
	}

	if action, ok := r.PlaybackContext.HostRegexAction(); ok {
		p.rewriteHosts(&entry, action)
	}

	return entry
}

// Playlist builds a playlist with the base data of its entries.
func (p Parser) Playlist(r PlaylistResponse) media.Playlist {
	playlist := media.Playlist{
		ID:          r.Playlist.ID,
		Name:        r.Playlist.Name,
		Description: r.Playlist.Description,
		Poster:      r.Playlist.ThumbnailURL,
		Items:       make([]media.Entry, 0, len(r.Items)),
	}

	if len(r.UserEntries) > 0 {
		playlist.LastEntryID = r.UserEntries[0].PlaylistLastEntryID
	}

	for _, item := range r.Items {
		playlist.Items = append(playlist.Items, p.baseEntry(item, MetadataList{}))
	}
	return playlist
}

// EntryList builds a list with the base data of entries.
func (p Parser) EntryList(entries []Entry) media.EntryList {
	return media.EntryList{
		Items: lo.Map(entries, func(e Entry, _ int) media.Entry {
			return p.baseEntry(e, MetadataList{})
		}),
	}
}

func (p Parser) baseEntry(e Entry, metadata MetadataList) media.Entry {
	entry := media.NewEntry()
	entry.ID = e.ID
	entry.Name = e.Name
	entry.Duration = e.Duration
	entry.DownloadURL = e.DownloadURL

	entry.Poster = e.ThumbnailURL
	if p.Env.LoadThumbnailWithTS {
		entry.Poster = media.AddTS(entry.Poster, p.TS)
	}

	entry.Metadata = ParseMetadata(metadata)
	entry.Metadata["description"] = e.Description
	entry.Metadata["entryId"] = e.ID
	entry.Metadata["name"] = e.Name
	entry.Metadata["tags"] = e.Tags
	if e.CreatedAt != 0 {
		entry.Metadata["createdAt"] = e.CreatedAt
	}
	if e.UpdatedAt != 0 {
		entry.Metadata["updatedAt"] = e.UpdatedAt
	}
	if e.CreatorID != "" {
		entry.Metadata["creatorId"] = e.CreatorID
	}
	if e.EndDate != 0 {
		entry.Metadata["endDate"] = e.EndDate
	}
	if e.Views != 0 {
		entry.Metadata["views"] = e.Views
	}
	if e.Plays != 0 {
		entry.Metadata["plays"] = e.Plays
	}

	dvr := media.DVROff
	if e.DVRStatus == dvrEnabled {
		dvr = media.DVROn
	}
	entry.SetType(EntryType(e), dvr)

	return entry
}

// EntryType maps the media type and entry type of an entry to its canonical type.
func EntryType(e Entry) media.Type {
	switch e.MediaType {
	case MediaTypeImage:
		return media.Image
	case MediaTypeAudio:
		return media.Audio
	}

	switch string(e.Type) {
	case EntryTypeMediaClip:
		return media.VOD
	case EntryTypeLiveStream, EntryTypeLiveChannel:
		return media.Live
	case EntryTypeDocument:
		return media.Document
	default:
		return media.Unknown
	}
}

func (p Parser) sources(e Entry, ctx PlaybackContext) media.Sources {
	sources := media.NewSources()

	switch {
	case isExternalMedia(e):
		sources.Progressive = []media.Source{{
			ID:       e.ID + "_youtube",
			URL:      e.ReferenceID,
			MimeType: "video/youtube",
		}}
	case e.MediaType == MediaTypeImage:
		sources.Image = []media.ImageSource{{ID: e.ID, URL: e.DataURL}}
	case string(e.Type) == EntryTypeDocument:
		sources.Document = []media.DocumentSource{{ID: e.ID, URL: e.DataURL, ThumbnailURL: e.ThumbnailURL}}
	case len(ctx.Sources) > 0:
		descs := lo.Map(ctx.Sources, func(s PlaybackSource, _ int) stream.Descriptor {
			return s.descriptor(e.ID)
		})
		sources = p.reconciler(ctx.FlavorAssets, p.UIConfID).Reconcile(descs)
	}

	return sources
}

func (p Parser) reconciler(flavors []FlavorAsset, uiConfID int) stream.Reconciler {
	base := stream.BaseProtocol(p.Env.CDNURL)

	return stream.Reconciler{
		Protocol: base,
		Adaptive: func(d stream.Descriptor, f stream.Format) (media.Source, bool) {
			src := media.Source{
				ID:       d.ID + "_" + d.DeliveryProfileID + "," + d.Format,
				MimeType: f.MimeType,
			}

			if d.FlavorIDs == "" {
				if d.URL == "" {
					return src, false
				}
				src.URL = media.AddTS(d.URL, p.TS)
				return src, true
			}

			ext := f.PathExt
			if ext == "" && len(flavors) > 0 {
				ext = flavors[0].FileExt
			}

			src.URL = PlaySourceURL(PlayURLParams{
				CDNURL:    p.Env.CDNURL,
				PartnerID: p.PartnerID,
				UIConfID:  uiConfID,
				EntryID:   d.ID,
				FlavorIDs: d.FlavorIDs,
				Format:    d.Format,
				Protocol:  stream.MatchProtocol(d.Protocols, base),
				Extension: ext,
				TS:        p.TS,
			})
			return src, src.URL != ""
		},
		Renditions: func(d stream.Descriptor, _ stream.Format) []media.Source {
			return p.renditions(d, flavors, uiConfID)
		},
	}
}

// renditions synthesizes one progressive source per flavor asset of d.
func (p Parser) renditions(d stream.Descriptor, flavors []FlavorAsset, uiConfID int) []media.Source {
	protocol := stream.MatchProtocol(d.Protocols, stream.BaseProtocol(p.Env.CDNURL))
	suffix := d.DeliveryProfileID + "," + d.Format

	renditions := make([]media.Source, 0, len(flavors))
	for _, flavor := range flavors {
		url := PlaySourceURL(PlayURLParams{
			CDNURL:    p.Env.CDNURL,
			PartnerID: p.PartnerID,
			UIConfID:  uiConfID,
			EntryID:   d.ID,
			FlavorIDs: flavor.ID,
			Format:    d.Format,
			Protocol:  protocol,
			Extension: flavor.FileExt,
			TS:        p.TS,
		})
		if url == "" {
			log.Warnf("failed to create play url from source, discarding source: (%s_%s), %s", d.ID, d.DeliveryProfileID, d.Format)
			continue
		}

		mimeType := "video/mp4"
		if flavor.FileExt == "mp3" {
			mimeType = "audio/mp3"
		}

		renditions = append(renditions, media.Source{
			ID:        flavor.ID + suffix,
			URL:       url,
			MimeType:  mimeType,
			Bandwidth: flavor.Bitrate * 1024,
			Width:     flavor.Width,
			Height:    flavor.Height,
			Label:     lo.Ternary(flavor.Label != "", flavor.Label, flavor.Language),
		})
	}
	return renditions
}

var groupReference = regexp.MustCompile(`\$(\d+)`)

func (p Parser) rewriteHosts(entry *media.Entry, action media.Action) {
	pattern, err := regexp.Compile(action.Pattern)
	if err != nil {
		log.Warnf("ignoring host regex action: %s", err)
		return
	}

	template := groupReference.ReplaceAllString(action.Replacement, "$${$1}")
	rewrite := func(url string) string {
		return rewriteHost(pattern, template, url)
	}

	onlyManifests := p.Env.ReplaceHostOnlyManifestURLs
	entry.Sources.RewriteURLs(rewrite, onlyManifests)
	if !onlyManifests && entry.Poster != "" {
		entry.Poster = rewrite(entry.Poster)
	}
}

// rewriteHost replaces the first match of pattern in url. A trailing path
// separator consumed by the match is kept.
func rewriteHost(pattern *regexp.Regexp, template, url string) string {
	match := pattern.FindStringSubmatchIndex(url)
	if match == nil {
		return url
	}

	replaced := string(pattern.ExpandString(nil, template, url, match))
	if strings.HasSuffix(url[match[0]:match[1]], "/") && !strings.HasSuffix(replaced, "/") {
		replaced += "/"
	}
	return url[:match[0]] + replaced + url[match[1]:]
}

// ParseMetadata flattens the custom metadata documents of an entry. Each
// child element of a document becomes one key, a later document overriding
// an earlier one.
func ParseMetadata(list MetadataList) map[string]any {
	metadata := make(map[string]any)
	for _, meta := range list.Objects {
		if meta.XML == "" {
			continue
		}
		if err := flattenXML(meta.XML, metadata); err != nil {
			log.Warnf("skipping malformed metadata: %s", err)
		}
	}
	return metadata
}

func flattenXML(doc string, into map[string]any) error {
	decoder := xml.NewDecoder(strings.NewReader(doc))

	var (
		depth int
		key   string
		text  strings.Builder
	)

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 {
				key = t.Name.Local
				text.Reset()
			}
		case xml.CharData:
			if depth == 2 {
				text.Write(t)
			}
		case xml.EndElement:
			if depth == 2 {
				if value := strings.TrimSpace(text.String()); value != "" {
					into[key] = value
				}
			}
			depth--
		}
	}
}
