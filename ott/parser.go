package ott

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
	"github.com/tasvirchi/tasvir/log"
	"github.com/tasvirchi/tasvir/media"
	"github.com/tasvirchi/tasvir/stream"
)

// typeRule decides the entry type of an asset played in one context.
type typeRule func(a Asset) (media.Type, media.DVR)

func fixed(t media.Type, dvr media.DVR) typeRule {
	return func(Asset) (media.Type, media.DVR) { return t, dvr }
}

func mediaPlayback(a Asset) (media.Type, media.DVR) {
	if a.ObjectType == objectTypeLiveAsset {
		return media.Live, lo.Ternary(a.EnableTrickPlay, media.DVROn, media.DVROff)
	}
	if leadingInt(string(a.ExternalIDs)) > 0 {
		return media.Live, media.DVROff
	}
	return media.VOD, media.DVRAbsent
}

var typeRules = map[AssetType]map[ContextType]typeRule{
	AssetMedia: {
		ContextTrailer:  fixed(media.VOD, media.DVRAbsent),
		ContextPlayback: mediaPlayback,
	},
	AssetEPG: {
		ContextCatchup:   fixed(media.VOD, media.DVRAbsent),
		ContextStartOver: fixed(media.Live, media.DVROn),
	},
	AssetRecording: {
		ContextPlayback: fixed(media.VOD, media.DVRAbsent),
	},
}

// EntryType looks up the entry type of a played asset. Unknown combinations are Unknown.
func EntryType(a Asset, assetType AssetType, context ContextType) (media.Type, media.DVR) {
	rule, ok := typeRules[assetType][context]
	if !ok {
		return media.Unknown, media.DVRAbsent
	}
	return rule(a)
}

// leadingInt parses the leading decimal digits of s, 0 when there are none.
func leadingInt(s string) int {
	n := 0
	for _, r := range strings.TrimSpace(s) {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// Request is what the caller asked for, needed to interpret a response.
type Request struct {
	AssetType   AssetType
	ContextType ContextType
	// Formats keeps only the sources of these file types when set.
	Formats []string
}

// MediaEntry builds the entry of an asset response.
func MediaEntry(r AssetResponse, req Request) media.Entry {
	entry := baseEntry(r.Asset, req)

	sources := r.PlaybackContext.Sources
	if len(req.Formats) > 0 {
		sources = lo.Filter(sources, func(s PlaybackSource, _ int) bool {
			return lo.Contains(req.Formats, s.Type)
		})
	}

	descs := lo.Map(sources, func(s PlaybackSource, _ int) stream.Descriptor {
		return s.descriptor()
	})
	entry.Sources = reconciler.Reconcile(descs)

	entry.SetType(EntryType(r.Asset, req.AssetType, req.ContextType))
	entry.Duration = lo.Max(lo.Map(r.PlaybackContext.Sources, func(s PlaybackSource, _ int) int {
		return s.Duration
	}))

	return entry
}

// EntryList builds a list with the base data of assets. Each asset is
// interpreted with the request made for its id.
func EntryList(assets []Asset, requests map[string]Request) media.EntryList {
	return media.EntryList{
		Items: lo.Map(assets, func(a Asset, _ int) media.Entry {
			return baseEntry(a, requests[string(a.ID)])
		}),
	}
}

// Bumper returns the progressive pre-roll plugin of a playback context, if any.
func Bumper(ctx PlaybackContext) (media.Bumper, bool) {
	plugin, ok := lo.Find(ctx.Plugins, func(p Plugin) bool {
		return p.StreamerType == StreamerProgressive
	})
	if !ok {
		return media.Bumper{}, false
	}
	return media.Bumper{URL: plugin.URL}, true
}

var reconciler = stream.Reconciler{
	EveryProgressive: true,
	Adaptive:         passThrough,
	Renditions: func(d stream.Descriptor, f stream.Format) []media.Source {
		src, ok := passThrough(d, f)
		if !ok {
			log.Errorf("failed to create play url from source, discarding source: (%s), %s", d.ID, d.Format)
			return nil
		}
		return []media.Source{src}
	},
}

// passThrough uses the URL the backend already resolved.
func passThrough(d stream.Descriptor, f stream.Format) (media.Source, bool) {
	if d.URL == "" {
		return media.Source{}, false
	}
	return media.Source{
		ID:       d.ID + "," + d.Format,
		URL:      d.URL,
		MimeType: f.MimeType,
	}, true
}

func baseEntry(a Asset, req Request) media.Entry {
	entry := media.NewEntry()
	entry.ID = string(a.ID)
	entry.Name = a.Name

	metas := make(map[string]any, len(a.Metas))
	for name, v := range a.Metas {
		metas[name] = v.Value
	}
	tags := make(map[string]any, len(a.Tags))
	for name, v := range a.Tags {
		tags[name] = v.join("|")
	}

	entry.Metadata["metas"] = metas
	entry.Metadata["tags"] = tags
	entry.Metadata["description"] = a.Description
	entry.Metadata["name"] = a.Name
	if a.CreateDate != 0 {
		entry.Metadata["createdAt"] = a.CreateDate
	}
	if a.EndDate != 0 {
		entry.Metadata["endDate"] = a.EndDate
	}
	if a.EntryID != "" {
		entry.Metadata["entryId"] = a.EntryID
	}
	if a.EPGID != "" {
		entry.Metadata["epgId"] = string(a.EPGID)
	}
	if a.RecordingID != "" {
		entry.Metadata["recordingId"] = string(a.RecordingID)
	}
	if req.AssetType != "" {
		entry.Metadata["mediaType"] = string(req.AssetType)
	}
	if req.ContextType != "" {
		entry.Metadata["contextType"] = string(req.ContextType)
	}

	if tagsMeta, ok := metas["tags"].(string); ok && strings.Contains(tagsMeta, "360") {
		entry.VR = true
	}

	entry.Poster, entry.Pictures = poster(a.Images)
	return entry
}

var thumbnailService = regexp.MustCompile(`.*/thumbnail/.*(?:width|height)/\d+/(?:height|width)/\d+`)

// poster picks the first image when it is served by the thumbnail service,
// otherwise every image is a candidate.
func poster(images []Image) (string, []media.Picture) {
	if len(images) == 0 {
		return "", nil
	}
	if thumbnailService.MatchString(images[0].URL) {
		return images[0].URL, nil
	}
	return "", lo.Map(images, func(img Image, _ int) media.Picture {
		return media.Picture{URL: img.URL, Width: img.Width, Height: img.Height}
	})
}
