package stream

import (
	"github.com/samber/lo"
	"github.com/tasvirchi/tasvir/log"
	"github.com/tasvirchi/tasvir/media"
)

// DRMEntry is a DRM block as declared on a backend descriptor.
type DRMEntry struct {
	Scheme      string `json:"scheme"`
	LicenseURL  string `json:"licenseURL"`
	Certificate string `json:"certificate,omitempty"`
}

// Descriptor is a backend stream descriptor, independent of the backend family.
type Descriptor struct {
	ID                string
	Format            string
	Type              string
	Protocols         string
	FlavorIDs         string
	URL               string
	DeliveryProfileID string
	Duration          int
	DRM               []DRMEntry
}

// AdaptiveFunc turns an adaptive descriptor into one manifest source.
// It returns false when no usable URL can be produced.
type AdaptiveFunc func(d Descriptor, f Format) (media.Source, bool)

// RenditionFunc expands a progressive descriptor into its renditions.
type RenditionFunc func(d Descriptor, f Format) []media.Source

// Reconciler builds the canonical source set from backend descriptors.
type Reconciler struct {
	// Protocol is the base protocol progressive descriptors must support.
	Protocol string
	// EveryProgressive expands every progressive descriptor instead of the
	// first one matching Protocol.
	EveryProgressive bool
	Adaptive         AdaptiveFunc
	Renditions       RenditionFunc
}

// Reconcile partitions descs into adaptive and progressive sources.
// Adaptive sources are keyed by format, a later descriptor replacing an earlier one.
func (r Reconciler) Reconcile(descs []Descriptor) media.Sources {
	sources := media.NewSources()

	for _, d := range descs {
		f, ok := Lookup(d.Format)
		if !ok || f.Class != Adaptive {
			continue
		}

		src, ok := r.Adaptive(d, f)
		if !ok || src.URL == "" {
			log.Warnf("failed to create play url from source, discarding source: (%s), %s", d.ID, d.Format)
			continue
		}

		src.DRM = ConvertDRM(d.DRM)
		sources.SetAdaptive(f.Name, src)
	}

	if r.Renditions == nil {
		return sources
	}

	var renditions []media.Source
	for _, d := range r.progressive(descs) {
		f, _ := Lookup(d.Format)
		drm := ConvertDRM(d.DRM)
		for _, rendition := range r.Renditions(d, f) {
			if rendition.DRM == nil {
				rendition.DRM = cloneDRM(drm)
			}
			renditions = append(renditions, rendition)
		}
	}
	sources.Progressive = SplitRenditions(renditions)

	return sources
}

func (r Reconciler) progressive(descs []Descriptor) []Descriptor {
	if r.EveryProgressive {
		return lo.Filter(descs, func(d Descriptor, _ int) bool {
			return IsProgressive(d.Format)
		})
	}

	chosen, ok := lo.Find(descs, func(d Descriptor) bool {
		return IsProgressive(d.Format) && MatchProtocol(d.Protocols, r.Protocol) != ""
	})
	if !ok {
		return nil
	}
	return []Descriptor{chosen}
}

// SplitRenditions returns the video renditions, or the audio-only renditions
// when there is no video at all. The two are never mixed.
func SplitRenditions(renditions []media.Source) []media.Source {
	video, audio := lo.FilterReject(renditions, func(s media.Source, _ int) bool {
		return s.IsVideo()
	})

	if len(video) == 0 && len(audio) > 0 {
		return audio
	}
	return video
}

// ConvertDRM canonicalizes declared DRM entries. No entries yields nil.
func ConvertDRM(entries []DRMEntry) []media.DRM {
	if len(entries) == 0 {
		return nil
	}

	return lo.Map(entries, func(e DRMEntry, _ int) media.DRM {
		return media.DRM{
			Scheme:      CanonicalScheme(e.Scheme),
			LicenseURL:  e.LicenseURL,
			Certificate: e.Certificate,
		}
	})
}

func cloneDRM(drm []media.DRM) []media.DRM {
	if drm == nil {
		return nil
	}
	return append([]media.DRM(nil), drm...)
}
