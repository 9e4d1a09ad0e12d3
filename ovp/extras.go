package ovp

import (
	"github.com/samber/lo"
	"github.com/tasvirchi/tasvir/media"
	"github.com/tasvirchi/tasvir/stream"
)

var captionTypes = map[string]string{
	CaptionSRT:    "srt",
	CaptionWebVTT: "vtt",
}

// Captions converts caption assets into external text tracks. Formats without
// native player support are served from their WebVTT mirror.
func Captions(captions []Caption, ts string) []media.Caption {
	return lo.Map(captions, func(c Caption, _ int) media.Caption {
		format := string(c.Format)
		url := c.URL
		kind := captionTypes[format]

		if format == CaptionDFXP || format == CaptionCAP {
			url = c.WebVTTURL
			kind = captionTypes[CaptionWebVTT]
		}

		return media.Caption{
			Default:  c.IsDefault,
			Type:     kind,
			Language: c.LanguageCode,
			Label:    c.Label,
			URL:      media.AddTS(url, ts),
		}
	})
}

// Bumper returns the progressive pre-roll of a playback context, if any.
func (p Parser) Bumper(ctx PlaybackContext) (media.Bumper, bool) {
	if len(ctx.BumperData) == 0 {
		return media.Bumper{}, false
	}

	bumper := ctx.BumperData[0]
	source, ok := lo.Find(bumper.Sources, func(s PlaybackSource) bool {
		return stream.IsProgressive(s.Format)
	})
	if !ok {
		return media.Bumper{}, false
	}

	renditions := stream.SplitRenditions(p.renditions(source.descriptor(bumper.EntryID), ctx.FlavorAssets, 0))
	if len(renditions) == 0 {
		return media.Bumper{}, false
	}

	return media.Bumper{
		URL:             renditions[0].URL,
		ClickThroughURL: bumper.ClickThroughURL,
	}, true
}
