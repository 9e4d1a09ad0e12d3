package media

// DRM describes how to acquire a license for one source.
type DRM struct {
	Scheme      string `json:"scheme"`
	LicenseURL  string `json:"licenseUrl"`
	Certificate string `json:"certificate,omitempty"`
}

// Source is one playable stream: an adaptive manifest or a progressive rendition.
type Source struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	MimeType  string `json:"mimetype"`
	Bandwidth int    `json:"bandwidth,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Label     string `json:"label,omitempty"`
	DRM       []DRM  `json:"drmData,omitempty"`
}

// IsVideo reports whether the rendition carries picture dimensions.
func (s Source) IsVideo() bool {
	return s.Width != 0 && s.Height != 0
}

type ImageSource struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type DocumentSource struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// Caption is an externally hosted text track.
type Caption struct {
	Default  bool   `json:"default"`
	Type     string `json:"type"`
	Language string `json:"language"`
	Label    string `json:"label"`
	URL      string `json:"url"`
}

// Bumper is a pre-roll clip.
type Bumper struct {
	URL             string `json:"url"`
	ClickThroughURL string `json:"clickThroughUrl,omitempty"`
}

// Adaptive format keys.
const (
	FormatHLS  = "hls"
	FormatDASH = "dash"
)

// Sources is the reconciled source set of an entry.
type Sources struct {
	Adaptive    map[string]Source `json:"adaptive"`
	Progressive []Source          `json:"progressive"`
	Image       []ImageSource     `json:"image"`
	Document    []DocumentSource  `json:"document"`
	Captions    []Caption         `json:"captions,omitempty"`
}

func NewSources() Sources {
	return Sources{Adaptive: make(map[string]Source)}
}

// SetAdaptive stores src under format. A later source for the same format replaces the earlier one.
func (s *Sources) SetAdaptive(format string, src Source) {
	if s.Adaptive == nil {
		s.Adaptive = make(map[string]Source)
	}
	s.Adaptive[format] = src
}

func (s Sources) HLS() []Source  { return s.adaptive(FormatHLS) }
func (s Sources) DASH() []Source { return s.adaptive(FormatDASH) }

func (s Sources) adaptive(format string) []Source {
	src, ok := s.Adaptive[format]
	if !ok {
		return []Source{}
	}
	return []Source{src}
}

// Empty reports whether the set has nothing to play or show.
func (s Sources) Empty() bool {
	return len(s.Adaptive) == 0 && len(s.Progressive) == 0 && len(s.Image) == 0 && len(s.Document) == 0
}

// RewriteURLs applies fn to every playable URL and, unless manifestsOnly,
// to every caption URL.
func (s *Sources) RewriteURLs(fn func(string) string, manifestsOnly bool) {
	for format, src := range s.Adaptive {
		src.URL = fn(src.URL)
		s.Adaptive[format] = src
	}

	for i := range s.Progressive {
		s.Progressive[i].URL = fn(s.Progressive[i].URL)
	}

	if manifestsOnly {
		return
	}

	for i := range s.Captions {
		s.Captions[i].URL = fn(s.Captions[i].URL)
	}
}
