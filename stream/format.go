// Package stream reconciles backend stream descriptors into the canonical source set.
package stream

// Class tells how a stream format is delivered.
type Class int

const (
	Adaptive Class = iota
	Progressive
)

// Format is a supported backend stream format.
type Format struct {
	Backend  string
	Name     string
	MimeType string
	PathExt  string
	Class    Class
}

// Formats is keyed by the backend format name.
var Formats = map[string]Format{
	"mpegdash":  {Backend: "mpegdash", Name: "dash", MimeType: "application/dash+xml", PathExt: "mpd", Class: Adaptive},
	"applehttp": {Backend: "applehttp", Name: "hls", MimeType: "application/x-mpegURL", PathExt: "m3u8", Class: Adaptive},
	"url":       {Backend: "url", Name: "mp4", MimeType: "video/mp4", PathExt: "mp4", Class: Progressive},
}

// Lookup returns the format registered for a backend format name.
func Lookup(backend string) (Format, bool) {
	f, ok := Formats[backend]
	return f, ok
}

// IsProgressive reports whether backend names a progressive format.
func IsProgressive(backend string) bool {
	f, ok := Formats[backend]
	return ok && f.Class == Progressive
}

// Schemes maps backend DRM scheme names to canonical key-system identifiers.
var Schemes = map[string]string{
	"drm.PLAYREADY_CENC": "com.microsoft.playready",
	"drm.WIDEVINE_CENC":  "com.widevine.alpha",
	"fairplay.FAIRPLAY":  "com.apple.fairplay",
	"PLAYREADY_CENC":     "com.microsoft.playready",
	"WIDEVINE_CENC":      "com.widevine.alpha",
	"FAIRPLAY":           "com.apple.fairplay",
}

// CanonicalScheme maps a backend scheme name. Unknown names pass through.
func CanonicalScheme(name string) string {
	if scheme, ok := Schemes[name]; ok {
		return scheme
	}
	return name
}
