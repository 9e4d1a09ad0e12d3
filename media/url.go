package media

import "strings"

// AddTS stamps url with a session token. URLs whose last path segment has an
// extension get a ts query parameter; others get a /ts/ path segment.
func AddTS(url, ts string) string {
	if ts == "" {
		return url
	}

	if hasExtension(url) {
		if strings.Contains(url, "?") {
			return url + "&ts=" + ts
		}
		return url + "?ts=" + ts
	}

	return url + "/ts/" + ts
}

func hasExtension(url string) bool {
	path, _, _ := strings.Cut(url, "?")
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		path = path[i+1:]
	}
	return strings.Contains(path, ".")
}
