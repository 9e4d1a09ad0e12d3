package stream

import (
	"regexp"
	"strings"
)

var protocolPattern = regexp.MustCompile(`^https?:`)

// BaseProtocol derives the protocol sources must support from the CDN base URL.
func BaseProtocol(cdnURL string) string {
	if match := protocolPattern.FindString(cdnURL); match != "" {
		return strings.TrimSuffix(match, ":")
	}
	return "https"
}

// MatchProtocol returns base if the comma separated protocols list contains it.
// A descriptor without a protocol list matches http by convention.
func MatchProtocol(protocols, base string) string {
	if protocols == "" {
		if base == "http" {
			return base
		}
		return ""
	}

	for _, p := range strings.Split(protocols, ",") {
		if strings.TrimSpace(p) == base {
			return base
		}
	}
	return ""
}
