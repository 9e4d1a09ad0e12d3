package ovp

import (
	"strconv"
	"strings"
)

// PlayURLParams are the inputs of a playManifest URL.
type PlayURLParams struct {
	CDNURL    string
	PartnerID int
	UIConfID  int
	EntryID   string
	FlavorIDs string
	Format    string
	Protocol  string
	Extension string
	TS        string
}

// PlaySourceURL builds the playManifest URL of an entry. It returns an empty
// string when the CDN, partner, entry, format or protocol is missing.
func PlaySourceURL(p PlayURLParams) string {
	pid := partnerString(p.PartnerID)
	if p.CDNURL == "" || pid == "" || p.EntryID == "" || p.Format == "" || p.Protocol == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString(strings.TrimSuffix(p.CDNURL, "/"))
	b.WriteString("/p/" + pid + "/sp/" + pid + "00/playManifest")
	b.WriteString("/entryId/" + p.EntryID)
	b.WriteString("/protocol/" + p.Protocol)
	b.WriteString("/format/" + p.Format)

	uiConf := ""
	if p.UIConfID != 0 {
		uiConf = strconv.Itoa(p.UIConfID)
	}

	if p.FlavorIDs != "" {
		b.WriteString("/flavorIds/" + p.FlavorIDs)
	} else if uiConf != "" {
		b.WriteString("/uiConfId/" + uiConf)
	}

	if p.TS != "" {
		b.WriteString("/ts/" + p.TS)
	}

	b.WriteString("/a." + p.Extension)

	if uiConf != "" && p.FlavorIDs != "" {
		b.WriteString("?uiConfId=" + uiConf)
	}

	return b.String()
}
