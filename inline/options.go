package inline

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/tasvirchi/tasvir/media"
)

type (
	// SourcePicker chooses the sources printed for a config in plain mode.
	SourcePicker func(media.ConfigSources) []media.Source
	// ItemsFilter narrows the items of a playlist.
	ItemsFilter func([]media.PlaylistItem) []media.PlaylistItem
)

type Options struct {
	Out      io.Writer
	Json     bool
	Provider string
	Picker   mo.Option[SourcePicker]
	Filter   mo.Option[ItemsFilter]
}

func (o *Options) picker() SourcePicker {
	return o.Picker.OrElse(pickAll)
}

func pickAll(s media.ConfigSources) []media.Source {
	return lo.Flatten([][]media.Source{s.HLS, s.DASH, s.Progressive})
}

// ParseSourcePicker parses a source selector:
// hls, dash, progressive, all, or best (highest bandwidth progressive rendition).
func ParseSourcePicker(kind string) (SourcePicker, error) {
	switch kind {
	case "hls":
		return func(s media.ConfigSources) []media.Source { return s.HLS }, nil
	case "dash":
		return func(s media.ConfigSources) []media.Source { return s.DASH }, nil
	case "progressive":
		return func(s media.ConfigSources) []media.Source { return s.Progressive }, nil
	case "all":
		return pickAll, nil
	case "best":
		return func(s media.ConfigSources) []media.Source {
			if len(s.Progressive) == 0 {
				return nil
			}
			return []media.Source{lo.MaxBy(s.Progressive, func(a, b media.Source) bool {
				return a.Bandwidth > b.Bandwidth
			})}
		}, nil
	default:
		return nil, fmt.Errorf("unknown source selector: %s", kind)
	}
}

// ParseItemsFilter parses an item selector:
// first, last, all, an index, a from-to range, or @substring@ matched on names.
func ParseItemsFilter(description string) (ItemsFilter, error) {
	switch description {
	case "first":
		return func(items []media.PlaylistItem) []media.PlaylistItem {
			return items[:min(1, len(items))]
		}, nil
	case "last":
		return func(items []media.PlaylistItem) []media.PlaylistItem {
			return items[max(0, len(items)-1):]
		}, nil
	case "all":
		return func(items []media.PlaylistItem) []media.PlaylistItem {
			return items
		}, nil
	}

	if from, to, ok := strings.Cut(description, "-"); ok {
		start, err1 := strconv.ParseUint(from, 10, 16)
		end, err2 := strconv.ParseUint(to, 10, 16)
		if err1 == nil && err2 == nil {
			return func(items []media.PlaylistItem) []media.PlaylistItem {
				s := min(int(start), len(items))
				e := min(int(end)+1, len(items))
				if s > e {
					return []media.PlaylistItem{}
				}
				return items[s:e]
			}, nil
		}
	}

	if len(description) > 1 && strings.HasPrefix(description, "@") && strings.HasSuffix(description, "@") {
		sub := strings.ToLower(description[1 : len(description)-1])
		return func(items []media.PlaylistItem) []media.PlaylistItem {
			return lo.Filter(items, func(item media.PlaylistItem, _ int) bool {
				name, _ := item.Sources.Metadata["name"].(string)
				return strings.Contains(strings.ToLower(name), sub)
			})
		}, nil
	}

	if idx, err := strconv.ParseUint(description, 10, 16); err == nil {
		return func(items []media.PlaylistItem) []media.PlaylistItem {
			if uint64(len(items)) <= idx {
				return []media.PlaylistItem{}
			}
			return []media.PlaylistItem{items[idx]}
		}, nil
	}

	return nil, fmt.Errorf("invalid item selector: %s", description)
}
