// Package inline writes fetched configs for scripts: JSON documents or
// plain source URLs, one per line.
package inline

import (
	"fmt"
	"os"

	"github.com/tasvirchi/tasvir/log"
	"github.com/tasvirchi/tasvir/media"
)

// Result is the outcome of one requested entry.
type Result struct {
	ID     string
	Config media.MediaConfig
	Err    error
}

// WriteMedia writes the outcome of every requested entry. Failed entries are
// reported in JSON mode and skipped in plain mode.
func WriteMedia(results []Result, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	if options.Json {
		return writeJson(options.Out, mediaOutput(options.Provider, results))
	}

	pick := options.picker()
	for _, r := range results {
		if r.Err != nil {
			log.Warnf("skipping %s: %s", r.ID, r.Err)
			continue
		}
		for _, src := range pick(r.Config.Sources) {
			if _, err := fmt.Fprintln(options.Out, src.URL); err != nil {
				return err
			}
		}
	}
	return nil
}

// WritePlaylist writes a playlist after applying the items filter.
func WritePlaylist(config media.PlaylistConfig, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	if options.Filter.IsPresent() {
		config.Items = options.Filter.MustGet()(config.Items)
	}

	if options.Json {
		return writeJson(options.Out, &PlaylistOutput{Provider: options.Provider, Playlist: config})
	}

	pick := options.picker()
	for _, item := range config.Items {
		for _, src := range pick(item.Sources) {
			if _, err := fmt.Fprintln(options.Out, src.URL); err != nil {
				return err
			}
		}
	}
	return nil
}
