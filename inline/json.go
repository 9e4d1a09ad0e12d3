package inline

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/tasvirchi/tasvir/media"
)

type Media struct {
	// ID is the requested entry id.
	ID string `json:"id" jsonschema:"description=Entry id as requested."`
	// Config is absent when the entry failed.
	Config *media.MediaConfig `json:"config,omitempty"`
	Error  string             `json:"error,omitempty" jsonschema:"description=Why the entry could not be loaded."`
}

type Output struct {
	Provider string   `json:"provider"`
	Result   []*Media `json:"result"`
}

type PlaylistOutput struct {
	Provider string               `json:"provider"`
	Playlist media.PlaylistConfig `json:"playlist"`
}

func mediaOutput(provider string, results []Result) *Output {
	return &Output{
		Provider: provider,
		Result: lo.Map(results, func(r Result, _ int) *Media {
			if r.Err != nil {
				return &Media{ID: r.ID, Error: r.Err.Error()}
			}
			config := r.Config
			return &Media{ID: r.ID, Config: &config}
		}),
	}
}

func writeJson(out io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = out.Write(append(data, '\n'))
	return err
}

// SchemaTargets are the documents Schema can describe.
var SchemaTargets = []string{"output", "playlist", "media"}

// Schema reflects the JSON schema of an inline document.
func Schema(target string) (*jsonschema.Schema, error) {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Namer = func(t reflect.Type) string {
		name := t.Name()
		switch strings.ToLower(name) {
		case "media", "output", "session", "source":
			return filepath.Base(t.PkgPath()) + "." + name
		}
		return name
	}

	switch target {
	case "output":
		return reflector.Reflect(&Output{}), nil
	case "playlist":
		return reflector.Reflect(&PlaylistOutput{}), nil
	case "media":
		return reflector.Reflect(&media.MediaConfig{}), nil
	default:
		return nil, fmt.Errorf("unknown schema %q, expected one of %s", target, strings.Join(SchemaTargets, ", "))
	}
}
