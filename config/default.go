package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/tasvirchi/tasvir/color"
	"github.com/tasvirchi/tasvir/constant"
	"github.com/tasvirchi/tasvir/key"
	"github.com/tasvirchi/tasvir/ott"
	"github.com/tasvirchi/tasvir/ovp"
	"github.com/tasvirchi/tasvir/style"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.App + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	register(key.OVPServiceURL, ovp.DefaultServiceURL, "OVP API endpoint")
	register(key.OVPCDNURL, ovp.DefaultCDNURL, "OVP CDN used to build playManifest URLs")
	register(key.OVPUseAPICaptions, true, "Attach the captions of the playback context to VOD entries")
	register(key.OVPLoadThumbnailWithTS, false, "Append the session ts to poster URLs")
	register(key.OVPReplaceHostOnlyManifestURLs, false, "Apply host rewrite rules to manifest URLs only.\nOtherwise captions and posters are rewritten too")
	register(key.OTTServiceURL, ott.DefaultServiceURL, "OTT API endpoint")
	register(key.SessionPartnerID, 0, "Partner id used when none is given on the command line")
	register(key.SessionUIConfID, 0, "Player configuration id added to sessions and manifest URLs")
	register(key.SessionWidgetID, "", "Widget used for anonymous sessions.\nEmpty means the partner's default widget")
	register(key.SessionKeyring, true, "Read the session ts stored by \"tasvir login\" when none is given")
	register(key.ProviderDefault, "ovp", "Backend family to use.\nType \"tasvir env\" to show available families")
	register(key.PlayerVersion, constant.Version, "Player version sent as the client tag")
	register(key.CacheEnable, true, "Cache fetched media configs")
	register(key.CacheTTL, "10m", "How long a cached media config stays valid")
	register(key.NetworkTimeout, "1m", "Timeout of one multirequest")
	register(key.ServeAddr, ":8080", "Listen address of \"tasvir serve\"")
	register(key.ServeRateLimit, 100, "Requests per minute allowed per client IP.\n0 disables the limit")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
