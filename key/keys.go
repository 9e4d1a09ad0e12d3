// Package key defines the configuration keys.
package key

// DefinedFieldsCount is the number of registered configuration fields.
const DefinedFieldsCount = 23

// OVP backend.
const (
	OVPServiceURL                  = "ovp.service_url"
	OVPCDNURL                      = "ovp.cdn_url"
	OVPUseAPICaptions              = "ovp.use_api_captions"
	OVPLoadThumbnailWithTS         = "ovp.load_thumbnail_with_ts"
	OVPReplaceHostOnlyManifestURLs = "ovp.replace_host_only_manifest_urls"
)

// OTT backend.
const (
	OTTServiceURL = "ott.service_url"
)

// Session identity used when no ts is given on the command line.
const (
	SessionPartnerID = "session.partner_id"
	SessionUIConfID  = "session.ui_conf_id"
	SessionWidgetID  = "session.widget_id"
	SessionKeyring   = "session.keyring"
)

const (
	ProviderDefault = "provider.default"
	PlayerVersion   = "player.version"
)

// Media config cache.
const (
	CacheEnable = "cache.enable"
	CacheTTL    = "cache.ttl"
)

const (
	NetworkTimeout = "network.timeout"
)

// HTTP server of "tasvir serve".
const (
	ServeAddr      = "serve.addr"
	ServeRateLimit = "serve.rate_limit"
)

const (
	IconsVariant = "icons.variant"
)

const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
