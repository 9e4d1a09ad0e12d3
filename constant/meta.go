// Package constant defines application-level identifiers.
package constant

const (
	// App names the binary, the config directory and the env prefix.
	App = "tasvir"

	Version = "0.1.0"

	UserAgent = App + "/" + Version

	Repository = "https://github.com/tasvirchi/tasvir"
)

// Build metadata, set through -ldflags.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
