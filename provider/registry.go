package provider

import (
	"strings"

	"github.com/tasvirchi/tasvir/ott"
	"github.com/tasvirchi/tasvir/ovp"
)

// Envs are the backend configurations a family is created from.
type Envs struct {
	OVP ovp.Env
	OTT ott.Env
}

// DefaultEnvs returns the production configuration of every family.
func DefaultEnvs() Envs {
	return Envs{OVP: ovp.DefaultEnv(), OTT: ott.DefaultEnv()}
}

// Family is a built-in backend family.
type Family struct {
	ID          string
	Name        string
	Description string
	Create      func(opts Options, envs Envs) Provider
}

func (f *Family) String() string {
	return f.Name
}

// Builtins returns the built-in families.
func Builtins() []*Family {
	return []*Family{
		{
			ID:          "ovp",
			Name:        "OVP",
			Description: "Online video platform: entries, playlists and custom metadata",
			Create: func(opts Options, envs Envs) Provider {
				return NewOVP(opts, envs.OVP)
			},
		},
		{
			ID:          "ott",
			Name:        "OTT",
			Description: "OTT platform: assets, EPG programs and recordings",
			Create: func(opts Options, envs Envs) Provider {
				return NewOTT(opts, envs.OTT)
			},
		},
	}
}

// Get finds a family by id or name.
func Get(name string) (*Family, bool) {
	for _, f := range Builtins() {
		if strings.EqualFold(f.ID, name) || strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return nil, false
}
