// Package request describes single backend calls and the batched multi-request that carries them.
package request

import "maps"

// Method is the HTTP method a descriptor is dispatched with.
const (
	MethodPost = "POST"
	MethodGet  = "GET"
)

// Descriptor is an immutable description of one backend call.
// Values are copied in and out so a descriptor cannot change after it was built.
type Descriptor struct {
	service string
	action  string
	method  string
	tag     string
	params  map[string]any
}

// New creates a POST descriptor for service.action with a deep copy of params.
func New(service, action string, params map[string]any) Descriptor {
	return Descriptor{
		service: service,
		action:  action,
		method:  MethodPost,
		tag:     service + "-" + action,
		params:  clone(params),
	}
}

func (d Descriptor) Service() string { return d.service }
func (d Descriptor) Action() string  { return d.action }
func (d Descriptor) Method() string  { return d.method }
func (d Descriptor) Tag() string     { return d.tag }

// Params returns a deep copy of the parameter payload.
func (d Descriptor) Params() map[string]any {
	return clone(d.params)
}

// WithTag returns a copy of the descriptor labelled with tag.
func (d Descriptor) WithTag(tag string) Descriptor {
	d.tag = tag
	d.params = clone(d.params)
	return d
}

// WithMethod returns a copy of the descriptor dispatched with method.
func (d Descriptor) WithMethod(method string) Descriptor {
	d.method = method
	d.params = clone(d.params)
	return d
}

// wire renders the descriptor the way it is embedded in a multirequest body.
func (d Descriptor) wire() map[string]any {
	out := clone(d.params)
	if out == nil {
		out = make(map[string]any, 2)
	}
	out["service"] = d.service
	out["action"] = d.action
	return out
}

func clone(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}

	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		return clone(value)
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), value...)
	case map[string]string:
		return maps.Clone(value)
	default:
		return v
	}
}
