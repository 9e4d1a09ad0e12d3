package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Result is the outcome of one sub-request, positionally aligned with its descriptor.
type Result struct {
	Data json.RawMessage
	Err  *ServiceError
}

func (r Result) HasError() bool {
	return r.Err != nil
}

// Decode unmarshals the success payload into v.
func (r Result) Decode(v any) error {
	if r.Err != nil {
		return r.Err
	}
	if len(r.Data) == 0 {
		return fmt.Errorf("decode result: empty payload")
	}
	return json.Unmarshal(r.Data, v)
}

// Code is a backend error code. The backend sends it as a number or a string.
type Code string

func (c *Code) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Code(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = Code(n.String())
	return nil
}

// ServiceError is an error reported by the backend, either for a single
// sub-request or for the whole batch.
type ServiceError struct {
	Code       Code           `json:"code"`
	Message    string         `json:"message"`
	ObjectType string         `json:"objectType,omitempty"`
	Args       map[string]any `json:"args,omitempty"`
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error %s: %s", e.Code, e.Message)
}

type envelope struct {
	Result json.RawMessage `json:"result"`
}

type probe struct {
	ObjectType string          `json:"objectType"`
	Error      json.RawMessage `json:"error"`
	Code       json.RawMessage `json:"code"`
}

// DecodeResults splits a multirequest response body into per-position results.
// A batch-wide backend error is returned as a *ServiceError.
func DecodeResults(body []byte) ([]Result, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode multirequest: %w", err)
	}

	raw := bytes.TrimSpace(env.Result)
	if len(raw) == 0 {
		return nil, fmt.Errorf("decode multirequest: missing result")
	}

	if raw[0] != '[' {
		if serr, ok := asServiceError(raw); ok {
			return nil, serr
		}
		return nil, fmt.Errorf("decode multirequest: result is not a list")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode multirequest: %w", err)
	}

	results := make([]Result, len(items))
	for i, item := range items {
		if serr, ok := asServiceError(item); ok {
			results[i] = Result{Err: serr}
			continue
		}
		results[i] = Result{Data: item}
	}
	return results, nil
}

func asServiceError(raw json.RawMessage) (*ServiceError, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}

	var p probe
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false
	}

	if len(p.Error) > 0 && !bytes.Equal(bytes.TrimSpace(p.Error), []byte("null")) {
		var serr ServiceError
		if err := json.Unmarshal(p.Error, &serr); err != nil {
			return nil, false
		}
		return &serr, true
	}

	if strings.HasSuffix(p.ObjectType, "APIException") {
		var serr ServiceError
		if err := json.Unmarshal(raw, &serr); err != nil {
			return nil, false
		}
		return &serr, true
	}

	return nil, false
}
