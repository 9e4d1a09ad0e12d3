package media

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownAction is returned when an access-control action carries a type
// this package does not know.
var ErrUnknownAction = errors.New("unknown access control action")

// Action types found in a playback context.
const (
	ActionBlock                 = "BLOCK"
	ActionPreview               = "PREVIEW"
	ActionLimitFlavors          = "LIMIT_FLAVORS"
	ActionAddToStorage          = "ADD_TO_STORAGE"
	ActionLimitDeliveryProfiles = "LIMIT_DELIVERY_PROFILES"
	ActionServeFromRemoteServer = "SERVE_FROM_REMOTE_SERVER"
	ActionRequestHostRegex      = "REQUEST_HOST_REGEX"
	ActionLimitThumbnailCapture = "LIMIT_THUMBNAIL_CAPTURE"
)

const objectTypeRuleAction = "TasvirchiRuleAction"

// actionCodes maps the numeric rule action types to their names.
var actionCodes = map[string]string{
	"1": ActionBlock,
	"2": ActionPreview,
	"3": ActionLimitFlavors,
	"4": ActionAddToStorage,
	"5": ActionLimitDeliveryProfiles,
	"6": ActionServeFromRemoteServer,
	"7": ActionRequestHostRegex,
	"8": ActionLimitThumbnailCapture,
}

// actionObjectTypes maps action object types to the action they always carry.
var actionObjectTypes = map[string]string{
	"TasvirchiAccessControlBlockAction":                  ActionBlock,
	"TasvirchiAccessControlModifyRequestHostRegexAction": ActionRequestHostRegex,
	"TasvirchiAccessControlPreviewAction":                ActionPreview,
	"TasvirchiAccessControlLimitFlavorsAction":           ActionLimitFlavors,
	"TasvirchiAccessControlLimitDeliveryProfilesAction":  ActionLimitDeliveryProfiles,
	"TasvirchiAccessControlServeRemoteEdgeServerAction":  ActionServeFromRemoteServer,
	"TasvirchiAccessControlLimitThumbnailCaptureAction":  ActionLimitThumbnailCapture,
}

// Action is an access-control rule the backend attached to a playback context.
type Action struct {
	Type                    string `json:"type"`
	Pattern                 string `json:"pattern,omitempty"`
	Replacement             string `json:"replacement,omitempty"`
	ReplacementServerNodeID int    `json:"replacmenServerNodeId,omitempty"`
	CheckAliveTimeoutMs     int    `json:"checkAliveTimeoutMs,omitempty"`
}

// UnmarshalJSON resolves the action type from the object type, or from the
// type field given by name or by number. Anything unresolvable is ErrUnknownAction.
func (a *Action) UnmarshalJSON(data []byte) error {
	type plain Action
	var wire struct {
		plain
		Type       json.RawMessage `json:"type"`
		ObjectType string          `json:"objectType"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	kind, err := actionType(wire.ObjectType, wire.Type)
	if err != nil {
		return err
	}

	*a = Action(wire.plain)
	a.Type = kind
	return nil
}

func actionType(objectType string, raw json.RawMessage) (string, error) {
	if objectType != "" && objectType != objectTypeRuleAction {
		kind, ok := actionObjectTypes[objectType]
		if !ok {
			return "", fmt.Errorf("%w: object type %s", ErrUnknownAction, objectType)
		}
		return kind, nil
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", fmt.Errorf("%w: missing type", ErrUnknownAction)
	}

	if raw[0] == '"' {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return "", err
		}
		if kind, ok := actionCodes[name]; ok {
			return kind, nil
		}
		for _, kind := range actionCodes {
			if kind == name {
				return kind, nil
			}
		}
		return "", fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}

	var code json.Number
	if err := json.Unmarshal(raw, &code); err != nil {
		return "", err
	}
	kind, ok := actionCodes[code.String()]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownAction, code)
	}
	return kind, nil
}

// Message is a user-facing access-control message.
type Message struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}
