package provider

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/tasvirchi/tasvir/media"
)

var (
	// ErrMissingMandatoryParams is returned before any network call when the
	// info names nothing to load.
	ErrMissingMandatoryParams = errors.New("missing mandatory params")

	// ErrBlockAction matches every *BlockActionError.
	ErrBlockAction = errors.New("playback blocked by access control")

	// ErrNoSources is returned when a playable entry produced no sources.
	ErrNoSources = errors.New("no playable sources")

	// ErrMediaNotReady is returned for entries the backend is still ingesting.
	ErrMediaNotReady = errors.New("media is not ready")

	// ErrUnsupported is returned for operations a backend family does not offer.
	ErrUnsupported = errors.New("not supported by this provider")

	errMissingResponse = errors.New("missing loader response")
)

// BlockActionError carries the blocking action and the messages the backend
// attached to it.
type BlockActionError struct {
	Action   media.Action
	Messages []media.Message
}

func (e *BlockActionError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("playback blocked: %s", e.Action.Type)
	}

	codes := lo.Map(e.Messages, func(m media.Message, _ int) string {
		return m.Code
	})
	return fmt.Sprintf("playback blocked: %s (%s)", e.Action.Type, strings.Join(codes, ", "))
}

func (e *BlockActionError) Is(target error) bool {
	return target == ErrBlockAction
}
