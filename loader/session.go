package loader

import (
	"fmt"

	"github.com/tasvirchi/tasvir/request"
)

// SessionID is the ID every session loader registers under.
const SessionID = "session"

// Session yields the session token dependent descriptors embed.
type Session interface {
	Token(b *request.Batch) (string, error)
	// Anonymous reports whether the token is issued inside the batch.
	Anonymous() bool
}

// StaticSession is a token the caller already holds.
type StaticSession string

func (s StaticSession) Token(*request.Batch) (string, error) {
	return string(s), nil
}

func (s StaticSession) Anonymous() bool {
	return false
}

// SessionLoader issues a session inside the batch. It must be appended before
// any loader that uses it as a Session.
type SessionLoader struct {
	descriptor request.Descriptor
	position   int
	ts         string
}

// NewSessionLoader wraps the backend call that issues a session token.
func NewSessionLoader(d request.Descriptor) *SessionLoader {
	return &SessionLoader{descriptor: d}
}

func (s *SessionLoader) ID() string {
	return SessionID
}

func (s *SessionLoader) IsValid() bool {
	return s.descriptor.Service() != ""
}

func (s *SessionLoader) BuildRequests(b *request.Batch) error {
	pos, err := b.Append(s.descriptor)
	if err != nil {
		return err
	}
	s.position = pos
	return nil
}

// Token references the ts field of the session result.
func (s *SessionLoader) Token(b *request.Batch) (string, error) {
	if s.position == 0 {
		return "", fmt.Errorf("%w: session was not appended", request.ErrInvalidReference)
	}
	return b.Token(s.position, "ts")
}

func (s *SessionLoader) Anonymous() bool {
	return true
}

// Position is the batch position of the session request, 0 before it was built.
func (s *SessionLoader) Position() int {
	return s.position
}

func (s *SessionLoader) SetResponse(results []request.Result) error {
	if len(results) != 1 {
		return fmt.Errorf("session: expected 1 result, got %d", len(results))
	}

	var session struct {
		TS string `json:"ts"`
	}
	if err := results[0].Decode(&session); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if session.TS == "" {
		return fmt.Errorf("session: empty ts")
	}

	s.ts = session.TS
	return nil
}

// Response is the issued session token.
func (s *SessionLoader) Response() any {
	return s.ts
}
