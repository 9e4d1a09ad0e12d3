package loader

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/tasvirchi/tasvir/log"
	"github.com/tasvirchi/tasvir/request"
)

// ErrManagerReused is returned when FetchData is called twice on one manager.
var ErrManagerReused = errors.New("loader manager already fetched")

type span struct {
	start, end int
}

// Manager builds one batch out of its loaders, executes it once and hands
// every loader the results at the positions it appended.
type Manager struct {
	exec    Executor
	loaders []Loader
	used    atomic.Bool
}

func NewManager(exec Executor) *Manager {
	return &Manager{exec: exec}
}

// Add registers l if it is valid. Invalid loaders are dropped silently.
func (m *Manager) Add(l Loader) bool {
	if !l.IsValid() {
		log.Debugf("loader %s is not valid, skipping", l.ID())
		return false
	}

	m.loaders = append(m.loaders, l)
	return true
}

// Len returns the number of registered loaders.
func (m *Manager) Len() int {
	return len(m.loaders)
}

// FetchData executes the batch of all registered loaders.
// In strict mode any sub-request error fails the whole call. Otherwise a
// loader that cannot parse its results is left out of the responses.
func (m *Manager) FetchData(ctx context.Context, strict bool) (Responses, error) {
	if m.used.Swap(true) {
		return nil, ErrManagerReused
	}

	batch := request.NewBatch()
	spans := make([]span, len(m.loaders))
	for i, l := range m.loaders {
		start := batch.Len()
		if err := l.BuildRequests(batch); err != nil {
			return nil, fmt.Errorf("build %s requests: %w", l.ID(), err)
		}
		spans[i] = span{start: start, end: batch.Len()}
	}

	responses := make(Responses, len(m.loaders))
	if batch.Len() == 0 {
		return responses, nil
	}

	log.Debugf("executing batch of %d requests for %d loaders", batch.Len(), len(m.loaders))
	results, err := m.exec.Execute(ctx, batch)
	if err != nil {
		return nil, err
	}

	if len(results) != batch.Len() {
		return nil, &request.BatchError{
			Op:  "demultiplex",
			Err: fmt.Errorf("expected %d results, got %d", batch.Len(), len(results)),
		}
	}

	if strict {
		for i, r := range results {
			if r.HasError() {
				return nil, &request.BatchError{Op: "fetch", Position: i + 1, Err: r.Err}
			}
		}
	}

	for i, l := range m.loaders {
		s := spans[i]
		if err := l.SetResponse(results[s.start:s.end]); err != nil {
			if strict {
				return nil, fmt.Errorf("%s response: %w", l.ID(), err)
			}
			log.Warnf("omitting %s response: %s", l.ID(), err)
			continue
		}
		responses[l.ID()] = l
	}

	return responses, nil
}
