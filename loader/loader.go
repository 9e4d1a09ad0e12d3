// Package loader orchestrates loaders that share one batched multirequest.
package loader

import (
	"context"

	"github.com/samber/mo"
	"github.com/tasvirchi/tasvir/request"
)

// Loader contributes descriptors to a shared batch and parses its slice of the results.
type Loader interface {
	// ID identifies the loader in the responses of a fetch.
	ID() string
	// IsValid reports whether the loader has what it needs to build requests.
	IsValid() bool
	// BuildRequests appends the loader's descriptors to b.
	BuildRequests(b *request.Batch) error
	// SetResponse receives the results at the positions the loader appended.
	SetResponse(results []request.Result) error
	// Response is the parsed result, available after SetResponse succeeded.
	Response() any
}

// Executor runs a batch and returns its results in request order.
type Executor interface {
	Execute(ctx context.Context, b *request.Batch) ([]request.Result, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, b *request.Batch) ([]request.Result, error)

func (f ExecutorFunc) Execute(ctx context.Context, b *request.Batch) ([]request.Result, error) {
	return f(ctx, b)
}

// Responses maps loader IDs to the loaders that produced a response.
type Responses map[string]Loader

// Get returns the typed response of the loader registered under id.
func Get[T any](r Responses, id string) mo.Option[T] {
	l, ok := r[id]
	if !ok {
		return mo.None[T]()
	}

	value, ok := l.Response().(T)
	if !ok {
		return mo.None[T]()
	}
	return mo.Some(value)
}
