package request

import (
	"fmt"
	"strconv"
	"sync"
)

// Batch is an ordered set of descriptors sent as one multirequest.
// The 1-based position of a descriptor is its permanent reference index.
type Batch struct {
	mu          sync.Mutex
	descriptors []Descriptor
	sealed      bool
}

func NewBatch() *Batch {
	return &Batch{}
}

// Append adds d at the next position and returns that position.
// Tokens embedded in d's params may only reference positions appended before it.
func (b *Batch) Append(d Descriptor) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sealed {
		return 0, ErrBatchSealed
	}

	if err := checkReferences(d.params, len(b.descriptors)); err != nil {
		return 0, fmt.Errorf("append %s.%s: %w", d.service, d.action, err)
	}

	b.descriptors = append(b.descriptors, d)
	return len(b.descriptors), nil
}

// Token builds a placeholder referencing the result at position.
func (b *Batch) Token(position int, path ...string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if position < 1 || position > len(b.descriptors) {
		return "", fmt.Errorf("%w: position %d of %d", ErrInvalidReference, position, len(b.descriptors))
	}

	return Token{Position: position, Path: path}.String(), nil
}

func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.descriptors)
}

// Descriptors returns the descriptors in addressing order.
func (b *Batch) Descriptors() []Descriptor {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Descriptor(nil), b.descriptors...)
}

// Seal marks the batch as executed. A batch can only be sealed once.
func (b *Batch) Seal() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sealed {
		return ErrBatchSealed
	}
	b.sealed = true
	return nil
}

// Body renders the multirequest payload: shared params at the top level and
// each descriptor under its position.
func (b *Batch) Body(shared map[string]any) map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()

	body := clone(shared)
	if body == nil {
		body = make(map[string]any, len(b.descriptors))
	}

	for i, d := range b.descriptors {
		body[strconv.Itoa(i+1)] = d.wire()
	}
	return body
}
