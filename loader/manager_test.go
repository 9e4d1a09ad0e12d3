package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tasvirchi/tasvir/request"
)

// fakeLoader appends count descriptors and records the slice it receives.
type fakeLoader struct {
	id       string
	count    int
	valid    bool
	session  Session
	tokens   []string
	received []request.Result
	failOn   func([]request.Result) error
}

func (f *fakeLoader) ID() string    { return f.id }
func (f *fakeLoader) IsValid() bool { return f.valid }

func (f *fakeLoader) BuildRequests(b *request.Batch) error {
	for i := 0; i < f.count; i++ {
		params := map[string]any{"loader": f.id, "n": i}
		if f.session != nil {
			ts, err := f.session.Token(b)
			if err != nil {
				return err
			}
			params["ts"] = ts
			f.tokens = append(f.tokens, ts)
		}
		if _, err := b.Append(request.New(f.id, "get", params)); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeLoader) SetResponse(results []request.Result) error {
	if f.failOn != nil {
		if err := f.failOn(results); err != nil {
			return err
		}
	}
	f.received = results
	return nil
}

func (f *fakeLoader) Response() any { return len(f.received) }

// echo answers every sub-request with its 1-based position.
func echo(calls *int, batches *[]*request.Batch) Executor {
	return ExecutorFunc(func(_ context.Context, b *request.Batch) ([]request.Result, error) {
		*calls++
		*batches = append(*batches, b)
		results := make([]request.Result, b.Len())
		for i := range results {
			results[i] = request.Result{Data: json.RawMessage(fmt.Sprintf(`{"position":%d,"ts":"issued"}`, i+1))}
		}
		return results, nil
	})
}

func positionOf(r request.Result) int {
	var v struct{ Position int }
	_ = r.Decode(&v)
	return v.Position
}

func TestManagerRanges(t *testing.T) {
	Convey("Given loaders contributing different numbers of requests", t, func() {
		for _, counts := range [][]int{{1}, {3, 1, 2}, {0, 2, 0, 4}, {2, 2, 2, 2, 2}} {
			var calls int
			var batches []*request.Batch
			m := NewManager(echo(&calls, &batches))

			loaders := make([]*fakeLoader, len(counts))
			for i, c := range counts {
				loaders[i] = &fakeLoader{id: fmt.Sprintf("l%d", i), count: c, valid: true}
				So(m.Add(loaders[i]), ShouldBeTrue)
			}

			responses, err := m.FetchData(context.Background(), true)
			So(err, ShouldBeNil)
			So(responses, ShouldHaveLength, len(counts))

			offset := 0
			for i, l := range loaders {
				So(l.received, ShouldHaveLength, counts[i])
				for j, r := range l.received {
					So(positionOf(r), ShouldEqual, offset+j+1)
				}
				offset += counts[i]
			}
		}
	})
}

func TestManager(t *testing.T) {
	Convey("Given a manager", t, func() {
		var calls int
		var batches []*request.Batch
		m := NewManager(echo(&calls, &batches))

		Convey("Invalid loaders are dropped silently", func() {
			So(m.Add(&fakeLoader{id: "invalid", count: 2}), ShouldBeFalse)
			So(m.Len(), ShouldEqual, 0)

			responses, err := m.FetchData(context.Background(), true)
			So(err, ShouldBeNil)
			So(responses, ShouldBeEmpty)
			So(calls, ShouldEqual, 0)
		})

		Convey("A manager serves a single fetch", func() {
			m.Add(&fakeLoader{id: "a", count: 1, valid: true})
			_, err := m.FetchData(context.Background(), true)
			So(err, ShouldBeNil)
			_, err = m.FetchData(context.Background(), true)
			So(errors.Is(err, ErrManagerReused), ShouldBeTrue)
			So(calls, ShouldEqual, 1)
		})

		Convey("A session loader added first is referenced at position 1", func() {
			session := NewSessionLoader(request.New("session", "startWidgetSession", map[string]any{"widgetId": "_1091"}))
			media := &fakeLoader{id: "media", count: 3, valid: true, session: session}
			m.Add(session)
			m.Add(media)

			responses, err := m.FetchData(context.Background(), true)
			So(err, ShouldBeNil)
			So(media.tokens, ShouldResemble, []string{"{1:result:ts}", "{1:result:ts}", "{1:result:ts}"})
			So(Get[string](responses, SessionID).MustGet(), ShouldEqual, "issued")

			descriptors := batches[0].Descriptors()
			So(descriptors[0].Service(), ShouldEqual, "session")
			for _, d := range descriptors[1:] {
				So(d.Params()["ts"], ShouldEqual, "{1:result:ts}")
			}
		})

		Convey("A session loader added after its dependents fails before any call", func() {
			session := NewSessionLoader(request.New("session", "startWidgetSession", nil))
			m.Add(&fakeLoader{id: "media", count: 1, valid: true, session: session})
			m.Add(session)

			_, err := m.FetchData(context.Background(), true)
			So(errors.Is(err, request.ErrInvalidReference), ShouldBeTrue)
			So(calls, ShouldEqual, 0)
		})

		Convey("The session position follows whatever was appended before it", func() {
			session := NewSessionLoader(request.New("session", "startWidgetSession", nil))
			media := &fakeLoader{id: "media", count: 1, valid: true, session: session}
			m.Add(&fakeLoader{id: "lookup", count: 1, valid: true})
			m.Add(session)
			m.Add(media)

			_, err := m.FetchData(context.Background(), true)
			So(err, ShouldBeNil)
			So(session.Position(), ShouldEqual, 2)
			So(media.tokens, ShouldResemble, []string{"{2:result:ts}"})
		})
	})
}

func TestManagerErrors(t *testing.T) {
	serviceErr := &request.ServiceError{Code: "ENTRY_ID_NOT_FOUND", Message: "not found"}
	withError := func(position int) Executor {
		return ExecutorFunc(func(_ context.Context, b *request.Batch) ([]request.Result, error) {
			results := make([]request.Result, b.Len())
			for i := range results {
				if i+1 == position {
					results[i] = request.Result{Err: serviceErr}
					continue
				}
				results[i] = request.Result{Data: json.RawMessage(`{}`)}
			}
			return results, nil
		})
	}
	rejectErrors := func(results []request.Result) error {
		for _, r := range results {
			if r.HasError() {
				return r.Err
			}
		}
		return nil
	}

	Convey("Given a batch where the third sub-request fails", t, func() {
		m := NewManager(withError(3))
		first := &fakeLoader{id: "first", count: 2, valid: true, failOn: rejectErrors}
		second := &fakeLoader{id: "second", count: 2, valid: true, failOn: rejectErrors}
		m.Add(first)
		m.Add(second)

		Convey("Strict mode rejects with the raw error", func() {
			_, err := m.FetchData(context.Background(), true)
			So(errors.Is(err, request.ErrBatchFailed), ShouldBeTrue)

			var be *request.BatchError
			So(errors.As(err, &be), ShouldBeTrue)
			So(be.Position, ShouldEqual, 3)
			serr, ok := be.ServiceErr()
			So(ok, ShouldBeTrue)
			So(serr, ShouldEqual, serviceErr)
		})

		Convey("Non-strict mode keeps the loaders that succeeded", func() {
			responses, err := m.FetchData(context.Background(), false)
			So(err, ShouldBeNil)
			So(responses, ShouldContainKey, "first")
			So(responses, ShouldNotContainKey, "second")
			So(Get[int](responses, "second").IsAbsent(), ShouldBeTrue)
		})
	})

	Convey("Transport errors are returned as they are", t, func() {
		cause := &request.BatchError{Op: "execute", Status: 502}
		m := NewManager(ExecutorFunc(func(context.Context, *request.Batch) ([]request.Result, error) {
			return nil, cause
		}))
		m.Add(&fakeLoader{id: "a", count: 1, valid: true})

		_, err := m.FetchData(context.Background(), false)
		So(err, ShouldEqual, cause)
	})

	Convey("A result count mismatch is a batch error", t, func() {
		m := NewManager(ExecutorFunc(func(context.Context, *request.Batch) ([]request.Result, error) {
			return []request.Result{{Data: json.RawMessage(`{}`)}}, nil
		}))
		m.Add(&fakeLoader{id: "a", count: 2, valid: true})

		_, err := m.FetchData(context.Background(), false)
		So(errors.Is(err, request.ErrBatchFailed), ShouldBeTrue)
	})
}
