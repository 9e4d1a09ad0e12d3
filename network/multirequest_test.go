package network

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tasvirchi/tasvir/request"
)

func newBatch() *request.Batch {
	b := request.NewBatch()
	_, _ = b.Append(request.New("session", "startWidgetSession", map[string]any{"widgetId": "_1091"}))
	_, _ = b.Append(request.New("baseEntry", "list", map[string]any{"ts": "{1:result:ts}"}))
	return b
}

func TestMultiRequest(t *testing.T) {
	Convey("Given a backend answering multirequests", t, func() {
		var received map[string]any
		var path, contentType string
		status := http.StatusOK
		reply := `{"result":[{"ts":"abc"},{"objects":[{"id":"0_x"}]}]}`

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			contentType = r.Header.Get("Content-Type")
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &received)
			w.WriteHeader(status)
			_, _ = w.Write([]byte(reply))
		}))
		defer srv.Close()

		mr := &MultiRequest{
			ServiceURL: srv.URL + "/api_v3",
			Shared:     map[string]any{"apiVersion": "3.3.0", "partnerId": 1091},
			Client:     srv.Client(),
		}

		Convey("The batch is posted as one JSON body", func() {
			results, err := mr.Execute(context.Background(), newBatch())
			So(err, ShouldBeNil)
			So(results, ShouldHaveLength, 2)

			So(path, ShouldEqual, "/api_v3/service/multirequest")
			So(contentType, ShouldEqual, "application/json")
			So(received["apiVersion"], ShouldEqual, "3.3.0")
			So(received["1"].(map[string]any)["service"], ShouldEqual, "session")
			So(received["2"].(map[string]any)["ts"], ShouldEqual, "{1:result:ts}")
		})

		Convey("A batch is executed only once", func() {
			b := newBatch()
			_, err := mr.Execute(context.Background(), b)
			So(err, ShouldBeNil)
			_, err = mr.Execute(context.Background(), b)
			So(errors.Is(err, request.ErrBatchSealed), ShouldBeTrue)
		})

		Convey("A batch-wide error carries the raw payload", func() {
			reply = `{"result":{"error":{"objectType":"TasvirchiAPIException","code":"500015","message":"Invalid ts format"}}}`
			_, err := mr.Execute(context.Background(), newBatch())

			var be *request.BatchError
			So(errors.As(err, &be), ShouldBeTrue)
			So(string(be.Body), ShouldEqual, reply)
			serr, ok := be.ServiceErr()
			So(ok, ShouldBeTrue)
			So(string(serr.Code), ShouldEqual, "500015")
		})

		Convey("A non-2xx status is a batch error", func() {
			status = http.StatusBadGateway
			_, err := mr.Execute(context.Background(), newBatch())

			var be *request.BatchError
			So(errors.As(err, &be), ShouldBeTrue)
			So(be.Status, ShouldEqual, http.StatusBadGateway)
		})

		Convey("A result count mismatch is a batch error", func() {
			reply = `{"result":[{"ts":"abc"}]}`
			_, err := mr.Execute(context.Background(), newBatch())
			So(errors.Is(err, request.ErrBatchFailed), ShouldBeTrue)
		})
	})

	Convey("Given an unreachable backend", t, func() {
		mr := &MultiRequest{ServiceURL: "http://127.0.0.1:1", Client: NewClient(0)}
		_, err := mr.Execute(context.Background(), newBatch())
		So(errors.Is(err, request.ErrBatchFailed), ShouldBeTrue)
	})
}
