package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/tasvirchi/tasvir/log"
	"github.com/tasvirchi/tasvir/media"
	"github.com/tasvirchi/tasvir/provider"
	"github.com/tasvirchi/tasvir/request"
)

type errorDetail struct {
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	Messages  []media.Message `json:"messages,omitempty"`
	Position  int             `json:"position,omitempty"`
	RequestID string          `json:"requestId,omitempty"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

// describe maps an error to its HTTP status and body.
func describe(err error) (int, errorDetail) {
	detail := errorDetail{Message: err.Error()}

	var (
		blockErr *provider.BlockActionError
		batchErr *request.BatchError
		sizeErr  *http.MaxBytesError
	)
	switch {
	case errors.As(err, &sizeErr):
		detail.Code = "TOO_LARGE"
		return http.StatusRequestEntityTooLarge, detail
	case errors.As(err, &blockErr):
		detail.Code = "BLOCKED"
		detail.Messages = blockErr.Messages
		return http.StatusForbidden, detail
	case errors.Is(err, errBadRequest), errors.Is(err, provider.ErrMissingMandatoryParams):
		detail.Code = "BAD_REQUEST"
		return http.StatusBadRequest, detail
	case errors.Is(err, provider.ErrUnsupported):
		detail.Code = "UNSUPPORTED"
		return http.StatusNotImplemented, detail
	case errors.Is(err, provider.ErrMediaNotReady):
		detail.Code = "NOT_READY"
		return http.StatusConflict, detail
	case errors.Is(err, provider.ErrNoSources):
		detail.Code = "NO_SOURCES"
		return http.StatusNotFound, detail
	case errors.Is(err, context.DeadlineExceeded):
		detail.Code = "TIMEOUT"
		return http.StatusGatewayTimeout, detail
	case errors.As(err, &batchErr):
		detail.Code = "BACKEND_ERROR"
		detail.Position = batchErr.Position
		if serr, ok := batchErr.ServiceErr(); ok {
			detail.Code = string(serr.Code)
			detail.Message = serr.Message
		}
		return http.StatusBadGateway, detail
	default:
		detail.Code = "INTERNAL"
		return http.StatusInternalServerError, detail
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := describe(err)
	detail.RequestID = requestIDFrom(r.Context())

	if status >= http.StatusInternalServerError {
		log.Errorf("%s %s: %s", r.Method, r.URL.Path, err)
	} else {
		log.Warnf("%s %s: %s", r.Method, r.URL.Path, err)
	}

	writeJSON(w, status, errorBody{Error: detail})
}
