package network

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tasvirchi/tasvir/log"
	"github.com/tasvirchi/tasvir/request"
)

// maxBody caps how much of a response body is read.
const maxBody = 16 << 20

// MultiRequest executes batches against the backend multirequest endpoint.
type MultiRequest struct {
	// ServiceURL is the API base, e.g. https://cdnapisec.tasvirchi.com/api_v3.
	ServiceURL string
	// Shared params are sent at the top level of every batch.
	Shared  map[string]any
	Headers map[string]string
	// Client defaults to the shared Client.
	Client *http.Client
}

// Endpoint is the URL batches are posted to.
func (m *MultiRequest) Endpoint() string {
	return strings.TrimSuffix(m.ServiceURL, "/") + "/service/multirequest"
}

// Execute seals b, posts it and returns its results in request order.
func (m *MultiRequest) Execute(ctx context.Context, b *request.Batch) (results []request.Result, err error) {
	started := time.Now()
	defer func() {
		observe(b.Len(), started, err)
	}()

	if err = b.Seal(); err != nil {
		return nil, &request.BatchError{Op: "seal", Err: err}
	}

	payload, err := json.Marshal(b.Body(m.Shared))
	if err != nil {
		return nil, &request.BatchError{Op: "encode", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Endpoint(), bytes.NewReader(payload))
	if err != nil {
		return nil, &request.BatchError{Op: "build", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range m.Headers {
		req.Header.Set(k, v)
	}

	client := m.Client
	if client == nil {
		client = Client
	}

	log.Debugf("POST %s with %d requests", m.Endpoint(), b.Len())
	resp, err := client.Do(req)
	if err != nil {
		log.Errorf("multirequest: %s", err)
		return nil, &request.BatchError{Op: "execute", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &request.BatchError{Op: "read", Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Errorf("multirequest: unexpected status %s", resp.Status)
		return nil, &request.BatchError{
			Op:     "execute",
			Status: resp.StatusCode,
			Body:   body,
			Err:    fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	results, err = request.DecodeResults(body)
	if err != nil {
		log.Errorf("multirequest: %s", err)
		return nil, &request.BatchError{Op: "decode", Status: resp.StatusCode, Body: body, Err: err}
	}

	if len(results) != b.Len() {
		return nil, &request.BatchError{
			Op:     "decode",
			Status: resp.StatusCode,
			Body:   body,
			Err:    fmt.Errorf("expected %d results, got %d", b.Len(), len(results)),
		}
	}

	return results, nil
}
