// Package network holds the shared HTTP client and the multirequest transport.
package network

import (
	"net/http"
	"time"

	"github.com/tasvirchi/tasvir/log"
	"golang.org/x/net/http2"
)

// Client is the HTTP client shared by every backend call.
var Client = NewClient(time.Minute)

// NewClient returns a client over a tuned transport with HTTP/2 enabled.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: newTransport(),
	}
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = time.Second
	if err := http2.ConfigureTransport(t); err != nil {
		log.Warnf("http2 disabled: %s", err)
	}
	return t
}
