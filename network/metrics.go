package network

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tasvirchi/tasvir/request"
)

var (
	batchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tasvir_multirequest_total",
		Help: "Multirequests executed, by outcome.",
	}, []string{"outcome"})

	batchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tasvir_multirequest_duration_seconds",
		Help:    "Multirequest round trip time.",
		Buckets: prometheus.DefBuckets,
	})

	batchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tasvir_multirequest_subrequests",
		Help:    "Sub-requests per multirequest.",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 50},
	})
)

func observe(size int, started time.Time, err error) {
	batchDuration.Observe(time.Since(started).Seconds())
	batchSize.Observe(float64(size))
	batchesTotal.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	var serr *request.ServiceError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &serr):
		return "service_error"
	default:
		return "transport_error"
	}
}
