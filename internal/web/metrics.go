package web

import (
	"context"
	"math"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/movers-solution/movers/internal/backend"
	"github.com/movers-solution/movers/internal/session"
)

type metrics struct {
	registry *prometheus.Registry
	logouts  *prometheus.CounterVec
	requests *prometheus.CounterVec
}

func newMetrics(sessions *session.Manager) *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		logouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "movers",
			Name:      "logout_total",
			Help:      "Backend logout calls by outcome.",
		}, []string{"outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "movers",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
	}

	stored := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "movers",
		Name:      "sessions_stored",
		Help:      "Client sessions currently held by the session store.",
	}, func() float64 {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		n, err := sessions.Count(ctx)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	})

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.logouts,
		m.requests,
		stored,
	)

	// Export every outcome from the start
	for _, o := range []backend.Outcome{backend.Success, backend.Recoverable, backend.Fatal} {
		m.logouts.WithLabelValues(o.String())
	}

	return m
}

func (m *metrics) observeLogout(o backend.Outcome) {
	m.logouts.WithLabelValues(o.String()).Inc()
}

func (m *metrics) handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
