// Package metrics exposes the vault counters on a private Prometheus registry.
package metrics

import (
	"net/http"

	"github.com/dmitrijs2005/buidlvault/internal/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "buidlvault"

type Metrics struct {
	registry *prometheus.Registry

	depositsTotal      prometheus.Counter
	depositedAmount    prometheus.Counter
	proposalsTotal     prometheus.Counter
	votesTotal         *prometheus.CounterVec
	withdrawalsTotal   *prometheus.CounterVec
	withdrawnAmount    prometheus.Counter
	failuresTotal      *prometheus.CounterVec
	rpcDurationSeconds *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	f := promauto.With(m.registry)
	m.depositsTotal = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deposits_total",
		Help:      "number of accepted deposits",
	})
	m.depositedAmount = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deposited_amount_total",
		Help:      "token units moved into vaults",
	})
	m.proposalsTotal = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "proposals_total",
		Help:      "number of created withdrawal proposals",
	})
	m.votesTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_total",
		Help:      "accepted votes by direction and kind (new or flip)",
	}, []string{"direction", "kind"})
	m.withdrawalsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "proposal_checks_total",
		Help:      "decided proposals by outcome",
	}, []string{"outcome"})
	m.withdrawnAmount = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "withdrawn_amount_total",
		Help:      "token units released from vaults",
	})
	m.failuresTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operation_failures_total",
		Help:      "failed operations by name and error code",
	}, []string{"operation", "code"})
	m.rpcDurationSeconds = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "latency of unary rpc calls",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 15),
	}, []string{"method", "code"})
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// A nil *Metrics is valid and records nothing.

func (m *Metrics) Deposit(amount int64) {
	if m == nil {
		return
	}
	m.depositsTotal.Inc()
	m.depositedAmount.Add(float64(amount))
}

func (m *Metrics) ProposalCreated() {
	if m == nil {
		return
	}
	m.proposalsTotal.Inc()
}

func (m *Metrics) Vote(upvote, flip bool) {
	if m == nil {
		return
	}
	direction, kind := "down", "new"
	if upvote {
		direction = "up"
	}
	if flip {
		kind = "flip"
	}
	m.votesTotal.WithLabelValues(direction, kind).Inc()
}

func (m *Metrics) ProposalChecked(approved bool, amount int64) {
	if m == nil {
		return
	}
	if !approved {
		m.withdrawalsTotal.WithLabelValues("rejected").Inc()
		return
	}
	m.withdrawalsTotal.WithLabelValues("approved").Inc()
	m.withdrawnAmount.Add(float64(amount))
}

func (m *Metrics) Failure(operation string, err error) {
	if m == nil || err == nil {
		return
	}
	m.failuresTotal.WithLabelValues(operation, string(common.CodeOf(err))).Inc()
}

func (m *Metrics) ObserveRPC(method, code string, seconds float64) {
	if m == nil {
		return
	}
	m.rpcDurationSeconds.WithLabelValues(method, code).Observe(seconds)
}
