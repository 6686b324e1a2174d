// Package prom exports tagcache hook events as Prometheus counters.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/unkn0wn-root/tagcache"
)

// Hooks counts cache events. Tag names are not used as labels: their
// cardinality is unbounded.
type Hooks struct {
	tagsCreated      prometheus.Counter
	tagsTouched      prometheus.Counter
	staleReads       prometheus.Counter
	selfHeals        *prometheus.CounterVec
	setRejected      prometheus.Counter
	storeErrorsTotal *prometheus.CounterVec
}

var _ tagcache.Hooks = (*Hooks)(nil)

// New creates the collectors under namespace and registers them with reg.
func New(namespace string, reg prometheus.Registerer) (*Hooks, error) {
	h := &Hooks{
		tagsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tags_created_total",
				Help:      "Tags observed for the first time",
			},
		),
		tagsTouched: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tags_touched_total",
				Help:      "Tag version bumps",
			},
		),
		staleReads: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stale_reads_total",
				Help:      "Reads that found an entry invalidated by a touched tag",
			},
		),
		selfHeals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "self_heals_total",
				Help:      "Unreadable entries dropped on read",
			},
			[]string{"reason"},
		),
		setRejected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_set_rejected_total",
				Help:      "Entity writes refused by the provider",
			},
		),
		storeErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_errors_total",
				Help:      "Backend errors returned to callers",
			},
			[]string{"op"},
		),
	}

	for _, c := range []prometheus.Collector{
		h.tagsCreated, h.tagsTouched, h.staleReads, h.selfHeals, h.setRejected, h.storeErrorsTotal,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (h *Hooks) TagCreated(string, int64)       { h.tagsCreated.Inc() }
func (h *Hooks) TagTouched(string, int64)       { h.tagsTouched.Inc() }
func (h *Hooks) EntryStale(string, string)      { h.staleReads.Inc() }
func (h *Hooks) EntrySelfHeal(_, reason string) { h.selfHeals.WithLabelValues(reason).Inc() }
func (h *Hooks) ProviderSetRejected(string)     { h.setRejected.Inc() }
func (h *Hooks) StoreError(op string, _ error)  { h.storeErrorsTotal.WithLabelValues(op).Inc() }
