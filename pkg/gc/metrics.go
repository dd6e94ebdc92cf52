package gc

import "github.com/prometheus/client_golang/prometheus"

// Metrics captures observability counters for a Context's allocation and
// reclamation activity, modeled on the same counter/histogram shape used
// elsewhere in this codebase for pooled-resource lifecycle tracking.
type Metrics struct {
	allocTotal      prometheus.Counter
	sweepTotal      prometheus.Counter
	destroyTotal    prometheus.Counter
	cycleSizeHist   prometheus.Histogram
	doubleFreeTotal prometheus.Counter
	leakedObjTotal  prometheus.Counter
	sweepsLeakTotal prometheus.Counter
}

// NewMetrics constructs and registers a fresh set of instruments. If reg is
// nil, a fresh private prometheus.Registry is used.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		allocTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "arenagc",
			Name:      "objects_allocated_total",
			Help:      "Total number of objects allocated.",
		}),
		sweepTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "arenagc",
			Name:      "sweeps_total",
			Help:      "Total number of sweeps run.",
		}),
		destroyTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "arenagc",
			Name:      "objects_destroyed_total",
			Help:      "Total number of payload destructors run, by either eager reclamation or a sweep.",
		}),
		cycleSizeHist: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "arenagc",
			Name:      "sweep_reclaimed_objects",
			Help:      "Number of objects reclaimed by a single sweep.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		doubleFreeTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "arenagc",
			Name:      "double_free_total",
			Help:      "Total number of double-destroy violations detected in debug mode.",
		}),
		leakedObjTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "arenagc",
			Name:      "leaked_objects_total",
			Help:      "Total number of objects still reachable, and so leaked, at context teardown.",
		}),
		sweepsLeakTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "arenagc",
			Name:      "teardown_leaks_total",
			Help:      "Total number of context teardowns that found at least one leaked object.",
		}),
	}
	reg.MustRegister(
		m.allocTotal,
		m.sweepTotal,
		m.destroyTotal,
		m.cycleSizeHist,
		m.doubleFreeTotal,
		m.leakedObjTotal,
		m.sweepsLeakTotal,
	)
	return m
}

// AllocTotal exposes the allocation counter for tests and external scraping
// setups that want to assert against it directly rather than through a
// registry's text exposition format.
func (m *Metrics) AllocTotal() prometheus.Counter { return m.allocTotal }

// SweepTotal exposes the sweep counter.
func (m *Metrics) SweepTotal() prometheus.Counter { return m.sweepTotal }

// DestroyTotal exposes the destructor-run counter.
func (m *Metrics) DestroyTotal() prometheus.Counter { return m.destroyTotal }

// CycleSizeHistogram exposes the per-sweep reclaimed-object-count histogram.
func (m *Metrics) CycleSizeHistogram() prometheus.Histogram { return m.cycleSizeHist }

// DoubleFreeTotal exposes the double-destroy violation counter.
func (m *Metrics) DoubleFreeTotal() prometheus.Counter { return m.doubleFreeTotal }

// LeakedObjectsTotal exposes the cumulative leaked-object counter.
func (m *Metrics) LeakedObjectsTotal() prometheus.Counter { return m.leakedObjTotal }

// TeardownLeaksTotal exposes the count of context teardowns that found at
// least one leak.
func (m *Metrics) TeardownLeaksTotal() prometheus.Counter { return m.sweepsLeakTotal }

func (m *Metrics) observeAlloc() {
	if m == nil {
		return
	}
	m.allocTotal.Inc()
}

func (m *Metrics) observeSweep(scanned, reclaimed int) {
	if m == nil {
		return
	}
	m.sweepTotal.Inc()
	m.cycleSizeHist.Observe(float64(reclaimed))
	_ = scanned
}

func (m *Metrics) observeDestroy() {
	if m == nil {
		return
	}
	m.destroyTotal.Inc()
}

func (m *Metrics) observeDoubleFree() {
	if m == nil {
		return
	}
	m.doubleFreeTotal.Inc()
}

func (m *Metrics) observeLeak(count int) {
	if m == nil {
		return
	}
	m.leakedObjTotal.Add(float64(count))
	m.sweepsLeakTotal.Inc()
}
