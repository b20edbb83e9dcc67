package refpool

import "github.com/prometheus/client_golang/prometheus"

// StatsSource yields a point-in-time snapshot of pool statistics.
// Pool and SafePool both satisfy it.
type StatsSource interface {
	Stats() PoolStats
}

// Collector adapts a pool into a prometheus.Collector. It holds no
// metric state of its own; every scrape reads a fresh snapshot from
// the source. Register it with an explicit registry:
//
//	reg.MustRegister(refpool.NewCollector(pool, "orders"))
type Collector struct {
	source StatsSource

	capacity    *prometheus.Desc
	live        *prometheus.Desc
	freeSlots   *prometheus.Desc
	tail        *prometheus.Desc
	utilization *prometheus.Desc
}

// NewCollector creates a Collector over source. poolName becomes the
// value of the "pool" label on every metric, so multiple pools can be
// registered side by side.
func NewCollector(source StatsSource, poolName string) *Collector {
	labels := prometheus.Labels{"pool": poolName}
	return &Collector{
		source: source,
		capacity: prometheus.NewDesc(
			"refpool_capacity_slots",
			"Total number of slots the backing buffer holds.",
			nil, labels,
		),
		live: prometheus.NewDesc(
			"refpool_live_slots",
			"Slots currently reachable through at least one reference.",
			nil, labels,
		),
		freeSlots: prometheus.NewDesc(
			"refpool_free_slots",
			"Previously claimed slots waiting on the free list.",
			nil, labels,
		),
		tail: prometheus.NewDesc(
			"refpool_tail_slots",
			"High-water mark of slots ever claimed from virgin space.",
			nil, labels,
		),
		utilization: prometheus.NewDesc(
			"refpool_utilization_ratio",
			"Live slots divided by capacity.",
			nil, labels,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.capacity
	ch <- c.live
	ch <- c.freeSlots
	ch <- c.tail
	ch <- c.utilization
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.Capacity))
	ch <- prometheus.MustNewConstMetric(c.live, prometheus.GaugeValue, float64(s.Live))
	ch <- prometheus.MustNewConstMetric(c.freeSlots, prometheus.GaugeValue, float64(s.FreeSlots))
	ch <- prometheus.MustNewConstMetric(c.tail, prometheus.GaugeValue, float64(s.Tail))
	ch <- prometheus.MustNewConstMetric(c.utilization, prometheus.GaugeValue, s.Utilization)
}
