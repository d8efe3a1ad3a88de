package metrics

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/models"
)

// Collector collects value series during a generation run
type Collector struct {
	mu sync.RWMutex

	startTime time.Time
	endTime   time.Time

	// metric name -> label key -> series
	series map[string]map[string]*series
}

type series struct {
	labels map[string]string
	values []float64
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		series:    make(map[string]map[string]*series),
	}
}

// Start marks the start of collection
func (c *Collector) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startTime = time.Now()
}

// Stop marks the end of collection
func (c *Collector) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endTime = time.Now()
}

// Duration returns the time between Start and Stop. Before Stop it returns
// the time elapsed so far.
func (c *Collector) Duration() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.endTime.IsZero() {
		return time.Since(c.startTime)
	}
	return c.endTime.Sub(c.startTime)
}

// Record appends a value to the series identified by name and labels
func (c *Collector) Record(name string, value float64, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := labelKey(labels)
	if c.series[name] == nil {
		c.series[name] = make(map[string]*series)
	}
	s := c.series[name][key]
	if s == nil {
		s = &series{labels: copyLabels(labels)}
		c.series[name][key] = s
	}
	s.values = append(s.values, value)
}

// Values returns a copy of the values of one series
func (c *Collector) Values(name string, labels map[string]string) []float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := c.lookup(name, labelKey(labels))
	if s == nil {
		return nil
	}
	return append([]float64(nil), s.values...)
}

// Aggregation computes statistics for one series. It returns nil when the
// series is empty.
func (c *Collector) Aggregation(name string, labels map[string]string) *models.Aggregation {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := c.lookup(name, labelKey(labels))
	if s == nil {
		return nil
	}
	return calculateAggregation(s.values)
}

// AggregateAll computes statistics over every series of a metric,
// regardless of labels.
func (c *Collector) AggregateAll(name string) *models.Aggregation {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var all []float64
	for _, s := range c.series[name] {
		all = append(all, s.values...)
	}
	return calculateAggregation(all)
}

// Count returns the number of values recorded in one series
func (c *Collector) Count(name string, labels map[string]string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := c.lookup(name, labelKey(labels))
	if s == nil {
		return 0
	}
	return int64(len(s.values))
}

// Sum returns the sum of one series
func (c *Collector) Sum(name string, labels map[string]string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := c.lookup(name, labelKey(labels))
	if s == nil {
		return 0
	}
	total := 0.0
	for _, v := range s.values {
		total += v
	}
	return total
}

// Labels returns all label combinations recorded for a metric
func (c *Collector) Labels(name string) []map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.series[name]))
	for k := range c.series[name] {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]map[string]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, copyLabels(c.series[name][k].labels))
	}
	return out
}

// lookup returns a series without locking (caller must hold lock)
func (c *Collector) lookup(name, key string) *series {
	if c.series[name] == nil {
		return nil
	}
	return c.series[name][key]
}

// labelKey creates a key from labels for map lookup
func labelKey(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(labels[k])
		b.WriteByte(',')
	}
	return b.String()
}

func copyLabels(labels map[string]string) map[string]string {
	if labels == nil {
		return nil
	}
	out := make(map[string]string, len(labels))
	for k, v := range labels {
		out[k] = v
	}
	return out
}

// calculateAggregation calculates statistics from unsorted values
func calculateAggregation(values []float64) *models.Aggregation {
	if len(values) == 0 {
		return nil
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}

	return &models.Aggregation{
		Count: int64(len(sorted)),
		Sum:   sum,
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Mean:  sum / float64(len(sorted)),
		P50:   calculatePercentile(sorted, 0.50),
		P95:   calculatePercentile(sorted, 0.95),
		P99:   calculatePercentile(sorted, 0.99),
	}
}

// calculatePercentile interpolates the p-th percentile of a sorted slice
func calculatePercentile(sortedValues []float64, p float64) float64 {
	if len(sortedValues) == 0 {
		return 0.0
	}
	if len(sortedValues) == 1 {
		return sortedValues[0]
	}

	index := p * float64(len(sortedValues)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sortedValues) {
		return sortedValues[len(sortedValues)-1]
	}

	weight := index - float64(lower)
	return sortedValues[lower]*(1-weight) + sortedValues[upper]*weight
}
