package telemetry

import (
	"sync"
	"time"
)

// StatsProvider interface for components that expose sampled stats
type StatsProvider interface {
	QuotaInUse() int64
	QuotaCapacity() int64
	ObservedRegionCount() int
	PendingTaskCount() int
}

// MetricsCollector periodically samples stats and updates telemetry gauges
type MetricsCollector struct {
	provider StatsProvider
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(provider StatsProvider, interval time.Duration) *MetricsCollector {
	return &MetricsCollector{
		provider: provider,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic collection
func (mc *MetricsCollector) Start() {
	mc.wg.Add(1)
	go mc.collectLoop()
}

// Stop stops the collector
func (mc *MetricsCollector) Stop() {
	close(mc.stopCh)
	mc.wg.Wait()
}

func (mc *MetricsCollector) collectLoop() {
	defer mc.wg.Done()

	ticker := time.NewTicker(mc.interval)
	defer ticker.Stop()

	// Publish once at startup so gauges are populated before the first tick
	mc.collect()

	for {
		select {
		case <-mc.stopCh:
			return
		case <-ticker.C:
			mc.collect()
		}
	}
}

func (mc *MetricsCollector) collect() {
	MemoryQuotaInUse.Set(float64(mc.provider.QuotaInUse()))
	MemoryQuotaCapacity.Set(float64(mc.provider.QuotaCapacity()))
	ObservedRegions.Set(float64(mc.provider.ObservedRegionCount()))
	PendingTasks.Set(float64(mc.provider.PendingTaskCount()))
}
