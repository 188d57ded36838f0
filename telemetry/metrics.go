package telemetry

// Histogram bucket definitions for different profiles
var (
	// FlushSizeBuckets for bytes captured per applied-command flush
	FlushSizeBuckets = []float64{256, 1024, 4096, 16384, 65536, 262144, 1048576, 4194304}

	// BatchCountBuckets for command batches per delivery task
	BatchCountBuckets = []float64{1, 2, 4, 8, 16, 32, 64, 128}

	// ResolveSeconds for old-value resolution latency
	ResolveSeconds = []float64{0.00001, 0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5}
)

// Observation Registry Metrics
var (
	// ObservedRegions tracks the number of currently subscribed regions
	ObservedRegions Gauge = NoopStat{}

	// RegionSubscribeTotal counts subscribe/unsubscribe operations by result
	RegionSubscribeTotal CounterVec = noopCounterVec{}
)

// Capture Path Metrics
var (
	// CapturedFlushTotal counts applied-command flushes by outcome
	// (delivered, below_level, empty)
	CapturedFlushTotal CounterVec = noopCounterVec{}

	// CapturedBytesTotal counts bytes admitted on the forced path
	CapturedBytesTotal Counter = NoopStat{}

	// CapturedFlushBytes measures bytes per delivered flush
	CapturedFlushBytes Histogram = NoopStat{}

	// CapturedFlushBatches measures batches per delivery task
	CapturedFlushBatches Histogram = NoopStat{}

	// ScheduleFailuresTotal counts tasks dropped because the scheduler
	// rejected them, by task kind
	ScheduleFailuresTotal CounterVec = noopCounterVec{}
)

// Deregister Metrics
var (
	// DeregisterTotal counts deregister signals by reason
	// (not_leader, region_not_found)
	DeregisterTotal CounterVec = noopCounterVec{}
)

// Memory Quota Metrics
var (
	// MemoryQuotaInUse tracks bytes currently held against the quota
	MemoryQuotaInUse Gauge = NoopStat{}

	// MemoryQuotaCapacity tracks the configured nominal bound
	MemoryQuotaCapacity Gauge = NoopStat{}

	// TxnExtraDroppedTotal counts auxiliary old-value hints dropped under
	// quota pressure
	TxnExtraDroppedTotal Counter = NoopStat{}
)

// Old Value Metrics
var (
	// OldValueCacheAccessTotal counts cache lookups by result (hit, miss)
	OldValueCacheAccessTotal CounterVec = noopCounterVec{}

	// OldValueResolveSeconds measures snapshot resolution latency
	OldValueResolveSeconds Histogram = NoopStat{}

	// PendingTasks tracks tasks queued for the endpoint consumer
	PendingTasks Gauge = NoopStat{}
)

// InitMetrics initializes all Prometheus metrics.
// Must be called after InitializeTelemetry().
func InitMetrics() {
	// Observation Registry Metrics
	ObservedRegions = NewGauge(
		"observed_regions",
		"Number of currently subscribed regions",
	)
	RegionSubscribeTotal = NewCounterVec(
		"region_subscribe_total",
		"Subscribe and unsubscribe operations by result",
		[]string{"op", "result"},
	)

	// Capture Path Metrics
	CapturedFlushTotal = NewCounterVec(
		"captured_flush_total",
		"Applied-command flushes by outcome",
		[]string{"outcome"},
	)
	CapturedBytesTotal = NewCounter(
		"captured_bytes_total",
		"Bytes admitted on the forced quota path",
	)
	CapturedFlushBytes = NewHistogramWithBuckets(
		"captured_flush_bytes",
		"Bytes per delivered flush",
		FlushSizeBuckets,
	)
	CapturedFlushBatches = NewHistogramWithBuckets(
		"captured_flush_batches",
		"Command batches per delivery task",
		BatchCountBuckets,
	)
	ScheduleFailuresTotal = NewCounterVec(
		"schedule_failures_total",
		"Tasks dropped because the scheduler rejected them",
		[]string{"task"},
	)

	// Deregister Metrics
	DeregisterTotal = NewCounterVec(
		"deregister_total",
		"Deregister signals by reason",
		[]string{"reason"},
	)

	// Memory Quota Metrics
	MemoryQuotaInUse = NewGauge(
		"memory_quota_in_use_bytes",
		"Bytes currently held against the CDC memory quota",
	)
	MemoryQuotaCapacity = NewGauge(
		"memory_quota_capacity_bytes",
		"Configured nominal bound of the CDC memory quota",
	)
	TxnExtraDroppedTotal = NewCounter(
		"txn_extra_dropped_total",
		"Auxiliary old-value hints dropped under quota pressure",
	)

	// Old Value Metrics
	OldValueCacheAccessTotal = NewCounterVec(
		"old_value_cache_access_total",
		"Old-value cache lookups by result",
		[]string{"result"},
	)
	OldValueResolveSeconds = NewHistogramWithBuckets(
		"old_value_resolve_seconds",
		"Old-value snapshot resolution latency in seconds",
		ResolveSeconds,
	)
	PendingTasks = NewGauge(
		"pending_tasks",
		"Tasks queued for the endpoint consumer",
	)
}
