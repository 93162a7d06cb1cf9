package colmeta

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting catalog metrics.
// Implement this interface to integrate with monitoring systems; see
// package metrics/prometheus for a Prometheus implementation.
type MetricsCollector interface {
	// RecordSave is called after each save. bytes is the size of the
	// encoded document.
	RecordSave(bytes int, duration time.Duration, err error)

	// RecordLoad is called after each load. skipped is the number of
	// metadata entries that could not be restored.
	RecordLoad(bytes, skipped int, duration time.Duration, err error)

	// RecordScan is called after each table scan.
	RecordScan(rows, columns int, duration time.Duration, err error)

	// RecordMerge is called after stored metadata is merged with new
	// metadata.
	RecordMerge(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSave(int, time.Duration, error)      {}
func (NoopMetricsCollector) RecordLoad(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordScan(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordMerge(time.Duration, error)          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	SaveCount      atomic.Int64
	SaveErrors     atomic.Int64
	SaveBytes      atomic.Int64
	SaveTotalNanos atomic.Int64
	LoadCount      atomic.Int64
	LoadErrors     atomic.Int64
	LoadBytes      atomic.Int64
	LoadSkipped    atomic.Int64
	LoadTotalNanos atomic.Int64
	ScanCount      atomic.Int64
	ScanErrors     atomic.Int64
	ScanRows       atomic.Int64
	ScanTotalNanos atomic.Int64
	MergeCount     atomic.Int64
	MergeErrors    atomic.Int64
}

var _ MetricsCollector = (*BasicMetricsCollector)(nil)

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(bytes int, duration time.Duration, err error) {
	b.SaveCount.Add(1)
	b.SaveTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SaveErrors.Add(1)
		return
	}
	b.SaveBytes.Add(int64(bytes))
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(bytes, skipped int, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadBytes.Add(int64(bytes))
	b.LoadSkipped.Add(int64(skipped))
}

// RecordScan implements MetricsCollector.
func (b *BasicMetricsCollector) RecordScan(rows, _ int, duration time.Duration, err error) {
	b.ScanCount.Add(1)
	b.ScanTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ScanErrors.Add(1)
		return
	}
	b.ScanRows.Add(int64(rows))
}

// RecordMerge implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMerge(_ time.Duration, err error) {
	b.MergeCount.Add(1)
	if err != nil {
		b.MergeErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SaveCount:     b.SaveCount.Load(),
		SaveErrors:    b.SaveErrors.Load(),
		SaveBytes:     b.SaveBytes.Load(),
		SaveAvgNanos:  avg(b.SaveTotalNanos.Load(), b.SaveCount.Load()),
		LoadCount:     b.LoadCount.Load(),
		LoadErrors:    b.LoadErrors.Load(),
		LoadBytes:     b.LoadBytes.Load(),
		LoadSkipped:   b.LoadSkipped.Load(),
		LoadAvgNanos:  avg(b.LoadTotalNanos.Load(), b.LoadCount.Load()),
		ScanCount:     b.ScanCount.Load(),
		ScanErrors:    b.ScanErrors.Load(),
		ScanRows:      b.ScanRows.Load(),
		ScanAvgNanos:  avg(b.ScanTotalNanos.Load(), b.ScanCount.Load()),
		MergeCount:    b.MergeCount.Load(),
		MergeFailures: b.MergeErrors.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SaveCount     int64
	SaveErrors    int64
	SaveBytes     int64
	SaveAvgNanos  int64
	LoadCount     int64
	LoadErrors    int64
	LoadBytes     int64
	LoadSkipped   int64
	LoadAvgNanos  int64
	ScanCount     int64
	ScanErrors    int64
	ScanRows      int64
	ScanAvgNanos  int64
	MergeCount    int64
	MergeFailures int64
}
