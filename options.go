package colmeta

import (
	"log/slog"

	"github.com/hupe1980/colmeta/codec"
	"github.com/hupe1980/colmeta/internal/compress"
	"github.com/hupe1980/colmeta/metadata"
	"github.com/hupe1980/colmeta/scan"
)

// Compression selects the block compression of stored documents.
type Compression = compress.Type

// Supported compressions.
const (
	CompressionNone = compress.None
	CompressionLZ4  = compress.LZ4
	CompressionZSTD = compress.ZSTD
)

type options struct {
	codec            codec.Codec
	compression      Compression
	registry         *metadata.Registry
	metricsCollector MetricsCollector
	logger           *Logger
	scanOptions      []scan.Option
	cacheBytes       int64
	rateLimit        float64
	rateBurst        int
}

// Option configures Open.
type Option func(*options)

// WithCodec selects the codec new documents are written with.
// Documents record their codec, so existing documents stay readable after
// the codec is changed. Defaults to codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithCompression selects the compression of new documents.
// Defaults to CompressionLZ4.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithRegistry sets the metadata registry used to save, load and scan.
// Open freezes it. Defaults to NewRegistry().
func WithRegistry(reg *metadata.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithMetricsCollector sets a metrics collector for catalog operations.
//
// Example:
//
//	metrics := &colmeta.BasicMetricsCollector{}
//	cat, _ := colmeta.Open(ctx, colmeta.InMemory(), colmeta.WithMetricsCollector(metrics))
//	// ... use cat ...
//	stats := metrics.GetStats()
//	fmt.Printf("Saves: %d, Avg latency: %dns\n", stats.SaveCount, stats.SaveAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithScanOptions passes options to the table scanner.
func WithScanOptions(opts ...scan.Option) Option {
	return func(o *options) {
		o.scanOptions = append(o.scanOptions, opts...)
	}
}

// WithCache keeps up to capacity bytes of stored documents in memory.
func WithCache(capacity int64) Option {
	return func(o *options) {
		o.cacheBytes = capacity
	}
}

// WithRateLimit limits backend requests to rps per second with the given
// burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) {
		o.rateLimit = rps
		o.rateBurst = burst
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		compression:      CompressionLZ4,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.codec == nil {
		o.codec = codec.Default
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
