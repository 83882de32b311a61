package debug

// Debug loggers started when config.Debug is true. They sample runtime and
// process memory at a fixed interval so long capture sessions can be checked
// for frame buffer leaks.

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"

	"github.com/dustin/go-humanize"
)

// StartRuntimeLogger logs goroutine count and stack usage every interval
// until ctx is done.
func StartRuntimeLogger(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = time.Second
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				logRuntime(logger, samples)
			}
		}
	}()
}

func logRuntime(logger *slog.Logger, samples []metrics.Sample) {
	metrics.Read(samples)
	var goroutines uint64
	if samples[0].Value.Kind() == metrics.KindUint64 {
		goroutines = samples[0].Value.Uint64()
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	logger.Info("goroutine-stacks",
		slog.Uint64("goroutines", goroutines),
		slog.String("stack_inuse", humanize.IBytes(ms.StackInuse)),
		slog.String("stack_sys", humanize.IBytes(ms.StackSys)),
		slog.String("heap_alloc", humanize.IBytes(ms.HeapAlloc)),
	)
}
