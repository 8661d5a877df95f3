package debug

// Periodic runtime and meter statistics logger, started only when
// config.Debug is true. It exists to correlate frame rate drops with GC,
// goroutine and resident memory growth.

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/soocke/fps-meter-go/domain/meter"
)

// StatsProvider exposes meter statistics.
type StatsProvider interface {
	Stats() meter.Stats
}

// Start launches a goroutine that logs runtime and meter stats every
// interval until ctx is done. stats may be nil.
func Start(ctx context.Context, interval time.Duration, logger *slog.Logger, stats StatsProvider) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		var rssErrLogged bool
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				logOnce(logger, stats, &rssErrLogged)
			}
		}
	}()
}

func logOnce(logger *slog.Logger, stats StatsProvider, rssErrLogged *bool) {
	samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
	metrics.Read(samples)
	var goroutines uint64
	if samples[0].Value.Kind() == metrics.KindUint64 {
		goroutines = samples[0].Value.Uint64()
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	rss, err := residentSetSize()
	if err != nil && !*rssErrLogged {
		logger.Warn("debug: resident set size unavailable", slog.String("err", err.Error()))
		*rssErrLogged = true
	}

	attrs := []any{
		slog.Uint64("goroutines", goroutines),
		slog.String("heap_alloc", humanize.IBytes(ms.HeapAlloc)),
		slog.String("heap_sys", humanize.IBytes(ms.HeapSys)),
		slog.String("stack_inuse", humanize.IBytes(ms.StackInuse)),
		slog.String("rss", humanize.IBytes(rss)),
		slog.Uint64("num_gc", uint64(ms.NumGC)),
		slog.Duration("gc_pause_total", time.Duration(ms.PauseTotalNs)),
	}
	if stats != nil {
		st := stats.Stats()
		attrs = append(attrs,
			slog.Int("samples", st.Samples),
			slog.Float64("rate", st.Rate),
			slog.Float64("recent_rate", st.RecentRate),
			slog.String("state", st.State.String()),
			slog.Uint64("dropped", st.Dropped),
			slog.Bool("running", st.Running),
		)
	}
	logger.Info("runtime-stats", attrs...)
}
