package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"corunq/internal/job"
	"corunq/internal/promexp"
	"corunq/internal/sched"
)

func main() {
	// Read the configuration
	cfg := sched.Load("config.yml")
	slog.Info("loaded config", "config", fmt.Sprintf("%+v", cfg))

	k := sched.New(cfg)

	// Prometheus metrics on :2112/metrics
	reg := prometheus.NewRegistry()
	exporter, err := promexp.NewExporter("coopsched", reg, promexp.ExporterOptions{})
	if err != nil {
		slog.Error("metrics exporter", "err", err)
		os.Exit(1)
	}
	k.SetMetrics(exporter)
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		_ = http.ListenAndServe(":2112", mux)
	}()

	if cfg.TraceCSV != "" {
		if err := k.EnableCSVTrace(cfg.TraceCSV); err != nil {
			slog.Error("csv trace", "err", err)
			os.Exit(1)
		}
	}

	// Persistent subscriber: prints every ping payload.
	k.Whenever("ping", func(co *sched.Coro, vals ...any) {
		fmt.Println("pong:", vals)
	})

	// A background task that just yields a few times.
	k.Spawn(job.CountWork(3))

	// Producer: emits five pings, then halts the kernel.
	k.Spawn(func(co *sched.Coro, _ ...any) ([]any, error) {
		for i := 1; i <= 5; i++ {
			if err := co.Kernel().SignalOne("ping", i); err != nil {
				return nil, err
			}
			co.Yield()
		}
		co.Kernel().Halt()
		return nil, nil
	})

	if err := k.Run(context.Background(), nil); err != nil {
		slog.Error("run", "err", err)
		os.Exit(1)
	}
	fmt.Printf("done: ticks=%d, idle pulses=%d\n", k.Ticks(), k.IdlePulses())
}
