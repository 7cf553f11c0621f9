// Command loadgen replays checkout traffic from a YAML scenario and exits
// non-zero when any order number was handed out twice.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clothstore/backend/internal/infrastructure/logger"
	"github.com/clothstore/backend/internal/loadgen"
	"go.uber.org/zap"
)

func main() {
	var (
		scenarioPath string
		target       string
		duration     time.Duration
		qps          float64
		concurrency  int
		verbose      bool
	)

	flag.StringVar(&scenarioPath, "config", "", "Path to the YAML scenario file")
	flag.StringVar(&scenarioPath, "c", "", "Path to the YAML scenario file (shorthand)")
	flag.StringVar(&target, "target", "", "Override the scenario target URL")
	flag.DurationVar(&duration, "duration", 0, "Override the run duration (e.g. 30s, 5m)")
	flag.Float64Var(&qps, "qps", 0, "Override the checkout rate")
	flag.IntVar(&concurrency, "concurrency", 0, "Override the number of workers")
	flag.BoolVar(&verbose, "v", false, "Log every failed request")
	flag.Parse()

	level := "info"
	if verbose {
		level = "debug"
	}
	log, err := logger.New(&logger.Config{Level: level, Format: "console", Output: "stderr"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	sc := &loadgen.Scenario{}
	if scenarioPath != "" {
		sc, err = loadgen.LoadScenario(scenarioPath)
		if err != nil {
			log.Fatal("Failed to load scenario", zap.Error(err))
		}
	}
	if target != "" {
		sc.Target = target
	}
	if duration > 0 {
		sc.Duration = duration
	}
	if qps > 0 {
		sc.QPS = qps
		sc.Burst = 0
	}
	if concurrency > 0 {
		sc.Concurrency = concurrency
	}
	sc.ApplyDefaults()
	if err := sc.Validate(); err != nil {
		log.Fatal("Invalid scenario", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Load run starting",
		zap.String("scenario", sc.Name),
		zap.String("target", sc.Target),
		zap.Duration("duration", sc.Duration),
		zap.Float64("qps", sc.QPS),
		zap.Int("concurrency", sc.Concurrency),
	)

	report, err := loadgen.NewRunner(sc, loadgen.WithLogger(log)).Run(ctx)
	if err != nil {
		log.Fatal("Load run failed", zap.Error(err))
	}
	report.Print(os.Stdout)

	if len(report.Duplicates) > 0 {
		log.Error("Order numbers were not unique", zap.Strings("duplicates", report.Duplicates))
		os.Exit(2)
	}
	if !report.OK() {
		os.Exit(1)
	}
}
