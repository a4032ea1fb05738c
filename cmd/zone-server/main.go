package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/signalsfoundry/rqz-planner/core"
	"github.com/signalsfoundry/rqz-planner/internal/logging"
	"github.com/signalsfoundry/rqz-planner/internal/observability"
	"github.com/signalsfoundry/rqz-planner/internal/planner"
	"github.com/signalsfoundry/rqz-planner/registry"
)

func main() {
	addr := flag.String("addr", ":8080", "TCP address the zone API listens on")
	metricsAddr := flag.String("metrics-addr", ":9090", "HTTP address for Prometheus /metrics")
	zonesPath := flag.String("zones", "configs/zones.yaml", "path to a zone scenario file (JSON or YAML)")
	outDir := flag.String("out", ".", "directory exported artifacts are written to")
	author := flag.String("author", "", "author name carried into GPX metadata")
	email := flag.String("email", "", "author contact carried into GPX metadata")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.Err(err))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewZoneCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.Err(err))
		os.Exit(1)
	}
	metricsSrv := serveMetrics(*metricsAddr, collector, log)

	reg := registry.New()
	reg.Subscribe(func(registry.Event) {
		collector.SetZoneCount(reg.Len())
	})
	loadZones(log, reg, *zonesPath)

	geo := core.NewGeodesic(core.WGS84)
	pl := planner.New(geo, reg,
		planner.WithLogger(log),
		planner.WithMetrics(collector),
		planner.WithOutputDir(*outDir),
		planner.WithAuthor(*author, *email),
	)

	srv := &http.Server{
		Addr:    *addr,
		Handler: newServer(log, reg, geo, pl, collector, *author, *email).routes(),
	}

	log.Info(ctx, "starting zone API server",
		logging.String("addr", *addr),
		logging.Int("zones", reg.Len()),
	)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "zone API server exited", logging.Err(err))
		}
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	<-stopCtx.Done()

	log.Info(ctx, "shutting down zone API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
}

func serveMetrics(addr string, collector *observability.ZoneCollector, log logging.Logger) *http.Server {
	if collector == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.Err(err))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}

func loadZones(log logging.Logger, reg *registry.Registry, path string) {
	if path == "" {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		log.Warn(context.Background(), "skipping zone load", logging.String("path", path), logging.Err(err))
		return
	}
	defer f.Close()

	scenario, err := core.LoadZoneScenario(reg, f, core.FormatForPath(path))
	if err != nil {
		log.Warn(context.Background(), "skipping zone load", logging.String("path", path), logging.Err(err))
		return
	}
	log.Info(context.Background(), "zone scenario loaded",
		logging.String("path", path),
		logging.Int("zones", len(scenario.ZoneIDs)),
	)
}
