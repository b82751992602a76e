// cmd/swdlink/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tamzrod/swdlink/internal/config"
	"github.com/tamzrod/swdlink/internal/logging"
	"github.com/tamzrod/swdlink/internal/poller"
	"github.com/tamzrod/swdlink/internal/status"
	"github.com/tamzrod/swdlink/internal/writer"
)

func main() {
	log := logging.New("swdlink")

	if len(os.Args) < 2 {
		log.Fatal().Msg("usage: swdlink <config.yaml|config.toml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("config validation failed")
	}
	config.Normalize(cfg)

	log = log.With().Str("probe", cfg.Probe.ID).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Probe session + poller
	// --------------------

	diag, closeDiag, err := logging.OpenDiagLog(cfg.Probe.DiagLog)
	if err != nil {
		log.Fatal().Err(err).Msg("diag log failed")
	}
	defer closeDiag()

	p, session, err := poller.Build(
		ctx,
		cfg,
		poller.SerialOpener(cfg.Probe),
		poller.SessionOptions(cfg.Probe, log, diag)...,
	)
	if err != nil {
		log.Fatal().Err(err).Str("device", cfg.Probe.Device).Msg("probe build failed")
	}
	defer session.Close()

	// --------------------
	// Writer plan + clients (DATA + STATUS)
	// --------------------

	plan, err := writer.BuildPlan(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("writer plan failed")
	}

	clients, closeWriters, err := writer.BuildEndpointClients(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("writer clients failed")
	}
	defer closeWriters()

	dataWriter := writer.New(plan, clients)
	statusWriter, statusEnabled := writer.NewProbeStatusWriter(plan, clients)

	// ---- channel between poller and writer ----
	out := make(chan poller.PollResult)
	go p.Run(ctx, out)

	// Orchestrator (runner-owned state + 1Hz seconds ticker)
	tracker := status.NewTracker()

	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	// Full block write on start (identity re-assert) if enabled.
	if statusEnabled {
		if err := statusWriter.WriteStatus(tracker.Snapshot()); err != nil {
			log.Warn().Err(err).Msg("status write failed on start")
		}
	}

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return

		case res := <-out:
			if res.Err != nil {
				log.Warn().Err(res.Err).Uint32("token", res.Token).Msg("batch failed")
			}

			// --- data delivery ---
			if err := dataWriter.Write(res); err != nil {
				log.Error().Err(err).Msg("writer error")
			}

			// --- status update (probe-level truth) ---
			if statusEnabled && tracker.Apply(res.Err, res.Token) {
				if err := statusWriter.WriteStatus(tracker.Snapshot()); err != nil {
					log.Error().Err(err).Msg("status write failed")
				}
			}

		case <-secTicker.C:
			// Tick 1 Hz while not OK.
			if statusEnabled && tracker.Tick() {
				if err := statusWriter.WriteStatus(tracker.Snapshot()); err != nil {
					log.Error().Err(err).Msg("status seconds tick write failed")
				}
			}
		}
	}
}
