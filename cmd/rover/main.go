// cmd/rover/main.go
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tamzrod/rover-ranging/internal/config"
	"github.com/tamzrod/rover-ranging/internal/poller"
	"github.com/tamzrod/rover-ranging/internal/ranging"
	"github.com/tamzrod/rover-ranging/internal/rig"
	"github.com/tamzrod/rover-ranging/internal/status"
	"github.com/tamzrod/rover-ranging/internal/writer"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: rover <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	r := cfg.Rover
	name := r.Name

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Writers
	// --------------------

	plan, err := writer.BuildPlan(r)
	if err != nil {
		log.Fatalf("writer plan failed (unit=%s): %v", name, err)
	}

	clients, closeWriters, err := writer.BuildEndpointClients(r)
	if err != nil {
		log.Fatalf("writer clients failed (unit=%s): %v", name, err)
	}
	defer func() {
		if err := closeWriters(); err != nil {
			log.Printf("writer close failed (unit=%s): %v", name, err)
		}
	}()

	// --------------------
	// Hardware
	// --------------------

	hw, err := rig.Open(r)
	if err != nil {
		log.Fatalf("rig open failed (unit=%s): %v", name, err)
	}
	defer func() {
		if err := hw.Close(); err != nil {
			log.Printf("rig close failed (unit=%s): %v", name, err)
		}
	}()

	p, err := poller.Build(r, hw.Sequencer)
	if err != nil {
		_ = hw.Close()
		log.Fatalf("poller build failed (unit=%s): %v", name, err)
	}

	if hw.Driver != nil {
		if err := hw.Driver.Init(); err != nil {
			_ = hw.Close()
			log.Fatalf("drive init failed (unit=%s): %v", name, err)
		}
	}

	// --------------------
	// Pipeline
	// --------------------

	dataWriter := writer.New(plan, clients)
	statusWriter, statusEnabled := writer.NewDeviceStatusWriter(plan, clients)

	out := make(chan poller.Result)
	pollerDone := make(chan struct{})
	go func() {
		defer close(pollerDone)
		p.Run(ctx, out)
	}()

	log.Printf("rover started (unit=%s backend=%s interval=%dms)", name, r.Sensor.Backend, r.Poll.IntervalMs)

	orchestrate(ctx, name, out, dataWriter, statusWriter, statusEnabled)

	// the rig is released only after the last measurement cycle ends
	<-pollerDone
	log.Printf("rover stopping (unit=%s)", name)
}

// orchestrate owns the status tracker and the 1 Hz seconds ticker.
// It returns when ctx is done.
func orchestrate(
	ctx context.Context,
	unit string,
	in <-chan poller.Result,
	dataWriter writer.Writer,
	statusWriter writer.StatusWriter,
	statusEnabled bool,
) {
	tracker := status.NewTracker()

	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	deliver := func(what string) {
		if err := statusWriter.WriteStatus(tracker.Snapshot()); err != nil {
			log.Printf("status %s write failed (unit=%s): %v", what, unit, err)
		}
	}

	// Full block write on start (identity re-assert) if enabled.
	if statusEnabled {
		deliver("start")
	}

	for {
		select {
		case <-ctx.Done():
			return

		case res := <-in:
			if res.Err != nil {
				var te *ranging.TimeoutError
				if errors.As(res.Err, &te) {
					log.Printf("measurement timeout (unit=%s phase=%s attempts=%d)", unit, te.Phase, res.Attempts)
				} else {
					log.Printf("measurement failed (unit=%s): %v", unit, res.Err)
				}
			}

			// --- data delivery ---
			if err := dataWriter.Write(res); err != nil {
				log.Printf("writer error (unit=%s): %v", unit, err)
			}

			if !statusEnabled {
				continue
			}

			var changed bool
			if res.Err == nil {
				changed = tracker.Success(uint16(res.Register()))
			} else {
				changed = tracker.Failure(status.ErrorCode(res.Err))
			}
			if changed {
				deliver("update")
			}

		case <-secTicker.C:
			if statusEnabled && tracker.Tick() {
				deliver("seconds tick")
			}
		}
	}
}
