// Command feeder-control runs the automatic pet-feeder decision loop: it
// matches per-pet schedules against the clock, adjusts portions for heat,
// and dispatches dispense commands to the actuator over MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/feeder-control/internal/logic"
	"github.com/sweeney/feeder-control/internal/mqtt"
	"github.com/sweeney/feeder-control/internal/state"
	"github.com/sweeney/feeder-control/internal/status"
	"github.com/sweeney/feeder-control/internal/web"
)

func main() {
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	account := flag.String("account", "default", "Account id scoping the feed and actuator topics")
	tick := flag.Duration("tick", time.Second, "Schedule check interval")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	httpAddr := flag.String("http", ":8080", "HTTP status address (empty to disable)")
	timezone := flag.String("timezone", "Local", "IANA timezone for schedule matching and the midnight reset")

	flag.Parse()

	loc, err := time.LoadLocation(*timezone)
	if err != nil {
		log.Fatalf("fatal: load timezone %q: %v", *timezone, err)
	}

	if err := run(*broker, *account, *tick, *heartbeat, *httpAddr, *timezone, loc); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(broker, account string, tick, heartbeat time.Duration, httpAddr, timezone string, loc *time.Location) error {
	settings := state.NewSettingsStore()
	env := state.NewEnvCache()

	// Each feed owns exactly the cache fields it updates; the tick loop
	// only reads.
	client, err := mqtt.NewRealClient(broker, account, mqtt.FeedHandlers{
		OnSettings:   settings.Set,
		OnWeather:    env.SetWeather,
		OnTempAdapt:  env.SetTempAdapt,
		OnBowlWeight: env.SetBowlWeight,
	})
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer client.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		TickMs:      tick.Milliseconds(),
		HeartbeatMs: heartbeat.Milliseconds(),
		Broker:      broker,
		Account:     account,
		HTTPPort:    httpAddr,
		Timezone:    timezone,
	})

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := client.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if httpAddr != "" {
		srv := web.New(httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	log.Printf("started: tick=%v heartbeat=%v broker=%s account=%s timezone=%s", tick, heartbeat, broker, account, timezone)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	// Self-renewing one-shot timer for the local-midnight reset. Rearmed
	// after every firing so it stays correct across DST transitions.
	midnight := time.NewTimer(logic.UntilNextMidnight(time.Now(), loc))
	defer midnight.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	engine := logic.NewEngine(loc, time.Now())
	return runLoop(engine, settings, env, client, client, tracker, loc, heartbeat, time.Now,
		ticker.C, midnight.C, func(d time.Duration) { midnight.Reset(d) }, sigCh)
}

func runLoop(engine *logic.Engine, settings *state.SettingsStore, env *state.EnvCache,
	dispenser mqtt.Dispenser, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker,
	loc *time.Location, heartbeat time.Duration, now func() time.Time,
	tick, midnight <-chan time.Time, rearmMidnight func(time.Duration), sig <-chan os.Signal) error {

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := dispenser.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-midnight:
			engine.ResetDay()
			d := logic.UntilNextMidnight(now(), loc)
			rearmMidnight(d)
			log.Printf("midnight reset: slots cleared, next reset in %v", d.Truncate(time.Second))

		case <-tick:
			t := now()
			current, loaded := settings.Get()
			envSnap := env.Snapshot()

			decisions := engine.Evaluate(logic.Input{
				Settings: current,
				Loaded:   loaded,
				Env:      envSnap,
				Time:     t,
			})

			for _, d := range decisions {
				switch d.Outcome {
				case logic.OutcomeDispensed:
					log.Printf("dispense: %s %dg for %s slot", d.Species, d.Adjusted, d.Time)
					if err := dispenser.Dispense(d.Command()); err != nil {
						// No retry and no rollback: a failed write still
						// consumes the day's slot.
						log.Printf("dispense write error: %v", err)
					}
					if tracker != nil {
						tracker.RecordDispense(status.DispenseRecord{
							Time:    t,
							Species: d.Species,
							Amount:  d.Adjusted,
						})
					}
				case logic.OutcomeHeatBlocked:
					log.Printf("feeding blocked for %s at %s: dangerous heat", d.Species, d.Time)
				case logic.OutcomeBowlFull:
					log.Printf("%s bowl holds %.1fg, skipping %s slot (%dg)",
						d.Species, envSnap.BowlWeight(d.Species), d.Time, d.Adjusted)
				}
			}

			// Check for heartbeat
			if hbData := engine.CheckHeartbeat(t, heartbeat); hbData != nil {
				log.Printf("heartbeat: uptime=%v dispensed=%d heat_blocked=%d bowl_full=%d",
					hbData.Uptime, hbData.Counts.Dispensed, hbData.Counts.HeatBlocked, hbData.Counts.BowlFull)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hbData.Timestamp,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					if mqttStatus != nil {
						tracker.SetMQTTConnected(mqttStatus.IsConnected())
					}
					tracker.Update(current, loaded, envSnap, engine.CountsSnapshot(), engine.FiredToday())
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := dispenser.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}

			// Update status tracker for HTTP consumers
			if tracker != nil {
				tracker.Update(current, loaded, envSnap, engine.CountsSnapshot(), engine.FiredToday())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}
		}
	}
}
