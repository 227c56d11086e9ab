// Command vectoraudio runs the client coordination core headless against the
// loopback engine and serves the status endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/19wintersp/VectorAudio/internal/adapter"
	"github.com/19wintersp/VectorAudio/internal/adapter/fake"
	"github.com/19wintersp/VectorAudio/internal/airport"
	"github.com/19wintersp/VectorAudio/internal/audit"
	"github.com/19wintersp/VectorAudio/internal/config"
	"github.com/19wintersp/VectorAudio/internal/core"
	"github.com/19wintersp/VectorAudio/internal/notify"
	"github.com/19wintersp/VectorAudio/internal/ptt"
	"github.com/19wintersp/VectorAudio/internal/radio"
	"github.com/19wintersp/VectorAudio/internal/session"
	"github.com/19wintersp/VectorAudio/internal/status"
	"github.com/19wintersp/VectorAudio/internal/telemetry"
)

// Version is the client version reported at startup.
const Version = "1.0.0"

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML or YAML configuration file")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", adapter.ClientName, Version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logFile := setupLogging(cfg)
	defer logFile.Close()

	log.Printf("Starting %s v%s", adapter.ClientName, Version)

	if err := run(cfg); err != nil {
		log.Printf("Exited with error: %v", err)
		os.Exit(1)
	}
	log.Printf("%s shutdown complete", adapter.ClientName)
}

// setupLogging tees the standard logger to stderr and a rotating file.
func setupLogging(cfg *config.Config) io.Closer {
	rotating := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Paths.LogDir, cfg.Log.File),
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAgeDays,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotating))
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return rotating
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine := fake.New(fake.Options{})
	defer func() {
		if err := engine.Close(); err != nil {
			log.Printf("Error closing engine: %v", err)
		}
	}()

	airports := airport.Load(cfg.Paths.AirportsDB)

	auditLogger, err := audit.NewLogger(cfg.Paths.LogDir, audit.Rotation{
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize audit logger: %w", err)
	}
	defer auditLogger.Close()

	var coordinator *core.Coordinator
	hub := telemetry.NewHub(telemetry.Options{
		BufferSize:        cfg.General.EventBufferSize,
		HeartbeatInterval: cfg.Timing.HeartbeatInterval,
		Snapshot: func() map[string]interface{} {
			return coordinator.State()
		},
	})
	defer hub.Stop()

	alarm := notify.NewAlarm(cfg.Paths.DisconnectSound(), notify.LogPlayer{})
	notifier := notify.New(0, alarm, hub)

	sess, err := newSession(cfg)
	if err != nil {
		return err
	}

	registry := radio.NewRegistry()
	controller := session.NewController(engine, registry, sess, session.Options{
		Audio:        cfg.Audio,
		Airports:     airports,
		AirportWait:  cfg.Timing.AirportWait,
		Connectivity: staticConnectivity{cfg: cfg.Session},
		Notifier:     notifier,
		Audit:        auditLogger,
	})

	coordinator = core.New(engine, registry, controller, core.Options{
		SnapshotRefresh:      cfg.Timing.SnapshotRefresh,
		Binding:              ptt.BindingFromConfig(cfg.User),
		Connectivity:         staticConnectivity{cfg: cfg.Session},
		ConnectivityInterval: cfg.Timing.ConnectivityInterval,
		Notifier:             notifier,
		Publisher:            hub,
	})

	serverOpts := status.Options{
		Port:            cfg.General.APIPort,
		ReadTimeout:     cfg.Timing.ReadTimeout,
		WriteTimeout:    cfg.Timing.WriteTimeout,
		IdleTimeout:     cfg.Timing.IdleTimeout,
		ShutdownTimeout: cfg.Timing.ShutdownTimeout,
	}
	if cfg.General.EventsEnabled {
		serverOpts.Events = hub
		// Event streams are long lived.
		serverOpts.WriteTimeout = 0
	}
	server := status.NewServer(coordinator, serverOpts)

	if sess.IsConnected {
		if err := controller.BeginConnect(); err != nil {
			log.Printf("Connect failed: %v", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return coordinator.Run(gctx, cfg.Timing.FrameInterval)
	})

	// Headless front end: ShowError already logged the message.
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-notifier.Modals():
			}
		}
	})

	if err := server.Listen(); err != nil {
		log.Printf("Status server unavailable: %v", err)
	} else {
		g.Go(server.Serve)
		g.Go(func() error {
			<-gctx.Done()
			hub.Stop()
			return server.Stop(context.Background())
		})
	}

	err = g.Wait()

	controller.DisconnectAndCleanup()
	return err
}

func newSession(cfg *config.Config) (*session.Session, error) {
	sess := &session.Session{
		CID:      cfg.User.CID,
		Password: cfg.User.Password,
	}
	conn, err := staticConnectivity{cfg: cfg.Session}.CheckConnectivity()
	if err != nil {
		return nil, err
	}
	sess.Apply(conn)
	log.Printf("Session: %s", sess)
	return sess, nil
}
