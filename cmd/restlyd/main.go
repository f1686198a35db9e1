package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"restly/internal/api"
	"restly/internal/config"
	"restly/internal/eventlog"
	"restly/internal/popup"
	"restly/internal/queue"
	"restly/internal/scheduler"
)

func main() {
	var (
		configPath  = flag.String("config", defaultConfigPath(), "YAML config file (optional)")
		interval    = flag.Int("interval", 0, "minutes between breaks (overrides config)")
		duration    = flag.Int("duration", 0, "popup display seconds (overrides config)")
		message     = flag.String("message", "", "custom break message (overrides config)")
		eyeCare     = flag.Int("eye-care", -1, "eye-care routine: 1 on, 0 off (overrides config)")
		activeHours = flag.String("active-hours", "", "active window as HH:MM-HH:MM (overrides config)")
		queuePath   = flag.String("queue", "", "command queue file (overrides config)")
		activityDir = flag.String("activity-dir", "", "activity log directory (overrides config)")
		addr        = flag.String("addr", "", "status API bind address (overrides config)")
		logPopups   = flag.Bool("log-popups", false, "write popups to the log instead of notify-send")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if *interval > 0 {
		cfg.IntervalMinutes = *interval
	}
	if *duration > 0 {
		cfg.PopupSeconds = *duration
	}
	if *message != "" {
		cfg.Message = *message
	}
	if *eyeCare >= 0 {
		cfg.EyeCare = *eyeCare != 0
	}
	if *activeHours != "" {
		window, err := config.ParseWindow(*activeHours)
		if err != nil {
			log.Fatal().Err(err).Msg("parse active hours")
		}
		cfg.ActiveHours = window
	}
	if *queuePath != "" {
		cfg.QueuePath = *queuePath
	}
	if *activityDir != "" {
		cfg.ActivityDir = *activityDir
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}

	events, err := eventlog.New(cfg.ActivityDir, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("open activity log")
	}

	var sink scheduler.Popup
	if *logPopups {
		sink = popup.Log{Logger: log.Logger}
	} else {
		sink = popup.New(log.Logger)
	}

	q := queue.New(cfg.QueuePath, log.Logger)
	sched, err := scheduler.New(cfg, q, events, sink, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("build scheduler")
	}
	events.SetSource(sched)
	events.AppStarted()

	ctx, cancel := context.WithCancel(context.Background())
	go sched.Run(ctx)

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: api.NewServer(cfg, sched)}
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("status API listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("status API")
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	// an in-flight break sequence is abandoned, not flushed
	log.Info().Msg("shutting down")
	cancel()
	events.AppStopped()

	ctxTimeout, cancelTimeout := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancelTimeout()
	_ = srv.Shutdown(ctxTimeout)
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "restly", "config.yaml")
}
