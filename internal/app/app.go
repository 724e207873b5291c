// Package app is the composition root: it loads configuration, wires
// the store, monitor, supervisor and activity feed together, launches
// the background loops and hands control to the UI (or blocks headless
// until the context ends).
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/mferr/scandesk/internal/activity"
	"github.com/mferr/scandesk/internal/autostart"
	"github.com/mferr/scandesk/internal/config"
	"github.com/mferr/scandesk/internal/logger"
	"github.com/mferr/scandesk/internal/monitor"
	"github.com/mferr/scandesk/internal/server"
	"github.com/mferr/scandesk/internal/store"
	"github.com/mferr/scandesk/internal/ui"
	"github.com/mferr/scandesk/internal/web"
)

const appName = "ScanDesk"

// monitorStartDelay gives the service a moment to come up before the
// first database probe.
const monitorStartDelay = time.Second

// Options configure the scandesk application.
type Options struct {
	ConfigPath string
	PollEvery  int // seconds; zero uses the configured interval
	NoUI       bool
}

// Run boots scandesk until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, closer, err := logger.Setup(logger.Config{Dir: cfg.Log.Dir})
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer func() { _ = closer.Close() }()

	st, err := store.Open(cfg.Database.DSN, store.Schema{
		Table:             cfg.Database.Schema.Table,
		BarcodeColumn:     cfg.Database.Schema.BarcodeColumn,
		NameColumn:        cfg.Database.Schema.NameColumn,
		PriceColumn:       cfg.Database.Schema.PriceColumn,
		DescriptionColumn: cfg.Database.Schema.DescriptionColumn,
	})
	if err != nil {
		return fmt.Errorf("open product store: %w", err)
	}
	defer func() { _ = st.Close() }()

	feed := activity.NewLog(activity.DefaultCapacity)

	// Mirror the feed into the diagnostic log. Headless runs have no
	// other record of startup results and connectivity transitions.
	feed.Subscribe(func(e activity.Entry) {
		if e.Level == activity.LevelError {
			log.Error(e.Message)
			return
		}
		log.Info(e.Message)
	})

	interval := cfg.PollInterval()
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}
	mon := monitor.New(st.Probe, feed, interval)

	handler := web.New(web.Config{Products: st, Health: mon, Log: feed})

	sup := server.New(server.Config{
		Host:     cfg.Server.Host,
		Port:     cfg.Server.Port,
		CertFile: cfg.Server.CertFile,
		KeyFile:  cfg.Server.KeyFile,
		Handler:  handler,
		Log:      feed,
	})

	feed.Infof("Price Scanner System starting")

	// The service comes up off the UI thread; a failed start stays in
	// the feed and the file log, and the shell keeps running.
	go func() {
		if err := sup.Start(); err != nil {
			log.Error("service start failed", "error", err)
		}
	}()

	go func() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(monitorStartDelay):
		}
		mon.Start()
	}()

	defer func() {
		mon.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = sup.Stop(shutdownCtx)
	}()

	if opts.NoUI {
		log.Info("running headless", "host", cfg.Server.Host, "port", cfg.Server.Port)
		<-ctx.Done()
		return nil
	}

	return ui.Run(ui.Options{
		Context:    ctx,
		Log:        feed,
		Supervisor: sup,
		Monitor:    mon,
		Autostart:  autostart.New(appName),
	})
}
