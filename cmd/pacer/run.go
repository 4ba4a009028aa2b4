package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/oomph-ac/pacer"
	"github.com/oomph-ac/pacer/config"
	"github.com/oomph-ac/pacer/metrics"
	"github.com/oomph-ac/pacer/player"
	oevent "github.com/oomph-ac/pacer/player/event"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the proxy",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func run(ctx context.Context) error {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})

	path := configPath
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.Warnf("config %s does not exist, using defaults", path)
		path = ""
	}
	store, err := config.NewStore(path, log)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyLogLevel(log, store.Load())

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	if os.Getenv("PPROF_ENABLED") != "" {
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))
		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	if addr := store.Load().MetricsAddress(); addr != "" {
		srv := &http.Server{Addr: addr, Handler: metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("metrics server: %v", err)
			}
		}()
		defer srv.Close()
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	defer signal.Stop(reload)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-reload:
				if err := store.Reload(); err != nil {
					log.Errorf("reload config: %v", err)
					continue
				}
				applyLogLevel(log, store.Load())
				log.Info("configuration reloaded")
			}
		}
	}()

	proxy := pacer.New(log, store)
	go func() {
		for {
			p, err := proxy.Accept()
			if err != nil {
				return
			}
			p.Handle(eventLogger{log: p.Log()})
		}
	}()
	return proxy.Start(ctx)
}

func applyLogLevel(log *logrus.Logger, conf *config.Config) {
	level, err := logrus.ParseLevel(conf.LogLevel())
	if err != nil {
		log.Warnf("invalid log level %q, using info", conf.LogLevel())
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
}

// eventLogger writes the remote events of a player to the log as JSON.
type eventLogger struct {
	player.NopEventHandler
	log logrus.FieldLogger
}

func (h eventLogger) HandleRemoteEvent(e oevent.RemoteEvent) {
	data, err := json.Marshal(e)
	if err != nil {
		h.log.Errorf("encode %s: %v", e.ID(), err)
		return
	}
	h.log.WithField("event", e.ID()).Debug(string(data))
}
