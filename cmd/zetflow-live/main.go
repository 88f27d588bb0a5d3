package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/zetflow/zetflow-live/config"
	"github.com/zetflow/zetflow-live/converter"
	"github.com/zetflow/zetflow-live/decoder"
	"github.com/zetflow/zetflow-live/feed"
	"github.com/zetflow/zetflow-live/formatter"
	"github.com/zetflow/zetflow-live/internal"
	"github.com/zetflow/zetflow-live/mapmodel"
	"github.com/zetflow/zetflow-live/server"
	"github.com/zetflow/zetflow-live/transport"
	"github.com/zetflow/zetflow-live/trip"
)

const shutdownTimeout = 10 * time.Second

func main() {
	mode := flag.String("mode", "serve", "serve|oneshot")
	configPath := flag.String("config", "", "path to config file (default: $ZETFLOW_CONFIG, zetflow.yml, config.yml)")
	port := flag.Int("port", -1, "HTTP port (overrides config)")
	endpoint := flag.String("endpoint", "", "STOMP endpoint (overrides config)")
	logLevel := flag.String("log-level", "", "debug|info|warn|error (overrides config)")
	format := flag.String("format", "json", "json|xml (oneshot)")
	wait := flag.Duration("wait", 30*time.Second, "how long oneshot waits for the first vehicle frame")
	flag.Parse()

	cfg, err := config.Load(*configPath, func(c *config.AppConfig) {
		if *port >= 0 {
			c.Server.Port = *port
		}
		if *endpoint != "" {
			c.Feed.Endpoint = *endpoint
		}
		if *logLevel != "" {
			c.Logging.Level = *logLevel
		}
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := internal.NewLogger(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	session := feed.NewSession(cfg.Feed, transport.NewStompDialer(cfg.Feed, logger), decoder.ByContentType(), logger)
	fetcher := trip.NewFetcher(cfg.Trips, logger)
	m := mapmodel.New(session, fetcher, logger)
	conv := converter.New(converter.Options{
		Codespace: cfg.Export.Codespace,
		ValidFor:  cfg.Export.ValidFor(),
	}, logger)

	switch *mode {
	case "serve":
		err = serve(cfg, m, fetcher, conv, logger)
	case "oneshot":
		err = oneshot(m, conv, *format, *wait, logger)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		logger.Error("exiting", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func serve(cfg *config.AppConfig, m *mapmodel.Model, trips *trip.Fetcher, conv *converter.Converter, logger *zap.Logger) error {
	srv := server.New(cfg.Server, m, trips, conv, logger)
	if err := srv.Start(); err != nil {
		return err
	}
	m.Start()
	logger.Info("zetflow-live started",
		zap.String("addr", srv.Addr()),
		zap.String("endpoint", cfg.Feed.Endpoint),
		zap.String("topic", cfg.Feed.Topic))

	handleGracefulShutdown(srv, m, logger)
	return nil
}

func handleGracefulShutdown(srv *server.Server, m *mapmodel.Model, logger *zap.Logger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("server shutdown error", zap.Error(err))
	}
	m.Close(ctx)
}

// oneshot waits for the first vehicle frame, prints it as a SIRI
// VehicleMonitoring delivery and exits.
func oneshot(m *mapmodel.Model, conv *converter.Converter, format string, wait time.Duration, logger *zap.Logger) error {
	if format != "json" && format != "xml" {
		return fmt.Errorf("unknown format %q", format)
	}
	m.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		m.Close(ctx)
	}()

	timeout := time.After(wait)
	for {
		snap, changed := m.WatchSnapshot()
		if snap.Sequence > 0 {
			break
		}
		sessErr, errChanged := m.WatchErr()
		if sessErr != nil && sessErr.Reason != feed.DecodeFailed {
			return sessErr
		}
		select {
		case <-changed:
		case <-errChanged:
		case <-timeout:
			return fmt.Errorf("no vehicle frame within %s", wait)
		}
	}

	res := conv.VehicleMonitoringResponse(m.Snapshot(), time.Now())
	rb := formatter.NewResponseBuilder()
	if format == "xml" {
		fmt.Println(string(rb.BuildXML(res)))
		return nil
	}
	buf, err := rb.BuildJSON(res)
	if err != nil {
		return err
	}
	logger.Debug("oneshot delivered", zap.Int("vehicles", m.Snapshot().Len()))
	fmt.Println(string(buf))
	return nil
}
