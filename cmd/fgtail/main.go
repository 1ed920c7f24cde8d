// Command fgtail tails a running Fall Guys game client's log file and
// prints each recognised game event as it happens.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ilsubyeega/fgtail/internal/broadcast"
	"github.com/ilsubyeega/fgtail/internal/capture"
	"github.com/ilsubyeega/fgtail/internal/config"
	"github.com/ilsubyeega/fgtail/internal/logging"
	"github.com/ilsubyeega/fgtail/internal/parser"
	"github.com/ilsubyeega/fgtail/internal/reader"
	"github.com/ilsubyeega/fgtail/internal/refdata"
	"github.com/ilsubyeega/fgtail/internal/rules"
	"github.com/ilsubyeega/fgtail/internal/watch"
)

var flags struct {
	configPath     string
	logDir         string
	logFile        string
	timestamps     bool
	broadcastAddr  string
	captureDir     string
}

func main() {
	root := &cobra.Command{
		Use:   "fgtail",
		Short: "Tail a Fall Guys client log and print recognised game events",
		RunE:  run,
	}
	root.Flags().StringVar(&flags.configPath, "config", "", "path to a TOML config file")
	root.Flags().StringVar(&flags.logDir, "log-dir", "", "directory containing the game client log (overrides FGTAIL_LOG_DIR)")
	root.Flags().StringVar(&flags.logFile, "log-file", "", "name of the watched log file (overrides FGTAIL_LOG_FILE)")
	root.Flags().BoolVar(&flags.timestamps, "timestamps", false, "extract timestamps from log lines (overrides FGTAIL_TIMESTAMPS)")
	root.Flags().StringVar(&flags.broadcastAddr, "broadcast-addr", "", "address to serve the live viewer WebSocket on, enables broadcast")
	root.Flags().StringVar(&flags.captureDir, "capture-dir", "", "directory to durably record the event stream to, enables capture")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	applyFlagOverrides(cfg)

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize structured logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("fgtail panicked", logging.String("panic", fmt.Sprint(r)))
			_ = logger.Sync()
			os.Exit(2)
		}
	}()

	assets, err := refdata.Load()
	if err != nil {
		return fmt.Errorf("load reference data: %w", err)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	catalogue := rules.New(assets)
	p := parser.New(catalogue, parser.Options{ExtractTimestamps: cfg.ExtractTimestamps, Logger: timestampLogger{logger}})

	targetPath := filepath.Join(cfg.LogDir, cfg.LogFile)
	w := watch.New(cfg.LogDir, cfg.LogFile)
	r := reader.New(targetPath)

	watchCh := make(chan watch.Message, 1024)
	lineCh := make(chan string, 1024)
	eventCh := make(chan parser.Emitted, 1024)

	var capWriter *capture.Writer
	if cfg.Capture.Enabled {
		capWriter, err = capture.NewWriter(cfg.Capture.Dir, cfg.LogDir, cfg.LogFile, time.Now)
		if err != nil {
			return fmt.Errorf("start event capture: %w", err)
		}
		defer func() {
			if err := capWriter.Close(); err != nil {
				logger.Warn("capture writer close failed", logging.Error(err))
			}
		}()
		cleaner := capture.NewCleaner(cfg.Capture.Dir, capture.RetentionPolicy{MaxCaptures: cfg.Capture.MaxCaptures, MaxAge: cfg.Capture.MaxAge}, logger)
		go cleaner.Run(ctx, time.Hour)
		logger.Info("event capture enabled", logging.String("dir", capWriter.Directory()))
	}

	var broker *broadcast.Broker
	if cfg.Broadcast.Enabled {
		broker = broadcast.New(broadcast.Options{
			AllowedOrigins:  cfg.Broadcast.AllowedOrigins,
			MaxPayloadBytes: cfg.Broadcast.MaxPayloadBytes,
			MaxClients:      cfg.Broadcast.MaxClients,
			PingInterval:    cfg.Broadcast.PingInterval,
			Logger:          logger,
		})
		server := &http.Server{Addr: cfg.Broadcast.Address, Handler: broker}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("broadcast server stopped unexpectedly", logging.Error(err))
			}
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
		logger.Info("live viewer broadcast enabled", logging.String("address", cfg.Broadcast.Address))
	}

	errCh := make(chan error, 3)
	go func() { errCh <- w.Run(ctx, watchCh) }()
	go func() { errCh <- r.Run(ctx, watchCh, lineCh) }()
	go func() { errCh <- p.Run(ctx, lineCh, eventCh) }()

	logger.Info("fgtail started", logging.String("log_dir", cfg.LogDir), logging.String("log_file", cfg.LogFile))

	for {
		select {
		case <-ctx.Done():
			return nil
		case emitted, ok := <-eventCh:
			if !ok {
				return nil
			}
			printEvent(emitted)
			if capWriter != nil {
				if err := capWriter.AppendEvent(emitted.Event, emitted.Timestamp); err != nil {
					logger.Warn("failed to record event", logging.Error(err))
				}
			}
			if broker != nil {
				broker.Publish(emitted)
			}
		case err := <-errCh:
			if err != nil {
				logger.Error("pipeline stage terminated", logging.Error(err))
				return err
			}
		}
	}
}

func applyFlagOverrides(cfg *config.Config) {
	if flags.logDir != "" {
		cfg.LogDir = flags.logDir
	}
	if flags.logFile != "" {
		cfg.LogFile = flags.logFile
	}
	if flags.timestamps {
		cfg.ExtractTimestamps = true
	}
	if flags.broadcastAddr != "" {
		cfg.Broadcast.Enabled = true
		cfg.Broadcast.Address = flags.broadcastAddr
	}
	if flags.captureDir != "" {
		cfg.Capture.Enabled = true
		cfg.Capture.Dir = flags.captureDir
	}
}

// timestampLogger adapts *logging.Logger's typed Field variadic to the
// parser package's args ...any logging interface.
type timestampLogger struct{ log *logging.Logger }

func (t timestampLogger) Warn(msg string, args ...any) {
	fields := make([]logging.Field, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, _ := args[i].(string)
		fields = append(fields, logging.Field{Key: key, Value: args[i+1]})
	}
	t.log.Warn(msg, fields...)
}

func printEvent(emitted parser.Emitted) {
	if emitted.Timestamp != nil {
		fmt.Printf("[%s] %s %+v\n", emitted.Timestamp.Format(time.RFC3339), emitted.Event.EventKind(), emitted.Event)
		return
	}
	fmt.Printf("%s %+v\n", emitted.Event.EventKind(), emitted.Event)
}
