package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"convoguard/verdict/pkg/audit"
	"convoguard/verdict/pkg/audit/retention"
	"convoguard/verdict/pkg/cli"
	"convoguard/verdict/pkg/compliance/engine"
	"convoguard/verdict/pkg/compliance/packs"
	"convoguard/verdict/pkg/riskgate"
	"convoguard/verdict/pkg/server"
	"convoguard/verdict/pkg/telemetry/health"
	"convoguard/verdict/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Verdict HTTP server",
	Long: `Start the Verdict evaluation server with the specified configuration.

The server exposes the evaluate endpoint, pack discovery, audit retrieval,
health probes, and Prometheus metrics.

Examples:
  # Start with default config
  verdict run

  # Start with custom config
  verdict run --config /etc/verdict/config.yaml

  # Override listen address
  verdict run --listen 0.0.0.0:8080

  # Validate config without starting the server
  verdict run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	ctx := cli.SetupSignalHandler()

	// Metrics
	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	}

	// Policy packs, with optional overlay directory and hot reload
	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Policy packs loaded (%d packs)\n", len(registry.List()))

	// Audit storage and recorder
	store, err := openStorage(cfg, logger)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	var recorder *audit.Recorder
	if store != nil {
		defer store.Close()

		recorderCfg := audit.DefaultRecorderConfig()
		if collector != nil {
			recorderCfg.OnWriteFailure = collector.RecordAuditWriteFailure
		}
		recorder = audit.NewRecorder(store, recorderCfg, logger)
		defer recorder.Close()

		// Retention scheduler
		if cfg.Audit.Retention.Schedule != "" {
			pruner := retention.NewPruner(store, retention.Config{
				RetentionDays: cfg.Audit.Retention.Days,
				MaxRecords:    int64(cfg.Audit.Retention.MaxRecords),
				Schedule:      cfg.Audit.Retention.Schedule,
			}, logger)
			scheduler := retention.NewScheduler(pruner, logger)
			if err := scheduler.Start(ctx); err != nil {
				logger.Warn("retention scheduler not started", "error", err)
			} else {
				defer scheduler.Stop()
			}
		}
		fmt.Println("✓ Audit store initialized")
	}

	// External risk gate
	var gate *riskgate.Gate
	if cfg.Gate.BaseURL != "" || cfg.Gate.APIKey != "" {
		gate = riskgate.New(riskgate.Config{
			BaseURL: cfg.Gate.BaseURL,
			APIKey:  cfg.Gate.APIKey,
			Timeout: cfg.Gate.Timeout,
		}, logger)
		if gate.Enabled() {
			fmt.Println("✓ External risk gate enabled")
		} else {
			logger.Warn("risk gate partially configured, running local-only",
				"base_url_set", cfg.Gate.BaseURL != "",
				"api_key_set", cfg.Gate.APIKey != "")
		}
	}

	// Engine
	eng := engine.New(registry, engine.Options{
		Gate:     gate,
		Recorder: recorder,
		Metrics:  collector,
		Logger:   logger,
	})

	// Overlay hot reload
	if cfg.Packs.Watch && cfg.Packs.Directory != "" {
		watcher := packs.NewWatcher(cfg.Packs.Directory, func() {
			reloaded, err := packs.BuiltinWithOverlays(cfg.Packs.Directory)
			if err != nil {
				logger.Error("pack overlay reload failed, keeping active registry", "error", err)
				return
			}
			eng.SwapRegistry(reloaded)
			logger.Info("pack registry reloaded", "packs", len(reloaded.List()))
		}, logger)
		if err := watcher.Start(ctx); err != nil {
			logger.Warn("pack watcher not started", "error", err)
		}
	}

	// Health checks
	checker := health.New(0)
	checker.Register("packs", func(ctx context.Context) error {
		if len(eng.Registry().List()) == 0 {
			return fmt.Errorf("no policy packs registered")
		}
		return nil
	})
	if store != nil {
		checker.Register("audit_storage", func(ctx context.Context) error {
			_, err := store.Count(ctx)
			return err
		})
	}

	srv := server.New(cfg.Server, eng, server.Options{
		Storage:     store,
		Checker:     checker,
		Metrics:     collector,
		MetricsPath: cfg.Telemetry.Metrics.Path,
		Logger:      logger,
	})

	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	return nil
}
