package main

import (
	"fmt"
	"log/slog"
	"os"

	"convoguard/verdict/pkg/audit"
	"convoguard/verdict/pkg/audit/storage"
	"convoguard/verdict/pkg/cli"
	"convoguard/verdict/pkg/compliance/packs"
	"convoguard/verdict/pkg/config"
	"convoguard/verdict/pkg/telemetry/logging"
)

// loadConfig loads the configuration for a command. A missing file at the
// default path is not an error: local usage of the evaluate and packs
// commands should work without writing a config file first.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) && !rootCmd.PersistentFlags().Changed("config") {
		return config.NewDefaultConfig(), nil
	}
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", err.Error())
	}
	return cfg, nil
}

// buildLogger builds the process logger from the telemetry section and
// installs it as the slog default. The verbose flag lowers the level to
// debug regardless of configuration.
func buildLogger(cfg *config.Config) (*slog.Logger, error) {
	logCfg := cfg.Telemetry.Logging
	if verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg, os.Stdout)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)
	return logger, nil
}

// openStorage opens the configured audit storage backend, or returns nil
// when auditing is disabled.
func openStorage(cfg *config.Config, logger *slog.Logger) (audit.Storage, error) {
	if !cfg.Audit.Enabled {
		return nil, nil
	}
	switch cfg.Audit.Backend {
	case "memory":
		return storage.NewMemoryStorage(), nil
	case "sqlite":
		sqliteCfg := storage.DefaultSQLiteConfig()
		sqliteCfg.Path = cfg.Audit.SQLite.Path
		sqliteCfg.Driver = cfg.Audit.SQLite.Driver
		return storage.NewSQLiteStorage(sqliteCfg, logger)
	default:
		return nil, cli.NewConfigError("audit.backend", fmt.Sprintf("unsupported backend %q", cfg.Audit.Backend))
	}
}

// buildRegistry builds the pack registry from the built-ins plus any
// configured overlay directory.
func buildRegistry(cfg *config.Config) (*packs.Registry, error) {
	registry, err := packs.BuiltinWithOverlays(cfg.Packs.Directory)
	if err != nil {
		return nil, cli.NewConfigError("packs.directory", err.Error())
	}
	return registry, nil
}
