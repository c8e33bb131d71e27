// Package main is the entry point for the pwrstat exporter.
// It loads configuration, builds the status pipeline and serves it over HTTP
// until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/shirou/gopsutil/v3/host"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Guliveer/pwrstat-exporter/internal/autostart"
	"github.com/Guliveer/pwrstat-exporter/internal/collector"
	"github.com/Guliveer/pwrstat-exporter/internal/config"
	"github.com/Guliveer/pwrstat-exporter/internal/exporter"
	"github.com/Guliveer/pwrstat-exporter/internal/server"
)

var (
	// version is set at build time via -ldflags.
	version = "dev"

	configPath  = flag.String("config", "", "Path to configuration file (default: search standard locations)")
	port        = flag.Uint("port", 0, fmt.Sprintf("Sets the port the exporter uses (default %d)", config.DefaultPort))
	logLevel    = flag.String("log-level", "", "Log level: debug, info, warn, error")
	showVersion = flag.Bool("version", false, "Show version and exit")
	install     = flag.Bool("install", false, "Install and start the systemd service")
	uninstall   = flag.Bool("uninstall", false, "Stop and remove the systemd service")
	initConfig  = flag.Bool("init-config", false, "Write the default configuration to -config (or "+defaultConfigPath+") and exit")
)

const defaultConfigPath = "/etc/pwrstat-exporter/config.yaml"

func init() {
	flag.UintVar(port, "p", 0, "Shorthand for -port")
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("pwrstat-exporter %s\n", version)
		os.Exit(0)
	}

	if *initConfig {
		path := *configPath
		if path == "" {
			path = defaultConfigPath
		}
		if err := config.WriteConfig(config.DefaultConfig(), path); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote default configuration to %s\n", path)
		return
	}

	if *install || *uninstall {
		if err := manageService(*install); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	cli := config.CLIOverrides{Port: *port, LogLevel: *logLevel}
	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadLayered(cli, *configPath)
	} else {
		cfg, err = config.LoadLayered(cli)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting pwrstat exporter",
		zap.String("version", version),
		zap.String("addr", cfg.Server.Addr()),
		zap.String("adapter", cfg.Server.Adapter))
	logHost(ctx, logger)

	status := collector.NewStatusCollector(cfg.Command.Path, cfg.Command.Args, logger.Named("collector"))
	if status.IsAvailable() {
		logger.Info("Using status command", zap.String("command", status.Command()))
	} else {
		logger.Warn("Status command not found on PATH, scrapes will fail until it is installed",
			zap.String("command", status.Command()))
	}

	srv, err := server.New(cfg.Server, exporter.New(status, logger), logger)
	if err != nil {
		logger.Fatal("Failed to create HTTP server", zap.Error(err))
	}
	if err := srv.Run(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}
	logger.Info("Exporter stopped")
}

// manageService installs or removes the systemd unit for this binary.
func manageService(installing bool) error {
	mgr := autostart.New()
	if !installing {
		return uninstallService(mgr, os.Stdout)
	}

	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolving executable path: %w", err)
	}
	cfgPath := *configPath
	if cfgPath == "" {
		cfgPath = config.Locate()
	}
	if cfgPath != "" {
		if cfgPath, err = filepath.Abs(cfgPath); err != nil {
			return fmt.Errorf("resolving config path: %w", err)
		}
	}
	return installService(mgr, execPath, cfgPath, os.Stdout)
}

// installService writes the unit through mgr. An existing unit is rewritten
// so the binary and config paths follow the current invocation.
func installService(mgr autostart.Manager, execPath, cfgPath string, out io.Writer) error {
	installed, err := mgr.IsInstalled()
	if err != nil {
		return fmt.Errorf("checking %s: %w", mgr.ServiceName(), err)
	}
	if installed {
		fmt.Fprintf(out, "Service %s is already installed, rewriting unit\n", mgr.ServiceName())
	}
	if err := mgr.Install(execPath, cfgPath); err != nil {
		return fmt.Errorf("installing %s: %w", mgr.ServiceName(), err)
	}
	fmt.Fprintf(out, "Installed and started service %s\n", mgr.ServiceName())
	return nil
}

// uninstallService removes the unit through mgr. Removing a service that is
// not installed is not an error.
func uninstallService(mgr autostart.Manager, out io.Writer) error {
	installed, err := mgr.IsInstalled()
	if err != nil {
		return fmt.Errorf("checking %s: %w", mgr.ServiceName(), err)
	}
	if !installed {
		fmt.Fprintf(out, "Service %s is not installed\n", mgr.ServiceName())
		return nil
	}
	if err := mgr.Uninstall(); err != nil {
		return fmt.Errorf("uninstalling %s: %w", mgr.ServiceName(), err)
	}
	fmt.Fprintf(out, "Removed service %s\n", mgr.ServiceName())
	return nil
}

// logHost logs the host the exporter runs on. Failures are not fatal.
func logHost(ctx context.Context, logger *zap.Logger) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		logger.Debug("Host information not available", zap.Error(err))
		return
	}
	logger.Info("Host",
		zap.String("hostname", info.Hostname),
		zap.String("platform", strings.TrimSpace(info.Platform+" "+info.PlatformVersion)),
		zap.String("kernel", info.KernelVersion))
}

// initLogger creates a zap logger based on the configuration.
// It outputs to the console (human-readable) and optionally a JSON log file.
func initLogger(cfg *config.Config) *zap.Logger {
	var level zapcore.Level
	switch cfg.Logging.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		level,
	)

	cores := []zapcore.Core{consoleCore}

	if cfg.Logging.File != "" {
		file, err := os.OpenFile(cfg.Logging.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
		if err == nil {
			fileCore := zapcore.NewCore(
				zapcore.NewJSONEncoder(encoderConfig),
				zapcore.AddSync(file),
				level,
			)
			cores = append(cores, fileCore)
		} else {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", cfg.Logging.File, err)
		}
	}

	return zap.New(zapcore.NewTee(cores...))
}
