// Package main is the entry point for the clickd daemon.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/SludgePhD/clickd/internal/config"
	"github.com/SludgePhD/clickd/internal/input"
	"github.com/SludgePhD/clickd/internal/playback"
	"github.com/SludgePhD/clickd/internal/sound"
	"github.com/SludgePhD/clickd/internal/tray"
	"github.com/SludgePhD/clickd/internal/trigger"
)

// Build-time variables (set via ldflags)
var (
	version = "dev"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "clickd [config-file]",
	Short: "Plays a notification sound when configured buttons are pressed",
	Long: `clickd is a background service for Linux desktops. It watches all
matching input devices and plays a notification sound whenever one of the
configured buttons is pressed. A tray icon toggles playback without
stopping the service.

Without an argument the built-in defaults apply: the primary pointer
button on any capable device, the built-in click sound, tray enabled.`,
	Version:       version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	configPath := ""
	if len(args) == 1 {
		configPath = args[0]
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	buttons, err := input.ParseButtonSet(cfg.Buttons)
	if err != nil {
		return fmt.Errorf("invalid button config: %w", err)
	}

	var buf *sound.Buffer
	if cfg.Audio != "" {
		logger.Info("opening audio file", "path", cfg.Audio)
		buf, err = sound.Load(cfg.Audio, cfg.Volume)
	} else {
		buf, err = sound.Default(cfg.Volume)
	}
	if err != nil {
		return err
	}
	logger.Info("sound loaded", "sound", buf.Describe())

	gate := trigger.NewGate()
	latch := trigger.NewLatch()

	engine := playback.NewEngine(buf, latch, cfg.QueueWhileBusy, logger)
	if err := engine.Start(); err != nil {
		return err
	}
	defer engine.Stop()

	if cfg.Tray {
		trayItem := tray.New(gate, logger)
		if err := trayItem.Start(); err != nil {
			return err
		}
		defer trayItem.Stop()
	} else {
		logger.Debug("tray disabled, playback permanently enabled")
	}

	fatalCh := make(chan error, 1)

	monitor := input.NewMonitor(buttons, cfg.Devices, gate, latch, logger)
	monitor.SetDrainedCallback(func() {
		if !monitor.HotplugActive() {
			select {
			case fatalCh <- errors.New("no matching input device left"):
			default:
			}
		}
	})

	accepted, err := monitor.Start()
	if err != nil {
		return fmt.Errorf("failed to enumerate input devices: %w", err)
	}
	defer monitor.Stop()

	if accepted == 0 {
		if !cfg.WaitForDevices {
			return errors.New("no matching input device found")
		}
		if !monitor.HotplugActive() {
			return errors.New("no matching input device found and hotplug is unavailable")
		}
		logger.Info("no matching input device yet, waiting for hotplug")
	}

	logger.Info("clickd ready", "devices", accepted, "buttons", buttons.String())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", "signal", sig)
		return nil
	case err := <-fatalCh:
		return err
	}
}
