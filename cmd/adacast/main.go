package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"github.com/junsooki/adacast/internal/app"
	"github.com/junsooki/adacast/internal/capture"
	"github.com/junsooki/adacast/internal/config"
	"github.com/junsooki/adacast/internal/display"
	"github.com/junsooki/adacast/internal/encoder"
	"github.com/junsooki/adacast/internal/logging"
	"github.com/junsooki/adacast/internal/sampler"
	"github.com/junsooki/adacast/internal/shell"
	"github.com/junsooki/adacast/internal/transport"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "adacast",
	Short: "Chat input bar with a webcam and screen-share overlay",
	Long: `adacast shows a chat input bar and a draggable capture overlay that
streams sampled webcam or screen frames to the chat server.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "adacast %s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "Commit: %s\n", commit)
		fmt.Fprintf(cmd.OutOrStdout(), "Built: %s\n", buildDate)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the chat window",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(path, cmd.Flags())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return run(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)

	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file path (default ./adacast.yaml)")

	runCmd.Flags().StringP("server", "s", "", "Chat server WebSocket URL")
	runCmd.Flags().Int("quality", 0, "JPEG quality (1-100)")
	runCmd.Flags().Duration("interval", 0, "Frame sampling interval")
	runCmd.Flags().String("kind", "", "Initial capture source (camera or screen)")
	runCmd.Flags().Int("display", 0, "Display index to capture (0 = primary)")
	runCmd.Flags().String("log-level", "", "Log level (debug, info, warn, error)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	kind, err := capture.ParseKind(cfg.Kind)
	if err != nil {
		return err
	}

	logger.Info("adacast starting",
		zap.String("version", version),
		zap.String("server", cfg.ServerURL),
		zap.String("kind", string(kind)),
		zap.Int("quality", cfg.Quality),
		zap.Duration("interval", cfg.SampleInterval),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Socket.
	sock := transport.NewClient(cfg.ServerURL, transport.Handler{
		OnEvent: func(event string, data json.RawMessage) {
			logger.Debug("server event", zap.String("event", event), zap.Int("bytes", len(data)))
		},
		OnError: func(msg string) {
			logger.Warn("server error", zap.String("message", msg))
		},
		OnDisconnect: func(err error) {
			logger.Warn("socket disconnected", zap.Error(err))
		},
	}, logger.Named("socket"))
	if err := sock.Connect(ctx); err != nil {
		// Frames are dropped while disconnected; the window still opens.
		logger.Warn("connect to server", zap.Error(err))
	}
	defer sock.Close()

	// Capture pipeline.
	devices := &capture.Platform{
		Camera: capture.NewCameraDevice(cfg.CameraWidth, cfg.CameraHeight, cfg.PreviewInterval),
		Screen: capture.NewScreenDevice(cfg.DisplayIndex, cfg.PreviewInterval),
	}
	enc := encoder.NewJPEGEncoder(cfg.Quality)
	smp := sampler.New(clock.RealClock{}, cfg.SampleInterval, enc, sock, logger.Named("sampler"))
	mgr := capture.NewManager(devices, smp, logger.Named("capture"))

	// Components.
	pos := shell.Position{X: cfg.WindowWidth - shell.Width - 24, Y: 24}
	overlay := shell.New(ctx, mgr, kind, pos, logger.Named("shell"))
	mgr.OnEvent(overlay.HandleCapture)
	ui := app.New(app.Options{MicSupported: cfg.MicSupported}, overlay, sock, logger.Named("app"))

	disp := display.NewEbitenDisplay(ui, mgr, cfg.WindowWidth, cfg.WindowHeight, logger.Named("display"))
	go func() {
		<-ctx.Done()
		disp.Close()
	}()

	err = disp.Run()
	cancel()
	<-overlay.Done()
	logger.Info("adacast stopped")
	if err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}
