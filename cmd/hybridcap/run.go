package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"hybridcap/internal/capture"
	"hybridcap/internal/controller"
	"hybridcap/internal/history"
	"hybridcap/internal/logging"
	"hybridcap/internal/session"
	"hybridcap/internal/shell"
)

const gib = 1 << 30

func newRunCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the interactive capture session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
				return errors.New("run requires an interactive terminal")
			}

			logger, err := logging.New(logging.Options{
				Level:    cfg.Logging.Level,
				Format:   cfg.Logging.Format,
				FilePath: cfg.LogFilePath(),
			})
			if err != nil {
				return err
			}

			lock := flock.New(cfg.LockFilePath())
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire session lock: %w", err)
			}
			if !locked {
				return errors.New("another hybridcap session is already running")
			}
			defer func() {
				_ = lock.Unlock()
			}()

			backend := capture.NewFFmpeg(logger,
				capture.WithBinary(cfg.Capture.FFmpegBinary),
				capture.WithDisplayInput(cfg.Capture.DisplayInput),
			)

			// Initialization happens exactly once, before any menu. A
			// failure here never presents a session menu; resources
			// are still released.
			if err := backend.Initialize(cmd.Context()); err != nil {
				backend.Release()
				return err
			}

			opts := []controller.Option{
				controller.WithMinFreeSpace(uint64(cfg.Capture.MinFreeSpaceGiB) * gib),
			}
			var hist *history.Store
			if cfg.History.Enabled {
				hist, err = history.Open(cfg)
				if err != nil {
					backend.Release()
					return err
				}
				defer hist.Close()
				if removed, err := hist.Prune(cmd.Context(), cfg.History.RetentionDays); err != nil {
					logger.Warn("history prune failed", logging.Error(err))
				} else if removed > 0 {
					logger.Debug("pruned history", logging.Int64("removed", removed))
				}
				opts = append(opts, controller.WithHistory(hist))
			}

			store := session.NewStore(cfg.SessionConfigPath(), logger)
			ctrl, err := controller.New(backend, store, logger, opts...)
			if err != nil {
				backend.Release()
				if errors.Is(err, session.ErrNotFound) {
					return fmt.Errorf("no session configuration at %s; run 'hybridcap config init' first", cfg.SessionConfigPath())
				}
				return err
			}

			// The single guaranteed cleanup path: stops an active
			// recording and releases the backend on every exit,
			// including Ctrl-C.
			defer func() {
				if err := ctrl.Shutdown(context.Background()); err != nil {
					logger.Warn("shutdown reported error", logging.Error(err))
				}
			}()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := shell.New(ctrl, cmd.InOrStdin(), cmd.OutOrStdout(), logger).Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Exiting.")
			return nil
		},
	}
}
