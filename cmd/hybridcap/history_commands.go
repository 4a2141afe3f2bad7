package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"hybridcap/internal/history"
	"hybridcap/internal/shell"
)

func newHistoryCommand(cctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Recording history utilities",
	}

	historyCmd.AddCommand(newHistoryListCommand(cctx))
	historyCmd.AddCommand(newHistoryClearCommand(cctx))

	return historyCmd
}

func newHistoryListCommand(cctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List completed recordings, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			recordings, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(recordings) == 0 {
				fmt.Fprintln(out, "No recordings yet.")
				return nil
			}

			rows := make([][]string, 0, len(recordings))
			for _, rec := range recordings {
				result := "ok"
				if rec.StopError != "" {
					result = "stop error"
				}
				rows = append(rows, []string{
					rec.StartedAt.Local().Format("2006-01-02 15:04"),
					shell.FormatElapsed(rec.Duration),
					rec.Config.Resolution.String(),
					strconv.Itoa(rec.Config.FrameRate),
					rec.Config.Codec,
					rec.Config.Bitrate,
					rec.OutputPath,
					result,
				})
			}
			headers := []string{"Started", "Duration", "Resolution", "FPS", "Codec", "Bitrate", "Output", "Result"}
			aligns := []columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignLeft, alignRight, alignLeft, alignLeft}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum rows to show (0 for all)")
	return cmd
}

func newHistoryClearCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recording history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Recording history cleared.")
			return nil
		},
	}
}
