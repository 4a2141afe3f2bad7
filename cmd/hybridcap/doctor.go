package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"hybridcap/internal/deps"
)

func newDoctorCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external dependencies and disk space",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Requirements(cfg.Capture.FFmpegBinary))
			rows := make([][]string, 0, len(statuses)+1)
			missingRequired := false
			for _, status := range statuses {
				state := "ok"
				detail := status.Description
				if !status.Available {
					state = "missing"
					detail = status.Detail
					if !status.Optional {
						missingRequired = true
					}
				}
				rows = append(rows, []string{status.Name, state, detail})
			}

			if free, err := deps.FreeSpace(cfg.Paths.OutputDir); err != nil {
				rows = append(rows, []string{"disk space", "unknown", err.Error()})
			} else {
				state := "ok"
				detail := fmt.Sprintf("%.1f GiB free in %s", float64(free)/gib, cfg.Paths.OutputDir)
				if cfg.Capture.MinFreeSpaceGiB > 0 && free < uint64(cfg.Capture.MinFreeSpaceGiB)*gib {
					state = "low"
				}
				rows = append(rows, []string{"disk space", state, detail})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Check", "State", "Detail"}, rows, nil))

			if missingRequired {
				return errors.New("required dependencies are missing")
			}
			return nil
		},
	}
}
