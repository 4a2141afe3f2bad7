package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"hybridcap/internal/config"
	"hybridcap/internal/logging"
	"hybridcap/internal/session"
	"hybridcap/internal/shell"
)

func newConfigCommand(cctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(cctx))
	configCmd.AddCommand(newConfigPathCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a sample configuration file and a default session record",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)

			// Seed the session record so `run` has a valid starting
			// point; an existing record is left alone.
			cfg, _, _, err := config.Load(target)
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			store := session.NewStore(cfg.SessionConfigPath(), logging.NewNop())
			if _, err := store.Load(); err == nil && !overwrite {
				fmt.Fprintf(out, "Session record already present at %s\n", store.Path())
				return nil
			}
			if err := store.Save(session.Default(cfg.Paths.OutputDir)); err != nil {
				return err
			}
			fmt.Fprintf(out, "Wrote default session record to %s\n", store.Path())
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the active configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			rows := [][]string{
				{"output_dir", cfg.Paths.OutputDir},
				{"log_dir", cfg.Paths.LogDir},
				{"data_dir", cfg.Paths.DataDir},
				{"ffmpeg_binary", cfg.Capture.FFmpegBinary},
				{"display_input", cfg.Capture.DisplayInput},
				{"min_free_space_gib", strconv.Itoa(cfg.Capture.MinFreeSpaceGiB)},
				{"history.enabled", strconv.FormatBool(cfg.History.Enabled)},
				{"history.retention_days", strconv.Itoa(cfg.History.RetentionDays)},
				{"logging.format", cfg.Logging.Format},
				{"logging.level", cfg.Logging.Level},
			}
			fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, rows, nil))

			store := session.NewStore(cfg.SessionConfigPath(), logging.NewNop())
			record, err := store.Load()
			if err != nil {
				fmt.Fprintf(out, "Session record: %v\n", err)
				return nil
			}
			preset := record.Preset
			if !record.PresetEditable() {
				preset += " (inactive for this codec)"
			}
			sessionRows := [][]string{
				{"resolution", record.Resolution.String()},
				{"fps", strconv.Itoa(record.FrameRate)},
				{"codec", shell.CodecDisplayName(record.Codec)},
				{"bitrate", record.Bitrate},
				{"preset", preset},
				{"output_path", record.OutputPath},
			}
			fmt.Fprintln(out, renderTable([]string{"Session Parameter", "Value"}, sessionRows, nil))
			return nil
		},
	}
}

func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file search locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			defaultPath, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			projectPath, err := filepath.Abs("hybridcap.toml")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, defaultPath)
			fmt.Fprintln(out, projectPath)
			return nil
		},
	}
}
