package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"hybridcap/internal/catalog"
	"hybridcap/internal/controller"
	"hybridcap/internal/logging"
	"hybridcap/internal/session"
)

// command is a validated main-menu choice.
type command int

const (
	cmdStart command = iota + 1
	cmdStop
	cmdConfigure
	cmdExit
)

var mainMenu = map[string]command{
	"1": cmdStart,
	"2": cmdStop,
	"3": cmdConfigure,
	"4": cmdExit,
}

// configCommand is a validated configuration-menu choice.
type configCommand int

const (
	cfgCycleResolution configCommand = iota + 1
	cfgCycleCodec
	cfgCycleBitrate
	cfgCyclePreset
	cfgSetFrameRate
	cfgBack
)

var configMenu = map[string]configCommand{
	"1": cfgCycleResolution,
	"2": cfgCycleCodec,
	"3": cfgCycleBitrate,
	"4": cfgCyclePreset,
	"5": cfgSetFrameRate,
	"6": cfgBack,
}

// Shell runs the interactive menu loop against a controller.
type Shell struct {
	ctrl     *controller.Controller
	in       *bufio.Scanner
	out      io.Writer
	logger   *slog.Logger
	handlers map[command]func(context.Context) (exit bool)
}

// New constructs a shell reading intents from in and writing display output
// to out.
func New(ctrl *controller.Controller, in io.Reader, out io.Writer, logger *slog.Logger) *Shell {
	s := &Shell{
		ctrl:   ctrl,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logging.NewComponentLogger(logger, "shell"),
	}
	s.handlers = map[command]func(context.Context) bool{
		cmdStart:     s.handleStart,
		cmdStop:      s.handleStop,
		cmdConfigure: s.handleConfigure,
		cmdExit:      func(context.Context) bool { return true },
	}
	return s
}

// Run processes intents until exit is chosen, input ends, or the context is
// cancelled. One intent is fully processed before the next is read.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "hybridcap — hybrid screen capture")
	fmt.Fprintln(s.out, "---------------------------------")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.printStatus()
		s.printMainMenu()

		line, ok := s.readLine()
		if !ok {
			return nil
		}
		cmd, ok := mainMenu[line]
		if !ok {
			fmt.Fprintln(s.out, "Invalid choice. Please try again.")
			continue
		}
		if s.handlers[cmd](ctx) {
			return nil
		}
	}
}

func (s *Shell) handleStart(ctx context.Context) bool {
	result, err := s.ctrl.StartRecording(ctx)
	switch {
	case err != nil:
		fmt.Fprintf(s.out, "Could not start recording: %v\n", err)
	case result.AlreadyRecording:
		fmt.Fprintln(s.out, "Already recording.")
	default:
		fmt.Fprintf(s.out, "Recording started: %s\n", result.OutputPath)
	}
	return false
}

func (s *Shell) handleStop(ctx context.Context) bool {
	result, err := s.ctrl.StopRecording(ctx)
	switch {
	case result.NotRecording:
		fmt.Fprintln(s.out, "Not currently recording.")
	case err != nil:
		// The session is back to idle either way; the file may be
		// truncated.
		fmt.Fprintf(s.out, "Recording stopped with backend error: %v\n", err)
	default:
		fmt.Fprintf(s.out, "Recording stopped after %s: %s\n", FormatElapsed(result.Duration), result.OutputPath)
	}
	return false
}

func (s *Shell) handleConfigure(ctx context.Context) bool {
	for {
		if ctx.Err() != nil {
			return false
		}
		cfg := s.ctrl.Configuration()
		s.printConfigMenu(cfg)

		line, ok := s.readLine()
		if !ok {
			return false
		}
		cmd, ok := configMenu[line]
		if !ok {
			fmt.Fprintln(s.out, "Invalid choice. Please try again.")
			continue
		}
		if cmd == cfgBack {
			return false
		}
		s.applyConfigCommand(cmd)
	}
}

func (s *Shell) applyConfigCommand(cmd configCommand) {
	var err error
	switch cmd {
	case cfgCycleResolution:
		var next catalog.Resolution
		if next, err = s.ctrl.CycleResolution(); err == nil {
			fmt.Fprintf(s.out, "Resolution set to %s\n", next)
		}
	case cfgCycleCodec:
		var codec catalog.Codec
		if codec, err = s.ctrl.CycleCodec(); err == nil {
			fmt.Fprintf(s.out, "Codec set to %s\n", CodecDisplayName(codec.Name))
		}
	case cfgCycleBitrate:
		var next string
		if next, err = s.ctrl.CycleBitrate(); err == nil {
			fmt.Fprintf(s.out, "Bitrate set to %s\n", next)
		}
	case cfgCyclePreset:
		var next string
		if next, err = s.ctrl.CyclePreset(); err == nil {
			fmt.Fprintf(s.out, "Preset set to %s\n", next)
		}
	case cfgSetFrameRate:
		err = s.promptFrameRate()
	}

	switch {
	case err == nil:
	case errors.Is(err, session.ErrPersist):
		// The change is active for this session but did not reach disk.
		fmt.Fprintf(s.out, "Warning: change applied but not saved: %v\n", err)
	case errors.Is(err, controller.ErrPresetUnavailable):
		fmt.Fprintln(s.out, "Preset is only available for NVENC codecs.")
	case errors.Is(err, controller.ErrInvalidParameter):
		fmt.Fprintf(s.out, "Invalid value: %v\n", err)
	default:
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

func (s *Shell) promptFrameRate() error {
	fmt.Fprint(s.out, "Enter new FPS (1-120): ")
	line, ok := s.readLine()
	if !ok {
		return nil
	}
	fps, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return fmt.Errorf("%w: %q is not an integer", controller.ErrInvalidParameter, line)
	}
	if err := s.ctrl.SetFrameRate(fps); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "FPS set to %d\n", fps)
	return nil
}

func (s *Shell) printStatus() {
	status := s.ctrl.QueryStatus()
	if status.State == controller.StateRecording {
		fmt.Fprintln(s.out, "\nRecording Status: ON")
		fmt.Fprintf(s.out, "  Duration: %s\n", FormatElapsed(status.Elapsed))
		fmt.Fprintf(s.out, "  Output:   %s\n", status.OutputPath)
	} else {
		fmt.Fprintln(s.out, "\nRecording Status: OFF")
	}
}

func (s *Shell) printMainMenu() {
	fmt.Fprintln(s.out, "\nMenu:")
	fmt.Fprintln(s.out, "1. Start Recording")
	fmt.Fprintln(s.out, "2. Stop Recording")
	fmt.Fprintln(s.out, "3. Configure Settings")
	fmt.Fprintln(s.out, "4. Exit")
	fmt.Fprint(s.out, "Enter your choice: ")
}

func (s *Shell) printConfigMenu(cfg session.Configuration) {
	fmt.Fprintln(s.out, "\nConfiguration Menu:")
	fmt.Fprintf(s.out, "1. Cycle Resolution: %s\n", cfg.Resolution)
	fmt.Fprintf(s.out, "2. Cycle Codec: %s\n", CodecDisplayName(cfg.Codec))
	fmt.Fprintf(s.out, "3. Cycle Bitrate: %s\n", cfg.Bitrate)
	if cfg.PresetEditable() {
		fmt.Fprintf(s.out, "4. Cycle Preset: %s\n", cfg.Preset)
	} else {
		fmt.Fprintln(s.out, "4. Cycle Preset: (not available for this codec)")
	}
	fmt.Fprintf(s.out, "5. Set FPS: %d\n", cfg.FrameRate)
	fmt.Fprintln(s.out, "6. Back to Main Menu")
	fmt.Fprint(s.out, "Enter your choice: ")
}

func (s *Shell) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// FormatElapsed renders a duration as HH:MM:SS for status display.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
