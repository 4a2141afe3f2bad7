package capture

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"hybridcap/internal/logging"
	"hybridcap/internal/session"
)

var commandContext = exec.CommandContext

// Option configures the ffmpeg backend.
type Option func(*FFmpeg)

// WithBinary overrides the default ffmpeg binary name.
func WithBinary(binary string) Option {
	return func(f *FFmpeg) {
		if binary != "" {
			f.binary = binary
		}
	}
}

// WithDisplayInput overrides the capture source handed to ffmpeg.
func WithDisplayInput(input string) Option {
	return func(f *FFmpeg) {
		if input != "" {
			f.displayInput = input
		}
	}
}

// FFmpeg drives screen capture and hardware encoding through the ffmpeg CLI.
// The process runs for the duration of one recording; Stop asks it to finish
// the container cleanly before falling back to killing it.
type FFmpeg struct {
	binary       string
	displayInput string
	logger       *slog.Logger

	mu          sync.Mutex
	initialized bool
	cmd         *exec.Cmd
	stdin       io.WriteCloser
	stderr      *bytes.Buffer
	waitErr     chan error
}

// NewFFmpeg constructs the ffmpeg backend using defaults.
func NewFFmpeg(logger *slog.Logger, opts ...Option) *FFmpeg {
	f := &FFmpeg{
		binary:       "ffmpeg",
		displayInput: defaultDisplayInput(),
		logger:       logging.NewComponentLogger(logger, "capture"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func defaultDisplayInput() string {
	if runtime.GOOS == "windows" {
		return "desktop"
	}
	return ":0.0"
}

// grabFormat selects the ffmpeg input device for the host platform.
func grabFormat() string {
	switch runtime.GOOS {
	case "windows":
		return "gdigrab"
	case "darwin":
		return "avfoundation"
	default:
		return "x11grab"
	}
}

// Initialize verifies the ffmpeg binary is reachable and that it advertises
// the NVENC encoder families.
func (f *FFmpeg) Initialize(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.initialized {
		return nil
	}

	if _, err := exec.LookPath(f.binary); err != nil {
		return fmt.Errorf("%w: binary %q not found", ErrInitFailed, f.binary)
	}

	cmd := commandContext(ctx, f.binary, "-hide_banner", "-encoders")
	output, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("%w: query encoders: %v", ErrInitFailed, err)
	}
	if !bytes.Contains(output, []byte("nvenc")) {
		return fmt.Errorf("%w: no NVENC encoders advertised by %q", ErrInitFailed, f.binary)
	}

	f.initialized = true
	f.logger.Debug("capture backend initialized", logging.String("binary", f.binary))
	return nil
}

// Start launches ffmpeg with a snapshot of cfg and returns the output file.
// Later configuration edits do not affect the running capture.
func (f *FFmpeg) Start(ctx context.Context, cfg session.Configuration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.initialized {
		return "", fmt.Errorf("%w: backend not initialized", ErrStartFailed)
	}
	if f.cmd != nil {
		return "", fmt.Errorf("%w: capture already running", ErrStartFailed)
	}

	outputPath := filepath.Join(cfg.OutputPath, outputFileName(time.Now()))
	args := buildArgs(f.displayInput, cfg, outputPath)

	cmd := commandContext(ctx, f.binary, args...) //nolint:gosec
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return "", fmt.Errorf("%w: stdin pipe: %v", ErrStartFailed, err)
	}
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("%w: launch ffmpeg: %v", ErrStartFailed, err)
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
	}()

	f.cmd = cmd
	f.stdin = stdin
	f.stderr = stderr
	f.waitErr = waitErr
	f.logger.Debug("capture started",
		logging.String("output", outputPath),
		logging.String("codec", cfg.Codec))
	return outputPath, nil
}

// Stop asks the running ffmpeg process to finalize the recording. The
// controller treats stop as best-effort: any error here is reported but does
// not keep the session in the recording state.
func (f *FFmpeg) Stop(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cmd == nil {
		return fmt.Errorf("%w: no capture running", ErrStopFailed)
	}

	// "q" on stdin makes ffmpeg flush and close the container.
	if _, err := io.WriteString(f.stdin, "q"); err != nil {
		_ = f.cmd.Process.Kill()
	}
	_ = f.stdin.Close()

	var err error
	select {
	case err = <-f.waitErr:
	case <-ctx.Done():
		_ = f.cmd.Process.Kill()
		err = <-f.waitErr
	}

	detail := strings.TrimSpace(f.stderr.String())
	f.cmd = nil
	f.stdin = nil
	f.stderr = nil
	f.waitErr = nil

	if err != nil {
		if detail != "" {
			return fmt.Errorf("%w: %v: %s", ErrStopFailed, err, lastLine(detail))
		}
		return fmt.Errorf("%w: %v", ErrStopFailed, err)
	}
	f.logger.Debug("capture stopped")
	return nil
}

// Release tears down any running capture and forgets initialization state.
// Safe to call repeatedly and before Initialize.
func (f *FFmpeg) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cmd != nil {
		_ = f.cmd.Process.Kill()
		<-f.waitErr
		f.cmd = nil
		f.stdin = nil
		f.stderr = nil
		f.waitErr = nil
	}
	f.initialized = false
}

func buildArgs(displayInput string, cfg session.Configuration, outputPath string) []string {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", grabFormat(),
		"-framerate", strconv.Itoa(cfg.FrameRate),
		"-video_size", cfg.Resolution.String(),
		"-i", displayInput,
		"-c:v", cfg.Codec,
		"-b:v", cfg.Bitrate,
	}
	if cfg.PresetEditable() && cfg.Preset != "" {
		args = append(args, "-preset", cfg.Preset)
	}
	args = append(args,
		"-pix_fmt", "yuv420p",
		"-y", outputPath,
	)
	return args
}

func outputFileName(now time.Time) string {
	return "capture_" + now.Format("20060102_150405") + ".mp4"
}

func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

var _ Backend = (*FFmpeg)(nil)
