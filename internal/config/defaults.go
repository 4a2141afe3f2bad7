package config

const (
	defaultOutputDir            = "~/Videos/hybridcap"
	defaultLogDir               = "~/.local/share/hybridcap/logs"
	defaultDataDir              = "~/.local/share/hybridcap"
	defaultFFmpegBinary         = "ffmpeg"
	defaultDisplayInput         = ":0.0"
	defaultMinFreeSpaceGiB      = 1
	defaultHistoryRetentionDays = 90
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			DataDir:   defaultDataDir,
		},
		Capture: Capture{
			FFmpegBinary:    defaultFFmpegBinary,
			DisplayInput:    defaultDisplayInput,
			MinFreeSpaceGiB: defaultMinFreeSpaceGiB,
		},
		History: History{
			Enabled:       true,
			RetentionDays: defaultHistoryRetentionDays,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
