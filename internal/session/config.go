package session

import (
	"hybridcap/internal/catalog"
)

// Configuration is the persisted record of capture parameters. It mirrors the
// JSON object written by setup; fields outside the catalogs are tolerated on
// load so older records keep working.
type Configuration struct {
	Resolution catalog.Resolution `json:"resolution"`
	FrameRate  int                `json:"fps"`
	Codec      string             `json:"codec"`
	Bitrate    string             `json:"bitrate"`
	Preset     string             `json:"preset"`
	OutputPath string             `json:"output_path"`
}

// Default returns the configuration written by `hybridcap config init`.
func Default(outputPath string) Configuration {
	return Configuration{
		Resolution: catalog.Resolutions[0],
		FrameRate:  30,
		Codec:      catalog.Codecs[0].Name,
		Bitrate:    catalog.Bitrates[0],
		Preset:     "medium",
		OutputPath: outputPath,
	}
}

// PresetEditable reports whether the preset field is surfaced for editing.
// The stored value is retained either way; only hardware-accelerated codecs
// expose it.
func (c Configuration) PresetEditable() bool {
	return catalog.IsHardwareAccelerated(c.Codec)
}
