package catalog

import (
	"fmt"
	"strings"
)

// Resolution is a capture output size in pixels.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// String renders the conventional WxH form.
func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Codec describes one encoder choice. HardwareAccelerated is computed once
// when the table is built; call sites must not re-derive it from the name.
type Codec struct {
	Name                string
	HardwareAccelerated bool
}

// Frame-rate bounds accepted by the controller.
const (
	MinFrameRate = 1
	MaxFrameRate = 120
)

// hwEncoderMarker tags ffmpeg encoder names that run on the GPU.
const hwEncoderMarker = "nvenc"

// Resolutions lists the selectable capture sizes, in cycle order.
var Resolutions = []Resolution{
	{Width: 1920, Height: 1080},
	{Width: 1280, Height: 720},
	{Width: 2560, Height: 1440},
	{Width: 3840, Height: 2160},
}

// Codecs lists the selectable encoders, in cycle order.
var Codecs = buildCodecs(
	"h264_nvenc",
	"hevc_nvenc",
	"av1_nvenc",
	"libx264",
)

// Bitrates lists the selectable target bitrates, in cycle order.
var Bitrates = []string{"5M", "10M", "20M", "50M"}

// Presets lists the selectable encoder presets, in cycle order. Presets only
// apply to hardware-accelerated codecs.
var Presets = []string{"fast", "medium", "slow"}

func buildCodecs(names ...string) []Codec {
	codecs := make([]Codec, 0, len(names))
	for _, name := range names {
		codecs = append(codecs, Codec{
			Name:                name,
			HardwareAccelerated: strings.Contains(name, hwEncoderMarker),
		})
	}
	return codecs
}

// CodecByName returns the catalog entry for name, or false when the active
// codec came from outside the catalog.
func CodecByName(name string) (Codec, bool) {
	for _, c := range Codecs {
		if c.Name == name {
			return c, true
		}
	}
	return Codec{}, false
}

// IsHardwareAccelerated reports whether name denotes a GPU encoder. Unknown
// names fall back to the naming convention so legacy records still gate the
// preset menu correctly.
func IsHardwareAccelerated(name string) bool {
	if c, ok := CodecByName(name); ok {
		return c.HardwareAccelerated
	}
	return strings.Contains(name, hwEncoderMarker)
}

// IndexOf returns the position of value in values, or -1 when absent. Cycling
// from -1 lands on the first entry.
func IndexOf[T comparable](values []T, value T) int {
	for i, v := range values {
		if v == value {
			return i
		}
	}
	return -1
}

// Cycle advances one position past current, wrapping at the end of the table.
// A current index outside the table (including the -1 returned by IndexOf for
// unknown values) restarts at the first entry.
func Cycle[T any](values []T, current int) (int, T) {
	if len(values) == 0 {
		var zero T
		return -1, zero
	}
	if current < 0 || current >= len(values) {
		return 0, values[0]
	}
	next := (current + 1) % len(values)
	return next, values[next]
}

// ValidFrameRate reports whether fps is inside the accepted range.
func ValidFrameRate(fps int) bool {
	return fps >= MinFrameRate && fps <= MaxFrameRate
}
