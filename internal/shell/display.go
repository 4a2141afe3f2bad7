package shell

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// CodecDisplayName renders an ffmpeg encoder name for the menu, e.g.
// "h264_nvenc" becomes "H264 (NVENC)".
func CodecDisplayName(name string) string {
	if name == "" {
		return name
	}
	parts := strings.Split(name, "_")
	if len(parts) == 2 && parts[1] == "nvenc" {
		return strings.ToUpper(parts[0]) + " (NVENC)"
	}
	return titleCaser.String(strings.Join(parts, " "))
}
