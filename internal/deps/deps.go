// Package deps reports availability of the external tools and resources the
// capture pipeline depends on. It backs the doctor command and the preflight
// checks run before a recording starts.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external dependency hybridcap relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements returns the dependency set for the given ffmpeg binary.
func Requirements(ffmpegBinary string) []Requirement {
	return []Requirement{
		{
			Name:        "ffmpeg",
			Command:     ffmpegBinary,
			Description: "screen capture and hardware encoding",
		},
		{
			Name:        "ffprobe",
			Command:     "ffprobe",
			Description: "output file inspection",
			Optional:    true,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
