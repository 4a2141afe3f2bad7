//go:build windows

package deps

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// FreeSpace returns the bytes available to the calling user on the volume
// holding dir.
func FreeSpace(dir string) (uint64, error) {
	var free uint64
	path, err := windows.UTF16PtrFromString(dir)
	if err != nil {
		return 0, fmt.Errorf("encode path %q: %w", dir, err)
	}
	if err := windows.GetDiskFreeSpaceEx(path, &free, nil, nil); err != nil {
		return 0, fmt.Errorf("free space %q: %w", dir, err)
	}
	return free, nil
}
