//go:build !windows

// Package handle provides ownership and accounting of operating system handles.
package handle

import (
	"fmt"
	"os"
	"strconv"
)

// Census counts the open file descriptors of a process under the "fd" key.
// It needs a /proc filesystem.
func Census(processID uint32) (map[string]int, error) {
	dir := "/proc/" + strconv.FormatUint(uint64(processID), 10) + "/fd"
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	// The count includes the descriptor ReadDir holds open while listing
	return map[string]int{"fd": len(entries)}, nil
}
