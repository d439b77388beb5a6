//go:build !windows

package process

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellCommand(t *testing.T) {
	out, err := DefaultShell().Command("echo one; echo two").Output()
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(out))
}

func TestStartHiddenDoesNotWait(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "started")

	begin := time.Now()
	pid, err := StartHidden("touch '" + marker + "'; sleep 3")
	require.NoError(t, err)
	assert.Positive(t, pid)
	assert.Less(t, time.Since(begin), 2*time.Second)

	require.Eventually(t, func() bool {
		_, err := os.Stat(marker)
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
}
