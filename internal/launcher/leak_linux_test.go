package launcher

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Metaphorme/pysuitcase/internal/handle"
	"github.com/Metaphorme/pysuitcase/internal/process"
)

func TestRunPipedLeaksNoDescriptors(t *testing.T) {
	if testing.Short() {
		t.Skip("spawns 1000 processes")
	}
	base := filepath.Dir(appDir(t))

	l := New(testConfig("echo ok"), zap.NewNop(),
		WithSubsystem(process.SubsystemConsole),
		WithStdout(io.Discard),
		WithReporter(&recordingReporter{}),
	)
	launch := func() {
		t.Helper()
		require.NoError(t, os.Chdir(base))
		require.Equal(t, 0, l.Run())
	}

	// Let the runtime open whatever it keeps for the life of the process
	launch()
	before, err := handle.Census(uint32(os.Getpid()))
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		launch()
	}

	after, err := handle.Census(uint32(os.Getpid()))
	require.NoError(t, err)
	require.LessOrEqual(t, after["fd"], before["fd"]+2, "descriptors before=%d after=%d", before["fd"], after["fd"])
}
