//go:build !windows

package launcher

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Metaphorme/pysuitcase/internal/process"
	"github.com/Metaphorme/pysuitcase/pkg/suitcase"
)

// chunkWriter records every Write call separately
type chunkWriter struct {
	bytes.Buffer
	chunks []int
}

func (w *chunkWriter) Write(p []byte) (int, error) {
	w.chunks = append(w.chunks, len(p))
	return w.Buffer.Write(p)
}

func runPiped(t *testing.T, command string, opts ...Option) (int, string, *recordingReporter) {
	t.Helper()
	var out bytes.Buffer
	reporter := &recordingReporter{}

	opts = append([]Option{
		WithSubsystem(process.SubsystemConsole),
		WithStdout(&out),
		WithReporter(reporter),
	}, opts...)

	code := New(testConfig(command), zaptest.NewLogger(t), opts...).Run()
	return code, out.String(), reporter
}

func TestRunPipedWorkingDirectory(t *testing.T) {
	dir := appDir(t)

	code, out, reporter := runPiped(t, "pwd -P")
	require.Equal(t, 0, code)
	assert.Empty(t, reporter.reports)
	assertSamePath(t, dir, strings.TrimSpace(out))
}

func TestRunPipedLinesAndExitCode(t *testing.T) {
	appDir(t)

	code, out, _ := runPiped(t, "for i in 1 2 3 4 5; do echo line$i; done; exit 3")
	assert.Equal(t, 3, code)
	assert.Equal(t, "line1\nline2\nline3\nline4\nline5\n", out)
}

func TestRunPipedLargeOutputInChunks(t *testing.T) {
	appDir(t)

	var want strings.Builder
	for i := 1; i <= 5000; i++ {
		fmt.Fprintf(&want, "%d\n", i)
	}

	out := &chunkWriter{}
	reporter := &recordingReporter{}
	code := New(testConfig("i=1; while [ $i -le 5000 ]; do echo $i; i=$((i+1)); done"), zaptest.NewLogger(t),
		WithSubsystem(process.SubsystemConsole),
		WithStdout(out),
		WithReporter(reporter),
	).Run()

	require.Equal(t, 0, code)
	assert.Equal(t, want.String(), out.String())
	for _, n := range out.chunks {
		assert.LessOrEqual(t, n, suitcase.ReadBufferSize)
	}
}

func TestRunPipedCombinesStreams(t *testing.T) {
	appDir(t)

	code, out, _ := runPiped(t, "echo out; echo err 1>&2; exit 0")
	assert.Equal(t, 0, code)
	assert.Equal(t, "out\nerr\n", out)
}

func TestRunPipedIdempotent(t *testing.T) {
	base := filepath.Dir(appDir(t))

	first, _, _ := runPiped(t, "exit 7")
	// Run leaves us inside the app folder; go back for the second launch
	require.NoError(t, os.Chdir(base))
	second, _, _ := runPiped(t, "exit 7")

	assert.Equal(t, 7, first)
	assert.Equal(t, first, second)
}

func TestRunPipedShellMissing(t *testing.T) {
	appDir(t)

	code, out, reporter := runPiped(t, "echo hi", WithShell(process.Shell{Path: "/nonexistent/sh", Flag: "-c"}))
	assert.Equal(t, suitcase.ExitFailure, code)
	assert.Empty(t, out)
	require.Len(t, reporter.reports, 1)
	assert.Equal(t, MsgPiped, reporter.reports[0].message)
	assert.ErrorIs(t, reporter.reports[0].err, ErrPipeOpen)
}

func TestRunMissingDirectoryCreatesNoProcess(t *testing.T) {
	base := t.TempDir()
	chdir(t, base)
	marker := filepath.Join(base, "marker")

	cfg := testConfig("touch '" + marker + "'")
	cfg.AppFolder = "missing"
	reporter := &recordingReporter{}

	code := New(cfg, zaptest.NewLogger(t),
		WithSubsystem(process.SubsystemConsole),
		WithReporter(reporter),
	).Run()

	assert.Equal(t, suitcase.ExitFailure, code)
	require.Len(t, reporter.reports, 1)
	assert.Equal(t, MsgDirectory, reporter.reports[0].message)
	assert.ErrorIs(t, reporter.reports[0].err, ErrDirectory)
	assert.NoFileExists(t, marker)
}

func TestRunAttached(t *testing.T) {
	appDir(t)
	session := newFakeSession(t)
	reporter := &recordingReporter{}

	code := New(testConfig("echo attached; echo oops 1>&2; exit 4"), zaptest.NewLogger(t),
		WithSubsystem(process.SubsystemWindows),
		WithReporter(reporter),
		WithAttacher(func() (ConsoleSession, error) { return session, nil }),
	).Run()

	assert.Equal(t, 4, code)
	assert.Empty(t, reporter.reports)
	assert.Equal(t, 1, session.closed)

	stdout, err := os.ReadFile(session.stdout.Name())
	require.NoError(t, err)
	assert.Equal(t, "attached\n", string(stdout))
	stderr, err := os.ReadFile(session.stderr.Name())
	require.NoError(t, err)
	assert.Equal(t, "oops\n", string(stderr))
}

func TestRunAttachedShellMissingReleasesConsole(t *testing.T) {
	appDir(t)
	session := newFakeSession(t)
	reporter := &recordingReporter{}

	code := New(testConfig("echo hi"), zaptest.NewLogger(t),
		WithSubsystem(process.SubsystemWindows),
		WithReporter(reporter),
		WithShell(process.Shell{Path: "/nonexistent/sh", Flag: "-c"}),
		WithAttacher(func() (ConsoleSession, error) { return session, nil }),
	).Run()

	assert.Equal(t, suitcase.ExitFailure, code)
	assert.Equal(t, 1, session.closed)
	require.Len(t, reporter.reports, 1)
	assert.Equal(t, MsgAttached, reporter.reports[0].message)
	assert.ErrorIs(t, reporter.reports[0].err, ErrProcessCreation)
}

func TestRunHiddenDoesNotWait(t *testing.T) {
	dir := appDir(t)
	reporter := &recordingReporter{}

	begin := time.Now()
	code := New(testConfig("touch started; sleep 3"), zaptest.NewLogger(t),
		WithSubsystem(process.SubsystemWindows),
		WithReporter(reporter),
		WithAttacher(func() (ConsoleSession, error) { return nil, errNoConsole }),
	).Run()

	assert.Equal(t, 0, code)
	assert.Less(t, time.Since(begin), 2*time.Second)
	assert.Empty(t, reporter.reports)

	// The child runs in the bound directory
	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "started"))
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
}

func TestRunPipedBrokenStdoutStillReturnsStatus(t *testing.T) {
	appDir(t)
	out := &brokenWriter{}

	// Far more than a pipe buffer; the child only finishes if the pipe keeps draining
	code := New(testConfig("head -c 1000000 /dev/zero; exit 5"), zaptest.NewLogger(t),
		WithSubsystem(process.SubsystemConsole),
		WithStdout(out),
		WithReporter(&recordingReporter{}),
	).Run()

	assert.Equal(t, 5, code)
	assert.Empty(t, out.String())
}
