package handle

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCensusCountsOpenFiles(t *testing.T) {
	pid := uint32(os.Getpid())

	// The first pipe also brings up the runtime poller's descriptors
	r, w, err := os.Pipe()
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.NoError(t, w.Close())

	before, err := Census(pid)
	require.NoError(t, err)
	assert.Positive(t, before["fd"])

	r, w, err = os.Pipe()
	require.NoError(t, err)

	during, err := Census(pid)
	require.NoError(t, err)
	assert.Equal(t, before["fd"]+2, during["fd"])

	require.NoError(t, r.Close())
	require.NoError(t, w.Close())

	after, err := Census(pid)
	require.NoError(t, err)
	assert.Equal(t, before["fd"], after["fd"])
}
