package console

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCloseReleasesOnce(t *testing.T) {
	calls := 0
	s := &Session{release: func() error {
		calls++
		return errors.New("detach failed")
	}}

	require.Error(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, calls)
}

func TestSessionCloseWithoutRelease(t *testing.T) {
	s := &Session{}
	assert.NoError(t, s.Close())
	assert.Nil(t, s.Stdout())
}
