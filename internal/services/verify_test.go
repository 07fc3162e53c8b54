package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyWithRetry_PassesFirstTime(t *testing.T) {
	retries := 0
	ok, err := verifyWithRetry(
		func() (bool, error) { return true, nil },
		func() error { retries++; return nil },
	)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, retries, "no retry when the first check passes")
}

func TestVerifyWithRetry_RetriesExactlyOnce(t *testing.T) {
	checks := 0
	retries := 0
	ok, err := verifyWithRetry(
		func() (bool, error) {
			checks++
			return checks > 1, nil
		},
		func() error { retries++; return nil },
	)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, retries)
	assert.Equal(t, 2, checks)
}

func TestVerifyWithRetry_GivesUpAfterOneRetry(t *testing.T) {
	retries := 0
	ok, err := verifyWithRetry(
		func() (bool, error) { return false, nil },
		func() error { retries++; return nil },
	)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, retries, "the write is retried exactly once")
}

func TestVerifyWithRetry_PropagatesCheckError(t *testing.T) {
	boom := errors.New("read failed")
	_, err := verifyWithRetry(
		func() (bool, error) { return false, boom },
		func() error { return nil },
	)
	assert.ErrorIs(t, err, boom)
}

func TestVerifyWithRetry_PropagatesRetryError(t *testing.T) {
	boom := errors.New("write failed")
	_, err := verifyWithRetry(
		func() (bool, error) { return false, nil },
		func() error { return boom },
	)
	assert.ErrorIs(t, err, boom)
}
