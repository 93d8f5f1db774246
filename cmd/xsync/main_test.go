package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	twitter "github.com/anatolykoptev/go-twitter-sync"
)

func TestExitCode(t *testing.T) {
	limited := &twitter.APIError{Endpoint: "search", Status: 429, Class: twitter.ClassRateLimited}
	assert.Equal(t, 3, exitCode(fmt.Errorf("sync: %w", limited)))
	assert.Equal(t, 1, exitCode(&twitter.APIError{Status: 404, Class: twitter.ClassNotFound}))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
}

func TestOneArg(t *testing.T) {
	v, err := oneArg([]string{"spencerc99"})
	require.NoError(t, err)
	assert.Equal(t, "spencerc99", v)

	_, err = oneArg(nil)
	assert.ErrorIs(t, err, errUsage)
	_, err = oneArg([]string{"a", "b"})
	assert.ErrorIs(t, err, errUsage)
}

func TestCommandsHaveUsage(t *testing.T) {
	for name, cmd := range commands {
		assert.NotEmpty(t, cmd.usage, name)
		assert.NotNil(t, cmd.run, name)
	}
}
