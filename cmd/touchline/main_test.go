package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentSeason(t *testing.T) {
	assert.Equal(t, 2024, currentSeason(time.Date(2024, time.August, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2023, currentSeason(time.Date(2024, time.May, 19, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2024, currentSeason(time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParseAsOf(t *testing.T) {
	got, err := parseAsOf("2024-03-09")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC), got)

	_, err = parseAsOf("09/03/2024")
	assert.Error(t, err)

	now, err := parseAsOf("")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), now, time.Minute)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"table", "form", "momentum", "record", "backtest", "sweep", "compare", "history", "predict", "fetch", "watch", "version"} {
		assert.True(t, names[want], want)
	}
}
