package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sketch.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 10, c.Tiles)
	assert.Equal(t, 1.1, c.Margin)
	assert.Equal(t, 0.3, c.WheelScale)
	assert.Zero(t, c.ResizeDebounce.Duration)
	assert.Equal(t, time.Second, c.ProfileInterval.Duration)
	assert.False(t, c.SoftwareRenderer)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := writeConfig(t, `
title = "gallery"
tiles = 7
present_mode = "uncapped"
resize_debounce = "150ms"
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gallery", c.Title)
	assert.Equal(t, 7, c.Tiles)
	assert.Equal(t, PresentModeUncapped, c.PresentMode)
	assert.Equal(t, 150*time.Millisecond, c.ResizeDebounce.Duration)
	assert.Equal(t, 1280, c.Width)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeConfig(t, "tiels = 3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tiels")
}

func TestLoadRejectsBadDuration(t *testing.T) {
	_, err := Load(writeConfig(t, `resize_debounce = "soon"`))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, "tiles = 7\nmargin = 1.5\n")

	c, err := Parse("gallery", []string{"-config", path, "-tiles", "12", "-resize-debounce", "1s", "-profiling", "-profile-interval", "5s", "-software-renderer"})
	require.NoError(t, err)
	assert.Equal(t, 12, c.Tiles)
	assert.Equal(t, 1.5, c.Margin)
	assert.Equal(t, time.Second, c.ResizeDebounce.Duration)
	assert.True(t, c.Profiling)
	assert.Equal(t, 5*time.Second, c.ProfileInterval.Duration)
	assert.True(t, c.SoftwareRenderer)

	// Flags left at their defaults do not clobber file values.
	c, err = Parse("gallery", []string{"-config", path})
	require.NoError(t, err)
	assert.Equal(t, 7, c.Tiles)
}

func TestParseWithoutFile(t *testing.T) {
	c, err := Parse("orbit", []string{"-width", "640"})
	require.NoError(t, err)
	assert.Equal(t, 640, c.Width)
	assert.Equal(t, Default().Height, c.Height)

	c, err = Parse("orbit", []string{"-pan-speed", "0.01", "-elevation-min", "-30"})
	require.NoError(t, err)
	assert.Equal(t, 0.01, c.PanSpeed)
	assert.Equal(t, -30.0, c.ElevationMin)
	assert.Equal(t, Default().ElevationMax, c.ElevationMax)

	_, err = Parse("orbit", []string{"-nope"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, "width"},
		{"negative tick rate", func(c *Config) { c.TickRate = -1 }, "tick_rate"},
		{"present mode", func(c *Config) { c.PresentMode = "mailbox" }, "present_mode"},
		{"no tiles", func(c *Config) { c.Tiles = 0 }, "tiles"},
		{"zero margin", func(c *Config) { c.Margin = 0 }, "margin"},
		{"negative debounce", func(c *Config) { c.ResizeDebounce.Duration = -time.Second }, "resize_debounce"},
		{"zero profile interval", func(c *Config) { c.ProfileInterval.Duration = 0 }, "profile_interval"},
		{"negative workers", func(c *Config) { c.LoaderWorkers = -2 }, "loader_workers"},
		{"zero orbit speed", func(c *Config) { c.OrbitSpeed = 0 }, "orbit_speed"},
		{"zero pan speed", func(c *Config) { c.PanSpeed = 0 }, "pan_speed"},
		{"pole elevation", func(c *Config) { c.ElevationMax = 90 }, "elevation_max"},
		{"reversed elevation", func(c *Config) { c.ElevationMin, c.ElevationMax = 10, -10 }, "elevation_min"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	c := Default()
	c.Width, c.Tiles = -1, -1
	err := c.Validate()
	assert.Len(t, strings.Split(err.Error(), "\n"), 2)
}

func TestMarshalRoundTripsThroughDecode(t *testing.T) {
	c := Default()
	c.ResizeDebounce.Duration = 250 * time.Millisecond
	data, err := c.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "250ms")

	var back Config
	require.NoError(t, back.Decode(strings.NewReader(string(data))))
	assert.Equal(t, c, back)
}
