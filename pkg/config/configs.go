// Package config provides configuration management for the viewer
// commands.
package config

import (
	"fmt"
	"time"
)

// Config holds all command configuration options.
type Config struct {
	// Window settings; -1 means "use the full range".
	WindowMin int
	WindowMax int

	// Render settings
	Output string
	Title  string

	// Serve settings
	Addr  string
	Watch bool

	// Record settings
	PID       int
	Interval  time.Duration
	OutputDir string
	EnableGPU bool
}

// Default configuration values.
const (
	DefaultAddr      = ":8080"
	DefaultInterval  = time.Second
	DefaultOutputDir = "monitor_logs"
	DefaultTitle     = "Timeline Viewer"
)

// New creates a Config with default values.
func New() *Config {
	return &Config{
		WindowMin: -1,
		WindowMax: -1,
		Title:     DefaultTitle,
		Addr:      DefaultAddr,
		PID:       1,
		Interval:  DefaultInterval,
		OutputDir: DefaultOutputDir,
		EnableGPU: true,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Interval < time.Millisecond {
		return fmt.Errorf("interval must be at least 1ms, got %v", c.Interval)
	}
	if c.PID <= 0 {
		return fmt.Errorf("pid must be positive, got %d", c.PID)
	}
	return nil
}
