package config

import (
	"github.com/spf13/cobra"
)

// AddWindowFlags adds time-window selection flags to a command.
func (c *Config) AddWindowFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(&c.WindowMin, "min", c.WindowMin, "First time index to include (default: 0)")
	flags.IntVar(&c.WindowMax, "max", c.WindowMax, "Last time index to include (default: end of log)")
}

// AddRenderFlags adds output flags to a command.
func (c *Config) AddRenderFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&c.Output, "output", "o", c.Output, "Output HTML file (auto-generated if empty)")
	flags.StringVar(&c.Title, "title", c.Title, "Chart page title")
}

// AddServeFlags adds HTTP server flags to a command.
func (c *Config) AddServeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&c.Addr, "addr", c.Addr, "Listen address")
	flags.BoolVar(&c.Watch, "watch", c.Watch, "Reload the log file when it changes")
}

// AddRecordFlags adds recording flags to a command.
func (c *Config) AddRecordFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(&c.PID, "pid", c.PID, "Root PID to monitor")
	flags.DurationVar(&c.Interval, "interval", c.Interval, "Sampling interval")
	flags.StringVarP(&c.Output, "output", "o", c.Output, "Output log file (auto-generated if empty)")
	flags.StringVar(&c.OutputDir, "output-dir", c.OutputDir, "Directory for auto-generated log files")
	flags.BoolVar(&c.EnableGPU, "gpu", c.EnableGPU, "Collect NVIDIA GPU telemetry")
}
