// Package commands provides CLI command implementations.
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"TimelineViewer/pkg/config"
	"TimelineViewer/pkg/logutil"
)

// Cfg is the shared configuration instance.
var Cfg = config.New()

// NewRootCmd creates the root command with all subcommands.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "timeline",
		Short: "Process/GPU timeline viewer",
		Long: `TimelineViewer turns newline-delimited machine-state logs into
heatmap and time-series charts.

Commands:
  render     Generate an HTML chart page from a log file
  serve      Serve the charts over HTTP with adjustable time windows
  record     Record a new log from a running process tree
  info       Inspect a log file: rows, snapshots, diagnostics`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		NewRenderCmd(),
		NewServeCmd(),
		NewRecordCmd(),
		NewInfoCmd(),
	)

	return root
}

// Execute runs the root command.
func Execute() {
	logutil.InitLogger()
	defer logutil.GetLogger().Sync()

	if err := NewRootCmd().Execute(); err != nil {
		logutil.GetLogger().Error(err.Error())
		os.Exit(1)
	}
}
