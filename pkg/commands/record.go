package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"TimelineViewer/pkg/logutil"
	"TimelineViewer/pkg/recording"
)

// NewRecordCmd creates the record subcommand.
func NewRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a snapshot log from a running process",
		Long: `Sample the process tree rooted at --pid plus GPU telemetry at a
fixed interval, appending one JSON line per sample. Recording stops on
Ctrl+C or when the monitored process exits.

Example:
  timeline record --pid 4312 --interval 500ms
  timeline record --pid 4312 -o run.jsonl --gpu=false`,
		RunE: runRecord,
	}

	Cfg.AddRecordFlags(cmd)

	return cmd
}

func runRecord(cmd *cobra.Command, args []string) error {
	if err := Cfg.Validate(); err != nil {
		return err
	}

	outputPath := Cfg.Output
	if outputPath == "" {
		name := fmt.Sprintf("%d-%s.jsonl", Cfg.PID, uuid.New())
		outputPath = filepath.Join(Cfg.OutputDir, name)
	}

	writer, err := recording.NewLogWriter(outputPath)
	if err != nil {
		return err
	}
	defer writer.Close()

	var gpu *recording.GPUCollector
	if Cfg.EnableGPU {
		gpu = recording.NewGPUCollector()
		if gpu == nil {
			logutil.GetLogger().Warn("NVIDIA telemetry unavailable, recording without GPU data")
		} else {
			defer gpu.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rec := recording.NewRecorder(Cfg.PID, Cfg.Interval, writer, gpu, logutil.GetLogger())
	if err := rec.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	fmt.Printf("Recorded to: %s\n", outputPath)
	return nil
}
