package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"TimelineViewer/pkg/graphing"
	"TimelineViewer/pkg/logutil"
	"TimelineViewer/pkg/snapshot"
	"TimelineViewer/pkg/timeline"
)

// NewRenderCmd creates the render subcommand.
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Aliases: []string{"r"},
		Use:     "render <log-file>",
		Short:   "Generate an HTML chart page from a log",
		Long: `Generate the timeline heatmap and the GPU/CPU line charts from a
snapshot log and write them to a single HTML page.

Example:
  timeline render monitor_logs/1234.jsonl
  timeline render run.jsonl -o run.html --min 10 --max 40`,
		Args: cobra.ExactArgs(1),
		RunE: runRender,
	}

	Cfg.AddWindowFlags(cmd)
	Cfg.AddRenderFlags(cmd)

	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	viewer, err := loadViewer(inputPath)
	if err != nil {
		return err
	}

	outputPath := Cfg.Output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, ".jsonl") + ".html"
	}

	gen, err := graphing.NewGenerator(outputPath, graphing.WithTitle(Cfg.Title))
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}
	if err := viewer.Render(gen); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}

	fmt.Printf("Wrote charts to: %s\n", outputPath)
	return nil
}

// loadViewer reads a log file into a viewer and applies any explicit
// window bounds from the configuration.
func loadViewer(path string) (*timeline.Viewer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	viewer := timeline.NewViewer()
	diags := viewer.Load(data)
	logLoad(path, viewer, diags)

	if Cfg.WindowMin >= 0 {
		viewer.SetMin(Cfg.WindowMin)
	}
	if Cfg.WindowMax >= 0 {
		viewer.SetMax(Cfg.WindowMax)
	}
	return viewer, nil
}

// logLoad reports a completed load with its skipped-line diagnostics.
func logLoad(path string, viewer *timeline.Viewer, diags []snapshot.LineError) {
	logger := logutil.GetLogger()
	logger.Info("log loaded",
		zap.String("path", path),
		zap.Int("snapshots", viewer.Len()),
		zap.Int("skipped", len(diags)),
	)
	for _, d := range diags {
		logger.Warn("skipped line", zap.Error(d))
	}
}
