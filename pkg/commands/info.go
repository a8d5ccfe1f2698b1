package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"TimelineViewer/pkg/snapshot"
	"TimelineViewer/pkg/timeline"
)

// NewInfoCmd creates the info subcommand.
func NewInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <log-file>",
		Short: "Inspect a log file",
		Long: `Decode a log file and print its summary: snapshot count, skipped
lines, and the heatmap row order the charts will use.

Example:
  timeline info monitor_logs/1234.jsonl`,
		Args: cobra.ExactArgs(1),
		RunE: runInfo,
	}
}

func runInfo(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read log file: %w", err)
	}

	snaps, diags := snapshot.Decode(data)
	idx := timeline.BuildIndex(snaps)

	gpuCount := 0
	for _, label := range idx.Labels() {
		if strings.HasPrefix(label, "GPU #") {
			gpuCount++
		}
	}

	fmt.Printf("File:       %s\n", args[0])
	fmt.Printf("Snapshots:  %d\n", len(snaps))
	fmt.Printf("Skipped:    %d\n", len(diags))
	fmt.Printf("Rows:       %d (%d GPU)\n", idx.Len(), gpuCount)
	if len(snaps) > 0 {
		fmt.Printf("Time range: T0 - T%d\n", len(snaps)-1)
		fmt.Printf("First:      %s\n", snaps[0].Timestamp)
		fmt.Printf("Last:       %s\n", snaps[len(snaps)-1].Timestamp)
	}
	fmt.Println()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Row", "Label"})
	table.SetAutoWrapText(false)
	for i, label := range idx.Labels() {
		table.Append([]string{strconv.Itoa(i), label})
	}
	table.Render()

	if len(diags) > 0 {
		fmt.Println()
		fmt.Println("Skipped lines:")
		for _, d := range diags {
			fmt.Printf("  %v\n", d)
		}
	}
	return nil
}
