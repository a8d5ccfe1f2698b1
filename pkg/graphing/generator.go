// Package graphing renders computed timeline views as an HTML chart
// page. It consumes timeline.View values only; it never sees the raw
// snapshot log.
package graphing

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/components"

	"TimelineViewer/pkg/timeline"
)

// Generator writes a full chart page for each rendered view. It
// implements timeline.Renderer.
type Generator struct {
	outputPath string
	title      string
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithTitle overrides the page title.
func WithTitle(title string) GeneratorOption {
	return func(g *Generator) { g.title = title }
}

// NewGenerator creates a generator writing to outputPath.
func NewGenerator(outputPath string, opts ...GeneratorOption) (*Generator, error) {
	if outputPath == "" {
		return nil, fmt.Errorf("output path is required")
	}
	g := &Generator{
		outputPath: outputPath,
		title:      "Timeline Viewer",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Render writes the chart page for view to the generator's output
// path, replacing any previous render.
func (g *Generator) Render(view timeline.View) error {
	dir := filepath.Dir(g.outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(g.outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := WritePage(file, view, g.title); err != nil {
		return err
	}
	log.Printf("Wrote charts to: %s", g.outputPath)
	return nil
}

// WritePage writes the chart page for view to w.
func WritePage(w io.Writer, view timeline.View, title string) error {
	page := components.NewPage()
	page.PageTitle = title

	page.AddCharts(
		createHeatmap(view),
		createGPULineChart("GPU Load Over Time (%)", view, view.GPULoad, ""),
		createGPULineChart("GPU Memory Usage Over Time (%)", view, view.GPUMem, " Mem"),
		createCPUChart(view),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}
