package graphing

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"TimelineViewer/pkg/timeline"
)

// statePieces is the piecewise color scale covering both value
// domains: thread-state codes 0..4 and GPU load 5..105. Piece carries
// no label field; legend names come from pieceLabelJS. The first piece
// is bounded by Max alone: its bounds are zero values, which the
// binding's omitempty tags would drop.
func statePieces() []opts.Piece {
	return []opts.Piece{
		{Max: 0.5, Color: "white"},
		{Min: 1, Max: 1, Color: "green"},
		{Min: 2, Max: 2, Color: "orange"},
		{Min: 3, Max: 3, Color: "red"},
		{Min: 4, Max: 4, Color: "gray"},
		{Min: 5, Max: 20, Color: "#e0f3f8"},
		{Min: 21, Max: 40, Color: "#abd9e9"},
		{Min: 41, Max: 60, Color: "#74add1"},
		{Min: 61, Max: 80, Color: "#4575b4"},
		{Min: 81, Max: 105, Color: "#313695"},
	}
}

// pieceLabelJS patches the visual map with a formatter naming each
// legend entry from its piece bounds: the five state codes by name,
// the GPU buckets as the load range they cover once the +5 offset is
// removed. %MY_ECHARTS% is replaced with the chart instance at render
// time.
const pieceLabelJS = `%MY_ECHARTS%.setOption({visualMap: {formatter: function (min, max) {
	if (max < 1) { return 'Unknown'; }
	var states = {1: 'Running (R)', 2: 'Sleeping (S)', 3: 'Zombie (Z)', 4: 'Stopped (T)'};
	if (max <= 4) { return states[max]; }
	return 'GPU ' + (min - 5) + '-' + (max - 5) + '%';
}}});`

// createHeatmap builds the state heatmap: time on X, the stable row
// order on Y (inverted so the first row renders on top), cell values
// colored by the piecewise scale.
func createHeatmap(view timeline.View) *charts.HeatMap {
	heatmap := charts.NewHeatMap()

	// Rows are flipped so the first label (GPU #0) renders at the top
	// of the chart rather than at the origin.
	base := timeBase(view)
	last := len(view.RowLabels) - 1
	data := make([]opts.HeatMapData, 0, len(view.Cells))
	for _, c := range view.Cells {
		data = append(data, opts.HeatMapData{
			Value: [3]interface{}{c.Time - base, last - c.Row, int(c.Value)},
		})
	}
	rowLabels := make([]string, len(view.RowLabels))
	for i, label := range view.RowLabels {
		rowLabels[last-i] = label
	}

	height := 14*len(view.RowLabels) + 160
	if height < 240 {
		height = 240
	}

	heatmap.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Process / Thread / GPU Timeline"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", SplitArea: &opts.SplitArea{Show: opts.Bool(true)}}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Data:      rowLabels,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Interval: "0"},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Type:   "piecewise",
			Show:   opts.Bool(true),
			Left:   "right",
			Top:    "center",
			Pieces: statePieces(),
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "100%",
			Height: fmt.Sprintf("%dpx", height),
		}),
	)

	heatmap.AddJSFuncs(pieceLabelJS)
	heatmap.SetXAxis(view.TimeLabels).AddSeries("State", data)
	return heatmap
}

// createGPULineChart builds one percentage line chart with a series
// per GPU, aligned to the window's category axis.
func createGPULineChart(title string, view timeline.View, series []timeline.GPUSeries, suffix string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "20"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "value",
			Min:       0,
			Max:       100,
			AxisLabel: &opts.AxisLabel{Formatter: "{value}%"},
		}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "300px"}),
	)

	line.SetXAxis(view.TimeLabels)
	for _, s := range series {
		line.AddSeries(s.Label()+suffix, alignPoints(view, s.Points),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		)
	}
	return line
}

// createCPUChart builds the aggregate CPU utilization chart. The Y
// axis is left unbounded: more running threads than cores reads above
// 100% on purpose.
func createCPUChart(view timeline.View) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "CPU Utilization Over Time (%)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "value",
			AxisLabel: &opts.AxisLabel{Formatter: "{value}%"},
		}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "300px"}),
	)

	line.SetXAxis(view.TimeLabels).AddSeries("CPU Utilization", alignPoints(view, view.CPUUtil),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)
	return line
}

// timeBase is the first time index covered by the view's category
// axis; cells and points are positioned relative to it.
func timeBase(view timeline.View) int {
	base := view.Window.Min
	if base < 0 {
		base = 0
	}
	return base
}

// alignPoints places sparse points onto the category axis, leaving
// nulls where a series has no sample for a snapshot.
func alignPoints(view timeline.View, points []timeline.Point) []opts.LineData {
	base := timeBase(view)
	data := make([]opts.LineData, len(view.TimeLabels))
	for _, p := range points {
		i := p.Time - base
		if i < 0 || i >= len(data) {
			continue
		}
		data[i] = opts.LineData{Value: p.Value}
	}
	return data
}
