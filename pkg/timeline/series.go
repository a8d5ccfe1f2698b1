package timeline

import (
	"TimelineViewer/pkg/snapshot"
)

// Point is one (time index, value) sample of a line series.
type Point struct {
	Time  int
	Value float64
}

// GPUSeries is the sample list for one GPU, in the order its samples
// appear in the window.
type GPUSeries struct {
	ID     uint
	Points []Point
}

// Label returns the series display name, matching the GPU's heatmap
// row label.
func (s GPUSeries) Label() string { return GPULabel(s.ID) }

// SeriesSet holds the three derived series over one window. GPU series
// keep the order their GPUs were first seen in the window.
type SeriesSet struct {
	GPULoad []GPUSeries
	GPUMem  []GPUSeries
	CPUUtil []Point
}

// gpuSeriesSet accumulates per-GPU points preserving first-seen order.
type gpuSeriesSet struct {
	index  map[uint]int
	series []GPUSeries
}

func (g *gpuSeriesSet) append(id uint, p Point) {
	if g.index == nil {
		g.index = make(map[uint]int)
	}
	i, ok := g.index[id]
	if !ok {
		i = len(g.series)
		g.index[id] = i
		g.series = append(g.series, GPUSeries{ID: id})
	}
	g.series[i].Points = append(g.series[i].Points, p)
}

// ExtractSeries computes the GPU load, GPU memory and CPU utilization
// series for the snapshots inside the window.
//
// Memory percent guards against a zero total (reported as 0), and CPU
// utilization divides by at least one core. CPU utilization is not
// clamped: more running threads than cores legitimately reads above
// 100%.
func ExtractSeries(snaps []snapshot.Snapshot, win Window) SeriesSet {
	var (
		load gpuSeriesSet
		mem  gpuSeriesSet
		cpu  []Point
	)

	lo, hi := win.clip(len(snaps))
	for t := lo; t <= hi; t++ {
		snap := &snaps[t]

		for _, g := range snap.GPUStatus {
			load.append(g.ID, Point{Time: t, Value: g.LoadPercent})
			mem.append(g.ID, Point{Time: t, Value: g.MemoryPercent()})
		}

		running := countRunningThreads(&snap.ProcessTree)
		cores := snap.CPUCoresTotal
		if cores < 1 {
			cores = 1
		}
		cpu = append(cpu, Point{
			Time:  t,
			Value: float64(running) / float64(cores) * 100,
		})
	}

	return SeriesSet{
		GPULoad: load.series,
		GPUMem:  mem.series,
		CPUUtil: cpu,
	}
}

// countRunningThreads counts threads in state R across the whole tree.
func countRunningThreads(root *snapshot.Process) int {
	count := 0
	stack := []*snapshot.Process{root}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, t := range p.Threads {
			if t.StateCode() == snapshot.StateRunning {
				count++
			}
		}
		for i := range p.Children {
			stack = append(stack, &p.Children[i])
		}
	}
	return count
}
