package timeline

import (
	"TimelineViewer/pkg/snapshot"
)

// gpuValueOffset shifts GPU load into the cell value range disjoint
// from thread-state codes: states occupy 0..4, GPU load 5..105.
const gpuValueOffset = 5

// Window is the inclusive range of snapshot indices being viewed. Min
// and Max are adjusted independently; an inverted or out-of-range
// window is not an error, it just clips to an empty iteration range.
type Window struct {
	Min int
	Max int
}

// FullWindow covers a sequence of n snapshots, or [0,0] when empty.
func FullWindow(n int) Window {
	if n <= 0 {
		return Window{}
	}
	return Window{Min: 0, Max: n - 1}
}

// clip bounds the window to a sequence of length n. The range is empty
// whenever lo > hi.
func (w Window) clip(n int) (lo, hi int) {
	lo, hi = w.Min, w.Max
	if lo < 0 {
		lo = 0
	}
	if hi > n-1 {
		hi = n - 1
	}
	return lo, hi
}

// Cell is one heatmap data point: a value at (time index, row).
type Cell struct {
	Time  int
	Row   int
	Value uint8
}

// gpuCellValue encodes a GPU load percentage into the cell range
// 5..105, clamping the raw load to [0,100] first.
func gpuCellValue(loadPercent float64) uint8 {
	if loadPercent < 0 {
		loadPercent = 0
	}
	if loadPercent > 100 {
		loadPercent = 100
	}
	return uint8(loadPercent) + gpuValueOffset
}

// BuildMatrix emits the sparse cell list for every snapshot inside the
// window. Process rows carry value 1 (present), thread rows their
// state code, GPU rows the encoded load. Labels that do not resolve in
// the index are skipped. A degenerate window yields an empty list.
func BuildMatrix(snaps []snapshot.Snapshot, idx *LabelIndex, win Window) []Cell {
	var cells []Cell
	lo, hi := win.clip(len(snaps))
	for t := lo; t <= hi; t++ {
		snap := &snaps[t]
		cells = walkTree(&snap.ProcessTree, t, idx, cells)
		for _, g := range snap.GPUStatus {
			if row, ok := idx.Row(GPULabel(g.ID)); ok {
				cells = append(cells, Cell{Time: t, Row: row, Value: gpuCellValue(g.LoadPercent)})
			}
		}
	}
	return cells
}

type walkFrame struct {
	proc  *snapshot.Process
	depth int
}

// walkTree appends cells for one snapshot's process tree, pre-order
// over an explicit stack, threads before child subtrees.
func walkTree(root *snapshot.Process, t int, idx *LabelIndex, cells []Cell) []Cell {
	stack := []walkFrame{{proc: root, depth: 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if row, ok := idx.Row(processLabel(f.proc, f.depth)); ok {
			cells = append(cells, Cell{Time: t, Row: row, Value: 1})
		}
		for _, th := range f.proc.Threads {
			if row, ok := idx.Row(threadLabel(th, f.depth)); ok {
				cells = append(cells, Cell{Time: t, Row: row, Value: th.StateCode()})
			}
		}
		for i := len(f.proc.Children) - 1; i >= 0; i-- {
			stack = append(stack, walkFrame{proc: &f.proc.Children[i], depth: f.depth + 1})
		}
	}
	return cells
}
