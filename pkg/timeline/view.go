package timeline

import (
	"fmt"

	"TimelineViewer/pkg/snapshot"
)

// View is the complete, plain-data output handed to a renderer: axis
// labels, heatmap cells and the three derived series for one window.
type View struct {
	TimeLabels []string
	RowLabels  []string
	Cells      []Cell
	GPULoad    []GPUSeries
	GPUMem     []GPUSeries
	CPUUtil    []Point
	Window     Window
}

// Renderer consumes computed views. Implementations draw; they never
// receive the raw snapshots.
type Renderer interface {
	Render(View) error
}

// Compute is the full pipeline as a pure function: identical snapshots
// and window always produce an identical View. The label index covers
// the whole sequence; cells and series cover only the window.
func Compute(snaps []snapshot.Snapshot, win Window) View {
	idx := BuildIndex(snaps)
	series := ExtractSeries(snaps, win)

	var timeLabels []string
	lo, hi := win.clip(len(snaps))
	for t := lo; t <= hi; t++ {
		timeLabels = append(timeLabels, fmt.Sprintf("T%d", t))
	}

	return View{
		TimeLabels: timeLabels,
		RowLabels:  idx.Labels(),
		Cells:      BuildMatrix(snaps, idx, win),
		GPULoad:    series.GPULoad,
		GPUMem:     series.GPUMem,
		CPUUtil:    series.CPUUtil,
		Window:     win,
	}
}

// Viewer owns the loaded snapshot sequence and the selected window,
// and recomputes the view on demand. Loads and window changes happen
// on one goroutine, and every change is followed by a full
// recomputation, never an incremental one.
type Viewer struct {
	snaps   []snapshot.Snapshot
	window  Window
	loadGen uint64
}

// NewViewer returns an empty viewer with a collapsed window.
func NewViewer() *Viewer {
	return &Viewer{}
}

// LoadToken identifies one started load so that a stale completion can
// be recognized and dropped.
type LoadToken struct {
	gen uint64
}

// StartLoad registers a new load and invalidates every load started
// before it.
func (v *Viewer) StartLoad() LoadToken {
	v.loadGen++
	return LoadToken{gen: v.loadGen}
}

// CompleteLoad decodes data and, when tok still belongs to the newest
// load, replaces the snapshot sequence and resets the window to the
// full range. A completion overtaken by a newer StartLoad is decoded
// for its diagnostics but otherwise discarded (last writer wins).
func (v *Viewer) CompleteLoad(tok LoadToken, data []byte) ([]snapshot.LineError, bool) {
	snaps, diags := snapshot.Decode(data)
	if tok.gen != v.loadGen {
		return diags, false
	}
	v.snaps = snaps
	v.window = FullWindow(len(snaps))
	return diags, true
}

// Load replaces the snapshot sequence synchronously.
func (v *Viewer) Load(data []byte) []snapshot.LineError {
	diags, _ := v.CompleteLoad(v.StartLoad(), data)
	return diags
}

// SetMin moves the lower window bound. Bounds are clamped to be
// non-negative but are otherwise unvalidated; min above max simply
// yields empty outputs.
func (v *Viewer) SetMin(n int) {
	if n < 0 {
		n = 0
	}
	v.window.Min = n
}

// SetMax moves the upper window bound, clamped to be non-negative.
func (v *Viewer) SetMax(n int) {
	if n < 0 {
		n = 0
	}
	v.window.Max = n
}

// Window returns the current window.
func (v *Viewer) Window() Window { return v.window }

// Len returns the number of loaded snapshots.
func (v *Viewer) Len() int { return len(v.snaps) }

// Snapshots exposes the loaded sequence. It is read-only to callers.
func (v *Viewer) Snapshots() []snapshot.Snapshot { return v.snaps }

// Compute recomputes the view for the current sequence and window.
func (v *Viewer) Compute() View {
	return Compute(v.snaps, v.window)
}

// Render recomputes and hands the view to r.
func (v *Viewer) Render(r Renderer) error {
	return r.Render(v.Compute())
}
