package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TimelineViewer/pkg/snapshot"
)

func mustRow(t *testing.T, idx *LabelIndex, label string) int {
	t.Helper()
	row, ok := idx.Row(label)
	require.True(t, ok, "label %q not in index", label)
	return row
}

func TestBuildMatrixScenario(t *testing.T) {
	snaps := scenarioSnapshots()
	idx := BuildIndex(snaps)
	cells := BuildMatrix(snaps, idx, FullWindow(len(snaps)))

	gpuRow := mustRow(t, idx, "GPU #0")
	initRow := mustRow(t, idx, "init (PID 1)")
	mainRow := mustRow(t, idx, "    └─ main (TID 1)")

	assert.Contains(t, cells, Cell{Time: 0, Row: initRow, Value: 1})
	assert.Contains(t, cells, Cell{Time: 0, Row: mainRow, Value: 1})
	assert.Contains(t, cells, Cell{Time: 0, Row: gpuRow, Value: 55})
	assert.Contains(t, cells, Cell{Time: 1, Row: initRow, Value: 1})
	assert.Contains(t, cells, Cell{Time: 1, Row: mainRow, Value: 2})
	assert.Contains(t, cells, Cell{Time: 1, Row: gpuRow, Value: 15})
	assert.Len(t, cells, 6)
}

func TestBuildMatrixValueDomains(t *testing.T) {
	tree := proc(1, "root",
		[]snapshot.Thread{
			{TID: 10, Name: "a", State: "Running"},
			{TID: 11, Name: "b", State: "Sleeping"},
			{TID: 12, Name: "c", State: "Zombie"},
			{TID: 13, Name: "d", State: "T (stopped)"},
			{TID: 14, Name: "e", State: "D (disk sleep)"},
			{TID: 15, Name: "f"},
		},
	)
	snaps := []snapshot.Snapshot{
		snap("t0", tree,
			snapshot.GPUStatus{ID: 0, LoadPercent: -10},
			snapshot.GPUStatus{ID: 1, LoadPercent: 250},
			snapshot.GPUStatus{ID: 2, LoadPercent: 99.9},
		),
	}

	idx := BuildIndex(snaps)
	cells := BuildMatrix(snaps, idx, FullWindow(len(snaps)))
	require.NotEmpty(t, cells)

	for _, c := range cells {
		inState := c.Value <= 4
		inGPU := c.Value >= 5 && c.Value <= 105
		assert.True(t, inState || inGPU, "cell value %d outside both domains", c.Value)
	}

	// Clamping at the domain edges.
	assert.Contains(t, cells, Cell{Time: 0, Row: mustRow(t, idx, "GPU #0"), Value: 5})
	assert.Contains(t, cells, Cell{Time: 0, Row: mustRow(t, idx, "GPU #1"), Value: 105})
	assert.Contains(t, cells, Cell{Time: 0, Row: mustRow(t, idx, "GPU #2"), Value: 104})
}

func TestBuildMatrixDegenerateWindows(t *testing.T) {
	snaps := make([]snapshot.Snapshot, 0, 10)
	for i := 0; i < 10; i++ {
		snaps = append(snaps, snap("t", proc(1, "init", nil)))
	}
	idx := BuildIndex(snaps)

	tests := []struct {
		name   string
		window Window
		want   int
	}{
		{"inverted", Window{Min: 5, Max: 2}, 0},
		{"beyond end", Window{Min: 50, Max: 60}, 0},
		{"negative clipped", Window{Min: -3, Max: 1}, 2},
		{"overlong clipped", Window{Min: 8, Max: 100}, 2},
		{"single", Window{Min: 4, Max: 4}, 1},
		{"full", FullWindow(len(snaps)), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := BuildMatrix(snaps, idx, tt.window)
			assert.Len(t, cells, tt.want)
		})
	}
}

func TestBuildMatrixEmptySequence(t *testing.T) {
	idx := BuildIndex(nil)
	assert.Empty(t, BuildMatrix(nil, idx, Window{}))
}

func TestBuildMatrixSkipsUnresolvedLabels(t *testing.T) {
	// Index built from a different tree: nothing resolves, nothing
	// panics.
	indexed := []snapshot.Snapshot{snap("t0", proc(2, "other", nil))}
	walked := []snapshot.Snapshot{snap("t0", proc(1, "init",
		[]snapshot.Thread{{TID: 9, Name: "w", State: "Running"}},
	))}

	cells := BuildMatrix(walked, BuildIndex(indexed), FullWindow(1))
	assert.Empty(t, cells)
}

func TestBuildMatrixPure(t *testing.T) {
	snaps := scenarioSnapshots()
	idx := BuildIndex(snaps)
	win := Window{Min: 0, Max: 1}

	first := BuildMatrix(snaps, idx, win)
	second := BuildMatrix(snaps, idx, win)
	assert.Equal(t, first, second)
}

func TestFullWindow(t *testing.T) {
	assert.Equal(t, Window{Min: 0, Max: 0}, FullWindow(0))
	assert.Equal(t, Window{Min: 0, Max: 0}, FullWindow(1))
	assert.Equal(t, Window{Min: 0, Max: 9}, FullWindow(10))
}
