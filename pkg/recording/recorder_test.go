package recording

import (
	"os"
	"path/filepath"
	"testing"

	"TimelineViewer/pkg/snapshot"
)

func TestLogWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.jsonl")
	w, err := NewLogWriter(path)
	if err != nil {
		t.Fatal(err)
	}

	snaps := []snapshot.Snapshot{
		{
			Timestamp: "2026-01-01T00:00:00Z",
			ProcessTree: snapshot.Process{
				PID:  1,
				Name: "init",
				Threads: []snapshot.Thread{
					{TID: 1, Name: "main", State: "R (running)"},
				},
			},
			GPUStatus: []snapshot.GPUStatus{
				{ID: 0, Name: "gpu0", LoadPercent: 12.5, MemoryUsedMB: 100, MemoryTotalMB: 1000, TemperatureC: 55, Driver: "550.1"},
			},
			CPUCoresTotal: 8,
		},
		{
			Timestamp:   "2026-01-01T00:00:01Z",
			ProcessTree: snapshot.Process{PID: 1, Name: "init"},
			GPUStatus:   []snapshot.GPUStatus{},
		},
	}
	for _, s := range snaps {
		if err := w.Write(s); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	// What the recorder writes, the decoder must read back unchanged.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	decoded, diags := snapshot.Decode(data)
	if len(diags) != 0 {
		t.Fatalf("Unexpected diagnostics: %v", diags)
	}
	if len(decoded) != 2 {
		t.Fatalf("Expected 2 snapshots, got %d", len(decoded))
	}
	if decoded[0].Timestamp != snaps[0].Timestamp {
		t.Errorf("Timestamp = %q", decoded[0].Timestamp)
	}
	if decoded[0].GPUStatus[0].LoadPercent != 12.5 {
		t.Errorf("LoadPercent = %v", decoded[0].GPUStatus[0].LoadPercent)
	}
	if decoded[0].ProcessTree.Threads[0].State != "R (running)" {
		t.Errorf("State = %q", decoded[0].ProcessTree.Threads[0].State)
	}
}

func TestRecorderSample(t *testing.T) {
	root := withFakeProc(t)
	fakeProc(t, root, 100, 1, "app", "app --serve\x00", []int{100})

	w, err := NewLogWriter(filepath.Join(t.TempDir(), "out.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	rec := NewRecorder(100, 0, w, nil, nil)
	snap, err := rec.Sample()
	if err != nil {
		t.Fatal(err)
	}

	if snap.Timestamp == "" {
		t.Error("Expected timestamp")
	}
	if snap.ProcessTree.PID != 100 || snap.ProcessTree.Name != "app" {
		t.Errorf("ProcessTree = %+v", snap.ProcessTree)
	}
	if snap.GPUStatus == nil || len(snap.GPUStatus) != 0 {
		t.Errorf("GPUStatus = %v, want empty slice without a collector", snap.GPUStatus)
	}
	if snap.CPUCoresTotal < 1 {
		t.Errorf("CPUCoresTotal = %d", snap.CPUCoresTotal)
	}
}

func TestRecorderSampleExitedProcess(t *testing.T) {
	withFakeProc(t)

	w, err := NewLogWriter(filepath.Join(t.TempDir(), "out.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	rec := NewRecorder(4242, 0, w, nil, nil)
	if _, err := rec.Sample(); err != ErrProcessExited {
		t.Errorf("err = %v, want ErrProcessExited", err)
	}
}
