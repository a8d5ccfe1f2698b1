// Package recording samples a running process tree and GPU telemetry
// into the newline-delimited snapshot log the viewer consumes.
package recording

import (
	"context"
	"errors"
	"runtime"
	"time"

	"go.uber.org/zap"

	"TimelineViewer/pkg/snapshot"
)

// ErrProcessExited reports that the monitored root process is gone.
var ErrProcessExited = errors.New("monitored process no longer running")

// Recorder periodically captures one Snapshot of the tree rooted at a
// PID plus current GPU telemetry, and appends it to a log.
type Recorder struct {
	rootPID  int
	interval time.Duration
	writer   *LogWriter
	gpu      *GPUCollector
	logger   *zap.Logger
}

// NewRecorder creates a recorder for rootPID sampling every interval.
// gpu may be nil when no NVIDIA device is available.
func NewRecorder(rootPID int, interval time.Duration, writer *LogWriter, gpu *GPUCollector, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Recorder{
		rootPID:  rootPID,
		interval: interval,
		writer:   writer,
		gpu:      gpu,
		logger:   logger,
	}
}

// Sample captures one snapshot. It fails with ErrProcessExited once
// the root process is gone; GPU or thread read failures degrade to
// empty sections instead.
func (r *Recorder) Sample() (snapshot.Snapshot, error) {
	tree, err := readProcessTree(r.rootPID)
	if err != nil {
		return snapshot.Snapshot{}, ErrProcessExited
	}

	gpus := r.gpu.Collect()
	if gpus == nil {
		gpus = []snapshot.GPUStatus{}
	}

	return snapshot.Snapshot{
		Timestamp:     time.Now().Format(time.RFC3339Nano),
		ProcessTree:   tree,
		GPUStatus:     gpus,
		CPUCoresTotal: uint(runtime.NumCPU()),
	}, nil
}

// Run samples until the context is cancelled or the monitored process
// exits. A normal process exit returns nil.
func (r *Recorder) Run(ctx context.Context) error {
	r.logger.Info("recording started",
		zap.Int("pid", r.rootPID),
		zap.Duration("interval", r.interval),
		zap.String("output", r.writer.Path()),
	)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		snap, err := r.Sample()
		if err != nil {
			if errors.Is(err, ErrProcessExited) {
				r.logger.Info("monitored process exited, stopping")
				return nil
			}
			return err
		}
		if err := r.writer.Write(snap); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			r.logger.Info("recording stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
