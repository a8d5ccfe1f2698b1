package snapshot

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const (
	// DefaultBufferSize is the initial scanner buffer size.
	DefaultBufferSize = 64 * 1024
	// MaxLineSize bounds a single snapshot line.
	MaxLineSize = 10 * 1024 * 1024
)

var (
	errMissingTimestamp   = errors.New("missing Timestamp field")
	errMissingProcessTree = errors.New("missing ProcessTree field")
)

// LineError reports one input line that could not be decoded. Line
// numbers are 1-based positions in the raw input, counting skipped and
// empty lines alike.
type LineError struct {
	Line int
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e LineError) Unwrap() error { return e.Err }

// rawSnapshot mirrors Snapshot with a pointer tree so that an absent
// ProcessTree is distinguishable from an empty one.
type rawSnapshot struct {
	Timestamp     *string     `json:"Timestamp"`
	ProcessTree   *Process    `json:"ProcessTree"`
	GPUStatus     []GPUStatus `json:"GPUStatus"`
	CPUCoresTotal uint        `json:"CPU_Cores_Total"`
}

// Decode parses newline-delimited snapshot records. Every non-empty
// line is decoded independently; lines that are malformed or missing
// required fields are skipped and reported, never fatal. The returned
// sequence preserves input order, which defines the time index for all
// downstream computation.
func Decode(data []byte) ([]Snapshot, []LineError) {
	snaps, diags, scanned, err := decodeLines(bytes.NewReader(data))
	if err != nil {
		// bytes.Reader cannot fail mid-stream; an error here means the
		// line after the last scanned one exceeded MaxLineSize. Surface
		// it as a diagnostic on that line.
		diags = append(diags, LineError{Line: scanned + 1, Err: err})
	}
	return snaps, diags
}

// DecodeReader is Decode over a stream. The non-nil error cases are
// confined to the reader itself (I/O failure, oversized line);
// per-line decode failures are returned as diagnostics.
func DecodeReader(r io.Reader) ([]Snapshot, []LineError, error) {
	snaps, diags, _, err := decodeLines(r)
	return snaps, diags, err
}

// decodeLines runs the scanner loop, also reporting how many lines it
// scanned so a scanner failure can be pinned to a line number.
func decodeLines(r io.Reader) ([]Snapshot, []LineError, int, error) {
	var (
		snaps []Snapshot
		diags []LineError
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, DefaultBufferSize), MaxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		snap, err := decodeLine(line)
		if err != nil {
			diags = append(diags, LineError{Line: lineNum, Err: err})
			continue
		}
		snaps = append(snaps, snap)
	}

	if err := scanner.Err(); err != nil {
		return snaps, diags, lineNum, fmt.Errorf("reading snapshots: %w", err)
	}
	return snaps, diags, lineNum, nil
}

func decodeLine(line []byte) (Snapshot, error) {
	var raw rawSnapshot
	if err := json.Unmarshal(line, &raw); err != nil {
		return Snapshot{}, err
	}
	if raw.Timestamp == nil || *raw.Timestamp == "" {
		return Snapshot{}, errMissingTimestamp
	}
	if raw.ProcessTree == nil {
		return Snapshot{}, errMissingProcessTree
	}

	gpus := raw.GPUStatus
	if gpus == nil {
		gpus = []GPUStatus{}
	}
	return Snapshot{
		Timestamp:     *raw.Timestamp,
		ProcessTree:   *raw.ProcessTree,
		GPUStatus:     gpus,
		CPUCoresTotal: raw.CPUCoresTotal,
	}, nil
}
