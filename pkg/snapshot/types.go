// Package snapshot defines the machine-state record format and its
// newline-delimited decoder.
package snapshot

// Snapshot is one point-in-time record of system state. Records are
// ordered by their position in the input; that position, not the
// Timestamp string, is the time axis everywhere downstream.
type Snapshot struct {
	Timestamp     string      `json:"Timestamp"`
	ProcessTree   Process     `json:"ProcessTree"`
	GPUStatus     []GPUStatus `json:"GPUStatus,omitempty"`
	CPUCoresTotal uint        `json:"CPU_Cores_Total,omitempty"`
}

// Process is one node of the monitored process tree. Each node owns
// its Threads and Children exclusively; trees are never mutated after
// decoding.
type Process struct {
	PID      uint      `json:"PID"`
	Name     string    `json:"Name"`
	CMD      string    `json:"CMD,omitempty"`
	Threads  []Thread  `json:"Threads,omitempty"`
	Children []Process `json:"Children,omitempty"`
}

// Thread is a kernel task belonging to a Process.
type Thread struct {
	TID   uint   `json:"TID"`
	Name  string `json:"Name,omitempty"`
	State string `json:"State,omitempty"`
}

// Thread state codes as encoded into heatmap cells.
const (
	StateUnknown  uint8 = 0
	StateRunning  uint8 = 1
	StateSleeping uint8 = 2
	StateZombie   uint8 = 3
	StateStopped  uint8 = 4
)

// StateCode maps the thread state to its cell value. Only the first
// byte of the state string is significant: R, S, Z and T map to their
// codes, everything else (including an absent state) is Unknown.
func (t Thread) StateCode() uint8 {
	if t.State == "" {
		return StateUnknown
	}
	switch t.State[0] {
	case 'R':
		return StateRunning
	case 'S':
		return StateSleeping
	case 'Z':
		return StateZombie
	case 'T':
		return StateStopped
	default:
		return StateUnknown
	}
}

// GPUStatus is the telemetry reported for one GPU in a snapshot.
type GPUStatus struct {
	ID            uint    `json:"GPU_ID"`
	Name          string  `json:"Name"`
	LoadPercent   float64 `json:"Load_Percent"`
	MemoryUsedMB  float64 `json:"Memory_Used_MB"`
	MemoryTotalMB float64 `json:"Memory_Total_MB"`
	TemperatureC  float64 `json:"Temperature_C"`
	Driver        string  `json:"Driver"`
}

// MemoryPercent returns used memory as a percentage of total, or 0
// when the total is unknown or zero.
func (g GPUStatus) MemoryPercent() float64 {
	if g.MemoryTotalMB <= 0 {
		return 0
	}
	return g.MemoryUsedMB / g.MemoryTotalMB * 100
}
