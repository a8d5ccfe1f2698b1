package recording

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"TimelineViewer/pkg/snapshot"
)

// procRoot is swappable so tests can point the reader at a fake tree.
var procRoot = "/proc"

// readProcessTree builds the nested process tree rooted at rootPID
// from the proc filesystem. Processes that vanish mid-scan are simply
// omitted; only a missing root is an error.
func readProcessTree(rootPID int) (snapshot.Process, error) {
	if _, err := os.Stat(filepath.Join(procRoot, strconv.Itoa(rootPID))); err != nil {
		return snapshot.Process{}, fmt.Errorf("process %d not found: %w", rootPID, err)
	}

	children := childMap()
	return buildProcess(rootPID, children), nil
}

// childMap scans the proc filesystem once and groups live PIDs by
// parent, each group in ascending PID order.
func childMap() map[int][]int {
	children := make(map[int][]int)
	dirs, err := filepath.Glob(filepath.Join(procRoot, "[0-9]*"))
	if err != nil {
		return children
	}
	for _, pidPath := range dirs {
		pid, err := strconv.Atoi(filepath.Base(pidPath))
		if err != nil {
			continue
		}
		ppid, ok := readPPID(pidPath)
		if !ok {
			continue
		}
		children[ppid] = append(children[ppid], pid)
	}
	for _, pids := range children {
		sort.Ints(pids)
	}
	return children
}

// readPPID extracts the parent PID from /proc/<pid>/stat. The comm
// field may contain spaces and parentheses, so fields are split after
// the last closing paren.
func readPPID(pidPath string) (int, bool) {
	data, err := os.ReadFile(filepath.Join(pidPath, "stat"))
	if err != nil {
		return 0, false
	}
	stat := string(data)
	rparen := strings.LastIndex(stat, ")")
	if rparen == -1 || len(stat) < rparen+3 {
		return 0, false
	}
	// After the comm: state ppid pgrp ...
	fields := strings.Fields(stat[rparen+2:])
	if len(fields) < 2 {
		return 0, false
	}
	ppid, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, false
	}
	return ppid, true
}

func buildProcess(pid int, children map[int][]int) snapshot.Process {
	pidPath := filepath.Join(procRoot, strconv.Itoa(pid))

	proc := snapshot.Process{
		PID:     uint(pid),
		Name:    readProcName(pidPath),
		CMD:     readCmdline(pidPath),
		Threads: readThreads(pidPath),
	}
	if proc.CMD == "" {
		proc.CMD = proc.Name
	}

	for _, childPID := range children[pid] {
		proc.Children = append(proc.Children, buildProcess(childPID, children))
	}
	return proc
}

func readProcName(pidPath string) string {
	status, err := os.ReadFile(filepath.Join(pidPath, "status"))
	if err != nil {
		return ""
	}
	return statusField(string(status), "Name")
}

func readCmdline(pidPath string) string {
	data, err := os.ReadFile(filepath.Join(pidPath, "cmdline"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.ReplaceAll(string(data), "\x00", " "))
}

// readThreads reads per-thread name and state from
// <pid>/task/<tid>/status, ascending by TID. Threads that exit between
// the listing and the read are skipped.
func readThreads(pidPath string) []snapshot.Thread {
	taskDir := filepath.Join(pidPath, "task")
	entries, err := os.ReadDir(taskDir)
	if err != nil {
		return nil
	}

	tids := make([]int, 0, len(entries))
	for _, e := range entries {
		if tid, err := strconv.Atoi(e.Name()); err == nil {
			tids = append(tids, tid)
		}
	}
	sort.Ints(tids)

	var threads []snapshot.Thread
	for _, tid := range tids {
		data, err := os.ReadFile(filepath.Join(taskDir, strconv.Itoa(tid), "status"))
		if err != nil {
			continue
		}
		status := string(data)
		threads = append(threads, snapshot.Thread{
			TID:   uint(tid),
			Name:  statusField(status, "Name"),
			State: statusField(status, "State"),
		})
	}
	return threads
}

// statusField returns the trimmed value of one "Key:\tvalue" line of a
// proc status file.
func statusField(status, key string) string {
	for _, line := range strings.Split(status, "\n") {
		if rest, ok := strings.CutPrefix(line, key+":"); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
