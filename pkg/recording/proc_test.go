package recording

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// fakeProc builds a minimal proc entry under root.
func fakeProc(t *testing.T, root string, pid, ppid int, name, cmdline string, tids []int) {
	t.Helper()
	pidDir := filepath.Join(root, strconv.Itoa(pid))

	stat := strconv.Itoa(pid) + " (" + name + ") S " + strconv.Itoa(ppid) + " 0 0 0 -1 0 0"
	if err := os.MkdirAll(pidDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(pidDir, "stat"), []byte(stat), 0644); err != nil {
		t.Fatal(err)
	}
	status := "Name:\t" + name + "\nState:\tS (sleeping)\nPid:\t" + strconv.Itoa(pid) + "\n"
	if err := os.WriteFile(filepath.Join(pidDir, "status"), []byte(status), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(pidDir, "cmdline"), []byte(cmdline), 0644); err != nil {
		t.Fatal(err)
	}

	for _, tid := range tids {
		tidDir := filepath.Join(pidDir, "task", strconv.Itoa(tid))
		if err := os.MkdirAll(tidDir, 0755); err != nil {
			t.Fatal(err)
		}
		tstatus := "Name:\tworker-" + strconv.Itoa(tid) + "\nState:\tR (running)\n"
		if err := os.WriteFile(filepath.Join(tidDir, "status"), []byte(tstatus), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func withFakeProc(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	old := procRoot
	procRoot = root
	t.Cleanup(func() { procRoot = old })
	return root
}

func TestReadProcessTree(t *testing.T) {
	root := withFakeProc(t)
	fakeProc(t, root, 100, 1, "root-proc", "app\x00--flag\x00", []int{100, 105})
	fakeProc(t, root, 101, 100, "child-a", "", []int{101})
	fakeProc(t, root, 102, 100, "child-b", "worker", nil)
	fakeProc(t, root, 103, 101, "grandchild", "", nil)
	fakeProc(t, root, 999, 1, "unrelated", "", nil)

	tree, err := readProcessTree(100)
	if err != nil {
		t.Fatal(err)
	}

	if tree.PID != 100 || tree.Name != "root-proc" {
		t.Errorf("root = %+v", tree)
	}
	if tree.CMD != "app --flag" {
		t.Errorf("CMD = %q, want %q", tree.CMD, "app --flag")
	}
	if len(tree.Threads) != 2 || tree.Threads[0].TID != 100 || tree.Threads[1].TID != 105 {
		t.Errorf("Threads = %+v", tree.Threads)
	}
	if tree.Threads[0].Name != "worker-100" || tree.Threads[0].State != "R (running)" {
		t.Errorf("Thread[0] = %+v", tree.Threads[0])
	}

	if len(tree.Children) != 2 {
		t.Fatalf("Expected 2 children, got %d", len(tree.Children))
	}
	if tree.Children[0].PID != 101 || tree.Children[1].PID != 102 {
		t.Errorf("Children = %+v", tree.Children)
	}
	if tree.Children[1].CMD != "worker" {
		t.Errorf("child-b CMD = %q", tree.Children[1].CMD)
	}

	if len(tree.Children[0].Children) != 1 || tree.Children[0].Children[0].PID != 103 {
		t.Errorf("grandchildren = %+v", tree.Children[0].Children)
	}
}

func TestReadProcessTreeCmdlineFallback(t *testing.T) {
	root := withFakeProc(t)
	fakeProc(t, root, 200, 1, "kthread", "", nil)

	tree, err := readProcessTree(200)
	if err != nil {
		t.Fatal(err)
	}
	if tree.CMD != "kthread" {
		t.Errorf("CMD = %q, want process name fallback", tree.CMD)
	}
}

func TestReadProcessTreeMissingRoot(t *testing.T) {
	withFakeProc(t)
	if _, err := readProcessTree(12345); err == nil {
		t.Error("Expected error for missing root process")
	}
}

func TestReadPPIDParenInComm(t *testing.T) {
	root := withFakeProc(t)
	pidDir := filepath.Join(root, "300")
	if err := os.MkdirAll(pidDir, 0755); err != nil {
		t.Fatal(err)
	}
	// Process names may contain spaces and parens; only the last ")"
	// ends the comm field.
	stat := "300 (weird (name) here) S 42 300 300 0 -1 0"
	if err := os.WriteFile(filepath.Join(pidDir, "stat"), []byte(stat), 0644); err != nil {
		t.Fatal(err)
	}

	ppid, ok := readPPID(pidDir)
	if !ok {
		t.Fatal("Expected ppid parse to succeed")
	}
	if ppid != 42 {
		t.Errorf("ppid = %d, want 42", ppid)
	}
}

func TestStatusField(t *testing.T) {
	status := "Name:\tbash\nUmask:\t0022\nState:\tS (sleeping)\n"
	if got := statusField(status, "Name"); got != "bash" {
		t.Errorf("Name = %q", got)
	}
	if got := statusField(status, "State"); got != "S (sleeping)" {
		t.Errorf("State = %q", got)
	}
	if got := statusField(status, "Missing"); got != "" {
		t.Errorf("Missing = %q, want empty", got)
	}
}
