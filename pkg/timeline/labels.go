// Package timeline turns a decoded snapshot sequence into the
// structures a chart renderer consumes: a stable heatmap row order, a
// sparse cell matrix over a time window, and derived GPU/CPU series.
package timeline

import (
	"fmt"
	"sort"
	"strings"

	"TimelineViewer/pkg/snapshot"
)

// GPULabel is the heatmap row label for one GPU.
func GPULabel(id uint) string {
	return fmt.Sprintf("GPU #%d", id)
}

func processLabel(p *snapshot.Process, depth int) string {
	indent := strings.Repeat("    ", depth)
	if depth == 0 {
		return fmt.Sprintf("%s%s (PID %d)", indent, p.Name, p.PID)
	}
	return fmt.Sprintf("%s└─ %s (PID %d)", indent, p.Name, p.PID)
}

func threadLabel(t snapshot.Thread, depth int) string {
	indent := strings.Repeat("    ", depth+1)
	return fmt.Sprintf("%s└─ %s (TID %d)", indent, t.Name, t.TID)
}

// labelNode is one entry of the insertion-ordered label prefix tree.
// Children are deduplicated by label; the first insertion fixes a
// child's position permanently.
type labelNode struct {
	label    string
	order    []*labelNode
	children map[string]*labelNode
}

func newLabelNode(label string) *labelNode {
	return &labelNode{label: label, children: make(map[string]*labelNode)}
}

func (n *labelNode) child(label string) *labelNode {
	if c, ok := n.children[label]; ok {
		return c
	}
	c := newLabelNode(label)
	n.children[label] = c
	n.order = append(n.order, c)
	return c
}

type insertFrame struct {
	parent *labelNode
	proc   *snapshot.Process
	depth  int
}

// insertTree merges one process tree into the label tree. Traversal is
// pre-order over an explicit stack so arbitrarily deep input cannot
// grow the call stack; thread labels are inserted before any child
// subtree of the same process.
func (n *labelNode) insertTree(root *snapshot.Process) {
	stack := []insertFrame{{parent: n, proc: root, depth: 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := f.parent.child(processLabel(f.proc, f.depth))
		for _, t := range f.proc.Threads {
			node.child(threadLabel(t, f.depth))
		}
		// Push in reverse so children pop in declaration order.
		for i := len(f.proc.Children) - 1; i >= 0; i-- {
			stack = append(stack, insertFrame{
				parent: node,
				proc:   &f.proc.Children[i],
				depth:  f.depth + 1,
			})
		}
	}
}

// flatten appends the tree's labels to out in pre-order, children in
// insertion order.
func (n *labelNode) flatten(out []string) []string {
	stack := make([]*labelNode, 0, len(n.order))
	for i := len(n.order) - 1; i >= 0; i-- {
		stack = append(stack, n.order[i])
	}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, node.label)
		for i := len(node.order) - 1; i >= 0; i-- {
			stack = append(stack, node.order[i])
		}
	}
	return out
}

// LabelIndex is the deterministic row ordering for a snapshot
// sequence: GPU rows first, ascending by id, then the merged
// process/thread hierarchy in first-seen pre-order. It is always built
// over the whole sequence so rows keep their position when the viewed
// window changes.
//
// Row identity is the rendered label text. Two distinct nodes that
// format to the same label at the same depth share a row; the index
// does not disambiguate by ancestor path.
type LabelIndex struct {
	order []string
	rows  map[string]int
}

// BuildIndex computes the row ordering for snaps. The result depends
// only on the input: rebuilding from the same sequence yields an
// identical index, and replayed subtrees never reorder or duplicate
// existing rows.
func BuildIndex(snaps []snapshot.Snapshot) *LabelIndex {
	gpuSeen := make(map[uint]bool)
	var gpuIDs []uint
	for i := range snaps {
		for _, g := range snaps[i].GPUStatus {
			if !gpuSeen[g.ID] {
				gpuSeen[g.ID] = true
				gpuIDs = append(gpuIDs, g.ID)
			}
		}
	}
	sort.Slice(gpuIDs, func(i, j int) bool { return gpuIDs[i] < gpuIDs[j] })

	root := newLabelNode("")
	for i := range snaps {
		root.insertTree(&snaps[i].ProcessTree)
	}

	order := make([]string, 0, len(gpuIDs))
	for _, id := range gpuIDs {
		order = append(order, GPULabel(id))
	}
	order = root.flatten(order)

	rows := make(map[string]int, len(order))
	for i, label := range order {
		rows[label] = i
	}
	return &LabelIndex{order: order, rows: rows}
}

// Labels returns the row labels in order. The slice is shared; callers
// must not modify it.
func (x *LabelIndex) Labels() []string { return x.order }

// Len returns the number of rows.
func (x *LabelIndex) Len() int { return len(x.order) }

// Row resolves a label to its row number.
func (x *LabelIndex) Row(label string) (int, bool) {
	row, ok := x.rows[label]
	return row, ok
}
