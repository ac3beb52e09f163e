// Package testkit holds checks shared by tests of several packages.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"a68/internal/ast"
	"a68/internal/source"
)

// CheckTree verifies the structural invariants of a syntax tree:
// 1) every node below the root links back to its parent and siblings
// 2) no node is reachable twice (the tree has no cycles or shared nodes)
// 3) every non-empty span lies within sf's content and points at sf
func CheckTree(t *ast.Tree, sf *source.File) error {
	if t == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	root := t.Get(t.Root)
	if root == nil {
		return fmt.Errorf("root node not found")
	}
	if root.Parent.IsValid() {
		return fmt.Errorf("root has parent %d", root.Parent)
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	seen := make(map[ast.NodeID]bool)
	return checkNode(t, t.Root, sf.ID, size, seen)
}

func checkNode(t *ast.Tree, id ast.NodeID, file source.FileID, size uint32, seen map[ast.NodeID]bool) error {
	if seen[id] {
		return fmt.Errorf("node %d reached twice", id)
	}
	seen[id] = true
	n := t.Get(id)
	if err := checkSpan(t, id, n.Span, file, size); err != nil {
		return err
	}

	prev := ast.NoNodeID
	for c := n.Sub; c.IsValid(); c = t.Next(c) {
		child := t.Get(c)
		if child == nil {
			return fmt.Errorf("dangling child %d of %s", c, t.Describe(id))
		}
		if child.Parent != id {
			return fmt.Errorf("%s: parent is %d, want %d", t.Describe(c), child.Parent, id)
		}
		if child.Prev != prev {
			return fmt.Errorf("%s: prev is %d, want %d", t.Describe(c), child.Prev, prev)
		}
		if err := checkNode(t, c, file, size, seen); err != nil {
			return err
		}
		prev = c
	}
	return nil
}

func checkSpan(t *ast.Tree, id ast.NodeID, sp source.Span, file source.FileID, size uint32) error {
	if sp.Start > sp.End {
		return fmt.Errorf("%s: inverted span %v", t.Describe(id), sp)
	}
	if sp.Empty() {
		// вставленные узлы могут не иметь позиции
		return nil
	}
	if sp.File != file {
		return fmt.Errorf("%s: span file mismatch: got=%d want=%d", t.Describe(id), sp.File, file)
	}
	if sp.End > size {
		return fmt.Errorf("%s: span end beyond content: %d > %d", t.Describe(id), sp.End, size)
	}
	return nil
}
