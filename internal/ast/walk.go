package ast

// Walk visits id and its subtree in pre-order. Returning false from fn
// skips the children of the visited node.
func (t *Tree) Walk(id NodeID, fn func(id NodeID, depth int) bool) {
	if !id.IsValid() {
		return
	}
	if fn(id, 0) {
		t.walkList(t.Sub(id), 1, fn)
	}
}

func (t *Tree) walkList(id NodeID, depth int, fn func(NodeID, int) bool) {
	for ; id.IsValid(); id = t.Next(id) {
		if fn(id, depth) {
			t.walkList(t.Sub(id), depth+1, fn)
		}
	}
}
