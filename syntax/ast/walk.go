package ast

// Visitor is called for every node of a tree walk. If it returns false, the
// children of the node are skipped.
type Visitor func(n *Node) bool

// Walk traverses a tree depth-first, visiting a node before its children.
// Children are visited in the order A, B, C, List.
func Walk(n *Node, visit Visitor) {
	if n == nil || !visit(n) {
		return
	}
	Walk(n.A, visit)
	Walk(n.B, visit)
	Walk(n.C, visit)
	for _, child := range n.List {
		Walk(child, visit)
	}
}

// Find returns the first node of kind k in a tree, in walk order.
func Find(n *Node, k Kind) *Node {
	var found *Node
	Walk(n, func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.Kind == k {
			found = n
			return false
		}
		return true
	})
	return found
}

// Count counts the nodes of kind k in a tree.
func Count(n *Node, k Kind) int {
	cnt := 0
	Walk(n, func(n *Node) bool {
		if n.Kind == k {
			cnt++
		}
		return true
	})
	return cnt
}
