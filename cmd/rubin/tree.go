package main

import (
	"github.com/npillmayer/rubin"
	"github.com/npillmayer/rubin/syntax/ast"
	"github.com/pterm/pterm"
)

// treeOf converts a syntax tree to a pterm tree for display on a terminal.
func treeOf(root *ast.Node) pterm.TreeNode {
	ll := leveledNode(root, pterm.LeveledList{}, 0)
	tracer().Debugf("|ll| = %d", len(ll))
	return pterm.NewTreeFromLeveledList(ll)
}

func leveledNode(n *ast.Node, ll pterm.LeveledList, level int) pterm.LeveledList {
	ll = append(ll, pterm.LeveledListItem{
		Level: level,
		Text:  nodeLabel(n),
	})
	if n == nil {
		return ll
	}
	for _, child := range []*ast.Node{n.A, n.B, n.C} {
		if child != nil {
			ll = leveledNode(child, ll, level+1)
		}
	}
	for _, child := range n.List {
		ll = leveledNode(child, ll, level+1)
	}
	return ll
}

func nodeLabel(n *ast.Node) string {
	if n == nil {
		return "nil"
	}
	label := n.Kind.String()
	if n.ID != rubin.NoSymbol {
		label += " " + n.Name()
	}
	if n.Lit != nil {
		label += " " + ast.LitString(n.Lit)
	}
	return label
}
