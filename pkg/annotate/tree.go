// Package annotate wraps rendered blocks in containers that carry their
// source spans, and indexes them for lookup by the navigation mappers.
package annotate

import (
	"fmt"

	"github.com/yaklabco/mdsync/pkg/mdast"
)

// NodeKind classifies a node of the annotated tree.
type NodeKind string

// Node kinds.
const (
	KindRoot   NodeKind = "root"
	KindGroup  NodeKind = "group"
	KindBlock  NodeKind = "block"
	KindInline NodeKind = "inline"
)

// RootID is the ID of the tree root.
const RootID = "root"

// Node is an addressable container in the rendered output. IDs are only
// stable within one render pass.
type Node struct {
	ID   string     `json:"id"`
	Kind NodeKind   `json:"kind"`
	Span mdast.Span `json:"span"`

	// Block is the token index of block and inline nodes, -1 otherwise.
	Block int `json:"block"`
	// Image is the image index of inline nodes, -1 otherwise.
	Image int `json:"image"`

	Strategy string `json:"strategy,omitempty"`
	// HTML is the rendered fragment of a block, without its container.
	HTML string `json:"-"`

	Parent   *Node   `json:"-"`
	Children []*Node `json:"children,omitempty"`
}

// Navigable reports whether the node may take part in pointer navigation.
func (n *Node) Navigable() bool {
	return n != nil && n.Span.Valid()
}

func (n *Node) appendChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

func blockID(index int) string { return fmt.Sprintf("b%d", index) }

func inlineID(block, image int) string { return fmt.Sprintf("b%d.i%d", block, image) }

func groupID(group int) string { return fmt.Sprintf("g%d", group) }

// Tree is the annotated output of one render pass.
type Tree struct {
	Root *Node
	// HTML is the full annotated document.
	HTML string

	byID    map[string]*Node
	blocks  []*Node
	indexed []*Node
}

func newTree() *Tree {
	root := &Node{ID: RootID, Kind: KindRoot, Block: -1, Image: -1}
	return &Tree{
		Root: root,
		byID: map[string]*Node{RootID: root},
	}
}

func (t *Tree) add(parent, node *Node) {
	parent.appendChild(node)
	t.byID[node.ID] = node
}

// Lookup returns the node with the given ID.
func (t *Tree) Lookup(id string) (*Node, bool) {
	if t == nil {
		return nil, false
	}
	node, ok := t.byID[id]
	return node, ok
}

// Blocks returns every block node in token order, including unresolved ones.
func (t *Tree) Blocks() []*Node {
	if t == nil {
		return nil
	}
	return t.blocks
}

// Indexed returns the navigable block nodes in token order. Their spans
// are non-empty, ordered, and do not overlap.
func (t *Tree) Indexed() []*Node {
	if t == nil {
		return nil
	}
	return t.indexed
}
