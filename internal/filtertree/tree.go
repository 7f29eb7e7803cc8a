// Package filtertree turns persisted filters into editable trees and back.
//
// A Tree is an arena of nodes indexed by a generated id. Parent and child
// links are ids, never pointers. Every node knows its depth, and exactly one
// node, the root, has no parent. The payload kind (group or condition) is
// fixed when the node is created.
package filtertree

import (
	"errors"
	"fmt"

	"github.com/soltixdb/reportkit/internal/idgen"
	"github.com/soltixdb/reportkit/internal/models"
)

var (
	ErrNodeNotFound      = errors.New("filter node not found")
	ErrNotGroup          = errors.New("filter node is not a group")
	ErrNotLeaf           = errors.New("filter node is not a condition")
	ErrRootNotRemovable  = errors.New("root filter node cannot be removed")
	ErrInvalidLogic      = errors.New("group logic must be AND or OR")
	ErrGeneratorRequired = errors.New("id generator is required")
)

// Node is one tree node. Groups carry Logic, leaves carry Condition.
type Node struct {
	id        string
	level     int
	parent    string
	children  []string
	kind      models.NodeKind
	logic     models.Logic
	condition models.FilterCondition
}

// ID returns the node identity
func (n *Node) ID() string { return n.id }

// Level returns the depth; the root is 0
func (n *Node) Level() int { return n.level }

func (n *Node) IsRoot() bool { return n.parent == "" }

func (n *Node) IsGroup() bool { return n.kind == models.KindGroup }

func (n *Node) IsLeaf() bool { return n.kind == models.KindCondition }

// Logic returns the group logic; empty for leaves
func (n *Node) Logic() models.Logic { return n.logic }

// ParentID returns the parent id; false for the root
func (n *Node) ParentID() (string, bool) {
	return n.parent, n.parent != ""
}

// Children returns the child ids in order. Leaves have none.
func (n *Node) Children() []string {
	return append([]string(nil), n.children...)
}

// Condition returns a copy of the leaf payload
func (n *Node) Condition() models.FilterCondition {
	return n.condition.Clone()
}

// Tree is an editable filter tree
type Tree struct {
	root  string
	nodes map[string]*Node
	ids   idgen.Generator
}

// Option configures Build
type Option func(*Tree)

// WithIDGenerator replaces the nanoid generator
func WithIDGenerator(g idgen.Generator) Option {
	return func(t *Tree) {
		t.ids = g
	}
}

// Build creates a tree from a persisted filter. A nil filter yields an empty
// AND root. The input is copied and never retained.
func Build(filter *models.FilterGroup, opts ...Option) (*Tree, error) {
	t := &Tree{nodes: make(map[string]*Node), ids: idgen.New()}
	for _, opt := range opts {
		opt(t)
	}
	if t.ids == nil {
		return nil, ErrGeneratorRequired
	}

	data := models.NewFilter()
	if filter != nil {
		data = filter.Clone()
	}
	if !data.Type.Valid() {
		data.Type = models.LogicAnd
	}

	root, err := t.newNode("", 0, models.GroupNode(data))
	if err != nil {
		return nil, err
	}
	t.root = root.id

	// payloads of groups not yet expanded, keyed by node id
	pending := map[string][]models.FilterNode{root.id: data.Conditions}
	stack := []*Node{root}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !item.IsGroup() {
			continue
		}

		conditions := pending[item.id]
		delete(pending, item.id)
		children := make([]*Node, 0, len(conditions))
		for _, c := range conditions {
			child, err := t.newNode(item.id, item.level+1, c)
			if err != nil {
				return nil, err
			}
			item.children = append(item.children, child.id)
			if child.IsGroup() && c.Group != nil {
				pending[child.id] = c.Group.Conditions
			}
			children = append(children, child)
		}
		stack = append(stack, children...)
	}
	return t, nil
}

func (t *Tree) newNode(parent string, level int, data models.FilterNode) (*Node, error) {
	id, err := t.ids.NewID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate node id: %w", err)
	}
	n := &Node{id: id, level: level, parent: parent, kind: data.Kind, children: []string{}}
	switch {
	case data.IsGroup() && data.Group != nil:
		n.logic = data.Group.Type
	case data.IsGroup():
		n.logic = models.LogicAnd
	case data.Condition != nil:
		n.condition = data.Condition.Clone()
	}
	t.nodes[id] = n
	return n, nil
}

// Root returns the root node
func (t *Tree) Root() *Node {
	return t.nodes[t.root]
}

// Node returns the node with the given id
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Parent returns the parent node, or nil for the root
func (t *Tree) Parent(id string) *Node {
	n, ok := t.nodes[id]
	if !ok || n.parent == "" {
		return nil
	}
	return t.nodes[n.parent]
}

// Len returns the number of nodes including the root
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Walk visits nodes in pre-order. Returning false stops the walk.
func (t *Tree) Walk(fn func(n *Node) bool) {
	stack := []string{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.nodes[id]
		if !fn(n) {
			return
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
}

// Data returns the persisted-shape payload of a node. For groups it includes
// the whole subtree.
func (t *Tree) Data(id string) (models.FilterNode, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return models.FilterNode{}, false
	}
	return t.strip(n), true
}

// ToFilter strips the tree back to the persisted filter shape
func (t *Tree) ToFilter() models.FilterGroup {
	return *t.strip(t.Root()).Group
}

func (t *Tree) strip(n *Node) models.FilterNode {
	if n.IsLeaf() {
		return models.ConditionNode(n.Condition())
	}
	g := models.FilterGroup{Type: n.logic, Conditions: make([]models.FilterNode, 0, len(n.children))}
	for _, id := range n.children {
		g.Conditions = append(g.Conditions, t.strip(t.nodes[id]))
	}
	return models.GroupNode(g)
}

// View flattens the tree in pre-order for transport
func (t *Tree) View() models.FilterTreeResponse {
	view := models.FilterTreeResponse{Root: t.root, Nodes: make([]models.TreeNodeView, 0, len(t.nodes))}
	t.Walk(func(n *Node) bool {
		view.Nodes = append(view.Nodes, models.TreeNodeView{
			ID:       n.id,
			Level:    n.level,
			IsRoot:   n.IsRoot(),
			IsGroup:  n.IsGroup(),
			IsLeaf:   n.IsLeaf(),
			Parent:   n.parent,
			Children: n.Children(),
			Data:     t.strip(n),
		})
		return true
	})
	return view
}
