package filtertree

import (
	"fmt"

	"github.com/soltixdb/reportkit/internal/models"
)

// AddCondition appends a leaf to a group and returns its id
func (t *Tree) AddCondition(parentID string, cond models.FilterCondition) (string, error) {
	parent, err := t.group(parentID)
	if err != nil {
		return "", err
	}
	n, err := t.newNode(parent.id, parent.level+1, models.ConditionNode(cond))
	if err != nil {
		return "", err
	}
	parent.children = append(parent.children, n.id)
	return n.id, nil
}

// AddGroup appends an empty group to a group and returns its id
func (t *Tree) AddGroup(parentID string, logic models.Logic) (string, error) {
	if !logic.Valid() {
		return "", ErrInvalidLogic
	}
	parent, err := t.group(parentID)
	if err != nil {
		return "", err
	}
	g := models.NewFilter()
	g.Type = logic
	n, err := t.newNode(parent.id, parent.level+1, models.GroupNode(g))
	if err != nil {
		return "", err
	}
	parent.children = append(parent.children, n.id)
	return n.id, nil
}

// Remove deletes a node and its subtree
func (t *Tree) Remove(id string) error {
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if n.IsRoot() {
		return ErrRootNotRemovable
	}

	parent := t.nodes[n.parent]
	for i, c := range parent.children {
		if c == id {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			break
		}
	}

	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack = append(stack, t.nodes[cur].children...)
		delete(t.nodes, cur)
	}
	return nil
}

// SetLogic changes the logic of a group
func (t *Tree) SetLogic(groupID string, logic models.Logic) error {
	if !logic.Valid() {
		return ErrInvalidLogic
	}
	g, err := t.group(groupID)
	if err != nil {
		return err
	}
	g.logic = logic
	return nil
}

// UpdateCondition replaces the payload of a leaf
func (t *Tree) UpdateCondition(id string, cond models.FilterCondition) error {
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if !n.IsLeaf() {
		return fmt.Errorf("%w: %s", ErrNotLeaf, id)
	}
	n.condition = cond.Clone()
	return nil
}

func (t *Tree) group(id string) (*Node, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if !n.IsGroup() {
		return nil, fmt.Errorf("%w: %s", ErrNotGroup, id)
	}
	return n, nil
}
