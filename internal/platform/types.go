package platform

import (
	"fmt"

	"github.com/mj1618/a11y-bridge/internal/model"
)

// TreeUpdate is a full or partial accessibility tree handed to an adapter.
type TreeUpdate struct {
	Root  model.NodeID `yaml:"root"            json:"root"`
	Focus model.NodeID `yaml:"focus,omitempty" json:"focus,omitempty"`
	Nodes []model.Node `yaml:"nodes"           json:"nodes"`
}

// Validate checks that the root, the focus and every child reference a node
// present in the update.
func (u TreeUpdate) Validate() error {
	ids := make(map[model.NodeID]bool, len(u.Nodes))
	for _, n := range u.Nodes {
		if n.ID == 0 {
			return fmt.Errorf("invalid tree update: node with zero id")
		}
		if ids[n.ID] {
			return fmt.Errorf("invalid tree update: duplicate node %d", n.ID)
		}
		ids[n.ID] = true
	}
	if !ids[u.Root] {
		return fmt.Errorf("invalid tree update: root %d not in update", u.Root)
	}
	if u.Focus != 0 && !ids[u.Focus] {
		return fmt.Errorf("invalid tree update: focus %d not in update", u.Focus)
	}
	for _, n := range u.Nodes {
		for _, c := range n.Children {
			if !ids[c] {
				return fmt.Errorf("invalid tree update: node %d references missing child %d", n.ID, c)
			}
		}
	}
	return nil
}
