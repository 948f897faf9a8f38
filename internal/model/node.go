package model

// NodeID identifies an accessibility node within a window's tree.
type NodeID uint64

// Node is an entity carrying accessibility information. Parent is zero for roots.
type Node struct {
	ID          NodeID   `yaml:"id"                    json:"id"`
	Role        string   `yaml:"role"                  json:"role"`
	Label       string   `yaml:"label,omitempty"       json:"label,omitempty"`
	Value       string   `yaml:"value,omitempty"       json:"value,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Parent      NodeID   `yaml:"parent,omitempty"      json:"parent,omitempty"`
	Children    []NodeID `yaml:"children,omitempty"    json:"children,omitempty"`
}

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool {
	return n.Parent == 0
}
