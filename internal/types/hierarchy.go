package types

// NodeKind classifies what a configuration key introduces: a nested
// mapping, a sequence, or a plain leaf value.
type NodeKind string

const (
	NodeKindDict   NodeKind = "dict"
	NodeKindList   NodeKind = "list"
	NodeKindScalar NodeKind = "scalar"
)

// RootAddress is the fixed address of the synthetic root node present in
// every hierarchy.  Its children are the valid top-level option keys.
const RootAddress = "_root"

// HierarchyNode describes one addressable key in a widget's option
// hierarchy.  For NodeKindList the children are the keys valid inside
// each mapping-typed list item; scalar leaves carry no node of their own
// and only appear in their parent's Children.
type HierarchyNode struct {
	Kind     NodeKind `json:"type"`
	Children []string `json:"children"`
}

// Hierarchy maps an address to its node.  Nested keys register under
// their full dotted path ("parent.child") so same-named keys under
// different parents stay distinguishable.  The RootAddress entry is
// always present for a non-empty hierarchy.
type Hierarchy map[string]HierarchyNode

// HasChild reports whether name is a direct child of the node.
func (n HierarchyNode) HasChild(name string) bool {
	for _, child := range n.Children {
		if child == name {
			return true
		}
	}
	return false
}

// RootChildren returns the valid top-level option keys, or nil when the
// hierarchy has no root entry (no schema information available).
func (h Hierarchy) RootChildren() []string {
	root, ok := h[RootAddress]
	if !ok {
		return nil
	}
	return root.Children
}
