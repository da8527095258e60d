package core

import (
	"sort"
	"strings"

	"yasb-schema/internal/types"
)

// Store answers the structural queries the repair engine needs, over the
// normalized hierarchies of all known widget types.  A Store is built
// once and read-only afterwards; refreshing schema data means building a
// new Store and swapping the reference, never mutating this one.
type Store struct {
	hierarchies map[string]types.Hierarchy
}

// NewStore wraps a widget-type -> hierarchy map.  A nil map gives an
// empty store whose lookups all degrade to "no structural information".
func NewStore(hierarchies map[string]types.Hierarchy) *Store {
	if hierarchies == nil {
		hierarchies = map[string]types.Hierarchy{}
	}
	return &Store{hierarchies: hierarchies}
}

// StoreFromDatabase builds a Store from the persisted database form.
func StoreFromDatabase(db types.Database) *Store {
	hierarchies := make(map[string]types.Hierarchy, len(db.Widgets))
	for widgetType, schema := range db.Widgets {
		hierarchies[widgetType] = schema.Hierarchy
	}
	return NewStore(hierarchies)
}

// Database renders the store back into its persisted form.
func (s *Store) Database(meta types.DatabaseMeta) types.Database {
	widgets := make(map[string]types.WidgetSchema, len(s.hierarchies))
	for widgetType, hierarchy := range s.hierarchies {
		widgets[widgetType] = types.WidgetSchema{Hierarchy: hierarchy}
	}
	return types.Database{Meta: meta, Widgets: widgets}
}

// WidgetTypes lists known widget types in sorted order.
func (s *Store) WidgetTypes() []string {
	out := make([]string, 0, len(s.hierarchies))
	for widgetType := range s.hierarchies {
		out = append(out, widgetType)
	}
	sort.Strings(out)
	return out
}

// Hierarchy returns the raw hierarchy for a widget type, nil if unknown.
func (s *Store) Hierarchy(widgetType string) types.Hierarchy {
	return s.hierarchies[widgetType]
}

// Lookup returns the query facade for one widget type.  Unknown widget
// types (and a nil store) give an empty lookup: every query degrades to
// empty children and scalar kinds, which callers treat as "no schema".
func (s *Store) Lookup(widgetType string) Lookup {
	if s == nil {
		return Lookup{}
	}
	hierarchy := s.hierarchies[widgetType]
	if hierarchy == nil {
		return Lookup{}
	}
	addresses := make([]string, 0, len(hierarchy))
	for address := range hierarchy {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)
	return Lookup{hierarchy: hierarchy, addresses: addresses}
}

// Lookup answers membership and kind queries against one widget's
// hierarchy.  The zero value behaves as a hierarchy with no information.
//
// Composite addresses ("parent.child") disambiguate same-named keys at
// different depths; lookups try the composite form first, then the bare
// key.  Suffix matching against composite addresses is an intentional
// approximation carried over from the source behavior: callers often
// know only the bare parent name of a list-item schema.
type Lookup struct {
	hierarchy types.Hierarchy
	addresses []string
}

// Empty reports whether no structural information is available (missing
// root node or a root with no children).
func (l Lookup) Empty() bool {
	return len(l.hierarchy.RootChildren()) == 0
}

// RootChildren returns the set of valid top-level option keys.
func (l Lookup) RootChildren() map[string]struct{} {
	children := l.hierarchy.RootChildren()
	out := make(map[string]struct{}, len(children))
	for _, child := range children {
		out[child] = struct{}{}
	}
	return out
}

// Children returns the direct children of the node at an address, empty
// when the address is unknown.
func (l Lookup) Children(address string) []string {
	node, ok := l.hierarchy[address]
	if !ok {
		return nil
	}
	return node.Children
}

// IsValidChild reports whether key may appear directly under the node at
// schemaAddress.  Besides the direct check it accepts a match on any
// composite address ending in ".<schemaAddress>", accommodating list-item
// schemas registered under a dotted path when the caller only knows the
// bare parent name.
func (l Lookup) IsValidChild(key string, schemaAddress string) bool {
	if node, ok := l.hierarchy[schemaAddress]; ok && node.HasChild(key) {
		return true
	}
	suffix := "." + schemaAddress
	for _, address := range l.addresses {
		if !strings.HasSuffix(address, suffix) {
			continue
		}
		if l.hierarchy[address].HasChild(key) {
			return true
		}
	}
	return false
}

// KeyKind resolves the kind of a key: the composite
// "<parentAddress>.<key>" entry wins over a bare entry, and unknown keys
// are scalars.
func (l Lookup) KeyKind(key string, parentAddress string) types.NodeKind {
	if parentAddress != "" {
		if node, ok := l.hierarchy[parentAddress+"."+key]; ok {
			return node.Kind
		}
	}
	if node, ok := l.hierarchy[key]; ok {
		return node.Kind
	}
	return types.NodeKindScalar
}

// ListItemSchemaAddress finds the address describing the item mapping of
// a list registered under parentAddress.  When a composite address ends
// in ".<parentAddress>" that entry describes the items; otherwise the
// parent address itself is returned unchanged.
func (l Lookup) ListItemSchemaAddress(parentAddress string) string {
	suffix := "." + parentAddress
	for _, address := range l.addresses {
		if strings.HasSuffix(address, suffix) {
			return address
		}
	}
	return parentAddress
}
