package types

// DatabaseMeta carries provenance for a persisted schema database.
type DatabaseMeta struct {
	Version int    `json:"version"`
	Source  string `json:"source,omitempty"`
	Updated string `json:"updated,omitempty"`
}

// WidgetSchema is the per-widget payload of the database.  Only the
// normalized hierarchy is stored; the raw upstream schema is not kept.
type WidgetSchema struct {
	Hierarchy Hierarchy `json:"hierarchy"`
}

// Database is the persisted form of all normalized widget hierarchies,
// keyed by widget type identifier (e.g. "yasb.clock.ClockWidget").
// It is replaced wholesale on refresh, never partially mutated.
type Database struct {
	Meta    DatabaseMeta            `json:"_meta"`
	Widgets map[string]WidgetSchema `json:"widgets"`
}

// DatabaseFormatVersion identifies the on-disk database layout.
const DatabaseFormatVersion = 1

// IsValid reports whether the database holds at least one widget.
func (d Database) IsValid() bool {
	return len(d.Widgets) > 0
}

// WidgetTypes returns the widget type identifiers present in the
// database, in unspecified order.
func (d Database) WidgetTypes() []string {
	out := make([]string, 0, len(d.Widgets))
	for widgetType := range d.Widgets {
		out = append(out, widgetType)
	}
	return out
}
