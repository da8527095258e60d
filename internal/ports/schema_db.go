package ports

import "yasb-schema/internal/types"

// SchemaDBPort persists the normalized hierarchy database.  The store is
// an opaque key-value collaborator: Load returns an empty database when
// nothing has been persisted yet, and Save replaces the persisted
// document wholesale.
type SchemaDBPort interface {
	Load() (types.Database, error)
	Save(db types.Database) error
}
