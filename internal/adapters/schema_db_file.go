package adapters

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"yasb-schema/internal/ports"
	"yasb-schema/internal/types"
)

// SchemaDBFileAdapter persists the normalized hierarchy database as a
// single JSON document.  A missing or unreadable file degrades to an
// empty database so callers fall back to no-schema repair instead of
// failing.
type SchemaDBFileAdapter struct {
	Path string
}

func NewSchemaDBFileAdapter(path string) SchemaDBFileAdapter {
	return SchemaDBFileAdapter{Path: path}
}

func (a SchemaDBFileAdapter) Load() (types.Database, error) {
	empty := types.Database{Widgets: map[string]types.WidgetSchema{}}

	data, err := os.ReadFile(a.Path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Error().Err(err).Str("path", a.Path).Msg("failed to load schema database")
		}
		return empty, nil
	}

	var db types.Database
	if err := json.Unmarshal(data, &db); err != nil {
		log.Error().Err(err).Str("path", a.Path).Msg("schema database is corrupt")
		return empty, nil
	}
	if db.Widgets == nil {
		db.Widgets = map[string]types.WidgetSchema{}
	}
	return db, nil
}

func (a SchemaDBFileAdapter) Save(db types.Database) error {
	if err := os.MkdirAll(filepath.Dir(a.Path), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create schema database directory").
			WithCause(err)
	}

	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode schema database").
			WithCause(err)
	}

	if err := os.WriteFile(a.Path, data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write schema database: " + a.Path).
			WithCause(err)
	}

	log.Debug().Str("path", a.Path).Int("widgets", len(db.Widgets)).Msg("schema database saved")
	return nil
}

var _ ports.SchemaDBPort = SchemaDBFileAdapter{}
