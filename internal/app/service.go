package app

import (
	"context"
	"sync/atomic"
	"time"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"yasb-schema/internal/adapters"
	"yasb-schema/internal/core"
	"yasb-schema/internal/ports"
	"yasb-schema/internal/types"
)

// Service wires the schema provider, the persisted database, and the
// repair engine together.  The hierarchy store is loaded lazily and held
// behind an atomic pointer: refreshes build a whole new store and swap
// the reference, so repairs in flight observe either the old or the new
// store, never a partial one.
type Service struct {
	Provider ports.SchemaProviderPort
	DB       ports.SchemaDBPort
	Gate     ports.YAMLGatePort
	Clock    func() time.Time

	store atomic.Pointer[core.Store]
}

func NewService(schemaURL string, dbPath string, timeoutSec int) *Service {
	return &Service{
		Provider: adapters.NewSchemaProviderHTTPAdapter(schemaURL, timeoutSec),
		DB:       adapters.NewSchemaDBFileAdapter(dbPath),
		Gate:     adapters.NewYAMLGateAdapter(),
		Clock:    time.Now,
	}
}

// Store returns the current hierarchy store, loading it from the
// persisted database on first use.
func (s *Service) Store() (*core.Store, error) {
	if store := s.store.Load(); store != nil {
		return store, nil
	}
	db, err := s.DB.Load()
	if err != nil {
		return nil, err
	}
	store := core.StoreFromDatabase(db)
	s.store.Store(store)
	return store, nil
}

// UpdateSchemas fetches the upstream schema document, normalizes every
// widget hierarchy, persists the result, and swaps the in-memory store.
func (s *Service) UpdateSchemas(ctx context.Context) (UpdateSchemasResult, error) {
	assert.NotEmpty(ctx, s.Provider.Source(), "schema source must be configured")

	doc, err := s.Provider.FetchSchemaDocument(ctx)
	if err != nil {
		return UpdateSchemasResult{}, err
	}

	hierarchies := core.NewNormalizer().NormalizeDocument(doc)
	if len(hierarchies) == 0 {
		return UpdateSchemasResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("no widget schemas found in upstream document")
	}

	store := core.NewStore(hierarchies)
	db := store.Database(types.DatabaseMeta{
		Version: types.DatabaseFormatVersion,
		Source:  s.Provider.Source(),
		Updated: s.Clock().UTC().Format(time.RFC3339),
	})
	if err := s.DB.Save(db); err != nil {
		return UpdateSchemasResult{}, err
	}
	s.store.Store(store)

	log.Info().Int("widgets", len(hierarchies)).Msg("schema database updated")
	return UpdateSchemasResult{WidgetCount: len(hierarchies), Source: s.Provider.Source()}, nil
}

// FixIndentation repairs the indentation of pasted widget YAML.
func (s *Service) FixIndentation(ctx context.Context, req FixRequest) (FixResult, error) {
	store, err := s.Store()
	if err != nil {
		return FixResult{}, err
	}
	fixed, residual := core.NewRepairer(s.Gate).Fix(req.Text, req.WidgetType, store)
	return FixResult{Text: fixed, Residual: residual}, nil
}

// Validate checks YAML text and returns its diagnostics.
func (s *Service) Validate(text string) ValidateResult {
	errs := s.Gate.Validate(text)
	return ValidateResult{Valid: len(errs) == 0, Errors: errs}
}

// Format normalizes YAML indentation via parse and re-encode.
func (s *Service) Format(text string) (string, string) {
	return s.Gate.Format(text)
}

// ExtractOptions parses text and pulls out the widget options mapping.
func (s *Service) ExtractOptions(text string, expectedType string) (map[string]any, string) {
	parsed, diag := s.Gate.Parse(text)
	if diag != "" {
		return nil, diag
	}
	return core.ExtractWidgetOptions(parsed, expectedType)
}

// ListWidgets reports the widget types in the current store.
func (s *Service) ListWidgets() ([]WidgetInfo, error) {
	store, err := s.Store()
	if err != nil {
		return nil, err
	}
	var out []WidgetInfo
	for _, widgetType := range store.WidgetTypes() {
		hierarchy := store.Hierarchy(widgetType)
		out = append(out, WidgetInfo{Type: widgetType, OptionKeys: len(hierarchy.RootChildren())})
	}
	return out, nil
}

// WidgetHierarchy returns the persisted hierarchy for one widget type.
func (s *Service) WidgetHierarchy(widgetType string) (types.Hierarchy, error) {
	store, err := s.Store()
	if err != nil {
		return nil, err
	}
	hierarchy := store.Hierarchy(widgetType)
	if hierarchy == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("unknown widget type: " + widgetType)
	}
	return hierarchy, nil
}
