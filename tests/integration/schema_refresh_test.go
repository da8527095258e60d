package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yasb-schema/internal/adapters"
	"yasb-schema/internal/app"
	"yasb-schema/tests/testutil"
)

// TestSchemaRefreshAndRepairFlow exercises the full workflow: fetch the
// upstream schema document, normalize and persist it, reload it in a
// fresh service, and use the persisted hierarchies to repair a pasted
// widget config.
func TestSchemaRefreshAndRepairFlow(t *testing.T) {
	server := testutil.ServeSchema(t, testutil.SampleSchemaJSON)
	dbPath := filepath.Join(t.TempDir(), "widget_schemas.json")

	// Step 1: refresh the schema database from the upstream document.
	service := app.NewService(server.URL, dbPath, 5)
	result, err := service.UpdateSchemas(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.WidgetCount)
	assert.Equal(t, server.URL, result.Source)

	// Step 2: a fresh service reads the persisted database; no network.
	reloaded := app.NewService("http://127.0.0.1:1/unreachable", dbPath, 1)

	widgets, err := reloaded.ListWidgets()
	require.NoError(t, err)
	require.Len(t, widgets, 2)
	assert.Equal(t, "yasb.clock.ClockWidget", widgets[0].Type)
	assert.Equal(t, "yasb.disk.DiskWidget", widgets[1].Type)

	hierarchy, err := reloaded.WidgetHierarchy("yasb.clock.ClockWidget")
	require.NoError(t, err)
	assert.Contains(t, hierarchy, "callbacks")
	assert.Contains(t, hierarchy, "menu_list")

	// Step 3: repair a flattened paste against the persisted hierarchy.
	fix, err := reloaded.FixIndentation(context.Background(), app.FixRequest{
		Text: "label: test\n" +
			"callbacks:\n" +
			"on_left: toggle\n" +
			"on_right: hide\n" +
			"menu_list:\n" +
			"- title: A\n" +
			"path: /a\n" +
			"- title: B\n" +
			"path: /b",
		WidgetType: "yasb.clock.ClockWidget",
	})
	require.NoError(t, err)
	assert.Empty(t, fix.Residual)

	gate := adapters.NewYAMLGateAdapter()
	got, diag := gate.Parse(fix.Text)
	require.Empty(t, diag)

	want := map[string]any{
		"label": "test",
		"callbacks": map[string]any{
			"on_left":  "toggle",
			"on_right": "hide",
		},
		"menu_list": []any{
			map[string]any{"title": "A", "path": "/a"},
			map[string]any{"title": "B", "path": "/b"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("repaired config differs (-want +got):\n%s", diff)
	}
}

// TestSchemaRefreshUnreachableUpstream verifies that a refresh failure
// leaves no database behind and surfaces an error.
func TestSchemaRefreshUnreachableUpstream(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "widget_schemas.json")
	service := app.NewService("http://127.0.0.1:1/unreachable", dbPath, 1)

	_, err := service.UpdateSchemas(context.Background())
	require.Error(t, err)

	// The database was never written, so repairs degrade to no-schema mode.
	fresh := app.NewService("http://127.0.0.1:1/unreachable", dbPath, 1)
	widgets, err := fresh.ListWidgets()
	require.NoError(t, err)
	assert.Empty(t, widgets)
}
