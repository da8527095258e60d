package cli

import (
	"errors"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
)

// ---------- Command tree tests ----------

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	expected := []string{"fix", "validate", "format", "schema"}
	for _, name := range expected {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := newRootCommand()
	assert.Equal(t, "dev", root.Version)
}

func TestFixCommandFlags(t *testing.T) {
	cmd := newFixCommand()
	assert.NotNil(t, cmd.Flags().Lookup("widget"))
	assert.NotNil(t, cmd.Flags().Lookup("write"))
}

func TestFormatCommandFlags(t *testing.T) {
	cmd := newFormatCommand()
	assert.NotNil(t, cmd.Flags().Lookup("write"))
}

func TestSchemaCommandHasSubcommands(t *testing.T) {
	cmd := newSchemaCommand()
	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, name := range []string{"update", "list", "show"} {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
}

// ---------- Exit code tests ----------

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name: "invalid argument",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("yaml validation failed"),
			expected: 2,
		},
		{
			name: "not found",
			err: errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("unknown widget type"),
			expected: 4,
		},
		{
			name: "internal",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to write schema database"),
			expected: 5,
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			expected: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exitCodeForError(tt.err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestErrorMessage(t *testing.T) {
	withMsg := errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("failed to download schema document")
	assert.Equal(t, "failed to download schema document", errorMessage(withMsg))

	plain := errors.New("boom")
	assert.Equal(t, "boom", errorMessage(plain))
}
