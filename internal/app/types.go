package app

import "yasb-schema/internal/types"

type UpdateSchemasResult struct {
	WidgetCount int
	Source      string
}

type FixRequest struct {
	Text       string
	WidgetType string
}

type FixResult struct {
	Text string
	// Residual is empty when Text is valid YAML, otherwise a description
	// of the remaining parse error after the best-effort fix.
	Residual string
}

type ValidateResult struct {
	Valid  bool
	Errors []types.CodeError
}

type WidgetInfo struct {
	Type       string
	OptionKeys int
}
