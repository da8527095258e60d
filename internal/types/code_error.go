package types

import "fmt"

// CodeError is a validation diagnostic with 1-based line and column
// information, suitable for display next to an editor buffer.
type CodeError struct {
	Line    int
	Column  int
	Message string
}

func (e CodeError) String() string {
	return fmt.Sprintf("Line %d, Col %d: %s", e.Line, e.Column, e.Message)
}
