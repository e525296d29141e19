package gqlopgen

import (
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// Validator checks generated documents against the schema they were
// generated from.
type Validator struct {
	schema *ast.Schema
}

// NewValidator prepares a validator for graph by printing it as SDL and
// loading that back with gqlparser.
func NewValidator(graph *TypeGraph) (*Validator, error) {
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "introspected.graphql", Input: PrintSDL(graph)})
	if err != nil {
		return nil, &SchemaLoadError{Reason: "introspected schema does not round-trip through SDL", Err: err}
	}
	return &Validator{schema: schema}, nil
}

// Validate parses and validates doc, returning a *ValidationError when the
// schema rejects it.
func (v *Validator) Validate(doc *OperationDocument) error {
	_, errs := gqlparser.LoadQuery(v.schema, doc.String())
	if len(errs) > 0 {
		return &ValidationError{Operation: doc.Name, Err: errs}
	}
	return nil
}
