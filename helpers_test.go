package gqlopgen

import (
	"context"
	"testing"

	"github.com/llehouerou/gqlopgen/pkg/introspection"
)

// mustGraph loads a type graph from schema definition language.
func mustGraph(t *testing.T, sdl string) *TypeGraph {
	t.Helper()
	schema, err := ParseSDL("test.graphql", sdl)
	if err != nil {
		t.Fatalf("ParseSDL: %v", err)
	}
	graph, err := Load(schema)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return graph
}

// mustBuild generates the document for root field name of kind.
func mustBuild(t *testing.T, gen *Generator, kind OperationKind, name string) *OperationDocument {
	t.Helper()
	root := gen.graph.Root(kind)
	if root == nil {
		t.Fatalf("schema has no %s root", kind)
	}
	field := root.Field(name)
	if field == nil {
		t.Fatalf("%s root has no field %q", kind, name)
	}
	doc, err := gen.Build(kind, field)
	if err != nil {
		t.Fatalf("Build(%s, %s): %v", kind, name, err)
	}
	return doc
}

// staticSource serves a fixed introspection payload.
type staticSource struct {
	schema *introspection.Schema
	err    error
}

func (s staticSource) Introspect(context.Context) (*introspection.Schema, error) {
	return s.schema, s.err
}

func sdlSource(t *testing.T, sdl string) staticSource {
	t.Helper()
	schema, err := ParseSDL("test.graphql", sdl)
	if err != nil {
		t.Fatalf("ParseSDL: %v", err)
	}
	return staticSource{schema: schema}
}

func strPtr(s string) *string {
	return &s
}

const userSchema = `
type Query {
  user(id: ID!): User
}

type User {
  id: ID!
  name: String
  friends: [User!]
}
`
