package gqlopgen

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/llehouerou/gqlopgen/types"
)

// Generator builds operation documents from a loaded type graph.
type Generator struct {
	graph            *TypeGraph
	maxDepth         int
	skipRequiredArgs bool
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithMaxDepth sets the selection depth bound. Values below 1 are ignored.
func WithMaxDepth(depth int) GeneratorOption {
	return func(g *Generator) {
		if depth > 0 {
			g.maxDepth = depth
		}
	}
}

// WithSkipRequiredArgs leaves out nested fields that have a required
// argument, which could not be satisfied below the root field.
func WithSkipRequiredArgs(skip bool) GeneratorOption {
	return func(g *Generator) {
		g.skipRequiredArgs = skip
	}
}

// NewGenerator returns a generator over graph with the default depth bound.
func NewGenerator(graph *TypeGraph, options ...GeneratorOption) *Generator {
	g := &Generator{
		graph:    graph,
		maxDepth: types.DefaultMaxDepth,
	}
	for _, option := range options {
		option(g)
	}
	return g
}

// MaxDepth returns the selection depth bound in effect.
func (g *Generator) MaxDepth() int {
	return g.maxDepth
}

// VariableDefinition declares one operation variable.
type VariableDefinition struct {
	Name string
	Type TypeRef
}

// ArgumentBinding passes variable Variable to argument Name.
type ArgumentBinding struct {
	Name     string
	Variable string
}

// OperationDocument is the generated document for one root field.
type OperationDocument struct {
	Kind      OperationKind
	Name      string
	Variables []VariableDefinition
	Field     Selection
}

var invalidIdentChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// VariableName derives the variable bound to an argument. Characters that are
// not valid in a GraphQL name become underscores.
func VariableName(argument string) string {
	return invalidIdentChars.ReplaceAllString(argument, "_")
}

// OperationName returns the document name for a root field of kind.
func OperationName(kind OperationKind, field string) string {
	return string(kind) + "_" + field
}

// Build generates the document for root field field of the kind root type.
func (g *Generator) Build(kind OperationKind, field *FieldDef) (*OperationDocument, error) {
	doc := &OperationDocument{
		Kind: kind,
		Name: OperationName(kind, field.Name),
	}

	root := Selection{Kind: LeafSelection, Name: field.Name}
	used := make(map[string]bool, len(field.Args))
	for _, arg := range field.Args {
		if _, err := g.graph.Unwrap(arg.Type); err != nil {
			return nil, withContext(err, fmt.Sprintf("%s.%s(%s)", field.Owner, field.Name, arg.Name))
		}
		v := VariableName(arg.Name)
		for n := 2; used[v]; n++ {
			v = fmt.Sprintf("%s_%d", VariableName(arg.Name), n)
		}
		used[v] = true
		doc.Variables = append(doc.Variables, VariableDefinition{Name: v, Type: arg.Type})
		root.Arguments = append(root.Arguments, ArgumentBinding{Name: arg.Name, Variable: v})
	}

	u, err := g.graph.Unwrap(field.Type)
	if err != nil {
		return nil, withContext(err, field.Owner+"."+field.Name)
	}
	if !u.Bare.Kind.IsLeaf() {
		set, err := g.Synthesize(u.Bare, 1, EdgeSet{})
		if err != nil {
			return nil, fmt.Errorf("failed to synthesize selection for %s: %w", doc.Name, err)
		}
		root.Kind = FieldSelection
		root.SelectionSet = set
	}
	doc.Field = root
	return doc, nil
}

// String renders the document as GraphQL text, ending with a newline.
func (d *OperationDocument) String() string {
	var buf bytes.Buffer
	_, _ = d.WriteTo(&buf)
	return buf.String()
}

// WriteTo writes the document text to w.
func (d *OperationDocument) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	_, _ = io.WriteString(&buf, string(d.Kind))
	_, _ = io.WriteString(&buf, " ")
	_, _ = io.WriteString(&buf, d.Name)
	writeVariableDefinitions(&buf, d.Variables)
	_, _ = io.WriteString(&buf, " {\n")
	writeSelection(&buf, d.Field, 1)
	_, _ = io.WriteString(&buf, "}\n")
	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// writeVariableDefinitions writes "($a: Int!, $b: [ID!])", or nothing when
// there are no variables.
func writeVariableDefinitions(w io.Writer, vars []VariableDefinition) {
	if len(vars) == 0 {
		return
	}
	_, _ = io.WriteString(w, "(")
	for i, v := range vars {
		if i != 0 {
			_, _ = io.WriteString(w, ", ")
		}
		_, _ = io.WriteString(w, types.VariablePrefix)
		_, _ = io.WriteString(w, v.Name)
		_, _ = io.WriteString(w, ": ")
		_, _ = io.WriteString(w, v.Type.String())
	}
	_, _ = io.WriteString(w, ")")
}

func writeArguments(w io.Writer, args []ArgumentBinding) {
	if len(args) == 0 {
		return
	}
	_, _ = io.WriteString(w, "(")
	for i, a := range args {
		if i != 0 {
			_, _ = io.WriteString(w, ", ")
		}
		_, _ = io.WriteString(w, a.Name)
		_, _ = io.WriteString(w, ": ")
		_, _ = io.WriteString(w, types.VariablePrefix)
		_, _ = io.WriteString(w, a.Variable)
	}
	_, _ = io.WriteString(w, ")")
}

// writeSelection writes one selection at the given indentation level.
func writeSelection(w io.Writer, s Selection, level int) {
	indent := strings.Repeat("  ", level)
	_, _ = io.WriteString(w, indent)
	switch s.Kind {
	case InlineFragment:
		_, _ = io.WriteString(w, types.FragmentOnPrefix)
		_, _ = io.WriteString(w, s.TypeCondition)
	default:
		_, _ = io.WriteString(w, s.Name)
		writeArguments(w, s.Arguments)
	}
	if s.Kind == LeafSelection {
		_, _ = io.WriteString(w, "\n")
		return
	}
	_, _ = io.WriteString(w, " {\n")
	for _, child := range s.SelectionSet {
		writeSelection(w, child, level+1)
	}
	_, _ = io.WriteString(w, indent)
	_, _ = io.WriteString(w, "}\n")
}

// String renders the set on one line, e.g. "id name friends { id __typename } __typename".
func (s SelectionSet) String() string {
	var b strings.Builder
	for i, sel := range s {
		if i != 0 {
			b.WriteString(" ")
		}
		switch sel.Kind {
		case InlineFragment:
			b.WriteString(types.FragmentOnPrefix)
			b.WriteString(sel.TypeCondition)
		default:
			b.WriteString(sel.Name)
			writeArguments(&b, sel.Arguments)
		}
		if sel.Kind != LeafSelection {
			b.WriteString(" { ")
			b.WriteString(sel.SelectionSet.String())
			b.WriteString(" }")
		}
	}
	return b.String()
}
