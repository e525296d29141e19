package gqlopgen

import (
	"context"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/llehouerou/gqlopgen/pkg/introspection"
	"github.com/llehouerou/gqlopgen/types"
)

// builtinScalars are provided by every GraphQL implementation and are never
// printed.
var builtinScalars = map[string]bool{
	"String":  true,
	"Int":     true,
	"Float":   true,
	"Boolean": true,
	"ID":      true,
}

// PrintSDL renders the graph as schema definition language, in declaration
// order. Built-in scalars, introspection types and directives are left out.
func PrintSDL(g *TypeGraph) string {
	var b strings.Builder
	writeSchemaDefinition(&b, g)
	for _, t := range g.Types() {
		if builtinScalars[t.Name] || strings.HasPrefix(t.Name, types.MetaFieldPrefix) {
			continue
		}
		b.WriteString("\n")
		writeTypeDefinition(&b, t)
	}
	return b.String()
}

func writeSchemaDefinition(w io.StringWriter, g *TypeGraph) {
	_, _ = w.WriteString("schema {\n")
	for _, kind := range g.RootKinds() {
		_, _ = w.WriteString("  " + string(kind) + ": " + g.Root(kind).Name + "\n")
	}
	_, _ = w.WriteString("}\n")
}

func writeTypeDefinition(w io.StringWriter, t *NamedType) {
	switch t.Kind {
	case Scalar:
		_, _ = w.WriteString("scalar " + t.Name + "\n")
	case Enum:
		_, _ = w.WriteString("enum " + t.Name + " {\n")
		for _, v := range t.EnumValues {
			_, _ = w.WriteString("  " + v + "\n")
		}
		_, _ = w.WriteString("}\n")
	case Union:
		_, _ = w.WriteString("union " + t.Name + " = " + strings.Join(t.PossibleTypes, " | ") + "\n")
	case InputObject:
		_, _ = w.WriteString("input " + t.Name + " {\n")
		for _, f := range t.InputFields {
			_, _ = w.WriteString("  ")
			writeInputValue(w, f)
			_, _ = w.WriteString("\n")
		}
		_, _ = w.WriteString("}\n")
	case Object, Interface:
		keyword := "type "
		if t.Kind == Interface {
			keyword = "interface "
		}
		_, _ = w.WriteString(keyword + t.Name)
		if len(t.Interfaces) > 0 {
			_, _ = w.WriteString(" implements " + strings.Join(t.Interfaces, " & "))
		}
		_, _ = w.WriteString(" {\n")
		for _, f := range t.Fields {
			_, _ = w.WriteString("  " + f.Name)
			if len(f.Args) > 0 {
				_, _ = w.WriteString("(")
				for i, a := range f.Args {
					if i != 0 {
						_, _ = w.WriteString(", ")
					}
					writeInputValue(w, a)
				}
				_, _ = w.WriteString(")")
			}
			_, _ = w.WriteString(": " + f.Type.String() + "\n")
		}
		_, _ = w.WriteString("}\n")
	}
}

func writeInputValue(w io.StringWriter, a *ArgumentDef) {
	_, _ = w.WriteString(a.Name + ": " + a.Type.String())
	if a.DefaultValue != nil {
		_, _ = w.WriteString(" = " + *a.DefaultValue)
	}
}

// SDLSource reads a schema definition file and presents it as an
// introspection payload, so offline generation goes through the same graph
// loading as a live endpoint.
type SDLSource struct {
	Path string
}

// Introspect parses the file.
func (s SDLSource) Introspect(_ context.Context) (*introspection.Schema, error) {
	input, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, &IntrospectionError{Endpoint: s.Path, Err: err}
	}
	return ParseSDL(s.Path, string(input))
}

// ParseSDL parses schema definition language into an introspection payload.
func ParseSDL(name, input string) (*introspection.Schema, error) {
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: name, Input: input})
	if err != nil {
		return nil, &SchemaLoadError{Reason: "parse " + name, Err: err}
	}
	return fromASTSchema(schema), nil
}

func fromASTSchema(schema *ast.Schema) *introspection.Schema {
	out := &introspection.Schema{
		QueryType:        rootTypeName(schema.Query),
		MutationType:     rootTypeName(schema.Mutation),
		SubscriptionType: rootTypeName(schema.Subscription),
	}

	names := make([]string, 0, len(schema.Types))
	for name := range schema.Types {
		names = append(names, name)
	}
	sort.Strings(names)

	kindOf := func(name string) string {
		if def := schema.Types[name]; def != nil {
			return string(def.Kind)
		}
		return types.KindScalar
	}

	for _, name := range names {
		def := schema.Types[name]
		ft := introspection.FullType{Kind: string(def.Kind), Name: def.Name}
		switch def.Kind {
		case ast.Object, ast.Interface:
			for _, f := range def.Fields {
				if strings.HasPrefix(f.Name, types.MetaFieldPrefix) {
					continue
				}
				field := introspection.Field{
					Name: f.Name,
					Type: fromASTType(f.Type, kindOf),
				}
				for _, a := range f.Arguments {
					field.Args = append(field.Args, fromASTArgument(a.Name, a.Type, a.DefaultValue, kindOf))
				}
				ft.Fields = append(ft.Fields, field)
			}
			for _, i := range def.Interfaces {
				ft.Interfaces = append(ft.Interfaces, introspection.Named(types.KindInterface, i))
			}
		case ast.InputObject:
			for _, f := range def.Fields {
				ft.InputFields = append(ft.InputFields, fromASTArgument(f.Name, f.Type, f.DefaultValue, kindOf))
			}
		case ast.Union:
			for _, member := range def.Types {
				ft.PossibleTypes = append(ft.PossibleTypes, introspection.Named(types.KindObject, member))
			}
		case ast.Enum:
			for _, v := range def.EnumValues {
				ft.EnumValues = append(ft.EnumValues, introspection.EnumValue{Name: v.Name})
			}
		}
		out.Types = append(out.Types, ft)
	}
	return out
}

func rootTypeName(def *ast.Definition) *introspection.TypeName {
	if def == nil {
		return nil
	}
	return &introspection.TypeName{Name: def.Name}
}

func fromASTArgument(name string, t *ast.Type, def *ast.Value, kindOf func(string) string) introspection.InputValue {
	v := introspection.InputValue{Name: name, Type: fromASTType(t, kindOf)}
	if def != nil {
		s := def.String()
		v.DefaultValue = &s
	}
	return v
}

func fromASTType(t *ast.Type, kindOf func(string) string) introspection.TypeRef {
	var ref introspection.TypeRef
	if t.Elem != nil {
		ref = introspection.List(fromASTType(t.Elem, kindOf))
	} else {
		ref = introspection.Named(kindOf(t.NamedType), t.NamedType)
	}
	if t.NonNull {
		return introspection.NonNull(ref)
	}
	return ref
}
