package gqlopgen

import (
	"fmt"
	"strings"

	"github.com/llehouerou/gqlopgen/pkg/introspection"
	"github.com/llehouerou/gqlopgen/types"
)

// Kind is the kind of a named schema type.
type Kind string

const (
	Scalar      Kind = types.KindScalar
	Enum        Kind = types.KindEnum
	Object      Kind = types.KindObject
	Interface   Kind = types.KindInterface
	Union       Kind = types.KindUnion
	InputObject Kind = types.KindInputObject
)

// IsLeaf reports whether values of the kind are selected without a nested
// selection set.
func (k Kind) IsLeaf() bool {
	return k == Scalar || k == Enum
}

// IsComposite reports whether the kind takes a nested selection set.
func (k Kind) IsComposite() bool {
	return k == Object || k == Interface || k == Union
}

// Modifier is a wrapper layer around a named type.
type Modifier uint8

const (
	List Modifier = iota + 1
	NonNull
)

// TypeRef is a type as it appears in a field or argument position: a named
// type wrapped in zero or more modifiers, outermost first.
type TypeRef struct {
	Modifiers []Modifier
	Named     string
}

// String renders the reference in GraphQL notation, e.g. "[ID!]!".
func (r TypeRef) String() string {
	var b strings.Builder
	r.write(&b, 0)
	return b.String()
}

func (r TypeRef) write(b *strings.Builder, i int) {
	if i == len(r.Modifiers) {
		b.WriteString(r.Named)
		return
	}
	switch r.Modifiers[i] {
	case List:
		b.WriteString("[")
		r.write(b, i+1)
		b.WriteString("]")
	case NonNull:
		r.write(b, i+1)
		b.WriteString("!")
	}
}

// IsNonNull reports whether the outermost layer is NON_NULL.
func (r TypeRef) IsNonNull() bool {
	return len(r.Modifiers) > 0 && r.Modifiers[0] == NonNull
}

// newTypeRef flattens an introspection type reference. Malformed nesting is
// rejected here so that unwrapping never fails on structure.
func newTypeRef(ref introspection.TypeRef) (TypeRef, error) {
	var out TypeRef
	cur := &ref
	for {
		switch cur.Kind {
		case types.KindList, types.KindNonNull:
			if cur.OfType == nil {
				return TypeRef{}, fmt.Errorf("%s wrapper without inner type", cur.Kind)
			}
			if cur.Kind == types.KindNonNull {
				if cur.OfType.Kind == types.KindNonNull {
					return TypeRef{}, fmt.Errorf("NON_NULL directly wraps NON_NULL")
				}
				out.Modifiers = append(out.Modifiers, NonNull)
			} else {
				out.Modifiers = append(out.Modifiers, List)
			}
			cur = cur.OfType
		case types.KindScalar, types.KindEnum, types.KindObject,
			types.KindInterface, types.KindUnion, types.KindInputObject:
			if cur.Name == nil || *cur.Name == "" {
				return TypeRef{}, fmt.Errorf("%s reference without a name", cur.Kind)
			}
			out.Named = *cur.Name
			return out, nil
		default:
			return TypeRef{}, fmt.Errorf("unknown type reference kind %q", cur.Kind)
		}
	}
}

// ArgumentDef is a field argument or an input object field.
type ArgumentDef struct {
	Name         string
	Type         TypeRef
	DefaultValue *string
}

// IsRequired reports whether a value must be supplied for the argument.
func (a *ArgumentDef) IsRequired() bool {
	return a.Type.IsNonNull() && a.DefaultValue == nil
}

// FieldDef is a field of an object or interface type.
type FieldDef struct {
	Owner string
	Name  string
	Type  TypeRef
	Args  []*ArgumentDef
}

// HasRequiredArgs reports whether any argument must be supplied.
func (f *FieldDef) HasRequiredArgs() bool {
	for _, a := range f.Args {
		if a.IsRequired() {
			return true
		}
	}
	return false
}

// NamedType is a type declared by the schema. It is immutable once the
// graph is loaded.
type NamedType struct {
	Name          string
	Kind          Kind
	Fields        []*FieldDef
	InputFields   []*ArgumentDef
	Interfaces    []string
	PossibleTypes []string
	EnumValues    []string

	fieldIndex map[string]*FieldDef
}

// Field returns the field named name, or nil.
func (t *NamedType) Field(name string) *FieldDef {
	return t.fieldIndex[name]
}

// OperationKind is the root operation a document is issued as.
type OperationKind string

const (
	Query        OperationKind = "query"
	Mutation     OperationKind = "mutation"
	Subscription OperationKind = "subscription"
)

// OperationKinds lists the root operation kinds in emission order.
var OperationKinds = []OperationKind{Query, Mutation, Subscription}

// TypeGraph is the in-memory schema built from one introspection payload.
type TypeGraph struct {
	types map[string]*NamedType
	order []*NamedType
	roots map[OperationKind]*NamedType
}

// Load builds a type graph. The payload must name a query root that is
// present in its type list; mutation and subscription roots are optional but
// must resolve when named.
func Load(schema *introspection.Schema) (*TypeGraph, error) {
	if schema == nil {
		return nil, &SchemaLoadError{Reason: "introspection payload is empty"}
	}
	if schema.QueryType.RootName() == "" {
		return nil, &SchemaLoadError{Reason: "introspection payload has no query root"}
	}

	g := &TypeGraph{
		types: make(map[string]*NamedType, len(schema.Types)),
		order: make([]*NamedType, 0, len(schema.Types)),
		roots: make(map[OperationKind]*NamedType, len(OperationKinds)),
	}
	for i := range schema.Types {
		t, err := newNamedType(&schema.Types[i])
		if err != nil {
			return nil, err
		}
		if _, dup := g.types[t.Name]; dup {
			return nil, &SchemaLoadError{Reason: fmt.Sprintf("type %q declared twice", t.Name)}
		}
		g.types[t.Name] = t
		g.order = append(g.order, t)
	}

	rootNames := map[OperationKind]string{
		Query:        schema.QueryType.RootName(),
		Mutation:     schema.MutationType.RootName(),
		Subscription: schema.SubscriptionType.RootName(),
	}
	for _, kind := range OperationKinds {
		name := rootNames[kind]
		if name == "" {
			continue
		}
		root, ok := g.types[name]
		if !ok {
			return nil, &SchemaLoadError{Reason: fmt.Sprintf("%s root type %q is not in the type list", kind, name)}
		}
		if root.Kind != Object {
			return nil, &SchemaLoadError{Reason: fmt.Sprintf("%s root type %q is a %s, not an object", kind, name, root.Kind)}
		}
		g.roots[kind] = root
	}
	return g, nil
}

func newNamedType(in *introspection.FullType) (*NamedType, error) {
	if in.Name == "" {
		return nil, &SchemaLoadError{Reason: fmt.Sprintf("%s type without a name", in.Kind)}
	}
	t := &NamedType{
		Name: in.Name,
		Kind: Kind(in.Kind),
	}
	switch t.Kind {
	case Scalar, Enum, Object, Interface, Union, InputObject:
	default:
		return nil, &SchemaLoadError{Reason: fmt.Sprintf("type %q has unknown kind %q", in.Name, in.Kind)}
	}

	t.fieldIndex = make(map[string]*FieldDef, len(in.Fields))
	for _, f := range in.Fields {
		ref, err := newTypeRef(f.Type)
		if err != nil {
			return nil, &SchemaLoadError{Reason: fmt.Sprintf("field %s.%s", in.Name, f.Name), Err: err}
		}
		args, err := newArguments(in.Name+"."+f.Name, f.Args)
		if err != nil {
			return nil, err
		}
		fd := &FieldDef{Owner: in.Name, Name: f.Name, Type: ref, Args: args}
		t.Fields = append(t.Fields, fd)
		t.fieldIndex[f.Name] = fd
	}

	inputs, err := newArguments(in.Name, in.InputFields)
	if err != nil {
		return nil, err
	}
	t.InputFields = inputs

	for _, ref := range in.Interfaces {
		if ref.Name != nil {
			t.Interfaces = append(t.Interfaces, *ref.Name)
		}
	}
	for _, ref := range in.PossibleTypes {
		if ref.Name != nil {
			t.PossibleTypes = append(t.PossibleTypes, *ref.Name)
		}
	}
	for _, v := range in.EnumValues {
		t.EnumValues = append(t.EnumValues, v.Name)
	}
	return t, nil
}

func newArguments(owner string, in []introspection.InputValue) ([]*ArgumentDef, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]*ArgumentDef, 0, len(in))
	for _, v := range in {
		ref, err := newTypeRef(v.Type)
		if err != nil {
			return nil, &SchemaLoadError{Reason: fmt.Sprintf("argument %s(%s)", owner, v.Name), Err: err}
		}
		out = append(out, &ArgumentDef{Name: v.Name, Type: ref, DefaultValue: v.DefaultValue})
	}
	return out, nil
}

// Lookup returns the named type, or nil.
func (g *TypeGraph) Lookup(name string) *NamedType {
	return g.types[name]
}

// Types returns every named type in declaration order.
func (g *TypeGraph) Types() []*NamedType {
	return g.order
}

// Root returns the root type for kind, or nil when the schema has none.
func (g *TypeGraph) Root(kind OperationKind) *NamedType {
	return g.roots[kind]
}

// RootKinds returns the operation kinds the schema exposes, in emission order.
func (g *TypeGraph) RootKinds() []OperationKind {
	kinds := make([]OperationKind, 0, len(OperationKinds))
	for _, k := range OperationKinds {
		if g.roots[k] != nil {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Unwrapped is a type reference with its modifiers stripped.
type Unwrapped struct {
	Bare *NamedType
	// IsList is true when any LIST layer was present.
	IsList bool
	// IsNonNull is true when the outermost layer was NON_NULL.
	IsNonNull bool
}

// Unwrap strips list and non-null modifiers from ref. The only failure is a
// name the graph does not declare.
func (g *TypeGraph) Unwrap(ref TypeRef) (Unwrapped, error) {
	bare, ok := g.types[ref.Named]
	if !ok {
		return Unwrapped{}, &UnknownTypeError{Name: ref.Named}
	}
	u := Unwrapped{Bare: bare, IsNonNull: ref.IsNonNull()}
	for _, m := range ref.Modifiers {
		if m == List {
			u.IsList = true
			break
		}
	}
	return u, nil
}
