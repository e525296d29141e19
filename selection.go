package gqlopgen

import (
	"fmt"
	"strings"

	"github.com/llehouerou/gqlopgen/types"
)

// SelectionKind tells the three selection shapes apart.
type SelectionKind uint8

const (
	// LeafSelection is a field selected by name only.
	LeafSelection SelectionKind = iota
	// FieldSelection is a field with a nested selection set.
	FieldSelection
	// InlineFragment is "... on Type { ... }", used for union members.
	InlineFragment
)

// Selection is one node of a generated selection set.
type Selection struct {
	Kind          SelectionKind
	Name          string
	TypeCondition string
	Arguments     []ArgumentBinding
	SelectionSet  SelectionSet
}

// SelectionSet is an ordered list of selections.
type SelectionSet []Selection

// Leaf returns a leaf selection of name.
func Leaf(name string) Selection {
	return Selection{Kind: LeafSelection, Name: name}
}

// Composite returns a field selection with a nested set.
func Composite(name string, set SelectionSet) Selection {
	return Selection{Kind: FieldSelection, Name: name, SelectionSet: set}
}

// Fragment returns an inline fragment on typeCondition.
func Fragment(typeCondition string, set SelectionSet) Selection {
	return Selection{Kind: InlineFragment, TypeCondition: typeCondition, SelectionSet: set}
}

// VisitedEdge identifies one traversal step: field Field of Owner leading to
// Target.
type VisitedEdge struct {
	Owner  string
	Field  string
	Target string
}

func (e VisitedEdge) String() string {
	return fmt.Sprintf("(%s, %s) -> %s", e.Owner, e.Field, e.Target)
}

// EdgeSet is the set of edges on the current path from the root field.
type EdgeSet map[VisitedEdge]struct{}

// Has reports whether e is on the path.
func (s EdgeSet) Has(e VisitedEdge) bool {
	_, ok := s[e]
	return ok
}

// With returns a copy of s extended with e. The receiver is not modified, so
// sibling branches never observe each other's edges.
func (s EdgeSet) With(e VisitedEdge) EdgeSet {
	out := make(EdgeSet, len(s)+1)
	for k := range s {
		out[k] = struct{}{}
	}
	out[e] = struct{}{}
	return out
}

// isPaginationType reports types the synthesizer leaves out entirely: their
// useful selection needs edges/node traversal that is not attempted.
func isPaginationType(name string) bool {
	return name == types.PageInfoType ||
		strings.HasSuffix(name, types.ConnectionSuffix) ||
		strings.HasSuffix(name, types.EdgeSuffix)
}

// Synthesize builds the selection set for a composite type. depth is the
// nesting level of the set being built (1 for the root field's body);
// visited holds the edges of the current path. Composite fields found at
// depth maxDepth get the fallback selection, so no document nests composite
// fields more than maxDepth levels below the root field.
func (g *Generator) Synthesize(t *NamedType, depth int, visited EdgeSet) (SelectionSet, error) {
	switch t.Kind {
	case Object, Interface:
		return g.synthesizeFields(t, depth, visited)
	case Union:
		return g.synthesizeUnion(t, depth, visited)
	}
	return nil, fmt.Errorf("cannot synthesize a selection set for %s %s", t.Kind, t.Name)
}

func (g *Generator) synthesizeFields(t *NamedType, depth int, visited EdgeSet) (SelectionSet, error) {
	set := make(SelectionSet, 0, len(t.Fields)+1)
	for _, f := range t.Fields {
		if strings.HasPrefix(f.Name, types.MetaFieldPrefix) {
			continue
		}
		if g.skipRequiredArgs && f.HasRequiredArgs() {
			continue
		}
		u, err := g.graph.Unwrap(f.Type)
		if err != nil {
			return nil, withContext(err, t.Name+"."+f.Name)
		}
		if u.Bare.Kind.IsLeaf() {
			set = append(set, Leaf(f.Name))
			continue
		}
		if !u.Bare.Kind.IsComposite() || isPaginationType(u.Bare.Name) {
			continue
		}

		edge := VisitedEdge{Owner: t.Name, Field: f.Name, Target: u.Bare.Name}
		if visited.Has(edge) {
			continue
		}
		if depth >= g.maxDepth {
			set = append(set, Composite(f.Name, g.fallbackSelection(u.Bare)))
			continue
		}
		nested, err := g.Synthesize(u.Bare, depth+1, visited.With(edge))
		if err != nil {
			return nil, err
		}
		set = append(set, Composite(f.Name, nested))
	}
	return append(set, Leaf(types.TypenameField)), nil
}

func (g *Generator) synthesizeUnion(t *NamedType, depth int, visited EdgeSet) (SelectionSet, error) {
	set := make(SelectionSet, 0, len(t.PossibleTypes)+1)
	for _, name := range t.PossibleTypes {
		member := g.graph.Lookup(name)
		if member == nil {
			return nil, &UnknownTypeError{Name: name, Context: "union " + t.Name}
		}
		nested, err := g.Synthesize(member, depth+1, visited)
		if err != nil {
			return nil, err
		}
		set = append(set, Fragment(member.Name, nested))
	}
	return append(set, Leaf(types.TypenameField)), nil
}

// fallbackSelection is what a composite field gets once the depth bound is
// passed: its identifier, when it has a scalar one, and the typename.
func (g *Generator) fallbackSelection(t *NamedType) SelectionSet {
	if f := t.Field(types.IDField); f != nil {
		if u, err := g.graph.Unwrap(f.Type); err == nil && u.Bare.Kind.IsLeaf() && !u.IsList {
			return SelectionSet{Leaf(types.IDField), Leaf(types.TypenameField)}
		}
	}
	return SelectionSet{Leaf(types.TypenameField)}
}

func withContext(err error, context string) error {
	if ute, ok := err.(*UnknownTypeError); ok && ute.Context == "" {
		return &UnknownTypeError{Name: ute.Name, Context: context}
	}
	return err
}
