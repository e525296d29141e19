package gqlopgen

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/llehouerou/gqlopgen/pkg/introspection"
	"github.com/llehouerou/gqlopgen/types"
)

func TestBuild_userQuery(t *testing.T) {
	gen := NewGenerator(mustGraph(t, userSchema), WithMaxDepth(2))
	doc := mustBuild(t, gen, Query, "user")

	want := `query query_user($id: ID!) {
  user(id: $id) {
    id
    name
    friends {
      id
      name
      __typename
    }
    __typename
  }
}
`
	if got := doc.String(); got != want {
		t.Errorf("document mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestBuild_variablesMirrorArguments(t *testing.T) {
	gen := NewGenerator(mustGraph(t, `
type Query { ping: String }
type Mutation {
  archiveOrders(ids: [ID!]!, filter: OrderFilter, limit: Int = 10): [Order!]!
}
input OrderFilter { status: String }
type Order { id: ID! }
`))
	doc := mustBuild(t, gen, Mutation, "archiveOrders")

	if doc.Name != "mutation_archiveOrders" {
		t.Errorf("got name %q, want mutation_archiveOrders", doc.Name)
	}
	var vars []string
	for _, v := range doc.Variables {
		vars = append(vars, v.Name+": "+v.Type.String())
	}
	if diff := cmp.Diff([]string{"ids: [ID!]!", "filter: OrderFilter", "limit: Int"}, vars); diff != "" {
		t.Errorf("variables mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]ArgumentBinding{
		{Name: "ids", Variable: "ids"},
		{Name: "filter", Variable: "filter"},
		{Name: "limit", Variable: "limit"},
	}, doc.Field.Arguments); diff != "" {
		t.Errorf("arguments mismatch (-want +got):\n%s", diff)
	}

	want := `mutation mutation_archiveOrders($ids: [ID!]!, $filter: OrderFilter, $limit: Int) {
  archiveOrders(ids: $ids, filter: $filter, limit: $limit) {
    id
    __typename
  }
}
`
	if got := doc.String(); got != want {
		t.Errorf("document mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestBuild_leafRootField(t *testing.T) {
	gen := NewGenerator(mustGraph(t, `
type Query { hello: String }
type Subscription { ticks(every: Int!): Int! }
`))
	tests := []struct {
		kind  OperationKind
		field string
		want  string
	}{
		{Query, "hello", "query query_hello {\n  hello\n}\n"},
		{Subscription, "ticks", "subscription subscription_ticks($every: Int!) {\n  ticks(every: $every)\n}\n"},
	}
	for _, tc := range tests {
		doc := mustBuild(t, gen, tc.kind, tc.field)
		if got := doc.String(); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.field, got, tc.want)
		}
	}
}

func TestBuild_union(t *testing.T) {
	gen := NewGenerator(mustGraph(t, searchSchema), WithMaxDepth(2))
	doc := mustBuild(t, gen, Query, "search")

	want := `query query_search($term: String!) {
  search(term: $term) {
    ... on Sample {
      id
      code
      order {
        id
        __typename
      }
      __typename
    }
    ... on Order {
      id
      total
      sample {
        id
        __typename
      }
      __typename
    }
    ... on Company {
      id
      name
      __typename
    }
    __typename
  }
}
`
	if got := doc.String(); got != want {
		t.Errorf("document mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestBuild_unknownResultType(t *testing.T) {
	graph, err := Load(&introspection.Schema{
		QueryType: &introspection.TypeName{Name: "Query"},
		Types: []introspection.FullType{
			{Kind: types.KindObject, Name: "Query", Fields: []introspection.Field{
				{Name: "ghost", Type: introspection.NonNull(objectRef("Ghost"))},
			}},
		},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	_, err = NewGenerator(graph).Build(Query, graph.Root(Query).Field("ghost"))
	var unknown *UnknownTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("got %v, want *UnknownTypeError", err)
	}
	if unknown.Name != "Ghost" || unknown.Context != "Query.ghost" {
		t.Errorf("got %+v, want Ghost in Query.ghost", unknown)
	}
}

func TestBuild_unknownNestedType(t *testing.T) {
	graph, err := Load(&introspection.Schema{
		QueryType: &introspection.TypeName{Name: "Query"},
		Types: []introspection.FullType{
			{Kind: types.KindObject, Name: "Query", Fields: []introspection.Field{
				{Name: "user", Type: objectRef("User")},
			}},
			{Kind: types.KindObject, Name: "User", Fields: []introspection.Field{
				{Name: "avatar", Type: objectRef("Image")},
			}},
		},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	_, err = NewGenerator(graph).Build(Query, graph.Root(Query).Field("user"))
	var unknown *UnknownTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("got %v, want *UnknownTypeError", err)
	}
	if unknown.Context != "User.avatar" {
		t.Errorf("got context %q, want User.avatar", unknown.Context)
	}
}

func TestBuild_sanitizedVariableNamesStayDistinct(t *testing.T) {
	graph, err := Load(&introspection.Schema{
		QueryType: &introspection.TypeName{Name: "Query"},
		Types: []introspection.FullType{
			{Kind: types.KindObject, Name: "Query", Fields: []introspection.Field{
				{Name: "lookup", Type: scalarRef("String"), Args: []introspection.InputValue{
					{Name: "a-b", Type: scalarRef("String")},
					{Name: "a_b", Type: introspection.NonNull(scalarRef("Int"))},
					{Name: "a.b", Type: scalarRef("ID")},
				}},
			}},
			{Kind: types.KindScalar, Name: "String"},
			{Kind: types.KindScalar, Name: "Int"},
			{Kind: types.KindScalar, Name: "ID"},
		},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	doc := mustBuild(t, NewGenerator(graph), Query, "lookup")

	want := "query query_lookup($a_b: String, $a_b_2: Int!, $a_b_3: ID) {\n  lookup(a-b: $a_b, a_b: $a_b_2, a.b: $a_b_3)\n}\n"
	if got := doc.String(); got != want {
		t.Errorf("document mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestVariableName(t *testing.T) {
	tests := map[string]string{
		"id":         "id",
		"first_name": "first_name",
		"foo-bar":    "foo_bar",
		"a.b c":      "a_b_c",
		"ünicode":    "_nicode",
	}
	for in, want := range tests {
		if got := VariableName(in); got != want {
			t.Errorf("VariableName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOperationName(t *testing.T) {
	if got := OperationName(Mutation, "orderCreate"); got != "mutation_orderCreate" {
		t.Errorf("got %q, want mutation_orderCreate", got)
	}
}

func TestNewGenerator_depth(t *testing.T) {
	graph := mustGraph(t, userSchema)
	tests := []struct {
		options []GeneratorOption
		want    int
	}{
		{nil, types.DefaultMaxDepth},
		{[]GeneratorOption{WithMaxDepth(5)}, 5},
		{[]GeneratorOption{WithMaxDepth(0)}, types.DefaultMaxDepth},
		{[]GeneratorOption{WithMaxDepth(-2)}, types.DefaultMaxDepth},
	}
	for _, tc := range tests {
		if got := NewGenerator(graph, tc.options...).MaxDepth(); got != tc.want {
			t.Errorf("got depth %d, want %d", got, tc.want)
		}
	}
}

func TestOperationDocument_WriteTo(t *testing.T) {
	doc := mustBuild(t, NewGenerator(mustGraph(t, userSchema)), Query, "user")
	var buf bytes.Buffer
	n, err := doc.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if int(n) != buf.Len() || buf.String() != doc.String() {
		t.Errorf("WriteTo wrote %d bytes %q, want %q", n, buf.String(), doc.String())
	}
}
