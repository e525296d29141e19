// Package introspection holds the wire shapes of a GraphQL introspection
// response and the query that produces them.
package introspection

import (
	"github.com/llehouerou/gqlopgen/types"
)

// Response is the body a GraphQL endpoint answers to the introspection query.
type Response struct {
	Data *Data `json:"data"`
}

// Data holds the __schema field.
type Data struct {
	Schema *Schema `json:"__schema"`
}

// Schema is the GraphQL schema as returned by introspection.
type Schema struct {
	QueryType        *TypeName  `json:"queryType"`
	MutationType     *TypeName  `json:"mutationType"`
	SubscriptionType *TypeName  `json:"subscriptionType"`
	Types            []FullType `json:"types"`
}

// TypeName is a simple name reference.
type TypeName struct {
	Name string `json:"name"`
}

// FullType represents a complete GraphQL type definition.
type FullType struct {
	Kind          string       `json:"kind"`
	Name          string       `json:"name"`
	Description   string       `json:"description,omitempty"`
	Fields        []Field      `json:"fields,omitempty"`
	InputFields   []InputValue `json:"inputFields,omitempty"`
	Interfaces    []TypeRef    `json:"interfaces,omitempty"`
	EnumValues    []EnumValue  `json:"enumValues,omitempty"`
	PossibleTypes []TypeRef    `json:"possibleTypes,omitempty"`
}

// Field represents a field on an object or interface type.
type Field struct {
	Name              string       `json:"name"`
	Description       string       `json:"description,omitempty"`
	Args              []InputValue `json:"args"`
	Type              TypeRef      `json:"type"`
	IsDeprecated      bool         `json:"isDeprecated"`
	DeprecationReason string       `json:"deprecationReason,omitempty"`
}

// InputValue represents an argument or input field.
type InputValue struct {
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Type         TypeRef `json:"type"`
	DefaultValue *string `json:"defaultValue,omitempty"`
}

// TypeRef is a recursive type reference (handles NON_NULL, LIST wrappers).
type TypeRef struct {
	Kind   string   `json:"kind"`
	Name   *string  `json:"name,omitempty"`
	OfType *TypeRef `json:"ofType,omitempty"`
}

// EnumValue represents a value in an enum type.
type EnumValue struct {
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	IsDeprecated      bool   `json:"isDeprecated"`
	DeprecationReason string `json:"deprecationReason,omitempty"`
}

// Named returns a reference to the named type n.
func Named(kind, n string) TypeRef {
	return TypeRef{Kind: kind, Name: &n}
}

// NonNull wraps of in a NON_NULL layer.
func NonNull(of TypeRef) TypeRef {
	return TypeRef{Kind: types.KindNonNull, OfType: &of}
}

// List wraps of in a LIST layer.
func List(of TypeRef) TypeRef {
	return TypeRef{Kind: types.KindList, OfType: &of}
}

// GetTypeName returns the full type name including wrappers (e.g., "[String!]!").
func (t TypeRef) GetTypeName() string {
	switch t.Kind {
	case types.KindNonNull:
		if t.OfType != nil {
			return t.OfType.GetTypeName() + "!"
		}
	case types.KindList:
		if t.OfType != nil {
			return "[" + t.OfType.GetTypeName() + "]"
		}
	default:
		if t.Name != nil {
			return *t.Name
		}
	}
	return "Unknown"
}

// RootName returns the name of the root type, or "" when r is nil.
func (r *TypeName) RootName() string {
	if r == nil {
		return ""
	}
	return r.Name
}
