package introspection

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Query is the full GraphQL introspection query. Type references are
// followed eight levels deep, enough for shapes like [[T!]!]!.
const Query = `query IntrospectionQuery {
  __schema {
    queryType { name }
    mutationType { name }
    subscriptionType { name }
    types {
      ...FullType
    }
  }
}

fragment FullType on __Type {
  kind
  name
  description
  fields(includeDeprecated: true) {
    name
    description
    args {
      ...InputValue
    }
    type {
      ...TypeRef
    }
    isDeprecated
    deprecationReason
  }
  inputFields {
    ...InputValue
  }
  interfaces {
    ...TypeRef
  }
  enumValues(includeDeprecated: true) {
    name
    description
    isDeprecated
    deprecationReason
  }
  possibleTypes {
    ...TypeRef
  }
}

fragment InputValue on __InputValue {
  name
  description
  type {
    ...TypeRef
  }
  defaultValue
}

fragment TypeRef on __Type {
  kind
  name
  ofType {
    kind
    name
    ofType {
      kind
      name
      ofType {
        kind
        name
        ofType {
          kind
          name
          ofType {
            kind
            name
            ofType {
              kind
              name
              ofType {
                kind
                name
              }
            }
          }
        }
      }
    }
  }
}
`

// ErrNoSchema is returned when a payload carries no __schema object.
var ErrNoSchema = errors.New("payload has no __schema")

// ParseSchema extracts the schema from an introspection payload. Both the
// full response shape ({"data":{"__schema":...}}) and the bare data shape
// ({"__schema":...}) are accepted, since schema dumps circulate in both.
func ParseSchema(payload []byte) (*Schema, error) {
	var envelope struct {
		Data   *Data   `json:"data"`
		Schema *Schema `json:"__schema"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode introspection payload: %w", err)
	}
	switch {
	case envelope.Data != nil && envelope.Data.Schema != nil:
		return envelope.Data.Schema, nil
	case envelope.Schema != nil:
		return envelope.Schema, nil
	}
	return nil, ErrNoSchema
}
