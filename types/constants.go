package types

// GraphQL-related constants used throughout the codebase.
// Centralizing these prevents typos and makes refactoring safer.
const (
	// TypenameField is the GraphQL introspection field used for type
	// discrimination in unions and interfaces. Every generated selection
	// set ends with it.
	TypenameField = "__typename"

	// IDField is the identifier field kept in depth-limited selections.
	IDField = "id"

	// FragmentOnPrefix is the full prefix for typed inline fragments
	// (e.g., "... on Droid").
	FragmentOnPrefix = "... on "

	// MetaFieldPrefix marks introspection meta fields (__schema, __type).
	MetaFieldPrefix = "__"

	// VariablePrefix precedes every variable name in a document.
	VariablePrefix = "$"
)

// Introspection kinds as reported in __Type.kind.
const (
	KindScalar      = "SCALAR"
	KindObject      = "OBJECT"
	KindInterface   = "INTERFACE"
	KindUnion       = "UNION"
	KindEnum        = "ENUM"
	KindInputObject = "INPUT_OBJECT"
	KindList        = "LIST"
	KindNonNull     = "NON_NULL"
)

// Pagination wrapper names the selection synthesizer does not traverse.
const (
	ConnectionSuffix = "Connection"
	EdgeSuffix       = "Edge"
	PageInfoType     = "PageInfo"
)

// Defaults for a generation run.
const (
	DefaultEndpoint  = "http://localhost:4001/graphql"
	DefaultOutputDir = "src/graphql"
	DefaultMaxDepth  = 3
	DefaultExtension = "graphql"
)
