package twitch

// Persisted GQL operations used against the Twitch gateway. The hash pins
// the server-side query; variables are attached per call.

type persistedQuery struct {
	Version    int    `json:"version"`
	SHA256Hash string `json:"sha256Hash"`
}

type gqlExtensions struct {
	PersistedQuery persistedQuery `json:"persistedQuery"`
}

// GQLOperation is a single persisted-query request payload.
type GQLOperation struct {
	OperationName string                 `json:"operationName"`
	Extensions    gqlExtensions          `json:"extensions"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

// NewGQLOperation builds an operation for a persisted query hash.
func NewGQLOperation(name, sha256Hash string) GQLOperation {
	return GQLOperation{
		OperationName: name,
		Extensions: gqlExtensions{
			PersistedQuery: persistedQuery{Version: 1, SHA256Hash: sha256Hash},
		},
	}
}

// WithVariables returns a copy of the operation carrying the given variables.
func (op GQLOperation) WithVariables(variables map[string]interface{}) GQLOperation {
	op.Variables = variables
	return op
}

// GQLOperations holds every persisted operation this client issues.
var GQLOperations = map[string]GQLOperation{
	"ClaimDrop": NewGQLOperation(
		"DropsPage_ClaimDropRewards",
		"a455deea71bdc9015b78eb49f4acfbce8baa7ccbedd28e549bb025bd0f751930",
	),
	"Inventory": NewGQLOperation(
		"Inventory",
		"37d62f669cd8a2c9057318f9d92213cfdfbfbd048f7a9abd99b90abc8b3d9a6f",
	),
}
