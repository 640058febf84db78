// Package transport implements the reference Node interface: a
// JSON-over-HTTP client, plus an in-process gorilla/mux server used as a
// test double so a molecule's sign → submit → check round trip can be
// exercised without a real node.
package transport

// Response is the envelope every Node query and mutation returns.
type Response struct {
	Success bool                   `json:"success"`
	Reason  string                 `json:"reason,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Payload interface{}            `json:"payload,omitempty"`
}

// Envelope is the request body a Node call sends: a named query or mutation
// plus its variables, mirroring a GraphQL-style request without depending on
// a GraphQL library (the engine issues a fixed, small set of named
// operations).
type Envelope struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// Node query names.
const (
	QueryBundle     = "QueryBundle"
	QueryMeta       = "QueryMeta"
	QueryWalletList = "QueryWalletList"
	QueryBalance    = "QueryBalance"
	QueryContinuId  = "QueryContinuId"
	QueryAtom       = "QueryAtom"
)

// Node mutation names.
const (
	MutationProposeMolecule      = "MutationProposeMolecule"
	MutationRequestAuthorization = "MutationRequestAuthorization"
	MutationCreateIdentifier     = "MutationCreateIdentifier"
	MutationLinkIdentifier       = "MutationLinkIdentifier"
	MutationClaimShadowWallet    = "MutationClaimShadowWallet"
	MutationCreateToken          = "MutationCreateToken"
	MutationRequestTokens        = "MutationRequestTokens"
	MutationTransferTokens       = "MutationTransferTokens"
	MutationDepositBufferToken   = "MutationDepositBufferToken"
	MutationWithdrawBufferToken  = "MutationWithdrawBufferToken"
)

// Node is the external collaborator interface the engine submits molecules
// and issues queries to.
type Node interface {
	ExecuteMutation(mutation string, variables map[string]interface{}) (*Response, error)
	ExecuteQuery(query string, variables map[string]interface{}) (*Response, error)
}
