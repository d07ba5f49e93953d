package models

import "context"

// Claim statuses the server reports for a successful claim. Anything else,
// including statuses added by the server in the future, counts as failure.
const (
	ClaimStatusEligibleForAll = "ELIGIBLE_FOR_ALL"
	ClaimStatusAlreadyClaimed = "DROP_INSTANCE_ALREADY_CLAIMED"
)

// ClaimResult is the interpreted response of a single claim request.
type ClaimResult struct {
	// Errors is the business error list from the response envelope.
	Errors []string
	// Found reports whether the claimDropRewards object was present and non-null.
	Found bool
	// Status is the claim status string, empty when Found is false.
	Status string
}

// Granted reports whether the result counts as a successful claim.
// Unknown statuses never count as success.
func (r *ClaimResult) Granted() bool {
	if len(r.Errors) > 0 || !r.Found {
		return false
	}
	switch r.Status {
	case ClaimStatusEligibleForAll, ClaimStatusAlreadyClaimed:
		return true
	}
	return false
}

// Claimer issues the remote claim request for a drop instance.
// Implemented by the Twitch GQL client.
type Claimer interface {
	ClaimDrop(ctx context.Context, dropInstanceID string) (*ClaimResult, error)
}
