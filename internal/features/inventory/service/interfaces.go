package service

import (
	"context"

	"github.com/PhantomMist/TwitchDropsMiner/internal/features/inventory/models"
)

// TwitchAPI is the transport collaborator: snapshot acquisition plus the
// claim RPC. Satisfied by the platform twitch client.
type TwitchAPI interface {
	Inventory(ctx context.Context) ([]models.CampaignData, error)
	ClaimDrop(ctx context.Context, dropInstanceID string) (*models.ClaimResult, error)
}

// InventoryService owns the campaign graph built from the latest snapshot
// and routes mutations (ticks, claims) into it.
type InventoryService interface {
	// Refresh rebuilds the campaign graph from the snapshot cache or, when
	// forced or the cache is cold, from the remote inventory.
	Refresh(ctx context.Context, force bool) error
	// Campaigns returns the current campaigns in snapshot order.
	Campaigns() []*models.Campaign
	// Campaign returns a campaign by id.
	Campaign(id string) (*models.Campaign, error)
	// Drop returns a drop by id, across all campaigns.
	Drop(id string) (*models.TimedDrop, error)
	// Claim attempts to claim a drop. The boolean is the claim outcome;
	// the error is reserved for unknown drop ids.
	Claim(ctx context.Context, dropID string) (bool, error)
	// ClaimPending sweeps every claimable drop and returns how many claims
	// succeeded. Failed claims are left for the next sweep; no retries here.
	ClaimPending(ctx context.Context) int
	// Tick credits one watch minute to the drop currently being earned in
	// each campaign matching the watched channel. Returns the number of
	// drops credited.
	Tick() int
}
