package models

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DropStatus represents the claim state of a drop
type DropStatus string

const (
	DropStatusUnclaimable DropStatus = "unclaimable" // No claim token allocated yet
	DropStatusClaimable   DropStatus = "claimable"   // Token present, claim not attempted or failed
	DropStatusClaiming    DropStatus = "claiming"    // Claim request in flight
	DropStatusClaimed     DropStatus = "claimed"     // Terminal
)

// BaseDrop is the atomic claimable reward within a campaign. It carries the
// claim state machine; time-tracked progress lives in TimedDrop.
//
// Immutable fields are exported. Mutable claim state is guarded by the owning
// campaign's state mutex; claimMu additionally serializes claim attempts and
// minute updates on this drop so that a claim in flight can never race a
// second claim or a concurrent minute update into a duplicate request.
// Lock order: claimMu before the campaign state mutex, never the reverse.
type BaseDrop struct {
	ID       string
	Name     string
	Rewards  []string
	StartsAt time.Time
	EndsAt   time.Time

	campaign *Campaign
	claimer  Claimer

	claimMu sync.Mutex

	// Guarded by campaign.mu.
	claimID          string // empty means no claimable instance yet
	isClaimed        bool
	claiming         bool
	preconditionIDs  []string
	preconditionsMet memoBool
}

// Campaign returns the owning campaign.
func (d *BaseDrop) Campaign() *Campaign {
	return d.campaign
}

// IsClaimed reports whether the drop has been claimed.
func (d *BaseDrop) IsClaimed() bool {
	d.campaign.mu.Lock()
	defer d.campaign.mu.Unlock()
	return d.isClaimed
}

// CanClaim reports whether the server has allocated a claimable instance.
// Deliberately independent of the time window: the server accepts claims
// slightly outside the watch window.
func (d *BaseDrop) CanClaim() bool {
	d.campaign.mu.Lock()
	defer d.campaign.mu.Unlock()
	return d.claimID != ""
}

// CanEarn reports whether watch time currently counts toward this drop:
// preconditions claimed, not claimed itself, campaign active and now inside
// the drop's own window.
func (d *BaseDrop) CanEarn() bool {
	d.campaign.mu.Lock()
	defer d.campaign.mu.Unlock()
	return d.canEarnLocked(time.Now().UTC())
}

func (d *BaseDrop) canEarnLocked(now time.Time) bool {
	return d.preconditionsMetLocked() &&
		!d.isClaimed &&
		d.campaign.activeAt(now) &&
		!now.Before(d.StartsAt) && now.Before(d.EndsAt)
}

// preconditionsMetLocked lazily evaluates and caches whether every
// precondition drop is claimed. The cache is invalidated whenever any drop in
// the campaign is claimed; a claim on one drop may unblock any other.
func (d *BaseDrop) preconditionsMetLocked() bool {
	return d.preconditionsMet.get(func() bool {
		for _, id := range d.preconditionIDs {
			if dep, ok := d.campaign.drops[id]; ok && !dep.isClaimed {
				return false
			}
		}
		return true
	})
}

func (d *BaseDrop) invalidatePreconditionsLocked() {
	d.preconditionsMet.invalidate()
}

// Status returns the current claim state.
func (d *BaseDrop) Status() DropStatus {
	d.campaign.mu.Lock()
	defer d.campaign.mu.Unlock()
	switch {
	case d.isClaimed:
		return DropStatusClaimed
	case d.claiming:
		return DropStatusClaiming
	case d.claimID != "":
		return DropStatusClaimable
	default:
		return DropStatusUnclaimable
	}
}

// UpdateClaim installs a fresh claim token reported by the server for this
// drop. Called by the updater when a snapshot or event carries a new token.
func (d *BaseDrop) UpdateClaim(claimID string) {
	d.campaign.mu.Lock()
	defer d.campaign.mu.Unlock()
	d.claimID = claimID
}

// RewardsText joins the drop's reward names for display.
func (d *BaseDrop) RewardsText(delim string) string {
	return strings.Join(d.Rewards, delim)
}

// claim runs the claim state machine. The caller must hold claimMu and must
// not hold the campaign state mutex.
//
// Contract: no token present means false with no request; already claimed
// means true with no request; otherwise exactly one request is issued and
// interpreted default-deny. Failures leave the drop claimable; no retry is
// performed here, that is the caller's policy.
func (d *BaseDrop) claim(ctx context.Context) bool {
	c := d.campaign

	c.mu.Lock()
	if d.claimID == "" {
		c.mu.Unlock()
		return false
	}
	if d.isClaimed {
		c.mu.Unlock()
		return true
	}
	token := d.claimID
	d.claiming = true
	c.mu.Unlock()

	granted := d.requestClaim(ctx, token)

	c.mu.Lock()
	d.claiming = false
	if granted {
		d.isClaimed = true
		c.onClaimLocked()
	}
	c.mu.Unlock()
	return granted
}

// requestClaim issues the remote claim request and interprets the response.
// Transport errors, including timeouts, are ordinary failures.
func (d *BaseDrop) requestClaim(ctx context.Context, token string) bool {
	result, err := d.claimer.ClaimDrop(ctx, token)
	if err != nil {
		return false
	}
	return result.Granted()
}
