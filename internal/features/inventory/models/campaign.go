package models

import (
	"strings"
	"sync"
	"time"
)

// Campaign is a time-boxed collection of timed drops tied to a game. The
// whole graph is built once from a snapshot; drops are never added or removed
// afterwards, only claimed or credited with minutes.
type Campaign struct {
	ID              string
	Name            string
	Game            Game
	StartsAt        time.Time
	EndsAt          time.Time
	AllowedChannels []string

	// mu guards all mutable drop state and every memo cell in the graph.
	// It is never held across network I/O.
	mu sync.Mutex

	drops map[string]*TimedDrop
	order []string // snapshot order, kept stable for display

	claimedDrops     memoInt
	remainingDrops   memoInt
	remainingMinutes memoInt
	progress         memoFloat
}

func (c *Campaign) String() string {
	return c.Name
}

// Active reports whether now is inside the campaign window [StartsAt, EndsAt).
func (c *Campaign) Active() bool {
	return c.activeAt(time.Now().UTC())
}

func (c *Campaign) activeAt(now time.Time) bool {
	return !now.Before(c.StartsAt) && now.Before(c.EndsAt)
}

// Upcoming reports whether the campaign has not started yet.
func (c *Campaign) Upcoming() bool {
	return time.Now().UTC().Before(c.StartsAt)
}

// Expired reports whether the campaign window has ended.
func (c *Campaign) Expired() bool {
	return !time.Now().UTC().Before(c.EndsAt)
}

// ChannelAllowed reports whether watch time on the given channel counts for
// this campaign. An empty allow-list means any channel.
func (c *Campaign) ChannelAllowed(channel string) bool {
	if len(c.AllowedChannels) == 0 {
		return true
	}
	for _, name := range c.AllowedChannels {
		if strings.EqualFold(name, channel) {
			return true
		}
	}
	return false
}

// TotalDrops returns the number of drops in the campaign, fixed after
// construction.
func (c *Campaign) TotalDrops() int {
	return len(c.order)
}

// Drop returns the drop with the given id.
func (c *Campaign) Drop(id string) (*TimedDrop, bool) {
	d, ok := c.drops[id]
	return d, ok
}

// Drops returns the campaign's drops in snapshot order.
func (c *Campaign) Drops() []*TimedDrop {
	drops := make([]*TimedDrop, 0, len(c.order))
	for _, id := range c.order {
		drops = append(drops, c.drops[id])
	}
	return drops
}

// ClaimedDrops returns the number of claimed drops.
func (c *Campaign) ClaimedDrops() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.claimedDrops.get(func() int {
		n := 0
		for _, d := range c.drops {
			if d.isClaimed {
				n++
			}
		}
		return n
	})
}

// RemainingDrops returns the number of drops still to claim.
// ClaimedDrops + RemainingDrops always equals TotalDrops.
func (c *Campaign) RemainingDrops() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remainingDrops.get(func() int {
		n := 0
		for _, d := range c.drops {
			if !d.isClaimed {
				n++
			}
		}
		return n
	})
}

// RemainingMinutes returns the total minutes still needed across all drops.
func (c *Campaign) RemainingMinutes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remainingMinutes.get(func() int {
		total := 0
		for _, d := range c.drops {
			total += d.remainingMinutesLocked()
		}
		return total
	})
}

// Progress returns the mean drop progress in [0, 1]. A campaign with no
// drops reports 0.
func (c *Campaign) Progress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.drops) == 0 {
		return 0
	}
	return c.progress.get(func() float64 {
		sum := 0.0
		for _, d := range c.drops {
			sum += d.progressLocked()
		}
		return sum / float64(len(c.drops))
	})
}

// onClaimLocked invalidates the claim-dependent aggregates and every drop's
// precondition cache. Preconditions are keyed by id, so a claim on any drop
// may unblock any other.
func (c *Campaign) onClaimLocked() {
	c.claimedDrops.invalidate()
	c.remainingDrops.invalidate()
	for _, d := range c.drops {
		d.invalidatePreconditionsLocked()
	}
}

// onMinutesChangedLocked invalidates the minute-dependent aggregates.
func (c *Campaign) onMinutesChangedLocked() {
	c.progress.invalidate()
	c.remainingMinutes.invalidate()
}
