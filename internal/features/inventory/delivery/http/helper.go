package http

import (
	"time"

	"github.com/PhantomMist/TwitchDropsMiner/internal/features/inventory/models"
)

// GameResponse mirrors the game identity for display.
type GameResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DropResponse is the read-only drop state exposed for rendering.
type DropResponse struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Rewards          []string          `json:"rewards"`
	RewardsText      string            `json:"rewards_text"`
	StartsAt         time.Time         `json:"starts_at"`
	EndsAt           time.Time         `json:"ends_at"`
	Status           models.DropStatus `json:"status"`
	IsClaimed        bool              `json:"is_claimed"`
	CanEarn          bool              `json:"can_earn"`
	CanClaim         bool              `json:"can_claim"`
	CurrentMinutes   int               `json:"current_minutes"`
	RequiredMinutes  int               `json:"required_minutes"`
	RemainingMinutes int               `json:"remaining_minutes"`
	Progress         float64           `json:"progress"`
}

// CampaignResponse is the read-only campaign state with aggregates.
type CampaignResponse struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Game             GameResponse   `json:"game"`
	StartsAt         time.Time      `json:"starts_at"`
	EndsAt           time.Time      `json:"ends_at"`
	Active           bool           `json:"active"`
	Upcoming         bool           `json:"upcoming"`
	Expired          bool           `json:"expired"`
	AllowedChannels  []string       `json:"allowed_channels,omitempty"`
	TotalDrops       int            `json:"total_drops"`
	ClaimedDrops     int            `json:"claimed_drops"`
	RemainingDrops   int            `json:"remaining_drops"`
	RemainingMinutes int            `json:"remaining_minutes"`
	Progress         float64        `json:"progress"`
	Drops            []DropResponse `json:"drops,omitempty"`
}

// StatusResponse summarizes the whole inventory for the status endpoint.
type StatusResponse struct {
	Campaigns        int     `json:"campaigns"`
	ActiveCampaigns  int     `json:"active_campaigns"`
	TotalDrops       int     `json:"total_drops"`
	ClaimedDrops     int     `json:"claimed_drops"`
	RemainingMinutes int     `json:"remaining_minutes"`
	AverageProgress  float64 `json:"average_progress"`
}

func toDropResponse(d *models.TimedDrop) DropResponse {
	return DropResponse{
		ID:               d.ID,
		Name:             d.Name,
		Rewards:          d.Rewards,
		RewardsText:      d.RewardsText(", "),
		StartsAt:         d.StartsAt,
		EndsAt:           d.EndsAt,
		Status:           d.Status(),
		IsClaimed:        d.IsClaimed(),
		CanEarn:          d.CanEarn(),
		CanClaim:         d.CanClaim(),
		CurrentMinutes:   d.CurrentMinutes(),
		RequiredMinutes:  d.RequiredMinutes,
		RemainingMinutes: d.RemainingMinutes(),
		Progress:         d.Progress(),
	}
}

func toCampaignResponse(c *models.Campaign, withDrops bool) CampaignResponse {
	resp := CampaignResponse{
		ID:               c.ID,
		Name:             c.Name,
		Game:             GameResponse{ID: c.Game.ID, Name: c.Game.Name},
		StartsAt:         c.StartsAt,
		EndsAt:           c.EndsAt,
		Active:           c.Active(),
		Upcoming:         c.Upcoming(),
		Expired:          c.Expired(),
		AllowedChannels:  c.AllowedChannels,
		TotalDrops:       c.TotalDrops(),
		ClaimedDrops:     c.ClaimedDrops(),
		RemainingDrops:   c.RemainingDrops(),
		RemainingMinutes: c.RemainingMinutes(),
		Progress:         c.Progress(),
	}
	if withDrops {
		for _, d := range c.Drops() {
			resp.Drops = append(resp.Drops, toDropResponse(d))
		}
	}
	return resp
}

func toStatusResponse(campaigns []*models.Campaign) StatusResponse {
	status := StatusResponse{Campaigns: len(campaigns)}
	for _, c := range campaigns {
		if c.Active() {
			status.ActiveCampaigns++
		}
		status.TotalDrops += c.TotalDrops()
		status.ClaimedDrops += c.ClaimedDrops()
		status.RemainingMinutes += c.RemainingMinutes()
		status.AverageProgress += c.Progress()
	}
	if len(campaigns) > 0 {
		status.AverageProgress /= float64(len(campaigns))
	}
	return status
}
