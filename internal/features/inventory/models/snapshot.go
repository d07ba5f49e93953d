package models

import (
	"strconv"
	"time"

	apperrors "github.com/PhantomMist/TwitchDropsMiner/internal/common/errors"
)

// timeLayout is the timestamp format the GQL inventory uses, always UTC.
const timeLayout = "2006-01-02T15:04:05Z"

// CampaignData is the raw per-campaign record of an inventory snapshot, as
// returned by the GQL inventory query.
type CampaignData struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Game           GameData   `json:"game"`
	StartAt        string     `json:"startAt"`
	EndAt          string     `json:"endAt"`
	Allow          AllowData  `json:"allow"`
	TimeBasedDrops []DropData `json:"timeBasedDrops"`
}

// GameData carries the game identity; the GQL schema serializes the id as a
// string.
type GameData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AllowData is the campaign's channel allow-list; a null channel list means
// unrestricted.
type AllowData struct {
	Channels []ChannelData `json:"channels"`
}

type ChannelData struct {
	Name string `json:"name"`
}

// DropData is the raw per-drop record within a campaign snapshot.
type DropData struct {
	ID                     string             `json:"id"`
	Name                   string             `json:"name"`
	BenefitEdges           []BenefitEdgeData  `json:"benefitEdges"`
	StartAt                string             `json:"startAt"`
	EndAt                  string             `json:"endAt"`
	RequiredMinutesWatched int                `json:"requiredMinutesWatched"`
	PreconditionDrops      []PreconditionData `json:"preconditionDrops"`
	Self                   DropSelfData       `json:"self"`
}

type BenefitEdgeData struct {
	Benefit BenefitData `json:"benefit"`
}

type BenefitData struct {
	Name string `json:"name"`
}

type PreconditionData struct {
	ID string `json:"id"`
}

// DropSelfData is the viewer-specific drop state. DropInstanceID is the
// claim token; null means no claimable instance has been allocated yet.
type DropSelfData struct {
	DropInstanceID        *string `json:"dropInstanceID"`
	IsClaimed             bool    `json:"isClaimed"`
	CurrentMinutesWatched int     `json:"currentMinutesWatched"`
}

// NewCampaign builds the campaign graph from a snapshot record. Construction
// fails fast: missing or ill-typed required fields and precondition ids that
// do not resolve within the campaign are data-contract violations, not
// recoverable runtime states.
func NewCampaign(claimer Claimer, data *CampaignData) (*Campaign, error) {
	if data.ID == "" {
		return nil, apperrors.NewMalformedSnapshotError("campaign", "id", "missing")
	}
	if data.Name == "" {
		return nil, apperrors.NewMalformedSnapshotError(data.ID, "name", "missing")
	}

	gameID, err := strconv.ParseInt(data.Game.ID, 10, 64)
	if err != nil {
		return nil, apperrors.NewMalformedSnapshotError(data.ID, "game.id", "not an integer: "+data.Game.ID)
	}

	startsAt, err := parseSnapshotTime(data.StartAt)
	if err != nil {
		return nil, apperrors.NewMalformedSnapshotError(data.ID, "startAt", err.Error())
	}
	endsAt, err := parseSnapshotTime(data.EndAt)
	if err != nil {
		return nil, apperrors.NewMalformedSnapshotError(data.ID, "endAt", err.Error())
	}

	campaign := &Campaign{
		ID:       data.ID,
		Name:     data.Name,
		Game:     Game{ID: gameID, Name: data.Game.Name},
		StartsAt: startsAt,
		EndsAt:   endsAt,
		drops:    make(map[string]*TimedDrop, len(data.TimeBasedDrops)),
		order:    make([]string, 0, len(data.TimeBasedDrops)),
	}
	for _, ch := range data.Allow.Channels {
		campaign.AllowedChannels = append(campaign.AllowedChannels, ch.Name)
	}

	for i := range data.TimeBasedDrops {
		drop, err := newTimedDrop(campaign, claimer, &data.TimeBasedDrops[i])
		if err != nil {
			return nil, err
		}
		campaign.drops[drop.ID] = drop
		campaign.order = append(campaign.order, drop.ID)
	}

	// Preconditions must resolve to sibling drops of the same campaign.
	for _, drop := range campaign.drops {
		for _, pid := range drop.preconditionIDs {
			if _, ok := campaign.drops[pid]; !ok {
				return nil, apperrors.NewDanglingPreconditionError(drop.ID, pid)
			}
		}
	}

	return campaign, nil
}

func newTimedDrop(campaign *Campaign, claimer Claimer, data *DropData) (*TimedDrop, error) {
	if data.ID == "" {
		return nil, apperrors.NewMalformedSnapshotError(campaign.ID, "drop.id", "missing")
	}
	if data.RequiredMinutesWatched <= 0 {
		return nil, apperrors.NewMalformedSnapshotError(campaign.ID, "drop "+data.ID+".requiredMinutesWatched",
			"must be positive, got "+strconv.Itoa(data.RequiredMinutesWatched))
	}

	startsAt, err := parseSnapshotTime(data.StartAt)
	if err != nil {
		return nil, apperrors.NewMalformedSnapshotError(campaign.ID, "drop "+data.ID+".startAt", err.Error())
	}
	endsAt, err := parseSnapshotTime(data.EndAt)
	if err != nil {
		return nil, apperrors.NewMalformedSnapshotError(campaign.ID, "drop "+data.ID+".endAt", err.Error())
	}

	rewards := make([]string, 0, len(data.BenefitEdges))
	for _, edge := range data.BenefitEdges {
		rewards = append(rewards, edge.Benefit.Name)
	}

	drop := &TimedDrop{
		BaseDrop: BaseDrop{
			ID:       data.ID,
			Name:     data.Name,
			Rewards:  rewards,
			StartsAt: startsAt,
			EndsAt:   endsAt,
			campaign: campaign,
			claimer:  claimer,
		},
		RequiredMinutes: data.RequiredMinutesWatched,
	}

	if data.Self.DropInstanceID != nil {
		drop.claimID = *data.Self.DropInstanceID
	}
	for _, pre := range data.PreconditionDrops {
		drop.preconditionIDs = append(drop.preconditionIDs, pre.ID)
	}

	minutes := data.Self.CurrentMinutesWatched
	if minutes < 0 {
		minutes = 0
	}
	if minutes > drop.RequiredMinutes {
		minutes = drop.RequiredMinutes
	}
	drop.currentMinutes = minutes

	drop.isClaimed = data.Self.IsClaimed
	if drop.isClaimed {
		// Claimed drops report 0 watched minutes; correct at construction.
		drop.currentMinutes = drop.RequiredMinutes
	}

	return drop, nil
}

func parseSnapshotTime(value string) (time.Time, error) {
	return time.Parse(timeLayout, value)
}
