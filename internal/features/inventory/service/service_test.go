package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhantomMist/TwitchDropsMiner/internal/common/config"
	apperrors "github.com/PhantomMist/TwitchDropsMiner/internal/common/errors"
	"github.com/PhantomMist/TwitchDropsMiner/internal/features/inventory/models"
)

const snapshotTimeLayout = "2006-01-02T15:04:05Z"

// fakeTwitch implements TwitchAPI in-memory.
type fakeTwitch struct {
	snapshot     []models.CampaignData
	inventoryErr error
	claimResult  *models.ClaimResult
	claimErr     error
	claimCalls   int
}

func (f *fakeTwitch) Inventory(context.Context) ([]models.CampaignData, error) {
	return f.snapshot, f.inventoryErr
}

func (f *fakeTwitch) ClaimDrop(context.Context, string) (*models.ClaimResult, error) {
	f.claimCalls++
	return f.claimResult, f.claimErr
}

func testConfig(channel string) *config.Config {
	cfg := &config.Config{}
	cfg.Miner.Channel = channel
	cfg.Miner.SnapshotTTL = 5 * time.Minute
	return cfg
}

func dropData(id string, required, current int, claimed bool) models.DropData {
	now := time.Now().UTC()
	token := "inst-" + id
	return models.DropData{
		ID:                     id,
		Name:                   "Drop " + id,
		BenefitEdges:           []models.BenefitEdgeData{{Benefit: models.BenefitData{Name: "Reward " + id}}},
		StartAt:                now.Add(-time.Hour).Format(snapshotTimeLayout),
		EndAt:                  now.Add(time.Hour).Format(snapshotTimeLayout),
		RequiredMinutesWatched: required,
		Self: models.DropSelfData{
			DropInstanceID:        &token,
			IsClaimed:             claimed,
			CurrentMinutesWatched: current,
		},
	}
}

func campaignData(id string, channels []string, drops ...models.DropData) models.CampaignData {
	now := time.Now().UTC()
	data := models.CampaignData{
		ID:             id,
		Name:           "Campaign " + id,
		Game:           models.GameData{ID: "100", Name: "Test Game"},
		StartAt:        now.Add(-time.Hour).Format(snapshotTimeLayout),
		EndAt:          now.Add(time.Hour).Format(snapshotTimeLayout),
		TimeBasedDrops: drops,
	}
	for _, ch := range channels {
		data.Allow.Channels = append(data.Allow.Channels, models.ChannelData{Name: ch})
	}
	return data
}

func TestRefreshBuildsGraph(t *testing.T) {
	twitch := &fakeTwitch{snapshot: []models.CampaignData{
		campaignData("c1", nil, dropData("a", 30, 0, false), dropData("b", 60, 0, false)),
		campaignData("c2", nil, dropData("x", 120, 30, false)),
	}}
	svc := NewInventoryService(twitch, nil, testConfig(""))

	require.NoError(t, svc.Refresh(context.Background(), false))
	assert.Len(t, svc.Campaigns(), 2)

	campaign, err := svc.Campaign("c1")
	require.NoError(t, err)
	assert.Equal(t, 2, campaign.TotalDrops())

	drop, err := svc.Drop("x")
	require.NoError(t, err)
	assert.Equal(t, 30, drop.CurrentMinutes())
}

func TestRefreshFailsFastOnMalformedSnapshot(t *testing.T) {
	good := campaignData("c1", nil, dropData("a", 30, 0, false))
	bad := campaignData("c2", nil, dropData("b", 0, 0, false)) // non-positive requirement
	twitch := &fakeTwitch{snapshot: []models.CampaignData{good}}
	svc := NewInventoryService(twitch, nil, testConfig(""))
	require.NoError(t, svc.Refresh(context.Background(), false))

	twitch.snapshot = []models.CampaignData{good, bad}
	err := svc.Refresh(context.Background(), false)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeMalformedSnapshot, appErr.Code)

	// The previous graph stays in place.
	assert.Len(t, svc.Campaigns(), 1)
}

func TestRefreshPropagatesInventoryError(t *testing.T) {
	twitch := &fakeTwitch{inventoryErr: errors.New("gateway down")}
	svc := NewInventoryService(twitch, nil, testConfig(""))
	assert.Error(t, svc.Refresh(context.Background(), false))
}

func TestTickCreditsCurrentDropOnly(t *testing.T) {
	twitch := &fakeTwitch{snapshot: []models.CampaignData{
		campaignData("c1", []string{"mychannel"}, dropData("a", 30, 0, false), dropData("b", 60, 0, false)),
	}}
	svc := NewInventoryService(twitch, nil, testConfig("mychannel"))
	require.NoError(t, svc.Refresh(context.Background(), false))

	assert.Equal(t, 1, svc.Tick(), "one drop per campaign is credited")

	dropA, _ := svc.Drop("a")
	dropB, _ := svc.Drop("b")
	assert.Equal(t, 1, dropA.CurrentMinutes())
	assert.Equal(t, 0, dropB.CurrentMinutes())
}

func TestTickSkipsDisallowedChannel(t *testing.T) {
	twitch := &fakeTwitch{snapshot: []models.CampaignData{
		campaignData("c1", []string{"otherchannel"}, dropData("a", 30, 0, false)),
	}}
	svc := NewInventoryService(twitch, nil, testConfig("mychannel"))
	require.NoError(t, svc.Refresh(context.Background(), false))

	assert.Equal(t, 0, svc.Tick())
	drop, _ := svc.Drop("a")
	assert.Equal(t, 0, drop.CurrentMinutes())
}

func TestClaim(t *testing.T) {
	twitch := &fakeTwitch{
		snapshot:    []models.CampaignData{campaignData("c1", nil, dropData("a", 30, 0, false))},
		claimResult: &models.ClaimResult{Found: true, Status: models.ClaimStatusEligibleForAll},
	}
	svc := NewInventoryService(twitch, nil, testConfig(""))
	require.NoError(t, svc.Refresh(context.Background(), false))

	granted, err := svc.Claim(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, granted)
	assert.Equal(t, 1, twitch.claimCalls)

	t.Run("UnknownDrop", func(t *testing.T) {
		_, err := svc.Claim(context.Background(), "ghost")
		require.Error(t, err)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.True(t, appErr.IsNotFound())
	})
}

func TestClaimPending(t *testing.T) {
	twitch := &fakeTwitch{
		snapshot: []models.CampaignData{campaignData("c1", nil,
			dropData("a", 30, 30, false),
			dropData("b", 60, 0, true), // already claimed, skipped
		)},
		claimResult: &models.ClaimResult{Found: true, Status: models.ClaimStatusEligibleForAll},
	}
	svc := NewInventoryService(twitch, nil, testConfig(""))
	require.NoError(t, svc.Refresh(context.Background(), false))

	assert.Equal(t, 1, svc.ClaimPending(context.Background()))
	assert.Equal(t, 1, twitch.claimCalls)

	// Nothing left to claim on the next sweep.
	assert.Equal(t, 0, svc.ClaimPending(context.Background()))
	assert.Equal(t, 1, twitch.claimCalls)
}
