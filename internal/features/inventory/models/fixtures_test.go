package models

import (
	"context"
	"sync"
	"time"
)

// claimerFunc adapts a function to the Claimer interface.
type claimerFunc func(ctx context.Context, dropInstanceID string) (*ClaimResult, error)

func (f claimerFunc) ClaimDrop(ctx context.Context, dropInstanceID string) (*ClaimResult, error) {
	return f(ctx, dropInstanceID)
}

// countingClaimer records claim requests and replies with a fixed result.
type countingClaimer struct {
	mu     sync.Mutex
	calls  int
	tokens []string
	result *ClaimResult
	err    error
}

func (c *countingClaimer) ClaimDrop(_ context.Context, dropInstanceID string) (*ClaimResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.tokens = append(c.tokens, dropInstanceID)
	return c.result, c.err
}

func (c *countingClaimer) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func grantingClaimer() *countingClaimer {
	return &countingClaimer{result: &ClaimResult{Found: true, Status: ClaimStatusEligibleForAll}}
}

func testWindow() (string, string) {
	now := time.Now().UTC()
	return now.Add(-time.Hour).Format(timeLayout), now.Add(time.Hour).Format(timeLayout)
}

func testDropData(id string, requiredMinutes int) DropData {
	start, end := testWindow()
	token := "inst-" + id
	return DropData{
		ID:   id,
		Name: "Drop " + id,
		BenefitEdges: []BenefitEdgeData{
			{Benefit: BenefitData{Name: "Reward " + id}},
		},
		StartAt:                start,
		EndAt:                  end,
		RequiredMinutesWatched: requiredMinutes,
		Self: DropSelfData{
			DropInstanceID: &token,
		},
	}
}

func testCampaignData(drops ...DropData) *CampaignData {
	start, end := testWindow()
	return &CampaignData{
		ID:             "campaign-1",
		Name:           "Test Campaign",
		Game:           GameData{ID: "493057", Name: "Test Game"},
		StartAt:        start,
		EndAt:          end,
		TimeBasedDrops: drops,
	}
}

func mustCampaign(claimer Claimer, data *CampaignData) *Campaign {
	campaign, err := NewCampaign(claimer, data)
	if err != nil {
		panic(err)
	}
	return campaign
}
