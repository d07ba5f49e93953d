package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/PhantomMist/TwitchDropsMiner/internal/common/errors"
	"github.com/PhantomMist/TwitchDropsMiner/internal/features/inventory/models"
)

// fakeService serves a fixed campaign graph.
type fakeService struct {
	campaigns  []*models.Campaign
	drops      map[string]*models.TimedDrop
	claimed    []string
	refreshErr error
}

func (f *fakeService) Refresh(context.Context, bool) error { return f.refreshErr }

func (f *fakeService) Campaigns() []*models.Campaign { return f.campaigns }

func (f *fakeService) Campaign(id string) (*models.Campaign, error) {
	for _, c := range f.campaigns {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperrors.NewCampaignNotFoundError(id)
}

func (f *fakeService) Drop(id string) (*models.TimedDrop, error) {
	if drop, ok := f.drops[id]; ok {
		return drop, nil
	}
	return nil, apperrors.NewDropNotFoundError(id)
}

func (f *fakeService) Claim(_ context.Context, dropID string) (bool, error) {
	if _, ok := f.drops[dropID]; !ok {
		return false, apperrors.NewDropNotFoundError(dropID)
	}
	f.claimed = append(f.claimed, dropID)
	return true, nil
}

func (f *fakeService) ClaimPending(context.Context) int { return 0 }

func (f *fakeService) Tick() int { return 0 }

type nopClaimer struct{}

func (nopClaimer) ClaimDrop(context.Context, string) (*models.ClaimResult, error) {
	return &models.ClaimResult{Found: true, Status: models.ClaimStatusEligibleForAll}, nil
}

func newFakeService(t *testing.T) *fakeService {
	t.Helper()
	const layout = "2006-01-02T15:04:05Z"
	now := time.Now().UTC()
	token := "inst-d1"
	data := models.CampaignData{
		ID:      "c1",
		Name:    "Campaign One",
		Game:    models.GameData{ID: "100", Name: "Test Game"},
		StartAt: now.Add(-time.Hour).Format(layout),
		EndAt:   now.Add(time.Hour).Format(layout),
		TimeBasedDrops: []models.DropData{{
			ID:                     "d1",
			Name:                   "Drop One",
			BenefitEdges:           []models.BenefitEdgeData{{Benefit: models.BenefitData{Name: "Emote"}}},
			StartAt:                now.Add(-time.Hour).Format(layout),
			EndAt:                  now.Add(time.Hour).Format(layout),
			RequiredMinutesWatched: 30,
			Self: models.DropSelfData{
				DropInstanceID:        &token,
				CurrentMinutesWatched: 15,
			},
		}},
	}
	campaign, err := models.NewCampaign(nopClaimer{}, &data)
	require.NoError(t, err)

	svc := &fakeService{
		campaigns: []*models.Campaign{campaign},
		drops:     make(map[string]*models.TimedDrop),
	}
	for _, drop := range campaign.Drops() {
		svc.drops[drop.ID] = drop
	}
	return svc
}

func setupRouter(svc *fakeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewInventoryHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func doRequest(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestListCampaigns(t *testing.T) {
	router := setupRouter(newFakeService(t))

	w := doRequest(router, http.MethodGet, "/api/v1/campaigns")
	require.Equal(t, http.StatusOK, w.Code)

	var resp []CampaignResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "c1", resp[0].ID)
	assert.True(t, resp[0].Active)
	assert.Equal(t, 1, resp[0].TotalDrops)
	assert.Empty(t, resp[0].Drops, "listing omits per-drop detail")
}

func TestGetCampaignWithDrops(t *testing.T) {
	router := setupRouter(newFakeService(t))

	w := doRequest(router, http.MethodGet, "/api/v1/campaigns/c1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp CampaignResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Drops, 1)
	assert.Equal(t, "d1", resp.Drops[0].ID)
	assert.Equal(t, 15, resp.Drops[0].CurrentMinutes)
	assert.InDelta(t, 0.5, resp.Drops[0].Progress, 1e-9)
	assert.Equal(t, "Emote", resp.Drops[0].RewardsText)
}

func TestGetCampaignNotFound(t *testing.T) {
	router := setupRouter(newFakeService(t))

	w := doRequest(router, http.MethodGet, "/api/v1/campaigns/ghost")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetDrop(t *testing.T) {
	router := setupRouter(newFakeService(t))

	w := doRequest(router, http.MethodGet, "/api/v1/drops/d1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp DropResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Drop One", resp.Name)
	assert.Equal(t, 15, resp.RemainingMinutes)

	w = doRequest(router, http.MethodGet, "/api/v1/drops/ghost")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClaimDrop(t *testing.T) {
	svc := newFakeService(t)
	router := setupRouter(svc)

	w := doRequest(router, http.MethodPost, "/api/v1/drops/d1/claim")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"claimed":true}`, w.Body.String())
	assert.Equal(t, []string{"d1"}, svc.claimed)

	w = doRequest(router, http.MethodPost, "/api/v1/drops/ghost/claim")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatus(t *testing.T) {
	router := setupRouter(newFakeService(t))

	w := doRequest(router, http.MethodGet, "/api/v1/status")
	require.Equal(t, http.StatusOK, w.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Campaigns)
	assert.Equal(t, 1, resp.ActiveCampaigns)
	assert.Equal(t, 1, resp.TotalDrops)
	assert.Equal(t, 0, resp.ClaimedDrops)
}

func TestRefresh(t *testing.T) {
	router := setupRouter(newFakeService(t))

	w := doRequest(router, http.MethodPost, "/api/v1/refresh")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"refreshed":true}`, w.Body.String())
}
