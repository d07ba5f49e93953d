package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/PhantomMist/TwitchDropsMiner/internal/common/cache"
	"github.com/PhantomMist/TwitchDropsMiner/internal/common/config"
	apperrors "github.com/PhantomMist/TwitchDropsMiner/internal/common/errors"
	"github.com/PhantomMist/TwitchDropsMiner/internal/common/logger"
	"github.com/PhantomMist/TwitchDropsMiner/internal/common/metrics"
	"github.com/PhantomMist/TwitchDropsMiner/internal/features/inventory/models"
)

type inventoryService struct {
	twitch TwitchAPI
	cache  *cache.CacheService // nil disables snapshot caching
	config *config.Config
	log    zerolog.Logger

	mu        sync.RWMutex
	campaigns []*models.Campaign
	dropIndex map[string]*models.TimedDrop
}

func NewInventoryService(twitch TwitchAPI, cacheService *cache.CacheService, cfg *config.Config) InventoryService {
	return &inventoryService{
		twitch:    twitch,
		cache:     cacheService,
		config:    cfg,
		log:       logger.With("inventory"),
		dropIndex: make(map[string]*models.TimedDrop),
	}
}

func (s *inventoryService) Refresh(ctx context.Context, force bool) error {
	var snapshot []models.CampaignData
	source := "remote"

	if force && s.cache != nil {
		if err := s.cache.InvalidateInventoryCache(ctx); err != nil {
			s.log.Warn().Err(err).Msg("Failed to invalidate snapshot cache")
		}
	}

	if !force && s.cache != nil {
		if err := s.cache.Get(ctx, cache.SnapshotKey, &snapshot); err == nil {
			source = "cache"
		}
	}

	if source == "remote" {
		fetched, err := s.twitch.Inventory(ctx)
		if err != nil {
			metrics.RefreshesTotal.WithLabelValues("error").Inc()
			return err
		}
		snapshot = fetched

		if s.cache != nil {
			if err := s.cache.Set(ctx, cache.SnapshotKey, snapshot, s.config.Miner.SnapshotTTL); err != nil {
				s.log.Warn().Err(err).Msg("Failed to cache snapshot")
			}
		}
	}

	// Construction is all-or-nothing: a malformed campaign fails the whole
	// refresh and keeps the previous graph in place.
	campaigns := make([]*models.Campaign, 0, len(snapshot))
	dropIndex := make(map[string]*models.TimedDrop)
	for i := range snapshot {
		campaign, err := models.NewCampaign(s.twitch, &snapshot[i])
		if err != nil {
			metrics.RefreshesTotal.WithLabelValues("error").Inc()
			return err
		}
		campaigns = append(campaigns, campaign)
		for _, drop := range campaign.Drops() {
			dropIndex[drop.ID] = drop
		}
	}

	s.mu.Lock()
	s.campaigns = campaigns
	s.dropIndex = dropIndex
	s.mu.Unlock()

	metrics.RefreshesTotal.WithLabelValues(source).Inc()
	s.updateCampaignGauges(campaigns)
	s.log.Info().
		Str("source", source).
		Int("campaigns", len(campaigns)).
		Int("drops", len(dropIndex)).
		Msg("Inventory refreshed")
	return nil
}

func (s *inventoryService) Campaigns() []*models.Campaign {
	s.mu.RLock()
	defer s.mu.RUnlock()
	campaigns := make([]*models.Campaign, len(s.campaigns))
	copy(campaigns, s.campaigns)
	return campaigns
}

func (s *inventoryService) Campaign(id string) (*models.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.campaigns {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperrors.NewCampaignNotFoundError(id)
}

func (s *inventoryService) Drop(id string) (*models.TimedDrop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if drop, ok := s.dropIndex[id]; ok {
		return drop, nil
	}
	return nil, apperrors.NewDropNotFoundError(id)
}

func (s *inventoryService) Claim(ctx context.Context, dropID string) (bool, error) {
	drop, err := s.Drop(dropID)
	if err != nil {
		return false, err
	}

	granted := drop.Claim(ctx)
	metrics.RecordClaim(granted)
	if granted {
		s.log.Info().
			Str("drop_id", drop.ID).
			Str("drop", drop.Name).
			Str("campaign", drop.Campaign().Name).
			Msg("Drop claimed")
		if s.cache != nil {
			if err := s.cache.InvalidateInventoryCache(ctx); err != nil {
				s.log.Warn().Err(err).Msg("Failed to invalidate snapshot cache after claim")
			}
		}
		s.updateCampaignGauges(s.Campaigns())
	} else {
		s.log.Warn().Str("drop_id", drop.ID).Msg("Claim attempt failed")
	}
	return granted, nil
}

func (s *inventoryService) ClaimPending(ctx context.Context) int {
	claimed := 0
	for _, campaign := range s.Campaigns() {
		for _, drop := range campaign.Drops() {
			if drop.IsClaimed() || !drop.CanClaim() {
				continue
			}
			if granted, err := s.Claim(ctx, drop.ID); err == nil && granted {
				claimed++
			}
		}
	}
	return claimed
}

func (s *inventoryService) Tick() int {
	channel := s.config.Miner.Channel
	ticked := 0
	for _, campaign := range s.Campaigns() {
		if !campaign.Active() || !campaign.ChannelAllowed(channel) {
			continue
		}
		// Watch time progresses one drop per campaign: the first drop, in
		// display order, that can currently be earned.
		for _, drop := range campaign.Drops() {
			if !drop.CanEarn() {
				continue
			}
			drop.BumpMinutes()
			metrics.WatchMinutesTotal.WithLabelValues(campaign.Name).Inc()
			ticked++
			break
		}
	}
	if ticked > 0 {
		s.updateCampaignGauges(s.Campaigns())
	}
	return ticked
}

func (s *inventoryService) updateCampaignGauges(campaigns []*models.Campaign) {
	for _, c := range campaigns {
		metrics.CampaignProgress.WithLabelValues(c.Name).Set(c.Progress())
		metrics.CampaignRemainingDrops.WithLabelValues(c.Name).Set(float64(c.RemainingDrops()))
	}
}
