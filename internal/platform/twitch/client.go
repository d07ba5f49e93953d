package twitch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/PhantomMist/TwitchDropsMiner/internal/common/config"
	apperrors "github.com/PhantomMist/TwitchDropsMiner/internal/common/errors"
	"github.com/PhantomMist/TwitchDropsMiner/internal/common/logger"
	"github.com/PhantomMist/TwitchDropsMiner/internal/features/inventory/models"
)

// Client talks to the Twitch GQL gateway. It is the transport collaborator
// for snapshot acquisition and claim requests; timeouts and cancellation
// live here, not in the campaign core.
type Client struct {
	httpClient *http.Client
	gqlURL     string
	clientID   string
	oauthToken string
	deviceID   string
	sessionID  string
	log        zerolog.Logger
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		gqlURL:     cfg.Twitch.GQLURL,
		clientID:   cfg.Twitch.ClientID,
		oauthToken: cfg.Twitch.OAuthToken,
		deviceID:   uuid.New().String(),
		sessionID:  uuid.New().String(),
		log:        logger.With("twitch"),
	}
}

type claimDropResponse struct {
	Data struct {
		Errors           []json.RawMessage `json:"errors"`
		ClaimDropRewards *struct {
			Status string `json:"status"`
		} `json:"claimDropRewards"`
	} `json:"data"`
}

// ClaimDrop issues a single claim request for the given drop instance and
// returns the interpreted result. One call, one request; no retries.
func (c *Client) ClaimDrop(ctx context.Context, dropInstanceID string) (*models.ClaimResult, error) {
	op := GQLOperations["ClaimDrop"].WithVariables(map[string]interface{}{
		"input": map[string]interface{}{"dropInstanceID": dropInstanceID},
	})

	var resp claimDropResponse
	if err := c.gqlRequest(ctx, op, &resp); err != nil {
		return nil, apperrors.NewTwitchAPIError("ClaimDrop", err)
	}

	result := &models.ClaimResult{}
	for _, raw := range resp.Data.Errors {
		var msg string
		if err := json.Unmarshal(raw, &msg); err != nil {
			msg = string(raw)
		}
		result.Errors = append(result.Errors, msg)
	}
	if resp.Data.ClaimDropRewards != nil {
		result.Found = true
		result.Status = resp.Data.ClaimDropRewards.Status
	}

	c.log.Debug().
		Str("drop_instance_id", dropInstanceID).
		Str("status", result.Status).
		Int("errors", len(result.Errors)).
		Msg("Claim request completed")

	return result, nil
}

type inventoryResponse struct {
	Data struct {
		CurrentUser struct {
			Inventory struct {
				DropCampaignsInProgress []models.CampaignData `json:"dropCampaignsInProgress"`
			} `json:"inventory"`
		} `json:"currentUser"`
	} `json:"data"`
}

// Inventory fetches the raw campaign snapshot for the authenticated user.
func (c *Client) Inventory(ctx context.Context) ([]models.CampaignData, error) {
	var resp inventoryResponse
	if err := c.gqlRequest(ctx, GQLOperations["Inventory"], &resp); err != nil {
		return nil, apperrors.NewTwitchAPIError("Inventory", err)
	}

	campaigns := resp.Data.CurrentUser.Inventory.DropCampaignsInProgress
	c.log.Debug().Int("campaigns", len(campaigns)).Msg("Inventory fetched")
	return campaigns, nil
}

func (c *Client) gqlRequest(ctx context.Context, op GQLOperation, out interface{}) error {
	body, err := json.Marshal(op)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gqlURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("Authorization", "OAuth "+c.oauthToken)
	req.Header.Set("X-Device-Id", c.deviceID)
	req.Header.Set("Client-Session-Id", c.sessionID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gql %s: unexpected status %d", op.OperationName, resp.StatusCode)
	}

	dec := json.NewDecoder(resp.Body)
	return dec.Decode(out)
}
