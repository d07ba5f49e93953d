package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Watch minutes credited to drops, partitioned by campaign.
	WatchMinutesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drops_watch_minutes_total",
			Help: "Total watch minutes credited toward drops",
		},
		[]string{"campaign"},
	)

	// Claim attempts partitioned by result (success / failure).
	ClaimsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drops_claims_total",
			Help: "Total drop claim attempts",
		},
		[]string{"result"},
	)

	// Snapshot refreshes partitioned by source (cache / remote / error).
	RefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_refreshes_total",
			Help: "Total inventory snapshot refreshes",
		},
		[]string{"source"},
	)

	// Mean progress per campaign, in [0, 1].
	CampaignProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "campaign_progress_ratio",
			Help: "Mean drop progress per campaign",
		},
		[]string{"campaign"},
	)

	// Drops still to claim per campaign.
	CampaignRemainingDrops = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "campaign_remaining_drops",
			Help: "Number of unclaimed drops per campaign",
		},
		[]string{"campaign"},
	)
)

// RecordClaim bumps the claim counter with the boolean outcome of an attempt.
func RecordClaim(granted bool) {
	result := "failure"
	if granted {
		result = "success"
	}
	ClaimsTotal.WithLabelValues(result).Inc()
}
