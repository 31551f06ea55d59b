// Package counter keeps aggregate totals of completed assessments, overall and per urgency tier.
// Only counts are stored; answers and outcomes of individual assessments never reach a backend.
package counter

import (
	"context"

	"github.com/rd-risk-mcp-server/internal/domain"
)

// Pinger is implemented by stores backed by an external service
type Pinger interface {
	Ping(ctx context.Context) error
}

// newTotals returns totals with every tier present and zeroed
func newTotals() *domain.CounterTotals {
	totals := &domain.CounterTotals{ByTier: make(map[domain.Tier]int64, len(domain.AllTiers))}
	for _, t := range domain.AllTiers {
		totals.ByTier[t] = 0
	}
	return totals
}

// addTier folds one stored row into the totals, skipping tiers this build does not know
func addTier(totals *domain.CounterTotals, tier string, count int64) {
	t, err := domain.ParseTier(tier)
	if err != nil {
		return
	}
	totals.ByTier[t] += count
	totals.Total += count
}

func validTier(tier domain.Tier) error {
	if !tier.IsValid() {
		return domain.ErrInvalidTier
	}
	return nil
}
