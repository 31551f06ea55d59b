package service

import "github.com/rd-risk-mcp-server/internal/domain"

// Tier thresholds, lower-inclusive
const (
	ModerateThreshold = 5
	HighThreshold     = 10
	VeryHighThreshold = 15
)

// Classify assigns the urgency tier. The emergency override forces VERY_HIGH regardless of points.
func Classify(points int, emergencyOverride bool) domain.Tier {
	switch {
	case emergencyOverride, points >= VeryHighThreshold:
		return domain.VERY_HIGH
	case points >= HighThreshold:
		return domain.HIGH
	case points >= ModerateThreshold:
		return domain.MODERATE
	default:
		return domain.LOW
	}
}
