package service

import "math"

// Percentage bounds of the display scale
const (
	MinPercentage = 1.0
	MaxPercentage = 90.0
)

// ToPercentage maps a point total onto a continuous 1-90 display scale. Each band boundary belongs
// to the lower band and the curve is continuous at 5, 10, 15, 20 and 25 points. Totals at or below
// zero map to the floor.
func ToPercentage(points int) float64 {
	p := float64(points)
	switch {
	case points <= 0:
		return MinPercentage
	case points <= 5:
		return 1 + (p/5)*7
	case points <= 10:
		return 8 + ((p-5)/5)*22
	case points <= 15:
		return 30 + ((p-10)/5)*30
	case points <= 20:
		return 60 + ((p-15)/5)*15
	case points <= 25:
		return 75 + ((p-20)/5)*10
	default:
		return math.Min(MaxPercentage, 85+(p-25)*0.5)
	}
}
