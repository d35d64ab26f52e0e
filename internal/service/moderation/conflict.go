package moderation

import (
	"akses-lakbay/internal/domain"
	"akses-lakbay/internal/pkg/geo"
)

// FindConflict scans the approved set and returns the report nearest to the
// candidate strictly inside radiusM meters, or nil when none qualifies.
// Nearest distance wins; exact ties break on the earliest review timestamp,
// so the result never depends on iteration order.
func FindConflict(candidate geo.Coordinate, approved []domain.Report, radiusM float64) *domain.Report {
	var best *domain.Report
	var bestDist float64

	for i := range approved {
		d := geo.DistanceMeters(candidate, approved[i].Coordinate())
		if d >= radiusM {
			continue
		}
		if best == nil || d < bestDist {
			best = &approved[i]
			bestDist = d
			continue
		}
		if d == bestDist && reviewedEarlier(&approved[i], best) {
			best = &approved[i]
		}
	}

	return best
}

func reviewedEarlier(a, b *domain.Report) bool {
	if a.ReviewedAt == nil || b.ReviewedAt == nil {
		return false
	}
	return a.ReviewedAt.Before(*b.ReviewedAt)
}
