// Package dashboard derives the view models shown on the dashboard from
// raw account, stage and task lists. Everything here is a pure function
// over an immutable snapshot of the input collections; derivations re-run
// on every data refresh and hold no state.
package dashboard

import "github.com/pipedeck/pipedeck/database"

// HealthTier buckets an account's health score for display.
type HealthTier string

const (
	TierHealthy  HealthTier = "healthy"
	TierWeak     HealthTier = "weak"
	TierCritical HealthTier = "critical"
)

// DefaultHealthScore is assumed when an account has no score yet.
const DefaultHealthScore = 50

// EffectiveScore resolves a possibly-absent health score to its displayed
// value: missing scores read as the neutral default, out-of-range scores
// are clamped to [0, 100].
func EffectiveScore(score *int) int {
	if score == nil {
		return DefaultHealthScore
	}
	v := *score
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ClassifyHealth maps a health score to its tier. This is the single
// source of truth for health bucketing, so badge colors and dashboard
// counts can never disagree.
func ClassifyHealth(score *int) HealthTier {
	switch v := EffectiveScore(score); {
	case v >= 70:
		return TierHealthy
	case v >= 40:
		return TierWeak
	default:
		return TierCritical
	}
}

// HealthBuckets holds per-tier account counts.
type HealthBuckets struct {
	Healthy  int `json:"healthy"`
	Weak     int `json:"weak"`
	Critical int `json:"critical"`
}

// CountHealthBuckets tallies accounts per health tier.
func CountHealthBuckets(accounts []database.Account) HealthBuckets {
	var buckets HealthBuckets
	for _, a := range accounts {
		switch ClassifyHealth(a.HealthScore) {
		case TierHealthy:
			buckets.Healthy++
		case TierWeak:
			buckets.Weak++
		case TierCritical:
			buckets.Critical++
		}
	}
	return buckets
}
