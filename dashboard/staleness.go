package dashboard

import (
	"sort"
	"time"

	"github.com/pipedeck/pipedeck/database"
)

// DefaultStaleThresholdDays is how long an account may go untouched
// before it needs attention.
const DefaultStaleThresholdDays = 14

// StaleAccount is an account flagged as needing attention, annotated
// with how many whole days it has gone untouched.
type StaleAccount struct {
	Account  database.Account `json:"account"`
	DaysIdle int              `json:"daysIdle"`
}

// StaleAccounts returns every account whose last-touched timestamp is more
// than thresholdDays whole days before now, most stale first. Accounts that
// were never touched cannot be judged stale and are excluded. The full set
// is returned; callers truncate for display.
func StaleAccounts(now time.Time, thresholdDays int, accounts []database.Account) []StaleAccount {
	stale := []StaleAccount{}
	for _, a := range accounts {
		if a.LastTouchedAt == nil {
			continue
		}
		days := wholeDaysSince(now, *a.LastTouchedAt)
		if days > thresholdDays {
			stale = append(stale, StaleAccount{Account: a, DaysIdle: days})
		}
	}
	sort.SliceStable(stale, func(i, j int) bool {
		return stale[i].DaysIdle > stale[j].DaysIdle
	})
	return stale
}

// wholeDaysSince reports the elapsed whole days from t to now.
// A future t yields a negative count, which never exceeds a threshold.
func wholeDaysSince(now, t time.Time) int {
	d := now.Sub(t)
	if d < 0 {
		return -int(-d / (24 * time.Hour))
	}
	return int(d / (24 * time.Hour))
}
