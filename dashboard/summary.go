package dashboard

import (
	"time"

	"github.com/pipedeck/pipedeck/database"
)

// Stats holds the headline numbers for the dashboard's stat cards.
type Stats struct {
	TotalAccounts  int `json:"totalAccounts"`
	StaleAccounts  int `json:"staleAccounts"`
	ActiveTasks    int `json:"activeTasks"`
	CompletedTasks int `json:"completedTasks"`
}

// Summarize computes the stat-card numbers from the current account and
// task lists.
func Summarize(now time.Time, staleThresholdDays int, accounts []database.Account, tasks []database.Task) Stats {
	stats := Stats{
		TotalAccounts: len(accounts),
		StaleAccounts: len(StaleAccounts(now, staleThresholdDays, accounts)),
	}
	for _, t := range tasks {
		if t.Status.IsTerminal() {
			stats.CompletedTasks++
		} else {
			stats.ActiveTasks++
		}
	}
	return stats
}
