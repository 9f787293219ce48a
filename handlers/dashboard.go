package handlers

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/pipedeck/pipedeck/dashboard"
	"github.com/pipedeck/pipedeck/database"
)

// Display truncation limits for the dashboard lists. The derivations
// return full sets; only the response is capped.
const (
	staleDisplayLimit   = 8
	overdueDisplayLimit = 6
)

// DashboardHandler serves the aggregated dashboard view model.
type DashboardHandler struct {
	dataService    *database.DataService
	staleThreshold int
}

func NewDashboardHandler(dataService *database.DataService) *DashboardHandler {
	threshold := dashboard.DefaultStaleThresholdDays
	if v := os.Getenv("STALE_THRESHOLD_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			threshold = parsed
		}
	}

	return &DashboardHandler{
		dataService:    dataService,
		staleThreshold: threshold,
	}
}

// dashboardView bundles every derived aggregate the dashboard page shows.
type dashboardView struct {
	Stats         dashboard.Stats          `json:"stats"`
	HealthBuckets dashboard.HealthBuckets  `json:"healthBuckets"`
	Distribution  []dashboard.StageCount   `json:"distribution"`
	StaleAccounts []dashboard.StaleAccount `json:"staleAccounts"`
	OverdueTasks  []database.Task          `json:"overdueTasks"`
}

// Get recomputes the dashboard aggregates from a fresh snapshot of the
// user's collections. Derivations are pure, so there is nothing to cache
// or invalidate here.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	accounts, err := h.dataService.ListAccounts(userID, database.AccountFilter{})
	if err != nil {
		respondStoreError(w, "listing accounts", err)
		return
	}
	stages, err := h.dataService.ListStages(userID)
	if err != nil {
		respondStoreError(w, "listing stages", err)
		return
	}
	tasks, err := h.dataService.ListTasks(userID)
	if err != nil {
		respondStoreError(w, "listing tasks", err)
		return
	}

	now := time.Now()
	stale := dashboard.StaleAccounts(now, h.staleThreshold, accounts)
	overdue := dashboard.OverdueTasks(now, tasks)

	respondJSON(w, dashboardView{
		Stats:         dashboard.Summarize(now, h.staleThreshold, accounts, tasks),
		HealthBuckets: dashboard.CountHealthBuckets(accounts),
		Distribution:  dashboard.StageDistribution(stages, accounts),
		StaleAccounts: truncateStale(stale, staleDisplayLimit),
		OverdueTasks:  truncateTasks(overdue, overdueDisplayLimit),
	})
}

func truncateStale(stale []dashboard.StaleAccount, limit int) []dashboard.StaleAccount {
	if len(stale) > limit {
		return stale[:limit]
	}
	return stale
}

func truncateTasks(tasks []database.Task, limit int) []database.Task {
	if len(tasks) > limit {
		return tasks[:limit]
	}
	return tasks
}
