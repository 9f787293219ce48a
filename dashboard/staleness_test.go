package dashboard

import (
	"testing"
	"time"

	"github.com/pipedeck/pipedeck/database"
)

func touchedAgo(now time.Time, d time.Duration) *time.Time {
	t := now.Add(-d)
	return &t
}

func TestStaleAccounts(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		threshold int
		accounts  []database.Account
		wantNames []string
	}{
		{
			name:      "never touched is never stale",
			threshold: 14,
			accounts: []database.Account{
				{CompanyName: "Untouched", LastTouchedAt: nil},
			},
			wantNames: []string{},
		},
		{
			name:      "exactly at threshold is not stale",
			threshold: 14,
			accounts: []database.Account{
				{CompanyName: "Border", LastTouchedAt: touchedAgo(now, 14*24*time.Hour)},
			},
			wantNames: []string{},
		},
		{
			name:      "one day past threshold is stale",
			threshold: 14,
			accounts: []database.Account{
				{CompanyName: "Idle", LastTouchedAt: touchedAgo(now, 15*24*time.Hour)},
			},
			wantNames: []string{"Idle"},
		},
		{
			name:      "partial day does not count",
			threshold: 14,
			accounts: []database.Account{
				// 14 days and 12 hours elapsed: floor is 14, not > 14.
				{CompanyName: "Almost", LastTouchedAt: touchedAgo(now, 14*24*time.Hour+12*time.Hour)},
			},
			wantNames: []string{},
		},
		{
			name:      "zero threshold stales every touched account",
			threshold: 0,
			accounts: []database.Account{
				{CompanyName: "Fresh", LastTouchedAt: touchedAgo(now, 25*time.Hour)},
				{CompanyName: "Untouched", LastTouchedAt: nil},
			},
			wantNames: []string{"Fresh"},
		},
		{
			name:      "negative threshold still excludes untouched",
			threshold: -1,
			accounts: []database.Account{
				{CompanyName: "Untouched", LastTouchedAt: nil},
				{CompanyName: "Recent", LastTouchedAt: touchedAgo(now, time.Hour)},
			},
			wantNames: []string{"Recent"},
		},
		{
			name:      "sorted most stale first",
			threshold: 14,
			accounts: []database.Account{
				{CompanyName: "Older", LastTouchedAt: touchedAgo(now, 20*24*time.Hour)},
				{CompanyName: "Oldest", LastTouchedAt: touchedAgo(now, 40*24*time.Hour)},
				{CompanyName: "Old", LastTouchedAt: touchedAgo(now, 16*24*time.Hour)},
			},
			wantNames: []string{"Oldest", "Older", "Old"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stale := StaleAccounts(now, tt.threshold, tt.accounts)
			if len(stale) != len(tt.wantNames) {
				t.Fatalf("got %d stale accounts, want %d", len(stale), len(tt.wantNames))
			}
			for i, want := range tt.wantNames {
				if stale[i].Account.CompanyName != want {
					t.Errorf("stale[%d] = %q, want %q", i, stale[i].Account.CompanyName, want)
				}
			}
		})
	}
}

func TestStaleAccountsDaysIdle(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	accounts := []database.Account{
		{CompanyName: "Idle", LastTouchedAt: touchedAgo(now, 20*24*time.Hour+6*time.Hour)},
	}

	stale := StaleAccounts(now, 14, accounts)
	if len(stale) != 1 {
		t.Fatalf("got %d stale accounts, want 1", len(stale))
	}
	if stale[0].DaysIdle != 20 {
		t.Errorf("DaysIdle = %d, want 20", stale[0].DaysIdle)
	}
}

func TestStaleAccountsReturnsFullSet(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	accounts := make([]database.Account, 20)
	for i := range accounts {
		accounts[i] = database.Account{
			CompanyName:   "Stale",
			LastTouchedAt: touchedAgo(now, time.Duration(30+i)*24*time.Hour),
		}
	}

	// Truncation is the caller's job; the detector reports everything.
	if got := len(StaleAccounts(now, 14, accounts)); got != 20 {
		t.Errorf("got %d stale accounts, want 20", got)
	}
}
