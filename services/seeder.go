package services

import (
	"fmt"
	"sync"

	"github.com/pipedeck/pipedeck/database"
)

// DefaultStages is the pipeline a new user starts with.
var DefaultStages = []database.NewStage{
	{Name: "Qualify", DisplayOrder: 0, Color: "#6366f1"},
	{Name: "Develop", DisplayOrder: 1, Color: "#f59e0b"},
	{Name: "Propose", DisplayOrder: 2, Color: "#3b82f6"},
	{Name: "Negotiate", DisplayOrder: 3, Color: "#8b5cf6"},
	{Name: "Close", DisplayOrder: 4, Color: "#22c55e"},
}

// StageSeeder creates the default pipeline for users who have no stages
// yet. At most one seed runs per user at a time; the stage list is
// re-checked inside the critical section, so overlapping triggers cannot
// produce overlapping default sets, and a user with any existing stage is
// never re-seeded. The batch insert is transactional, so a failed seed
// leaves zero stages and the next empty-list observation retries cleanly.
type StageSeeder struct {
	data *database.DataService

	mu       sync.Mutex
	inflight map[string]bool
}

func NewStageSeeder(data *database.DataService) *StageSeeder {
	return &StageSeeder{
		data:     data,
		inflight: make(map[string]bool),
	}
}

// EnsureDefaultStages seeds the default pipeline for the user if, and only
// if, they currently have no stages. It reports whether a seed happened.
// Returning (false, nil) means either the user already has stages or a
// seed is already in flight for them.
func (s *StageSeeder) EnsureDefaultStages(userID string) (bool, error) {
	s.mu.Lock()
	if s.inflight[userID] {
		s.mu.Unlock()
		return false, nil
	}
	s.inflight[userID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inflight, userID)
		s.mu.Unlock()
	}()

	// Re-check under the in-flight guard: any stage present means seeded,
	// whatever its origin.
	stages, err := s.data.ListStages(userID)
	if err != nil {
		return false, fmt.Errorf("failed to check existing stages: %w", err)
	}
	if len(stages) > 0 {
		return false, nil
	}

	if err := s.data.CreateStages(userID, DefaultStages); err != nil {
		return false, fmt.Errorf("failed to seed default stages: %w", err)
	}
	return true, nil
}
