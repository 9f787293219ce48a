package dashboard

import "github.com/pipedeck/pipedeck/database"

// StageCount is one bar in the pipeline distribution: a stage, how many
// accounts sit in it, and that count as a fraction of all accounts.
type StageCount struct {
	Stage database.PipelineStage `json:"stage"`
	Count int                    `json:"count"`
	Ratio float64                `json:"ratio"`
}

// StageDistribution counts accounts per pipeline stage, preserving the
// given stage order. Stages with no accounts appear with count 0. Accounts
// with no stage, or referencing a stage not in the list, are counted in no
// bucket, so counts may under-sum the account total. Ratio is against the
// full account count and is 0 when there are no accounts.
func StageDistribution(stages []database.PipelineStage, accounts []database.Account) []StageCount {
	counts := make(map[string]int, len(stages))
	for _, a := range accounts {
		if a.PipelineStageID != nil {
			counts[*a.PipelineStageID]++
		}
	}

	total := len(accounts)
	distribution := make([]StageCount, 0, len(stages))
	for _, stage := range stages {
		count := counts[stage.ID]
		ratio := 0.0
		if total > 0 {
			ratio = float64(count) / float64(total)
		}
		distribution = append(distribution, StageCount{Stage: stage, Count: count, Ratio: ratio})
	}
	return distribution
}
