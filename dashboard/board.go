package dashboard

import (
	"time"

	"github.com/pipedeck/pipedeck/database"
)

// BoardColumns is the fixed display order of the task board.
var BoardColumns = []database.Status{
	database.StatusTodo,
	database.StatusInProgress,
	database.StatusBlocked,
	database.StatusDone,
}

// BoardColumn is one column of the task board.
type BoardColumn struct {
	Status database.Status `json:"status"`
	Tasks  []database.Task `json:"tasks"`
}

// PartitionBoard splits tasks into the four board columns, preserving the
// input order within each column. Every task lands in exactly one column;
// a task with an unknown status is shelved under todo rather than dropped,
// so the partition stays total.
func PartitionBoard(tasks []database.Task) []BoardColumn {
	byStatus := make(map[database.Status][]database.Task, len(BoardColumns))
	for _, status := range BoardColumns {
		byStatus[status] = []database.Task{}
	}
	for _, t := range tasks {
		status := t.Status
		if !status.IsValid() {
			status = database.StatusTodo
		}
		byStatus[status] = append(byStatus[status], t)
	}

	columns := make([]BoardColumn, 0, len(BoardColumns))
	for _, status := range BoardColumns {
		columns = append(columns, BoardColumn{Status: status, Tasks: byStatus[status]})
	}
	return columns
}

// dueDateLayout is the date-only format tasks carry; there is no
// time-of-day component.
const dueDateLayout = "2006-01-02"

// OverdueTasks returns tasks whose due date is strictly before today and
// whose status is not terminal. Tasks without a due date, or with one that
// does not parse, are never overdue.
func OverdueTasks(now time.Time, tasks []database.Task) []database.Task {
	today := truncateToDate(now)
	overdue := []database.Task{}
	for _, t := range tasks {
		if t.DueDate == nil || t.Status.IsTerminal() {
			continue
		}
		due, err := time.ParseInLocation(dueDateLayout, *t.DueDate, time.UTC)
		if err != nil {
			continue
		}
		if due.Before(today) {
			overdue = append(overdue, t)
		}
	}
	return overdue
}

// CompletionRatio is the fraction of tasks that are done, 0 for an empty
// list. Used for the per-account progress display.
func CompletionRatio(tasks []database.Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Status.IsTerminal() {
			done++
		}
	}
	return float64(done) / float64(len(tasks))
}

func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
