package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const taskColumns = `id, user_id, account_id, title, description, due_date,
	priority, status, created_at, updated_at`

// NewTask carries the fields a client may set when creating a task.
type NewTask struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	AccountID   *string  `json:"accountId"`
	DueDate     *string  `json:"dueDate"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status"`
}

// TaskUpdate is a partial update; nil fields are left unchanged.
type TaskUpdate struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	AccountID   *string   `json:"accountId"`
	DueDate     *string   `json:"dueDate"`
	Priority    *Priority `json:"priority"`
	Status      *Status   `json:"status"`
}

func scanTask(row interface{ Scan(...any) error }) (*Task, error) {
	var (
		t                              Task
		accountID, description, dueDate sql.NullString
	)
	err := row.Scan(&t.ID, &t.UserID, &accountID, &t.Title, &description,
		&dueDate, &t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.AccountID = stringPtr(accountID)
	t.Description = stringPtr(description)
	t.DueDate = stringPtr(dueDate)
	return &t, nil
}

// ListTasks returns the user's tasks ordered by creation time, newest first.
func (s *DataService) ListTasks(userID string) ([]Task, error) {
	rows, err := s.db.Query(
		"SELECT "+taskColumns+" FROM tasks WHERE user_id = ? ORDER BY created_at DESC, id DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

// ListTasksForAccount returns the user's tasks linked to one account,
// newest first.
func (s *DataService) ListTasksForAccount(userID, accountID string) ([]Task, error) {
	rows, err := s.db.Query(
		"SELECT "+taskColumns+" FROM tasks WHERE user_id = ? AND account_id = ? ORDER BY created_at DESC, id DESC",
		userID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query account tasks: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

func collectTasks(rows *sql.Rows) ([]Task, error) {
	tasks := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// GetTask returns one of the user's tasks by ID.
func (s *DataService) GetTask(userID, id string) (*Task, error) {
	row := s.db.QueryRow(
		"SELECT "+taskColumns+" FROM tasks WHERE id = ? AND user_id = ?", id, userID)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query task: %w", err)
	}
	return t, nil
}

// CreateTask inserts a new task for the user and returns it. Priority and
// status default to medium/todo when empty.
func (s *DataService) CreateTask(userID string, in NewTask) (*Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if !in.Priority.IsValid() {
		return nil, ErrInvalidPriority
	}
	if in.Status == "" {
		in.Status = StatusTodo
	}
	if !in.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	id := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO tasks (id, user_id, account_id, title, description, due_date, priority, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, nullString(in.AccountID), in.Title, nullString(in.Description),
		nullString(in.DueDate), in.Priority, in.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}

	return s.GetTask(userID, id)
}

// UpdateTask applies a partial update to one of the user's tasks and
// returns the updated record.
func (s *DataService) UpdateTask(userID, id string, update TaskUpdate) (*Task, error) {
	sets := []string{}
	args := []any{}

	if update.Title != nil {
		if strings.TrimSpace(*update.Title) == "" {
			return nil, ErrTitleRequired
		}
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *update.Description)
	}
	if update.AccountID != nil {
		sets = append(sets, "account_id = ?")
		args = append(args, *update.AccountID)
	}
	if update.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, *update.DueDate)
	}
	if update.Priority != nil {
		if !update.Priority.IsValid() {
			return nil, ErrInvalidPriority
		}
		sets = append(sets, "priority = ?")
		args = append(args, *update.Priority)
	}
	if update.Status != nil {
		if !update.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		sets = append(sets, "status = ?")
		args = append(args, *update.Status)
	}

	if len(sets) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id, userID)

	result, err := s.db.Exec(
		"UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ? AND user_id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return s.GetTask(userID, id)
}
