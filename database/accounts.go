package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const accountColumns = `id, user_id, company_name, contact_name, contact_email,
	contact_phone, website, industry, pipeline_stage_id, health_score,
	last_touched_at, notes, created_at, updated_at`

// AccountFilter narrows an account listing. Zero values mean "no filter".
type AccountFilter struct {
	Search  string // case-insensitive substring match on company name
	StageID string // exact pipeline stage match
}

// NewAccount carries the fields a client may set when creating an account.
type NewAccount struct {
	CompanyName     string  `json:"companyName"`
	ContactName     *string `json:"contactName"`
	ContactEmail    *string `json:"contactEmail"`
	ContactPhone    *string `json:"contactPhone"`
	Website         *string `json:"website"`
	Industry        *string `json:"industry"`
	PipelineStageID *string `json:"pipelineStageId"`
	HealthScore     *int    `json:"healthScore"`
	Notes           *string `json:"notes"`
}

// AccountUpdate is a partial update; nil fields are left unchanged.
type AccountUpdate struct {
	CompanyName     *string    `json:"companyName"`
	ContactName     *string    `json:"contactName"`
	ContactEmail    *string    `json:"contactEmail"`
	ContactPhone    *string    `json:"contactPhone"`
	Website         *string    `json:"website"`
	Industry        *string    `json:"industry"`
	PipelineStageID *string    `json:"pipelineStageId"`
	HealthScore     *int       `json:"healthScore"`
	LastTouchedAt   *time.Time `json:"lastTouchedAt"`
	Notes           *string    `json:"notes"`
}

func scanAccount(row interface{ Scan(...any) error }) (*Account, error) {
	var (
		a                                                          Account
		contactName, contactEmail, contactPhone, website, industry sql.NullString
		stageID, notes                                             sql.NullString
		healthScore                                                sql.NullInt64
		lastTouchedAt                                              sql.NullTime
	)
	err := row.Scan(&a.ID, &a.UserID, &a.CompanyName, &contactName, &contactEmail,
		&contactPhone, &website, &industry, &stageID, &healthScore,
		&lastTouchedAt, &notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.ContactName = stringPtr(contactName)
	a.ContactEmail = stringPtr(contactEmail)
	a.ContactPhone = stringPtr(contactPhone)
	a.Website = stringPtr(website)
	a.Industry = stringPtr(industry)
	a.PipelineStageID = stringPtr(stageID)
	a.HealthScore = intPtr(healthScore)
	a.LastTouchedAt = timePtr(lastTouchedAt)
	a.Notes = stringPtr(notes)
	return &a, nil
}

// ListAccounts returns the user's accounts ordered by company name,
// optionally narrowed by filter.
func (s *DataService) ListAccounts(userID string, filter AccountFilter) ([]Account, error) {
	query := "SELECT " + accountColumns + " FROM accounts WHERE user_id = ?"
	args := []any{userID}

	if filter.Search != "" {
		query += " AND company_name LIKE '%' || ? || '%' COLLATE NOCASE"
		args = append(args, filter.Search)
	}
	if filter.StageID != "" {
		query += " AND pipeline_stage_id = ?"
		args = append(args, filter.StageID)
	}
	query += " ORDER BY company_name COLLATE NOCASE"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

// GetAccount returns one of the user's accounts by ID.
func (s *DataService) GetAccount(userID, id string) (*Account, error) {
	row := s.db.QueryRow(
		"SELECT "+accountColumns+" FROM accounts WHERE id = ? AND user_id = ?", id, userID)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return a, nil
}

// CreateAccount inserts a new account for the user and returns it.
func (s *DataService) CreateAccount(userID string, in NewAccount) (*Account, error) {
	if strings.TrimSpace(in.CompanyName) == "" {
		return nil, ErrCompanyNameRequired
	}

	id := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO accounts (id, user_id, company_name, contact_name, contact_email,
			contact_phone, website, industry, pipeline_stage_id, health_score, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, in.CompanyName, nullString(in.ContactName), nullString(in.ContactEmail),
		nullString(in.ContactPhone), nullString(in.Website), nullString(in.Industry),
		nullString(in.PipelineStageID), nullInt(clampScore(in.HealthScore)), nullString(in.Notes))
	if err != nil {
		return nil, fmt.Errorf("failed to insert account: %w", err)
	}

	return s.GetAccount(userID, id)
}

// UpdateAccount applies a partial update to one of the user's accounts and
// returns the updated record. Omitted fields are untouched.
func (s *DataService) UpdateAccount(userID, id string, update AccountUpdate) (*Account, error) {
	sets := []string{}
	args := []any{}

	if update.CompanyName != nil {
		if strings.TrimSpace(*update.CompanyName) == "" {
			return nil, ErrCompanyNameRequired
		}
		sets = append(sets, "company_name = ?")
		args = append(args, *update.CompanyName)
	}
	if update.ContactName != nil {
		sets = append(sets, "contact_name = ?")
		args = append(args, *update.ContactName)
	}
	if update.ContactEmail != nil {
		sets = append(sets, "contact_email = ?")
		args = append(args, *update.ContactEmail)
	}
	if update.ContactPhone != nil {
		sets = append(sets, "contact_phone = ?")
		args = append(args, *update.ContactPhone)
	}
	if update.Website != nil {
		sets = append(sets, "website = ?")
		args = append(args, *update.Website)
	}
	if update.Industry != nil {
		sets = append(sets, "industry = ?")
		args = append(args, *update.Industry)
	}
	if update.PipelineStageID != nil {
		sets = append(sets, "pipeline_stage_id = ?")
		args = append(args, *update.PipelineStageID)
	}
	if update.HealthScore != nil {
		sets = append(sets, "health_score = ?")
		args = append(args, *clampScore(update.HealthScore))
	}
	if update.LastTouchedAt != nil {
		sets = append(sets, "last_touched_at = ?")
		args = append(args, *update.LastTouchedAt)
	}
	if update.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *update.Notes)
	}

	if len(sets) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id, userID)

	result, err := s.db.Exec(
		"UPDATE accounts SET "+strings.Join(sets, ", ")+" WHERE id = ? AND user_id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return s.GetAccount(userID, id)
}
