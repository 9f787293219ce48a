package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// FindOrCreateUser returns the user for the given email, creating one on
// first login.
func (s *DataService) FindOrCreateUser(email string) (*User, error) {
	var user User
	err := s.db.QueryRow(
		"SELECT id, email, created_at FROM users WHERE email = ?", email,
	).Scan(&user.ID, &user.Email, &user.CreatedAt)
	if err == nil {
		return &user, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	id := uuid.NewString()
	if _, err := s.db.Exec("INSERT INTO users (id, email) VALUES (?, ?)", id, email); err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	err = s.db.QueryRow(
		"SELECT id, email, created_at FROM users WHERE id = ?", id,
	).Scan(&user.ID, &user.Email, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load created user: %w", err)
	}

	return &user, nil
}

// GetUser looks a user up by ID.
func (s *DataService) GetUser(id string) (*User, error) {
	var user User
	err := s.db.QueryRow(
		"SELECT id, email, created_at FROM users WHERE id = ?", id,
	).Scan(&user.ID, &user.Email, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}
