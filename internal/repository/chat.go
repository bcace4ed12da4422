package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/finassist/finance-service/internal/models"
)

// ErrSessionNotFound is returned when a chat session does not exist or
// belongs to another owner.
var ErrSessionNotFound = errors.New("session not found")

// CreateSession stores a new chat session.
func (r *Repository) CreateSession(session *models.ChatSession) error {
	err := r.db.QueryRow(`
		INSERT INTO sessions (id, user_id, title)
		VALUES ($1, $2, $3)
		RETURNING created_at`,
		session.ID, session.UserID, session.Title).
		Scan(&session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// SessionByID loads a chat session scoped to its owner.
func (r *Repository) SessionByID(ownerID int64, sessionID string) (*models.ChatSession, error) {
	s := &models.ChatSession{}
	err := r.db.QueryRow(`
		SELECT id, user_id, title, created_at
		FROM sessions
		WHERE id = $1 AND user_id = $2`, sessionID, ownerID).
		Scan(&s.ID, &s.UserID, &s.Title, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return s, nil
}

// AddMessage appends one message to a session.
func (r *Repository) AddMessage(msg *models.ChatMessage) error {
	err := r.db.QueryRow(`
		INSERT INTO messages (session_id, role, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		msg.SessionID, msg.Role, msg.Content).
		Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add message: %w", err)
	}
	return nil
}

// MessagesBySession returns a session's messages in order.
func (r *Repository) MessagesBySession(sessionID string) ([]models.ChatMessage, error) {
	rows, err := r.db.Query(`
		SELECT id, session_id, role, content, created_at
		FROM messages
		WHERE session_id = $1
		ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var out []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
