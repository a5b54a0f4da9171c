package chat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"moodmix/internal/models"
	"moodmix/internal/redis"
)

// WelcomeMessage seeds every new session so a session is never empty.
const WelcomeMessage = "Welcome to MoodMix! How are you feeling today?"

const defaultSessionTitle = "New Conversation"

// Service owns session and message persistence plus the per-session
// conversation-context cache.
type Service struct {
	db    *sql.DB
	cache *redis.Client
}

func NewService(db *sql.DB, cache *redis.Client) (*Service, error) {
	if db == nil {
		return nil, errors.New("database handle is required")
	}
	return &Service{db: db, cache: cache}, nil
}

// CreateSession inserts a new session seeded with the welcome message and
// returns both.
func (s *Service) CreateSession(ctx context.Context) (*models.Session, *models.Message, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (title, created_at, updated_at) VALUES (?, ?, ?)`,
		defaultSessionTitle, now, now,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, nil, fmt.Errorf("session id: %w", err)
	}
	session := &models.Session{ID: id, Title: defaultSessionTitle, CreatedAt: now, UpdatedAt: now}

	welcome, err := s.AppendMessage(ctx, id, models.RoleAssistant, WelcomeMessage)
	if err != nil {
		return nil, nil, err
	}
	return session, welcome, nil
}

// ListSessions returns all sessions ordered by last activity.
func (s *Service) ListSessions(ctx context.Context) ([]models.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, created_at, updated_at FROM sessions ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var se models.Session
		if err := rows.Scan(&se.ID, &se.Title, &se.CreatedAt, &se.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, se)
	}
	return sessions, rows.Err()
}

// GetSessionWithMessages returns one session and its ordered messages.
func (s *Service) GetSessionWithMessages(ctx context.Context, sessionID int64) (*models.Session, []*models.Message, error) {
	var session models.Session
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, created_at, updated_at FROM sessions WHERE id = ?`,
		sessionID,
	).Scan(&session.ID, &session.Title, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("get session: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, role, content, created_at FROM messages WHERE session_id = ? ORDER BY created_at ASC, id ASC`,
		sessionID,
	)
	if err != nil {
		return &session, nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		m := new(models.Message)
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return &session, nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return &session, messages, rows.Err()
}

// AppendMessage stores a new message and bumps the session's updated_at.
// Messages are immutable once written; the log is append-only.
func (s *Service) AppendMessage(ctx context.Context, sessionID int64, role models.Role, content string) (*models.Message, error) {
	if sessionID <= 0 {
		return nil, errors.New("session_id is required")
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (session_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		sessionID, role, content, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("message id: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE sessions SET updated_at = ? WHERE id = ?`, now, sessionID); err != nil {
		return nil, fmt.Errorf("touch session: %w", err)
	}
	return &models.Message{ID: id, SessionID: sessionID, Role: role, Content: content, CreatedAt: now}, nil
}

// DeleteSession removes a session and all related messages, plus its cached
// context.
func (s *Service) DeleteSession(ctx context.Context, sessionID int64) error {
	if sessionID <= 0 {
		return errors.New("invalid session id")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("session rows affected: %w", err)
	}
	if affected == 0 {
		tx.Rollback()
		return sql.ErrNoRows
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete session: %w", err)
	}
	s.InvalidateContext(ctx, sessionID)
	return nil
}

// CountSessions reports how many sessions exist.
func (s *Service) CountSessions(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return count, nil
}

// UpdateSessionTitle sets a session title.
func (s *Service) UpdateSessionTitle(ctx context.Context, sessionID int64, title string) error {
	if sessionID <= 0 {
		return errors.New("invalid session id")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("title cannot be empty")
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET title = ? WHERE id = ?`,
		title, sessionID,
	)
	if err != nil {
		return fmt.Errorf("update session title: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("session rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// HasDefaultTitle reports whether the session still carries the title given
// at creation time.
func (s *Service) HasDefaultTitle(ctx context.Context, sessionID int64) (bool, error) {
	var title string
	if err := s.db.QueryRowContext(ctx, `SELECT title FROM sessions WHERE id = ?`, sessionID).Scan(&title); err != nil {
		return false, err
	}
	return title == defaultSessionTitle, nil
}
