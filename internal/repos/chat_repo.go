package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"shopmate/internal/domain"
)

type ChatRepo struct{ db *sqlx.DB }

func NewChatRepo(db *sqlx.DB) *ChatRepo { return &ChatRepo{db: db} }

// EnsureSession returns the chat session bound to token, creating it for userID.
func (r *ChatRepo) EnsureSession(token string, userID int64) (int64, error) {
	var id int64
	err := r.db.Get(&id, `SELECT id FROM chat_sessions WHERE session_token = ?`, token)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	res, err := r.db.Exec(`INSERT INTO chat_sessions(user_id, session_token) VALUES(?, ?)`, userID, token)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *ChatRepo) Append(sessionID int64, sender, message string) error {
	_, err := r.db.Exec(`
		INSERT INTO chat_messages(session_id, message, sender, timestamp)
		VALUES(?, ?, ?, CURRENT_TIMESTAMP)
	`, sessionID, message, sender)
	return err
}

// AppendPair stores a user message and the reply atomically.
func (r *ChatRepo) AppendPair(sessionID int64, userMsg, botMsg string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, m := range []struct{ sender, text string }{
		{domain.SenderUser, userMsg},
		{domain.SenderBot, botMsg},
	} {
		if _, err := tx.Exec(`
			INSERT INTO chat_messages(session_id, message, sender, timestamp)
			VALUES(?, ?, ?, CURRENT_TIMESTAMP)
		`, sessionID, m.text, m.sender); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Messages returns the session's history oldest first, stamped in UTC RFC 3339.
func (r *ChatRepo) Messages(sessionID int64) ([]domain.ChatMessage, error) {
	out := []domain.ChatMessage{}
	err := r.db.Select(&out, `
	  SELECT id, session_id, message, sender,
	         COALESCE(strftime('%Y-%m-%dT%H:%M:%SZ', timestamp),'') AS timestamp
	  FROM chat_messages
	  WHERE session_id = ?
	  ORDER BY chat_messages.timestamp, id
	`, sessionID)
	return out, err
}

func (r *ChatRepo) Clear(sessionID int64) error {
	_, err := r.db.Exec(`DELETE FROM chat_messages WHERE session_id = ?`, sessionID)
	return err
}
