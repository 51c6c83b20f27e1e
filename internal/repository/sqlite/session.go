package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/marketplace/internal/apperror"
	"github.com/sakif/marketplace/internal/model"
)

func (db *DB) CreateSession(ctx context.Context, session *model.Session) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		known, err := exists(ctx, tx, `SELECT 1 FROM users WHERE id = ?`, session.UserID)
		if err != nil {
			return fmt.Errorf("sqlite: checking user %d: %w", session.UserID, err)
		}
		if !known {
			return apperror.NotFound("user", session.UserID)
		}

		taken, err := exists(ctx, tx, `SELECT 1 FROM sessions WHERE token = ?`, session.Token)
		if err != nil {
			return fmt.Errorf("sqlite: checking session token: %w", err)
		}
		if taken {
			return apperror.Conflict("session", session.Token)
		}

		createdAt := time.Now().UTC()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (token, user_id, created_at) VALUES (?, ?, ?)`,
			session.Token, session.UserID, createdAt,
		); err != nil {
			return fmt.Errorf("sqlite: inserting session for user %d: %w", session.UserID, err)
		}

		session.CreatedAt = createdAt
		return nil
	})
}

func (db *DB) GetSession(ctx context.Context, token string) (*model.Session, error) {
	var s model.Session
	err := db.conn.QueryRowContext(ctx,
		`SELECT token, user_id, created_at FROM sessions WHERE token = ?`, token,
	).Scan(&s.Token, &s.UserID, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("session", token)
		}
		return nil, fmt.Errorf("sqlite: getting session: %w", err)
	}
	return &s, nil
}

// ListSessions returns sessions in creation order.
func (db *DB) ListSessions(ctx context.Context) ([]model.Session, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT token, user_id, created_at FROM sessions ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing sessions: %w", err)
	}
	defer rows.Close()

	sessions := []model.Session{}
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.Token, &s.UserID, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating sessions: %w", err)
	}
	return sessions, nil
}
