package service

import (
	"context"
	"fmt"
	"log/slog"
)

// DumpUsers logs the user table at debug level, one line per user.
func (m *Marketplace) DumpUsers(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users, err := m.repo.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("service: dumping users: %w", err)
	}

	m.logger.DebugContext(ctx, "user table", slog.Int("count", len(users)))
	for _, u := range users {
		m.logger.DebugContext(ctx, "user",
			slog.Int64("id", u.ID),
			slog.String("email", u.Email),
			slog.String("name", u.Name),
			slog.String("passwordHash", u.PasswordHash),
		)
	}
	return nil
}

// DumpSessions logs the token table at debug level, one line per session.
func (m *Marketplace) DumpSessions(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions, err := m.repo.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("service: dumping sessions: %w", err)
	}

	m.logger.DebugContext(ctx, "session table", slog.Int("count", len(sessions)))
	for _, s := range sessions {
		m.logger.DebugContext(ctx, "session",
			slog.String("token", s.Token),
			slog.Int64("userID", s.UserID),
		)
	}
	return nil
}
