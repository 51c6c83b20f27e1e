package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/marketplace/internal/apperror"
	"github.com/sakif/marketplace/internal/auth"
	"github.com/sakif/marketplace/internal/model"
)

// Register creates an account keyed by email.
//
// Fails with apperror.ErrConflict if the email is already registered and
// apperror.ErrValidation for missing fields or an over-long password. The
// password is stored only as a bcrypt hash.
func (m *Marketplace) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if !strings.Contains(email, "@") {
		return nil, apperror.ValidationFailed("email", "email must contain @")
	}
	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if len(name) > MaxUserNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("name must be %d characters or less", MaxUserNameLength))
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	// Hash outside the registry lock.
	hash, err := m.passwords.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperror.ValidationFailed("password",
				fmt.Sprintf("password must be %d bytes or fewer", auth.MaxPasswordBytes))
		}
		return nil, fmt.Errorf("service: hashing password: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}
	if err := m.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service: registering %s: %w", email, err)
	}

	m.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("email", user.Email),
	)
	return user, nil
}

// Login checks the credentials and opens a new session.
//
// Unknown email and wrong password both fail with apperror.ErrUnauthorized
// and create no session. Every successful login mints a fresh token; earlier
// tokens of the same user stay valid.
func (m *Marketplace) Login(ctx context.Context, email, password string) (*model.Session, error) {
	email = strings.TrimSpace(email)

	m.mu.RLock()
	user, err := m.repo.GetUserByEmail(ctx, email)
	m.mu.RUnlock()
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			m.logger.Info("login rejected", slog.String("email", email), slog.String("reason", "unknown email"))
			return nil, apperror.Unauthorized("invalid email or password")
		}
		return nil, fmt.Errorf("service: looking up %s: %w", email, err)
	}

	if err := m.passwords.Verify(user.PasswordHash, password); err != nil {
		m.logger.Info("login rejected", slog.String("email", email), slog.String("reason", "bad password"))
		return nil, apperror.Unauthorized("invalid email or password")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	session := &model.Session{Token: m.newToken(), UserID: user.ID}
	if err := m.repo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("service: opening session for user %d: %w", user.ID, err)
	}

	m.logger.Info("user logged in", slog.Int64("userID", user.ID))
	return session, nil
}

// TokenValid reports whether token names an open session.
func (m *Marketplace) TokenValid(ctx context.Context, token string) bool {
	_, err := m.Authenticate(ctx, token)
	if err != nil && !errors.Is(err, apperror.ErrUnauthorized) {
		m.logger.Warn("token check failed", slog.String("error", err.Error()))
	}
	return err == nil
}

// Authenticate resolves token to its session. Unknown or empty tokens fail
// with apperror.ErrUnauthorized. It satisfies auth.SessionResolver.
func (m *Marketplace) Authenticate(ctx context.Context, token string) (*model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.authenticate(ctx, token)
}

// authenticate is Authenticate for callers already holding the lock.
func (m *Marketplace) authenticate(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, apperror.Unauthorized("session token is required")
	}
	session, err := m.repo.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid session token")
		}
		return nil, fmt.Errorf("service: resolving session: %w", err)
	}
	return session, nil
}
