package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/marketplace/internal/apperror"
	"github.com/sakif/marketplace/internal/model"
)

// CreateStore opens a store owned by the caller.
//
// The owner is a copy of the caller's user record at this moment. Store
// names are unique by exact match; a taken name fails with
// apperror.ErrConflict.
func (m *Marketplace) CreateStore(ctx context.Context, token, name string) (*model.Store, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "store name is required")
	}
	if len(name) > MaxStoreNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("store name must be %d characters or less", MaxStoreNameLength))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	owner, err := m.repo.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("service: loading owner %d: %w", session.UserID, err)
	}

	store := &model.Store{Name: name, Owner: *owner}
	if err := m.repo.CreateStore(ctx, store); err != nil {
		return nil, fmt.Errorf("service: creating store %q: %w", name, err)
	}

	m.logger.Info("store created",
		slog.Int64("storeID", store.ID),
		slog.String("name", store.Name),
		slog.Int64("ownerID", owner.ID),
	)
	return store, nil
}

// IsOwner reports whether the session behind token owns storeID.
//
// It fails closed: an unknown store or an invalid token yields false with a
// nil error. A non-nil error means the storage layer failed.
func (m *Marketplace) IsOwner(ctx context.Context, token string, storeID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, err := m.authenticate(ctx, token)
	if err != nil {
		if errors.Is(err, apperror.ErrUnauthorized) {
			return false, nil
		}
		return false, err
	}

	_, err = m.requireOwner(ctx, session, storeID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperror.ErrNotFound), errors.Is(err, apperror.ErrForbidden):
		return false, nil
	default:
		return false, err
	}
}

// GetStore returns one store with its product slots.
func (m *Marketplace) GetStore(ctx context.Context, storeID int64) (*model.Store, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	store, err := m.repo.GetStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("service: getting store %d: %w", storeID, err)
	}
	return store, nil
}

// requireOwner loads storeID and checks it belongs to session's user.
// Unknown stores fail with apperror.ErrNotFound, foreign ones with
// apperror.ErrForbidden. Callers must hold the lock.
func (m *Marketplace) requireOwner(ctx context.Context, session *model.Session, storeID int64) (*model.Store, error) {
	store, err := m.repo.GetStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store.Owner.ID != session.UserID {
		return nil, apperror.Forbidden(
			fmt.Sprintf("user %d does not own store %d", session.UserID, storeID))
	}
	return store, nil
}
