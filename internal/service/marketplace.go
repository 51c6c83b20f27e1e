// Package service contains the business rules of the marketplace.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces ownership and stock rules
//	Repository (data layer)  → reads/writes users, sessions, stores, sales
//
// Marketplace is the registry: every operation goes through it. It takes a
// repository.Repository (interface), so the same rules run on the memory
// and sqlite backends and on fakes in tests.
//
// CONCURRENCY:
// One RWMutex guards the whole registry. Writers hold it across their
// check-then-commit sequence, so two concurrent CreateStore calls with the
// same name cannot both pass the uniqueness check.
//
// SESSIONS:
// Token-taking operations resolve the token exactly once through
// authenticate and pass the resulting *model.Session downstream. No code
// below that point looks the token up again.
package service

import (
	"log/slog"
	"sync"

	"github.com/sakif/marketplace/internal/auth"
	"github.com/sakif/marketplace/internal/repository"
)

// Validation limits.
const (
	MaxUserNameLength    = 100
	MaxStoreNameLength   = 100
	MaxProductNameLength = 100
)

// Marketplace is the registry holding users, sessions, stores and sales.
type Marketplace struct {
	mu sync.RWMutex

	repo      repository.Repository
	passwords *auth.PasswordService
	newToken  func() string
	logger    *slog.Logger
}

// NewMarketplace wires a Marketplace over repo. Session tokens come from
// auth.NewSessionToken.
func NewMarketplace(repo repository.Repository, passwords *auth.PasswordService, logger *slog.Logger) *Marketplace {
	return &Marketplace{
		repo:      repo,
		passwords: passwords,
		newToken:  auth.NewSessionToken,
		logger:    logger,
	}
}
