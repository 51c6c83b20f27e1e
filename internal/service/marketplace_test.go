package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/marketplace/internal/auth"
	"github.com/sakif/marketplace/internal/model"
	"github.com/sakif/marketplace/internal/repository"
	"github.com/sakif/marketplace/internal/repository/memory"
	"github.com/sakif/marketplace/internal/repository/sqlite"
)

// =========================================================================
// FIXTURES
// =========================================================================

type backend struct {
	name string
	open func(t *testing.T) repository.Repository
}

var backends = []backend{
	{
		name: "memory",
		open: func(t *testing.T) repository.Repository { return memory.New() },
	},
	{
		name: "sqlite",
		open: func(t *testing.T) repository.Repository {
			t.Helper()
			db, err := sqlite.New()
			require.NoError(t, err)
			t.Cleanup(func() { db.Close() })
			return db
		},
	},
}

// forEachBackend runs fn once per storage backend with a fresh Marketplace.
func forEachBackend(t *testing.T, fn func(t *testing.T, m *Marketplace)) {
	t.Helper()
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			fn(t, newTestMarketplace(t, b.open(t), io.Discard))
		})
	}
}

// newTestMarketplace wires a Marketplace with the cheapest bcrypt cost and a
// debug-level logger writing to out. A nil out discards the log.
func newTestMarketplace(t *testing.T, repo repository.Repository, out io.Writer) *Marketplace {
	t.Helper()
	if out == nil {
		out = io.Discard
	}
	passwords, err := auth.NewPasswordServiceWithCost(bcrypt.MinCost)
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewMarketplace(repo, passwords, logger)
}

// signUp registers a user and logs them in, returning the session token.
func signUp(t *testing.T, m *Marketplace, name, email string) string {
	t.Helper()
	ctx := context.Background()
	_, err := m.Register(ctx, name, email, "s3cret-"+name)
	require.NoError(t, err)
	session, err := m.Login(ctx, email, "s3cret-"+name)
	require.NoError(t, err)
	return session.Token
}

func openStore(t *testing.T, m *Marketplace, token, name string) *model.Store {
	t.Helper()
	s, err := m.CreateStore(context.Background(), token, name)
	require.NoError(t, err)
	return s
}

func stockedProduct(t *testing.T, m *Marketplace, token string, storeID int64, name string, price float64, qty int64) *model.Product {
	t.Helper()
	ctx := context.Background()
	p, err := m.AddProduct(ctx, token, storeID, name, price)
	require.NoError(t, err)
	if qty > 0 {
		_, err = m.AddStock(ctx, token, storeID, p.ID, qty)
		require.NoError(t, err)
		p.Quantity = qty
	}
	return p
}

// =========================================================================
// FAILING REPOSITORY
// =========================================================================

var errStorage = errors.New("disk on fire")

// brokenRepo wraps a working repository and fails selected calls, so tests
// can check that storage failures surface as errors instead of being read
// as "not found".
type brokenRepo struct {
	repository.Repository
	failSessions bool
	failStores   bool
}

func (b *brokenRepo) GetSession(ctx context.Context, token string) (*model.Session, error) {
	if b.failSessions {
		return nil, errStorage
	}
	return b.Repository.GetSession(ctx, token)
}

func (b *brokenRepo) GetStore(ctx context.Context, id int64) (*model.Store, error) {
	if b.failStores {
		return nil, errStorage
	}
	return b.Repository.GetStore(ctx, id)
}

func (b *brokenRepo) ListStores(ctx context.Context) ([]model.Store, error) {
	if b.failStores {
		return nil, errStorage
	}
	return b.Repository.ListStores(ctx)
}

// logCapture returns a Marketplace on the memory backend whose debug log
// lands in the returned buffer.
func logCapture(t *testing.T) (*Marketplace, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return newTestMarketplace(t, memory.New(), &buf), &buf
}
