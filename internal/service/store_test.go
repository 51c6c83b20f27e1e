package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/marketplace/internal/apperror"
	"github.com/sakif/marketplace/internal/repository/memory"
)

func TestCreateStore(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Marketplace) {
		ctx := context.Background()
		ana := signUp(t, m, "Ana", "ana@example.com")
		bruno := signUp(t, m, "Bruno", "bruno@example.com")

		first := openStore(t, m, ana, "Casa de Carnes")
		assert.Equal(t, int64(0), first.ID)
		assert.Equal(t, "ana@example.com", first.Owner.Email)
		assert.Equal(t, int64(1), first.Owner.ID)

		_, err := m.CreateStore(ctx, bruno, "Casa de Carnes")
		assert.ErrorIs(t, err, apperror.ErrConflict)

		_, err = m.CreateStore(ctx, "bogus", "Empório Sul")
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)

		_, err = m.CreateStore(ctx, ana, "   ")
		assert.ErrorIs(t, err, apperror.ErrValidation)
		_, err = m.CreateStore(ctx, ana, strings.Repeat("s", MaxStoreNameLength+1))
		assert.ErrorIs(t, err, apperror.ErrValidation)

		stores, err := m.ListStores(ctx)
		require.NoError(t, err)
		assert.Len(t, stores, 1, "rejected stores must not be added")

		second := openStore(t, m, bruno, "casa de carnes")
		assert.Equal(t, int64(1), second.ID, "names are compared case-sensitively")
	})
}

func TestCreateStore_ConcurrentSameName(t *testing.T) {
	m := newTestMarketplace(t, memory.New(), nil)
	ctx := context.Background()
	token := signUp(t, m, "Ana", "ana@example.com")

	const workers = 8
	results := make(chan error, workers)
	for range workers {
		go func() {
			_, err := m.CreateStore(ctx, token, "Casa de Carnes")
			results <- err
		}()
	}

	var created, conflicts int
	for range workers {
		err := <-results
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, apperror.ErrConflict)
		conflicts++
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, conflicts)
}

func TestIsOwner(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Marketplace) {
		ctx := context.Background()
		ana := signUp(t, m, "Ana", "ana@example.com")
		bruno := signUp(t, m, "Bruno", "bruno@example.com")
		store := openStore(t, m, ana, "Casa de Carnes")

		tests := []struct {
			name    string
			token   string
			storeID int64
			want    bool
		}{
			{"owner", ana, store.ID, true},
			{"other user", bruno, store.ID, false},
			{"unknown store", ana, 42, false},
			{"invalid token", "bogus", store.ID, false},
			{"empty token", "", store.ID, false},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := m.IsOwner(ctx, tt.token, tt.storeID)
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	})
}

func TestIsOwner_StorageFailure(t *testing.T) {
	repo := &brokenRepo{Repository: memory.New()}
	m := newTestMarketplace(t, repo, nil)
	ctx := context.Background()
	token := signUp(t, m, "Ana", "ana@example.com")
	store := openStore(t, m, token, "Casa de Carnes")

	repo.failStores = true

	ok, err := m.IsOwner(ctx, token, store.ID)
	assert.ErrorIs(t, err, errStorage)
	assert.False(t, ok)
}

func TestGetStore(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Marketplace) {
		ctx := context.Background()
		token := signUp(t, m, "Ana", "ana@example.com")
		store := openStore(t, m, token, "Casa de Carnes")
		stockedProduct(t, m, token, store.ID, "Picanha Maturada", 89.9, 4)

		got, err := m.GetStore(ctx, store.ID)
		require.NoError(t, err)
		assert.Equal(t, "Casa de Carnes", got.Name)
		require.Len(t, got.Products, 1)
		assert.Equal(t, int64(4), got.Products[0].Quantity)

		_, err = m.GetStore(ctx, 7)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}
