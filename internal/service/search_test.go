package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/marketplace/internal/apperror"
	"github.com/sakif/marketplace/internal/model"
	"github.com/sakif/marketplace/internal/repository/memory"
)

func productNames(products []model.Product) []string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	return names
}

func storeNames(stores []model.Store) []string {
	names := make([]string, 0, len(stores))
	for _, s := range stores {
		names = append(names, s.Name)
	}
	return names
}

func TestSearchProducts(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Marketplace) {
		ctx := context.Background()
		ana := signUp(t, m, "Ana", "ana@example.com")
		bruno := signUp(t, m, "Bruno", "bruno@example.com")
		bovinos := openStore(t, m, ana, "Bovinos")
		suinos := openStore(t, m, bruno, "Suínos")

		stockedProduct(t, m, ana, bovinos.ID, "Fraldinha", 45, 0)
		stockedProduct(t, m, ana, bovinos.ID, "Picanha Maturada", 89.9, 0)
		stockedProduct(t, m, bruno, suinos.ID, "Picanha Suína", 39.9, 0)
		stockedProduct(t, m, bruno, suinos.ID, "picanha de sol", 50, 0)

		got, err := m.SearchProducts(ctx, "Picanha")
		require.NoError(t, err)
		assert.Equal(t, []string{"Picanha Maturada", "Picanha Suína"}, productNames(got))

		got, err = m.SearchProducts(ctx, "Cupim")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)

		got, err = m.SearchProductsInStore(ctx, "Picanha", suinos.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Picanha Suína"}, productNames(got))

		_, err = m.SearchProductsInStore(ctx, "Picanha", 9)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestSearchProducts_SkipsVacantSlots(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Marketplace) {
		ctx := context.Background()
		ana := signUp(t, m, "Ana", "ana@example.com")
		a := openStore(t, m, ana, "A")
		b := openStore(t, m, ana, "B")
		p := stockedProduct(t, m, ana, a.ID, "Cupim", 60, 2)

		_, err := m.TransferProduct(ctx, ana, a.ID, b.ID, p.ID)
		require.NoError(t, err)

		all, err := m.SearchProducts(ctx, "")
		require.NoError(t, err)
		require.Len(t, all, 1, "the vacant placeholder is not a product")
		assert.Equal(t, b.ID, all[0].StoreID)

		inA, err := m.SearchProductsInStore(ctx, "", a.ID)
		require.NoError(t, err)
		assert.Empty(t, inA)
	})
}

func TestSearchStores(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Marketplace) {
		ctx := context.Background()
		ana := signUp(t, m, "Ana", "ana@example.com")
		openStore(t, m, ana, "Casa de Carnes")
		openStore(t, m, ana, "Empório Sul")
		openStore(t, m, ana, "Carnes do Sul")

		tests := []struct {
			query string
			want  []string
		}{
			{"Carnes", []string{"Casa de Carnes", "Carnes do Sul"}},
			{"Empório Sul", []string{"Empório Sul"}},
			{"carnes", []string{}},
			{"Padaria", []string{}},
			{"", []string{"Casa de Carnes", "Empório Sul", "Carnes do Sul"}},
		}
		for _, tt := range tests {
			t.Run(tt.query, func(t *testing.T) {
				got, err := m.SearchStores(ctx, tt.query)
				require.NoError(t, err)
				assert.Equal(t, tt.want, storeNames(got))
			})
		}
	})
}

func TestListStores_Idempotent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Marketplace) {
		ctx := context.Background()

		empty, err := m.ListStores(ctx)
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)

		ana := signUp(t, m, "Ana", "ana@example.com")
		s := openStore(t, m, ana, "Casa de Carnes")
		openStore(t, m, ana, "Empório Sul")
		stockedProduct(t, m, ana, s.ID, "Picanha Maturada", 89.9, 3)

		first, err := m.ListStores(ctx)
		require.NoError(t, err)
		second, err := m.ListStores(ctx)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, []string{"Casa de Carnes", "Empório Sul"}, storeNames(first))
	})
}

func TestSearch_StorageFailure(t *testing.T) {
	repo := &brokenRepo{Repository: memory.New(), failStores: true}
	m := newTestMarketplace(t, repo, nil)
	ctx := context.Background()

	_, err := m.SearchProducts(ctx, "Picanha")
	assert.ErrorIs(t, err, errStorage)
	_, err = m.SearchStores(ctx, "Casa")
	assert.ErrorIs(t, err, errStorage)
	_, err = m.ListStores(ctx)
	assert.ErrorIs(t, err, errStorage)
	assert.False(t, m.ProductExists(ctx, 0, 0))
}
