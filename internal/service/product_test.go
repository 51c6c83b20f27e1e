package service

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/marketplace/internal/apperror"
)

func TestAddProduct(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Marketplace) {
		ctx := context.Background()
		ana := signUp(t, m, "Ana", "ana@example.com")
		bruno := signUp(t, m, "Bruno", "bruno@example.com")
		store := openStore(t, m, ana, "Casa de Carnes")

		p0, err := m.AddProduct(ctx, ana, store.ID, "Picanha Maturada", 89.9)
		require.NoError(t, err)
		p1, err := m.AddProduct(ctx, ana, store.ID, "Fraldinha", 45)
		require.NoError(t, err)
		assert.Equal(t, int64(0), p0.ID)
		assert.Equal(t, int64(1), p1.ID)
		assert.Zero(t, p0.Quantity)

		_, err = m.AddProduct(ctx, bruno, store.ID, "Cupim", 60)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
		_, err = m.AddProduct(ctx, ana, 99, "Cupim", 60)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		_, err = m.AddProduct(ctx, "bogus", store.ID, "Cupim", 60)
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})
}

func TestAddProduct_Validation(t *testing.T) {
	m, _ := logCapture(t)
	ctx := context.Background()
	token := signUp(t, m, "Ana", "ana@example.com")
	store := openStore(t, m, token, "Casa de Carnes")

	tests := []struct {
		name  string
		pname string
		price float64
	}{
		{"empty name", "", 10},
		{"negative price", "Cupim", -1},
		{"NaN price", "Cupim", math.NaN()},
		{"infinite price", "Cupim", math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.AddProduct(ctx, token, store.ID, tt.pname, tt.price)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}

	free, err := m.AddProduct(ctx, token, store.ID, "Amostra", 0)
	require.NoError(t, err, "zero price is allowed")
	assert.Equal(t, int64(0), free.ID)
}

func TestAddStock(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Marketplace) {
		ctx := context.Background()
		ana := signUp(t, m, "Ana", "ana@example.com")
		bruno := signUp(t, m, "Bruno", "bruno@example.com")
		store := openStore(t, m, ana, "Casa de Carnes")
		p := stockedProduct(t, m, ana, store.ID, "Picanha Maturada", 89.9, 0)

		qty, err := m.AddStock(ctx, ana, store.ID, p.ID, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(10), qty)
		qty, err = m.AddStock(ctx, ana, store.ID, p.ID, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(15), qty)

		qty, err = m.AddStock(ctx, ana, store.ID, p.ID, -15)
		require.NoError(t, err)
		assert.Zero(t, qty, "stock may be drawn down to exactly zero")

		_, err = m.AddStock(ctx, ana, store.ID, p.ID, -1)
		assert.ErrorIs(t, err, apperror.ErrInsufficientStock)

		_, err = m.AddStock(ctx, bruno, store.ID, p.ID, 3)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
		_, err = m.AddStock(ctx, ana, store.ID, 8, 3)
		assert.ErrorIs(t, err, apperror.ErrNotFound)

		got, err := m.GetStore(ctx, store.ID)
		require.NoError(t, err)
		assert.Zero(t, got.Products[0].Quantity, "rejected adjustments change nothing")
	})
}

func TestTransferProduct(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Marketplace) {
		ctx := context.Background()
		ana := signUp(t, m, "Ana", "ana@example.com")
		src := openStore(t, m, ana, "Origem")
		dst := openStore(t, m, ana, "Destino")
		stockedProduct(t, m, ana, dst.ID, "Linguiça", 20, 2)
		stockedProduct(t, m, ana, src.ID, "Fraldinha", 45, 1)
		moving := stockedProduct(t, m, ana, src.ID, "Cupim", 60, 8)

		moved, err := m.TransferProduct(ctx, ana, src.ID, dst.ID, moving.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), moved.ID, "moved product takes the destination's next id")
		assert.Equal(t, int64(8), moved.Quantity)

		assert.True(t, m.ProductExists(ctx, dst.ID, moved.ID))
		assert.False(t, m.ProductExists(ctx, src.ID, moving.ID))
		assert.True(t, m.ProductExists(ctx, src.ID, 0), "other slots are untouched")

		gotSrc, err := m.GetStore(ctx, src.ID)
		require.NoError(t, err)
		require.Len(t, gotSrc.Products, 2, "the source slot stays in place")
		placeholder := gotSrc.Products[1]
		assert.Equal(t, moving.ID, placeholder.ID)
		assert.Empty(t, placeholder.Name)
		assert.Zero(t, placeholder.Quantity)
		assert.True(t, placeholder.Vacant)

		_, err = m.TransferProduct(ctx, ana, src.ID, dst.ID, moving.ID)
		assert.ErrorIs(t, err, apperror.ErrNotFound, "a vacant slot cannot be moved")
	})
}

func TestTransferProduct_Rejections(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Marketplace) {
		ctx := context.Background()
		ana := signUp(t, m, "Ana", "ana@example.com")
		bruno := signUp(t, m, "Bruno", "bruno@example.com")
		mine := openStore(t, m, ana, "Ana Carnes")
		alsoMine := openStore(t, m, ana, "Ana Embutidos")
		theirs := openStore(t, m, bruno, "Bruno Carnes")
		p := stockedProduct(t, m, ana, mine.ID, "Cupim", 60, 3)

		tests := []struct {
			name      string
			token     string
			src, dst  int64
			productID int64
			want      error
		}{
			{"invalid token", "bogus", mine.ID, alsoMine.ID, p.ID, apperror.ErrUnauthorized},
			{"foreign source", bruno, mine.ID, theirs.ID, p.ID, apperror.ErrForbidden},
			{"foreign destination", ana, mine.ID, theirs.ID, p.ID, apperror.ErrForbidden},
			{"unknown destination", ana, mine.ID, 99, p.ID, apperror.ErrNotFound},
			{"same store", ana, mine.ID, mine.ID, p.ID, apperror.ErrSameStore},
			{"unknown product", ana, mine.ID, alsoMine.ID, 5, apperror.ErrNotFound},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := m.TransferProduct(ctx, tt.token, tt.src, tt.dst, tt.productID)
				assert.ErrorIs(t, err, tt.want)
			})
		}

		got, err := m.GetStore(ctx, mine.ID)
		require.NoError(t, err)
		assert.Equal(t, "Cupim", got.Products[0].Name, "failed transfers leave the source intact")
		assert.Equal(t, int64(3), got.Products[0].Quantity)
	})
}

func TestProductExists_LogsHit(t *testing.T) {
	m, logs := logCapture(t)
	ctx := context.Background()
	token := signUp(t, m, "Ana", "ana@example.com")
	store := openStore(t, m, token, "Casa de Carnes")
	stockedProduct(t, m, token, store.ID, "Picanha Maturada", 89.9, 0)

	logs.Reset()
	assert.False(t, m.ProductExists(ctx, store.ID, 3))
	assert.False(t, m.ProductExists(ctx, 12, 0))
	assert.NotContains(t, logs.String(), "product found")

	assert.True(t, m.ProductExists(ctx, store.ID, 0))
	assert.Contains(t, logs.String(), "product found")
	assert.Contains(t, logs.String(), "Picanha Maturada")
}
