package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/marketplace/internal/model"
	"github.com/sakif/marketplace/internal/repository"
	"github.com/sakif/marketplace/internal/repository/repotest"
)

func TestContract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.Repository {
		return New()
	})
}

func TestGetStore_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	db := New()

	owner := &model.User{Email: "ana@example.com", Name: "Ana"}
	require.NoError(t, db.CreateUser(ctx, owner))
	s := &model.Store{Name: "Casa de Carnes", Owner: *owner}
	require.NoError(t, db.CreateStore(ctx, s))
	require.NoError(t, db.AddProduct(ctx, s.ID, &model.Product{Name: "Picanha", Quantity: 3}))

	got, err := db.GetStore(ctx, s.ID)
	require.NoError(t, err)
	got.Products[0].Quantity = 999
	got.Name = "mutated"

	again, err := db.GetStore(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Casa de Carnes", again.Name)
	assert.Equal(t, int64(3), again.Products[0].Quantity)
}

func TestRecordSale_ConcurrentBuyersNeverOversell(t *testing.T) {
	ctx := context.Background()
	db := New()

	owner := &model.User{Email: "ana@example.com"}
	require.NoError(t, db.CreateUser(ctx, owner))
	s := &model.Store{Name: "Casa de Carnes", Owner: *owner}
	require.NoError(t, db.CreateStore(ctx, s))
	p := &model.Product{Name: "Picanha", Price: 10, Quantity: 50}
	require.NoError(t, db.AddProduct(ctx, s.ID, p))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = db.RecordSale(ctx, &model.Sale{BuyerID: owner.ID, StoreID: s.ID, ProductID: p.ID, Quantity: 1})
		}()
	}
	wg.Wait()

	sales, err := db.ListSales(ctx)
	require.NoError(t, err)
	assert.Len(t, sales, 50)

	got, err := db.GetStore(ctx, s.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Products[0].Quantity)
}
