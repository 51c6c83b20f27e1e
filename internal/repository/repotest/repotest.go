// Package repotest holds the behavioural tests every repository.Repository
// implementation must pass. Backend packages call Run from their own
// _test.go files with a constructor for a fresh, empty repository.
package repotest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/marketplace/internal/apperror"
	"github.com/sakif/marketplace/internal/model"
	"github.com/sakif/marketplace/internal/repository"
)

// Factory returns an empty repository. It should register its own cleanup.
type Factory func(t *testing.T) repository.Repository

// Run executes the whole contract against repositories built by newRepo.
func Run(t *testing.T, newRepo Factory) {
	t.Run("users", func(t *testing.T) { testUsers(t, newRepo(t)) })
	t.Run("sessions", func(t *testing.T) { testSessions(t, newRepo(t)) })
	t.Run("stores", func(t *testing.T) { testStores(t, newRepo(t)) })
	t.Run("products", func(t *testing.T) { testProducts(t, newRepo(t)) })
	t.Run("move product", func(t *testing.T) { testMoveProduct(t, newRepo(t)) })
	t.Run("sales", func(t *testing.T) { testSales(t, newRepo(t)) })
}

func createUser(t *testing.T, repo repository.Repository, email string) *model.User {
	t.Helper()
	u := &model.User{Email: email, Name: "User " + email, PasswordHash: "$2a$04$hash"}
	require.NoError(t, repo.CreateUser(context.Background(), u))
	return u
}

func createStore(t *testing.T, repo repository.Repository, owner *model.User, name string) *model.Store {
	t.Helper()
	s := &model.Store{Name: name, Owner: *owner}
	require.NoError(t, repo.CreateStore(context.Background(), s))
	return s
}

func addProduct(t *testing.T, repo repository.Repository, storeID int64, name string, price float64, qty int64) *model.Product {
	t.Helper()
	p := &model.Product{Name: name, Price: price, Quantity: qty}
	require.NoError(t, repo.AddProduct(context.Background(), storeID, p))
	return p
}

func testUsers(t *testing.T, repo repository.Repository) {
	ctx := context.Background()

	ana := createUser(t, repo, "ana@example.com")
	bruno := createUser(t, repo, "bruno@example.com")

	assert.Equal(t, int64(1), ana.ID)
	assert.Equal(t, int64(2), bruno.ID)
	assert.False(t, ana.CreatedAt.IsZero())

	err := repo.CreateUser(ctx, &model.User{Email: "ana@example.com", Name: "Other"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	got, err := repo.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, got.ID)
	assert.Equal(t, "$2a$04$hash", got.PasswordHash)

	got, err = repo.GetUserByID(ctx, bruno.ID)
	require.NoError(t, err)
	assert.Equal(t, "bruno@example.com", got.Email)

	_, err = repo.GetUserByID(ctx, 99)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = repo.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2, "duplicate email must not add a user")
	assert.Equal(t, []int64{1, 2}, []int64{users[0].ID, users[1].ID})
}

func testSessions(t *testing.T, repo repository.Repository) {
	ctx := context.Background()
	u := createUser(t, repo, "ana@example.com")

	first := &model.Session{Token: "token-one", UserID: u.ID}
	require.NoError(t, repo.CreateSession(ctx, first))
	assert.False(t, first.CreatedAt.IsZero())
	require.NoError(t, repo.CreateSession(ctx, &model.Session{Token: "token-two", UserID: u.ID}))

	err := repo.CreateSession(ctx, &model.Session{Token: "token-three", UserID: 404})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	got, err := repo.GetSession(ctx, "token-one")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.UserID)

	_, err = repo.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	sessions, err := repo.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "token-one", sessions[0].Token)
	assert.Equal(t, "token-two", sessions[1].Token)
}

func testStores(t *testing.T, repo repository.Repository) {
	ctx := context.Background()
	owner := createUser(t, repo, "ana@example.com")

	first := createStore(t, repo, owner, "Casa de Carnes")
	second := createStore(t, repo, owner, "Empório Sul")
	assert.Equal(t, int64(0), first.ID)
	assert.Equal(t, int64(1), second.ID)

	err := repo.CreateStore(ctx, &model.Store{Name: "Casa de Carnes", Owner: *owner})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	got, err := repo.GetStore(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Casa de Carnes", got.Name)
	assert.Equal(t, owner.ID, got.Owner.ID)
	assert.Equal(t, owner.Email, got.Owner.Email)
	assert.Empty(t, got.Products)

	_, err = repo.GetStore(ctx, 42)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	stores, err := repo.ListStores(ctx)
	require.NoError(t, err)
	require.Len(t, stores, 2, "duplicate name must not add a store")
	assert.Equal(t, "Casa de Carnes", stores[0].Name)
	assert.Equal(t, "Empório Sul", stores[1].Name)
}

func testProducts(t *testing.T, repo repository.Repository) {
	ctx := context.Background()
	owner := createUser(t, repo, "ana@example.com")
	a := createStore(t, repo, owner, "A")
	b := createStore(t, repo, owner, "B")

	p0 := addProduct(t, repo, a.ID, "Picanha Maturada", 89.9, 0)
	p1 := addProduct(t, repo, a.ID, "Fraldinha", 45, 0)
	q0 := addProduct(t, repo, b.ID, "Picanha Suína", 39.9, 0)

	assert.Equal(t, int64(0), p0.ID)
	assert.Equal(t, int64(1), p1.ID)
	assert.Equal(t, int64(0), q0.ID, "product ids are scoped per store")
	assert.Equal(t, a.ID, p0.StoreID)

	err := repo.AddProduct(ctx, 77, &model.Product{Name: "ghost"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	p1.Quantity = 15
	require.NoError(t, repo.UpdateProduct(ctx, p1))

	got, err := repo.GetStore(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, got.Products, 2)
	assert.Equal(t, int64(15), got.Products[1].Quantity)
	assert.Equal(t, "Picanha Maturada", got.Products[0].Name)

	err = repo.UpdateProduct(ctx, &model.Product{StoreID: a.ID, ID: 9, Quantity: 1})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func testMoveProduct(t *testing.T, repo repository.Repository) {
	ctx := context.Background()
	owner := createUser(t, repo, "ana@example.com")
	src := createStore(t, repo, owner, "Origem")
	dst := createStore(t, repo, owner, "Destino")

	addProduct(t, repo, dst.ID, "Linguiça", 20, 3)
	moving := addProduct(t, repo, src.ID, "Cupim", 60, 8)

	moved, err := repo.MoveProduct(ctx, src.ID, moving.ID, dst.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), moved.ID, "moved product takes the destination's next id")
	assert.Equal(t, dst.ID, moved.StoreID)
	assert.Equal(t, "Cupim", moved.Name)
	assert.Equal(t, int64(8), moved.Quantity)
	assert.Equal(t, 60.0, moved.Price)

	gotSrc, err := repo.GetStore(ctx, src.ID)
	require.NoError(t, err)
	require.Len(t, gotSrc.Products, 1, "source slot is kept, not removed")
	placeholder := gotSrc.Products[0]
	assert.Equal(t, moving.ID, placeholder.ID)
	assert.Empty(t, placeholder.Name)
	assert.Zero(t, placeholder.Quantity)
	assert.Zero(t, placeholder.Price)
	assert.True(t, placeholder.Vacant)

	gotDst, err := repo.GetStore(ctx, dst.ID)
	require.NoError(t, err)
	require.Len(t, gotDst.Products, 2)
	assert.Equal(t, "Cupim", gotDst.Products[1].Name)

	_, err = repo.MoveProduct(ctx, src.ID, moving.ID, dst.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound, "vacant slot cannot be moved again")

	_, err = repo.MoveProduct(ctx, dst.ID, 0, dst.ID)
	assert.ErrorIs(t, err, apperror.ErrSameStore)

	_, err = repo.MoveProduct(ctx, dst.ID, 0, 99)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	again, err := repo.GetStore(ctx, dst.ID)
	require.NoError(t, err)
	assert.Equal(t, "Linguiça", again.Products[0].Name, "failed move must not vacate the source")
}

func testSales(t *testing.T, repo repository.Repository) {
	ctx := context.Background()
	owner := createUser(t, repo, "ana@example.com")
	buyer := createUser(t, repo, "bruno@example.com")
	s := createStore(t, repo, owner, "Casa de Carnes")
	p := addProduct(t, repo, s.ID, "Picanha Maturada", 89.9, 5)

	short := &model.Sale{BuyerID: buyer.ID, StoreID: s.ID, ProductID: p.ID, Quantity: 6}
	assert.ErrorIs(t, repo.RecordSale(ctx, short), apperror.ErrInsufficientStock)

	sale := &model.Sale{BuyerID: buyer.ID, StoreID: s.ID, ProductID: p.ID, Quantity: 2}
	require.NoError(t, repo.RecordSale(ctx, sale))
	assert.Equal(t, int64(1), sale.ID)
	assert.Equal(t, 89.9, sale.UnitPrice)
	assert.False(t, sale.CreatedAt.IsZero())

	missing := &model.Sale{BuyerID: buyer.ID, StoreID: s.ID, ProductID: 12, Quantity: 1}
	assert.ErrorIs(t, repo.RecordSale(ctx, missing), apperror.ErrNotFound)

	got, err := repo.GetStore(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Products[0].Quantity)

	sales, err := repo.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, buyer.ID, sales[0].BuyerID)
	assert.Equal(t, int64(2), sales[0].Quantity)
}
