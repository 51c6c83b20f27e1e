// Package repository declares the storage interfaces behind the marketplace
// registry. Two implementations live in subpackages: memory (maps guarded by
// a RWMutex) and sqlite (an in-memory SQLite database).
//
// Implementations assign identifiers from counters that never go backwards,
// independent of how many records a collection holds. They report
// apperror.ErrNotFound and apperror.ErrConflict for missing and duplicate
// records; anything else is a storage failure.
package repository

import (
	"context"

	"github.com/sakif/marketplace/internal/model"
)

type UserRepository interface {
	// CreateUser assigns user.ID and user.CreatedAt. A duplicate email
	// fails with apperror.ErrConflict.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, token string) (*model.Session, error)
	ListSessions(ctx context.Context) ([]model.Session, error)
}

type StoreRepository interface {
	// CreateStore assigns store.ID and store.CreatedAt. A duplicate name
	// (exact match) fails with apperror.ErrConflict.
	CreateStore(ctx context.Context, store *model.Store) error
	GetStore(ctx context.Context, id int64) (*model.Store, error)
	// ListStores returns every store with its product slots, in id order.
	ListStores(ctx context.Context) ([]model.Store, error)

	// AddProduct appends product to the store's slot list, assigning
	// product.ID from the store's product counter.
	AddProduct(ctx context.Context, storeID int64, product *model.Product) error
	// UpdateProduct overwrites the slot (product.StoreID, product.ID).
	UpdateProduct(ctx context.Context, product *model.Product) error
	// MoveProduct appends the live product at (srcStoreID, productID) to
	// dstStoreID under a new id and leaves a vacant placeholder in the
	// source slot. Both writes happen or neither does.
	MoveProduct(ctx context.Context, srcStoreID, productID, dstStoreID int64) (*model.Product, error)
}

type SaleRepository interface {
	// RecordSale deducts sale.Quantity from the product's stock and appends
	// the sale, assigning sale.ID and sale.CreatedAt and snapshotting the
	// product's current price into sale.UnitPrice. Fails with
	// apperror.ErrInsufficientStock and writes nothing if stock is short.
	RecordSale(ctx context.Context, sale *model.Sale) error
	ListSales(ctx context.Context) ([]model.Sale, error)
}

// Repository is the full storage surface used by service.Marketplace.
type Repository interface {
	UserRepository
	SessionRepository
	StoreRepository
	SaleRepository
	Close() error
}
