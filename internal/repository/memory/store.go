package memory

import (
	"context"
	"maps"
	"slices"

	"github.com/sakif/marketplace/internal/apperror"
	"github.com/sakif/marketplace/internal/model"
)

func (db *DB) CreateStore(_ context.Context, store *model.Store) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.nameIndex[store.Name]; exists {
		return apperror.Conflict("store", store.Name)
	}

	store.ID = db.nextStoreID
	db.nextStoreID++
	store.CreatedAt = db.now()
	store.Products = nil
	store.NextProductID = 0

	stored := store.Clone()
	db.stores[store.ID] = &stored
	db.nameIndex[store.Name] = store.ID
	return nil
}

func (db *DB) GetStore(_ context.Context, id int64) (*model.Store, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	s, ok := db.stores[id]
	if !ok {
		return nil, apperror.NotFound("store", id)
	}
	out := s.Clone()
	return &out, nil
}

func (db *DB) ListStores(_ context.Context) ([]model.Store, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]model.Store, 0, len(db.stores))
	for _, id := range slices.Sorted(maps.Keys(db.stores)) {
		out = append(out, db.stores[id].Clone())
	}
	return out, nil
}

func (db *DB) AddProduct(_ context.Context, storeID int64, product *model.Product) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	s, ok := db.stores[storeID]
	if !ok {
		return apperror.NotFound("store", storeID)
	}
	appendProduct(s, product)
	return nil
}

func (db *DB) UpdateProduct(_ context.Context, product *model.Product) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	p, err := db.slot(product.StoreID, product.ID)
	if err != nil {
		return err
	}
	*p = *product
	return nil
}

func (db *DB) MoveProduct(_ context.Context, srcStoreID, productID, dstStoreID int64) (*model.Product, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if srcStoreID == dstStoreID {
		return nil, apperror.SameStoreTransfer(srcStoreID)
	}
	dst, ok := db.stores[dstStoreID]
	if !ok {
		return nil, apperror.NotFound("store", dstStoreID)
	}
	src, err := db.slot(srcStoreID, productID)
	if err != nil {
		return nil, err
	}

	moved := *src
	*src = src.Placeholder()
	appendProduct(dst, &moved)
	return &moved, nil
}

// slot returns a pointer to the live product at (storeID, productID).
// Callers must hold the write lock.
func (db *DB) slot(storeID, productID int64) (*model.Product, error) {
	s, ok := db.stores[storeID]
	if !ok {
		return nil, apperror.NotFound("store", storeID)
	}
	for i := range s.Products {
		if s.Products[i].ID == productID && !s.Products[i].Vacant {
			return &s.Products[i], nil
		}
	}
	return nil, apperror.NotFound("product", productID)
}

func appendProduct(s *model.Store, product *model.Product) {
	product.ID = s.NextProductID
	product.StoreID = s.ID
	product.Vacant = false
	s.NextProductID++
	s.Products = append(s.Products, *product)
}
