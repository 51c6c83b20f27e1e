package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sakif/marketplace/internal/model"
)

// SearchProducts returns every live product whose name contains substr,
// case-sensitively, across all stores. Results are in store id order, then
// slot order. An empty substr matches every live product.
func (m *Marketplace) SearchProducts(ctx context.Context, substr string) ([]model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stores, err := m.repo.ListStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: searching products: %w", err)
	}

	matches := make([]model.Product, 0)
	for i := range stores {
		matches = appendMatches(matches, &stores[i], substr)
	}
	return matches, nil
}

// SearchProductsInStore is SearchProducts scoped to one store. An unknown
// store fails with apperror.ErrNotFound.
func (m *Marketplace) SearchProductsInStore(ctx context.Context, substr string, storeID int64) ([]model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	store, err := m.repo.GetStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("service: searching store %d: %w", storeID, err)
	}
	return appendMatches(make([]model.Product, 0), store, substr), nil
}

// SearchStores returns the stores whose name contains substr,
// case-sensitively, in id order.
func (m *Marketplace) SearchStores(ctx context.Context, substr string) ([]model.Store, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stores, err := m.repo.ListStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: searching stores: %w", err)
	}

	matches := make([]model.Store, 0, len(stores))
	for _, s := range stores {
		if strings.Contains(s.Name, substr) {
			matches = append(matches, s)
		}
	}
	return matches, nil
}

// ListStores returns every store in id order.
func (m *Marketplace) ListStores(ctx context.Context) ([]model.Store, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stores, err := m.repo.ListStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: listing stores: %w", err)
	}
	if stores == nil {
		stores = make([]model.Store, 0)
	}
	return stores, nil
}

func appendMatches(dst []model.Product, store *model.Store, substr string) []model.Product {
	for _, p := range store.Products {
		if !p.Vacant && strings.Contains(p.Name, substr) {
			dst = append(dst, p)
		}
	}
	return dst
}
