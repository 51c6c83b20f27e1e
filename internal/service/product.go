package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/sakif/marketplace/internal/apperror"
	"github.com/sakif/marketplace/internal/model"
)

// AddProduct appends a product to a store the caller owns. The product
// gets the store's next product id and starts with zero stock.
func (m *Marketplace) AddProduct(ctx context.Context, token string, storeID int64, name string, price float64) (*model.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "product name is required")
	}
	if len(name) > MaxProductNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("product name must be %d characters or less", MaxProductNameLength))
	}
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return nil, apperror.ValidationFailed("price", "price must be a non-negative number")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	if _, err := m.requireOwner(ctx, session, storeID); err != nil {
		return nil, fmt.Errorf("service: adding product to store %d: %w", storeID, err)
	}

	product := &model.Product{Name: name, Price: price}
	if err := m.repo.AddProduct(ctx, storeID, product); err != nil {
		return nil, fmt.Errorf("service: adding product to store %d: %w", storeID, err)
	}

	m.logger.Info("product added",
		slog.Int64("storeID", storeID),
		slog.Int64("productID", product.ID),
		slog.String("name", product.Name),
	)
	return product, nil
}

// AddStock adjusts a product's stock by delta and returns the new quantity.
//
// delta may be negative. An adjustment that would take the stock below
// zero fails with apperror.ErrInsufficientStock and changes nothing.
func (m *Marketplace) AddStock(ctx context.Context, token string, storeID, productID, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.authenticate(ctx, token)
	if err != nil {
		return 0, err
	}
	store, err := m.requireOwner(ctx, session, storeID)
	if err != nil {
		return 0, fmt.Errorf("service: adjusting stock in store %d: %w", storeID, err)
	}

	product, ok := store.Slot(productID)
	if !ok {
		return 0, apperror.NotFound("product", productID)
	}

	next := product.Quantity + delta
	if next < 0 {
		return 0, apperror.InsufficientStock(product.Quantity, -delta)
	}
	product.Quantity = next

	if err := m.repo.UpdateProduct(ctx, &product); err != nil {
		return 0, fmt.Errorf("service: adjusting stock of product %d: %w", productID, err)
	}

	m.logger.Info("stock adjusted",
		slog.Int64("storeID", storeID),
		slog.Int64("productID", productID),
		slog.Int64("delta", delta),
		slog.Int64("quantity", next),
	)
	return next, nil
}

// TransferProduct moves a product between two stores the caller owns.
//
// The product (name, price, stock) is appended to dstStoreID under a new
// id, which is returned. Its old slot in srcStoreID becomes a vacant
// placeholder so the ids of the remaining slots do not shift.
func (m *Marketplace) TransferProduct(ctx context.Context, token string, srcStoreID, dstStoreID, productID int64) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	src, err := m.requireOwner(ctx, session, srcStoreID)
	if err != nil {
		return nil, fmt.Errorf("service: transfer source: %w", err)
	}
	if _, err := m.requireOwner(ctx, session, dstStoreID); err != nil {
		return nil, fmt.Errorf("service: transfer destination: %w", err)
	}
	if srcStoreID == dstStoreID {
		return nil, apperror.SameStoreTransfer(srcStoreID)
	}
	if _, ok := src.Slot(productID); !ok {
		return nil, apperror.NotFound("product", productID)
	}

	moved, err := m.repo.MoveProduct(ctx, srcStoreID, productID, dstStoreID)
	if err != nil {
		return nil, fmt.Errorf("service: moving product %d: %w", productID, err)
	}

	m.logger.Info("product transferred",
		slog.Int64("fromStoreID", srcStoreID),
		slog.Int64("fromProductID", productID),
		slog.Int64("toStoreID", dstStoreID),
		slog.Int64("toProductID", moved.ID),
	)
	return moved, nil
}

// ProductExists reports whether storeID has a live product with the given
// id. Vacant placeholders do not count. A hit is logged at debug level.
func (m *Marketplace) ProductExists(ctx context.Context, storeID, productID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	store, err := m.repo.GetStore(ctx, storeID)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			m.logger.Warn("product lookup failed",
				slog.Int64("storeID", storeID),
				slog.String("error", err.Error()),
			)
		}
		return false
	}

	product, ok := store.Slot(productID)
	if ok {
		m.logger.Debug("product found",
			slog.Int64("storeID", storeID),
			slog.Int64("productID", productID),
			slog.String("name", product.Name),
		)
	}
	return ok
}
