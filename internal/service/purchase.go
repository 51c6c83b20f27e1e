package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/marketplace/internal/apperror"
	"github.com/sakif/marketplace/internal/model"
)

// Purchase buys quantity units of a product for the caller.
//
// The product must be live in storeID and have at least quantity units in
// stock. On success exactly one sale is recorded at the product's current
// price and the stock drops by quantity. On failure nothing changes.
func (m *Marketplace) Purchase(ctx context.Context, token string, storeID, productID, quantity int64) (*model.Sale, error) {
	if quantity <= 0 {
		return nil, apperror.ValidationFailed("quantity", "quantity must be greater than zero")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	sale := &model.Sale{
		BuyerID:   session.UserID,
		StoreID:   storeID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := m.repo.RecordSale(ctx, sale); err != nil {
		return nil, fmt.Errorf("service: purchasing product %d from store %d: %w", productID, storeID, err)
	}

	m.logger.Info("purchase recorded",
		slog.Int64("saleID", sale.ID),
		slog.Int64("buyerID", sale.BuyerID),
		slog.Int64("storeID", storeID),
		slog.Int64("productID", productID),
		slog.Int64("quantity", quantity),
		slog.Float64("total", sale.Total()),
	)
	return sale, nil
}

// ListSales returns every recorded sale in id order.
func (m *Marketplace) ListSales(ctx context.Context) ([]model.Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sales, err := m.repo.ListSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: listing sales: %w", err)
	}
	return sales, nil
}
