package memory

import (
	"context"

	"github.com/sakif/marketplace/internal/apperror"
	"github.com/sakif/marketplace/internal/model"
)

func (db *DB) RecordSale(_ context.Context, sale *model.Sale) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	p, err := db.slot(sale.StoreID, sale.ProductID)
	if err != nil {
		return err
	}
	if p.Quantity < sale.Quantity {
		return apperror.InsufficientStock(p.Quantity, sale.Quantity)
	}

	p.Quantity -= sale.Quantity
	sale.UnitPrice = p.Price
	sale.ID = db.nextSaleID
	db.nextSaleID++
	sale.CreatedAt = db.now()
	db.sales = append(db.sales, *sale)
	return nil
}

func (db *DB) ListSales(_ context.Context) ([]model.Sale, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]model.Sale, len(db.sales))
	copy(out, db.sales)
	return out, nil
}
