package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/marketplace/internal/apperror"
	"github.com/sakif/marketplace/internal/model"
)

// RecordSale deducts stock and appends the sale in one transaction.
func (db *DB) RecordSale(ctx context.Context, sale *model.Sale) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		p, err := liveProduct(ctx, tx, sale.StoreID, sale.ProductID)
		if err != nil {
			return err
		}
		if p.Quantity < sale.Quantity {
			return apperror.InsufficientStock(p.Quantity, sale.Quantity)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET quantity = quantity - ? WHERE store_id = ? AND id = ?`,
			sale.Quantity, sale.StoreID, sale.ProductID,
		); err != nil {
			return fmt.Errorf("sqlite: deducting stock of product %d: %w", sale.ProductID, err)
		}

		id, err := nextID(ctx, tx, seqSales)
		if err != nil {
			return err
		}
		createdAt := time.Now().UTC()

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sales (id, buyer_id, store_id, product_id, quantity, unit_price, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, sale.BuyerID, sale.StoreID, sale.ProductID, sale.Quantity, p.Price, createdAt,
		); err != nil {
			return fmt.Errorf("sqlite: inserting sale: %w", err)
		}

		sale.ID = id
		sale.UnitPrice = p.Price
		sale.CreatedAt = createdAt
		return nil
	})
}

// ListSales returns sales in id order.
func (db *DB) ListSales(ctx context.Context) ([]model.Sale, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, buyer_id, store_id, product_id, quantity, unit_price, created_at
		 FROM sales ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing sales: %w", err)
	}
	defer rows.Close()

	sales := []model.Sale{}
	for rows.Next() {
		var s model.Sale
		if err := rows.Scan(&s.ID, &s.BuyerID, &s.StoreID, &s.ProductID, &s.Quantity, &s.UnitPrice, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning sale: %w", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating sales: %w", err)
	}
	return sales, nil
}
