package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/marketplace/internal/apperror"
	"github.com/sakif/marketplace/internal/model"
)

const storeColumns = `id, name, owner_id, owner_email, owner_name, owner_created_at, next_product_id, created_at`

const productColumns = `store_id, id, name, price, quantity, vacant`

// CreateStore inserts a store with a snapshot of its owner. The caller's
// Products are ignored: a new store always starts empty.
func (db *DB) CreateStore(ctx context.Context, store *model.Store) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		taken, err := exists(ctx, tx, `SELECT 1 FROM stores WHERE name = ?`, store.Name)
		if err != nil {
			return fmt.Errorf("sqlite: checking store name %q: %w", store.Name, err)
		}
		if taken {
			return apperror.Conflict("store", store.Name)
		}

		id, err := nextID(ctx, tx, seqStores)
		if err != nil {
			return err
		}
		createdAt := time.Now().UTC()

		_, err = tx.ExecContext(ctx,
			`INSERT INTO stores (`+storeColumns+`) VALUES (?, ?, ?, ?, ?, ?, 0, ?)`,
			id,
			store.Name,
			store.Owner.ID,
			store.Owner.Email,
			store.Owner.Name,
			store.Owner.CreatedAt,
			createdAt,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting store %q: %w", store.Name, err)
		}

		store.ID = id
		store.CreatedAt = createdAt
		store.Products = nil
		store.NextProductID = 0
		return nil
	})
}

// GetStore returns the store with its product slots in id order.
func (db *DB) GetStore(ctx context.Context, id int64) (*model.Store, error) {
	s, err := scanStore(db.conn.QueryRowContext(ctx,
		`SELECT `+storeColumns+` FROM stores WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("store", id)
		}
		return nil, fmt.Errorf("sqlite: getting store %d: %w", id, err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE store_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing products of store %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning product: %w", err)
		}
		s.Products = append(s.Products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating products: %w", err)
	}
	return s, nil
}

// ListStores loads every store, then every product in one pass, and groups
// the products under their stores.
func (db *DB) ListStores(ctx context.Context) ([]model.Store, error) {
	storeRows, err := db.conn.QueryContext(ctx,
		`SELECT `+storeColumns+` FROM stores ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing stores: %w", err)
	}
	defer storeRows.Close()

	stores := []model.Store{}
	index := make(map[int64]int)
	for storeRows.Next() {
		s, err := scanStore(storeRows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning store: %w", err)
		}
		index[s.ID] = len(stores)
		stores = append(stores, *s)
	}
	if err := storeRows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating stores: %w", err)
	}
	storeRows.Close()

	productRows, err := db.conn.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY store_id, id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing products: %w", err)
	}
	defer productRows.Close()

	for productRows.Next() {
		p, err := scanProduct(productRows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning product: %w", err)
		}
		if i, ok := index[p.StoreID]; ok {
			stores[i].Products = append(stores[i].Products, *p)
		}
	}
	if err := productRows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating products: %w", err)
	}
	return stores, nil
}

func (db *DB) AddProduct(ctx context.Context, storeID int64, product *model.Product) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		return appendProduct(ctx, tx, storeID, product)
	})
}

func (db *DB) UpdateProduct(ctx context.Context, product *model.Product) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE products SET name = ?, price = ?, quantity = ?, vacant = ?
		 WHERE store_id = ? AND id = ? AND vacant = 0`,
		product.Name,
		product.Price,
		product.Quantity,
		product.Vacant,
		product.StoreID,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating product %d in store %d: %w", product.ID, product.StoreID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("product", product.ID)
	}
	return nil
}

func (db *DB) MoveProduct(ctx context.Context, srcStoreID, productID, dstStoreID int64) (*model.Product, error) {
	if srcStoreID == dstStoreID {
		return nil, apperror.SameStoreTransfer(srcStoreID)
	}

	var moved *model.Product
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		src, err := liveProduct(ctx, tx, srcStoreID, productID)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET name = '', price = 0, quantity = 0, vacant = 1
			 WHERE store_id = ? AND id = ?`,
			srcStoreID, productID,
		); err != nil {
			return fmt.Errorf("sqlite: vacating product %d in store %d: %w", productID, srcStoreID, err)
		}

		if err := appendProduct(ctx, tx, dstStoreID, src); err != nil {
			return err
		}
		moved = src
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// appendProduct inserts product at the store's next slot and advances the
// store's product counter. product.ID and product.StoreID are overwritten.
func appendProduct(ctx context.Context, tx *sql.Tx, storeID int64, product *model.Product) error {
	var next int64
	err := tx.QueryRowContext(ctx,
		`SELECT next_product_id FROM stores WHERE id = ?`, storeID,
	).Scan(&next)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("store", storeID)
		}
		return fmt.Errorf("sqlite: reading product counter of store %d: %w", storeID, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, 0)`,
		storeID, next, product.Name, product.Price, product.Quantity,
	); err != nil {
		return fmt.Errorf("sqlite: inserting product into store %d: %w", storeID, err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE stores SET next_product_id = next_product_id + 1 WHERE id = ?`, storeID,
	); err != nil {
		return fmt.Errorf("sqlite: advancing product counter of store %d: %w", storeID, err)
	}

	product.ID = next
	product.StoreID = storeID
	product.Vacant = false
	return nil
}

// liveProduct loads a non-vacant product inside tx.
func liveProduct(ctx context.Context, tx *sql.Tx, storeID, productID int64) (*model.Product, error) {
	known, err := exists(ctx, tx, `SELECT 1 FROM stores WHERE id = ?`, storeID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking store %d: %w", storeID, err)
	}
	if !known {
		return nil, apperror.NotFound("store", storeID)
	}

	p, err := scanProduct(tx.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE store_id = ? AND id = ? AND vacant = 0`,
		storeID, productID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("product", productID)
		}
		return nil, fmt.Errorf("sqlite: getting product %d in store %d: %w", productID, storeID, err)
	}
	return p, nil
}

func scanStore(s scanner) (*model.Store, error) {
	var st model.Store
	err := s.Scan(
		&st.ID,
		&st.Name,
		&st.Owner.ID,
		&st.Owner.Email,
		&st.Owner.Name,
		&st.Owner.CreatedAt,
		&st.NextProductID,
		&st.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func scanProduct(s scanner) (*model.Product, error) {
	var p model.Product
	if err := s.Scan(&p.StoreID, &p.ID, &p.Name, &p.Price, &p.Quantity, &p.Vacant); err != nil {
		return nil, err
	}
	return &p, nil
}
