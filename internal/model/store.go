package model

import "time"

// Store is a named inventory container owned by exactly one user.
//
// OWNER SNAPSHOT:
// Owner is a copy of the User record taken when the store was created, not a
// reference. Ownership checks compare Owner.ID against the caller's session.
//
// PRODUCT SLOTS:
// Products is an ordered slot list. A product's ID is the slot it was created
// in, so Products[i].ID == i for every store. NextProductID is the counter the
// next product id is drawn from; it is kept separately from len(Products).
type Store struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Owner         User      `json:"owner"`
	Products      []Product `json:"products"`
	NextProductID int64     `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Product is one slot in a store's product list.
//
// Product ids are only unique within their store: the same integer names
// different products in different stores. Quantity never goes below zero.
//
// A slot whose product was transferred to another store is kept as a vacant
// placeholder: same ID, empty Name, zero Price and Quantity, Vacant set.
type Product struct {
	ID       int64   `json:"id"`
	StoreID  int64   `json:"storeId"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
	Vacant   bool    `json:"vacant,omitempty"`
}

// Placeholder returns the zero-valued slot left behind when p is moved out
// of its store.
func (p Product) Placeholder() Product {
	return Product{ID: p.ID, StoreID: p.StoreID, Vacant: true}
}

// Slot returns the live product at slot id, or false if the slot does not
// exist or is vacant.
func (s *Store) Slot(id int64) (Product, bool) {
	for _, p := range s.Products {
		if p.ID == id && !p.Vacant {
			return p, true
		}
	}
	return Product{}, false
}

// Clone returns a deep copy of the store so callers cannot alias the
// registry's product slice.
func (s Store) Clone() Store {
	out := s
	out.Products = append([]Product(nil), s.Products...)
	return out
}
