package model

import "time"

// Sale is an immutable record of one purchase.
//
// UnitPrice is a snapshot of the product's price at the time of the sale;
// later price changes do not affect recorded sales.
type Sale struct {
	ID        int64     `json:"id"`
	BuyerID   int64     `json:"buyerId"`
	StoreID   int64     `json:"storeId"`
	ProductID int64     `json:"productId"`
	Quantity  int64     `json:"quantity"`
	UnitPrice float64   `json:"unitPrice"`
	CreatedAt time.Time `json:"createdAt"`
}

// Total is the amount charged for the sale.
func (s Sale) Total() float64 {
	return s.UnitPrice * float64(s.Quantity)
}
