// Package model defines the data structures used throughout the marketplace.
// In Go, we use structs to represent our data; related records are composed,
// not inherited.
package model

import "time"

// User represents a registered marketplace account.
//
// Users are created by registration and never mutated or deleted afterwards.
// Email is the natural key: the registry rejects a second account with the
// same address.
//
// PasswordHash carries the `json:"-"` tag so the bcrypt hash never leaves the
// process, even when a User is embedded in a Store owner snapshot.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
