package model

import "time"

// Session maps an opaque login token to the user that obtained it.
//
// A Session is created on every successful login. Sessions never expire and
// are never revoked, so one user may hold any number of live tokens.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
