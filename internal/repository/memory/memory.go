// Package memory implements the repository interfaces with plain Go maps.
//
// All state lives in one DB value guarded by a sync.RWMutex: reads take the
// read lock, every write takes the write lock for its whole duration, so
// multi-step writes (MoveProduct, RecordSale) are atomic.
//
// Every record handed out is a copy. Callers may modify what they get back
// without touching the stored state.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/sakif/marketplace/internal/apperror"
	"github.com/sakif/marketplace/internal/model"
	"github.com/sakif/marketplace/internal/repository"
)

var _ repository.Repository = (*DB)(nil)

// DB is an in-process store for users, sessions, stores and sales.
type DB struct {
	mu sync.RWMutex

	users      map[int64]*model.User
	emailIndex map[string]int64 // email -> user id

	sessions     map[string]*model.Session
	sessionOrder []string // tokens in creation order

	stores    map[int64]*model.Store
	nameIndex map[string]int64 // store name -> store id

	sales []model.Sale

	nextUserID  int64
	nextStoreID int64
	nextSaleID  int64

	now func() time.Time
}

// New returns an empty DB. User and sale ids start at 1; store ids start
// at 0, matching product slot numbering.
func New() *DB {
	return &DB{
		users:       make(map[int64]*model.User),
		emailIndex:  make(map[string]int64),
		sessions:    make(map[string]*model.Session),
		stores:      make(map[int64]*model.Store),
		nameIndex:   make(map[string]int64),
		nextUserID:  1,
		nextStoreID: 0,
		nextSaleID:  1,
		now:         time.Now,
	}
}

// Close is a no-op; it exists so *DB satisfies repository.Repository.
func (db *DB) Close() error {
	return nil
}

// =========================================================================
// USERS
// =========================================================================

func (db *DB) CreateUser(_ context.Context, user *model.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.emailIndex[user.Email]; exists {
		return apperror.Conflict("user", user.Email)
	}

	user.ID = db.nextUserID
	db.nextUserID++
	user.CreatedAt = db.now()

	stored := *user
	db.users[user.ID] = &stored
	db.emailIndex[user.Email] = user.ID
	return nil
}

func (db *DB) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	u, ok := db.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	out := *u
	return &out, nil
}

func (db *DB) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	id, ok := db.emailIndex[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	out := *db.users[id]
	return &out, nil
}

func (db *DB) ListUsers(_ context.Context) ([]model.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]model.User, 0, len(db.users))
	for _, id := range slices.Sorted(maps.Keys(db.users)) {
		out = append(out, *db.users[id])
	}
	return out, nil
}

// =========================================================================
// SESSIONS
// =========================================================================

func (db *DB) CreateSession(_ context.Context, session *model.Session) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.sessions[session.Token]; exists {
		return apperror.Conflict("session", session.Token)
	}
	if _, ok := db.users[session.UserID]; !ok {
		return apperror.NotFound("user", session.UserID)
	}

	session.CreatedAt = db.now()
	stored := *session
	db.sessions[session.Token] = &stored
	db.sessionOrder = append(db.sessionOrder, session.Token)
	return nil
}

func (db *DB) GetSession(_ context.Context, token string) (*model.Session, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	s, ok := db.sessions[token]
	if !ok {
		return nil, apperror.NotFound("session", token)
	}
	out := *s
	return &out, nil
}

func (db *DB) ListSessions(_ context.Context) ([]model.Session, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]model.Session, 0, len(db.sessionOrder))
	for _, tok := range db.sessionOrder {
		out = append(out, *db.sessions[tok])
	}
	return out, nil
}
