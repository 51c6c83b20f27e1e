package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/marketplace/internal/apperror"
	"github.com/sakif/marketplace/internal/model"
	"github.com/sakif/marketplace/internal/repository"
)

// compile-time check that *DB implements repository.Repository
var _ repository.Repository = (*DB)(nil)

// CreateUser allocates the next user id and inserts the row. The email
// check and the insert share one transaction, so a duplicate email surfaces
// as apperror.ErrConflict rather than a driver constraint error.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		taken, err := exists(ctx, tx, `SELECT 1 FROM users WHERE email = ?`, user.Email)
		if err != nil {
			return fmt.Errorf("sqlite: checking email %s: %w", user.Email, err)
		}
		if taken {
			return apperror.Conflict("user", user.Email)
		}

		id, err := nextID(ctx, tx, seqUsers)
		if err != nil {
			return err
		}
		createdAt := time.Now().UTC()

		_, err = tx.ExecContext(ctx,
			`INSERT INTO users (id, email, name, password_hash, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			id,
			user.Email,
			user.Name,
			user.PasswordHash,
			createdAt,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting user %s: %w", user.Email, err)
		}

		user.ID = id
		user.CreatedAt = createdAt
		return nil
	})
}

// GetUserByID retrieves a user by id.
// Returns apperror.ErrNotFound if no user exists with that id.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := scanUser(db.conn.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, created_at FROM users WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}
	return u, nil
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(db.conn.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, created_at FROM users WHERE email = ?`, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", email, err)
	}
	return u, nil
}

func (db *DB) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, email, name, password_hash, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}
	return users, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*model.User, error) {
	var u model.User
	if err := s.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
