package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/together/internal/models"
	"github.com/mmynk/together/internal/storage"
)

const userColumns = `u.id, u.username, u.first_name, u.last_name, u.email, u.password_hash, u.is_staff, u.room_id, u.created_at`

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	query := `
		INSERT INTO users (id, username, first_name, last_name, email, password_hash, is_staff, room_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.IsStaff,
		nullable(user.RoomID),
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByUsername retrieves a user by their username.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx, "u.username = ?", username)
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "u.id = ?", id)
}

func (s *SQLiteStore) getUser(ctx context.Context, where string, arg string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE ` + where

	user, err := scanUser(s.db.QueryRowContext(ctx, query, arg), nil)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %q: %w", arg, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// ListUsers returns a page of users, newest first, with their rooms attached.
func (s *SQLiteStore) ListUsers(ctx context.Context, page storage.Page) ([]*models.User, int, error) {
	tx, err := s.readTx(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback()

	total, err := count(ctx, tx, "users")
	if err != nil {
		return nil, 0, err
	}

	n, offset := limit(page)
	rows, err := tx.QueryContext(ctx,
		`SELECT `+userColumns+`, r.name, r.created_at
		 FROM users u LEFT JOIN rooms r ON r.id = u.room_id
		 ORDER BY u.created_at DESC, u.id
		 LIMIT ? OFFSET ?`,
		n, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var roomName sql.NullString
		var roomCreatedAt sql.NullInt64

		user, err := scanUser(rows, []interface{}{&roomName, &roomCreatedAt})
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		if user.RoomID != "" && roomName.Valid {
			user.Room = &models.Room{
				ID:        user.RoomID,
				Name:      roomName.String,
				CreatedAt: roomCreatedAt.Int64,
			}
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, total, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanUser reads userColumns followed by any extra destinations.
func scanUser(row scanner, extra []interface{}) (*models.User, error) {
	user := &models.User{}
	var roomID sql.NullString

	dest := []interface{}{
		&user.ID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.IsStaff,
		&roomID,
		&user.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	if roomID.Valid {
		user.RoomID = roomID.String
	}
	return user, nil
}
