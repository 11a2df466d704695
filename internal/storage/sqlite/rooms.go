package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/together/internal/models"
	"github.com/mmynk/together/internal/storage"
)

// CreateRoom persists a new room.
func (s *SQLiteStore) CreateRoom(ctx context.Context, room *models.Room) error {
	if room.ID == "" {
		room.ID = uuid.New().String()
	}
	if room.CreatedAt == 0 {
		room.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO rooms (id, name, created_at) VALUES (?, ?, ?)",
		room.ID, room.Name, room.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert room: %w", err)
	}

	return nil
}

// ListRooms returns a page of rooms, newest first.
func (s *SQLiteStore) ListRooms(ctx context.Context, page storage.Page) ([]*models.Room, int, error) {
	tx, err := s.readTx(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback()

	total, err := count(ctx, tx, "rooms")
	if err != nil {
		return nil, 0, err
	}

	n, offset := limit(page)
	rows, err := tx.QueryContext(ctx,
		"SELECT id, name, created_at FROM rooms ORDER BY created_at DESC, id LIMIT ? OFFSET ?",
		n, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		room := &models.Room{}
		if err := rows.Scan(&room.ID, &room.Name, &room.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate rooms: %w", err)
	}

	return rooms, total, nil
}
