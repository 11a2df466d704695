package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/together/internal/models"
	"github.com/mmynk/together/internal/storage"
)

// CreateList persists a new list. The room must exist.
func (s *SQLiteStore) CreateList(ctx context.Context, list *models.List) error {
	if list.ID == "" {
		list.ID = uuid.New().String()
	}
	if list.Timestamp == 0 {
		list.Timestamp = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO lists (id, title, room_id, timestamp) VALUES (?, ?, ?, ?)",
		list.ID, list.Title, list.RoomID, list.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert list: %w", err)
	}

	return nil
}

// CreateListItem persists a new list item. The list must exist.
func (s *SQLiteStore) CreateListItem(ctx context.Context, item *models.ListItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Timestamp == 0 {
		item.Timestamp = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO list_items (id, list_id, content, timestamp) VALUES (?, ?, ?, ?)",
		item.ID, item.ListID, item.Content, item.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert list item: %w", err)
	}

	return nil
}

// ListLists returns a page of lists, newest first, with their rooms attached.
func (s *SQLiteStore) ListLists(ctx context.Context, page storage.Page) ([]*models.List, int, error) {
	tx, err := s.readTx(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback()

	total, err := count(ctx, tx, "lists")
	if err != nil {
		return nil, 0, err
	}

	n, offset := limit(page)
	rows, err := tx.QueryContext(ctx,
		`SELECT l.id, l.title, l.room_id, l.timestamp, r.name, r.created_at
		 FROM lists l JOIN rooms r ON r.id = l.room_id
		 ORDER BY l.timestamp DESC, l.id
		 LIMIT ? OFFSET ?`,
		n, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list lists: %w", err)
	}
	defer rows.Close()

	var lists []*models.List
	for rows.Next() {
		list := &models.List{Room: &models.Room{}}
		if err := rows.Scan(&list.ID, &list.Title, &list.RoomID, &list.Timestamp,
			&list.Room.Name, &list.Room.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan list: %w", err)
		}
		list.Room.ID = list.RoomID
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate lists: %w", err)
	}

	return lists, total, nil
}

// ListListItems returns a page of list items, newest first, with their lists attached.
func (s *SQLiteStore) ListListItems(ctx context.Context, page storage.Page) ([]*models.ListItem, int, error) {
	tx, err := s.readTx(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback()

	total, err := count(ctx, tx, "list_items")
	if err != nil {
		return nil, 0, err
	}

	n, offset := limit(page)
	rows, err := tx.QueryContext(ctx,
		`SELECT i.id, i.list_id, i.content, i.timestamp, l.title, l.room_id, l.timestamp
		 FROM list_items i JOIN lists l ON l.id = i.list_id
		 ORDER BY i.timestamp DESC, i.id
		 LIMIT ? OFFSET ?`,
		n, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list list items: %w", err)
	}
	defer rows.Close()

	var items []*models.ListItem
	for rows.Next() {
		item := &models.ListItem{List: &models.List{}}
		if err := rows.Scan(&item.ID, &item.ListID, &item.Content, &item.Timestamp,
			&item.List.Title, &item.List.RoomID, &item.List.Timestamp); err != nil {
			return nil, 0, fmt.Errorf("failed to scan list item: %w", err)
		}
		item.List.ID = item.ListID
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate list items: %w", err)
	}

	return items, total, nil
}
