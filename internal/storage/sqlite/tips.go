package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/together/internal/models"
	"github.com/mmynk/together/internal/storage"
)

// CreateTip persists a new relationship tip.
func (s *SQLiteStore) CreateTip(ctx context.Context, tip *models.RelationshipTip) error {
	if tip.ID == "" {
		tip.ID = uuid.New().String()
	}
	if tip.CreatedAt == 0 {
		tip.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO relationship_tips (id, category, title, content, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		tip.ID, tip.Category, tip.Title, tip.Content, tip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tip: %w", err)
	}

	return nil
}

// ListTips returns a page of tips, newest first.
func (s *SQLiteStore) ListTips(ctx context.Context, page storage.Page) ([]*models.RelationshipTip, int, error) {
	tx, err := s.readTx(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback()

	total, err := count(ctx, tx, "relationship_tips")
	if err != nil {
		return nil, 0, err
	}

	n, offset := limit(page)
	rows, err := tx.QueryContext(ctx,
		`SELECT id, category, title, content, created_at
		 FROM relationship_tips ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		n, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tips: %w", err)
	}
	defer rows.Close()

	var tips []*models.RelationshipTip
	for rows.Next() {
		tip := &models.RelationshipTip{}
		if err := rows.Scan(&tip.ID, &tip.Category, &tip.Title, &tip.Content, &tip.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan tip: %w", err)
		}
		tips = append(tips, tip)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate tips: %w", err)
	}

	return tips, total, nil
}
