// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/together/internal/models"
)

// ErrNotFound is returned when a record lookup matches nothing.
var ErrNotFound = errors.New("record not found")

// Page selects a window of a listing.
type Page struct {
	Offset int
	Limit  int
}

// Store defines the storage operations the admin console needs.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the admin or service layers.
type Store interface {
	// CreateUser persists a new user. ID and CreatedAt are filled in when empty.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername returns ErrNotFound if no user has the username.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID returns ErrNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	CreateRoom(ctx context.Context, room *models.Room) error
	CreateTip(ctx context.Context, tip *models.RelationshipTip) error
	CreateList(ctx context.Context, list *models.List) error
	CreateListItem(ctx context.Context, item *models.ListItem) error

	// The List* methods return one page of records along with the total count.
	// Related records (User.Room, List.Room, ListItem.List) are populated.
	ListUsers(ctx context.Context, page Page) ([]*models.User, int, error)
	ListTips(ctx context.Context, page Page) ([]*models.RelationshipTip, int, error)
	ListRooms(ctx context.Context, page Page) ([]*models.Room, int, error)
	ListLists(ctx context.Context, page Page) ([]*models.List, int, error)
	ListListItems(ctx context.Context, page Page) ([]*models.ListItem, int, error)

	// Close releases any resources held by the store.
	Close() error
}
