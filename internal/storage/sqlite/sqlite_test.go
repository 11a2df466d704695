package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmynk/together/internal/models"
	"github.com/mmynk/together/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "together-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	room := &models.Room{Name: "Alice & Bob"}

	t.Run("CreateRoom generates ID and timestamp", func(t *testing.T) {
		if err := store.CreateRoom(ctx, room); err != nil {
			t.Fatalf("CreateRoom failed: %v", err)
		}
		if room.ID == "" {
			t.Error("Expected room ID to be generated")
		}
		if room.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("ListUsers attaches rooms", func(t *testing.T) {
		alice := &models.User{Username: "alice", FirstName: "Alice", RoomID: room.ID, CreatedAt: 200}
		carol := &models.User{Username: "carol", FirstName: "Carol", CreatedAt: 100}
		for _, u := range []*models.User{alice, carol} {
			if err := store.CreateUser(ctx, u); err != nil {
				t.Fatalf("CreateUser(%s) failed: %v", u.Username, err)
			}
		}

		users, total, err := store.ListUsers(ctx, storage.Page{})
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		if total != 2 || len(users) != 2 {
			t.Fatalf("Expected 2 users, got %d (total %d)", len(users), total)
		}

		// Newest first
		if users[0].Username != "alice" {
			t.Errorf("Expected alice first, got %s", users[0].Username)
		}
		if users[0].Room == nil || users[0].Room.Name != "Alice & Bob" {
			t.Errorf("Expected alice's room to be attached, got %+v", users[0].Room)
		}
		if users[1].Room != nil {
			t.Errorf("Expected carol to have no room, got %+v", users[1].Room)
		}
	})

	t.Run("GetUserByUsername", func(t *testing.T) {
		user, err := store.GetUserByUsername(ctx, "alice")
		if err != nil {
			t.Fatalf("GetUserByUsername failed: %v", err)
		}
		if user.RoomID != room.ID {
			t.Errorf("RoomID mismatch: got %s, want %s", user.RoomID, room.ID)
		}

		byID, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byID.Username != "alice" {
			t.Errorf("Username mismatch: got %s", byID.Username)
		}
	})

	t.Run("GetUserByUsername returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetUserByUsername(ctx, "nobody")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Duplicate username is rejected", func(t *testing.T) {
		err := store.CreateUser(ctx, &models.User{Username: "alice"})
		if err == nil {
			t.Error("Expected error for duplicate username, got nil")
		}
	})

	t.Run("staff flag round-trips", func(t *testing.T) {
		admin := models.NewStaffUser("admin", "admin@example.com", "hash")
		if err := store.CreateUser(ctx, admin); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		got, err := store.GetUserByUsername(ctx, "admin")
		if err != nil {
			t.Fatalf("GetUserByUsername failed: %v", err)
		}
		if !got.IsStaff {
			t.Error("Expected IsStaff to be true")
		}
		if got.PasswordHash != "hash" {
			t.Errorf("PasswordHash mismatch: got %s", got.PasswordHash)
		}
	})

	t.Run("Lists and items carry their parents", func(t *testing.T) {
		list := &models.List{Title: "Shopping", RoomID: room.ID}
		if err := store.CreateList(ctx, list); err != nil {
			t.Fatalf("CreateList failed: %v", err)
		}
		item := &models.ListItem{ListID: list.ID, Content: "Milk"}
		if err := store.CreateListItem(ctx, item); err != nil {
			t.Fatalf("CreateListItem failed: %v", err)
		}

		lists, total, err := store.ListLists(ctx, storage.Page{Limit: 10})
		if err != nil {
			t.Fatalf("ListLists failed: %v", err)
		}
		if total != 1 || lists[0].Room.Name != room.Name {
			t.Errorf("Unexpected lists: total=%d room=%+v", total, lists[0].Room)
		}

		items, total, err := store.ListListItems(ctx, storage.Page{Limit: 10})
		if err != nil {
			t.Fatalf("ListListItems failed: %v", err)
		}
		if total != 1 || items[0].List.Title != "Shopping" {
			t.Errorf("Unexpected items: total=%d list=%+v", total, items[0].List)
		}
	})

	t.Run("List requires an existing room", func(t *testing.T) {
		err := store.CreateList(ctx, &models.List{Title: "Orphan", RoomID: "missing"})
		if err == nil {
			t.Error("Expected foreign key error, got nil")
		}
	})

	t.Run("ListTips and ListRooms", func(t *testing.T) {
		tip := &models.RelationshipTip{Category: "dates", Title: "Cook together", Content: "Pick a recipe neither of you knows."}
		if err := store.CreateTip(ctx, tip); err != nil {
			t.Fatalf("CreateTip failed: %v", err)
		}

		tips, total, err := store.ListTips(ctx, storage.Page{})
		if err != nil {
			t.Fatalf("ListTips failed: %v", err)
		}
		if total != 1 || tips[0].Title != "Cook together" {
			t.Errorf("Unexpected tips: %+v", tips)
		}

		rooms, total, err := store.ListRooms(ctx, storage.Page{})
		if err != nil {
			t.Fatalf("ListRooms failed: %v", err)
		}
		if total != 1 || rooms[0].ID != room.ID {
			t.Errorf("Unexpected rooms: %+v", rooms)
		}
	})
}

func TestListPaging(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := store.CreateRoom(ctx, &models.Room{Name: "Room", CreatedAt: int64(100 + i)}); err != nil {
			t.Fatalf("CreateRoom failed: %v", err)
		}
	}

	tests := []struct {
		name      string
		page      storage.Page
		wantCount int
		wantFirst int64
	}{
		{"first page", storage.Page{Offset: 0, Limit: 2}, 2, 104},
		{"second page", storage.Page{Offset: 2, Limit: 2}, 2, 102},
		{"last partial page", storage.Page{Offset: 4, Limit: 2}, 1, 100},
		{"past the end", storage.Page{Offset: 10, Limit: 2}, 0, 0},
		{"no limit", storage.Page{}, 5, 104},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rooms, total, err := store.ListRooms(ctx, tt.page)
			if err != nil {
				t.Fatalf("ListRooms failed: %v", err)
			}
			if total != 5 {
				t.Errorf("total = %d, want 5", total)
			}
			if len(rooms) != tt.wantCount {
				t.Fatalf("len = %d, want %d", len(rooms), tt.wantCount)
			}
			if tt.wantCount > 0 && rooms[0].CreatedAt != tt.wantFirst {
				t.Errorf("first CreatedAt = %d, want %d", rooms[0].CreatedAt, tt.wantFirst)
			}
		})
	}
}

func TestListTotalMatchesRowsDuringWrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	const writes = 50
	done := make(chan error, 1)
	go func() {
		for i := 0; i < writes; i++ {
			if err := store.CreateRoom(ctx, &models.Room{Name: "Room"}); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	for {
		rooms, total, err := store.ListRooms(ctx, storage.Page{})
		if err != nil {
			t.Fatalf("ListRooms failed: %v", err)
		}
		if len(rooms) != total {
			t.Fatalf("len = %d, total = %d", len(rooms), total)
		}

		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("CreateRoom failed: %v", err)
			}
			return
		default:
		}
	}
}
