package admin

import (
	"context"

	"github.com/mmynk/together/internal/models"
	"github.com/mmynk/together/internal/storage"
)

// UserAdmin lists users with the name of the room they joined.
func UserAdmin() *Adapter[*models.User] {
	return NewAdapter("user",
		func(ctx context.Context, s storage.Store, p storage.Page) ([]*models.User, int, error) {
			return s.ListUsers(ctx, p)
		},
		func(u *models.User) string { return u.ID },
		Field[*models.User]{Name: "username", Value: func(u *models.User) string { return u.Username }},
		Field[*models.User]{Name: "first_name", Value: func(u *models.User) string { return u.FirstName }},
		Field[*models.User]{Name: "last_name", Value: func(u *models.User) string { return u.LastName }},
		Field[*models.User]{Name: "get_room", Value: UserRoom},
	)
}

// RelationshipTipAdmin lists tips by category and title.
func RelationshipTipAdmin() *Adapter[*models.RelationshipTip] {
	return NewAdapter("relationship tip",
		func(ctx context.Context, s storage.Store, p storage.Page) ([]*models.RelationshipTip, int, error) {
			return s.ListTips(ctx, p)
		},
		func(t *models.RelationshipTip) string { return t.ID },
		Field[*models.RelationshipTip]{Name: "pk", Value: func(t *models.RelationshipTip) string { return t.ID }},
		Field[*models.RelationshipTip]{Name: "category", Value: func(t *models.RelationshipTip) string { return t.Category }},
		Field[*models.RelationshipTip]{Name: "title", Value: func(t *models.RelationshipTip) string { return t.Title }},
	)
}

// RoomAdmin lists rooms.
func RoomAdmin() *Adapter[*models.Room] {
	return NewAdapter("room",
		func(ctx context.Context, s storage.Store, p storage.Page) ([]*models.Room, int, error) {
			return s.ListRooms(ctx, p)
		},
		func(r *models.Room) string { return r.ID },
		Field[*models.Room]{Name: "pk", Value: func(r *models.Room) string { return r.ID }},
		Field[*models.Room]{Name: "name", Value: func(r *models.Room) string { return r.Name }},
	)
}

// ListAdmin lists lists with their owning room.
func ListAdmin() *Adapter[*models.List] {
	return NewAdapter("list",
		func(ctx context.Context, s storage.Store, p storage.Page) ([]*models.List, int, error) {
			return s.ListLists(ctx, p)
		},
		func(l *models.List) string { return l.ID },
		Field[*models.List]{Name: "pk", Value: func(l *models.List) string { return l.ID }},
		Field[*models.List]{Name: "title", Value: func(l *models.List) string { return l.Title }},
		Field[*models.List]{Name: "timestamp", Value: func(l *models.List) string { return Timestamp(l.Timestamp) }},
		Field[*models.List]{Name: "get_room", Value: ListRoom},
	)
}

// ListItemAdmin lists items with their list title and a content preview.
func ListItemAdmin() *Adapter[*models.ListItem] {
	return NewAdapter("list item",
		func(ctx context.Context, s storage.Store, p storage.Page) ([]*models.ListItem, int, error) {
			return s.ListListItems(ctx, p)
		},
		func(i *models.ListItem) string { return i.ID },
		Field[*models.ListItem]{Name: "pk", Value: func(i *models.ListItem) string { return i.ID }},
		Field[*models.ListItem]{Name: "get_list", Value: ListItemList},
		Field[*models.ListItem]{Name: "get_content", Value: ListItemContent},
		Field[*models.ListItem]{Name: "timestamp", Value: func(i *models.ListItem) string { return Timestamp(i.Timestamp) }},
	)
}

// RegisterDefaults registers the adapters for all five models.
func RegisterDefaults(site *Site) error {
	for _, m := range []ModelAdmin{
		UserAdmin(),
		RelationshipTipAdmin(),
		RoomAdmin(),
		ListAdmin(),
		ListItemAdmin(),
	} {
		if err := site.Register(m); err != nil {
			return err
		}
	}
	return nil
}
