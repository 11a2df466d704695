package models

// List is a named list (shopping, todo, date ideas) owned by a room.
type List struct {
	// ID is the unique identifier for the list (UUID format).
	ID string

	Title string

	// RoomID is the owning room. Always set.
	RoomID string

	// Room is populated by list queries.
	Room *Room

	// Timestamp is the Unix time the list was created.
	Timestamp int64
}

// ListItem is a single entry of a List.
type ListItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// ListID is the owning list. Always set.
	ListID string

	// List is populated by list queries.
	List *List

	Content string

	// Timestamp is the Unix time the item was added.
	Timestamp int64
}
