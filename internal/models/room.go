package models

// Room is a shared space that users join and lists belong to.
type Room struct {
	// ID is the unique identifier for the room (UUID format).
	ID string

	// Name is the display name of the room.
	Name string

	// CreatedAt is the Unix timestamp when the room was created.
	CreatedAt int64
}
