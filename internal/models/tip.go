package models

// RelationshipTip is a piece of advice served as the "daily tip".
type RelationshipTip struct {
	// ID is the unique identifier for the tip (UUID format).
	ID string

	// Category groups tips (e.g., "communication", "dates").
	Category string

	Title   string
	Content string

	// CreatedAt is the Unix timestamp when the tip was added.
	CreatedAt int64
}
