// Package models defines the records of the together application that the
// admin console lists.
//
// # Models
//
//   - User: an account, optionally linked to a Room
//   - RelationshipTip: a short tip shown to couples, grouped by category
//   - Room: a shared space two users join
//   - List: a named list that belongs to a Room
//   - ListItem: a single entry of a List
//
// Relationships are stored as ID strings. Paged list queries additionally
// populate a pointer to the related record (User.Room, List.Room,
// ListItem.List) so display code can read it without another lookup.
// Related records never point back, so there are no cycles.
package models
