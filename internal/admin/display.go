package admin

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/mmynk/together/internal/models"
)

const (
	// EmptyValue is shown for a user without a room.
	EmptyValue = "N/A"

	// PreviewLength is the number of characters kept by Preview.
	PreviewLength = 20

	ellipsis        = "..."
	timestampLayout = "2006-01-02 15:04:05"
)

// UserRoom returns the name of the user's room, or EmptyValue if the user has
// not joined one.
func UserRoom(u *models.User) string {
	if u.Room == nil {
		return EmptyValue
	}
	return u.Room.Name
}

// ListRoom returns the name of the room that owns the list.
// l.Room must be populated.
func ListRoom(l *models.List) string {
	return l.Room.Name
}

// ListItemList returns the title of the list that owns the item.
// i.List must be populated.
func ListItemList(i *models.ListItem) string {
	return i.List.Title
}

// Preview returns the first PreviewLength characters of content, followed by
// "..." when anything was cut off.
func Preview(content string) string {
	if utf8.RuneCountInString(content) <= PreviewLength {
		return content
	}
	runes := []rune(content)
	return string(runes[:PreviewLength]) + ellipsis
}

// ListItemContent is the preview column of a list item.
func ListItemContent(i *models.ListItem) string {
	return Preview(i.Content)
}

// Timestamp renders a Unix time in UTC.
func Timestamp(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(timestampLayout)
}

// Header turns a column name into its table heading: "pk" becomes "ID",
// "first_name" becomes "First name".
func Header(name string) string {
	if name == "pk" {
		return "ID"
	}
	label := strings.ReplaceAll(name, "_", " ")
	r, size := utf8.DecodeRuneInString(label)
	if r == utf8.RuneError {
		return label
	}
	return string(unicode.ToUpper(r)) + label[size:]
}
