package domain

import (
	"errors"
	"time"
)

var ErrBookNotFound = errors.New("book not found")

// Book is a catalog record. Auth lists the roles allowed to see the book in
// list responses; mutation rights are governed by capabilities, not this list.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author,omitempty"`
	Auth      []string  `json:"auth"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VisibleTo reports whether a caller with the given role may see this book.
func (b Book) VisibleTo(role string) bool {
	for _, r := range b.Auth {
		if r == role {
			return true
		}
	}
	return false
}
