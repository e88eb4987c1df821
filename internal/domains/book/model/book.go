package model

import (
	"time"

	"github.com/google/uuid"
)

// Book is a catalog entry. Copies counts the units currently on the shelf.
type Book struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	PublishedYear *int      `json:"published_year,omitempty"`
	ISBN          *string   `json:"isbn,omitempty"`
	Copies        int       `json:"copies"`
	Description   *string   `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Available reports whether at least one copy can be lent.
func (b *Book) Available() bool {
	return b.Copies > 0
}

// BookFilter is the repository side of ListBooksRequest.
type BookFilter struct {
	Query         string
	ISBN          string
	AvailableOnly bool
	Limit         int
	Offset        int
}

// BookPatch carries the fields an update sets. Nil means unchanged.
type BookPatch struct {
	Title         *string
	Author        *string
	PublishedYear *int
	ISBN          *string
	Copies        *int
	Description   *string
}

// Empty reports whether the patch changes nothing.
func (p BookPatch) Empty() bool {
	return p.Title == nil && p.Author == nil && p.PublishedYear == nil &&
		p.ISBN == nil && p.Copies == nil && p.Description == nil
}
