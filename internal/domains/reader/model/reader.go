package model

import (
	"time"

	"github.com/google/uuid"
)

// Reader is a library patron who can borrow books.
type Reader struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReaderFilter struct {
	Query  string
	Limit  int
	Offset int
}

// ReaderPatch carries the fields an update sets. Nil means unchanged; an empty Phone clears it.
type ReaderPatch struct {
	Name  *string
	Email *string
	Phone *string
}

func (p ReaderPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil
}
