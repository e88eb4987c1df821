package model

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ISBN-10 or ISBN-13, hyphens and spaces allowed. The last ISBN-10 digit may be X.
var isbnPattern = regexp.MustCompile(`^(?:\d[\d\- ]{8,15}[\dXx])$`)

// ========================================
// REQUEST DTOs
// ========================================

type CreateBookRequest struct {
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	PublishedYear *int    `json:"published_year"`
	ISBN          *string `json:"isbn"`
	Copies        *int    `json:"copies"`
	Description   *string `json:"description"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("title is required"), validation.Length(1, 500)),
		validation.Field(&r.Author, validation.Required.Error("author is required"), validation.Length(1, 255)),
		validation.Field(&r.PublishedYear, validation.Min(0), validation.Max(time.Now().Year()+1)),
		validation.Field(&r.ISBN, validation.When(r.ISBN != nil && *r.ISBN != "",
			validation.Match(isbnPattern).Error("invalid isbn"))),
		validation.Field(&r.Copies, validation.Min(0).Error("copies cannot be negative")),
		validation.Field(&r.Description, validation.Length(0, 5000)),
	)
}

// ToBook builds the entity. Copies default to 1.
func (r CreateBookRequest) ToBook() *Book {
	copies := 1
	if r.Copies != nil {
		copies = *r.Copies
	}
	return &Book{
		Title:         strings.TrimSpace(r.Title),
		Author:        strings.TrimSpace(r.Author),
		PublishedYear: r.PublishedYear,
		ISBN:          NormalizeISBN(r.ISBN),
		Copies:        copies,
		Description:   r.Description,
	}
}

// UpdateBookRequest is a partial update. Omitted fields keep their value.
type UpdateBookRequest struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	PublishedYear *int    `json:"published_year"`
	ISBN          *string `json:"isbn"`
	Copies        *int    `json:"copies"`
	Description   *string `json:"description"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.When(r.Title != nil, validation.Required, validation.Length(1, 500))),
		validation.Field(&r.Author, validation.When(r.Author != nil, validation.Required, validation.Length(1, 255))),
		validation.Field(&r.PublishedYear, validation.Min(0), validation.Max(time.Now().Year()+1)),
		validation.Field(&r.ISBN, validation.When(r.ISBN != nil && *r.ISBN != "",
			validation.Match(isbnPattern).Error("invalid isbn"))),
		validation.Field(&r.Copies, validation.Min(0).Error("copies cannot be negative")),
		validation.Field(&r.Description, validation.Length(0, 5000)),
	)
}

func (r UpdateBookRequest) ToPatch() BookPatch {
	p := BookPatch{
		PublishedYear: r.PublishedYear,
		Copies:        r.Copies,
		Description:   r.Description,
	}
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		p.Title = &t
	}
	if r.Author != nil {
		a := strings.TrimSpace(*r.Author)
		p.Author = &a
	}
	if r.ISBN != nil {
		// an explicit empty string clears the isbn
		if n := NormalizeISBN(r.ISBN); n != nil {
			p.ISBN = n
		} else {
			empty := ""
			p.ISBN = &empty
		}
	}
	return p
}

type ListBooksRequest struct {
	Query     string `form:"q"`
	ISBN      string `form:"isbn"`
	Available bool   `form:"available"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
}

func (r ListBooksRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Page, validation.Min(0)),
		validation.Field(&r.Limit, validation.Min(0), validation.Max(MaxPageSize)),
		validation.Field(&r.Query, validation.Length(0, 200)),
	)
}

// Normalize fills pagination defaults.
func (r *ListBooksRequest) Normalize() {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Limit <= 0 {
		r.Limit = DefaultPageSize
	}
	if r.Limit > MaxPageSize {
		r.Limit = MaxPageSize
	}
}

func (r ListBooksRequest) ToFilter() BookFilter {
	isbn := ""
	if n := NormalizeISBN(&r.ISBN); n != nil {
		isbn = *n
	}
	return BookFilter{
		Query:         strings.TrimSpace(r.Query),
		ISBN:          isbn,
		AvailableOnly: r.Available,
		Limit:         r.Limit,
		Offset:        (r.Page - 1) * r.Limit,
	}
}

// NormalizeISBN strips hyphens and spaces and upper-cases a trailing x. Empty becomes nil.
func NormalizeISBN(isbn *string) *string {
	if isbn == nil {
		return nil
	}
	s := strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(*isbn))
	if s == "" {
		return nil
	}
	return &s
}
