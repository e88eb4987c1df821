package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type CreateLoanRequest struct {
	BookID   string `json:"book_id"`
	ReaderID string `json:"reader_id"`
}

func (r CreateLoanRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.Required.Error("book_id is required"), is.UUID),
		validation.Field(&r.ReaderID, validation.Required.Error("reader_id is required"), is.UUID),
	)
}

// IDs parses the validated identifiers.
func (r CreateLoanRequest) IDs() (bookID, readerID uuid.UUID, err error) {
	return parsePair(r.BookID, r.ReaderID)
}

type ReturnLoanRequest struct {
	BookID     string     `json:"book_id"`
	ReaderID   string     `json:"reader_id"`
	ReturnDate *time.Time `json:"return_date"`
}

func (r ReturnLoanRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.Required.Error("book_id is required"), is.UUID),
		validation.Field(&r.ReaderID, validation.Required.Error("reader_id is required"), is.UUID),
	)
}

func (r ReturnLoanRequest) IDs() (bookID, readerID uuid.UUID, err error) {
	return parsePair(r.BookID, r.ReaderID)
}

func parsePair(book, reader string) (uuid.UUID, uuid.UUID, error) {
	bookID, err := uuid.Parse(book)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	readerID, err := uuid.Parse(reader)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return bookID, readerID, nil
}

type ListLoansRequest struct {
	ReaderID string `form:"reader_id"`
	BookID   string `form:"book_id"`
	Status   string `form:"status"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

func (r ListLoansRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ReaderID, is.UUID),
		validation.Field(&r.BookID, is.UUID),
		validation.Field(&r.Status, validation.In(string(StatusActive), string(StatusClosed), string(StatusAll))),
		validation.Field(&r.Page, validation.Min(0)),
		validation.Field(&r.Limit, validation.Min(0), validation.Max(MaxPageSize)),
	)
}

// Normalize fills pagination and status defaults.
func (r *ListLoansRequest) Normalize() {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Limit <= 0 {
		r.Limit = DefaultPageSize
	}
	if r.Limit > MaxPageSize {
		r.Limit = MaxPageSize
	}
	if r.Status == "" {
		r.Status = string(StatusAll)
	}
}

// ToFilter expects a validated request. Malformed ids are dropped.
func (r ListLoansRequest) ToFilter() LoanFilter {
	f := LoanFilter{
		Status: Status(r.Status),
		Limit:  r.Limit,
		Offset: (r.Page - 1) * r.Limit,
	}
	if id, err := uuid.Parse(r.ReaderID); err == nil {
		f.ReaderID = &id
	}
	if id, err := uuid.Parse(r.BookID); err == nil {
		f.BookID = &id
	}
	return f
}
