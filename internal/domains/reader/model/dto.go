package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type CreateReaderRequest struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

func (r CreateReaderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.Length(1, 255)),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.EmailFormat.Error("invalid email format"),
			validation.Length(3, 255),
		),
		validation.Field(&r.Phone, validation.Length(0, 32)),
	)
}

type UpdateReaderRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

func (r UpdateReaderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.When(r.Name != nil, validation.Required, validation.Length(1, 255))),
		validation.Field(&r.Email, validation.When(r.Email != nil,
			validation.Required,
			is.EmailFormat.Error("invalid email format"),
			validation.Length(3, 255),
		)),
		validation.Field(&r.Phone, validation.Length(0, 32)),
	)
}

type ListReadersRequest struct {
	Query string `form:"q"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}

func (r ListReadersRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Page, validation.Min(0)),
		validation.Field(&r.Limit, validation.Min(0), validation.Max(MaxPageSize)),
		validation.Field(&r.Query, validation.Length(0, 200)),
	)
}

func (r *ListReadersRequest) Normalize() {
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

func (r ListReadersRequest) ToFilter() ReaderFilter {
	return ReaderFilter{
		Query:  strings.TrimSpace(r.Query),
		Limit:  r.Limit,
		Offset: (r.Page - 1) * r.Limit,
	}
}

// NormalizeEmail lower-cases and trims, so uniqueness is case insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
