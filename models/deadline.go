package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

type Status string

const (
	StatusOpen      Status = "Open"
	StatusDone      Status = "Done"
	StatusPostponed Status = "Postponed"
)

type Category string

const (
	CategoryHardware      Category = "Hardware"
	CategorySoftware      Category = "Software"
	CategoryFirmware      Category = "Firmware"
	CategoryAccounting    Category = "Accounting"
	CategoryProduction    Category = "Production"
	CategoryCertification Category = "Certification"
	CategoryDelivery      Category = "Delivery"
	CategoryOther         Category = "Other"
)

var (
	ErrDeadlineNotFound = errors.New("deadline not found")
	ErrDeadlineUpdate   = errors.New("error updating the deadline")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidCategory  = errors.New("invalid category")
)

var statuses = []Status{StatusOpen, StatusDone, StatusPostponed}

var categories = []Category{
	CategoryHardware, CategorySoftware, CategoryFirmware, CategoryAccounting,
	CategoryProduction, CategoryCertification, CategoryDelivery, CategoryOther,
}

// Deadline is the stored document. The same field names are used for JSON,
// Firestore documents and the Postgres JSONB column.
type Deadline struct {
	ID              string    `json:"id" firestore:"id"`
	Title           string    `json:"title" firestore:"title"`
	Description     *string   `json:"description" firestore:"description"`
	CreationDate    time.Time `json:"creation_date" firestore:"creation_date"`
	DueDate         time.Time `json:"due_date" firestore:"due_date"`
	OriginalDueDate time.Time `json:"original_due_date" firestore:"original_due_date"`
	Status          Status    `json:"status" firestore:"status"`
	Category        Category  `json:"category" firestore:"category"`
	Responsible     string    `json:"responsible" firestore:"responsible"`
	Customer        string    `json:"customer" firestore:"customer"`
	Tag             *string   `json:"tag" firestore:"tag"`
}

// CreateDeadlineInput is the payload of POST /deadlines/. The id and
// creation date are always assigned by the server. Required strings are
// pointers so that a present but empty value is accepted.
type CreateDeadlineInput struct {
	Title           *string    `json:"title" validate:"required"`
	Description     *string    `json:"description"`
	DueDate         *time.Time `json:"due_date" validate:"required"`
	OriginalDueDate *time.Time `json:"original_due_date"`
	Status          Status     `json:"status" validate:"omitempty,deadline_status"`
	Category        Category   `json:"category" validate:"omitempty,deadline_category"`
	Responsible     *string    `json:"responsible" validate:"required"`
	Customer        *string    `json:"customer" validate:"required"`
	Tag             *string    `json:"tag"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("deadline_status", func(fl validator.FieldLevel) bool {
		_, err := ParseStatus(fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("deadline_category", func(fl validator.FieldLevel) bool {
		_, err := ParseCategory(fl.Field().String())
		return err == nil
	})
	return v
}

func (in *CreateDeadlineInput) Validate() error {
	return validate.Struct(in)
}

// ToDeadline builds the record to persist, filling in the defaults:
// status Open, category Other and original due date equal to the due date.
func (in *CreateDeadlineInput) ToDeadline(id string, now time.Time) Deadline {
	d := Deadline{
		ID:           id,
		Title:        deref(in.Title),
		Description:  in.Description,
		CreationDate: now,
		Status:       in.Status,
		Category:     in.Category,
		Responsible:  deref(in.Responsible),
		Customer:     deref(in.Customer),
		Tag:          in.Tag,
	}
	if in.DueDate != nil {
		d.DueDate = *in.DueDate
	}
	d.OriginalDueDate = d.DueDate
	if in.OriginalDueDate != nil {
		d.OriginalDueDate = *in.OriginalDueDate
	}
	if d.Status == "" {
		d.Status = StatusOpen
	}
	if d.Category == "" {
		d.Category = CategoryOther
	}
	return d
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ParseStatus(s string) (Status, error) {
	for _, st := range statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func ParseCategory(s string) (Category, error) {
	for _, c := range categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// DeadlineStore persists deadlines in a document collection.
// UpdateDueDate and UpdateStatus return ErrDeadlineNotFound when the id is
// unknown and wrap ErrDeadlineUpdate when the write itself is rejected.
type DeadlineStore interface {
	EnsureCollection(ctx context.Context) error
	Create(ctx context.Context, d Deadline) (*Deadline, error)
	List(ctx context.Context, status *Status) ([]Deadline, error)
	UpdateDueDate(ctx context.Context, id string, dueDate time.Time) (*Deadline, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Deadline, error)
}
