package models

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func str(s string) *string { return &s }

func validInput() CreateDeadlineInput {
	due := time.Date(2026, 11, 30, 12, 0, 0, 0, time.UTC)
	return CreateDeadlineInput{
		Title:       str("Ship firmware v2"),
		DueDate:     &due,
		Responsible: str("alice"),
		Customer:    str("ACME"),
	}
}

func TestToDeadlineDefaults(t *testing.T) {
	in := validInput()
	now := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

	d := in.ToDeadline("3f1c2a7e-9d7b-4d0b-9a53-5d0c1b2f8e11", now)

	if d.Status != StatusOpen {
		t.Errorf("Status = %q, want %q", d.Status, StatusOpen)
	}
	if d.Category != CategoryOther {
		t.Errorf("Category = %q, want %q", d.Category, CategoryOther)
	}
	if !d.OriginalDueDate.Equal(*in.DueDate) {
		t.Errorf("OriginalDueDate = %v, want %v", d.OriginalDueDate, *in.DueDate)
	}
	if !d.CreationDate.Equal(now) {
		t.Errorf("CreationDate = %v, want %v", d.CreationDate, now)
	}
	if d.ID != "3f1c2a7e-9d7b-4d0b-9a53-5d0c1b2f8e11" {
		t.Errorf("ID = %q", d.ID)
	}
	if d.Title != "Ship firmware v2" || d.Responsible != "alice" || d.Customer != "ACME" {
		t.Errorf("strings not copied: %+v", d)
	}
}

func TestToDeadlineKeepsExplicitValues(t *testing.T) {
	in := validInput()
	orig := in.DueDate.Add(-48 * time.Hour)
	in.OriginalDueDate = &orig
	in.Status = StatusPostponed
	in.Category = CategoryCertification

	d := in.ToDeadline("id", time.Now())

	if !d.OriginalDueDate.Equal(orig) {
		t.Errorf("OriginalDueDate = %v, want %v", d.OriginalDueDate, orig)
	}
	if d.Status != StatusPostponed || d.Category != CategoryCertification {
		t.Errorf("got status %q category %q", d.Status, d.Category)
	}
}

func TestCreateDeadlineInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateDeadlineInput)
		wantErr bool
	}{
		{"valid", func(*CreateDeadlineInput) {}, false},
		{"missing title", func(in *CreateDeadlineInput) { in.Title = nil }, true},
		{"empty title", func(in *CreateDeadlineInput) { in.Title = str("") }, false},
		{"long title", func(in *CreateDeadlineInput) { in.Title = str(strings.Repeat("t", 300)) }, false},
		{"missing due date", func(in *CreateDeadlineInput) { in.DueDate = nil }, true},
		{"missing responsible", func(in *CreateDeadlineInput) { in.Responsible = nil }, true},
		{"missing customer", func(in *CreateDeadlineInput) { in.Customer = nil }, true},
		{"unknown status", func(in *CreateDeadlineInput) { in.Status = "Closed" }, true},
		{"unknown category", func(in *CreateDeadlineInput) { in.Category = "Marketing" }, true},
		{"known category", func(in *CreateDeadlineInput) { in.Category = CategoryFirmware }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			err := in.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"Open", "Done", "Postponed"} {
		if got, err := ParseStatus(s); err != nil || string(got) != s {
			t.Errorf("ParseStatus(%q) = %q, %v", s, got, err)
		}
	}
	for _, s := range []string{"", "open", "Closed"} {
		if _, err := ParseStatus(s); !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("ParseStatus(%q) error = %v, want ErrInvalidStatus", s, err)
		}
	}
}

func TestParseCategory(t *testing.T) {
	if got, err := ParseCategory("Delivery"); err != nil || got != CategoryDelivery {
		t.Errorf("ParseCategory(Delivery) = %q, %v", got, err)
	}
	if _, err := ParseCategory("delivery"); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
}
