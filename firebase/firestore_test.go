package firebase

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"deadline-tracker/models"
)

// newEmulatorStore needs a running emulator, e.g.
// gcloud emulators firestore start --host-port=localhost:8081
// FIRESTORE_EMULATOR_HOST=localhost:8081 go test ./firebase/
func newEmulatorStore(t *testing.T) *DeadlineStore {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set; skipping Firestore store tests")
	}

	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "deadline-tracker-test")
	if err != nil {
		t.Fatalf("firestore.NewClient: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	// A fresh collection per test keeps runs independent.
	return NewDeadlineStore(client, "deadlines_"+uuid.NewString()[:8])
}

func sample(status models.Status) models.Deadline {
	due := time.Date(2026, 12, 1, 10, 0, 0, 0, time.UTC)
	desc := "board bring-up"
	return models.Deadline{
		ID:              uuid.NewString(),
		Title:           "EVT build",
		Description:     &desc,
		CreationDate:    time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
		DueDate:         due,
		OriginalDueDate: due,
		Status:          status,
		Category:        models.CategoryHardware,
		Responsible:     "frank",
		Customer:        "Hooli",
	}
}

func TestFirestoreCreateAndList(t *testing.T) {
	s := newEmulatorStore(t)
	ctx := context.Background()

	if err := s.EnsureCollection(ctx); err != nil {
		t.Fatalf("EnsureCollection: %v", err)
	}

	open, done := sample(models.StatusOpen), sample(models.StatusDone)
	for _, d := range []models.Deadline{open, done} {
		if _, err := s.Create(ctx, d); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	all, err := s.List(ctx, nil)
	if err != nil || len(all) != 2 {
		t.Fatalf("List(nil) = %d, %v", len(all), err)
	}

	st := models.StatusDone
	got, err := s.List(ctx, &st)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != done.ID {
		t.Fatalf("List(Done) = %+v", got)
	}
	if got[0].Description == nil || *got[0].Description != "board bring-up" || got[0].Tag != nil {
		t.Errorf("optional fields not round-tripped: %+v", got[0])
	}
	if !got[0].DueDate.Equal(done.DueDate) {
		t.Errorf("DueDate = %v, want %v", got[0].DueDate, done.DueDate)
	}
}

func TestFirestoreUpdates(t *testing.T) {
	s := newEmulatorStore(t)
	ctx := context.Background()

	d := sample(models.StatusOpen)
	if _, err := s.Create(ctx, d); err != nil {
		t.Fatal(err)
	}

	newDue := d.DueDate.Add(7 * 24 * time.Hour)
	updated, err := s.UpdateDueDate(ctx, d.ID, newDue)
	if err != nil {
		t.Fatalf("UpdateDueDate: %v", err)
	}
	if !updated.DueDate.Equal(newDue) || !updated.OriginalDueDate.Equal(d.OriginalDueDate) {
		t.Errorf("after UpdateDueDate: %+v", updated)
	}

	if _, err := s.UpdateStatus(ctx, d.ID, models.StatusPostponed); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	all, err := s.List(ctx, nil)
	if err != nil || len(all) != 1 {
		t.Fatalf("List = %d, %v", len(all), err)
	}
	stored := all[0]
	if stored.Status != models.StatusPostponed || !stored.DueDate.Equal(newDue) || !stored.OriginalDueDate.Equal(d.OriginalDueDate) {
		t.Errorf("stored = %+v", stored)
	}

	missing := uuid.NewString()
	if _, err := s.UpdateDueDate(ctx, missing, newDue); !errors.Is(err, models.ErrDeadlineNotFound) {
		t.Errorf("UpdateDueDate(missing) = %v", err)
	}
	if _, err := s.UpdateStatus(ctx, missing, models.StatusDone); !errors.Is(err, models.ErrDeadlineNotFound) {
		t.Errorf("UpdateStatus(missing) = %v", err)
	}
}
