package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"deadline-tracker/errs"
	"deadline-tracker/models"
	"deadline-tracker/utilities"
	"deadline-tracker/validation"
)

// DeadlineService applies the server-side rules on top of a store: ids and
// creation dates are assigned per request, defaults are filled in and
// malformed ids are reported as not found.
type DeadlineService struct {
	store models.DeadlineStore
	now   func() time.Time
	newID func() string
}

type Option func(*DeadlineService)

func WithClock(now func() time.Time) Option {
	return func(s *DeadlineService) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *DeadlineService) { s.newID = newID }
}

func NewDeadlineService(store models.DeadlineStore, opts ...Option) *DeadlineService {
	s := &DeadlineService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates input and persists a new deadline.
func (s *DeadlineService) Create(ctx context.Context, input models.CreateDeadlineInput) (*models.Deadline, error) {
	if err := input.Validate(); err != nil {
		return nil, errs.NewBadRequestError("Validation failed", validation.FieldErrors(err))
	}

	d := input.ToDeadline(s.newID(), s.now())
	created, err := s.store.Create(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("create deadline: %w", err)
	}

	utilities.LogInfo("Deadline created: %s (ID: %s) by %s", created.Title, created.ID, caller(ctx))
	return created, nil
}

// List returns every deadline, or only those in status when it is non-nil.
func (s *DeadlineService) List(ctx context.Context, status *models.Status) ([]models.Deadline, error) {
	deadlines, err := s.store.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list deadlines: %w", err)
	}
	return deadlines, nil
}

func (s *DeadlineService) UpdateDueDate(ctx context.Context, id string, dueDate time.Time) (*models.Deadline, error) {
	id, err := normalizeID(id)
	if err != nil {
		return nil, err
	}

	d, err := s.store.UpdateDueDate(ctx, id, dueDate)
	if err != nil {
		return nil, fmt.Errorf("update due date of %s: %w", id, err)
	}

	utilities.LogInfo("Deadline %s due date moved to %s by %s", id, dueDate.Format(time.RFC3339), caller(ctx))
	return d, nil
}

func (s *DeadlineService) UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Deadline, error) {
	if _, err := models.ParseStatus(string(status)); err != nil {
		return nil, err
	}
	id, err := normalizeID(id)
	if err != nil {
		return nil, err
	}

	d, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("update status of %s: %w", id, err)
	}

	utilities.LogInfo("Deadline %s status set to %s by %s", id, status, caller(ctx))
	return d, nil
}

// normalizeID returns the canonical lowercase form of a UUID. Anything that
// does not parse cannot name a stored deadline.
func normalizeID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", models.ErrDeadlineNotFound
	}
	return parsed.String(), nil
}

func caller(ctx context.Context) string {
	if uid, ok := utilities.UserUID(ctx); ok {
		return uid
	}
	return "anonymous"
}
