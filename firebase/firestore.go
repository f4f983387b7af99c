package firebase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"deadline-tracker/models"
	"deadline-tracker/utilities"
)

// DeadlineStore keeps one Firestore document per deadline, using the
// deadline id as the document id.
type DeadlineStore struct {
	client     *firestore.Client
	collection string
}

var _ models.DeadlineStore = (*DeadlineStore)(nil)

func NewDeadlineStore(client *firestore.Client, collection string) *DeadlineStore {
	return &DeadlineStore{client: client, collection: collection}
}

func (s *DeadlineStore) deadlines() *firestore.CollectionRef {
	return s.client.Collection(s.collection)
}

// EnsureCollection only checks that the collection can be read. Firestore
// creates a collection implicitly with its first document.
func (s *DeadlineStore) EnsureCollection(ctx context.Context) error {
	iter := s.deadlines().Limit(1).Documents(ctx)
	defer iter.Stop()

	if _, err := iter.Next(); err != nil && err != iterator.Done {
		return fmt.Errorf("error reading collection %s: %w", s.collection, err)
	}
	utilities.LogDebug("Firestore collection %s is reachable", s.collection)
	return nil
}

func (s *DeadlineStore) Create(ctx context.Context, d models.Deadline) (*models.Deadline, error) {
	if _, err := s.deadlines().Doc(d.ID).Create(ctx, d); err != nil {
		return nil, fmt.Errorf("error creating deadline %s: %w", d.ID, err)
	}
	return &d, nil
}

func (s *DeadlineStore) List(ctx context.Context, st *models.Status) ([]models.Deadline, error) {
	q := s.deadlines().Query
	if st != nil {
		q = q.Where("status", "==", string(*st))
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	out := []models.Deadline{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating deadlines: %w", err)
		}

		var d models.Deadline
		if err := doc.DataTo(&d); err != nil {
			return nil, fmt.Errorf("error decoding deadline %s: %w", doc.Ref.ID, err)
		}
		if d.ID == "" {
			d.ID = doc.Ref.ID
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *DeadlineStore) UpdateDueDate(ctx context.Context, id string, dueDate time.Time) (*models.Deadline, error) {
	return s.update(ctx, id, "due_date", dueDate, func(d *models.Deadline) { d.DueDate = dueDate })
}

func (s *DeadlineStore) UpdateStatus(ctx context.Context, id string, st models.Status) (*models.Deadline, error) {
	return s.update(ctx, id, "status", string(st), func(d *models.Deadline) { d.Status = st })
}

// update writes a single field so the rest of the document, original_due_date
// included, is never rewritten.
func (s *DeadlineStore) update(ctx context.Context, id, path string, value interface{}, apply func(*models.Deadline)) (*models.Deadline, error) {
	ref := s.deadlines().Doc(id)

	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, models.ErrDeadlineNotFound
		}
		return nil, fmt.Errorf("error reading deadline %s: %w", id, err)
	}

	var d models.Deadline
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("error decoding deadline %s: %w", id, err)
	}
	if d.ID == "" {
		d.ID = id
	}

	_, err = ref.Update(ctx, []firestore.Update{{Path: path, Value: value}})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, models.ErrDeadlineNotFound
		}
		return nil, errors.Join(models.ErrDeadlineUpdate, err)
	}

	apply(&d)
	return &d, nil
}
