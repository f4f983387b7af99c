package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"deadline-tracker/models"
)

// DeadlineStore keeps each deadline as a JSONB document keyed by id. The
// status is copied into its own column so the list filter can use an index.
type DeadlineStore struct {
	db    *sql.DB
	name  string
	table string
}

var _ models.DeadlineStore = (*DeadlineStore)(nil)

func NewDeadlineStore(db *sql.DB, table string) *DeadlineStore {
	return &DeadlineStore{db: db, name: table, table: pq.QuoteIdentifier(table)}
}

func (s *DeadlineStore) EnsureCollection(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			status TEXT NOT NULL,
			doc JSONB NOT NULL
		)`, s.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (status)`,
			pq.QuoteIdentifier(s.name+"_status_idx"), s.table),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error creating deadlines table: %w", err)
		}
	}
	return nil
}

func (s *DeadlineStore) Create(ctx context.Context, d models.Deadline) (*models.Deadline, error) {
	doc, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("error encoding deadline %s: %w", d.ID, err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, status, doc) VALUES ($1, $2, $3)`, s.table)
	if _, err := s.db.ExecContext(ctx, query, d.ID, string(d.Status), doc); err != nil {
		return nil, fmt.Errorf("error inserting deadline %s: %w", d.ID, err)
	}
	return &d, nil
}

func (s *DeadlineStore) List(ctx context.Context, status *models.Status) ([]models.Deadline, error) {
	query := fmt.Sprintf(`SELECT doc FROM %s`, s.table)
	var params []interface{}
	if status != nil {
		query += ` WHERE status = $1`
		params = append(params, string(*status))
	}
	query += ` ORDER BY doc->>'creation_date'`

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("error querying deadlines: %w", err)
	}
	defer rows.Close()

	out := []models.Deadline{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("error scanning deadline: %w", err)
		}
		var d models.Deadline
		if err := json.Unmarshal(doc, &d); err != nil {
			return nil, fmt.Errorf("error decoding deadline: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deadlines: %w", err)
	}
	return out, nil
}

func (s *DeadlineStore) UpdateDueDate(ctx context.Context, id string, dueDate time.Time) (*models.Deadline, error) {
	return s.update(ctx, id, func(d *models.Deadline) { d.DueDate = dueDate })
}

func (s *DeadlineStore) UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Deadline, error) {
	return s.update(ctx, id, func(d *models.Deadline) { d.Status = status })
}

// update locks the row, applies the change to the decoded document and
// writes it back within one transaction.
func (s *DeadlineStore) update(ctx context.Context, id string, apply func(*models.Deadline)) (_ *models.Deadline, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	var doc []byte
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1 FOR UPDATE`, s.table)
	err = tx.QueryRowContext(ctx, query, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrDeadlineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error reading deadline %s: %w", id, err)
	}

	var current models.Deadline
	if err = json.Unmarshal(doc, &current); err != nil {
		return nil, fmt.Errorf("error decoding deadline %s: %w", id, err)
	}
	apply(&current)

	doc, err = json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("error encoding deadline %s: %w", id, err)
	}

	update := fmt.Sprintf(`UPDATE %s SET status = $2, doc = $3 WHERE id = $1`, s.table)
	if _, err = tx.ExecContext(ctx, update, id, string(current.Status), doc); err != nil {
		return nil, errors.Join(models.ErrDeadlineUpdate, err)
	}
	if err = tx.Commit(); err != nil {
		return nil, errors.Join(models.ErrDeadlineUpdate, err)
	}
	return &current, nil
}
