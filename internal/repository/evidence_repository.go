package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/odontolegal/forensic-api/internal/model"
)

// EvidenceRepo persists evidence items.  Items can be listed per case.
type EvidenceRepo struct{ db *sql.DB }

func NewEvidenceRepo(db *sql.DB) *EvidenceRepo { return &EvidenceRepo{db: db} }

const evidenceColumns = "id,case_id,type,description,collected_at,collected_by,file_url,created_at,updated_at"

func scanEvidence(s rowScanner) (*model.Evidence, error) {
	var (
		e  model.Evidence
		by sql.NullString
	)
	if err := s.Scan(&e.ID, &e.CaseID, &e.Type, &e.Description, &e.CollectedAt, &by, &e.FileURL, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.CollectedBy = stringPtr(by)
	return &e, nil
}

func (r *EvidenceRepo) Create(ctx context.Context, e *model.Evidence) error {
	e.ID = uuid.NewString()
	e.CreatedAt = now()
	e.UpdatedAt = e.CreatedAt
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO evidence ("+evidenceColumns+") VALUES (?,?,?,?,?,?,?,?,?)",
		e.ID, e.CaseID, string(e.Type), e.Description, e.CollectedAt, nullString(e.CollectedBy), e.FileURL, e.CreatedAt, e.UpdatedAt)
	return err
}

func (r *EvidenceRepo) GetByID(ctx context.Context, id string) (*model.Evidence, error) {
	e, err := scanEvidence(r.db.QueryRowContext(ctx, "SELECT "+evidenceColumns+" FROM evidence WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

// List returns all evidence, or only the items of caseID when it is set.
func (r *EvidenceRepo) List(ctx context.Context, caseID string) ([]*model.Evidence, error) {
	q := "SELECT " + evidenceColumns + " FROM evidence"
	var args []any
	if caseID != "" {
		q += " WHERE case_id=?"
		args = append(args, caseID)
	}
	q += " ORDER BY created_at, id"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.Evidence{}
	for rows.Next() {
		e, err := scanEvidence(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EvidenceRepo) Update(ctx context.Context, e *model.Evidence) error {
	e.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx,
		`UPDATE evidence SET case_id=?, type=?, description=?, collected_at=?, collected_by=?, file_url=?, updated_at=?
		 WHERE id=?`,
		e.CaseID, string(e.Type), e.Description, e.CollectedAt, nullString(e.CollectedBy), e.FileURL, e.UpdatedAt, e.ID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (r *EvidenceRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM evidence WHERE id=?", id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (r *EvidenceRepo) DeleteAll(ctx context.Context) (int64, error) {
	return deleteAll(ctx, r.db, "evidence")
}
