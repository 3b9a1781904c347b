package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/odontolegal/forensic-api/internal/model"
)

// CaseRepo persists forensic cases.
type CaseRepo struct{ db *sql.DB }

func NewCaseRepo(db *sql.DB) *CaseRepo { return &CaseRepo{db: db} }

const caseColumns = "id,title,description,status,location,opened_at,responsible_id,created_at,updated_at"

func scanCase(s rowScanner) (*model.Case, error) {
	var (
		c    model.Case
		resp sql.NullString
	)
	if err := s.Scan(&c.ID, &c.Title, &c.Description, &c.Status, &c.Location, &c.OpenedAt, &resp, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.ResponsibleID = stringPtr(resp)
	return &c, nil
}

func (r *CaseRepo) Create(ctx context.Context, c *model.Case) error {
	c.ID = uuid.NewString()
	c.CreatedAt = now()
	c.UpdatedAt = c.CreatedAt
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO cases ("+caseColumns+") VALUES (?,?,?,?,?,?,?,?,?)",
		c.ID, c.Title, c.Description, string(c.Status), c.Location, c.OpenedAt, nullString(c.ResponsibleID), c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *CaseRepo) GetByID(ctx context.Context, id string) (*model.Case, error) {
	c, err := scanCase(r.db.QueryRowContext(ctx, "SELECT "+caseColumns+" FROM cases WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func (r *CaseRepo) List(ctx context.Context) ([]*model.Case, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+caseColumns+" FROM cases ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.Case{}
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CaseRepo) Update(ctx context.Context, c *model.Case) error {
	c.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx,
		`UPDATE cases SET title=?, description=?, status=?, location=?, opened_at=?, responsible_id=?, updated_at=?
		 WHERE id=?`,
		c.Title, c.Description, string(c.Status), c.Location, c.OpenedAt, nullString(c.ResponsibleID), c.UpdatedAt, c.ID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (r *CaseRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM cases WHERE id=?", id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (r *CaseRepo) DeleteAll(ctx context.Context) (int64, error) {
	return deleteAll(ctx, r.db, "cases")
}
