package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/odontolegal/forensic-api/internal/model"
)

// ReportRepo persists forensic reports.  report_number is unique.
type ReportRepo struct{ db *sql.DB }

func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

const reportColumns = "id,title,report_number,issue_date,report_type,introduction,methodology,analysis_and_results,conclusion,responsible_id,evidence_id,created_at,updated_at"

func scanReport(s rowScanner) (*model.Report, error) {
	var (
		r          model.Report
		resp, evid sql.NullString
	)
	if err := s.Scan(&r.ID, &r.Title, &r.ReportNumber, &r.IssueDate, &r.ReportType,
		&r.Content.Introduction, &r.Content.Methodology, &r.Content.AnalysisAndResults, &r.Content.Conclusion,
		&resp, &evid, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.ResponsibleID = stringPtr(resp)
	r.EvidenceID = stringPtr(evid)
	return &r, nil
}

func (rp *ReportRepo) Create(ctx context.Context, r *model.Report) error {
	r.ID = uuid.NewString()
	r.CreatedAt = now()
	r.UpdatedAt = r.CreatedAt
	_, err := rp.db.ExecContext(ctx,
		"INSERT INTO reports ("+reportColumns+") VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)",
		r.ID, r.Title, r.ReportNumber, r.IssueDate, string(r.ReportType),
		r.Content.Introduction, r.Content.Methodology, r.Content.AnalysisAndResults, r.Content.Conclusion,
		nullString(r.ResponsibleID), nullString(r.EvidenceID), r.CreatedAt, r.UpdatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (rp *ReportRepo) GetByID(ctx context.Context, id string) (*model.Report, error) {
	r, err := scanReport(rp.db.QueryRowContext(ctx, "SELECT "+reportColumns+" FROM reports WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

func (rp *ReportRepo) List(ctx context.Context) ([]*model.Report, error) {
	rows, err := rp.db.QueryContext(ctx, "SELECT "+reportColumns+" FROM reports ORDER BY issue_date, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.Report{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (rp *ReportRepo) Update(ctx context.Context, r *model.Report) error {
	r.UpdatedAt = now()
	res, err := rp.db.ExecContext(ctx,
		`UPDATE reports SET title=?, report_number=?, issue_date=?, report_type=?, introduction=?, methodology=?,
		 analysis_and_results=?, conclusion=?, responsible_id=?, evidence_id=?, updated_at=? WHERE id=?`,
		r.Title, r.ReportNumber, r.IssueDate, string(r.ReportType),
		r.Content.Introduction, r.Content.Methodology, r.Content.AnalysisAndResults, r.Content.Conclusion,
		nullString(r.ResponsibleID), nullString(r.EvidenceID), r.UpdatedAt, r.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	return affectedOrNotFound(res)
}

func (rp *ReportRepo) Delete(ctx context.Context, id string) error {
	res, err := rp.db.ExecContext(ctx, "DELETE FROM reports WHERE id=?", id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (rp *ReportRepo) DeleteAll(ctx context.Context) (int64, error) {
	return deleteAll(ctx, rp.db, "reports")
}
