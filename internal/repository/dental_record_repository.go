package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/odontolegal/forensic-api/internal/model"
)

// DentalRecordRepo persists the dental database.  Tag sets are stored as
// JSON arrays in TEXT columns.
type DentalRecordRepo struct{ db *sql.DB }

func NewDentalRecordRepo(db *sql.DB) *DentalRecordRepo { return &DentalRecordRepo{db: db} }

const dentalColumns = "id,type,registration_date,general_characteristic,status,dentition_type,specific_features,arch_region,file_url,created_at,updated_at"

func scanDentalRecord(s rowScanner) (*model.DentalRecord, error) {
	var (
		d                 model.DentalRecord
		features, regions string
	)
	if err := s.Scan(&d.ID, &d.Type, &d.RegistrationDate, &d.GeneralCharacteristic, &d.Status, &d.DentitionType,
		&features, &regions, &d.FileURL, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(features), &d.SpecificFeatures); err != nil {
		return nil, fmt.Errorf("decode specific_features of %s: %w", d.ID, err)
	}
	if err := json.Unmarshal([]byte(regions), &d.ArchRegion); err != nil {
		return nil, fmt.Errorf("decode arch_region of %s: %w", d.ID, err)
	}
	d.Normalize()
	return &d, nil
}

func encodeTags(d *model.DentalRecord) (string, string, error) {
	d.Normalize()
	f, err := json.Marshal(d.SpecificFeatures)
	if err != nil {
		return "", "", err
	}
	g, err := json.Marshal(d.ArchRegion)
	if err != nil {
		return "", "", err
	}
	return string(f), string(g), nil
}

func (r *DentalRecordRepo) Create(ctx context.Context, d *model.DentalRecord) error {
	features, regions, err := encodeTags(d)
	if err != nil {
		return err
	}
	d.ID = uuid.NewString()
	d.CreatedAt = now()
	d.UpdatedAt = d.CreatedAt
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO dental_records ("+dentalColumns+") VALUES (?,?,?,?,?,?,?,?,?,?,?)",
		d.ID, string(d.Type), d.RegistrationDate, d.GeneralCharacteristic, string(d.Status), string(d.DentitionType),
		features, regions, d.FileURL, d.CreatedAt, d.UpdatedAt)
	return err
}

func (r *DentalRecordRepo) GetByID(ctx context.Context, id string) (*model.DentalRecord, error) {
	d, err := scanDentalRecord(r.db.QueryRowContext(ctx, "SELECT "+dentalColumns+" FROM dental_records WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return d, err
}

func (r *DentalRecordRepo) List(ctx context.Context) ([]*model.DentalRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+dentalColumns+" FROM dental_records ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.DentalRecord{}
	for rows.Next() {
		d, err := scanDentalRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DentalRecordRepo) Update(ctx context.Context, d *model.DentalRecord) error {
	features, regions, err := encodeTags(d)
	if err != nil {
		return err
	}
	d.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx,
		`UPDATE dental_records SET type=?, registration_date=?, general_characteristic=?, status=?, dentition_type=?,
		 specific_features=?, arch_region=?, file_url=?, updated_at=? WHERE id=?`,
		string(d.Type), d.RegistrationDate, d.GeneralCharacteristic, string(d.Status), string(d.DentitionType),
		features, regions, d.FileURL, d.UpdatedAt, d.ID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (r *DentalRecordRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM dental_records WHERE id=?", id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (r *DentalRecordRepo) DeleteAll(ctx context.Context) (int64, error) {
	return deleteAll(ctx, r.db, "dental_records")
}
