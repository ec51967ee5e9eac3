package resumes

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo on PostgreSQL.
type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = `id, name, email, phone, education, work_experience, skills,
  content_hash, blob_ref, status, verification_notes, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	const query = `
INSERT INTO resumes (id, name, email, phone, education, work_experience, skills,
  content_hash, blob_ref, status, verification_notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		resume.ID,
		resume.Name,
		resume.Email,
		nullableString(resume.Phone),
		resume.Education,
		resume.WorkExperience,
		resume.Skills,
		nullableString(resume.ContentHash),
		nullableString(resume.BlobRef),
		resume.Status,
		nullableString(resume.VerificationNotes),
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	const query = `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1 LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) GetByContentHash(ctx context.Context, contentHash string) (Resume, error) {
	const query = `SELECT ` + resumeColumns + ` FROM resumes WHERE content_hash = $1 LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, contentHash))
}

func (r *PGRepo) List(ctx context.Context) ([]Resume, error) {
	const query = `SELECT ` + resumeColumns + ` FROM resumes ORDER BY created_at, id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Resume
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

func (r *PGRepo) Save(ctx context.Context, resume Resume) error {
	const query = `
UPDATE resumes SET
  name = $2,
  email = $3,
  phone = $4,
  education = $5,
  work_experience = $6,
  skills = $7,
  content_hash = $8,
  blob_ref = $9,
  status = $10,
  verification_notes = $11,
  updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		resume.ID,
		resume.Name,
		resume.Email,
		nullableString(resume.Phone),
		resume.Education,
		resume.WorkExperience,
		resume.Skills,
		nullableString(resume.ContentHash),
		nullableString(resume.BlobRef),
		resume.Status,
		nullableString(resume.VerificationNotes),
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return r.Create(ctx, resume)
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanOne(row rowScanner) (Resume, error) {
	resume, err := scanResume(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return resume, nil
}

func scanResume(row rowScanner) (Resume, error) {
	var resume Resume
	var phone, contentHash, blobRef, notes sql.NullString
	err := row.Scan(
		&resume.ID,
		&resume.Name,
		&resume.Email,
		&phone,
		&resume.Education,
		&resume.WorkExperience,
		&resume.Skills,
		&contentHash,
		&blobRef,
		&resume.Status,
		&notes,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	)
	if err != nil {
		return Resume{}, err
	}
	resume.Phone = phone.String
	resume.ContentHash = contentHash.String
	resume.BlobRef = blobRef.String
	resume.VerificationNotes = notes.String
	return resume, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
