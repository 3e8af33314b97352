package draft

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) PutDraft(ctx context.Context, d Draft) error {
	fj, err := json.Marshal(d.Form)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO drafts (id,owner,form_json,sections,created_at,updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET form_json=EXCLUDED.form_json, sections=EXCLUDED.sections, updated_at=EXCLUDED.updated_at`,
		d.ID, d.Owner, string(fj), len(d.Form), d.CreatedAt, d.UpdatedAt)
	return err
}

func (s *SQLStore) GetDraft(ctx context.Context, id string) (Draft, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,owner,form_json,created_at,updated_at,submitted_at FROM drafts WHERE id=$1`, id)
	var d Draft
	var fjson string
	var submitted sql.NullInt64
	if err := row.Scan(&d.ID, &d.Owner, &fjson, &d.CreatedAt, &d.UpdatedAt, &submitted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Draft{}, ErrNotFound
		}
		return Draft{}, err
	}
	if err := json.Unmarshal([]byte(fjson), &d.Form); err != nil {
		return Draft{}, err
	}
	d.SubmittedAt = submitted.Int64
	return d, nil
}

func (s *SQLStore) ListDrafts(ctx context.Context, owner string) ([]Summary, error) {
	var (
		rows *sql.Rows
		err  error
	)
	const cols = `SELECT id,owner,sections,updated_at,submitted_at FROM drafts`
	if owner == "" {
		rows, err = s.db.QueryContext(ctx, cols+` ORDER BY updated_at DESC, id`)
	} else {
		rows, err = s.db.QueryContext(ctx, cols+` WHERE owner=$1 ORDER BY updated_at DESC, id`, owner)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sm Summary
		var submitted sql.NullInt64
		if err := rows.Scan(&sm.ID, &sm.Owner, &sm.Sections, &sm.UpdatedAt, &submitted); err != nil {
			return nil, err
		}
		sm.SubmittedAt = submitted.Int64
		out = append(out, sm)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteDraft(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) MarkSubmitted(ctx context.Context, id string, at int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE drafts SET submitted_at=$1 WHERE id=$2`, at, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
