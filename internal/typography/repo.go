// Package typography stores the print-shop contacts orders are dispatched to.
package typography

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/ordini-tipografia/internal/apperr"
)

var (
	ErrNotFound = fmt.Errorf("typography %w", apperr.ErrNotFound)
)

type Repository interface {
	Create(ctx context.Context, t *Typography) error
	GetByID(ctx context.Context, id string) (*Typography, error)
	GetByIDs(ctx context.Context, ids []string) ([]Typography, error)
	List(ctx context.Context) ([]Typography, error)
	Update(ctx context.Context, t *Typography) error
	Delete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, t *Typography) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO typographies (id, name, contact_person, email, created_at)
		VALUES ($1,$2,$3,$4,NOW())
		RETURNING created_at
	`, t.ID, t.Name, t.ContactPerson, t.Email).Scan(&t.CreatedAt)
	return apperr.FromPG(err)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Typography, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var t Typography
	err := r.db.QueryRow(ctx, `
		SELECT id, name, contact_person, email, created_at
		FROM typographies WHERE id=$1
	`, id).Scan(&t.ID, &t.Name, &t.ContactPerson, &t.Email, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperr.FromPG(err)
	}
	return &t, nil
}

// GetByIDs resolves recipients; unknown ids are skipped.
func (r *PGRepo) GetByIDs(ctx context.Context, ids []string) ([]Typography, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if len(ids) == 0 {
		return []Typography{}, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, name, contact_person, email, created_at
		FROM typographies
		WHERE id::text = ANY($1::text[])
		ORDER BY name
	`, ids)
	if err != nil {
		return nil, apperr.FromPG(err)
	}
	return scan(rows)
}

func (r *PGRepo) List(ctx context.Context) ([]Typography, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, name, contact_person, email, created_at
		FROM typographies
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, apperr.FromPG(err)
	}
	return scan(rows)
}

func scan(rows pgx.Rows) ([]Typography, error) {
	defer rows.Close()
	out := []Typography{}
	for rows.Next() {
		var t Typography
		if err := rows.Scan(&t.ID, &t.Name, &t.ContactPerson, &t.Email, &t.CreatedAt); err != nil {
			return nil, apperr.FromPG(err)
		}
		out = append(out, t)
	}
	return out, apperr.FromPG(rows.Err())
}

func (r *PGRepo) Update(ctx context.Context, t *Typography) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		UPDATE typographies
		SET name = $2, contact_person = $3, email = $4
		WHERE id = $1
		RETURNING created_at
	`, t.ID, t.Name, t.ContactPerson, t.Email).Scan(&t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return apperr.FromPG(err)
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM typographies WHERE id=$1`, id)
	if err != nil {
		return false, apperr.FromPG(err)
	}
	return cmd.RowsAffected() > 0, nil
}

var validate = validator.New()

// FromRequest validates a SaveRequest and builds the record to store.
func FromRequest(id string, in SaveRequest) (*Typography, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, apperr.Validation("%s is %s", strings.ToLower(verrs[0].Field()), verrs[0].Tag())
		}
		return nil, apperr.Validation("%v", err)
	}
	t := &Typography{ID: id, Name: in.Name, Email: in.Email}
	if cp := strings.TrimSpace(in.ContactPerson); cp != "" {
		t.ContactPerson = &cp
	}
	return t, nil
}
