package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/ordini-tipografia/internal/apperr"
)

// Send is one audit row: order X was sent to typography Y with PDF Z.
type Send struct {
	ID           string    `json:"id"`
	OrderID      string    `json:"order_id"`
	TypographyID string    `json:"typography_id"`
	PDFPath      string    `json:"pdf_path"`
	CreatedAt    time.Time `json:"created_at"`
}

type SendRepository interface {
	// Record inserts all rows or none.
	Record(ctx context.Context, sends []Send) error
	ListByOrder(ctx context.Context, orderID string) ([]Send, error)
}

type PGSendRepo struct{ db *pgxpool.Pool }

func NewPGSendRepo(db *pgxpool.Pool) *PGSendRepo { return &PGSendRepo{db: db} }

func (r *PGSendRepo) Record(ctx context.Context, sends []Send) error {
	if len(sends) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperr.FromPG(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for i := range sends {
		if sends[i].ID == "" {
			sends[i].ID = uuid.NewString()
		}
		batch.Queue(`
			INSERT INTO order_typography_sends (id, order_id, typography_id, pdf_path)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at`,
			sends[i].ID, sends[i].OrderID, sends[i].TypographyID, sends[i].PDFPath)
	}
	br := tx.SendBatch(ctx, batch)
	for i := range sends {
		if err := br.QueryRow().Scan(&sends[i].CreatedAt); err != nil {
			_ = br.Close()
			return apperr.FromPG(err)
		}
	}
	if err := br.Close(); err != nil {
		return apperr.FromPG(err)
	}
	return apperr.FromPG(tx.Commit(ctx))
}

func (r *PGSendRepo) ListByOrder(ctx context.Context, orderID string) ([]Send, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, typography_id, pdf_path, created_at
		FROM order_typography_sends
		WHERE order_id = $1
		ORDER BY created_at`, orderID)
	if err != nil {
		return nil, apperr.FromPG(err)
	}
	defer rows.Close()

	out := []Send{}
	for rows.Next() {
		var s Send
		if err := rows.Scan(&s.ID, &s.OrderID, &s.TypographyID, &s.PDFPath, &s.CreatedAt); err != nil {
			return nil, apperr.FromPG(err)
		}
		out = append(out, s)
	}
	return out, apperr.FromPG(rows.Err())
}
