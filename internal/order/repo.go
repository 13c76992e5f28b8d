package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/ordini-tipografia/internal/apperr"
)

var (
	ErrNotFound = fmt.Errorf("order %w", apperr.ErrNotFound)
)

type Repository interface {
	// LatestOrderNumber returns the number of the most recently created order;
	// ok is false when the table is empty.
	LatestOrderNumber(ctx context.Context) (number string, ok bool, err error)
	Create(ctx context.Context, o *Order, details []Detail) error
	Update(ctx context.Context, o *Order, details []Detail) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, limit, offset int) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const detailColumns = `id, order_id, ean_code, client_name, product_name, measurements, package_type,
    lot_number, to_char(expiry_date, 'YYYY-MM-DD'), to_char(production_date, 'YYYY-MM-DD'),
    quantity, fronte_retro, sagomata, created_at`

func (r *PGRepo) LatestOrderNumber(ctx context.Context) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var n string
	err := r.db.QueryRow(ctx, `
    SELECT order_number FROM orders ORDER BY created_at DESC LIMIT 1
  `).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, apperr.FromPG(err)
	}
	return n, true, nil
}

func (r *PGRepo) Create(ctx context.Context, o *Order, details []Detail) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperr.FromPG(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.QueryRow(ctx, `
    INSERT INTO orders (id, order_number, print_type, status, created_at, updated_at)
    VALUES ($1,$2,$3,$4,NOW(),NOW())
    RETURNING created_at, updated_at
  `, o.ID, o.OrderNumber, o.PrintType, o.Status).Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
		return apperr.FromPG(err)
	}
	if err := insertDetails(ctx, tx, o.ID, details); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperr.FromPG(err)
	}
	o.Details = details
	return nil
}

// Update rewrites the header and replaces every detail row in one transaction.
func (r *PGRepo) Update(ctx context.Context, o *Order, details []Detail) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperr.FromPG(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
    UPDATE orders
    SET print_type = $2, updated_at = NOW()
    WHERE id = $1
    RETURNING order_number, status, created_at, updated_at
  `, o.ID, o.PrintType).Scan(&o.OrderNumber, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return apperr.FromPG(err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM order_details WHERE order_id = $1`, o.ID); err != nil {
		return apperr.FromPG(err)
	}
	if err := insertDetails(ctx, tx, o.ID, details); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperr.FromPG(err)
	}
	o.Details = details
	return nil
}

// insertDetails sends all rows as one batch; any failing row fails the batch.
func insertDetails(ctx context.Context, tx pgx.Tx, orderID string, details []Detail) error {
	if len(details) == 0 {
		return nil
	}
	b := &pgx.Batch{}
	for i := range details {
		d := &details[i]
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		d.OrderID = orderID
		b.Queue(`
      INSERT INTO order_details (id, order_id, ean_code, client_name, product_name, measurements,
        package_type, lot_number, expiry_date, production_date, quantity, fronte_retro, sagomata, created_at)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9::text::date,$10::text::date,$11,$12,$13,NOW())
    `, d.ID, orderID, d.EANCode, d.ClientName, d.ProductName, d.Measurements, d.PackageType,
			d.LotNumber, d.ExpiryDate, d.ProductionDate, d.Quantity, d.FronteRetro, d.Sagomata)
	}
	br := tx.SendBatch(ctx, b)
	for range details {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return apperr.FromPG(err)
		}
	}
	return apperr.FromPG(br.Close())
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	err := r.db.QueryRow(ctx, `
    SELECT id, order_number, print_type, status, created_at, updated_at
    FROM orders WHERE id=$1
  `, id).Scan(&o.ID, &o.OrderNumber, &o.PrintType, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperr.FromPG(err)
	}
	rows, err := r.db.Query(ctx, `
    SELECT `+detailColumns+`
    FROM order_details WHERE order_id=$1
    ORDER BY created_at, id
  `, id)
	if err != nil {
		return nil, apperr.FromPG(err)
	}
	details, err := scanDetails(rows)
	if err != nil {
		return nil, err
	}
	o.Details = details
	return &o, nil
}

// List returns orders newest first with their details nested.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, `
    SELECT id, order_number, print_type, status, created_at, updated_at
    FROM orders
    ORDER BY created_at DESC LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, apperr.FromPG(err)
	}
	defer rows.Close()

	out := []Order{}
	index := map[string]int{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.PrintType, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, apperr.FromPG(err)
		}
		o.Details = []Detail{}
		index[o.ID] = len(out)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromPG(err)
	}
	if len(out) == 0 {
		return out, nil
	}

	drows, err := r.db.Query(ctx, `
    SELECT `+detailColumns+`
    FROM order_details
    WHERE order_id IN (SELECT id FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2)
    ORDER BY created_at, id
  `, limit, offset)
	if err != nil {
		return nil, apperr.FromPG(err)
	}
	details, err := scanDetails(drows)
	if err != nil {
		return nil, err
	}
	for _, d := range details {
		if i, ok := index[d.OrderID]; ok {
			out[i].Details = append(out[i].Details, d)
		}
	}
	return out, nil
}

func scanDetails(rows pgx.Rows) ([]Detail, error) {
	defer rows.Close()
	details := []Detail{}
	for rows.Next() {
		var d Detail
		if err := rows.Scan(&d.ID, &d.OrderID, &d.EANCode, &d.ClientName, &d.ProductName, &d.Measurements,
			&d.PackageType, &d.LotNumber, &d.ExpiryDate, &d.ProductionDate, &d.Quantity, &d.FronteRetro,
			&d.Sagomata, &d.CreatedAt); err != nil {
			return nil, apperr.FromPG(err)
		}
		details = append(details, d)
	}
	return details, apperr.FromPG(rows.Err())
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
    UPDATE orders
    SET status = $2, updated_at = NOW()
    WHERE id = $1
  `, id, status)
	if err != nil {
		return apperr.FromPG(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the order; details cascade, send records block the delete.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return apperr.FromPG(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
