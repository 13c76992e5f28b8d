package order

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeMC777/ordini-tipografia/internal/apperr"
)

// memRepo is an in-memory Repository that enforces order_number uniqueness
// the way the orders table does.
type memRepo struct {
	mu      sync.Mutex
	orders  map[string]*Order
	details map[string][]Detail
	clock   time.Time

	latestCalls int
	createCalls int
	// conflicts forces the next N Create calls to fail as duplicates.
	conflicts int
	// failDetails makes the batch insert fail after the header is written.
	failDetails bool
}

func newMemRepo() *memRepo {
	return &memRepo{
		orders:  map[string]*Order{},
		details: map[string][]Detail{},
		clock:   time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *memRepo) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memRepo) LatestOrderNumber(ctx context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latestCalls++
	var latest *Order
	for _, o := range m.orders {
		if latest == nil || o.CreatedAt.After(latest.CreatedAt) {
			latest = o
		}
	}
	if latest == nil {
		return "", false, nil
	}
	return latest.OrderNumber, true, nil
}

func (m *memRepo) Create(ctx context.Context, o *Order, details []Detail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.conflicts > 0 {
		m.conflicts--
		return fmt.Errorf("%w (orders_order_number_key)", apperr.ErrDuplicate)
	}
	for _, existing := range m.orders {
		if existing.OrderNumber == o.OrderNumber {
			return fmt.Errorf("%w (orders_order_number_key)", apperr.ErrDuplicate)
		}
	}
	if m.failDetails {
		return fmt.Errorf("%w: batch insert failed", apperr.ErrBackend)
	}
	o.CreatedAt = m.tick()
	o.UpdatedAt = o.CreatedAt
	cp := *o
	m.orders[o.ID] = &cp
	m.details[o.ID] = m.stamp(o.ID, details)
	o.Details = m.details[o.ID]
	return nil
}

func (m *memRepo) stamp(orderID string, details []Detail) []Detail {
	out := make([]Detail, len(details))
	for i, d := range details {
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		d.OrderID = orderID
		out[i] = d
	}
	return out
}

func (m *memRepo) Update(ctx context.Context, o *Order, details []Detail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.orders[o.ID]
	if !ok {
		return ErrNotFound
	}
	if m.failDetails {
		return fmt.Errorf("%w: batch insert failed", apperr.ErrBackend)
	}
	cur.PrintType = o.PrintType
	cur.UpdatedAt = m.tick()
	*o = *cur
	m.details[o.ID] = m.stamp(o.ID, details)
	o.Details = m.details[o.ID]
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	cp.Details = append([]Detail(nil), m.details[id]...)
	return &cp, nil
}

func (m *memRepo) List(ctx context.Context, limit, offset int) ([]Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Order, 0, len(m.orders))
	for id, o := range m.orders {
		cp := *o
		cp.Details = append([]Detail(nil), m.details[id]...)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return ErrNotFound
	}
	delete(m.orders, id)
	delete(m.details, id)
	return nil
}
