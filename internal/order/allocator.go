package order

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MikeMC777/ordini-tipografia/internal/apperr"
)

const (
	DefaultPrefix      = "ORD"
	DefaultMaxAttempts = 3
)

var ErrOrderNumberExhausted = errors.New("could not allocate unique order number")

// Allocator derives sequential order numbers from the latest persisted order.
// It takes no lock: two callers may read the same snapshot, and the UNIQUE
// constraint on order_number plus CreateOrderWithRetry settles the race.
type Allocator struct {
	Repo   Repository
	Prefix string
	Now    func() time.Time
	Log    logrus.FieldLogger
}

func NewAllocator(repo Repository, prefix string) *Allocator {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Allocator{Repo: repo, Prefix: prefix, Now: time.Now, Log: logrus.WithField("component", "allocator")}
}

func (a *Allocator) NextOrderNumber(ctx context.Context) (string, error) {
	last, ok, err := a.Repo.LatestOrderNumber(ctx)
	if err != nil {
		return "", fmt.Errorf("read latest order number: %w", err)
	}
	if !ok {
		return a.Prefix + "1", nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(last, a.Prefix))
	if err != nil || n < 0 {
		fallback := a.Prefix + strconv.FormatInt(a.Now().UnixMilli(), 10)
		a.Log.WithField("last", last).Warnf("non-numeric order number, falling back to %s", fallback)
		return fallback, nil
	}
	return a.Prefix + strconv.Itoa(n+1), nil
}

// CreateOrderWithRetry inserts o with its details. An empty o.OrderNumber is
// allocated first; a duplicate number triggers a fresh allocation, up to
// maxAttempts inserts in total.
func (a *Allocator) CreateOrderWithRetry(ctx context.Context, o *Order, details []Detail, maxAttempts int) error {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if o.OrderNumber == "" {
		n, err := a.NextOrderNumber(ctx)
		if err != nil {
			return err
		}
		o.OrderNumber = n
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := a.Repo.Create(ctx, o, details)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperr.ErrDuplicate) {
			return err
		}
		lastErr = err
		a.Log.WithFields(logrus.Fields{"attempt": attempt, "order_number": o.OrderNumber}).Warn("order number taken")
		if attempt == maxAttempts {
			break
		}
		n, err := a.NextOrderNumber(ctx)
		if err != nil {
			return err
		}
		o.OrderNumber = n
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrOrderNumberExhausted, maxAttempts, lastErr)
}
