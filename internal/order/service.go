package order

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/MikeMC777/ordini-tipografia/internal/apperr"
	"github.com/MikeMC777/ordini-tipografia/internal/datefmt"
)

type Service struct {
	repo        Repository
	alloc       *Allocator
	validate    *validator.Validate
	maxAttempts int
}

func NewService(repo Repository, alloc *Allocator, maxAttempts int) *Service {
	return &Service{repo: repo, alloc: alloc, validate: validator.New(), maxAttempts: maxAttempts}
}

func (s *Service) NextOrderNumber(ctx context.Context) (string, error) {
	return s.alloc.NextOrderNumber(ctx)
}

// SaveOrder creates a draft order, or replaces the print type and the whole
// detail list of an existing one.
func (s *Service) SaveOrder(ctx context.Context, req SaveOrderRequest) (*Order, error) {
	details, err := s.toDetails(req)
	if err != nil {
		return nil, err
	}

	if req.ID != "" {
		o := &Order{ID: req.ID, PrintType: req.PrintType}
		if err := s.repo.Update(ctx, o, details); err != nil {
			return nil, fmt.Errorf("update order %s: %w", req.ID, err)
		}
		return o, nil
	}

	o := &Order{
		ID:          uuid.NewString(),
		OrderNumber: strings.TrimSpace(req.OrderNumber),
		PrintType:   req.PrintType,
		Status:      StatusBozza,
	}
	if err := s.alloc.CreateOrderWithRetry(ctx, o, details, s.maxAttempts); err != nil {
		if errors.Is(err, ErrOrderNumberExhausted) {
			return nil, &apperr.AppError{
				Code:       "ORDER_NUMBER_UNAVAILABLE",
				Message:    "Could not allocate a unique order number. Retry in a moment.",
				HTTPStatus: http.StatusConflict,
				Err:        err,
			}
		}
		return nil, fmt.Errorf("create order: %w", err)
	}
	return o, nil
}

// toDetails validates the request and converts form values to storage rows.
func (s *Service) toDetails(req SaveOrderRequest) ([]Detail, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperr.Validation("%s", describe(err))
	}
	out := make([]Detail, 0, len(req.Details))
	for i, in := range req.Details {
		d := Detail{
			EANCode:      strings.TrimSpace(in.EANCode),
			ClientName:   strings.TrimSpace(in.ClientName),
			ProductName:  strings.TrimSpace(in.ProductName),
			Measurements: optional(in.Measurements),
			PackageType:  optional(in.PackageType),
			LotNumber:    optional(in.LotNumber),
			Quantity:     in.Quantity,
			FronteRetro:  in.FronteRetro,
			Sagomata:     in.Sagomata,
		}
		if d.EANCode == "" || d.ClientName == "" || d.ProductName == "" {
			return nil, apperr.Validation("details[%d]: ean_code, client_name and product_name are required", i)
		}
		if d.Quantity == 0 {
			d.Quantity = 1
		}
		var err error
		if d.ExpiryDate, err = storageDate(in.ExpiryDate); err != nil {
			return nil, apperr.Validation("details[%d].expiry_date: %v", i, err)
		}
		if d.ProductionDate, err = storageDate(in.ProductionDate); err != nil {
			return nil, apperr.Validation("details[%d].production_date: %v", i, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func storageDate(in string) (*string, error) {
	iso, err := datefmt.ToStorageDate(in)
	if err != nil || iso == "" {
		return nil, err
	}
	return &iso, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

func (s *Service) GetOrder(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context, limit, offset int) ([]Order, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return apperr.Validation("invalid status %q", status)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete order %s: %w", id, err)
	}
	return nil
}
