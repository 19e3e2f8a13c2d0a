package test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/checkout/internal/domain/errors"
	"github.com/polkiloo/checkout/internal/domain/model"
)

// UserRepositoryStub records identity number updates in-memory.
type UserRepositoryStub struct {
	mu       sync.Mutex
	Identity map[int64]string
	Err      error
}

// NewUserRepositoryStub constructs stub repository with initialized map.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{Identity: make(map[int64]string)}
}

// UpdateIdentityNumber stores the number unless stub has explicit error.
func (s *UserRepositoryStub) UpdateIdentityNumber(_ context.Context, userID int64, identityNumber string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Identity == nil {
		s.Identity = make(map[int64]string)
	}
	s.Identity[userID] = identityNumber
	return nil
}

// OrderRepositoryStub keeps orders in-memory and mirrors the conditional
// status updates of the SQL repository.
type OrderRepositoryStub struct {
	mu        sync.Mutex
	Orders    map[string]*model.Order
	CreateErr error
	GetErr    error
	MarkErr   error
	ListErr   error
	Created   int
}

// NewOrderRepositoryStub seeds the stub with orders.
func NewOrderRepositoryStub(orders ...*model.Order) *OrderRepositoryStub {
	s := &OrderRepositoryStub{Orders: make(map[string]*model.Order)}
	for _, o := range orders {
		s.Orders[o.ID] = cloneOrder(o)
	}
	return s
}

// Create stores a copy of the order, assigning an ID when missing.
func (s *OrderRepositoryStub) Create(_ context.Context, order *model.Order) (*model.Order, error) {
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Orders == nil {
		s.Orders = make(map[string]*model.Order)
	}
	created := cloneOrder(order)
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	now := time.Now()
	created.CreatedAt, created.UpdatedAt = now, now
	s.Orders[created.ID] = created
	s.Created++
	return cloneOrder(created), nil
}

// GetByID returns a copy of the stored order or not found.
func (s *OrderRepositoryStub) GetByID(_ context.Context, id string) (*model.Order, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return cloneOrder(o), nil
}

// MarkPaid applies the paid transition only when the order is not paid yet.
func (s *OrderRepositoryStub) MarkPaid(_ context.Context, id, paymentID string, details map[string]any) (bool, error) {
	if s.MarkErr != nil {
		return false, s.MarkErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[id]
	if !ok || o.PaymentStatus == model.PaymentStatusPaid {
		return false, nil
	}
	o.PaymentStatus = model.PaymentStatusPaid
	o.OrderStatus = model.OrderStatusProcessing
	o.PaymentID = paymentID
	o.PaymentDetails = details
	o.PaymentError = ""
	o.UpdatedAt = time.Now()
	return true, nil
}

// MarkFailed fails the order unless it is already paid.
func (s *OrderRepositoryStub) MarkFailed(_ context.Context, id, paymentID string, details map[string]any, reason string) (bool, error) {
	if s.MarkErr != nil {
		return false, s.MarkErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[id]
	if !ok || o.PaymentStatus == model.PaymentStatusPaid {
		return false, nil
	}
	o.PaymentStatus = model.PaymentStatusFailed
	o.OrderStatus = model.OrderStatusFailed
	if paymentID != "" {
		o.PaymentID = paymentID
	}
	o.PaymentDetails = details
	o.PaymentError = reason
	o.UpdatedAt = time.Now()
	return true, nil
}

// ListStalePending returns pending orders created before the cutoff, oldest first.
func (s *OrderRepositoryStub) ListStalePending(_ context.Context, before time.Time, limit int) ([]model.Order, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for _, o := range s.Orders {
		if o.PaymentStatus == model.PaymentStatusPending && o.OrderStatus == model.OrderStatusPending && o.CreatedAt.Before(before) {
			out = append(out, *cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ExpirePending fails the order only while payment is pending.
func (s *OrderRepositoryStub) ExpirePending(_ context.Context, id, reason string) (bool, error) {
	if s.MarkErr != nil {
		return false, s.MarkErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[id]
	if !ok || o.PaymentStatus != model.PaymentStatusPending {
		return false, nil
	}
	o.PaymentStatus = model.PaymentStatusFailed
	o.OrderStatus = model.OrderStatusFailed
	o.PaymentError = reason
	return true, nil
}

// Get returns a copy of the stored order for assertions.
func (s *OrderRepositoryStub) Get(id string) *model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.Orders[id]; ok {
		return cloneOrder(o)
	}
	return nil
}

func cloneOrder(o *model.Order) *model.Order {
	c := *o
	c.Items = append([]model.OrderItem(nil), o.Items...)
	return &c
}

// DecrementCall describes a stock decrement request.
type DecrementCall struct {
	ProductID string
	Color     string
	Size      string
	Quantity  int
}

// ProductRepositoryStub keeps a catalog in-memory.
type ProductRepositoryStub struct {
	mu           sync.Mutex
	Products     map[string]*model.Product
	GetErr       error
	DecrementErr map[string]error
	Decrements   []DecrementCall
}

// NewProductRepositoryStub seeds the catalog.
func NewProductRepositoryStub(products ...*model.Product) *ProductRepositoryStub {
	s := &ProductRepositoryStub{Products: make(map[string]*model.Product)}
	for _, p := range products {
		s.Products[p.ID] = cloneProduct(p)
	}
	return s
}

// GetByID returns a copy of the product or not found.
func (s *ProductRepositoryStub) GetByID(_ context.Context, id string) (*model.Product, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.Products[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return cloneProduct(p), nil
}

// DecrementStock applies the domain decrement rule and records the call.
func (s *ProductRepositoryStub) DecrementStock(_ context.Context, id, color, size string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Decrements = append(s.Decrements, DecrementCall{ProductID: id, Color: color, Size: size, Quantity: qty})
	if err := s.DecrementErr[id]; err != nil {
		return err
	}
	p, ok := s.Products[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	p.DecrementStock(color, size, qty)
	return nil
}

// Product returns a copy of the stored product for assertions.
func (s *ProductRepositoryStub) Product(id string) *model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.Products[id]; ok {
		return cloneProduct(p)
	}
	return nil
}

// DecrementCount returns how many decrements were requested.
func (s *ProductRepositoryStub) DecrementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Decrements)
}

func cloneProduct(p *model.Product) *model.Product {
	c := *p
	if p.ColorSizeStock != nil {
		c.ColorSizeStock = make(model.ColorSizeStock, len(p.ColorSizeStock))
		for color, sizes := range p.ColorSizeStock {
			inner := make(map[string]int, len(sizes))
			for size, n := range sizes {
				inner[size] = n
			}
			c.ColorSizeStock[color] = inner
		}
	}
	return &c
}
