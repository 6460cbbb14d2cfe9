package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/CameronXie/grubdash/internal/domain"
)

const (
	OrderResource = "Order"
)

// OrderRepository keeps orders in insertion order in process memory.
type OrderRepository struct {
	mu     sync.RWMutex
	orders []domain.Order
}

// NewOrderRepository creates an OrderRepository pre-populated with seed.
func NewOrderRepository(seed ...domain.Order) *OrderRepository {
	orders := make([]domain.Order, 0, len(seed))
	for _, o := range seed {
		orders = append(orders, o.Clone())
	}

	return &OrderRepository{orders: orders}
}

// ListOrders returns a deep copy of every stored order.
func (r *OrderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		orders = append(orders, o.Clone())
	}

	return orders, nil
}

// CreateOrder appends order to the collection.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders = append(r.orders, order.Clone())
	return nil
}

// GetOrderByID returns a copy of the order with the given id.
func (r *OrderRepository) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, notFound(OrderResource, id)
	}

	order := r.orders[idx].Clone()
	return &order, nil
}

// UpdateOrder overwrites every field of the stored order matching order.ID.
func (r *OrderRepository) UpdateOrder(ctx context.Context, order *domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(order.ID)
	if idx < 0 {
		return notFound(OrderResource, order.ID)
	}

	r.orders[idx] = order.Clone()
	return nil
}

// DeleteOrder removes the order with the given id once guard accepts the stored record.
// guard runs under the write lock, so the check and the removal cannot interleave with updates.
func (r *OrderRepository) DeleteOrder(ctx context.Context, id string, guard func(*domain.Order) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return notFound(OrderResource, id)
	}

	if guard != nil {
		current := r.orders[idx].Clone()
		if err := guard(&current); err != nil {
			return err
		}
	}

	r.orders = slices.Delete(r.orders, idx, idx+1)
	return nil
}

func (r *OrderRepository) indexOf(id string) int {
	return slices.IndexFunc(r.orders, func(o domain.Order) bool { return o.ID == id })
}
