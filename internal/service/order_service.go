package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/CameronXie/grubdash/internal/domain"
	"github.com/CameronXie/grubdash/internal/events"
	"github.com/CameronXie/grubdash/internal/idgen"
	"github.com/CameronXie/grubdash/internal/validation"
)

const (
	orderNotPendingMessage = "An order cannot be deleted unless it is pending"
	invalidStatusMessage   = "Order must have a valid status of pending, preparing, out-for-delivery, delivered"
)

// OrderRepository defines the storage operations required by OrderService
type OrderRepository interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateOrder(ctx context.Context, order *domain.Order) error
	DeleteOrder(ctx context.Context, id string, guard func(*domain.Order) error) error
}

// LineItemInput is the client supplied representation of an order line.
type LineItemInput struct {
	ID          string             `json:"id,omitempty"`
	Name        string             `json:"name,omitempty"`
	Description string             `json:"description,omitempty"`
	ImageURL    string             `json:"image_url,omitempty"`
	Price       validation.Integer `json:"price"`
	Quantity    validation.Integer `json:"quantity"`
}

// OrderInput is the client supplied representation of an order.
type OrderInput struct {
	ID           string             `json:"id,omitempty"`
	DeliverTo    string             `json:"deliverTo"`
	MobileNumber string             `json:"mobileNumber"`
	Status       domain.OrderStatus `json:"status,omitempty"`
	Dishes       []LineItemInput    `json:"dishes"`
}

func (in *OrderInput) toOrder(id string, status domain.OrderStatus) *domain.Order {
	items := make([]domain.LineItem, 0, len(in.Dishes))
	for _, item := range in.Dishes {
		price, _ := item.Price.Value()
		quantity, _ := item.Quantity.Value()
		items = append(items, domain.LineItem{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			ImageURL:    item.ImageURL,
			Price:       price,
			Quantity:    quantity,
		})
	}

	return &domain.Order{
		ID:           id,
		DeliverTo:    in.DeliverTo,
		MobileNumber: in.MobileNumber,
		Status:       status,
		Dishes:       items,
	}
}

var orderRules = []validation.Rule[*OrderInput]{
	validation.Required("deliverTo", "Order must include a deliverTo",
		func(in *OrderInput) string { return in.DeliverTo }),
	validation.Required("mobileNumber", "Order must include a mobileNumber",
		func(in *OrderInput) string { return in.MobileNumber }),
	validation.NonEmpty("dishes", "Order must include at least one dish",
		func(in *OrderInput) []LineItemInput { return in.Dishes }),
	validation.Each(
		func(in *OrderInput) []LineItemInput { return in.Dishes },
		func(index int, item LineItemInput) error {
			if n, ok := item.Quantity.Value(); !ok || n <= 0 {
				return &validation.ValidationError{
					Field:   fmt.Sprintf("dishes[%d].quantity", index),
					Message: fmt.Sprintf("Dish %d must have a quantity that is an integer greater than 0", index),
				}
			}

			return nil
		},
	),
}

var statusRule = validation.OneOf("status", invalidStatusMessage, statusValues(),
	func(in *OrderInput) string { return string(in.Status) })

// createStatusRule accepts an absent status, which defaults to pending.
func createStatusRule(in *OrderInput) error {
	if in.Status == "" {
		return nil
	}

	return statusRule(in)
}

// updateIDRule rejects a body id that names a different order than the route.
func updateIDRule(routeID string) validation.Rule[*OrderInput] {
	return func(in *OrderInput) error {
		if in.ID != "" && in.ID != routeID {
			return &validation.ValidationError{
				Field:   "id",
				Message: fmt.Sprintf("Order id does not match route id. Order: %s, Route: %s", in.ID, routeID),
			}
		}

		return nil
	}
}

func statusValues() []string {
	values := make([]string, 0, len(domain.OrderStatuses))
	for _, s := range domain.OrderStatuses {
		values = append(values, string(s))
	}

	return values
}

// OrderOption configures an OrderService.
type OrderOption func(*OrderService)

// WithPublisher sets the publisher notified after every successful mutation.
func WithPublisher(p events.Publisher) OrderOption {
	return func(s *OrderService) {
		s.publisher = p
	}
}

// WithStatusNormalization stores statuses lower-cased instead of as submitted.
func WithStatusNormalization(enabled bool) OrderOption {
	return func(s *OrderService) {
		s.normalizeStatus = enabled
	}
}

// WithClock overrides the time source used to stamp events.
func WithClock(now func() time.Time) OrderOption {
	return func(s *OrderService) {
		s.now = now
	}
}

// OrderService implements the order lifecycle: list, create, read, full update and guarded delete.
type OrderService struct {
	repo            OrderRepository
	ids             idgen.Generator
	logger          *slog.Logger
	publisher       events.Publisher
	normalizeStatus bool
	now             func() time.Time
}

// NewOrderService creates an OrderService. Without WithPublisher, events are only logged.
func NewOrderService(repo OrderRepository, ids idgen.Generator, logger *slog.Logger, opts ...OrderOption) *OrderService {
	s := &OrderService{
		repo:   repo,
		ids:    ids,
		logger: logger,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.publisher == nil {
		s.publisher = events.NewLogPublisher(logger)
	}

	return s
}

// ListOrders returns every order.
func (s *OrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	return orders, nil
}

// CreateOrder validates in and stores it under a new id. The status defaults to pending.
func (s *OrderService) CreateOrder(ctx context.Context, in *OrderInput) (*domain.Order, error) {
	if err := validation.Run(in, append(slices.Clip(orderRules), createStatusRule)...); err != nil {
		return nil, err
	}

	id := s.ids.NewID()
	status := domain.OrderStatusPending
	if in.Status != "" {
		status = s.storedStatus(ctx, id, in.Status)
	}

	order := in.toOrder(id, status)
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.publish(ctx, events.OrderCreated, order)
	return order, nil
}

// GetOrder returns the order with the given id or a *repository.NotFoundError.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}

	return order, nil
}

// UpdateOrder replaces every mutable field of the order identified by routeID. Unlike creation,
// the status is required. Any accepted status may follow any other.
func (s *OrderService) UpdateOrder(ctx context.Context, routeID string, in *OrderInput) (*domain.Order, error) {
	if err := validation.Run(in, append(slices.Clip(orderRules), updateIDRule(routeID), statusRule)...); err != nil {
		return nil, err
	}

	order := in.toOrder(routeID, s.storedStatus(ctx, routeID, in.Status))
	if err := s.repo.UpdateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("update order %s: %w", routeID, err)
	}

	s.publish(ctx, events.OrderUpdated, order)
	return order, nil
}

// DeleteOrder removes a pending order. Any other status yields a *ConflictError and the order is kept.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	var deleted domain.Order
	err := s.repo.DeleteOrder(ctx, id, func(o *domain.Order) error {
		if !o.IsDeletable() {
			return &ConflictError{Message: orderNotPendingMessage}
		}

		deleted = *o
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete order %s: %w", id, err)
	}

	s.publish(ctx, events.OrderDeleted, &deleted)
	return nil
}

// storedStatus returns the value persisted for a validated status. Submitted casing is kept
// unless normalization is enabled; a non-canonical casing is reported either way because it
// makes a pending order undeletable.
func (s *OrderService) storedStatus(ctx context.Context, orderID string, status domain.OrderStatus) domain.OrderStatus {
	canonical := status.Canonical()
	if canonical == status {
		return status
	}

	s.logger.WarnContext(
		ctx,
		"order status has non-canonical casing",
		"order_id", orderID,
		"status", status,
		"normalized", s.normalizeStatus,
	)

	if s.normalizeStatus {
		return canonical
	}

	return status
}

func (s *OrderService) publish(ctx context.Context, eventType events.Type, order *domain.Order) {
	err := s.publisher.Publish(ctx, &events.OrderEvent{
		Type:       eventType,
		OccurredAt: s.now().UTC(),
		Order:      order.Clone(),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order event", "type", eventType, "order_id", order.ID, "error", err)
	}
}
