package domain

import "strings"

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out-for-delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
)

// OrderStatuses lists every accepted status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

// Canonical returns the lower-cased form of the status.
func (s OrderStatus) Canonical() OrderStatus {
	return OrderStatus(strings.ToLower(string(s)))
}

// IsKnown reports whether the status matches an accepted value, ignoring case.
func (s OrderStatus) IsKnown() bool {
	c := s.Canonical()
	for _, known := range OrderStatuses {
		if c == known {
			return true
		}
	}

	return false
}

// LineItem is a single entry of an order. Dish fields are echoed as submitted and are not
// checked against the dish collection.
type LineItem struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Price       int    `json:"price,omitempty"`
	Quantity    int    `json:"quantity"`
}

// Order represents a customer order and its delivery status.
type Order struct {
	ID           string      `json:"id"`
	DeliverTo    string      `json:"deliverTo"`
	MobileNumber string      `json:"mobileNumber"`
	Status       OrderStatus `json:"status"`
	Dishes       []LineItem  `json:"dishes"`
}

// IsDeletable reports whether the order may be removed. The stored value is compared as is.
func (o *Order) IsDeletable() bool {
	return o.Status == OrderStatusPending
}

// Clone returns a deep copy so callers never share the line item slice with the store.
func (o Order) Clone() Order {
	if o.Dishes != nil {
		o.Dishes = append([]LineItem(nil), o.Dishes...)
	}

	return o
}
