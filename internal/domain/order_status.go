package domain

import "fmt"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, status := range orderStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

type CancellationMode string

const (
	// CancelDelete restores stock and removes the order with its items.
	CancelDelete CancellationMode = "delete"
	// CancelRetain restores stock and keeps the order with status CANCELLED.
	CancelRetain CancellationMode = "retain"
)

// StatusPolicy decides which status updates are accepted and what a
// cancellation does to the order row.
type StatusPolicy struct {
	Cancellation CancellationMode
	Strict       bool
}

func DefaultStatusPolicy() StatusPolicy {
	return StatusPolicy{Cancellation: CancelDelete}
}

// strict mode: CANCELLED is only reachable through cancellation so stock is
// always restored.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing},
	OrderStatusProcessing: {OrderStatusShipped},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

func (p StatusPolicy) CanTransition(from, to OrderStatus) bool {
	if !p.Strict || from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanCancel reports whether an order in status s may be cancelled.
func (p StatusPolicy) CanCancel(s OrderStatus) bool {
	return s == OrderStatusPending
}
