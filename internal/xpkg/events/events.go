// Package events is the wire format shared by the order event publisher and
// the notification subscriber.
package events

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	Exchange = "notifications"
	Queue    = "order_notifications"

	RoutingOrderPlaced        = "order.placed"
	RoutingOrderStatusChanged = "order.status_changed"
	// BindingOrders binds Queue to every order event.
	BindingOrders = "order.*"
)

type OrderEvent struct {
	OrderID      string  `json:"order_id"`
	CustomerName string  `json:"customer_name"`
	OldStatus    string  `json:"old_status,omitempty"`
	NewStatus    string  `json:"new_status"`
	ChangedBy    string  `json:"changed_by"`
	Timestamp    string  `json:"timestamp"`
	TotalPrice   float64 `json:"total_price"`
}

func NewOrderEvent(orderID, customer, oldStatus, newStatus, changedBy string, total float64, at time.Time) OrderEvent {
	return OrderEvent{
		OrderID:      orderID,
		CustomerName: customer,
		OldStatus:    oldStatus,
		NewStatus:    newStatus,
		ChangedBy:    changedBy,
		Timestamp:    at.UTC().Format(time.RFC3339),
		TotalPrice:   total,
	}
}

// RoutingKey is order.placed for a new order and order.status_changed otherwise.
func (e OrderEvent) RoutingKey() string {
	if e.OldStatus == "" {
		return RoutingOrderPlaced
	}
	return RoutingOrderStatusChanged
}

func Decode(body []byte) (OrderEvent, error) {
	var e OrderEvent
	if err := json.Unmarshal(body, &e); err != nil {
		return OrderEvent{}, fmt.Errorf("decode order event: %w", err)
	}
	if e.OrderID == "" {
		return OrderEvent{}, fmt.Errorf("decode order event: missing order_id")
	}
	return e, nil
}

// String is the one-line notification printed by the subscriber.
func (e OrderEvent) String() string {
	if e.OldStatus == "" {
		return fmt.Sprintf("Notification for order %s: placed by %s, total %.2f, status '%s'.",
			e.OrderID, e.CustomerName, e.TotalPrice, e.NewStatus)
	}
	return fmt.Sprintf("Notification for order %s: Status changed from '%s' to '%s' by %s.",
		e.OrderID, e.OldStatus, e.NewStatus, e.ChangedBy)
}
