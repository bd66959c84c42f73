// Package lifecycle holds the admin-driven order status machine.
package lifecycle

import (
	"errors"
	"fmt"

	"naikai-shop/internal/shop/domain/models"
)

type Action string

const (
	ConfirmPayment Action = "confirm_payment"
	Cancel         Action = "cancel"
	StartPreparing Action = "start_preparing"
	MarkReady      Action = "mark_ready"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownAction     = errors.New("unknown status action")
	ErrUnknownStatus     = errors.New("unknown order status")
)

type transition struct {
	action Action
	to     models.OrderStatus
}

// allowedTransitions is the whole admin action set. Statuses with no entry
// (verifying, delivered, completed, cancelled) accept no action.
var allowedTransitions = map[models.OrderStatus][]transition{
	models.StatusPendingPayment: {
		{ConfirmPayment, models.StatusPaid},
		{Cancel, models.StatusCancelled},
	},
	models.StatusPaid:      {{StartPreparing, models.StatusPreparing}},
	models.StatusPreparing: {{MarkReady, models.StatusDelivered}},
}

func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ConfirmPayment, Cancel, StartPreparing, MarkReady:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

func ParseStatus(s string) (models.OrderStatus, error) {
	st := models.OrderStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

// Next returns the status reached by applying action to an order in status from.
func Next(from models.OrderStatus, action Action) (models.OrderStatus, error) {
	for _, t := range allowedTransitions[from] {
		if t.action == action {
			return t.to, nil
		}
	}
	return "", fmt.Errorf("%w: cannot %s an order that is %s", ErrInvalidTransition, action, from)
}

// Actions lists what an admin may do with an order in status from.
func Actions(from models.OrderStatus) []Action {
	ts := allowedTransitions[from]
	out := make([]Action, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.action)
	}
	return out
}

// Terminal reports whether no admin action can move an order out of s.
func Terminal(s models.OrderStatus) bool {
	return len(allowedTransitions[s]) == 0
}
