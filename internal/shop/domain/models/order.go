package models

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	StatusPendingPayment OrderStatus = "pending_payment"
	StatusVerifying      OrderStatus = "verifying"
	StatusPaid           OrderStatus = "paid"
	StatusPreparing      OrderStatus = "preparing"
	StatusDelivered      OrderStatus = "delivered"
	StatusCompleted      OrderStatus = "completed"
	StatusCancelled      OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	StatusPendingPayment,
	StatusVerifying,
	StatusPaid,
	StatusPreparing,
	StatusDelivered,
	StatusCompleted,
	StatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, st := range OrderStatuses {
		if s == st {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentPromptPay PaymentMethod = "promptpay"
	PaymentBank      PaymentMethod = "bank"
)

type DeliveryMethod string

const (
	DeliveryPickup   DeliveryMethod = "pickup"
	DeliveryDelivery DeliveryMethod = "delivery"
)

type Order struct {
	ID              string         `json:"id"`
	UserID          string         `json:"userId"`
	CustomerName    string         `json:"customerName"`
	Items           []CartItem     `json:"items"`
	TotalPrice      float64        `json:"totalPrice"`
	Status          OrderStatus    `json:"status"`
	PaymentMethod   PaymentMethod  `json:"paymentMethod"`
	DeliveryMethod  DeliveryMethod `json:"deliveryMethod"`
	DeliveryAddress string         `json:"deliveryAddress,omitempty"`
	PickupTime      string         `json:"pickupTime,omitempty"`
	Date            string         `json:"date"`
}

var bangkok = time.FixedZone("ICT", 7*60*60)

// FormatDate renders t the way the storefront shows order dates: Thai locale,
// Buddhist-era year, Bangkok time, e.g. "18/10/2569 14:03:22".
func FormatDate(t time.Time) string {
	t = t.In(bangkok)
	return fmt.Sprintf("%d/%d/%d %02d:%02d:%02d",
		t.Day(), int(t.Month()), t.Year()+543, t.Hour(), t.Minute(), t.Second())
}
