package db

import (
	"context"
	"fmt"
	"time"

	"naikai-shop/internal/shop/app/core"
	"naikai-shop/internal/shop/domain/lifecycle"
	"naikai-shop/internal/shop/domain/models"
	"naikai-shop/internal/xpkg/tablestore"
)

// orderRow is the snake_case shape of the orders table.
type orderRow struct {
	ID              string            `json:"id"`
	UserID          string            `json:"user_id"`
	CustomerName    string            `json:"customer_name"`
	Items           []models.CartItem `json:"items"`
	TotalPrice      float64           `json:"total_price"`
	Status          string            `json:"status"`
	PaymentMethod   string            `json:"payment_method"`
	DeliveryMethod  string            `json:"delivery_method"`
	DeliveryAddress string            `json:"delivery_address,omitempty"`
	PickupTime      string            `json:"pickup_time,omitempty"`
	CreatedAt       string            `json:"created_at,omitempty"`
}

func (r orderRow) model() models.Order {
	o := models.Order{
		ID:              r.ID,
		UserID:          r.UserID,
		CustomerName:    r.CustomerName,
		Items:           r.Items,
		TotalPrice:      r.TotalPrice,
		Status:          models.OrderStatus(r.Status),
		PaymentMethod:   models.PaymentMethod(r.PaymentMethod),
		DeliveryMethod:  models.DeliveryMethod(r.DeliveryMethod),
		DeliveryAddress: r.DeliveryAddress,
		PickupTime:      r.PickupTime,
		Date:            r.CreatedAt,
	}
	if o.Items == nil {
		o.Items = []models.CartItem{}
	}
	if t, err := time.Parse(time.RFC3339Nano, r.CreatedAt); err == nil {
		o.Date = models.FormatDate(t)
	}
	return o
}

type OrderRepo struct {
	store tablestore.TableStore
}

func NewOrderRepo(store tablestore.TableStore) *OrderRepo {
	return &OrderRepo{store: store}
}

// GetAll returns every order, newest first.
func (or *OrderRepo) GetAll(ctx context.Context) ([]models.Order, error) {
	rows, err := or.store.SelectAll(ctx, tablestore.Orders, tablestore.Order{Column: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}
	return decodeOrders(rows)
}

func (or *OrderRepo) Get(ctx context.Context, id string) (models.Order, error) {
	rows, err := or.store.Select(ctx, tablestore.Orders, tablestore.Eq{Column: "id", Value: id})
	if err != nil {
		return models.Order{}, err
	}
	orders, err := decodeOrders(rows)
	if err != nil {
		return models.Order{}, err
	}
	if len(orders) == 0 {
		return models.Order{}, fmt.Errorf("%w: %s", core.ErrOrderNotFound, id)
	}
	return orders[0], nil
}

// Create stores order. The row's created_at is left to the backend.
func (or *OrderRepo) Create(ctx context.Context, order models.Order) error {
	row, err := toRow(orderRow{
		ID:              order.ID,
		UserID:          order.UserID,
		CustomerName:    order.CustomerName,
		Items:           order.Items,
		TotalPrice:      order.TotalPrice,
		Status:          string(order.Status),
		PaymentMethod:   string(order.PaymentMethod),
		DeliveryMethod:  string(order.DeliveryMethod),
		DeliveryAddress: order.DeliveryAddress,
		PickupTime:      order.PickupTime,
	})
	if err != nil {
		return err
	}
	return or.store.Insert(ctx, tablestore.Orders, row)
}

// UpdateStatus moves order id from status from to status to. The write only
// applies while the stored status is still from; otherwise the order has moved
// on and lifecycle.ErrInvalidTransition is returned.
func (or *OrderRepo) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) error {
	n, err := or.store.Update(ctx, tablestore.Orders,
		tablestore.Row{"status": string(to)},
		tablestore.Eq{Column: "id", Value: id},
		tablestore.Eq{Column: "status", Value: string(from)},
	)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	cur, err := or.Get(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: order %s is %s, not %s", lifecycle.ErrInvalidTransition, id, cur.Status, from)
}

func decodeOrders(rows []tablestore.Row) ([]models.Order, error) {
	decoded, err := fromRows[orderRow](rows)
	if err != nil {
		return nil, fmt.Errorf("orders: %w", err)
	}
	orders := make([]models.Order, len(decoded))
	for i, r := range decoded {
		orders[i] = r.model()
	}
	return orders, nil
}
