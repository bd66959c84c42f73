package dto

import "naikai-shop/internal/shop/domain/models"

type StatusRequest struct {
	Action string `json:"action"`
}

// ProductForm is the admin add-product form. Price is a pointer so that a
// missing price can be told apart from a free item.
type ProductForm struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Price       *float64               `json:"price"`
	Image       string                 `json:"image"`
	Category    string                 `json:"category"`
	Calories    string                 `json:"calories"`
	Options     []models.ProductOption `json:"options"`
}

type PromotionForm struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Code        string `json:"code"`
}

type QRRequest struct {
	Image string `json:"image"`
}

// Dataset is everything the back office renders. Each part is fetched on its
// own; a part that failed is empty.
type Dataset struct {
	Orders     []models.Order     `json:"orders"`
	Products   []models.Product   `json:"products"`
	Promotions []models.Promotion `json:"promotions"`
	QRCode     string             `json:"qr_code"`
}

type Dashboard struct {
	TotalSales    float64        `json:"total_sales"`
	OrderCount    int            `json:"order_count"`
	ProductCount  int            `json:"product_count"`
	RecentOrders  []models.Order `json:"recent_orders"`
	PendingOrders int            `json:"pending_orders"`
}

type ConnectionResponse struct {
	Connected    bool  `json:"connected"`
	ProductCount int64 `json:"product_count"`
}

type SchemaResponse struct {
	SQL string `json:"sql"`
}
