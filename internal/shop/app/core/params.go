package core

import "time"

type ShopParams struct {
	Port     int
	StateTTL time.Duration
	Backend  string
}

const (
	// in seconds, for backend calls made on behalf of one request
	WaitTime = 20

	MBReconnInterval = 5

	// order persistence is best effort and gets a shorter budget
	PersistTimeout = 5 * time.Second

	OrderIDSpace  = 10000
	OrderIDPrefix = "ORD-"
	// draws tried against the backend before the order is kept locally only
	OrderIDAttempts = 20
	RecentOrders  = 5

	QRSettingKey = "payment_qr_code"

	DefaultProductImage   = "https://placehold.co/400"
	DefaultPromotionImage = "https://placehold.co/600x200"
	DefaultCalories       = "N/A"
	DefaultCategory       = "chicken"
	DefaultPickupTime     = "12:00"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)
