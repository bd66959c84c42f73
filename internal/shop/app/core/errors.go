package core

import "errors"

var (
	ErrParseCmd = errors.New("cannot parse arguments")
	ErrHelp     = errors.New("")

	ErrDBConn    = errors.New("db connection failure")
	ErrRMQConn   = errors.New("rabbitmq connection failure")
	ErrRedisConn = errors.New("redis connection failure")

	ErrClientNotFound    = errors.New("client not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrPromotionNotFound = errors.New("promotion not found")

	ErrNoProductSelected     = errors.New("no product selected")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrNotLoggedIn           = errors.New("sign in to place an order")
	ErrAdminOnly             = errors.New("admin only")
	ErrProductFieldsRequired = errors.New("name and price are required")
	ErrInvalidPrice          = errors.New("price must not be negative")
	ErrUnknownPayment        = errors.New("unknown payment method")
	ErrUnknownDelivery       = errors.New("unknown delivery method")

	// Backend write failures, named after the action that failed.
	ErrStatusUpdate     = errors.New("failed to update order status")
	ErrSaveProduct      = errors.New("failed to save product")
	ErrDeleteProduct    = errors.New("failed to delete product")
	ErrSavePromotion    = errors.New("failed to save promotion")
	ErrDeletePromotion  = errors.New("failed to delete promotion")
	ErrUploadQR         = errors.New("failed to save QR code")
	ErrConnectionFailed = errors.New("backend connection failed")

	ErrSettingsTableMissing = errors.New("app_settings table is missing, run the schema first")
	ErrTablesMissing        = errors.New("tables are missing, run the schema first")
)

var ErrUnknownCategory = errors.New("unknown category")
