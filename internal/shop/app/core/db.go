package core

import (
	"context"

	"naikai-shop/internal/shop/domain/models"
)

type IProductRepo interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, product models.Product) (models.Product, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type IOrderRepo interface {
	GetAll(ctx context.Context) ([]models.Order, error)
	Get(ctx context.Context, id string) (models.Order, error)
	Create(ctx context.Context, order models.Order) error
	UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) error
}

type IPromotionRepo interface {
	GetAll(ctx context.Context) ([]models.Promotion, error)
	Create(ctx context.Context, promo models.Promotion) (models.Promotion, error)
	Delete(ctx context.Context, id string) error
}

type ISettingsRepo interface {
	GetQRCode(ctx context.Context) (string, error)
	UpsertQRCode(ctx context.Context, image string) error
}
