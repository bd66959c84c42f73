package db

import (
	"context"
	"fmt"

	"naikai-shop/internal/shop/app/core"
	"naikai-shop/internal/shop/domain/models"
	"naikai-shop/internal/xpkg/tablestore"

	"github.com/google/uuid"
)

type promotionRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Code        string `json:"code,omitempty"`
	Active      bool   `json:"active"`
}

type PromotionRepo struct {
	store tablestore.TableStore
}

func NewPromotionRepo(store tablestore.TableStore) *PromotionRepo {
	return &PromotionRepo{store: store}
}

func (pr *PromotionRepo) GetAll(ctx context.Context) ([]models.Promotion, error) {
	rows, err := pr.store.SelectAll(ctx, tablestore.Promotions, tablestore.Order{Column: "created_at"})
	if err != nil {
		return nil, err
	}
	decoded, err := fromRows[promotionRow](rows)
	if err != nil {
		return nil, fmt.Errorf("promotions: %w", err)
	}

	promos := make([]models.Promotion, len(decoded))
	for i, r := range decoded {
		promos[i] = models.Promotion(r)
	}
	return promos, nil
}

func (pr *PromotionRepo) Create(ctx context.Context, promo models.Promotion) (models.Promotion, error) {
	promo.ID = uuid.NewString()
	row, err := toRow(promotionRow(promo))
	if err != nil {
		return models.Promotion{}, err
	}
	if err := pr.store.Insert(ctx, tablestore.Promotions, row); err != nil {
		return models.Promotion{}, err
	}
	return promo, nil
}

func (pr *PromotionRepo) Delete(ctx context.Context, id string) error {
	n, err := pr.store.Delete(ctx, tablestore.Promotions, tablestore.Eq{Column: "id", Value: id})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", core.ErrPromotionNotFound, id)
	}
	return nil
}
