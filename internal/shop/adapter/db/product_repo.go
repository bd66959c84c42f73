package db

import (
	"context"
	"fmt"

	"naikai-shop/internal/shop/app/core"
	"naikai-shop/internal/shop/domain/models"
	"naikai-shop/internal/xpkg/tablestore"

	"github.com/google/uuid"
)

type productRow struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Price       float64                `json:"price"`
	Image       string                 `json:"image"`
	Category    string                 `json:"category"`
	Calories    string                 `json:"calories"`
	Options     []models.ProductOption `json:"options"`
}

func (r productRow) model() models.Product {
	return models.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Image:       r.Image,
		Category:    r.Category,
		Calories:    r.Calories,
		Options:     r.Options,
	}
}

type ProductRepo struct {
	store tablestore.TableStore
}

func NewProductRepo(store tablestore.TableStore) *ProductRepo {
	return &ProductRepo{store: store}
}

func (pr *ProductRepo) GetAll(ctx context.Context) ([]models.Product, error) {
	rows, err := pr.store.SelectAll(ctx, tablestore.Products, tablestore.Order{Column: "created_at"})
	if err != nil {
		return nil, err
	}
	decoded, err := fromRows[productRow](rows)
	if err != nil {
		return nil, fmt.Errorf("products: %w", err)
	}

	products := make([]models.Product, len(decoded))
	for i, r := range decoded {
		products[i] = r.model()
	}
	return products, nil
}

// Create inserts product under a fresh id and returns the stored product.
func (pr *ProductRepo) Create(ctx context.Context, product models.Product) (models.Product, error) {
	product.ID = uuid.NewString()
	row, err := toRow(productRow{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Image:       product.Image,
		Category:    product.Category,
		Calories:    product.Calories,
		Options:     product.Options,
	})
	if err != nil {
		return models.Product{}, err
	}

	if err := pr.store.Insert(ctx, tablestore.Products, row); err != nil {
		return models.Product{}, err
	}
	return product, nil
}

func (pr *ProductRepo) Delete(ctx context.Context, id string) error {
	n, err := pr.store.Delete(ctx, tablestore.Products, tablestore.Eq{Column: "id", Value: id})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", core.ErrProductNotFound, id)
	}
	return nil
}

func (pr *ProductRepo) Count(ctx context.Context) (int64, error) {
	return pr.store.Count(ctx, tablestore.Products)
}
