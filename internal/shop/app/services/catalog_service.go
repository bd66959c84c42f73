package services

import (
	"context"
	"sync"

	"naikai-shop/internal/shop/app/core"
	"naikai-shop/internal/shop/domain/models"
	"naikai-shop/internal/shop/domain/sample"
	"naikai-shop/internal/xpkg/logger"
	"naikai-shop/internal/xpkg/tablestore"

	"golang.org/x/sync/errgroup"
)

// Catalog is what the storefront sells. ProductsFallback and
// PromotionsFallback are set when the built-in sample content is shown.
type Catalog struct {
	Products           []models.Product
	Promotions         []models.Promotion
	ProductsFallback   bool
	PromotionsFallback bool
}

// CatalogService holds the catalog shared by every client.
type CatalogService struct {
	products   core.IProductRepo
	promotions core.IPromotionRepo
	mylog      logger.Logger

	mu      sync.RWMutex
	current Catalog
}

func NewCatalogService(products core.IProductRepo, promotions core.IPromotionRepo, mylog logger.Logger) *CatalogService {
	return &CatalogService{
		products:   products,
		promotions: promotions,
		mylog:      mylog,
		current: Catalog{
			Products:           sample.Products(),
			Promotions:         sample.Promotions(),
			ProductsFallback:   true,
			PromotionsFallback: true,
		},
	}
}

// Load fetches products and promotions concurrently. Either one that fails or
// comes back empty is replaced by the sample content; Load itself never fails.
func (cs *CatalogService) Load(ctx context.Context) Catalog {
	mylog := cs.mylog.Action("catalog_load")

	var next Catalog
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		products, err := cs.products.GetAll(gctx)
		if err != nil {
			logFetchFailure(mylog, "products", err)
		}
		if len(products) == 0 {
			products = sample.Products()
			next.ProductsFallback = true
		}
		next.Products = products
		return nil
	})

	g.Go(func() error {
		promos, err := cs.promotions.GetAll(gctx)
		if err != nil {
			logFetchFailure(mylog, "promotions", err)
		}
		if len(promos) == 0 {
			promos = sample.Promotions()
			next.PromotionsFallback = true
		}
		next.Promotions = promos
		return nil
	})

	_ = g.Wait()

	cs.mu.Lock()
	cs.current = next
	cs.mu.Unlock()

	mylog.Info("Catalog loaded",
		"products", len(next.Products), "promotions", len(next.Promotions),
		"products_fallback", next.ProductsFallback, "promotions_fallback", next.PromotionsFallback)
	return cs.Snapshot()
}

// Snapshot returns a copy of the current catalog.
func (cs *CatalogService) Snapshot() Catalog {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	out := cs.current
	out.Products = make([]models.Product, len(cs.current.Products))
	for i, p := range cs.current.Products {
		out.Products[i] = p.Clone()
	}
	out.Promotions = append([]models.Promotion(nil), cs.current.Promotions...)
	return out
}

func (cs *CatalogService) Product(id string) (models.Product, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	for _, p := range cs.current.Products {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return models.Product{}, false
}

// logFetchFailure keeps missing tables quiet and logs everything else.
func logFetchFailure(mylog logger.Logger, resource string, err error) {
	if tablestore.IsTableMissing(err) {
		mylog.Debug("Table is not provisioned, using defaults", "resource", resource)
		return
	}
	mylog.Error("Failed to fetch "+resource, err)
}
