package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"naikai-shop/internal/shop/app/core"
	"naikai-shop/internal/shop/domain/dto"
	"naikai-shop/internal/shop/domain/lifecycle"
	"naikai-shop/internal/shop/domain/models"
	"naikai-shop/internal/xpkg/events"
	"naikai-shop/internal/xpkg/logger"
	"naikai-shop/internal/xpkg/tablestore"

	"golang.org/x/sync/errgroup"
)

// AdminService is the back office. Every write is followed by a full dataset
// re-fetch instead of patching what the caller has.
type AdminService struct {
	states     core.IStateStore
	catalog    *CatalogService
	orders     core.IOrderRepo
	products   core.IProductRepo
	promotions core.IPromotionRepo
	settings   core.ISettingsRepo
	publisher  core.IPublisher
	mylog      logger.Logger

	now func() time.Time
}

func NewAdminService(
	states core.IStateStore,
	catalog *CatalogService,
	orders core.IOrderRepo,
	products core.IProductRepo,
	promotions core.IPromotionRepo,
	settings core.ISettingsRepo,
	publisher core.IPublisher,
	mylog logger.Logger,
) *AdminService {
	return &AdminService{
		states:     states,
		catalog:    catalog,
		orders:     orders,
		products:   products,
		promotions: promotions,
		settings:   settings,
		publisher:  publisher,
		mylog:      mylog,
		now:        time.Now,
	}
}

// Authorize returns the signed-in admin of client id.
func (as *AdminService) Authorize(ctx context.Context, id string) (models.User, error) {
	s, err := as.states.Load(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if s.User == nil || !s.User.IsAdmin() {
		as.mylog.Action("admin_denied").Warn("Non-admin client tried the back office", "client_id", id)
		return models.User{}, core.ErrAdminOnly
	}
	return *s.User, nil
}

// FetchDataset loads orders, products, promotions and the QR image at once.
// A part that fails comes back empty without affecting the others.
func (as *AdminService) FetchDataset(ctx context.Context) dto.Dataset {
	mylog := as.mylog.Action("admin_fetch")

	ds := dto.Dataset{
		Orders:     []models.Order{},
		Products:   []models.Product{},
		Promotions: []models.Promotion{},
	}

	var g errgroup.Group
	g.Go(func() error {
		orders, err := as.orders.GetAll(ctx)
		if err != nil {
			logFetchFailure(mylog, "orders", err)
			return nil
		}
		ds.Orders = orders
		return nil
	})
	g.Go(func() error {
		products, err := as.products.GetAll(ctx)
		if err != nil {
			logFetchFailure(mylog, "products", err)
			return nil
		}
		ds.Products = products
		return nil
	})
	g.Go(func() error {
		promos, err := as.promotions.GetAll(ctx)
		if err != nil {
			logFetchFailure(mylog, "promotions", err)
			return nil
		}
		ds.Promotions = promos
		return nil
	})
	g.Go(func() error {
		qr, err := as.settings.GetQRCode(ctx)
		if err != nil {
			logFetchFailure(mylog, "qr code", err)
			return nil
		}
		ds.QRCode = qr
		return nil
	})
	_ = g.Wait()

	mylog.Debug("Admin dataset fetched",
		"orders", len(ds.Orders), "products", len(ds.Products), "promotions", len(ds.Promotions))
	return ds
}

func (as *AdminService) Dashboard(ctx context.Context) dto.Dashboard {
	ds := as.FetchDataset(ctx)

	d := dto.Dashboard{
		OrderCount:   len(ds.Orders),
		ProductCount: len(ds.Products),
		RecentOrders: ds.Orders[:min(len(ds.Orders), core.RecentOrders)],
	}
	for _, o := range ds.Orders {
		if o.Status != models.StatusCancelled {
			d.TotalSales += o.TotalPrice
		}
		if o.Status == models.StatusPendingPayment {
			d.PendingOrders++
		}
	}
	return d
}

// ChangeStatus applies an admin action to an order. Nothing changes when the
// action is not allowed from the order's status or the backend write fails.
func (as *AdminService) ChangeStatus(ctx context.Context, admin models.User, orderID, action string) (dto.Dataset, error) {
	mylog := as.mylog.Action("change_status").With("order_id", orderID, "action", action)

	a, err := lifecycle.ParseAction(action)
	if err != nil {
		return dto.Dataset{}, err
	}

	order, err := as.orders.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, core.ErrOrderNotFound) {
			return dto.Dataset{}, err
		}
		mylog.Error("Failed to load order", err)
		return dto.Dataset{}, fmt.Errorf("%w: %v", core.ErrStatusUpdate, err)
	}

	next, err := lifecycle.Next(order.Status, a)
	if err != nil {
		mylog.Warn("Rejected status transition", "from", order.Status)
		return dto.Dataset{}, err
	}

	if err := as.orders.UpdateStatus(ctx, orderID, order.Status, next); err != nil {
		if errors.Is(err, lifecycle.ErrInvalidTransition) || errors.Is(err, core.ErrOrderNotFound) {
			mylog.Warn("Order changed before the update", "from", order.Status, "error", err.Error())
			return dto.Dataset{}, err
		}
		mylog.Error("Failed to update order status", err)
		return dto.Dataset{}, fmt.Errorf("%w: %v", core.ErrStatusUpdate, err)
	}
	mylog.Info("Order status changed", "from", order.Status, "to", next)

	event := events.NewOrderEvent(order.ID, order.CustomerName, string(order.Status), string(next), admin.Name, order.TotalPrice, as.now())
	if err := as.publisher.PublishOrderEvent(ctx, event); err != nil {
		mylog.Error("Failed to publish status change", err)
	}

	return as.FetchDataset(ctx), nil
}

func (as *AdminService) AddProduct(ctx context.Context, form dto.ProductForm) (dto.Dataset, error) {
	mylog := as.mylog.Action("add_product")

	if strings.TrimSpace(form.Name) == "" || form.Price == nil {
		return dto.Dataset{}, core.ErrProductFieldsRequired
	}
	if *form.Price < 0 {
		return dto.Dataset{}, fmt.Errorf("%w: %v", core.ErrInvalidPrice, *form.Price)
	}

	p := models.Product{
		Name:        strings.TrimSpace(form.Name),
		Description: form.Description,
		Price:       *form.Price,
		Image:       orDefault(form.Image, core.DefaultProductImage),
		Category:    orDefault(form.Category, core.DefaultCategory),
		Calories:    orDefault(form.Calories, core.DefaultCalories),
		Options:     form.Options,
	}
	if !knownCategory(p.Category) {
		return dto.Dataset{}, fmt.Errorf("%w: %q", core.ErrUnknownCategory, p.Category)
	}

	created, err := as.products.Create(ctx, p)
	if err != nil {
		mylog.Error("Failed to save product", err)
		return dto.Dataset{}, fmt.Errorf("%w: %v", core.ErrSaveProduct, err)
	}
	mylog.Info("Product added", "product_id", created.ID, "name", created.Name)

	return as.refresh(ctx), nil
}

func (as *AdminService) DeleteProduct(ctx context.Context, id string) (dto.Dataset, error) {
	mylog := as.mylog.Action("delete_product").With("product_id", id)

	if err := as.products.Delete(ctx, id); err != nil {
		if errors.Is(err, core.ErrProductNotFound) {
			return dto.Dataset{}, err
		}
		mylog.Error("Failed to delete product", err)
		return dto.Dataset{}, fmt.Errorf("%w: %v", core.ErrDeleteProduct, err)
	}
	mylog.Info("Product deleted")

	return as.refresh(ctx), nil
}

func (as *AdminService) AddPromotion(ctx context.Context, form dto.PromotionForm) (dto.Dataset, error) {
	mylog := as.mylog.Action("add_promotion")

	promo, err := as.promotions.Create(ctx, models.Promotion{
		Title:       form.Title,
		Description: form.Description,
		Image:       orDefault(form.Image, core.DefaultPromotionImage),
		Code:        form.Code,
		Active:      true,
	})
	if err != nil {
		mylog.Error("Failed to save promotion", err)
		return dto.Dataset{}, fmt.Errorf("%w: %v", core.ErrSavePromotion, err)
	}
	mylog.Info("Promotion added", "promotion_id", promo.ID)

	return as.refresh(ctx), nil
}

func (as *AdminService) DeletePromotion(ctx context.Context, id string) (dto.Dataset, error) {
	mylog := as.mylog.Action("delete_promotion").With("promotion_id", id)

	if err := as.promotions.Delete(ctx, id); err != nil {
		if errors.Is(err, core.ErrPromotionNotFound) {
			return dto.Dataset{}, err
		}
		mylog.Error("Failed to delete promotion", err)
		return dto.Dataset{}, fmt.Errorf("%w: %v", core.ErrDeletePromotion, err)
	}
	mylog.Info("Promotion deleted")

	return as.refresh(ctx), nil
}

// UploadQR stores the payment QR image inline in app_settings.
func (as *AdminService) UploadQR(ctx context.Context, image string) (dto.Dataset, error) {
	mylog := as.mylog.Action("upload_qr")

	if err := as.settings.UpsertQRCode(ctx, image); err != nil {
		if tablestore.IsTableMissing(err) {
			mylog.Warn("app_settings table is missing")
			return dto.Dataset{}, core.ErrSettingsTableMissing
		}
		mylog.Error("Failed to save QR code", err)
		return dto.Dataset{}, fmt.Errorf("%w: %v", core.ErrUploadQR, err)
	}
	mylog.Info("QR code uploaded", "size", len(image))

	return as.FetchDataset(ctx), nil
}

// CheckConnection counts products to prove the backend answers.
func (as *AdminService) CheckConnection(ctx context.Context) (int64, error) {
	n, err := as.products.Count(ctx)
	if err != nil {
		if tablestore.IsTableMissing(err) {
			return 0, core.ErrTablesMissing
		}
		as.mylog.Action("check_connection").Error("Backend connection failed", err)
		return 0, fmt.Errorf("%w: %v", core.ErrConnectionFailed, err)
	}
	return n, nil
}

// Schema is the SQL that provisions the backend tables.
func (as *AdminService) Schema() string {
	return tablestore.Schema()
}

// refresh reloads the storefront catalog after a catalog write and returns
// the new admin dataset.
func (as *AdminService) refresh(ctx context.Context) dto.Dataset {
	as.catalog.Load(ctx)
	return as.FetchDataset(ctx)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func knownCategory(id string) bool {
	for _, c := range models.Categories {
		if c.ID == id && c.ID != "all" {
			return true
		}
	}
	return false
}
