package handle

import (
	"context"
	"net/http"
	"time"

	"naikai-shop/internal/shop/app/core"
	"naikai-shop/internal/shop/app/services"
	"naikai-shop/internal/shop/domain/dto"
	"naikai-shop/internal/shop/domain/models"
	"naikai-shop/internal/xpkg/logger"
)

type AdminHandler struct {
	admin *services.AdminService
	mylog logger.Logger
}

func NewAdminHandler(admin *services.AdminService, mylog logger.Logger) *AdminHandler {
	return &AdminHandler{
		admin: admin,
		mylog: mylog,
	}
}

type adminFunc func(ctx context.Context, w http.ResponseWriter, r *http.Request, admin models.User)

// requireAdmin runs next only when client {id} is signed in as the admin.
func (ah *AdminHandler) requireAdmin(next adminFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		admin, err := ah.admin.Authorize(ctx, r.PathValue("id"))
		if err != nil {
			stateError(w, err, nil)
			return
		}
		next(ctx, w, r, admin)
	}
}

func (ah *AdminHandler) Dataset() http.HandlerFunc {
	return ah.requireAdmin(func(ctx context.Context, w http.ResponseWriter, _ *http.Request, _ models.User) {
		jsonResponse(w, http.StatusOK, ah.admin.FetchDataset(ctx))
	})
}

func (ah *AdminHandler) Dashboard() http.HandlerFunc {
	return ah.requireAdmin(func(ctx context.Context, w http.ResponseWriter, _ *http.Request, _ models.User) {
		jsonResponse(w, http.StatusOK, ah.admin.Dashboard(ctx))
	})
}

func (ah *AdminHandler) ChangeStatus() http.HandlerFunc {
	return ah.requireAdmin(func(ctx context.Context, w http.ResponseWriter, r *http.Request, admin models.User) {
		var req dto.StatusRequest
		if err := decode(w, r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		ds, err := ah.admin.ChangeStatus(ctx, admin, r.PathValue("oid"), req.Action)
		if err != nil {
			stateError(w, err, nil)
			return
		}
		jsonResponse(w, http.StatusOK, ds)
	})
}

func (ah *AdminHandler) AddProduct() http.HandlerFunc {
	return ah.requireAdmin(func(ctx context.Context, w http.ResponseWriter, r *http.Request, _ models.User) {
		var form dto.ProductForm
		if err := decode(w, r, &form); err != nil {
			ah.mylog.Action("add_product").Error("Failed to parse product form", err)
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		ds, err := ah.admin.AddProduct(ctx, form)
		if err != nil {
			stateError(w, err, nil)
			return
		}
		jsonResponse(w, http.StatusCreated, ds)
	})
}

func (ah *AdminHandler) DeleteProduct() http.HandlerFunc {
	return ah.requireAdmin(func(ctx context.Context, w http.ResponseWriter, r *http.Request, _ models.User) {
		ds, err := ah.admin.DeleteProduct(ctx, r.PathValue("pid"))
		if err != nil {
			stateError(w, err, nil)
			return
		}
		jsonResponse(w, http.StatusOK, ds)
	})
}

func (ah *AdminHandler) AddPromotion() http.HandlerFunc {
	return ah.requireAdmin(func(ctx context.Context, w http.ResponseWriter, r *http.Request, _ models.User) {
		var form dto.PromotionForm
		if err := decode(w, r, &form); err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		ds, err := ah.admin.AddPromotion(ctx, form)
		if err != nil {
			stateError(w, err, nil)
			return
		}
		jsonResponse(w, http.StatusCreated, ds)
	})
}

func (ah *AdminHandler) DeletePromotion() http.HandlerFunc {
	return ah.requireAdmin(func(ctx context.Context, w http.ResponseWriter, r *http.Request, _ models.User) {
		ds, err := ah.admin.DeletePromotion(ctx, r.PathValue("pid"))
		if err != nil {
			stateError(w, err, nil)
			return
		}
		jsonResponse(w, http.StatusOK, ds)
	})
}

func (ah *AdminHandler) UploadQR() http.HandlerFunc {
	return ah.requireAdmin(func(ctx context.Context, w http.ResponseWriter, r *http.Request, _ models.User) {
		var req dto.QRRequest
		if err := decode(w, r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		ds, err := ah.admin.UploadQR(ctx, req.Image)
		if err != nil {
			stateError(w, err, nil)
			return
		}
		jsonResponse(w, http.StatusOK, ds)
	})
}

func (ah *AdminHandler) Connection() http.HandlerFunc {
	return ah.requireAdmin(func(ctx context.Context, w http.ResponseWriter, _ *http.Request, _ models.User) {
		n, err := ah.admin.CheckConnection(ctx)
		if err != nil {
			stateError(w, err, nil)
			return
		}
		jsonResponse(w, http.StatusOK, dto.ConnectionResponse{Connected: true, ProductCount: n})
	})
}

func (ah *AdminHandler) Schema() http.HandlerFunc {
	return ah.requireAdmin(func(_ context.Context, w http.ResponseWriter, _ *http.Request, _ models.User) {
		jsonResponse(w, http.StatusOK, dto.SchemaResponse{SQL: ah.admin.Schema()})
	})
}
