package handle

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"naikai-shop/internal/shop/app/core"
	"naikai-shop/internal/shop/app/services"
	"naikai-shop/internal/shop/domain/dto"
	"naikai-shop/internal/shop/domain/state"
	"naikai-shop/internal/xpkg/logger"
)

type ClientHandler struct {
	storefront *services.StorefrontService
	mylog      logger.Logger
}

func NewClientHandler(storefront *services.StorefrontService, mylog logger.Logger) *ClientHandler {
	return &ClientHandler{
		storefront: storefront,
		mylog:      mylog,
	}
}

// stateOp is a storefront call that yields the resulting client state.
type stateOp func(ctx context.Context, r *http.Request, id string) (*state.ClientState, error)

// run wraps op with the request timeout and the standard state response.
func (ch *ClientHandler) run(action string, op stateOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		id := r.PathValue("id")
		s, err := op(ctx, r, id)
		if err != nil {
			ch.mylog.Action(action).Debug("Client operation rejected", "client_id", id, "error", err.Error())
			stateError(w, err, s)
			return
		}
		jsonResponse(w, http.StatusOK, clientResponse(s, ""))
	}
}

func (ch *ClientHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := ch.storefront.NewClient(r.Context())
		if err != nil {
			stateError(w, err, nil)
			return
		}
		jsonResponse(w, http.StatusCreated, clientResponse(s, ""))
	}
}

func (ch *ClientHandler) Get() http.HandlerFunc {
	return ch.run("get_client", func(ctx context.Context, _ *http.Request, id string) (*state.ClientState, error) {
		return ch.storefront.Get(ctx, id)
	})
}

func (ch *ClientHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ch.storefront.DeleteClient(r.Context(), r.PathValue("id")); err != nil {
			stateError(w, err, nil)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (ch *ClientHandler) Navigate() http.HandlerFunc {
	return ch.run("navigate", func(ctx context.Context, r *http.Request, id string) (*state.ClientState, error) {
		var req dto.NavigateRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}
		return ch.storefront.Navigate(ctx, id, req.View)
	})
}

func (ch *ClientHandler) Back() http.HandlerFunc {
	return ch.run("back", func(ctx context.Context, _ *http.Request, id string) (*state.ClientState, error) {
		return ch.storefront.Back(ctx, id)
	})
}

func (ch *ClientHandler) Tab() http.HandlerFunc {
	return ch.run("select_tab", func(ctx context.Context, r *http.Request, id string) (*state.ClientState, error) {
		var req dto.TabRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}
		return ch.storefront.SelectTab(ctx, id, req.Tab)
	})
}

func (ch *ClientHandler) Login() http.HandlerFunc {
	return ch.run("login", func(ctx context.Context, r *http.Request, id string) (*state.ClientState, error) {
		var req dto.LoginRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}
		return ch.storefront.Login(ctx, id, req.Email, req.Password)
	})
}

func (ch *ClientHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.RegisterRequest
		if err := decode(w, r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		s, notice, err := ch.storefront.Register(ctx, r.PathValue("id"), req)
		if err != nil {
			stateError(w, err, s)
			return
		}
		jsonResponse(w, http.StatusOK, clientResponse(s, notice))
	}
}

func (ch *ClientHandler) AuthView() http.HandlerFunc {
	return ch.run("auth_view", func(ctx context.Context, r *http.Request, id string) (*state.ClientState, error) {
		var req dto.AuthViewRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}
		return ch.storefront.SetAuthView(ctx, id, req.View)
	})
}

func (ch *ClientHandler) Logout() http.HandlerFunc {
	return ch.run("logout", func(ctx context.Context, _ *http.Request, id string) (*state.ClientState, error) {
		return ch.storefront.Logout(ctx, id)
	})
}

func (ch *ClientHandler) SelectProduct() http.HandlerFunc {
	return ch.run("select_product", func(ctx context.Context, r *http.Request, id string) (*state.ClientState, error) {
		return ch.storefront.SelectProduct(ctx, id, r.PathValue("pid"))
	})
}

func (ch *ClientHandler) AddItem() http.HandlerFunc {
	return ch.run("add_to_cart", func(ctx context.Context, r *http.Request, id string) (*state.ClientState, error) {
		var req dto.AddToCartRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}
		return ch.storefront.AddToCart(ctx, id, req)
	})
}

func (ch *ClientHandler) RemoveItem() http.HandlerFunc {
	return ch.run("remove_from_cart", func(ctx context.Context, r *http.Request, id string) (*state.ClientState, error) {
		return ch.storefront.RemoveFromCart(ctx, id, r.PathValue("cartId"))
	})
}

func (ch *ClientHandler) OpenCart() http.HandlerFunc {
	return ch.run("open_cart", func(ctx context.Context, _ *http.Request, id string) (*state.ClientState, error) {
		return ch.storefront.OpenCart(ctx, id)
	})
}

func (ch *ClientHandler) Checkout() http.HandlerFunc {
	return ch.run("checkout", func(ctx context.Context, _ *http.Request, id string) (*state.ClientState, error) {
		return ch.storefront.Checkout(ctx, id)
	})
}

func (ch *ClientHandler) PlaceOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := ch.mylog.Action("place_order")

		var form dto.CheckoutForm
		if err := decode(w, r, &form); err != nil {
			mylog.Error("Failed to parse checkout form", err)
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		order, s, err := ch.storefront.PlaceOrder(ctx, r.PathValue("id"), form)
		if err != nil {
			stateError(w, err, s)
			return
		}

		jsonResponse(w, http.StatusCreated, dto.OrderResponse{Order: order, Client: s})
	}
}

func (ch *ClientHandler) Orders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := ch.storefront.Orders(r.Context(), r.PathValue("id"))
		if err != nil {
			stateError(w, err, nil)
			return
		}
		jsonResponse(w, http.StatusOK, orders)
	}
}

// decodeBody decodes an optional JSON body; an empty body leaves v zero.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return errBadJSON
	}
	return nil
}
